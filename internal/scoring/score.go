// Package scoring rates one completed workout session on a 0-100 scale.
//
// The score is the geometric mean of four sub-scores (volume, intensity,
// efficiency, diversity). A zero in any of them makes the whole score zero.
package scoring

import (
	"math"

	"github.com/claude/liftstats/internal/models"
	"github.com/google/uuid"
)

// policy is the fixed set-kind baseline for every score, independent of user
// display preferences.
var policy = models.InclusionFlags{
	IncludeWarmUp:   false,
	IncludeDropSet:  true,
	IncludeCoolDown: false,
}

// optimalMinutes is where the efficiency decay factor peaks.
const optimalMinutes = 75.0

// Input holds the session figures the formula is computed from.
type Input struct {
	// TotalWeight is the volume (reps x kg) of counted sets.
	TotalWeight float64
	// TotalReps is the repetitions of counted sets.
	TotalReps float64
	// DurationMinutes is floored at 1.
	DurationMinutes float64
	MuscleGroups    int
	Exercises       int
	// CompletedSets lists every completed weight-based set.
	CompletedSets []SetSample
}

// SetSample is one completed set as used by the intensity score.
type SetSample struct {
	Weight float64
	Reps   float64
}

// Result is the score together with its sub-scores.
type Result struct {
	Score      int     `json:"score"`
	Volume     float64 `json:"volume"`
	Intensity  float64 `json:"intensity"`
	Efficiency float64 `json:"efficiency"`
	Diversity  float64 `json:"diversity"`
}

// Score returns the session's quality score in [0, 100].
func Score(s *models.WorkoutSession) int {
	return Compute(Extract(s)).Score
}

// Extract reduces a session to the figures Compute needs. Weights are
// normalised to kilograms; exercise sessions without an exercise are ignored.
func Extract(s *models.WorkoutSession) Input {
	in := Input{
		DurationMinutes: math.Max(1.0, s.Elapsed().Seconds()/60),
	}
	var groups models.MuscleGroupSet
	exercises := make(map[uuid.UUID]struct{})

	for _, es := range s.Exercises {
		ex := es.Exercise
		if ex == nil {
			continue
		}
		for _, set := range es.Sets {
			if ex.Tracking == models.TrackWeight && set.Completed && !set.Skipped {
				in.CompletedSets = append(in.CompletedSets, SetSample{
					Weight: models.ConvertWeight(set.Weight, set.Unit.WeightUnit(), models.Kilograms),
					Reps:   float64(set.Reps),
				})
			}
			if !policy.Counts(set.Kind) {
				continue
			}
			v := set.Value(ex.Tracking, models.Kilograms, models.Kilometers)
			in.TotalWeight += v.Weight
			in.TotalReps += v.Reps
			groups.Add(ex.MuscleGroup.Assignable())
			exercises[ex.ID] = struct{}{}
		}
	}
	in.MuscleGroups = groups.Len()
	in.Exercises = len(exercises)
	return in
}

// Compute applies the scoring formula.
//
//	density    = totalWeight * totalReps / minutes
//	volume     = clamp(0, 100, (log10(max(1, density)) - 1) * 33.33)
//	intensity  = min(100, 100 * mean(w*r / (w*r*(1 + r/30))))
//	efficiency = clamp(0, 100, (log10(max(1, density)) - 2) * 25) * decay(minutes)
//	diversity  = clamp(10, 60, g*12 - g^1.5) + clamp(0, 40, e*6 - e^1.2)
//	score      = round((volume * intensity * efficiency * diversity)^(1/4))
func Compute(in Input) Result {
	minutes := math.Max(1.0, in.DurationMinutes)
	logDensity := math.Log10(math.Max(1, in.TotalWeight*in.TotalReps/minutes))

	r := Result{
		Volume:     clamp(0, 100, (logDensity-1)*33.33),
		Intensity:  intensity(in.CompletedSets),
		Efficiency: clamp(0, 100, (logDensity-2)*25) * durationDecay(minutes),
		Diversity:  diversity(in.MuscleGroups, in.Exercises),
	}
	product := r.Volume * r.Intensity * r.Efficiency * r.Diversity
	r.Score = int(clamp(0, 100, math.Round(math.Pow(product, 0.25))))
	return r
}

// intensity averages the per-set relative effort. The weight term cancels
// out, so only reps per set matter; heavier loads do not raise the score.
func intensity(sets []SetSample) float64 {
	if len(sets) == 0 {
		return 0
	}
	var sum float64
	for _, s := range sets {
		sum += 1 / (1 + s.Reps/30)
	}
	return math.Min(100, sum/float64(len(sets))*100)
}

// durationDecay is a bell-shaped factor in (0, 1] that peaks at 75 minutes.
func durationDecay(minutes float64) float64 {
	d := minutes/optimalMinutes - 1
	return 1 / (1 + d*d)
}

func diversity(muscleGroups, exercises int) float64 {
	g := float64(muscleGroups)
	e := float64(exercises)
	return clamp(10, 60, g*12-math.Pow(g, 1.5)) + clamp(0, 40, e*6-math.Pow(e, 1.2))
}

func clamp(lo, hi, v float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
