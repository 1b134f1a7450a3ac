package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TrackingMode says how sets of an exercise are measured.
type TrackingMode string

const (
	TrackWeight   TrackingMode = "weight"
	TrackDistance TrackingMode = "distance"
)

// SetKind controls whether a set counts toward totals under a given policy.
type SetKind string

const (
	SetMain     SetKind = "main"
	SetWarmUp   SetKind = "warmUp"
	SetDropSet  SetKind = "dropSet"
	SetCoolDown SetKind = "coolDown"
)

// ParseSetKind validates a stored set kind.
func ParseSetKind(s string) (SetKind, error) {
	switch k := SetKind(s); k {
	case SetMain, SetWarmUp, SetDropSet, SetCoolDown:
		return k, nil
	}
	return "", fmt.Errorf("unknown set kind %q", s)
}

// RepMeasure tags what one "rep" of a weight-based set counts.
type RepMeasure string

const (
	MeasureReps    RepMeasure = "reps"
	MeasureSeconds RepMeasure = "seconds"
)

// Exercise is a movement that history references. Immutable once used.
type Exercise struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	MuscleGroup MuscleGroup  `json:"muscle_group"`
	Tracking    TrackingMode `json:"tracking"`
}

// SetTemplate is one planned set of an exercise instance.
type SetTemplate struct {
	Kind           SetKind `json:"kind"`
	TargetReps     int     `json:"target_reps,omitempty"`
	TargetWeight   float64 `json:"target_weight,omitempty"`
	TargetDistance float64 `json:"target_distance,omitempty"`
}

// ExerciseInstance binds an exercise to the ordered sets planned for it.
type ExerciseInstance struct {
	Exercise *Exercise     `json:"exercise"`
	Sets     []SetTemplate `json:"sets"`
}

// WorkoutDefinition is a reusable plan, not a historical record.
type WorkoutDefinition struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Exercises []ExerciseInstance `json:"exercises"`
}

// SetRecord is one performed (or skipped) set.
type SetRecord struct {
	ID        uuid.UUID  `json:"id"`
	Kind      SetKind    `json:"kind"`
	Completed bool       `json:"completed"`
	Skipped   bool       `json:"skipped"`
	Start     time.Time  `json:"start"`
	End       time.Time  `json:"end"`
	Unit      UnitSystem `json:"unit"`

	// Weight-based payload.
	Reps       int        `json:"reps,omitempty"`
	Weight     float64    `json:"weight,omitempty"`
	RepMeasure RepMeasure `json:"rep_measure,omitempty"`

	// Distance-based payload.
	Elapsed  time.Duration `json:"elapsed,omitempty"`
	Distance float64       `json:"distance,omitempty"`
}

// ExerciseSession is one exercise performed within a WorkoutSession.
// Exercise is nil when the referenced exercise has been deleted.
type ExerciseSession struct {
	ID       uuid.UUID   `json:"id"`
	Exercise *Exercise   `json:"exercise"`
	Sets     []SetRecord `json:"sets"`
}

// Completed reports whether every set was either completed or skipped.
func (es *ExerciseSession) Completed() bool {
	if len(es.Sets) == 0 {
		return false
	}
	for _, s := range es.Sets {
		if !s.Completed && !s.Skipped {
			return false
		}
	}
	return true
}

// WorkoutSession is one occurrence of a WorkoutDefinition. Definition is nil
// when the definition has been deleted since the session was recorded.
type WorkoutSession struct {
	ID         uuid.UUID          `json:"id"`
	Definition *WorkoutDefinition `json:"definition"`
	Started    bool               `json:"started"`
	Completed  bool               `json:"completed"`
	Start      time.Time          `json:"start"`
	End        time.Time          `json:"end"`
	Exercises  []ExerciseSession  `json:"exercises"`
}

// Elapsed is the session length, or zero when End is unset or precedes Start.
func (ws *WorkoutSession) Elapsed() time.Duration {
	if ws.End.IsZero() || ws.End.Before(ws.Start) {
		return 0
	}
	return ws.End.Sub(ws.Start)
}

// InclusionFlags decide which non-main set kinds count toward totals.
type InclusionFlags struct {
	IncludeWarmUp   bool `json:"include_warmup" yaml:"include_warmup"`
	IncludeDropSet  bool `json:"include_drop_set" yaml:"include_drop_set"`
	IncludeCoolDown bool `json:"include_cool_down" yaml:"include_cool_down"`
}

// Counts reports whether a set of the given kind contributes to totals.
func (f InclusionFlags) Counts(kind SetKind) bool {
	switch kind {
	case SetMain:
		return true
	case SetWarmUp:
		return f.IncludeWarmUp
	case SetDropSet:
		return f.IncludeDropSet
	case SetCoolDown:
		return f.IncludeCoolDown
	}
	return false
}

// SetValue is the effective contribution of one set record after unit
// conversion. Weight is volume (reps x converted weight).
type SetValue struct {
	Reps     float64
	Weight   float64
	Distance float64
	Duration float64 // seconds
}

// Value converts the record into the target units. Weight-tracked records
// contribute reps and volume, distance-tracked records contribute distance
// and elapsed seconds.
func (s SetRecord) Value(mode TrackingMode, weightUnit WeightUnit, distanceUnit DistanceUnit) SetValue {
	if mode == TrackDistance {
		return SetValue{
			Distance: ConvertDistance(s.Distance, s.Unit.DistanceUnit(), distanceUnit),
			Duration: s.Elapsed.Seconds(),
		}
	}
	reps := float64(s.Reps)
	return SetValue{
		Reps:   reps,
		Weight: reps * ConvertWeight(s.Weight, s.Unit.WeightUnit(), weightUnit),
	}
}
