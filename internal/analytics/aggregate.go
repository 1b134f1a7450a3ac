package analytics

import (
	"github.com/claude/liftstats/internal/models"
	"github.com/google/uuid"
)

// Options are the inputs of an aggregation run besides the sessions.
type Options struct {
	Flags        models.InclusionFlags `json:"flags"`
	WeightUnit   models.WeightUnit     `json:"weight_unit"`
	DistanceUnit models.DistanceUnit   `json:"distance_unit"`
}

// Aggregate runs one pass over sessions and returns an immutable Snapshot.
//
// Only started sessions take part. A session whose definition was deleted,
// or an exercise session whose exercise was deleted, contributes nothing.
// Every counted set is converted to the target units before it is added.
func Aggregate(sessions []models.WorkoutSession, flags models.InclusionFlags, weightUnit models.WeightUnit, distanceUnit models.DistanceUnit) *Snapshot {
	a := newAggregator(Options{Flags: flags, WeightUnit: weightUnit, DistanceUnit: distanceUnit})
	for i := range sessions {
		a.addSession(&sessions[i])
	}
	return a.snapshot()
}

// Metric selects one breakdown of a Scope.
type Metric int

const (
	MetricReps Metric = iota
	MetricWeight
	MetricDistance
	MetricDuration
	metricCount
)

var metricNames = [metricCount]string{"reps", "weight", "distance", "duration"}

func (m Metric) String() string {
	if m < 0 || m >= metricCount {
		return "unknown"
	}
	return metricNames[m]
}

type scopeBuilder struct {
	metrics [metricCount]breakdownBuilder
}

func (sb *scopeBuilder) add(g models.MuscleGroup, mode models.TrackingMode, v models.SetValue) {
	if mode == models.TrackDistance {
		sb.metrics[MetricDistance].add(g, v.Distance)
		sb.metrics[MetricDuration].add(g, v.Duration)
		return
	}
	sb.metrics[MetricReps].add(g, v.Reps)
	sb.metrics[MetricWeight].add(g, v.Weight)
}

func (sb *scopeBuilder) flush() {
	for i := range sb.metrics {
		sb.metrics[i].flush()
	}
}

func (sb *scopeBuilder) build() *Scope {
	s := &Scope{}
	for i := range sb.metrics {
		s.breakdowns[i] = sb.metrics[i].build()
	}
	return s
}

type aggregator struct {
	opts Options

	overall      scopeBuilder
	byDefinition map[uuid.UUID]*scopeBuilder
	byExercise   map[uuid.UUID]*scopeBuilder

	definitionTotals map[uuid.UUID]*DefinitionTotals
	exerciseTotals   map[uuid.UUID]*ExerciseTotals

	definitions  []NamedKey
	exercises    []NamedKey
	muscleGroups []models.MuscleGroup
	seenGroups   models.MuscleGroupSet

	sessions int
}

func newAggregator(opts Options) *aggregator {
	if opts.WeightUnit == "" {
		opts.WeightUnit = models.Kilograms
	}
	if opts.DistanceUnit == "" {
		opts.DistanceUnit = models.Kilometers
	}
	return &aggregator{
		opts:             opts,
		byDefinition:     make(map[uuid.UUID]*scopeBuilder),
		byExercise:       make(map[uuid.UUID]*scopeBuilder),
		definitionTotals: make(map[uuid.UUID]*DefinitionTotals),
		exerciseTotals:   make(map[uuid.UUID]*ExerciseTotals),
	}
}

// sessionExercise is the per-session tally for one exercise.
type sessionExercise struct {
	id     uuid.UUID
	scope  *scopeBuilder
	reps   float64
	weight float64
}

func (a *aggregator) addSession(s *models.WorkoutSession) {
	if !s.Started || s.Definition == nil {
		return
	}
	a.sessions++

	defScope := a.definitionScope(s.Definition)
	var sessReps, sessWeight float64
	var touched []*sessionExercise
	byID := make(map[uuid.UUID]*sessionExercise)

	for i := range s.Exercises {
		es := &s.Exercises[i]
		ex := es.Exercise
		if ex == nil {
			continue
		}
		group := ex.MuscleGroup.Assignable()
		if a.seenGroups.Add(group) {
			a.muscleGroups = append(a.muscleGroups, group)
		}

		tally, ok := byID[ex.ID]
		if !ok {
			tally = &sessionExercise{id: ex.ID, scope: a.exerciseScope(ex)}
			byID[ex.ID] = tally
			touched = append(touched, tally)
		}

		for _, set := range es.Sets {
			if !a.opts.Flags.Counts(set.Kind) {
				continue
			}
			v := set.Value(ex.Tracking, a.opts.WeightUnit, a.opts.DistanceUnit)
			a.overall.add(group, ex.Tracking, v)
			defScope.add(group, ex.Tracking, v)
			tally.scope.add(group, ex.Tracking, v)

			sessReps += v.Reps
			sessWeight += v.Weight
			tally.reps += v.Reps
			tally.weight += v.Weight
		}
	}

	a.overall.flush()
	defScope.flush()

	dt := a.definitionTotals[s.Definition.ID]
	dt.Reps.append(sessReps)
	dt.Weight.append(sessWeight)
	dt.Elapsed.append(s.Elapsed().Seconds())

	for _, t := range touched {
		t.scope.flush()
		et := a.exerciseTotals[t.id]
		et.Reps.append(t.reps)
		et.Weight.append(t.weight)
	}
}

func (a *aggregator) definitionScope(def *models.WorkoutDefinition) *scopeBuilder {
	sb, ok := a.byDefinition[def.ID]
	if !ok {
		sb = &scopeBuilder{}
		a.byDefinition[def.ID] = sb
		a.definitionTotals[def.ID] = &DefinitionTotals{}
		a.definitions = append(a.definitions, NamedKey{ID: def.ID, Name: def.Name})
	}
	return sb
}

func (a *aggregator) exerciseScope(ex *models.Exercise) *scopeBuilder {
	sb, ok := a.byExercise[ex.ID]
	if !ok {
		sb = &scopeBuilder{}
		a.byExercise[ex.ID] = sb
		a.exerciseTotals[ex.ID] = &ExerciseTotals{}
		a.exercises = append(a.exercises, NamedKey{ID: ex.ID, Name: ex.Name})
	}
	return sb
}

func (a *aggregator) snapshot() *Snapshot {
	snap := &Snapshot{
		options:          a.opts,
		overall:          a.overall.build(),
		byDefinition:     make(map[uuid.UUID]*Scope, len(a.byDefinition)),
		byExercise:       make(map[uuid.UUID]*Scope, len(a.byExercise)),
		definitionTotals: make(map[uuid.UUID]DefinitionTotals, len(a.definitionTotals)),
		exerciseTotals:   make(map[uuid.UUID]ExerciseTotals, len(a.exerciseTotals)),
		definitions:      a.definitions,
		exercises:        a.exercises,
		muscleGroups:     a.muscleGroups,
		sessions:         a.sessions,
	}
	for id, sb := range a.byDefinition {
		snap.byDefinition[id] = sb.build()
	}
	for id, sb := range a.byExercise {
		snap.byExercise[id] = sb.build()
	}
	for id, t := range a.definitionTotals {
		snap.definitionTotals[id] = *t
	}
	for id, t := range a.exerciseTotals {
		snap.exerciseTotals[id] = *t
	}
	return snap
}
