package analytics

import (
	"encoding/json"

	"github.com/claude/liftstats/internal/models"
	"github.com/google/uuid"
)

// NamedKey identifies a workout definition or exercise in display order.
type NamedKey struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Scope groups the breakdowns of one scope (overall, one definition or one
// exercise).
type Scope struct {
	breakdowns [metricCount]*Breakdown
}

// Breakdown returns the breakdown for m.
func (s *Scope) Breakdown(m Metric) *Breakdown {
	if m < 0 || m >= metricCount {
		return &Breakdown{}
	}
	return s.breakdowns[m]
}

func (s *Scope) Reps() *Breakdown     { return s.breakdowns[MetricReps] }
func (s *Scope) Weight() *Breakdown   { return s.breakdowns[MetricWeight] }
func (s *Scope) Distance() *Breakdown { return s.breakdowns[MetricDistance] }
func (s *Scope) Duration() *Breakdown { return s.breakdowns[MetricDuration] }

func (s *Scope) MarshalJSON() ([]byte, error) {
	out := make(map[string]*Breakdown, metricCount)
	for m := Metric(0); m < metricCount; m++ {
		out[m.String()] = s.breakdowns[m]
	}
	return json.Marshal(out)
}

// Snapshot is the immutable result of one Aggregate run. Accessors return
// copies; a Snapshot may be shared between goroutines freely.
type Snapshot struct {
	options Options

	overall      *Scope
	byDefinition map[uuid.UUID]*Scope
	byExercise   map[uuid.UUID]*Scope

	definitionTotals map[uuid.UUID]DefinitionTotals
	exerciseTotals   map[uuid.UUID]ExerciseTotals

	definitions  []NamedKey
	exercises    []NamedKey
	muscleGroups []models.MuscleGroup

	sessions int
}

// Options returns the flags and units the snapshot was built with.
func (s *Snapshot) Options() Options { return s.options }

// Sessions is the number of sessions that contributed.
func (s *Snapshot) Sessions() int { return s.sessions }

// Overall is the unscoped breakdown tree.
func (s *Snapshot) Overall() *Scope { return s.overall }

// Definition returns the tree scoped to one workout definition.
func (s *Snapshot) Definition(id uuid.UUID) (*Scope, bool) {
	sc, ok := s.byDefinition[id]
	return sc, ok
}

// Exercise returns the tree scoped to one exercise.
func (s *Snapshot) Exercise(id uuid.UUID) (*Scope, bool) {
	sc, ok := s.byExercise[id]
	return sc, ok
}

// DefinitionTotals returns reps, weight and elapsed series for a definition.
func (s *Snapshot) DefinitionTotals(id uuid.UUID) (DefinitionTotals, bool) {
	t, ok := s.definitionTotals[id]
	if !ok {
		return DefinitionTotals{}, false
	}
	return DefinitionTotals{Reps: t.Reps.clone(), Weight: t.Weight.clone(), Elapsed: t.Elapsed.clone()}, true
}

// ExerciseTotals returns reps and weight series for an exercise.
func (s *Snapshot) ExerciseTotals(id uuid.UUID) (ExerciseTotals, bool) {
	t, ok := s.exerciseTotals[id]
	if !ok {
		return ExerciseTotals{}, false
	}
	return ExerciseTotals{Reps: t.Reps.clone(), Weight: t.Weight.clone()}, true
}

// Definitions lists the distinct workout definitions in first-encountered
// order. Use this order for display; it differs from the canonical order.
func (s *Snapshot) Definitions() []NamedKey {
	return append([]NamedKey(nil), s.definitions...)
}

// Exercises lists the distinct exercises in first-encountered order.
func (s *Snapshot) Exercises() []NamedKey {
	return append([]NamedKey(nil), s.exercises...)
}

// MuscleGroups lists the distinct muscle groups in first-encountered order.
func (s *Snapshot) MuscleGroups() []models.MuscleGroup {
	return append([]models.MuscleGroup(nil), s.muscleGroups...)
}

type definitionJSON struct {
	NamedKey
	Breakdown *Scope           `json:"breakdown"`
	Totals    DefinitionTotals `json:"totals"`
}

type exerciseJSON struct {
	NamedKey
	Breakdown *Scope         `json:"breakdown"`
	Totals    ExerciseTotals `json:"totals"`
}

// MarshalJSON encodes the snapshot with definitions and exercises as lists in
// display order.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	defs := make([]definitionJSON, 0, len(s.definitions))
	for _, k := range s.definitions {
		defs = append(defs, definitionJSON{NamedKey: k, Breakdown: s.byDefinition[k.ID], Totals: s.definitionTotals[k.ID]})
	}
	exs := make([]exerciseJSON, 0, len(s.exercises))
	for _, k := range s.exercises {
		exs = append(exs, exerciseJSON{NamedKey: k, Breakdown: s.byExercise[k.ID], Totals: s.exerciseTotals[k.ID]})
	}
	groups := s.muscleGroups
	if groups == nil {
		groups = []models.MuscleGroup{}
	}
	return json.Marshal(struct {
		Options      Options              `json:"options"`
		Sessions     int                  `json:"sessions"`
		MuscleGroups []models.MuscleGroup `json:"muscle_groups"`
		Overall      *Scope               `json:"overall"`
		Definitions  []definitionJSON     `json:"definitions"`
		Exercises    []exerciseJSON       `json:"exercises"`
	}{s.options, s.sessions, groups, s.overall, defs, exs})
}
