package alpha

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/claude/liftstats/internal/catalog"
	"github.com/claude/liftstats/internal/models"
	"github.com/google/uuid"
)

// namespace roots every deterministic ID derived from an export, so
// re-importing the same file yields the same rows.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://alphaprogression.com/export"))

// weekSegmentRe matches the " · Week 4" segment of a session name.
var weekSegmentRe = regexp.MustCompile(`(?i)\s*·\s*week\s+\d+`)

// DefinitionName strips the week counter from a session name so every week
// of a program maps to the same workout definition.
// "Legs · Day 2 · Week 4 · Push-Pull-Legs" -> "Legs · Day 2 · Push-Pull-Legs"
func DefinitionName(sessionName string) string {
	return strings.TrimSpace(weekSegmentRe.ReplaceAllString(sessionName, ""))
}

// ExerciseName joins name and equipment the way exercises are listed in the UI.
func ExerciseName(name, equipment string) string {
	if equipment == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, equipment)
}

// Converter turns parsed exports into workout sessions. Exercises and
// definitions are shared across sessions by deterministic ID.
type Converter struct {
	cat         *catalog.Catalog
	exercises   map[uuid.UUID]*models.Exercise
	definitions map[uuid.UUID]*models.WorkoutDefinition
	// Unclassified lists exercise names that matched no catalog rule, in
	// first-seen order.
	Unclassified []string
}

// NewConverter creates a Converter that classifies exercises with cat.
func NewConverter(cat *catalog.Catalog) *Converter {
	return &Converter{
		cat:         cat,
		exercises:   make(map[uuid.UUID]*models.Exercise),
		definitions: make(map[uuid.UUID]*models.WorkoutDefinition),
	}
}

// Convert maps parsed sessions onto the workout model. All sets are stored
// as metric. Warm-ups become warmUp sets; with an "N dropsets" modifier the
// last N working sets become dropSet, keeping at least the first as main.
func (c *Converter) Convert(parsed []models.AlphaSession) []models.WorkoutSession {
	out := make([]models.WorkoutSession, 0, len(parsed))
	for _, as := range parsed {
		out = append(out, c.session(as))
	}
	return out
}

func (c *Converter) session(as models.AlphaSession) models.WorkoutSession {
	def := c.definition(as)
	id := uuid.NewSHA1(namespace, []byte("session:"+as.Date.Format("2006-01-02T15:04")+"|"+as.Name))
	ws := models.WorkoutSession{
		ID:         id,
		Definition: def,
		Started:    true,
		Completed:  true,
		Start:      as.Date,
		End:        as.Date.Add(ParseDuration(as.Duration)),
		Exercises:  make([]models.ExerciseSession, 0, len(as.Exercises)),
	}

	for i, ae := range as.Exercises {
		ex := c.exercise(ae)
		es := models.ExerciseSession{
			ID:       uuid.NewSHA1(id, []byte(fmt.Sprintf("exercise/%d", i))),
			Exercise: ex,
			Sets:     make([]models.SetRecord, 0, len(ae.Sets)),
		}
		kinds := setKinds(ae)
		for j, set := range ae.Sets {
			es.Sets = append(es.Sets, models.SetRecord{
				ID:         uuid.NewSHA1(es.ID, []byte(fmt.Sprintf("set/%d", j))),
				Kind:       kinds[j],
				Completed:  set.Reps > 0,
				Skipped:    set.Reps == 0,
				Unit:       models.Metric,
				Reps:       set.Reps,
				Weight:     set.WeightKg,
				RepMeasure: models.MeasureReps,
			})
		}
		ws.Exercises = append(ws.Exercises, es)
	}
	return ws
}

// setKinds assigns a kind to each parsed set, in order.
func setKinds(ae models.AlphaExercise) []models.SetKind {
	kinds := make([]models.SetKind, len(ae.Sets))
	working := 0
	for i, s := range ae.Sets {
		if s.IsWarmup {
			kinds[i] = models.SetWarmUp
			continue
		}
		kinds[i] = models.SetMain
		working++
	}
	drops := min(ae.DropSets, working-1)
	for i := len(ae.Sets) - 1; i >= 0 && drops > 0; i-- {
		if kinds[i] == models.SetMain {
			kinds[i] = models.SetDropSet
			drops--
		}
	}
	return kinds
}

func (c *Converter) exercise(ae models.AlphaExercise) *models.Exercise {
	name := ExerciseName(ae.Name, ae.Equipment)
	id := uuid.NewSHA1(namespace, []byte("exercise:"+strings.ToLower(name)))
	if ex, ok := c.exercises[id]; ok {
		return ex
	}
	m, ok := c.cat.Lookup(ae.Name)
	if !ok {
		c.Unclassified = append(c.Unclassified, name)
	}
	// The export only carries weight columns.
	ex := &models.Exercise{ID: id, Name: name, MuscleGroup: m.Group, Tracking: models.TrackWeight}
	c.exercises[id] = ex
	return ex
}

func (c *Converter) definition(as models.AlphaSession) *models.WorkoutDefinition {
	name := DefinitionName(as.Name)
	id := uuid.NewSHA1(namespace, []byte("definition:"+strings.ToLower(name)))
	if def, ok := c.definitions[id]; ok {
		return def
	}
	def := &models.WorkoutDefinition{ID: id, Name: name}
	for _, ae := range as.Exercises {
		inst := models.ExerciseInstance{Exercise: c.exercise(ae)}
		for _, kind := range setKinds(ae) {
			inst.Sets = append(inst.Sets, models.SetTemplate{Kind: kind, TargetReps: ae.TargetReps})
		}
		def.Exercises = append(def.Exercises, inst)
	}
	c.definitions[id] = def
	return def
}
