package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionSummary is the list view of one workout session.
type SessionSummary struct {
	ID             uuid.UUID  `json:"id"`
	DefinitionID   *uuid.UUID `json:"definition_id"`
	DefinitionName string     `json:"definition_name,omitempty"`
	Start          time.Time  `json:"start"`
	End            time.Time  `json:"end"`
	DurationSec    float64    `json:"duration_sec"`
	Exercises      int        `json:"exercises"`
	Sets           int        `json:"sets"`
	Completed      bool       `json:"completed"`
	Score          int        `json:"score"`
}

// NewSessionSummary condenses s. The caller supplies the score.
func NewSessionSummary(s *WorkoutSession, score int) SessionSummary {
	sum := SessionSummary{
		ID:          s.ID,
		Start:       s.Start,
		End:         s.End,
		DurationSec: s.Elapsed().Seconds(),
		Exercises:   len(s.Exercises),
		Completed:   s.Completed,
		Score:       score,
	}
	if s.Definition != nil {
		id := s.Definition.ID
		sum.DefinitionID = &id
		sum.DefinitionName = s.Definition.Name
	}
	for _, es := range s.Exercises {
		sum.Sets += len(es.Sets)
	}
	return sum
}
