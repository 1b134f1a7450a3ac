package analytics

import (
	"fmt"
	"time"

	"github.com/claude/liftstats/internal/models"
)

// TimeRangeMode selects the window Filter keeps.
type TimeRangeMode string

const (
	Last7Days  TimeRangeMode = "last7days"
	Last30Days TimeRangeMode = "last30days"
	Custom     TimeRangeMode = "custom"
	AllTime    TimeRangeMode = "allTime"
)

// ParseTimeRangeMode validates a mode name. An empty string means AllTime.
func ParseTimeRangeMode(s string) (TimeRangeMode, error) {
	switch m := TimeRangeMode(s); m {
	case Last7Days, Last30Days, Custom, AllTime:
		return m, nil
	case "":
		return AllTime, nil
	}
	return "", fmt.Errorf("unknown range %q (want last7days, last30days, custom or allTime)", s)
}

// Filter returns the sessions relevant to the requested window, in input
// order. Custom needs both bounds; without them the result is empty.
func Filter(sessions []models.WorkoutSession, mode TimeRangeMode, start, end *time.Time) []models.WorkoutSession {
	return filterAt(time.Now(), sessions, mode, start, end)
}

func filterAt(now time.Time, sessions []models.WorkoutSession, mode TimeRangeMode, start, end *time.Time) []models.WorkoutSession {
	switch mode {
	case AllTime:
		return sessions
	case Last7Days:
		return endingSince(sessions, now.AddDate(0, 0, -7))
	case Last30Days:
		return endingSince(sessions, now.AddDate(0, 0, -30))
	case Custom:
		if start == nil || end == nil {
			return []models.WorkoutSession{}
		}
		out := make([]models.WorkoutSession, 0, len(sessions))
		for _, s := range sessions {
			// Overlap, not containment.
			if !s.End.Before(*start) && !s.Start.After(*end) {
				out = append(out, s)
			}
		}
		return out
	}
	return []models.WorkoutSession{}
}

func endingSince(sessions []models.WorkoutSession, cutoff time.Time) []models.WorkoutSession {
	out := make([]models.WorkoutSession, 0, len(sessions))
	for _, s := range sessions {
		if !s.End.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out
}
