package analytics

import (
	"reflect"
	"testing"
	"time"

	"github.com/claude/liftstats/internal/models"
	"github.com/google/uuid"
)

func window(start, end time.Time) models.WorkoutSession {
	return models.WorkoutSession{ID: uuid.New(), Started: true, Start: start, End: end}
}

func ids(sessions []models.WorkoutSession) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.ID)
	}
	return out
}

// TestFilterModes covers the rolling windows and the custom overlap test.
func TestFilterModes(t *testing.T) {
	now := time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)
	hour := time.Hour

	recent := window(now.Add(-48*hour), now.Add(-47*hour))
	// Ends exactly at the 7 day cutoff.
	edge7 := window(now.AddDate(0, 0, -7).Add(-hour), now.AddDate(0, 0, -7))
	older := window(now.AddDate(0, 0, -20), now.AddDate(0, 0, -20).Add(hour))
	ancient := window(now.AddDate(0, -3, 0), now.AddDate(0, -3, 0).Add(hour))
	all := []models.WorkoutSession{recent, edge7, older, ancient}

	// Starts inside "older" and ends inside "edge7".
	customStart := now.AddDate(0, 0, -20).Add(30 * time.Minute)
	customEnd := now.AddDate(0, 0, -7).Add(-30 * time.Minute)

	tests := []struct {
		name       string
		mode       TimeRangeMode
		start, end *time.Time
		want       []models.WorkoutSession
	}{
		{"last 7 days", Last7Days, nil, nil, []models.WorkoutSession{recent, edge7}},
		{"last 30 days", Last30Days, nil, nil, []models.WorkoutSession{recent, edge7, older}},
		{"custom overlap", Custom, &customStart, &customEnd, []models.WorkoutSession{edge7, older}},
		{"all time", AllTime, nil, nil, all},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterAt(now, all, tt.mode, tt.start, tt.end)
			if !reflect.DeepEqual(ids(got), ids(tt.want)) {
				t.Errorf("filter(%s) = %v, want %v", tt.mode, ids(got), ids(tt.want))
			}
		})
	}
}

// TestFilterCustomMissingBound verifies a custom range without both bounds
// yields no data instead of an error.
func TestFilterCustomMissingBound(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sessions := []models.WorkoutSession{window(start, start.Add(time.Hour))}

	for _, tc := range []struct {
		name       string
		start, end *time.Time
	}{
		{"no end", &start, nil},
		{"no start", nil, &start},
		{"neither", nil, nil},
	} {
		got := Filter(sessions, Custom, tc.start, tc.end)
		if got == nil || len(got) != 0 {
			t.Errorf("%s: got %v, want empty non-nil slice", tc.name, got)
		}
	}
}

// TestFilterAllTimeIdentity verifies allTime returns the input unchanged and in order.
func TestFilterAllTimeIdentity(t *testing.T) {
	sessions := randomHistory(3)
	got := Filter(sessions, AllTime, nil, nil)
	if !reflect.DeepEqual(ids(got), ids(sessions)) {
		t.Error("allTime changed the sessions or their order")
	}
}

// TestParseTimeRangeMode verifies accepted names and the empty default.
func TestParseTimeRangeMode(t *testing.T) {
	for in, want := range map[string]TimeRangeMode{
		"last7days": Last7Days, "last30days": Last30Days, "custom": Custom, "allTime": AllTime, "": AllTime,
	} {
		got, err := ParseTimeRangeMode(in)
		if err != nil || got != want {
			t.Errorf("ParseTimeRangeMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseTimeRangeMode("yesterday"); err == nil {
		t.Error("expected error for unknown range")
	}
}
