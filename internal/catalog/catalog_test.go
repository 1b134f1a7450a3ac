package catalog

import (
	"testing"

	"github.com/claude/liftstats/internal/models"
)

// TestLookupExportNames covers exercise names as they appear in Alpha
// Progression exports: plurals, qualifiers and multi-word aliases.
func TestLookupExportNames(t *testing.T) {
	tests := []struct {
		name      string
		wantGroup models.MuscleGroup
		wantMode  models.TrackingMode
		wantExact bool
	}{
		{"Hack Squats", models.MuscleGroupQuads, models.TrackWeight, true},
		{"Sumo Squats", models.MuscleGroupQuads, models.TrackWeight, true},
		{"Hyperextensions on Roman Chair", models.MuscleGroupBack, models.TrackWeight, true},
		{"Reverse Lunges", models.MuscleGroupQuads, models.TrackWeight, true},
		{"Standing Calf Raises", models.MuscleGroupCalves, models.TrackWeight, true},
		{"Hanging Leg Raises", models.MuscleGroupCore, models.TrackWeight, true},
		{"Bench Press", models.MuscleGroupChest, models.TrackWeight, true},
		{"bench press (barbell)", models.MuscleGroupChest, models.TrackWeight, true},
		{"DB Row", models.MuscleGroupBack, models.TrackWeight, true},
		{"RDL", models.MuscleGroupHamstrings, models.TrackWeight, true},
		{"Triceps Pushdowns", models.MuscleGroupTriceps, models.TrackWeight, true},
		{"Treadmill", models.MuscleGroupCardio, models.TrackDistance, true},
		// Keyword fallbacks.
		{"Spider Curls", models.MuscleGroupBiceps, models.TrackWeight, false},
		{"Landmine Press", models.MuscleGroupShoulders, models.TrackWeight, false},
		{"Trail Run", models.MuscleGroupCardio, models.TrackDistance, false},
	}
	c := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := c.Lookup(tt.name)
			if !ok {
				t.Fatalf("Lookup(%q) not found", tt.name)
			}
			if m.Group != tt.wantGroup {
				t.Errorf("group = %v, want %v", m.Group, tt.wantGroup)
			}
			if m.Tracking != tt.wantMode {
				t.Errorf("tracking = %v, want %v", m.Tracking, tt.wantMode)
			}
			if m.Exact != tt.wantExact {
				t.Errorf("exact = %v, want %v", m.Exact, tt.wantExact)
			}
		})
	}
}

// TestLookupUnknown verifies unknown names fall back to other/weight.
func TestLookupUnknown(t *testing.T) {
	m, ok := Default().Lookup("Turkish Get-Up")
	if ok {
		t.Error("expected ok=false for unknown exercise")
	}
	if m.Group != models.MuscleGroupOther || m.Tracking != models.TrackWeight {
		t.Errorf("fallback = %v/%v, want other/weight", m.Group, m.Tracking)
	}
	if m.Name != "Turkish Get-Up" {
		t.Errorf("Name = %q, want the input name", m.Name)
	}
}

// TestKeywordsMatchWholeWords verifies "row" does not match "rowing" via the
// keyword rules and "ab" does not match "abduction".
func TestKeywordsMatchWholeWords(t *testing.T) {
	c := New(nil)
	if g, _ := c.Classify("Rowing Intervals"); g == models.MuscleGroupBack {
		t.Error("rowing classified as back")
	}
	if g, _ := c.Classify("Adductor Abduction"); g == models.MuscleGroupCore {
		t.Error("abduction classified as core")
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"Hack Squats":                    "hack squat",
		"  DB  Bench ":                   "dumbbell bench",
		"Pull-Up":                        "pull up",
		"Bench Press (Barbell)":          "bench press",
		"Presses":                        "press",
		"Crunches":                       "crunch",
		"Flies":                          "fly",
		"OHP":                            "overhead press",
		"Biceps":                         "bicep",
		"Farmer's Walk":                  "farmer s walk",
		"Hyperextensions on Roman Chair": "hyperextension on roman chair",
	}
	for in, want := range tests {
		if got := normalize(in); got != want {
			t.Errorf("normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestNewDefaultsTracking verifies entries without a tracking mode default to weight.
func TestNewDefaultsTracking(t *testing.T) {
	c := New([]Entry{{Name: "Sled Push", Group: models.MuscleGroupQuads}})
	g, mode := c.Classify("sled pushes")
	if g != models.MuscleGroupQuads || mode != models.TrackWeight {
		t.Errorf("Classify = %v/%v, want quads/weight", g, mode)
	}
}
