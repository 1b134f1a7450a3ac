package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MuscleGroup classifies an exercise by body region.
//
// The declaration order below is the canonical order. It drives range
// partitioning for stacked charts, so new groups are appended before
// MuscleGroupOverall and never reordered.
type MuscleGroup int

const (
	MuscleGroupChest MuscleGroup = iota
	MuscleGroupBack
	MuscleGroupBiceps
	MuscleGroupTriceps
	MuscleGroupShoulders
	MuscleGroupQuads
	MuscleGroupHamstrings
	MuscleGroupGlutes
	MuscleGroupForearms
	MuscleGroupCalves
	MuscleGroupCore
	MuscleGroupCardio
	MuscleGroupOther

	// MuscleGroupOverall is the synthetic aggregate key. It only appears in
	// analytics output and is never assigned to an exercise.
	MuscleGroupOverall

	// MuscleGroupCount is the number of keys including MuscleGroupOverall.
	MuscleGroupCount = int(MuscleGroupOverall) + 1
)

var muscleGroupNames = [MuscleGroupCount]string{
	"chest",
	"back",
	"biceps",
	"triceps",
	"shoulders",
	"quads",
	"hamstrings",
	"glutes",
	"forearms",
	"calves",
	"core",
	"cardio",
	"other",
	"overall",
}

// CanonicalMuscleGroups returns the real muscle groups in canonical order,
// excluding MuscleGroupOverall.
func CanonicalMuscleGroups() []MuscleGroup {
	groups := make([]MuscleGroup, 0, MuscleGroupCount-1)
	for g := MuscleGroupChest; g < MuscleGroupOverall; g++ {
		groups = append(groups, g)
	}
	return groups
}

// Valid reports whether g is a declared key (including overall).
func (g MuscleGroup) Valid() bool {
	return g >= MuscleGroupChest && g <= MuscleGroupOverall
}

// Assignable maps g onto a group an exercise can carry: the output-only
// overall key and undeclared values become MuscleGroupOther.
func (g MuscleGroup) Assignable() MuscleGroup {
	if !g.Valid() || g == MuscleGroupOverall {
		return MuscleGroupOther
	}
	return g
}

func (g MuscleGroup) String() string {
	if !g.Valid() {
		return fmt.Sprintf("MuscleGroup(%d)", int(g))
	}
	return muscleGroupNames[g]
}

// ParseMuscleGroup converts a lower-case group name back into a MuscleGroup.
func ParseMuscleGroup(s string) (MuscleGroup, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range muscleGroupNames {
		if name == s {
			return MuscleGroup(i), nil
		}
	}
	return 0, fmt.Errorf("unknown muscle group %q", s)
}

func (g MuscleGroup) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("invalid muscle group %d", int(g))
	}
	return []byte(g.String()), nil
}

func (g *MuscleGroup) UnmarshalText(b []byte) error {
	parsed, err := ParseMuscleGroup(string(b))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

var _ json.Marshaler = MuscleGroupSet{}

// MuscleGroupSet is a small fixed-size set of muscle groups.
type MuscleGroupSet [MuscleGroupCount]bool

// Add inserts g and reports whether it was newly added.
func (s *MuscleGroupSet) Add(g MuscleGroup) bool {
	if !g.Valid() || s[g] {
		return false
	}
	s[g] = true
	return true
}

// Len counts the members of the set.
func (s MuscleGroupSet) Len() int {
	n := 0
	for _, ok := range s {
		if ok {
			n++
		}
	}
	return n
}

// MarshalJSON encodes the set as a list in canonical order.
func (s MuscleGroupSet) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, s.Len())
	for i, ok := range s {
		if ok {
			names = append(names, MuscleGroup(i).String())
		}
	}
	return json.Marshal(names)
}
