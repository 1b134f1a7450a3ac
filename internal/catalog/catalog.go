// Package catalog classifies free-text exercise names into a muscle group and
// tracking mode. Imports use it to attach a group to exercises that only
// arrive as names.
package catalog

import (
	"strings"
	"unicode"

	"github.com/claude/liftstats/internal/models"
)

// Entry describes one canonical exercise.
type Entry struct {
	Name     string
	Group    models.MuscleGroup
	Tracking models.TrackingMode
	Aliases  []string
}

// Match is the result of a lookup.
type Match struct {
	Entry
	// Exact is false when the group came from a keyword rule rather than a
	// name or alias.
	Exact bool
}

var abbreviations = map[string]string{
	"db":   "dumbbell",
	"bb":   "barbell",
	"kb":   "kettlebell",
	"ohp":  "overhead press",
	"rdl":  "romanian deadlift",
	"incl": "incline",
	"decl": "decline",
	"ext":  "extension",
}

// Catalog is an immutable name index. The zero value is not usable; use
// Default or New.
type Catalog struct {
	byName   map[string]Entry
	keywords []keyword
}

type keyword struct {
	token string
	group models.MuscleGroup
	mode  models.TrackingMode
}

// New indexes entries by normalised name and alias. Later entries win on
// duplicate keys.
func New(entries []Entry) *Catalog {
	c := &Catalog{byName: make(map[string]Entry, len(entries)*3), keywords: defaultKeywords}
	for _, e := range entries {
		if e.Tracking == "" {
			e.Tracking = models.TrackWeight
		}
		c.byName[normalize(e.Name)] = e
		for _, a := range e.Aliases {
			c.byName[normalize(a)] = e
		}
	}
	return c
}

var defaultCatalog = New(defaultEntries)

// Default returns the built-in catalog.
func Default() *Catalog { return defaultCatalog }

// Lookup finds the entry for name. Unknown names fall back to keyword rules
// and finally to MuscleGroupOther with weight tracking; ok is false only in
// that last case.
func (c *Catalog) Lookup(name string) (m Match, ok bool) {
	key := normalize(name)
	if e, found := c.byName[key]; found {
		return Match{Entry: e, Exact: true}, true
	}
	for _, kw := range c.keywords {
		if containsWord(key, kw.token) {
			return Match{Entry: Entry{Name: strings.TrimSpace(name), Group: kw.group, Tracking: kw.mode}}, true
		}
	}
	return Match{Entry: Entry{Name: strings.TrimSpace(name), Group: models.MuscleGroupOther, Tracking: models.TrackWeight}}, false
}

// Classify is Lookup without the match details.
func (c *Catalog) Classify(name string) (models.MuscleGroup, models.TrackingMode) {
	m, _ := c.Lookup(name)
	return m.Group, m.Tracking
}

// normalize lower-cases, drops punctuation and parenthesised qualifiers,
// expands abbreviations and singularises each word.
func normalize(s string) string {
	s = strings.ToLower(s)
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)

	words := strings.Fields(s)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if exp, ok := abbreviations[w]; ok {
			out = append(out, strings.Fields(exp)...)
			continue
		}
		out = append(out, singular(w))
	}
	return strings.Join(out, " ")
}

func singular(w string) string {
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case len(w) > 4 && (strings.HasSuffix(w, "ches") || strings.HasSuffix(w, "shes") || strings.HasSuffix(w, "sses")):
		return w[:len(w)-2]
	case len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && !strings.HasSuffix(w, "us"):
		return w[:len(w)-1]
	}
	return w
}

func containsWord(s, token string) bool {
	return s == token ||
		strings.HasPrefix(s, token+" ") ||
		strings.HasSuffix(s, " "+token) ||
		strings.Contains(s, " "+token+" ")
}
