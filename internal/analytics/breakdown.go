package analytics

import (
	"encoding/json"

	"github.com/claude/liftstats/internal/models"
)

// Range is the half-open slice [Lower, Upper) one muscle group occupies in a
// stacked total.
type Range struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Len is Upper - Lower.
func (r Range) Len() float64 { return r.Upper - r.Lower }

// GroupRange pairs a Range with its muscle group.
type GroupRange struct {
	Group models.MuscleGroup `json:"group"`
	Range
}

// Breakdown holds one metric's totals keyed by muscle group, including the
// synthetic overall key. Keys are array indexes, so iteration is always in
// canonical order. A Breakdown is never modified after Aggregate returns it.
type Breakdown struct {
	totals  [models.MuscleGroupCount]float64
	touched models.MuscleGroupSet
	history [models.MuscleGroupCount][]float64
	ranges  []GroupRange
}

// Total returns the accumulated value for g (zero when untouched).
func (b *Breakdown) Total(g models.MuscleGroup) float64 {
	if !g.Valid() {
		return 0
	}
	return b.totals[g]
}

// Has reports whether any counted record contributed to g.
func (b *Breakdown) Has(g models.MuscleGroup) bool {
	return g.Valid() && b.touched[g]
}

// History returns the per-session contributions to g, oldest input first.
func (b *Breakdown) History(g models.MuscleGroup) []float64 {
	if !g.Valid() {
		return nil
	}
	return append([]float64(nil), b.history[g]...)
}

// Groups lists the touched real muscle groups in canonical order.
func (b *Breakdown) Groups() []models.MuscleGroup {
	var groups []models.MuscleGroup
	for _, g := range models.CanonicalMuscleGroups() {
		if b.touched[g] {
			groups = append(groups, g)
		}
	}
	return groups
}

// Ranges returns the cumulative partition of [0, Total(overall)) in
// canonical order.
func (b *Breakdown) Ranges() []GroupRange {
	return append([]GroupRange(nil), b.ranges...)
}

// Range returns the slice occupied by g.
func (b *Breakdown) Range(g models.MuscleGroup) (Range, bool) {
	for _, r := range b.ranges {
		if r.Group == g {
			return r.Range, true
		}
	}
	return Range{}, false
}

func (b *Breakdown) MarshalJSON() ([]byte, error) {
	totals := make(map[models.MuscleGroup]float64)
	history := make(map[models.MuscleGroup][]float64)
	for i, ok := range b.touched {
		if !ok {
			continue
		}
		g := models.MuscleGroup(i)
		totals[g] = b.totals[g]
		history[g] = b.history[g]
	}
	ranges := b.ranges
	if ranges == nil {
		ranges = []GroupRange{}
	}
	return json.Marshal(struct {
		Totals  map[models.MuscleGroup]float64   `json:"totals"`
		History map[models.MuscleGroup][]float64 `json:"history"`
		Ranges  []GroupRange                     `json:"ranges"`
	}{totals, history, ranges})
}

// breakdownBuilder accumulates one metric during the pass. pending holds the
// current session's contribution until flush appends it to history.
type breakdownBuilder struct {
	b              Breakdown
	pending        [models.MuscleGroupCount]float64
	pendingTouched models.MuscleGroupSet
}

// add credits v to g and to overall from the same converted value.
func (bb *breakdownBuilder) add(g models.MuscleGroup, v float64) {
	for _, key := range [2]models.MuscleGroup{g, models.MuscleGroupOverall} {
		bb.b.totals[key] += v
		bb.b.touched[key] = true
		bb.pending[key] += v
		bb.pendingTouched[key] = true
	}
}

func (bb *breakdownBuilder) flush() {
	for i, ok := range bb.pendingTouched {
		if !ok {
			continue
		}
		bb.b.history[i] = append(bb.b.history[i], bb.pending[i])
	}
	bb.pending = [models.MuscleGroupCount]float64{}
	bb.pendingTouched = models.MuscleGroupSet{}
}

// build walks the canonical order and lays each touched group's total end to
// end, starting at zero. The overall total is then replaced by the end of the
// last range: summed in record order it can differ in the last bits when
// units are mixed, and the ranges must end exactly on it.
func (bb *breakdownBuilder) build() *Breakdown {
	bb.flush()
	var cursor float64
	for _, g := range models.CanonicalMuscleGroups() {
		if !bb.b.touched[g] {
			continue
		}
		next := cursor + bb.b.totals[g]
		bb.b.ranges = append(bb.b.ranges, GroupRange{Group: g, Range: Range{Lower: cursor, Upper: next}})
		cursor = next
	}
	if bb.b.touched[models.MuscleGroupOverall] {
		bb.b.totals[models.MuscleGroupOverall] = cursor
	}
	out := bb.b
	return &out
}
