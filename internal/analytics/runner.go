package analytics

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/claude/liftstats/internal/metrics"
	"github.com/claude/liftstats/internal/models"
)

// Published is a snapshot made visible by a Runner.
type Published struct {
	Snapshot    *Snapshot `json:"snapshot"`
	Seq         uint64    `json:"seq"`
	CompletedAt time.Time `json:"completed_at"`
}

// Runner executes aggregation runs off the caller's goroutine and publishes
// each finished snapshot with a single pointer swap. The most recently
// completed run wins, regardless of the order runs were submitted in, and
// readers never observe a partially built snapshot.
type Runner struct {
	log     *slog.Logger
	metrics *metrics.Manager

	latest    atomic.Pointer[Published]
	submitted atomic.Uint64
	wg        sync.WaitGroup
}

// NewRunner creates a Runner. m may be nil.
func NewRunner(m *metrics.Manager, log *slog.Logger) *Runner {
	return &Runner{log: log, metrics: m}
}

// Run aggregates synchronously and records run metrics without publishing.
func (r *Runner) Run(sessions []models.WorkoutSession, opts Options) *Snapshot {
	start := time.Now()
	snap := Aggregate(sessions, opts.Flags, opts.WeightUnit, opts.DistanceUnit)
	if r.metrics != nil {
		r.metrics.CounterAggregations.Inc()
		r.metrics.HistAggregationDuration.Observe(time.Since(start).Seconds())
	}
	return snap
}

// Submit starts a background run and returns its sequence number. The
// sessions slice must not be modified while the run is in flight.
func (r *Runner) Submit(sessions []models.WorkoutSession, opts Options) uint64 {
	seq := r.submitted.Add(1)
	r.wg.Add(1)
	if r.metrics != nil {
		r.metrics.GaugeRunsInFlight.Inc()
	}
	go func() {
		defer r.wg.Done()
		if r.metrics != nil {
			defer r.metrics.GaugeRunsInFlight.Dec()
		}
		r.publish(seq, r.Run(sessions, opts))
	}()
	return seq
}

func (r *Runner) publish(seq uint64, snap *Snapshot) {
	prev := r.latest.Swap(&Published{Snapshot: snap, Seq: seq, CompletedAt: time.Now()})
	if prev != nil && prev.Seq > seq {
		if r.metrics != nil {
			r.metrics.CounterOutOfOrderRuns.Inc()
		}
		r.log.Debug("aggregation finished after a newer run", "seq", seq, "replaced_seq", prev.Seq)
	}
	if r.metrics != nil {
		r.metrics.GaugeSnapshotSessions.Set(float64(snap.Sessions()))
	}
	r.log.Info("analytics snapshot published", "seq", seq, "sessions", snap.Sessions())
}

// Latest returns the most recently completed snapshot, if any.
func (r *Runner) Latest() (*Published, bool) {
	p := r.latest.Load()
	return p, p != nil
}

// Wait blocks until every submitted run has published.
func (r *Runner) Wait() {
	r.wg.Wait()
}
