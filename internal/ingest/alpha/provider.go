package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/liftstats/internal/catalog"
	"github.com/claude/liftstats/internal/ingest"
	"github.com/claude/liftstats/internal/metrics"
	"github.com/claude/liftstats/internal/models"
)

// Store persists converted sessions. Sessions with an existing ID are
// replaced so re-imports always reflect the latest parser output.
type Store interface {
	ReplaceSessions(ctx context.Context, sessions []models.WorkoutSession) (sessionsInserted, setsInserted int64, err error)
}

// Provider processes Alpha Progression CSV exports.
type Provider struct {
	store   Store
	cat     *catalog.Catalog
	metrics *metrics.Manager
	log     *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider. m may be nil.
func NewProvider(store Store, cat *catalog.Catalog, m *metrics.Manager, log *slog.Logger) *Provider {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Provider{store: store, cat: cat, metrics: m, log: log}
}

// Ingest parses a CSV export and stores the resulting workout sessions.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	parsed, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	conv := NewConverter(p.cat)
	sessions := conv.Convert(parsed)

	result := &ingest.Result{
		SessionsReceived: len(sessions),
		Unclassified:     conv.Unclassified,
	}
	seen := make(map[string]struct{})
	for _, s := range sessions {
		for _, es := range s.Exercises {
			seen[es.Exercise.Name] = struct{}{}
			result.SetsReceived += len(es.Sets)
		}
	}
	result.ExercisesSeen = len(seen)

	if len(sessions) == 0 {
		result.Message = "no sessions found"
		return result, nil
	}

	result.SessionsInserted, result.SetsInserted, err = p.store.ReplaceSessions(ctx, sessions)
	if err != nil {
		return nil, fmt.Errorf("storing sessions: %w", err)
	}
	if p.metrics != nil {
		p.metrics.CounterSetsImported.Add(float64(result.SetsInserted))
	}
	if len(result.Unclassified) > 0 {
		p.log.Warn("exercises without muscle group mapping", "names", result.Unclassified)
	}
	p.log.Info("alpha import stored",
		"sessions", result.SessionsInserted,
		"sets", result.SetsInserted,
	)
	return result, nil
}
