package mcp

import (
	"context"

	"github.com/claude/liftstats/internal/models"
	"github.com/claude/liftstats/internal/storage"
	"github.com/google/uuid"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface. Aggregation
// and scoring always run in-process on the loaded sessions.
type DataSource interface {
	LoadSessions(ctx context.Context) ([]models.WorkoutSession, error)
	LoadSession(ctx context.Context, id uuid.UUID) (*models.WorkoutSession, error)
	GetDataStats(ctx context.Context) (*storage.DataStats, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
