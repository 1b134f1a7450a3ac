package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// snapshotRead is used for every multi-query read so sessions, their sets
// and the referenced exercises come from one consistent view of the history.
var snapshotRead = pgx.TxOptions{AccessMode: pgx.ReadOnly, IsoLevel: pgx.RepeatableRead}

// DB is the liftstats repository over a pgx pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New connects to dsn and verifies the connection. When reg is non-nil the
// pool's connection stats are exported on it, labelled with the database name.
func New(ctx context.Context, dsn string, reg prometheus.Registerer) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database DSN: %w", err)
	}
	if _, ok := cfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		cfg.ConnConfig.RuntimeParams["application_name"] = "liftstats"
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if reg != nil {
		collector := pgxpoolprometheus.NewCollector(pool, map[string]string{"db_name": cfg.ConnConfig.Database})
		if err := reg.Register(collector); err != nil {
			pool.Close()
			return nil, fmt.Errorf("registering pool metrics: %w", err)
		}
	}
	return &DB{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// beginSnapshot starts a read-only repeatable-read transaction.
func (db *DB) beginSnapshot(ctx context.Context) (pgx.Tx, error) {
	tx, err := db.Pool.BeginTx(ctx, snapshotRead)
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}
	return tx, nil
}

// RunMigrations applies the pending migrations in dir. A database left dirty
// by an earlier failed migration is reported instead of migrated further.
func RunMigrations(dsn, dir string) error {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if _, dirty, err := m.Version(); err == nil && dirty {
		return errors.New("database schema is dirty; fix the failed migration and force its version")
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
