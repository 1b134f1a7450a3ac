package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewRejectsBadDSN(t *testing.T) {
	if _, err := New(context.Background(), "postgres://user@host:notaport/db", nil); err == nil {
		t.Error("expected error for an unparsable DSN")
	}
}

// TestNewRegistersPoolMetrics checks the pool collector is exported on the
// registry handed to New and that a second registration is refused.
func TestNewRegistersPoolMetrics(t *testing.T) {
	dsn := testDSN(t)
	reg := prometheus.NewRegistry()

	db, err := New(context.Background(), dsn, reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer db.Close()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var found bool
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "pgxpool_") {
			found = true
			for _, l := range f.GetMetric()[0].GetLabel() {
				if l.GetName() == "db_name" && l.GetValue() == "" {
					t.Errorf("%s has an empty db_name label", f.GetName())
				}
			}
		}
	}
	if !found {
		t.Error("no pgxpool metrics registered")
	}

	if _, err := New(context.Background(), dsn, reg); err == nil {
		t.Error("expected error registering the pool collector twice")
	}
}

func TestSnapshotReadIsReadOnly(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	tx, err := db.beginSnapshot(ctx)
	if err != nil {
		t.Fatalf("beginSnapshot: %v", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM workout_sessions WHERE false`); err == nil {
		t.Error("write inside a snapshot read should fail")
	}
}
