package importer

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/claude/liftstats/internal/importstate"
	"github.com/claude/liftstats/internal/ingest"
	"github.com/claude/liftstats/internal/models"
	"github.com/claude/liftstats/internal/storage"
	"go.uber.org/multierr"
)

// Ingester imports one export file. Both the local alpha.Provider and the
// remote upload.Client satisfy it.
type Ingester interface {
	Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error)
}

// Ledger remembers files that were already imported.
type Ledger interface {
	IsImported(path string, size int64, hash string) (bool, error)
	MarkImported(path string, size int64, hash string, sessions int64) error
}

// ImportLogger records each import in the import_logs table.
type ImportLogger interface {
	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
}

// Stats tracks import progress.
type Stats struct {
	FilesTotal     int
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	SessionsReceived int
	SessionsInserted int64
	SetsInserted     int64

	Unclassified []string

	// Err combines the per-file failures; use multierr.Errors to list them.
	Err error
}

// Importer feeds every CSV export under a path to an Ingester, skipping files
// the ledger has already seen.
type Importer struct {
	ing    Ingester
	ledger Ledger
	logs   ImportLogger
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer. ledger and logs may be nil. In dry-run mode the
// ledger and import log are left untouched.
func New(ing Ingester, ledger Ledger, logs ImportLogger, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{ing: ing, ledger: ledger, logs: logs, log: log, dryRun: dryRun}
}

// Import processes path, which is either a single CSV file or a directory
// searched recursively for *.csv files in lexical order. A failing file is
// counted and skipped; only cancellation aborts the run.
func (imp *Importer) Import(ctx context.Context, path string) (*Stats, error) {
	files, err := csvFiles(path)
	if err != nil {
		return &imp.stats, err
	}
	imp.stats.FilesTotal = len(files)

	unclassified := map[string]bool{}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &imp.stats, err
		}
		result, err := imp.importFile(ctx, f)
		if err != nil {
			imp.log.Warn("import failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			imp.stats.Err = multierr.Append(imp.stats.Err, fmt.Errorf("%s: %w", f, err))
			continue
		}
		if result == nil {
			continue
		}
		for _, name := range result.Unclassified {
			if !unclassified[name] {
				unclassified[name] = true
				imp.stats.Unclassified = append(imp.stats.Unclassified, name)
			}
		}
	}
	sort.Strings(imp.stats.Unclassified)
	return &imp.stats, nil
}

// importFile returns a nil result for files the ledger skipped.
func (imp *Importer) importFile(ctx context.Context, path string) (*ingest.Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var hash string
	if imp.ledger != nil {
		hash, err = importstate.HashFile(path)
		if err != nil {
			return nil, fmt.Errorf("hashing: %w", err)
		}
		done, err := imp.ledger.IsImported(path, info.Size(), hash)
		if err != nil {
			return nil, fmt.Errorf("checking ledger: %w", err)
		}
		if done {
			imp.log.Info("skipping already imported file", "file", path)
			imp.stats.FilesSkipped++
			return nil, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	start := time.Now()
	result, ingestErr := imp.ing.Ingest(ctx, f)
	if !imp.dryRun {
		imp.logImport(path, result, ingestErr, int(time.Since(start).Milliseconds()))
	}
	if ingestErr != nil {
		return nil, ingestErr
	}

	imp.stats.FilesProcessed++
	imp.stats.SessionsReceived += result.SessionsReceived
	imp.stats.SessionsInserted += result.SessionsInserted
	imp.stats.SetsInserted += result.SetsInserted
	imp.log.Info("imported file",
		"file", path,
		"sessions", result.SessionsInserted,
		"sets", result.SetsInserted,
	)

	if imp.ledger != nil && !imp.dryRun {
		if err := imp.ledger.MarkImported(path, info.Size(), hash, result.SessionsInserted); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (imp *Importer) logImport(path string, result *ingest.Result, importErr error, durationMs int) {
	if imp.logs == nil {
		return
	}
	entry := storage.ImportLog{Source: "alpha-csv", Status: "success", DurationMs: &durationMs}
	if importErr != nil {
		msg := fmt.Sprintf("%s: %v", filepath.Base(path), importErr)
		entry.Status = "error"
		entry.ErrorMessage = &msg
	}
	if result != nil {
		entry.SessionsReceived = result.SessionsReceived
		entry.SessionsInserted = result.SessionsInserted
		entry.SetsInserted = result.SetsInserted
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd
	defer cancel()
	if _, err := imp.logs.InsertImportLog(ctx, entry); err != nil {
		imp.log.Error("failed to log import", "file", path, "error", err)
	}
}

// csvFiles lists path itself or the *.csv files below it, sorted.
func csvFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".csv") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", path, err)
	}
	sort.Strings(files)
	return files, nil
}

// Discard is an alpha.Store that stores nothing and reports what it would
// have written. Used for dry runs.
var Discard discardStore

type discardStore struct{}

func (discardStore) ReplaceSessions(_ context.Context, sessions []models.WorkoutSession) (int64, int64, error) {
	var sets int64
	for _, s := range sessions {
		for _, es := range s.Exercises {
			sets += int64(len(es.Sets))
		}
	}
	return int64(len(sessions)), sets, nil
}
