package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/claude/liftstats/internal/catalog"
	"github.com/claude/liftstats/internal/config"
	"github.com/claude/liftstats/internal/importer"
	"github.com/claude/liftstats/internal/importstate"
	"github.com/claude/liftstats/internal/ingest/alpha"
	"github.com/claude/liftstats/internal/storage"
	"github.com/claude/liftstats/internal/upload"
	"go.uber.org/multierr"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	migrationsPath := flag.String("migrations", "migrations", "path to migrations directory (local mode)")
	exportPath := flag.String("path", "", "Alpha Progression CSV file or directory of exports (required)")
	serverURL := flag.String("server", "", "send exports to a running liftstats server instead of the database")
	apiKey := flag.String("api-key", os.Getenv("LIFTSTATS_AUTH_API_KEY"), "API key for -server")
	stateDir := flag.String("state-dir", "", "directory for the import ledger (default ~/.liftstats-import)")
	dryRun := flag.Bool("dry-run", false, "parse and convert but don't store anything")
	list := flag.Bool("list", false, "list files recorded in the import ledger and exit")
	forget := flag.String("forget", "", "remove a file from the import ledger so the next run re-imports it")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftstats-import", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *exportPath == "" && !*list && *forget == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftstats-import -path <export.csv|dir> [-config config.yaml | -server <URL> -api-key <key>] [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *serverURL != "" && *apiKey == "" && !*dryRun {
		fmt.Fprintf(os.Stderr, "Error: -api-key is required with -server\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open import ledger
	if *stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		*stateDir = filepath.Join(homeDir, ".liftstats-import")
	}
	ledger, err := importstate.Open(*stateDir)
	if err != nil {
		log.Error("failed to open import ledger", "error", err)
		os.Exit(1)
	}
	defer ledger.Close()

	if *list {
		entries, err := ledger.List()
		if err != nil {
			log.Error("failed to list import ledger", "error", err)
			os.Exit(1)
		}
		for _, e := range entries {
			fmt.Printf("%s  %4d sessions  %s\n", e.ImportedAt.Format("2006-01-02 15:04"), e.Sessions, e.Path)
		}
		return
	}
	if *forget != "" {
		if err := ledger.Forget(*forget); err != nil {
			log.Error("failed to forget file", "path", *forget, "error", err)
			os.Exit(1)
		}
		log.Info("removed from import ledger", "path", *forget)
		return
	}

	if *dryRun {
		log.Info("DRY RUN mode, nothing will be stored")
	}

	var (
		ing  importer.Ingester
		logs importer.ImportLogger
	)
	switch {
	case *dryRun:
		ing = alpha.NewProvider(importer.Discard, catalog.Default(), nil, log)

	case *serverURL != "":
		url := strings.TrimRight(*serverURL, "/")
		log.Info("sending exports to server", "server", url)
		// The server writes its own import log entries.
		ing = upload.NewClient(url, *apiKey)

	default:
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, *migrationsPath); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")

		db, err := storage.New(ctx, dsn, nil)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		log.Info("database connected")

		ing = alpha.NewProvider(db, catalog.Default(), nil, log)
		logs = db
	}

	imp := importer.New(ing, ledger, logs, log, *dryRun)
	stats, err := imp.Import(ctx, *exportPath)
	printStats(stats)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}
	log.Info("import complete")
}

func printStats(stats *importer.Stats) {
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("  Files total:      %d\n", stats.FilesTotal)
	fmt.Printf("  Files imported:   %d\n", stats.FilesProcessed)
	fmt.Printf("  Files skipped:    %d (already imported)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Sessions:         %d received, %d stored\n", stats.SessionsReceived, stats.SessionsInserted)
	fmt.Printf("  Sets stored:      %d\n", stats.SetsInserted)

	if errs := multierr.Errors(stats.Err); len(errs) > 0 {
		fmt.Printf("\n  Failed files:\n")
		for _, err := range errs {
			fmt.Printf("    - %v\n", err)
		}
	}

	if len(stats.Unclassified) > 0 {
		fmt.Printf("\n  Exercises without a muscle group:\n")
		for _, name := range stats.Unclassified {
			fmt.Printf("    - %s\n", name)
		}
	}
	fmt.Println()
}
