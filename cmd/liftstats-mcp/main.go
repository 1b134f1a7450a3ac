package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/claude/liftstats/internal/analytics"
	liftmcp "github.com/claude/liftstats/internal/mcp"
	"github.com/claude/liftstats/internal/models"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "liftstats server URL")
	weightUnit := flag.String("weight-unit", "kg", "default weight unit (kg or lb)")
	distanceUnit := flag.String("distance-unit", "km", "default distance unit (km or mi)")
	warmUp := flag.Bool("include-warmup", false, "count warm-up sets by default")
	dropSet := flag.Bool("include-drop-set", false, "count drop sets by default")
	coolDown := flag.Bool("include-cool-down", false, "count cool-down sets by default")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftstats-mcp", Version)
		return
	}

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	weight, err := models.ParseWeightUnit(*weightUnit)
	if err != nil {
		log.Error("invalid -weight-unit", "error", err)
		os.Exit(1)
	}
	distance, err := models.ParseDistanceUnit(*distanceUnit)
	if err != nil {
		log.Error("invalid -distance-unit", "error", err)
		os.Exit(1)
	}

	ds := liftmcp.NewHTTPClient(strings.TrimRight(*serverURL, "/"))
	s := liftmcp.New(ds, analytics.Options{
		Flags: models.InclusionFlags{
			IncludeWarmUp:   *warmUp,
			IncludeDropSet:  *dropSet,
			IncludeCoolDown: *coolDown,
		},
		WeightUnit:   weight,
		DistanceUnit: distance,
	}, Version, log)

	log.Info("liftstats-mcp starting", "version", Version, "server", *serverURL)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("stdio server stopped", "error", err)
		os.Exit(1)
	}
}
