package mcp

import (
	"log/slog"

	"github.com/claude/liftstats/internal/analytics"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
// defaults supply the inclusion flags and units when a tool call omits them.
func New(ds DataSource, defaults analytics.Options, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("liftstats", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("liftstats strength training analytics. Break training volume down by muscle group, score individual workout sessions, and list recent sessions."),
	)

	h := &handlers{ds: ds, defaults: defaults, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetMuscleBreakdown, Handler: h.getMuscleBreakdown},
		server.ServerTool{Tool: toolGetSessionScore, Handler: h.getSessionScore},
		server.ServerTool{Tool: toolListSessions, Handler: h.listSessions},
		server.ServerTool{Tool: toolGetDataStats, Handler: h.getDataStats},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
		server.ServerResource{Resource: resMuscleGroups, Handler: h.muscleGroups},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds       DataSource
	defaults analytics.Options
	log      *slog.Logger
}

// --- Resource definitions ---

var resRecentSessions = mcp.NewResource(
	"liftstats://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("Workout sessions from the last 14 days with their scores"),
	mcp.WithMIMEType("application/json"),
)

var resMuscleGroups = mcp.NewResource(
	"liftstats://muscle_groups",
	"Muscle Groups",
	mcp.WithResourceDescription("Muscle groups in the canonical order used for stacked breakdown ranges"),
	mcp.WithMIMEType("application/json"),
)
