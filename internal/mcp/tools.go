package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/claude/liftstats/internal/analytics"
	"github.com/claude/liftstats/internal/models"
	"github.com/claude/liftstats/internal/scoring"
	"github.com/claude/liftstats/internal/storage"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// parseWindow reads the range, start and end arguments. Bounds without a
// range select custom; nothing at all selects allTime.
func parseWindow(req mcp.CallToolRequest) (analytics.TimeRangeMode, *time.Time, *time.Time, error) {
	var start, end *time.Time
	if s := req.GetString("start", ""); s != "" {
		t, err := parseFlexTime(s)
		if err != nil {
			return "", nil, nil, fmt.Errorf("start: %w", err)
		}
		start = &t
	}
	if s := req.GetString("end", ""); s != "" {
		t, err := parseFlexTime(s)
		if err != nil {
			return "", nil, nil, fmt.Errorf("end: %w", err)
		}
		if len(s) == len("2006-01-02") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		end = &t
	}

	rangeStr := req.GetString("range", "")
	if rangeStr == "" && (start != nil || end != nil) {
		return analytics.Custom, start, end, nil
	}
	mode, err := analytics.ParseTimeRangeMode(rangeStr)
	if err != nil {
		return "", nil, nil, err
	}
	return mode, start, end, nil
}

// options overlays tool arguments on the server defaults.
func (h *handlers) options(req mcp.CallToolRequest) (analytics.Options, error) {
	opts := h.defaults
	opts.Flags.IncludeWarmUp = req.GetBool("include_warmup", opts.Flags.IncludeWarmUp)
	opts.Flags.IncludeDropSet = req.GetBool("include_drop_set", opts.Flags.IncludeDropSet)
	opts.Flags.IncludeCoolDown = req.GetBool("include_cool_down", opts.Flags.IncludeCoolDown)

	var err error
	if v := req.GetString("weight_unit", ""); v != "" {
		if opts.WeightUnit, err = models.ParseWeightUnit(v); err != nil {
			return opts, err
		}
	}
	if v := req.GetString("distance_unit", ""); v != "" {
		if opts.DistanceUnit, err = models.ParseDistanceUnit(v); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func parseMetric(s string) (analytics.Metric, error) {
	for m := analytics.MetricReps; m <= analytics.MetricDuration; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q (want reps, weight, distance or duration)", s)
}

// --- Tool definitions ---

var windowArgs = []mcp.ToolOption{
	mcp.WithString("range", mcp.Description("Time window. Defaults to allTime, or custom when start/end are given."), mcp.Enum("last7days", "last30days", "custom", "allTime")),
	mcp.WithString("start", mcp.Description("Custom window start (ISO 8601 or YYYY-MM-DD).")),
	mcp.WithString("end", mcp.Description("Custom window end (ISO 8601 or YYYY-MM-DD, inclusive).")),
}

var toolGetMuscleBreakdown = mcp.NewTool("get_muscle_breakdown",
	append([]mcp.ToolOption{
		mcp.WithDescription("Break training down by muscle group. Returns per-group totals, their share of the overall total and the stacked range each group occupies, for all training and optionally per workout definition or per exercise."),
		mcp.WithString("metric", mcp.Description("Quantity to break down. Weight is volume (reps x load). Defaults to weight."), mcp.Enum("reps", "weight", "distance", "duration")),
		mcp.WithString("scope", mcp.Description("Add per-definition or per-exercise breakdowns. Defaults to overall only."), mcp.Enum("overall", "definitions", "exercises")),
		mcp.WithBoolean("include_warmup", mcp.Description("Count warm-up sets.")),
		mcp.WithBoolean("include_drop_set", mcp.Description("Count drop sets.")),
		mcp.WithBoolean("include_cool_down", mcp.Description("Count cool-down sets.")),
		mcp.WithString("weight_unit", mcp.Description("Output weight unit."), mcp.Enum("kg", "lb")),
		mcp.WithString("distance_unit", mcp.Description("Output distance unit."), mcp.Enum("km", "mi")),
	}, windowArgs...)...,
)

var toolGetSessionScore = mcp.NewTool("get_session_score",
	mcp.WithDescription("Score one workout session from 0 to 100 and return the volume, intensity, efficiency and diversity sub-scores."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Session UUID (see list_sessions)")),
)

var toolListSessions = mcp.NewTool("list_sessions",
	append([]mcp.ToolOption{
		mcp.WithDescription("List workout sessions newest first with duration, set counts and score."),
		mcp.WithNumber("limit", mcp.Description("Maximum sessions to return. Defaults to 20.")),
	}, windowArgs...)...,
)

var toolGetDataStats = mcp.NewTool("get_data_stats",
	mcp.WithDescription("Counts of stored sessions, definitions, exercises and sets, the covered date range and sessions per workout definition."),
)

// --- Tool handlers ---

// groupShare is one muscle group's slice of a breakdown.
type groupShare struct {
	Group models.MuscleGroup `json:"group"`
	Total float64            `json:"total"`
	Share float64            `json:"share"`
	Lower float64            `json:"lower"`
	Upper float64            `json:"upper"`
}

type scopeBreakdown struct {
	ID      *uuid.UUID   `json:"id,omitempty"`
	Name    string       `json:"name"`
	Overall float64      `json:"overall"`
	Groups  []groupShare `json:"groups"`

	// Per-session history statistics of the scope's totals.
	Mean  *float64 `json:"mean_per_session,omitempty"`
	Trend *float64 `json:"trend_per_session,omitempty"`
}

type breakdownResult struct {
	Metric      string            `json:"metric"`
	Unit        string            `json:"unit"`
	Options     analytics.Options `json:"options"`
	Sessions    int               `json:"sessions"`
	Overall     scopeBreakdown    `json:"overall"`
	Definitions []scopeBreakdown  `json:"definitions,omitempty"`
	Exercises   []scopeBreakdown  `json:"exercises,omitempty"`
}

func metricUnit(m analytics.Metric, opts analytics.Options) string {
	switch m {
	case analytics.MetricWeight:
		return string(opts.WeightUnit)
	case analytics.MetricDistance:
		return string(opts.DistanceUnit)
	case analytics.MetricDuration:
		return "s"
	}
	return "reps"
}

func describe(name string, b *analytics.Breakdown) scopeBreakdown {
	out := scopeBreakdown{Name: name, Overall: b.Total(models.MuscleGroupOverall), Groups: []groupShare{}}
	for _, r := range b.Ranges() {
		share := 0.0
		if out.Overall > 0 {
			share = r.Len() / out.Overall
		}
		out.Groups = append(out.Groups, groupShare{Group: r.Group, Total: b.Total(r.Group), Share: share, Lower: r.Lower, Upper: r.Upper})
	}
	return out
}

func withSeries(sb scopeBreakdown, s analytics.Series) scopeBreakdown {
	mean, trend := s.Mean(), s.Trend()
	sb.Mean, sb.Trend = &mean, &trend
	return sb
}

func (h *handlers) getMuscleBreakdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metric, err := parseMetric(req.GetString("metric", "weight"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode, start, end, err := parseWindow(req)
	if err != nil {
		return mcp.NewToolResultError("invalid time window: " + err.Error()), nil
	}
	opts, err := h.options(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scope := req.GetString("scope", "overall")

	sessions, err := h.ds.LoadSessions(ctx)
	if err != nil {
		h.log.Error("mcp get_muscle_breakdown", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	snap := analytics.Aggregate(analytics.Filter(sessions, mode, start, end), opts.Flags, opts.WeightUnit, opts.DistanceUnit)

	out := breakdownResult{
		Metric:   metric.String(),
		Unit:     metricUnit(metric, opts),
		Options:  opts,
		Sessions: snap.Sessions(),
		Overall:  describe("overall", snap.Overall().Breakdown(metric)),
	}
	switch scope {
	case "definitions":
		for _, k := range snap.Definitions() {
			sc, _ := snap.Definition(k.ID)
			sb := describe(k.Name, sc.Breakdown(metric))
			sb.ID = &k.ID
			if totals, ok := snap.DefinitionTotals(k.ID); ok {
				switch metric {
				case analytics.MetricReps:
					sb = withSeries(sb, totals.Reps)
				case analytics.MetricWeight:
					sb = withSeries(sb, totals.Weight)
				}
			}
			out.Definitions = append(out.Definitions, sb)
		}
	case "exercises":
		for _, k := range snap.Exercises() {
			sc, _ := snap.Exercise(k.ID)
			sb := describe(k.Name, sc.Breakdown(metric))
			sb.ID = &k.ID
			if totals, ok := snap.ExerciseTotals(k.ID); ok {
				switch metric {
				case analytics.MetricReps:
					sb = withSeries(sb, totals.Reps)
				case analytics.MetricWeight:
					sb = withSeries(sb, totals.Weight)
				}
			}
			out.Exercises = append(out.Exercises, sb)
		}
	case "overall":
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown scope %q", scope)), nil
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessionScore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid session ID: " + idStr), nil
	}

	session, err := h.ds.LoadSession(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("session not found: " + idStr), nil
	}
	if err != nil {
		h.log.Error("mcp get_session_score", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	res := scoring.Compute(scoring.Extract(session))
	result, err := mcp.NewToolResultJSON(map[string]any{
		"session": models.NewSessionSummary(session, res.Score),
		"result":  res,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// summarize scores sessions and orders them newest first.
func summarize(sessions []models.WorkoutSession, limit int) []models.SessionSummary {
	out := make([]models.SessionSummary, 0, len(sessions))
	for i := range sessions {
		out = append(out, models.NewSessionSummary(&sessions[i], scoring.Score(&sessions[i])))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.After(out[j].Start) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (h *handlers) listSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode, start, end, err := parseWindow(req)
	if err != nil {
		return mcp.NewToolResultError("invalid time window: " + err.Error()), nil
	}
	limit := req.GetInt("limit", 20)

	sessions, err := h.ds.LoadSessions(ctx)
	if err != nil {
		h.log.Error("mcp list_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summarize(analytics.Filter(sessions, mode, start, end), limit))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDataStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.ds.GetDataStats(ctx)
	if err != nil {
		h.log.Error("mcp get_data_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
