package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/liftstats/internal/analytics"
	"github.com/claude/liftstats/internal/models"
	"github.com/claude/liftstats/internal/scoring"
	"github.com/claude/liftstats/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleAlphaIngest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result, err := s.alpha.Ingest(r.Context(), r.Body)
	s.logImport("alpha", result, err, int(time.Since(start).Milliseconds()))
	if err != nil {
		s.log.Error("alpha ingest error", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if _, err := s.Refresh(r.Context()); err != nil {
		s.log.Error("refresh after import failed", "error", err)
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	mode, start, end, err := parseWindow(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	opts, err := s.parseOptions(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sessions, err := s.store.LoadSessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	snap := s.runner.Run(analytics.Filter(sessions, mode, start, end), opts)
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	seq, err := s.Refresh(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]uint64{"seq": seq})
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	p, ok := s.runner.Latest()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no snapshot published yet"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	mode, start, end, err := parseWindow(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sessions, err := s.store.LoadSessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	filtered := analytics.Filter(sessions, mode, start, end)
	out := make([]models.SessionSummary, 0, len(filtered))
	for i := range filtered {
		out = append(out, models.NewSessionSummary(&filtered[i], scoring.Score(&filtered[i])))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleHistory returns full session records for remote engine runs.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	mode, start, end, err := parseWindow(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sessions, err := s.store.LoadSessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, analytics.Filter(sessions, mode, start, end))
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleSessionScore(w http.ResponseWriter, r *http.Request) {
	session, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session": models.NewSessionSummary(session, scoring.Score(session)),
		"result":  scoring.Compute(scoring.Extract(session)),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}

	err = s.store.DeleteSession(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	if err != nil {
		s.log.Error("deleting session failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.log.Info("session deleted", "id", id)
	if _, err := s.Refresh(r.Context()); err != nil {
		s.log.Warn("analytics refresh after delete failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadSession resolves the {id} URL parameter and writes the error response
// itself when the session cannot be returned.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*models.WorkoutSession, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return nil, false
	}

	session, err := s.store.LoadSession(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return nil, false
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	return session, true
}

// Refresh submits a background run over the full history with the current
// default preferences.
func (s *Server) Refresh(ctx context.Context) (uint64, error) {
	sessions, err := s.store.LoadSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading sessions: %w", err)
	}
	prefs := s.Analytics()
	weight, distance := prefs.Units()
	return s.runner.Submit(sessions, analytics.Options{
		Flags:        prefs.InclusionFlags,
		WeightUnit:   weight,
		DistanceUnit: distance,
	}), nil
}

// parseOptions starts from the configured preferences and applies the
// warmup, dropset, cooldown, weight_unit and distance_unit query overrides.
func (s *Server) parseOptions(r *http.Request) (analytics.Options, error) {
	prefs := s.Analytics()
	weight, distance := prefs.Units()
	opts := analytics.Options{Flags: prefs.InclusionFlags, WeightUnit: weight, DistanceUnit: distance}

	q := r.URL.Query()
	flags := []struct {
		name string
		dst  *bool
	}{
		{"warmup", &opts.Flags.IncludeWarmUp},
		{"dropset", &opts.Flags.IncludeDropSet},
		{"cooldown", &opts.Flags.IncludeCoolDown},
	}
	for _, f := range flags {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid %s: %q", f.name, v)
		}
		*f.dst = b
	}

	var err error
	if v := q.Get("weight_unit"); v != "" {
		if opts.WeightUnit, err = models.ParseWeightUnit(v); err != nil {
			return opts, err
		}
	}
	if v := q.Get("distance_unit"); v != "" {
		if opts.DistanceUnit, err = models.ParseDistanceUnit(v); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseWindow reads range, start and end. Without a range the window is
// custom when either bound is given and allTime otherwise. A custom window
// missing a bound is not an error; it selects nothing.
func parseWindow(r *http.Request) (mode analytics.TimeRangeMode, start, end *time.Time, err error) {
	q := r.URL.Query()
	startStr, endStr, rangeStr := q.Get("start"), q.Get("end"), q.Get("range")

	if startStr != "" {
		t, err := parseTime(startStr, false)
		if err != nil {
			return "", nil, nil, fmt.Errorf("invalid start: %w", err)
		}
		start = &t
	}
	if endStr != "" {
		t, err := parseTime(endStr, true)
		if err != nil {
			return "", nil, nil, fmt.Errorf("invalid end: %w", err)
		}
		end = &t
	}

	if rangeStr == "" && (start != nil || end != nil) {
		return analytics.Custom, start, end, nil
	}
	mode, err = analytics.ParseTimeRangeMode(rangeStr)
	if err != nil {
		return "", nil, nil, err
	}
	return mode, start, end, nil
}

// parseTime accepts RFC 3339 or a bare date. A bare end date covers the
// whole day.
func parseTime(s string, endOfDay bool) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
