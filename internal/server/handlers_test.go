package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/claude/liftstats/internal/analytics"
	"github.com/claude/liftstats/internal/config"
	"github.com/claude/liftstats/internal/ingest/alpha"
	"github.com/claude/liftstats/internal/metrics"
	"github.com/claude/liftstats/internal/models"
	"github.com/claude/liftstats/internal/storage"
	"github.com/google/uuid"
)

const testAPIKey = "test-key"

const alphaCSV = `"Push · Day 1 · Week 1 · Push-Pull-Legs";"2026-02-17 5:04 h";"1:00 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 40 kg · 10 reps"
#;KG;REPS;RIR
1;100;6;0
2;100;6;0
`

// fakeStore keeps sessions and import logs in memory.
type fakeStore struct {
	mu         sync.Mutex
	sessions   []models.WorkoutSession
	importLogs []storage.ImportLog
	err        error
}

func (f *fakeStore) LoadSessions(_ context.Context) ([]models.WorkoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.WorkoutSession(nil), f.sessions...), nil
}

func (f *fakeStore) LoadSession(_ context.Context, id uuid.UUID) (*models.WorkoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.sessions {
		if f.sessions[i].ID == id {
			s := f.sessions[i]
			return &s, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) ReplaceSessions(_ context.Context, sessions []models.WorkoutSession) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, 0, f.err
	}
	var sets int64
	for _, s := range sessions {
		f.sessions = append(f.sessions, s)
		for _, es := range s.Exercises {
			sets += int64(len(es.Sets))
		}
	}
	return int64(len(sessions)), sets, nil
}

func (f *fakeStore) DeleteSession(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.sessions {
		if f.sessions[i].ID == id {
			f.sessions = append(f.sessions[:i], f.sessions[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) GetDataStats(_ context.Context) (*storage.DataStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &storage.DataStats{TotalSessions: int64(len(f.sessions))}, nil
}

func (f *fakeStore) InsertImportLog(_ context.Context, log storage.ImportLog) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	log.ID = int64(len(f.importLogs) + 1)
	f.importLogs = append(f.importLogs, log)
	return log.ID, nil
}

func (f *fakeStore) QueryImportLogs(_ context.Context, limit int) ([]storage.ImportLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.importLogs) {
		limit = len(f.importLogs)
	}
	return append([]storage.ImportLog(nil), f.importLogs[:limit]...), nil
}

func newTestServer(t *testing.T, store *fakeStore) (*Server, *analytics.Runner) {
	t.Helper()
	m := metrics.NewTestManager()
	runner := analytics.NewRunner(m, slog.Default())
	t.Cleanup(runner.Wait)
	provider := alpha.NewProvider(store, nil, m, slog.Default())
	return New(store, provider, runner, m, testAPIKey, slog.Default()), runner
}

// chestBack is two chest sets, one back set and a chest warm-up.
func chestBack() *fakeStore {
	bench := &models.Exercise{ID: uuid.New(), Name: "Bench Press", MuscleGroup: models.MuscleGroupChest, Tracking: models.TrackWeight}
	row := &models.Exercise{ID: uuid.New(), Name: "Barbell Row", MuscleGroup: models.MuscleGroupBack, Tracking: models.TrackWeight}
	def := &models.WorkoutDefinition{ID: uuid.New(), Name: "Upper"}
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	set := func(kind models.SetKind, reps int, kg float64) models.SetRecord {
		return models.SetRecord{ID: uuid.New(), Kind: kind, Completed: true, Reps: reps, Weight: kg, Unit: models.Metric}
	}
	return &fakeStore{sessions: []models.WorkoutSession{{
		ID: uuid.New(), Definition: def, Started: true, Completed: true,
		Start: start, End: start.Add(time.Hour),
		Exercises: []models.ExerciseSession{
			{ID: uuid.New(), Exercise: bench, Sets: []models.SetRecord{
				set(models.SetWarmUp, 5, 50), set(models.SetMain, 10, 100), set(models.SetMain, 8, 100),
			}},
			{ID: uuid.New(), Exercise: row, Sets: []models.SetRecord{set(models.SetMain, 12, 80)}},
		},
	}}}
}

type snapshotBody struct {
	Options struct {
		WeightUnit string `json:"weight_unit"`
		Flags      struct {
			IncludeWarmUp bool `json:"include_warmup"`
		} `json:"flags"`
	} `json:"options"`
	Sessions int `json:"sessions"`
	Overall  map[string]struct {
		Totals map[string]float64 `json:"totals"`
	} `json:"overall"`
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) snapshotBody {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var body snapshotBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return body
}

func TestAnalyticsDefaults(t *testing.T) {
	s, _ := newTestServer(t, chestBack())

	body := decodeSnapshot(t, do(t, s, http.MethodGet, "/api/v1/analytics", nil))
	if body.Sessions != 1 {
		t.Errorf("sessions = %d, want 1", body.Sessions)
	}
	reps := body.Overall["reps"].Totals
	if reps["chest"] != 18 || reps["back"] != 12 || reps["overall"] != 30 {
		t.Errorf("reps totals = %v, want chest 18, back 12, overall 30", reps)
	}
	if got := body.Overall["weight"].Totals["overall"]; got != 2760 {
		t.Errorf("weight overall = %v, want 2760", got)
	}
	if body.Options.WeightUnit != "kg" {
		t.Errorf("weight unit = %q, want kg", body.Options.WeightUnit)
	}
}

func TestAnalyticsQueryOverrides(t *testing.T) {
	s, _ := newTestServer(t, chestBack())

	body := decodeSnapshot(t, do(t, s, http.MethodGet, "/api/v1/analytics?warmup=true&weight_unit=lb", nil))
	if !body.Options.Flags.IncludeWarmUp {
		t.Error("warmup override not applied")
	}
	if got := body.Overall["reps"].Totals["overall"]; got != 35 {
		t.Errorf("reps overall = %v, want 35", got)
	}
	want := 3010 / 0.45359237
	if got := body.Overall["weight"].Totals["overall"]; math.Abs(got-want) > 1e-6 {
		t.Errorf("weight overall = %v, want %v", got, want)
	}
}

func TestSetAnalyticsChangesDefaults(t *testing.T) {
	s, _ := newTestServer(t, chestBack())
	s.SetAnalytics(config.AnalyticsConfig{
		InclusionFlags: models.InclusionFlags{IncludeWarmUp: true},
		WeightUnit:     "kg",
		DistanceUnit:   "km",
	})

	body := decodeSnapshot(t, do(t, s, http.MethodGet, "/api/v1/analytics", nil))
	if got := body.Overall["reps"].Totals["overall"]; got != 35 {
		t.Errorf("reps overall = %v, want 35", got)
	}

	body = decodeSnapshot(t, do(t, s, http.MethodGet, "/api/v1/analytics?warmup=false", nil))
	if got := body.Overall["reps"].Totals["overall"]; got != 30 {
		t.Errorf("reps overall with override = %v, want 30", got)
	}
}

func TestAnalyticsWindow(t *testing.T) {
	s, _ := newTestServer(t, chestBack())

	tests := []struct {
		query string
		want  int
	}{
		{"?range=allTime", 1},
		{"?range=custom&start=2026-03-01&end=2026-03-01", 1},
		{"?start=2026-02-01&end=2026-02-28", 0},
		{"?range=custom&start=2026-01-01", 0},
		{"?end=2026-12-31", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			body := decodeSnapshot(t, do(t, s, http.MethodGet, "/api/v1/analytics"+tt.query, nil))
			if body.Sessions != tt.want {
				t.Errorf("sessions = %d, want %d", body.Sessions, tt.want)
			}
		})
	}
}

func TestAnalyticsBadRequest(t *testing.T) {
	s, _ := newTestServer(t, chestBack())

	for _, q := range []string{
		"?range=yesterday",
		"?start=not-a-date",
		"?warmup=maybe",
		"?weight_unit=stone",
		"?distance_unit=furlong",
	} {
		t.Run(q, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/api/v1/analytics"+q, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["error"] == "" {
				t.Errorf("want JSON error body, got %q", rec.Body.String())
			}
		})
	}
}

func TestAnalyticsStoreError(t *testing.T) {
	store := chestBack()
	store.err = errors.New("connection refused")
	s, _ := newTestServer(t, store)

	if rec := do(t, s, http.MethodGet, "/api/v1/analytics", nil); rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRefreshPublishesLatest(t *testing.T) {
	s, runner := newTestServer(t, chestBack())

	if rec := do(t, s, http.MethodGet, "/api/v1/analytics/latest", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("latest before refresh = %d, want 404", rec.Code)
	}

	rec := do(t, s, http.MethodPost, "/api/v1/analytics/refresh", nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("refresh status = %d, want 202", rec.Code)
	}
	runner.Wait()

	rec = do(t, s, http.MethodGet, "/api/v1/analytics/latest", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("latest status = %d, want 200", rec.Code)
	}
	var body struct {
		Seq      uint64       `json:"seq"`
		Snapshot snapshotBody `json:"snapshot"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body.Seq != 1 || body.Snapshot.Sessions != 1 {
		t.Errorf("latest = seq %d, sessions %d; want 1, 1", body.Seq, body.Snapshot.Sessions)
	}
}

func TestSessionsAndScore(t *testing.T) {
	store := chestBack()
	s, _ := newTestServer(t, store)
	id := store.sessions[0].ID

	rec := do(t, s, http.MethodGet, "/api/v1/sessions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("sessions status = %d, want 200", rec.Code)
	}
	var list []models.SessionSummary
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(list) != 1 || list[0].ID != id {
		t.Fatalf("sessions = %+v", list)
	}
	if list[0].Sets != 4 || list[0].DefinitionName != "Upper" || list[0].Score <= 0 {
		t.Errorf("summary = %+v", list[0])
	}

	rec = do(t, s, http.MethodGet, "/api/v1/sessions/"+id.String()+"/score", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("score status = %d, want 200", rec.Code)
	}
	var score struct {
		Session models.SessionSummary `json:"session"`
		Result  struct {
			Score     int     `json:"score"`
			Intensity float64 `json:"intensity"`
		} `json:"result"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&score); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if score.Result.Score != list[0].Score {
		t.Errorf("score = %d, list score = %d", score.Result.Score, list[0].Score)
	}
	if score.Result.Intensity <= 0 || score.Result.Intensity > 100 {
		t.Errorf("intensity = %v, want (0, 100]", score.Result.Intensity)
	}

	if rec := do(t, s, http.MethodGet, "/api/v1/sessions/"+uuid.NewString()+"/score", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown session = %d, want 404", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/v1/sessions/42/score", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id = %d, want 400", rec.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	store := chestBack()
	s, runner := newTestServer(t, store)
	id := store.sessions[0].ID
	target := "/api/v1/sessions/" + id.String()

	if rec := do(t, s, http.MethodDelete, target, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key = %d, want 401", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/v1/sessions/42", nil, "X-API-Key", testAPIKey); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id = %d, want 400", rec.Code)
	}

	if rec := do(t, s, http.MethodDelete, target, nil, "X-API-Key", testAPIKey); rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d, want 204", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, target, nil); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, target, nil, "X-API-Key", testAPIKey); rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}

	runner.Wait()
	latest, ok := runner.Latest()
	if !ok || latest.Snapshot.Sessions() != 0 {
		t.Errorf("latest after delete = %+v, want an empty snapshot", latest)
	}
}

func TestAlphaIngestAuth(t *testing.T) {
	s, _ := newTestServer(t, &fakeStore{})

	if rec := do(t, s, http.MethodPost, "/api/v1/ingest/alpha", strings.NewReader(alphaCSV)); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key = %d, want 401", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/ingest/alpha", strings.NewReader(alphaCSV), "X-API-Key", "nope"); rec.Code != http.StatusForbidden {
		t.Errorf("wrong key = %d, want 403", rec.Code)
	}
}

func TestAlphaIngest(t *testing.T) {
	store := &fakeStore{}
	s, runner := newTestServer(t, store)

	rec := do(t, s, http.MethodPost, "/api/v1/ingest/alpha", strings.NewReader(alphaCSV), "X-API-Key", testAPIKey)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var result struct {
		SessionsInserted int64 `json:"sessions_inserted"`
		SetsInserted     int64 `json:"sets_inserted"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if result.SessionsInserted != 1 || result.SetsInserted != 3 {
		t.Errorf("result = %+v, want 1 session, 3 sets", result)
	}

	if len(store.importLogs) != 1 || store.importLogs[0].Status != "success" || store.importLogs[0].Source != "alpha" {
		t.Errorf("import logs = %+v", store.importLogs)
	}

	// The import triggers a background refresh.
	runner.Wait()
	p, ok := runner.Latest()
	if !ok || p.Snapshot.Sessions() != 1 {
		t.Errorf("latest after import = %v, %v", p, ok)
	}
}

func TestAlphaIngestStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	s, _ := newTestServer(t, store)

	rec := do(t, s, http.MethodPost, "/api/v1/ingest/alpha", strings.NewReader(alphaCSV), "X-API-Key", testAPIKey)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if len(store.importLogs) != 1 || store.importLogs[0].Status != "error" || store.importLogs[0].ErrorMessage == nil {
		t.Errorf("import logs = %+v", store.importLogs)
	}
}

func TestStatsAndImportLogs(t *testing.T) {
	store := chestBack()
	store.importLogs = []storage.ImportLog{{ID: 1, Source: "alpha"}, {ID: 2, Source: "alpha"}}
	s, _ := newTestServer(t, store)

	rec := do(t, s, http.MethodGet, "/api/v1/stats", nil)
	var stats storage.DataStats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if stats.TotalSessions != 1 {
		t.Errorf("total sessions = %d, want 1", stats.TotalSessions)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/import-logs?limit=1", nil)
	var logs []storage.ImportLog
	if err := json.NewDecoder(rec.Body).Decode(&logs); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("logs = %d, want 1", len(logs))
	}
}

// TestHistoryRoundTrip verifies full session records decode back into the
// model with references intact.
func TestHistoryRoundTrip(t *testing.T) {
	store := chestBack()
	s, _ := newTestServer(t, store)

	rec := do(t, s, http.MethodGet, "/api/v1/history?range=allTime", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var sessions []models.WorkoutSession
	if err := json.NewDecoder(rec.Body).Decode(&sessions); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(sessions) != 1 || len(sessions[0].Exercises) != 2 {
		t.Fatalf("history = %+v", sessions)
	}
	if got := sessions[0].Exercises[1].Exercise.MuscleGroup; got != models.MuscleGroupBack {
		t.Errorf("row group = %v, want back", got)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/sessions/"+store.sessions[0].ID.String(), nil)
	var one models.WorkoutSession
	if err := json.NewDecoder(rec.Body).Decode(&one); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if one.Definition == nil || one.Definition.Name != "Upper" {
		t.Errorf("definition = %+v", one.Definition)
	}
}
