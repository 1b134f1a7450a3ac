package upload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/claude/liftstats/internal/ingest"
)

func newTestClient(url string) *Client {
	c := NewClient(url+"/", "secret")
	c.backoff = time.Millisecond
	return c
}

// TestIngestSendsCSV verifies the request path, API key and body, and that the
// server's result is decoded.
func TestIngestSendsCSV(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/ingest/alpha" {
			t.Errorf("path = %s, want /api/v1/ingest/alpha", r.URL.Path)
		}
		if got := r.Header.Get("X-API-Key"); got != "secret" {
			t.Errorf("X-API-Key = %q, want secret", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "csv body" {
			t.Errorf("body = %q", body)
		}
		w.Write([]byte(`{"sessions_received":2,"sessions_inserted":2,"sets_inserted":28}`)) //nolint:errcheck
	}))
	defer ts.Close()

	result, err := newTestClient(ts.URL).Ingest(context.Background(), strings.NewReader("csv body"))
	if err != nil {
		t.Fatal(err)
	}
	want := ingest.Result{SessionsReceived: 2, SessionsInserted: 2, SetsInserted: 28}
	if result.SessionsReceived != want.SessionsReceived || result.SessionsInserted != want.SessionsInserted || result.SetsInserted != want.SetsInserted {
		t.Errorf("result = %+v, want %+v", result, want)
	}
}

// TestIngestRetriesServerErrors verifies 5xx responses are retried with the
// same body.
func TestIngestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != "csv body" {
			t.Errorf("attempt %d body = %q", calls.Load()+1, body)
		}
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"sessions_inserted":1}`)) //nolint:errcheck
	}))
	defer ts.Close()

	result, err := newTestClient(ts.URL).Ingest(context.Background(), strings.NewReader("csv body"))
	if err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 3 || result.SessionsInserted != 1 {
		t.Errorf("calls = %d, result = %+v", calls.Load(), result)
	}
}

// TestIngestClientErrorNotRetried verifies 4xx responses fail on the first attempt.
func TestIngestClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"invalid API key"}`, http.StatusForbidden)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).Ingest(context.Background(), strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Errorf("err = %v, want status 403", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestIngestGivesUp(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).Ingest(context.Background(), strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("err = %v, want retry exhaustion", err)
	}
}
