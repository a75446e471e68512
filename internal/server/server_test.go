package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/longkt99/scribe/internal/continuity"
	"github.com/longkt99/scribe/internal/decision"
	"github.com/longkt99/scribe/internal/gate"
	"github.com/longkt99/scribe/internal/governance"
	"github.com/longkt99/scribe/internal/outcome"
	"github.com/longkt99/scribe/internal/preference"
	"github.com/longkt99/scribe/internal/recovery"
	"github.com/longkt99/scribe/internal/storage"
)

func setupServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	kv := storage.NewMemoryKV()
	tracker := continuity.NewTracker(kv)
	prefs := preference.NewStore(kv, preference.DefaultTunables())
	outcomes := outcome.NewStore(kv, outcome.DefaultLimits())
	gov := governance.NewEngine()
	engine := decision.NewEngine(gate.New(gate.Options{}), tracker, prefs, outcomes, gov, nil)

	return New(cfg, Deps{
		Engine:      engine,
		Recovery:    recovery.NewService(tracker, prefs, outcomes, gov, nil),
		Outcomes:    outcomes,
		Preferences: prefs,
	})
}

func TestHealthCheck(t *testing.T) {
	srv := setupServer(t, Config{Port: 0})

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := setupServer(t, Config{Port: 0, AllowAll: true})

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestDecideEndToEnd(t *testing.T) {
	srv := setupServer(t, Config{Port: 0})

	body := `{"text":"viết lại toàn bộ phần mở đầu","user_id":"u1"}`
	req := httptest.NewRequest("POST", "/api/decide", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var d decision.Decision
	if err := json.Unmarshal(w.Body.Bytes(), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.EventID == "" {
		t.Error("expected an event id")
	}

	// The decided event shows up in the outcome ledger.
	listReq := httptest.NewRequest("GET", "/api/outcomes/?user=u1", nil)
	listW := httptest.NewRecorder()
	srv.Router().ServeHTTP(listW, listReq)
	if listW.Code != http.StatusOK {
		t.Fatalf("outcomes list: expected 200, got %d", listW.Code)
	}
	var outcomes []outcome.Outcome
	if err := json.Unmarshal(listW.Body.Bytes(), &outcomes); err != nil {
		t.Fatalf("unmarshal outcomes: %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].IntentID != d.EventID {
		t.Errorf("outcomes = %v, want the decided event", outcomes)
	}
}
