package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"checkinboard/internal/auth"
	"checkinboard/internal/live"
	"checkinboard/internal/models"
	"checkinboard/internal/service"
	"checkinboard/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "checkinboard-server-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	log := slog.Default()
	hub := live.NewHub()
	broadcaster := live.NewBroadcaster(store, hub, nil, log)
	svc := service.New(store, broadcaster, time.Minute, log)
	sessions := auth.NewSessionManager("test-secret", time.Hour)

	return New(svc, sessions, store, hub, log)
}

func beginSession(t *testing.T, srv *Server) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("session request returned %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode session response: %v", err)
	}
	if body.Token == "" {
		t.Fatal("empty session token")
	}
	return body.Token
}

// do sends an authenticated JSON request and returns the recorder.
func do(t *testing.T, srv *Server, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestAuthGating(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
		{"valid token", beginSession(t, srv), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.token, http.MethodGet, "/api/v1/groups", nil)
			if rec.Code != tt.want {
				t.Errorf("GET /groups = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestForeignSecretRejected(t *testing.T) {
	srv := newTestServer(t)

	foreign := auth.NewSessionManager("some-other-secret", time.Hour)
	token, err := foreign.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	rec := do(t, srv, token, http.MethodGet, "/api/v1/groups", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("foreign token accepted: %d", rec.Code)
	}
}

func TestGroupLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := beginSession(t, srv)

	rec := do(t, srv, token, http.MethodPost, "/api/v1/groups", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create group = %d: %s", rec.Code, rec.Body.String())
	}
	var g models.Group
	if err := json.Unmarshal(rec.Body.Bytes(), &g); err != nil {
		t.Fatalf("Failed to decode group: %v", err)
	}
	if g.ID == "" || g.TeamName != "New Team" {
		t.Errorf("unexpected new group: %+v", g)
	}

	// Patch a valid field, then an invalid one.
	rec = do(t, srv, token, http.MethodPatch, "/api/v1/groups/"+g.ID, map[string]any{"teamName": "Otters"})
	if rec.Code != http.StatusNoContent {
		t.Errorf("valid patch = %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(t, srv, token, http.MethodPatch, "/api/v1/groups/"+g.ID, map[string]any{"time": "19:07"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("off-grid slot patch = %d, want 400", rec.Code)
	}

	rec = do(t, srv, token, http.MethodPost, "/api/v1/groups/"+g.ID+"/status/chkd", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("toggle status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(t, srv, token, http.MethodPost, "/api/v1/groups/"+g.ID+"/status/sparkle", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bogus flag toggle = %d, want 400", rec.Code)
	}

	rec = do(t, srv, token, http.MethodGet, "/api/v1/groups/"+g.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get group = %d", rec.Code)
	}
	var got models.Group
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to decode group: %v", err)
	}
	if got.TeamName != "Otters" || !got.Status.Chkd {
		t.Errorf("updates not visible: %+v", got)
	}

	rec = do(t, srv, token, http.MethodDelete, "/api/v1/groups/"+g.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete group = %d", rec.Code)
	}
	rec = do(t, srv, token, http.MethodGet, "/api/v1/groups/"+g.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
}

func TestPatchUsesBodyOnly(t *testing.T) {
	srv := newTestServer(t)
	token := beginSession(t, srv)

	rec := do(t, srv, token, http.MethodPost, "/api/v1/groups", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create group = %d", rec.Code)
	}
	var g models.Group
	if err := json.Unmarshal(rec.Body.Bytes(), &g); err != nil {
		t.Fatalf("Failed to decode group: %v", err)
	}

	// A body carrying only patchable fields must succeed: the :id path
	// parameter must not leak into the patch and trip field validation.
	rec = do(t, srv, token, http.MethodPatch, "/api/v1/groups/"+g.ID, map[string]any{"notes": "bring cake"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("patch = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, token, http.MethodGet, "/api/v1/groups/"+g.ID, nil)
	var got models.Group
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to decode group: %v", err)
	}
	if got.ID != g.ID || got.Notes != "bring cake" {
		t.Errorf("patched group = id %q notes %q, want id %q notes %q", got.ID, got.Notes, g.ID, "bring cake")
	}
}

func TestClearEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := beginSession(t, srv)

	for i := 0; i < 2; i++ {
		if rec := do(t, srv, token, http.MethodPost, "/api/v1/groups", nil); rec.Code != http.StatusCreated {
			t.Fatalf("create group = %d", rec.Code)
		}
	}

	// Confirming without arming is a conflict and deletes nothing.
	rec := do(t, srv, token, http.MethodPost, "/api/v1/groups/clear/confirm", map[string]string{"token": "x"})
	if rec.Code != http.StatusConflict {
		t.Errorf("unarmed confirm = %d, want 409", rec.Code)
	}

	rec = do(t, srv, token, http.MethodPost, "/api/v1/groups/clear/arm", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("arm = %d: %s", rec.Code, rec.Body.String())
	}
	var armed struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &armed); err != nil {
		t.Fatalf("Failed to decode arm response: %v", err)
	}

	rec = do(t, srv, token, http.MethodPost, "/api/v1/groups/clear/confirm", map[string]string{"token": armed.Token})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("confirm = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, token, http.MethodGet, "/api/v1/groups", nil)
	var groups []models.Group
	if err := json.Unmarshal(rec.Body.Bytes(), &groups); err != nil {
		t.Fatalf("Failed to decode groups: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("expected empty board after clear, got %d groups", len(groups))
	}
}

func TestRosterEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := beginSession(t, srv)

	rec := do(t, srv, token, http.MethodPost, "/api/v1/team-members", map[string]string{"name": "Sam"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add team member = %d: %s", rec.Code, rec.Body.String())
	}
	var member models.TeamMember
	if err := json.Unmarshal(rec.Body.Bytes(), &member); err != nil {
		t.Fatalf("Failed to decode member: %v", err)
	}

	rec = do(t, srv, token, http.MethodPost, "/api/v1/team-members", map[string]string{"name": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank name = %d, want 400", rec.Code)
	}

	rec = do(t, srv, token, http.MethodDelete, "/api/v1/team-members/"+member.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete member = %d", rec.Code)
	}

	rec = do(t, srv, token, http.MethodPost, "/api/v1/areas", map[string]string{"name": "Patio"})
	if rec.Code != http.StatusCreated {
		t.Errorf("add area = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUnknownStreamCollection(t *testing.T) {
	srv := newTestServer(t)
	token := beginSession(t, srv)

	rec := do(t, srv, token, http.MethodGet, "/api/v1/stream/espresso-orders", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown collection stream = %d, want 404", rec.Code)
	}
}

func TestMetricsAndHealthOpen(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}
