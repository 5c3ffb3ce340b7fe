package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	platformerrors "plantid-bot-go/internal/platform/errors"
)

func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	content := `
log:
  log_level: "error"
  log_dir: "` + filepath.Join(dir, "logs") + `"
storage:
  data_dir: "` + filepath.Join(dir, "data") + `"
translation:
  provider: none
treatment:
  enabled: false
` + extra
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInitGraphOrder(t *testing.T) {
	steps := InitGraph()
	want := []string{
		"config:load",
		"logging:init-provider",
		"storage:init-database",
		"session:init-store",
		"events:init-bus",
		"translation:init-cache",
		"bot:init-service",
	}
	if len(steps) != len(want) {
		t.Fatalf("unexpected step count: got %d want %d", len(steps), len(want))
	}
	for i, step := range steps {
		if step.ID != want[i] {
			t.Fatalf("step %d mismatch: got %s want %s", i, step.ID, want[i])
		}
	}
}

func TestExecuteInitSteps_UnsatisfiedDependency(t *testing.T) {
	steps := []initStep{{
		ID:        "b",
		DependsOn: []string{"a"},
		Execute:   func(context.Context, *appState) error { return nil },
	}}
	err := executeInitSteps(context.Background(), steps, &appState{})
	if !platformerrors.IsKind(err, platformerrors.KindBootstrap) {
		t.Fatalf("expected bootstrap error, got %v", err)
	}
}

func TestExecuteInitGraph(t *testing.T) {
	tests := []struct {
		name   string
		extra  string
		wantDB bool
	}{
		{name: "sqlite sessions", extra: "session:\n  driver: sqlite\n", wantDB: true},
		{name: "memory without persistence", extra: "session:\n  driver: memory\nevents:\n  workers: 1\n  persist: false\n", wantDB: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &appState{configPath: writeConfig(t, tt.extra)}
			defer state.close()

			if err := executeInitSteps(context.Background(), InitGraph(), state); err != nil {
				t.Fatalf("executeInitSteps failed: %v", err)
			}
			if state.config == nil || state.logger == nil {
				t.Fatal("config/logger not initialised")
			}
			if (state.db != nil) != tt.wantDB {
				t.Fatalf("database presence = %v, want %v", state.db != nil, tt.wantDB)
			}
			if (state.eventRepo != nil) != tt.wantDB {
				t.Fatalf("event repository presence = %v, want %v", state.eventRepo != nil, tt.wantDB)
			}
			if state.sessions == nil || state.events == nil || state.translator == nil || state.bot == nil {
				t.Fatal("services not initialised")
			}
		})
	}
}

func TestExecuteInitGraph_BadConfig(t *testing.T) {
	state := &appState{configPath: writeConfig(t, "session:\n  driver: mongo\n")}
	defer state.close()

	err := executeInitSteps(context.Background(), InitGraph(), state)
	if !platformerrors.IsKind(err, platformerrors.KindConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
	if state.logProvider != nil {
		t.Fatal("logging must not start after a config failure")
	}
}

func TestBuildRouter(t *testing.T) {
	state := &appState{configPath: writeConfig(t, "session:\n  driver: memory\n")}
	defer state.close()
	if err := executeInitSteps(context.Background(), InitGraph(), state); err != nil {
		t.Fatalf("executeInitSteps failed: %v", err)
	}

	router, err := buildRouter(state)
	if err != nil {
		t.Fatalf("buildRouter failed: %v", err)
	}

	w := httptest.NewRecorder()
	router.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status code %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"sessions"`) {
		t.Fatalf("status payload misses sessions: %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"persisted"`) {
		t.Fatalf("status payload misses persisted event counts: %s", w.Body.String())
	}

	body := strings.NewReader(`{"user_id":"1","intent":"start"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/updates", body)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.Engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Привет") {
		t.Fatalf("unexpected /api/updates reply %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
