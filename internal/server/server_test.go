package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"github.com/Iron-Ham/kanban/internal/logging"
	"github.com/Iron-Ham/kanban/internal/store"
	"github.com/Iron-Ham/kanban/internal/task"
)

func newTestServer(t *testing.T, seed ...task.Draft) (*Server, store.Store) {
	t.Helper()
	st := store.NewMemory()
	for _, d := range seed {
		if _, err := st.Create(context.Background(), d); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return New(st, Options{Addr: ":0"}), st
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeTask(t *testing.T, rec *httptest.ResponseRecorder) task.Task {
	t.Helper()
	var tk task.Task
	if err := sonic.ConfigStd.Unmarshal(rec.Body.Bytes(), &tk); err != nil {
		t.Fatalf("invalid task json %q: %v", rec.Body.String(), err)
	}
	return tk
}

func TestListTasks_Empty(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/tasks", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestListTasks(t *testing.T) {
	s, _ := newTestServer(t,
		task.Draft{Title: "a", Stage: task.StageTodo},
		task.Draft{Title: "b", Description: "two", Stage: task.StageDone},
	)
	rec := do(t, s, http.MethodGet, "/tasks", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"id":1`) {
		t.Errorf("body = %s, want numeric ids", rec.Body.String())
	}
	var tasks []task.Task
	if err := sonic.ConfigStd.Unmarshal(rec.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(tasks) != 2 || tasks[1].Description != "two" || tasks[1].Stage != task.StageDone {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestCreateTask(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantStage task.Stage
		wantBody  string
	}{
		{"explicit stage", `{"title":"Write docs","stage":"in_progress"}`, http.StatusCreated, task.StageInProgress, ""},
		{"missing stage defaults to todo", `{"title":"Write docs"}`, http.StatusCreated, task.StageTodo, ""},
		{"empty stage defaults to todo", `{"title":"Write docs","stage":""}`, http.StatusCreated, task.StageTodo, ""},
		{"legacy status field", `{"title":"Write docs","status":"progress"}`, http.StatusCreated, task.StageInProgress, ""},
		{"empty title", `{"title":"","stage":"todo"}`, http.StatusBadRequest, 0, msgTitleMissing},
		{"blank title", `{"title":"   "}`, http.StatusBadRequest, 0, msgTitleMissing},
		{"invalid stage", `{"title":"x","stage":"blocked"}`, http.StatusBadRequest, 0, msgInvalidStage},
		{"malformed json", `{"title":`, http.StatusBadRequest, 0, msgInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, st := newTestServer(t)
			rec := do(t, s, http.MethodPost, "/tasks", tt.body)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %q)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusCreated {
				if got := strings.TrimSpace(rec.Body.String()); got != tt.wantBody {
					t.Errorf("body = %q, want %q", got, tt.wantBody)
				}
				tasks, _ := st.List(context.Background())
				if len(tasks) != 0 {
					t.Errorf("rejected create stored %d tasks", len(tasks))
				}
				return
			}

			created := decodeTask(t, rec)
			if created.ID != "1" || created.Title != "Write docs" || created.Stage != tt.wantStage {
				t.Errorf("created = %+v", created)
			}
		})
	}
}

func TestUpdateTask(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		body     string
		wantCode int
	}{
		{"full replacement", "/tasks/1", `{"id":1,"title":"renamed","description":"d","stage":"done"}`, http.StatusOK},
		{"legacy status", "/tasks/1", `{"title":"renamed","status":"todo"}`, http.StatusOK},
		{"unknown id", "/tasks/99", `{"title":"x","stage":"todo"}`, http.StatusNotFound},
		{"non-numeric id", "/tasks/abc", `{"title":"x","stage":"todo"}`, http.StatusBadRequest},
		{"empty title", "/tasks/1", `{"title":"","stage":"todo"}`, http.StatusBadRequest},
		{"empty stage", "/tasks/1", `{"title":"x","stage":""}`, http.StatusBadRequest},
		{"missing stage", "/tasks/1", `{"title":"x"}`, http.StatusBadRequest},
		{"invalid stage", "/tasks/1", `{"title":"x","stage":"later"}`, http.StatusBadRequest},
		{"malformed json", "/tasks/1", `nope`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, st := newTestServer(t, task.Draft{Title: "original", Stage: task.StageInProgress})
			rec := do(t, s, http.MethodPut, tt.target, tt.body)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %q)", rec.Code, tt.wantCode, rec.Body.String())
			}

			tasks, _ := st.List(context.Background())
			if tt.wantCode != http.StatusOK {
				if tasks[0].Title != "original" {
					t.Errorf("rejected update changed the task: %+v", tasks[0])
				}
				return
			}
			updated := decodeTask(t, rec)
			if updated.Title != "renamed" || tasks[0] != updated {
				t.Errorf("updated = %+v, stored = %+v", updated, tasks[0])
			}
		})
	}
}

func TestDeleteTask(t *testing.T) {
	s, st := newTestServer(t, task.Draft{Title: "a"}, task.Draft{Title: "b"})

	rec := do(t, s, http.MethodDelete, "/tasks/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}

	tasks, _ := st.List(context.Background())
	if len(tasks) != 1 || tasks[0].ID != "2" {
		t.Errorf("remaining = %+v", tasks)
	}

	if rec := do(t, s, http.MethodDelete, "/tasks/1", ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/tasks/x", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)
	if rec := do(t, s, http.MethodPatch, "/tasks", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("PATCH /tasks status = %d, want 405", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent && rec.Code != http.StatusOK {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPut) {
		t.Errorf("Access-Control-Allow-Methods = %q, want PUT", got)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}

	rec = do(t, s, http.MethodGet, "/tasks", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("server should assign a request id")
	}
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	s := New(store.NewMemory(), Options{Logger: logging.NewWriterLogger(&buf, logging.LevelDebug)})

	rec := do(t, s, http.MethodGet, "/tasks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	out := buf.String()
	if !strings.Contains(out, `"uri":"/tasks"`) || !strings.Contains(out, `"status":200`) {
		t.Errorf("log output missing request fields: %s", out)
	}
}

// failingStore returns an error from every call.
type failingStore struct{ store.Memory }

func (f *failingStore) List(context.Context) ([]task.Task, error) {
	return nil, context.DeadlineExceeded
}

func TestStoreFailure(t *testing.T) {
	s := New(&failingStore{}, Options{})
	rec := do(t, s, http.MethodGet, "/tasks", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRecoverFromPanic(t *testing.T) {
	s, _ := newTestServer(t)
	s.echo.GET("/boom", func(echo.Context) error { panic("boom") })

	rec := do(t, s, http.MethodGet, "/boom", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestEndToEndWithClientShape(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/tasks", `{"title":"Write docs","description":"","stage":"todo"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	rec = do(t, s, http.MethodPut, "/tasks/1", `{"id":1,"title":"Write docs","description":"","stage":"in_progress"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("move status = %d", rec.Code)
	}
	rec = do(t, s, http.MethodGet, "/tasks", "")
	if !strings.Contains(rec.Body.String(), `"stage":"in_progress"`) {
		t.Errorf("list = %s", rec.Body.String())
	}
}
