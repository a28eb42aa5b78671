package taskapi_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/Iron-Ham/kanban/internal/board"
	"github.com/Iron-Ham/kanban/internal/server"
	"github.com/Iron-Ham/kanban/internal/store"
	"github.com/Iron-Ham/kanban/internal/task"
	"github.com/Iron-Ham/kanban/internal/taskapi"
)

// newBoard wires a Manager to a reference server over real HTTP.
func newBoard(t *testing.T, seed ...task.Draft) (*board.Manager, store.Store) {
	t.Helper()
	st := store.NewMemory()
	for _, d := range seed {
		if _, err := st.Create(context.Background(), d); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	ts := httptest.NewServer(server.New(st, server.Options{}).Handler())
	t.Cleanup(ts.Close)

	client, err := taskapi.New(ts.URL)
	if err != nil {
		t.Fatalf("taskapi.New failed: %v", err)
	}
	m := board.NewManager(client)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	return m, st
}

func TestBoardOverHTTP_EmptyStore(t *testing.T) {
	m, _ := newBoard(t)
	cols := m.Columns()
	if len(cols) != 3 || cols.Count() != 0 {
		t.Errorf("columns = %+v, want three empty columns", cols)
	}
}

func TestBoardOverHTTP_CreateMoveDelete(t *testing.T) {
	ctx := context.Background()
	m, st := newBoard(t)

	created, err := m.Create(ctx, task.Draft{Title: "Write docs", Stage: task.StageTodo})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if n := len(m.Columns().Stage(task.StageTodo).Tasks); n != 1 {
		t.Fatalf("todo column has %d tasks, want 1", n)
	}

	current, _ := m.Task(created.ID)
	if moved, err := m.Move(ctx, current, task.Forward); err != nil || !moved {
		t.Fatalf("Move forward = (%v, %v)", moved, err)
	}
	current, _ = m.Task(created.ID)
	if moved, err := m.Move(ctx, current, task.Forward); err != nil || !moved {
		t.Fatalf("second Move forward = (%v, %v)", moved, err)
	}
	current, _ = m.Task(created.ID)
	if current.Stage != task.StageDone {
		t.Fatalf("stage = %s, want done", current.Stage)
	}

	// done is the last stage
	if moved, err := m.Move(ctx, current, task.Forward); err != nil || moved {
		t.Errorf("Move past done = (%v, %v), want (false, nil)", moved, err)
	}

	if err := m.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	remote, _ := st.List(ctx)
	if len(remote) != 0 || len(m.Tasks()) != 0 {
		t.Errorf("remote = %+v, working set = %+v, want both empty", remote, m.Tasks())
	}
}

func TestBoardOverHTTP_DeleteUnknown(t *testing.T) {
	m, _ := newBoard(t, task.Draft{Title: "keep"})

	err := m.Delete(context.Background(), "42")
	if err == nil {
		t.Fatal("Delete of unknown id should fail")
	}
	if m.Err() != board.MsgDeleteFailed {
		t.Errorf("Err() = %q, want %q", m.Err(), board.MsgDeleteFailed)
	}
	if len(m.Tasks()) != 1 {
		t.Errorf("working set changed: %+v", m.Tasks())
	}
}

func TestBoardOverHTTP_EditPreservesID(t *testing.T) {
	ctx := context.Background()
	m, _ := newBoard(t, task.Draft{Title: "draft", Description: "old", Stage: task.StageInProgress})

	if err := m.Update(ctx, "1", task.Draft{Title: "final", Description: "new", Stage: task.StageInProgress}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, ok := m.Task("1")
	if !ok || got.Title != "final" || got.Description != "new" {
		t.Errorf("task = %+v, ok = %v", got, ok)
	}
}
