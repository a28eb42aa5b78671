package store

import (
	"context"
	"slices"
	"sync"

	"github.com/Iron-Ham/kanban/internal/task"
)

// Memory keeps tasks in process memory. It is safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	tasks  []task.Task
	nextID int64
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

func (m *Memory) List(_ context.Context) ([]task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.tasks)
	if out == nil {
		out = []task.Task{}
	}
	return out, nil
}

func (m *Memory) Create(_ context.Context, draft task.Draft) (task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	t := task.Task{ID: taskID(id), Title: draft.Title, Description: draft.Description, Stage: draft.Stage}
	m.tasks = append(m.tasks, t)
	return t, nil
}

func (m *Memory) Update(_ context.Context, id int64, draft task.Draft) (task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return task.Task{}, notFound(id)
	}
	m.tasks[i] = task.Task{ID: taskID(id), Title: draft.Title, Description: draft.Description, Stage: draft.Stage}
	return m.tasks[i], nil
}

func (m *Memory) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return notFound(id)
	}
	m.tasks = slices.Delete(m.tasks, i, i+1)
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) index(id int64) int {
	want := taskID(id)
	return slices.IndexFunc(m.tasks, func(t task.Task) bool { return t.ID == want })
}
