package board

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	apperrors "github.com/Iron-Ham/kanban/internal/errors"
	"github.com/Iron-Ham/kanban/internal/task"
)

// fakeRepo is an in-memory Repository that records calls and can be told to
// fail individual operations.
type fakeRepo struct {
	mu     sync.Mutex
	tasks  []task.Task
	nextID int
	calls  []string
	fail   map[string]error
}

func newFakeRepo(tasks ...task.Task) *fakeRepo {
	return &fakeRepo{
		tasks:  slices.Clone(tasks),
		nextID: len(tasks) + 1,
		fail:   make(map[string]error),
	}
}

func (r *fakeRepo) failOn(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[op] = fmt.Errorf("%w: injected %s failure", apperrors.ErrOperationFailed, op)
}

func (r *fakeRepo) record(op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, op)
	return r.fail[op]
}

func (r *fakeRepo) callLog() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

func (r *fakeRepo) count(op string) int {
	n := 0
	for _, c := range r.callLog() {
		if c == op {
			n++
		}
	}
	return n
}

func (r *fakeRepo) FetchAll(_ context.Context) ([]task.Task, error) {
	if err := r.record("fetch"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.tasks), nil
}

func (r *fakeRepo) Create(_ context.Context, d task.Draft) (task.Task, error) {
	if err := r.record("create"); err != nil {
		return task.Task{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t := task.Task{ID: task.ID(strconv.Itoa(r.nextID)), Title: d.Title, Description: d.Description, Stage: d.Stage}
	r.nextID++
	r.tasks = append(r.tasks, t)
	return t, nil
}

func (r *fakeRepo) Update(_ context.Context, id task.ID, d task.Draft) (task.Task, error) {
	if err := r.record("update"); err != nil {
		return task.Task{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks[i] = task.Task{ID: id, Title: d.Title, Description: d.Description, Stage: d.Stage}
			return r.tasks[i], nil
		}
	}
	return task.Task{}, fmt.Errorf("%w: status 404", apperrors.ErrOperationFailed)
}

func (r *fakeRepo) Delete(_ context.Context, id task.ID) error {
	if err := r.record("delete"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks = slices.Delete(r.tasks, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("%w: status 404", apperrors.ErrOperationFailed)
}

// gatedRepo holds every FetchAll until its gate is released, so tests can
// choose the order in which overlapping refreshes complete.
type gatedRepo struct {
	*fakeRepo
	started chan int
	gates   []chan struct{}

	mu sync.Mutex
	n  int
}

func newGatedRepo(base *fakeRepo, gates int) *gatedRepo {
	g := &gatedRepo{
		fakeRepo: base,
		started:  make(chan int, gates),
		gates:    make([]chan struct{}, gates),
	}
	for i := range g.gates {
		g.gates[i] = make(chan struct{})
	}
	return g
}

func (g *gatedRepo) FetchAll(ctx context.Context) ([]task.Task, error) {
	snap, err := g.fakeRepo.FetchAll(ctx)

	g.mu.Lock()
	i := g.n
	g.n++
	g.mu.Unlock()

	g.started <- i
	<-g.gates[i]
	return snap, err
}

func (g *gatedRepo) release(i int) {
	close(g.gates[i])
}
