// Package board holds the authoritative working set of tasks and keeps it
// synchronized with a remote Repository.
//
// The Manager is a thin, always-refreshed mirror of remote state: it never
// inserts or edits a task locally. Every successful mutation is followed by a
// full re-fetch, and every failure leaves the working set exactly as it was
// and records one human-readable message.
package board

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	apperrors "github.com/Iron-Ham/kanban/internal/errors"
	"github.com/Iron-Ham/kanban/internal/logging"
	"github.com/Iron-Ham/kanban/internal/task"
)

// Operation names used in errors and logs.
const (
	OpRefresh = "refresh"
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpMove    = "move"
)

// User-facing failure messages, one per operation.
const (
	MsgLoadFailed   = "could not load tasks"
	MsgCreateFailed = "could not create task"
	MsgUpdateFailed = "could not update task"
	MsgDeleteFailed = "could not delete task"
	MsgMoveFailed   = "could not move task"
	MsgNotOnBoard   = "task is not on the board"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for operation tracing.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithSerializedMutations controls the single-flight queue. When enabled
// (the default) each operation, including its follow-up refresh, runs to
// completion before the next one starts, so the last operation issued is the
// last refresh applied. When disabled, operations overlap and whichever
// refresh completes last determines the working set.
func WithSerializedMutations(on bool) Option {
	return func(m *Manager) {
		m.serialize = on
	}
}

// Snapshot is a consistent read of the Manager's observable state.
type Snapshot struct {
	Tasks   []task.Task
	Columns Columns
	Busy    bool
	Err     string
}

// Manager owns the working set. It is safe for concurrent use.
type Manager struct {
	repo      Repository
	logger    *logging.Logger
	serialize bool

	// queue serializes whole operations when serialize is set.
	queue sync.Mutex

	mu       sync.RWMutex
	tasks    []task.Task
	inflight int
	lastErr  string
}

// NewManager creates a Manager with an empty working set. Call Refresh to
// load the remote collection.
func NewManager(repo Repository, opts ...Option) *Manager {
	m := &Manager{
		repo:      repo,
		logger:    logging.NopLogger(),
		serialize: true,
		tasks:     []task.Task{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.WithComponent("board")
	return m
}

// Refresh fetches the full collection and replaces the working set wholesale.
func (m *Manager) Refresh(ctx context.Context) error {
	defer m.begin()()
	return m.reload(ctx, m.logger.WithOp(OpRefresh))
}

// Create sends a new task to the store and, on success, refreshes so the task
// appears with its remote-assigned id. The returned task is the store's
// response.
func (m *Manager) Create(ctx context.Context, draft task.Draft) (task.Task, error) {
	defer m.begin()()
	log := m.logger.WithOp(OpCreate)

	if err := draft.Validate(); err != nil {
		return task.Task{}, m.reject(log, err)
	}

	start := time.Now()
	created, err := m.repo.Create(ctx, draft)
	if err != nil {
		return task.Task{}, m.fail(log, OpCreate, MsgCreateFailed, err)
	}
	log.Info("task created", "task_id", created.ID.String(), "stage", created.Stage.String(),
		"duration_ms", time.Since(start).Milliseconds())

	return created, m.reload(ctx, log)
}

// Update replaces title, description and stage of a task held in the
// working set, then refreshes.
func (m *Manager) Update(ctx context.Context, id task.ID, draft task.Draft) error {
	defer m.begin()()
	return m.update(ctx, m.logger.WithOp(OpUpdate).WithTask(id.String()), OpUpdate, MsgUpdateFailed, id, draft)
}

// Delete removes a task from the store, then refreshes. Confirmation is the
// caller's concern. Deleting an id the store no longer knows fails there.
func (m *Manager) Delete(ctx context.Context, id task.ID) error {
	defer m.begin()()
	log := m.logger.WithOp(OpDelete).WithTask(id.String())

	if err := m.repo.Delete(ctx, id); err != nil {
		return m.fail(log, OpDelete, MsgDeleteFailed, err)
	}
	log.Info("task deleted")

	return m.reload(ctx, log)
}

// Move shifts t one stage in direction dir, preserving title and description.
// At a boundary (forward from done, backward from todo) it reports
// moved == false without contacting the store. Like any operation, a no-op
// move clears the previous error.
func (m *Manager) Move(ctx context.Context, t task.Task, dir task.Direction) (moved bool, err error) {
	log := m.logger.WithOp(OpMove).WithTask(t.ID.String())

	target, ok := dir.Target(t.Stage)
	if !ok {
		m.setErr("")
		log.Debug("no transition available", "stage", t.Stage.String(), "direction", dir.String())
		return false, nil
	}

	defer m.begin()()
	if err := m.update(ctx, log, OpMove, MsgMoveFailed, t.ID, t.Draft().WithStage(target)); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Manager) update(ctx context.Context, log *logging.Logger, op, msg string, id task.ID, draft task.Draft) error {
	if err := draft.Validate(); err != nil {
		return m.reject(log, err)
	}
	if _, ok := m.Task(id); !ok {
		return m.fail(log, op, MsgNotOnBoard, fmt.Errorf("%w: %s", apperrors.ErrTaskNotFound, id))
	}

	start := time.Now()
	if _, err := m.repo.Update(ctx, id, draft); err != nil {
		return m.fail(log, op, msg, err)
	}
	log.Info("task updated", "stage", draft.Stage.String(), "duration_ms", time.Since(start).Milliseconds())

	return m.reload(ctx, log)
}

// reload fetches the collection and swaps it in. A payload holding the same
// id twice is treated as malformed.
func (m *Manager) reload(ctx context.Context, log *logging.Logger) error {
	start := time.Now()
	tasks, err := m.repo.FetchAll(ctx)
	if err != nil {
		return m.fail(log, OpRefresh, MsgLoadFailed, err)
	}

	seen := make(map[task.ID]struct{}, len(tasks))
	for _, t := range tasks {
		if _, dup := seen[t.ID]; dup {
			return m.fail(log, OpRefresh, MsgLoadFailed,
				fmt.Errorf("%w: duplicate task id %s", apperrors.ErrOperationFailed, t.ID))
		}
		seen[t.ID] = struct{}{}
	}

	next := make([]task.Task, len(tasks))
	copy(next, tasks)

	m.mu.Lock()
	m.tasks = next
	m.mu.Unlock()

	log.Debug("working set refreshed", "count", len(next), "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// begin marks an operation in flight, waits for its turn when serialized and
// clears the previous error. The returned func ends the operation.
func (m *Manager) begin() func() {
	m.mu.Lock()
	m.inflight++
	m.mu.Unlock()

	if m.serialize {
		m.queue.Lock()
	}

	m.mu.Lock()
	m.lastErr = ""
	m.mu.Unlock()

	return func() {
		if m.serialize {
			m.queue.Unlock()
		}
		m.mu.Lock()
		m.inflight--
		m.mu.Unlock()
	}
}

func (m *Manager) fail(log *logging.Logger, op, msg string, err error) error {
	opErr := apperrors.NewOperationError(op, msg, err)
	m.setErr(msg)
	log.Error("operation failed", "error", err.Error())
	return opErr
}

func (m *Manager) reject(log *logging.Logger, err error) error {
	m.setErr(apperrors.UserMessage(err))
	log.Warn("input rejected", "error", err.Error())
	return err
}

func (m *Manager) setErr(msg string) {
	m.mu.Lock()
	m.lastErr = msg
	m.mu.Unlock()
}

// Tasks returns a copy of the working set in remote order.
func (m *Manager) Tasks() []task.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.tasks)
}

// Task looks up a task in the working set.
func (m *Manager) Task(id task.ID) (task.Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

// Columns partitions the current working set by stage.
func (m *Manager) Columns() Columns {
	return Partition(m.Tasks())
}

// Busy reports whether any operation is in flight. Callers are expected to
// hold off new mutations while it is set; the Manager does not enforce it.
func (m *Manager) Busy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inflight > 0
}

// Err returns the message of the most recent failure, or "" if the last
// operation succeeded or none has run.
func (m *Manager) Err() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// ClearErr dismisses the current error message.
func (m *Manager) ClearErr() {
	m.setErr("")
}

// Snapshot returns tasks, columns, busy flag and error from a single read.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	tasks := slices.Clone(m.tasks)
	busy := m.inflight > 0
	msg := m.lastErr
	m.mu.RUnlock()

	return Snapshot{
		Tasks:   tasks,
		Columns: Partition(tasks),
		Busy:    busy,
		Err:     msg,
	}
}
