// Package store persists the task collection served by `kanban serve`.
//
// Three backends are available: an in-process Memory store, a SQLite file and
// Redis. All of them assign increasing integer ids and list tasks in creation
// order, so a client sees the same collection whichever backend is selected.
package store

import (
	"context"
	"fmt"
	"strconv"

	apperrors "github.com/Iron-Ham/kanban/internal/errors"
	"github.com/Iron-Ham/kanban/internal/task"
)

// Backend names accepted by Open.
const (
	KindMemory = "memory"
	KindSQLite = "sqlite"
	KindRedis  = "redis"
)

// Kinds returns the supported backend names.
func Kinds() []string {
	return []string{KindMemory, KindSQLite, KindRedis}
}

// Example task inserted into an empty store when seeding is enabled.
const (
	ExampleTitle       = "Example task"
	ExampleDescription = "This is a starting task"
)

// Store is a task collection with integer ids.
type Store interface {
	// List returns every task in creation order. It never returns nil.
	List(ctx context.Context) ([]task.Task, error)
	// Create stores a new task under the next id.
	Create(ctx context.Context, draft task.Draft) (task.Task, error)
	// Update replaces every editable field of task id. It returns an error
	// matching errors.ErrTaskNotFound when id is unknown.
	Update(ctx context.Context, id int64, draft task.Draft) (task.Task, error)
	// Delete removes task id. It returns an error matching
	// errors.ErrTaskNotFound when id is unknown.
	Delete(ctx context.Context, id int64) error
	// Close releases the backend's resources.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Kind        string
	SQLitePath  string
	RedisURL    string
	RedisPrefix string
}

// Open creates the backend named by cfg.Kind.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Kind {
	case KindMemory, "":
		return NewMemory(), nil
	case KindSQLite:
		s, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindRedis:
		s, err := OpenRedis(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store %q (valid: %v)", cfg.Kind, Kinds())
	}
}

// SeedExample inserts the example task when s is empty. It reports whether a
// task was inserted.
func SeedExample(ctx context.Context, s Store) (bool, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	if len(tasks) > 0 {
		return false, nil
	}
	if _, err := s.Create(ctx, task.Draft{Title: ExampleTitle, Description: ExampleDescription, Stage: task.StageTodo}); err != nil {
		return false, err
	}
	return true, nil
}

// ParseID converts a path segment into a store id.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("id", fmt.Sprintf("invalid task id %q", s))
	}
	return id, nil
}

func taskID(id int64) task.ID {
	return task.ID(strconv.FormatInt(id, 10))
}

func notFound(id int64) error {
	return fmt.Errorf("%w: %d", apperrors.ErrTaskNotFound, id)
}
