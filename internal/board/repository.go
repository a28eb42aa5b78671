package board

import (
	"context"

	"github.com/Iron-Ham/kanban/internal/task"
)

// Repository performs the four CRUD calls against the remote task collection.
// It owns no state. Implementations report every failure (transport, status,
// malformed payload) as an error; the Manager does not distinguish subtypes.
type Repository interface {
	FetchAll(ctx context.Context) ([]task.Task, error)
	Create(ctx context.Context, draft task.Draft) (task.Task, error)
	Update(ctx context.Context, id task.ID, draft task.Draft) (task.Task, error)
	Delete(ctx context.Context, id task.ID) error
}
