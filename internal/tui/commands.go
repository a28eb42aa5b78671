package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/kanban/internal/board"
	apperrors "github.com/Iron-Ham/kanban/internal/errors"
	"github.com/Iron-Ham/kanban/internal/task"
)

// opResultMsg reports the outcome of a board operation run as a command.
// The working set itself is read back from the Manager.
type opResultMsg struct {
	op      string
	id      task.ID // task to keep selected afterwards, if any
	applied bool    // the store accepted the mutation, even if the reload failed
	err     error
}

// ThemeChangedMsg asks the board to rebuild its styles.
type ThemeChangedMsg struct {
	Theme string
}

func refreshCmd(ctx context.Context, m *board.Manager) tea.Cmd {
	return func() tea.Msg {
		err := m.Refresh(ctx)
		return opResultMsg{op: board.OpRefresh, applied: err == nil, err: err}
	}
}

func createCmd(ctx context.Context, m *board.Manager, d task.Draft) tea.Cmd {
	return func() tea.Msg {
		created, err := m.Create(ctx, d)
		return opResultMsg{op: board.OpCreate, id: created.ID, applied: created.ID != "", err: err}
	}
}

func updateCmd(ctx context.Context, m *board.Manager, id task.ID, d task.Draft) tea.Cmd {
	return func() tea.Msg {
		err := m.Update(ctx, id, d)
		return opResultMsg{op: board.OpUpdate, id: id, applied: applied(err), err: err}
	}
}

func deleteCmd(ctx context.Context, m *board.Manager, id task.ID) tea.Cmd {
	return func() tea.Msg {
		err := m.Delete(ctx, id)
		return opResultMsg{op: board.OpDelete, applied: applied(err), err: err}
	}
}

func moveCmd(ctx context.Context, m *board.Manager, t task.Task, dir task.Direction) tea.Cmd {
	return func() tea.Msg {
		_, err := m.Move(ctx, t, dir)
		return opResultMsg{op: board.OpMove, id: t.ID, applied: applied(err), err: err}
	}
}

// applied reports whether a mutation reached the store. A failure of the
// follow-up reload means the mutation itself went through.
func applied(err error) bool {
	if err == nil {
		return true
	}
	var opErr *apperrors.OperationError
	return apperrors.As(err, &opErr) && opErr.Op == board.OpRefresh
}
