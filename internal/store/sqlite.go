package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/Iron-Ham/kanban/internal/task"
)

//go:embed schema.sql
var schemaSQL string

// SQLite stores tasks in a single SQLite database file.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps writes ordered and lets ":memory:" work.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

func (s *SQLite) List(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, description, stage FROM tasks ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (s *SQLite) Create(ctx context.Context, draft task.Draft) (task.Task, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO tasks (title, description, stage) VALUES (?, ?, ?)",
		draft.Title, draft.Description, draft.Stage.String(),
	)
	if err != nil {
		return task.Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return task.Task{}, fmt.Errorf("last insert id: %w", err)
	}
	return task.Task{ID: taskID(id), Title: draft.Title, Description: draft.Description, Stage: draft.Stage}, nil
}

func (s *SQLite) Update(ctx context.Context, id int64, draft task.Draft) (task.Task, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET title = ?, description = ?, stage = ? WHERE id = ?",
		draft.Title, draft.Description, draft.Stage.String(), id,
	)
	if err != nil {
		return task.Task{}, fmt.Errorf("update task: %w", err)
	}
	if err := requireAffected(res, id); err != nil {
		return task.Task{}, err
	}
	return task.Task{ID: taskID(id), Title: draft.Title, Description: draft.Description, Stage: draft.Stage}, nil
}

func (s *SQLite) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return requireAffected(res, id)
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (task.Task, error) {
	var (
		id                        int64
		title, description, stage string
	)
	if err := row.Scan(&id, &title, &description, &stage); err != nil {
		return task.Task{}, fmt.Errorf("scan task: %w", err)
	}
	st, err := task.ParseStage(stage)
	if err != nil {
		return task.Task{}, fmt.Errorf("task %d: %w", id, err)
	}
	return task.Task{ID: taskID(id), Title: title, Description: description, Stage: st}, nil
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}
