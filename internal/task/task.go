// Package task defines the board's only entity, its identifier and the stage
// state machine that governs moves between columns.
package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/Iron-Ham/kanban/internal/errors"
)

// ID is an opaque task identifier assigned by the remote store. The store may
// send it as a JSON string or number; a canonical integer is sent back as a
// number so stores with integer keys accept it.
type ID string

// String returns the id as received.
func (id ID) String() string { return string(id) }

func (id ID) isInteger() bool {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil && strconv.FormatInt(n, 10) == string(id)
}

// MarshalJSON writes a canonical integer id ("42", not "042") as a JSON
// number and anything else as a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.isInteger() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts a JSON string or number; null yields the empty id.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Task is a single card on the board.
type Task struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Stage       Stage  `json:"stage"`
}

// wireTask tolerates the legacy "status" field used by the first task server.
type wireTask struct {
	ID          ID      `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Stage       *string `json:"stage"`
	Status      *string `json:"status"`
}

// UnmarshalJSON reads "stage", falling back to the legacy "status" field, and
// rejects a task with neither or with an unknown value.
func (t *Task) UnmarshalJSON(data []byte) error {
	var w wireTask
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	raw := w.Stage
	if raw == nil {
		raw = w.Status
	}
	if raw == nil {
		return fmt.Errorf("task %s: missing stage", w.ID)
	}
	stage, err := ParseStage(*raw)
	if err != nil {
		return fmt.Errorf("task %s: %w", w.ID, err)
	}
	*t = Task{ID: w.ID, Title: w.Title, Description: w.Description, Stage: stage}
	return nil
}

// Draft returns the editable fields of t.
func (t Task) Draft() Draft {
	return Draft{Title: t.Title, Description: t.Description, Stage: t.Stage}
}

// Draft carries the client-editable fields. It is the create payload and the
// full-replacement payload of an update.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Stage       Stage  `json:"stage"`
}

// Validate rejects drafts that must never reach the store.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return apperrors.NewValidationError("title", "title is required")
	}
	if !d.Stage.Valid() {
		return apperrors.NewValidationError("stage", fmt.Sprintf("invalid stage %s", d.Stage))
	}
	return nil
}

// WithStage returns a copy of d moved to stage s.
func (d Draft) WithStage(s Stage) Draft {
	d.Stage = s
	return d
}
