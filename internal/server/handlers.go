package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "github.com/Iron-Ham/kanban/internal/errors"
	"github.com/Iron-Ham/kanban/internal/logging"
	"github.com/Iron-Ham/kanban/internal/store"
	"github.com/Iron-Ham/kanban/internal/task"
)

// Plain-text bodies for client errors.
const (
	msgInvalidBody  = "invalid request body"
	msgTitleMissing = "title is required"
	msgInvalidStage = "invalid stage"
	msgInvalidID    = "invalid task id"
	msgNotFound     = "task not found"
	msgInternal     = "internal error"
)

// Register mounts the task collection routes on e.
func Register(e *echo.Echo, st store.Store, logger *logging.Logger) {
	e.GET("/tasks", listTasks(st, logger))
	e.POST("/tasks", createTask(st, logger))
	e.PUT("/tasks/:id", updateTask(st, logger))
	e.DELETE("/tasks/:id", deleteTask(st, logger))
	e.GET("/healthz", healthz())
}

// taskRequest is the create/update payload. "status" is the field name the
// first version of the server used, and it is still accepted.
type taskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Stage       *string `json:"stage"`
	Status      *string `json:"status"`
}

func (r taskRequest) rawStage() string {
	switch {
	case r.Stage != nil:
		return *r.Stage
	case r.Status != nil:
		return *r.Status
	default:
		return ""
	}
}

// draft validates the request. An empty stage is accepted only when
// defaultTodo is set.
func (r taskRequest) draft(defaultTodo bool) (task.Draft, string) {
	if strings.TrimSpace(r.Title) == "" {
		return task.Draft{}, msgTitleMissing
	}
	raw := r.rawStage()
	if raw == "" {
		if !defaultTodo {
			return task.Draft{}, msgInvalidStage
		}
		raw = task.StageTodo.String()
	}
	stage, err := task.ParseStage(raw)
	if err != nil {
		return task.Draft{}, msgInvalidStage
	}
	return task.Draft{Title: r.Title, Description: r.Description, Stage: stage}, ""
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func listTasks(st store.Store, logger *logging.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		tasks, err := st.List(c.Request().Context())
		if err != nil {
			return internalError(c, logger, "list", err)
		}
		if tasks == nil {
			tasks = []task.Task{}
		}
		return c.JSON(http.StatusOK, tasks)
	}
}

func createTask(st store.Store, logger *logging.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req taskRequest
		if err := c.Bind(&req); err != nil {
			return c.String(http.StatusBadRequest, msgInvalidBody)
		}
		draft, problem := req.draft(true)
		if problem != "" {
			return c.String(http.StatusBadRequest, problem)
		}

		created, err := st.Create(c.Request().Context(), draft)
		if err != nil {
			return internalError(c, logger, "create", err)
		}
		logger.Info("task created", "task_id", created.ID.String(), "stage", created.Stage.String())
		return c.JSON(http.StatusCreated, created)
	}
}

func updateTask(st store.Store, logger *logging.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := store.ParseID(c.Param("id"))
		if err != nil {
			return c.String(http.StatusBadRequest, msgInvalidID)
		}

		var req taskRequest
		if err := c.Bind(&req); err != nil {
			return c.String(http.StatusBadRequest, msgInvalidBody)
		}
		draft, problem := req.draft(false)
		if problem != "" {
			return c.String(http.StatusBadRequest, problem)
		}

		updated, err := st.Update(c.Request().Context(), id, draft)
		if apperrors.Is(err, apperrors.ErrTaskNotFound) {
			return c.String(http.StatusNotFound, msgNotFound)
		}
		if err != nil {
			return internalError(c, logger, "update", err)
		}
		logger.Info("task updated", "task_id", updated.ID.String(), "stage", updated.Stage.String())
		return c.JSON(http.StatusOK, updated)
	}
}

func deleteTask(st store.Store, logger *logging.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := store.ParseID(c.Param("id"))
		if err != nil {
			return c.String(http.StatusBadRequest, msgInvalidID)
		}

		err = st.Delete(c.Request().Context(), id)
		if apperrors.Is(err, apperrors.ErrTaskNotFound) {
			return c.String(http.StatusNotFound, msgNotFound)
		}
		if err != nil {
			return internalError(c, logger, "delete", err)
		}
		logger.Info("task deleted", "task_id", c.Param("id"))
		return c.NoContent(http.StatusNoContent)
	}
}

func internalError(c echo.Context, logger *logging.Logger, op string, err error) error {
	logger.Error("store operation failed", "op", op, "error", err.Error())
	return c.String(http.StatusInternalServerError, msgInternal)
}
