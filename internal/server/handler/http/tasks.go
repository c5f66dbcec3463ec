package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/taskkeeper/internal/models"
	"github.com/atinyakov/taskkeeper/internal/service"
	"go.uber.org/zap"
)

// TaskService is the owner-scoped task API used by TaskHandler.
type TaskService interface {
	List(ctx context.Context, userID int64) ([]models.Task, error)
	Create(ctx context.Context, userID int64, in service.NewTask) (*models.Task, error)
	Get(ctx context.Context, userID, id int64) (*models.Task, error)
	Update(ctx context.Context, userID, id int64, p models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, userID, id int64) error
}

// TaskHandler serves /api/tasks and the dashboard.
type TaskHandler struct {
	TaskService TaskService
	Log         *zap.Logger
}

// CreateTaskRequest is the JSON payload of POST /api/tasks.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueAt       string `json:"dueAt"`
	Completed   bool   `json:"completed"`
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	tasks, err := h.TaskService.List(r.Context(), userID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(tasks))
}

// Dashboard handles GET /api/dashboard: the caller's tasks with their items.
func (h *TaskHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	tasks, err := h.TaskService.List(r.Context(), userID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": orEmpty(tasks)})
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}

	in := service.NewTask{Title: req.Title, Description: req.Description, Completed: req.Completed}
	if req.DueAt != "" {
		due, err := parseDue(req.DueAt)
		if err != nil {
			writeError(w, h.Log, err)
			return
		}
		in.DueAt = due
	}

	task, err := h.TaskService.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	task, err := h.TaskService.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Update handles PUT /api/tasks/{id}. Only the fields present in the body
// are changed.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	var body patchBody
	if err := decode(w, r, &body); err != nil {
		writeError(w, h.Log, err)
		return
	}
	patch, err := taskPatch(body)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	task, err := h.TaskService.Update(r.Context(), userID, id, patch)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	if err := h.TaskService.Delete(r.Context(), userID, id); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func taskPatch(b patchBody) (models.TaskPatch, error) {
	var (
		p   models.TaskPatch
		err error
	)
	if p.Title, err = optional[string](b, "title"); err != nil {
		return p, err
	}
	if p.Description, err = optional[string](b, "description"); err != nil {
		return p, err
	}
	if p.Completed, err = optional[bool](b, "completed"); err != nil {
		return p, err
	}
	due, err := optional[string](b, "dueAt")
	if err != nil {
		return p, err
	}
	if due != nil {
		t, err := parseDue(*due)
		if err != nil {
			return p, err
		}
		p.DueAt = &t
	}
	return p, nil
}
