package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/taskkeeper/internal/models"
	"github.com/atinyakov/taskkeeper/internal/service"
	"go.uber.org/zap"
)

// ItemService is the item API used by ItemHandler.
type ItemService interface {
	ListByTask(ctx context.Context, userID, taskID int64) ([]models.Item, error)
	Create(ctx context.Context, userID int64, in service.NewItem) (*models.Item, error)
	Get(ctx context.Context, userID, id int64) (*models.Item, error)
	Update(ctx context.Context, userID, id int64, p models.ItemPatch) (*models.Item, error)
	Delete(ctx context.Context, userID, id int64) error
}

// ItemHandler serves /api/items.
type ItemHandler struct {
	ItemService ItemService
	Log         *zap.Logger
}

// CreateItemRequest is the JSON payload of POST /api/items.
type CreateItemRequest struct {
	TaskID      jsonID `json:"taskId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// List handles GET /api/items?taskId=N.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	taskID, err := parseID(r.URL.Query().Get("taskId"), "taskId")
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	items, err := h.ItemService.ListByTask(r.Context(), userID, taskID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(items))
}

// Create handles POST /api/items.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req CreateItemRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}

	item, err := h.ItemService.Create(r.Context(), userID, service.NewItem{
		TaskID:      int64(req.TaskID),
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	item, err := h.ItemService.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	var p models.ItemPatch
	if p.Title, err = optional[string](body, "title"); err != nil {
		writeError(w, h.Log, err)
		return
	}
	if p.Description, err = optional[string](body, "description"); err != nil {
		writeError(w, h.Log, err)
		return
	}

	item, err := h.ItemService.Update(r.Context(), userID, id, p)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	if err := h.ItemService.Delete(r.Context(), userID, id); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
