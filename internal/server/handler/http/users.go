package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/taskkeeper/internal/models"
	"github.com/atinyakov/taskkeeper/internal/service"
	"go.uber.org/zap"
)

// UserService is the user directory used by UserHandler.
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, in service.NewUser) (*models.User, error)
	Update(ctx context.Context, callerID, id int64, p models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, callerID, id int64) error
}

// UserHandler serves /api/users. Password hashes never leave the service.
type UserHandler struct {
	UserService UserService
	Log         *zap.Logger
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.List(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(users))
}

// Get handles GET /api/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	u, err := h.UserService.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Create handles POST /api/users. Unlike register it issues no token.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}

	u, err := h.UserService.Create(r.Context(), service.NewUser{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Update handles PUT /api/users/{id}. Callers may only change themselves.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
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
	var p models.UserPatch
	for name, dst := range map[string]**string{
		"email":       &p.Email,
		"displayName": &p.DisplayName,
		"password":    &p.Password,
	} {
		if *dst, err = optional[string](body, name); err != nil {
			writeError(w, h.Log, err)
			return
		}
	}

	u, err := h.UserService.Update(r.Context(), caller, id, p)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	if err := h.UserService.Delete(r.Context(), caller, id); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
