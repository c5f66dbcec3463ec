// Package http provides the JSON HTTP handlers and routing for the task API.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/atinyakov/taskkeeper/internal/auth"
	"github.com/atinyakov/taskkeeper/internal/models"
	"github.com/atinyakov/taskkeeper/internal/service"
	"go.uber.org/zap"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register creates a user and returns a session for it.
	Register(ctx context.Context, in service.NewUser) (*service.Session, error)
	// Login exchanges credentials for a session.
	Login(ctx context.Context, email, password string) (*service.Session, error)
}

// AuthHandler handles HTTP requests for user registration and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Transport decides whether the session is also set as a cookie.
	Transport auth.Transport
	// CookieSecure marks the session cookie Secure.
	CookieSecure bool
	// Log receives unexpected failures.
	Log *zap.Logger
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned by register and login.
type SessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

// Register handles POST /api/auth/register.
// It returns 201 with a token, 400 on missing fields and 409 when the email
// is already registered.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}

	sess, err := h.AuthService.Register(r.Context(), service.NewUser{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	h.respondSession(w, http.StatusCreated, sess)
}

// Login handles POST /api/auth/login.
// It returns 200 with a token and the public user fields, or 401 on bad
// credentials.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}

	sess, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	h.respondSession(w, http.StatusOK, sess)
}

func (h *AuthHandler) respondSession(w http.ResponseWriter, code int, sess *service.Session) {
	h.Transport.SetCookie(w, sess.Token, time.Until(sess.ExpiresAt), h.CookieSecure)
	writeJSON(w, code, SessionResponse{Token: sess.Token, ExpiresAt: sess.ExpiresAt, User: sess.User})
}
