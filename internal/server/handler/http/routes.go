package http

import (
	"net/http"

	"github.com/atinyakov/taskkeeper/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Auth   *AuthHandler
	Tasks  *TaskHandler
	Items  *ItemHandler
	Users  *UserHandler
	Health http.Handler

	// Gate guards every /api route except register and login.
	Gate func(http.Handler) http.Handler
	// Metrics, when set, records per-route counters; MetricsHandler serves them.
	Metrics        *middleware.Metrics
	MetricsHandler http.Handler
}

// NewRouter constructs the HTTP handler for the task API.
//
// Routes:
//
//	POST   /api/auth/register     → Auth.Register
//	POST   /api/auth/login        → Auth.Login
//	GET    /api/dashboard         → Tasks.Dashboard
//	GET    /api/tasks             → Tasks.List
//	POST   /api/tasks             → Tasks.Create
//	GET    /api/tasks/{id}        → Tasks.Get
//	PUT    /api/tasks/{id}        → Tasks.Update
//	DELETE /api/tasks/{id}        → Tasks.Delete
//	GET    /api/items?taskId=N    → Items.List
//	POST   /api/items             → Items.Create
//	GET    /api/items/{id}        → Items.Get
//	PUT    /api/items/{id}        → Items.Update
//	DELETE /api/items/{id}        → Items.Delete
//	GET    /api/users             → Users.List
//	POST   /api/users             → Users.Create
//	GET    /api/users/{id}        → Users.Get
//	PUT    /api/users/{id}        → Users.Update
//	DELETE /api/users/{id}        → Users.Delete
//	GET    /healthz, GET /metrics
//
// Everything under /api other than auth goes through Gate.
func NewRouter(h Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.WithRequestLogging(logger))
	if h.Metrics != nil {
		r.Use(h.Metrics.Handler)
	}
	r.Use(chiMiddleware.Recoverer)

	if h.Health != nil {
		r.Method(http.MethodGet, "/healthz", h.Health)
	}
	if h.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", h.MetricsHandler)
	}

	// Only allow requests with Content-Type: application/json. Protected
	// routes check it after Gate so a request without a token is always 401.
	jsonOnly := chiMiddleware.AllowContentType("application/json")

	r.Route("/api", func(r chi.Router) {
		r.With(jsonOnly).Post("/auth/register", h.Auth.Register)
		r.With(jsonOnly).Post("/auth/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.Gate)
			r.Use(jsonOnly)

			r.Get("/dashboard", h.Tasks.Dashboard)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", h.Tasks.List)
				r.Post("/", h.Tasks.Create)
				r.Get("/{id}", h.Tasks.Get)
				r.Put("/{id}", h.Tasks.Update)
				r.Delete("/{id}", h.Tasks.Delete)
			})

			r.Route("/items", func(r chi.Router) {
				r.Get("/", h.Items.List)
				r.Post("/", h.Items.Create)
				r.Get("/{id}", h.Items.Get)
				r.Put("/{id}", h.Items.Update)
				r.Delete("/{id}", h.Items.Delete)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.Users.List)
				r.Post("/", h.Users.Create)
				r.Get("/{id}", h.Users.Get)
				r.Put("/{id}", h.Users.Update)
				r.Delete("/{id}", h.Users.Delete)
			})
		})
	})

	return r
}
