package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/smarttask/smarttask-go/internal/handler"
	"github.com/smarttask/smarttask-go/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth    *handler.AuthHandler
	Tasks   *handler.TaskHandler
	Backend *handler.BackendHandler
}

// AuthRateLimit is the per-IP budget for register and login.
type AuthRateLimit struct {
	RPS   float64
	Burst int
}

// New wires routes and middleware.
func New(h Handlers, jwtSecret string, limit AuthRateLimit) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(limit.RPS, limit.Burst))
		r.Post("/api/v1/auth/register", h.Auth.HandleRegister)
		r.Post("/api/v1/auth/login", h.Auth.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret))
		r.Get("/api/v1/auth/me", h.Auth.HandleMe)

		r.Get("/api/v1/tasks", h.Tasks.HandleList)
		r.Post("/api/v1/tasks", h.Tasks.HandleCreate)
		r.Patch("/api/v1/tasks/{id}", h.Tasks.HandleUpdate)
		r.Delete("/api/v1/tasks/{id}", h.Tasks.HandleDelete)
		r.Post("/api/v1/tasks/{id}/toggle", h.Tasks.HandleToggle)

		r.Get("/api/v1/backend", h.Backend.HandleGet)
		r.Put("/api/v1/backend", h.Backend.HandleSet)
	})

	return r
}
