// Package api wires the HTTP surface: public auth routes, the protected
// dashboard subtree behind the admission gate, and operational endpoints.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/api/handler"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/api/middleware"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/api/navigate"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/pkg/session"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/usecase"
)

// Deps carries everything the router needs, built by main.
type Deps struct {
	Logger    *slog.Logger
	Sessions  *session.Manager
	Gate      *usecase.AdmissionService
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Bridge    *navigate.Bridge
}

// NewRouter creates the chi router and registers the router's redirect path
// on the navigate bridge so session-expiry signals observed outside the gate
// follow the same login redirect.
func NewRouter(deps Deps) http.Handler {
	deps.Bridge.Register(navigate.Write)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(deps.Logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", deps.Auth.LoginPage)
		r.Post("/login", deps.Auth.Login)
		r.Post("/logout", deps.Auth.Logout)
	})

	r.Route("/dashboard", func(r chi.Router) {
		r.Use(middleware.Admission(deps.Gate, deps.Sessions))
		r.Get("/", deps.Dashboard.Summary)
		r.Get("/chatbots", deps.Dashboard.Chatbots)
		r.Get("/tenants/create", deps.Dashboard.CreateTenantPage)
	})

	return r
}
