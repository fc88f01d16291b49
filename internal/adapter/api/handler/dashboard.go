package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/api/middleware"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/api/navigate"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/scopedstore"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/domain"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/tenancy"
)

// lastChatbotKey remembers the last-viewed chatbot per tenant in the scoped
// store.
const lastChatbotKey = "lastChatbot"

// chatbotSource is satisfied by the upstream client.
type chatbotSource interface {
	ListChatbots(ctx context.Context, token, tenantID string) ([]domain.Chatbot, error)
}

// DashboardHandler serves the protected tenant-scoped views. Every request
// reaching it has already been admitted by the gate; it never re-checks auth
// or tenant membership.
type DashboardHandler struct {
	resolver *tenancy.Resolver
	upstream chatbotSource
	store    *scopedstore.Store
	bridge   *navigate.Bridge
	logger   *slog.Logger
}

func NewDashboardHandler(resolver *tenancy.Resolver, upstream chatbotSource, store *scopedstore.Store, bridge *navigate.Bridge, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		resolver: resolver,
		upstream: upstream,
		store:    store,
		bridge:   bridge,
		logger:   logger.With("component", "dashboard_handler"),
	}
}

// Summary reports the current tenant resolution for the request host. A nil
// tenant with loading false is a terminal "host addresses no accessible
// tenant" state the UI renders as such; while loading it must not be treated
// as definitive.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	resolution := h.resolver.Resolve(token, middleware.Hostname(r))
	writeJSON(w, http.StatusOK, resolution)
}

// Chatbots lists the current tenant's chatbots and remembers the last-viewed
// one per tenant. A view query parameter records the selection.
func (h *DashboardHandler) Chatbots(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	resolution := h.resolver.Resolve(token, middleware.Hostname(r))
	if resolution.Tenant == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"tenant":  nil,
			"loading": resolution.Loading,
		})
		return
	}

	chatbots, err := h.upstream.ListChatbots(r.Context(), token, resolution.TenantID)
	if err != nil {
		var redirect *domain.RedirectError
		if errors.As(err, &redirect) {
			// Session expired between admission and render: hand the signal
			// to the captured navigate function, resuming here after login.
			intent := redirect.Intent
			intent.Resume = middleware.OriginalURL(r)
			h.bridge.Navigate(w, r, intent)
			return
		}
		h.logger.Error("chatbot listing failed", "tenant_id", resolution.TenantID, "error", err)
		writeJSON(w, http.StatusBadGateway, errorBody("upstream unavailable"))
		return
	}

	scoped := h.scopedFor(r, resolution.TenantID)
	if viewed := r.URL.Query().Get("view"); viewed != "" {
		scoped.Set(r.Context(), lastChatbotKey, viewed)
	}

	var lastViewed string
	scoped.Get(r.Context(), lastChatbotKey, &lastViewed)

	writeJSON(w, http.StatusOK, map[string]any{
		"tenant":       resolution.Tenant,
		"chatbots":     chatbots,
		"last_chatbot": lastViewed,
	})
}

// CreateTenantPage is the remediation destination for tenant-less sessions;
// the gate admits it without tenant verification.
func (h *DashboardHandler) CreateTenantPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"page": "create-tenant",
	})
}

// scopedFor binds the store to the session and the resolved tenant, so state
// viewed under one tenant's host never surfaces under another's.
func (h *DashboardHandler) scopedFor(r *http.Request, tenantID string) *scopedstore.Store {
	scoped := h.store
	if claims, ok := middleware.SessionFromContext(r.Context()); ok {
		scoped = scoped.WithScope(claims.UserID)
	}
	return scoped.ForTenant(tenantID)
}
