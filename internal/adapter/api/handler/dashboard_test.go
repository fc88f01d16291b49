package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/api/middleware"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/api/navigate"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/scopedstore"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/domain"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/domain/mocks"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/pkg/session"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/tenancy"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/usecase"
)

type mockChatbotSource struct {
	chatbots []domain.Chatbot
	err      error
}

func (m *mockChatbotSource) ListChatbots(ctx context.Context, token, tenantID string) ([]domain.Chatbot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.chatbots, nil
}

type dashboardFixture struct {
	sessions *session.Manager
	handler  *DashboardHandler
	gate     func(http.HandlerFunc) http.Handler
}

func newDashboardFixture(t *testing.T, chatbots *mockChatbotSource) *dashboardFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.NewManager("test-secret", time.Hour)

	source := &mocks.MockTenantSource{
		Tenants: []domain.Tenant{
			{ID: "t1", Subdomain: "acme", Name: "Acme", Role: domain.RoleOwner},
			{ID: "t2", Subdomain: "globex", Name: "Globex", Role: domain.RoleAdmin},
		},
	}
	dir := tenancy.NewDirectory(source, logger, nil, time.Minute)
	env := tenancy.Environment{Mode: tenancy.ModeProduction, ProductionRoot: "multisaas.app"}
	resolver := tenancy.NewResolver(env, dir)
	gate := usecase.NewAdmissionService(dir, logger, nil, "/auth/login", "/dashboard/tenants/create")

	store := scopedstore.New(scopedstore.NewMemoryMedium(), logger, nil)
	h := NewDashboardHandler(resolver, chatbots, store, navigate.NewBridge(), logger)

	return &dashboardFixture{
		sessions: sessions,
		handler:  h,
		gate: func(fn http.HandlerFunc) http.Handler {
			return middleware.Admission(gate, sessions)(fn)
		},
	}
}

func (f *dashboardFixture) request(t *testing.T, target string) *http.Request {
	t.Helper()
	token, err := f.sessions.Issue("user-1", "owner@acme.test")
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	return req
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestDashboardHandler_Summary(t *testing.T) {
	f := newDashboardFixture(t, &mockChatbotSource{})
	h := f.gate(f.handler.Summary)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, f.request(t, "http://acme.multisaas.app/dashboard"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := decodeBody(t, rr)
	if body["tenant_id"] != "t1" {
		t.Errorf("tenant_id = %v, want t1", body["tenant_id"])
	}
	if body["loading"] != false {
		t.Errorf("loading = %v, want false", body["loading"])
	}
}

func TestDashboardHandler_Chatbots(t *testing.T) {
	t.Run("lists chatbots and remembers the last viewed one", func(t *testing.T) {
		f := newDashboardFixture(t, &mockChatbotSource{
			chatbots: []domain.Chatbot{{ID: "bot-1", TenantID: "t1", Name: "Support"}},
		})
		h := f.gate(f.handler.Chatbots)

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, f.request(t, "http://acme.multisaas.app/dashboard/chatbots?view=bot-1"))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}

		rr = httptest.NewRecorder()
		h.ServeHTTP(rr, f.request(t, "http://acme.multisaas.app/dashboard/chatbots"))
		body := decodeBody(t, rr)
		if body["last_chatbot"] != "bot-1" {
			t.Errorf("last_chatbot = %v, want bot-1", body["last_chatbot"])
		}
	})

	t.Run("last viewed chatbot is confined to its tenant", func(t *testing.T) {
		f := newDashboardFixture(t, &mockChatbotSource{})
		h := f.gate(f.handler.Chatbots)

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, f.request(t, "http://acme.multisaas.app/dashboard/chatbots?view=acme-secret-bot"))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}

		rr = httptest.NewRecorder()
		h.ServeHTTP(rr, f.request(t, "http://globex.multisaas.app/dashboard/chatbots"))
		body := decodeBody(t, rr)
		if body["last_chatbot"] != "" {
			t.Errorf("last_chatbot = %v under globex, want empty", body["last_chatbot"])
		}

		rr = httptest.NewRecorder()
		h.ServeHTTP(rr, f.request(t, "http://acme.multisaas.app/dashboard/chatbots"))
		body = decodeBody(t, rr)
		if body["last_chatbot"] != "acme-secret-bot" {
			t.Errorf("last_chatbot = %v under acme, want acme-secret-bot", body["last_chatbot"])
		}
	})

	t.Run("host without accessible tenant renders the terminal state", func(t *testing.T) {
		f := newDashboardFixture(t, &mockChatbotSource{})
		h := f.gate(f.handler.Chatbots)

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, f.request(t, "http://stranger.multisaas.app/dashboard/chatbots"))

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}
		body := decodeBody(t, rr)
		if body["tenant"] != nil {
			t.Errorf("tenant = %v, want null", body["tenant"])
		}
		if body["loading"] != false {
			t.Errorf("loading = %v, want false", body["loading"])
		}
	})

	t.Run("session expiry mid-render redirects through the bridge with resume", func(t *testing.T) {
		f := newDashboardFixture(t, &mockChatbotSource{
			err: &domain.RedirectError{
				Intent: domain.RedirectIntent{To: "/auth/login"},
				Cause:  domain.ErrSessionExpired,
			},
		})
		h := f.gate(f.handler.Chatbots)

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, f.request(t, "http://acme.multisaas.app/dashboard/chatbots"))

		if rr.Code != http.StatusFound {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusFound)
		}
		want := "/auth/login?redirect=" + url.QueryEscape("http://acme.multisaas.app/dashboard/chatbots")
		if got := rr.Header().Get("Location"); got != want {
			t.Errorf("Location = %q, want %q", got, want)
		}
	})

	t.Run("upstream failure surfaces as bad gateway, not a redirect", func(t *testing.T) {
		f := newDashboardFixture(t, &mockChatbotSource{err: io.ErrUnexpectedEOF})
		h := f.gate(f.handler.Chatbots)

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, f.request(t, "http://acme.multisaas.app/dashboard/chatbots"))

		if rr.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadGateway)
		}
	})
}
