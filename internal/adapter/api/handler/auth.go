package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/scopedstore"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/pkg/session"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/tenancy"
)

// credentialExchanger is satisfied by the upstream client.
type credentialExchanger interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// AuthHandler owns the login/logout endpoints.
type AuthHandler struct {
	upstream  credentialExchanger
	sessions  *session.Manager
	directory *tenancy.Directory
	store     *scopedstore.Store
	logger    *slog.Logger
}

func NewAuthHandler(upstream credentialExchanger, sessions *session.Manager, directory *tenancy.Directory, store *scopedstore.Store, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		upstream:  upstream,
		sessions:  sessions,
		directory: directory,
		store:     store,
		logger:    logger.With("component", "auth_handler"),
	}
}

// LoginPage serves the login destination. The redirect query parameter, when
// present, is echoed back so the form can resume the original navigation
// after a successful login.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"page":     "login",
		"redirect": r.URL.Query().Get("redirect"),
	})
}

// Login exchanges credentials upstream, sets the session cookie, and resumes
// the originally requested location when one was captured.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("malformed login payload"))
		return
	}
	if body.Email == "" || body.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("email and password are required"))
		return
	}

	token, err := h.upstream.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		h.logger.Info("login rejected", "email", body.Email, "error", err)
		writeJSON(w, http.StatusUnauthorized, errorBody("invalid credentials"))
		return
	}

	h.sessions.SetCookie(w, token)

	target := r.URL.Query().Get("redirect")
	if target == "" {
		target = "/dashboard"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Logout clears the session cookie, drops the session's cached tenant list,
// and purges the tenant-scoped storage namespace so the next session cannot
// read this one's state.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if claims, token, err := h.sessions.FromRequest(r); err == nil {
		h.directory.Invalidate(token)
		h.store.WithScope(claims.UserID).ClearAll(r.Context())
	}
	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}
