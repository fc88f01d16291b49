package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/api/navigate"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/pkg/session"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/usecase"
)

type contextKey int

const (
	claimsKey contextKey = iota
	tokenKey
)

// Admission is a middleware factory returning the route-admission gate. It
// runs before any protected handler: unauthenticated sessions are redirected
// to login with the original location attached, sessions that cannot be
// confirmed to own a tenant are redirected to tenant creation, and admitted
// requests carry the session claims in context so downstream handlers never
// re-derive auth or tenant state.
func Admission(gate *usecase.AdmissionService, sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, token, err := sessions.FromRequest(r)
			authenticated := err == nil

			decision := gate.Check(r.Context(), usecase.Request{
				Authenticated: authenticated,
				SessionToken:  token,
				Path:          r.URL.Path,
				OriginalURL:   OriginalURL(r),
			})

			if decision.Kind == usecase.DecisionRedirect {
				navigate.Write(w, r, decision.Intent)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the admitted session claims, if any.
func SessionFromContext(ctx context.Context) (*session.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*session.Claims)
	return claims, ok && claims != nil
}

// TokenFromContext returns the raw session token of an admitted request.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// OriginalURL reconstructs the full requested location, the value a login
// redirect must carry so navigation can resume after authentication.
func OriginalURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

// Hostname returns the request host with any port stripped, the input for
// subdomain extraction.
func Hostname(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.Host); err == nil {
		return host
	}
	return r.Host
}
