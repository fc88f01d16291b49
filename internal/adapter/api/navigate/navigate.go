// Package navigate turns redirect intents into HTTP responses and bridges
// the router's redirect path to collaborators that observe session expiry
// outside the admission gate.
package navigate

import (
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/gregory6z/saas-multitenant-front-sub001/internal/domain"
)

// Func performs a redirect for an intent. The router registers its own
// implementation on the Bridge at bootstrap.
type Func func(w http.ResponseWriter, r *http.Request, intent domain.RedirectIntent)

// Write issues the intent as an HTTP redirect. A history-replacing intent
// uses 303 so the failed destination does not survive back-navigation; a
// resumable one uses 302 with the original location in the redirect query.
//
// If the request context is already done the navigation has been superseded
// and the stale redirect is abandoned.
func Write(w http.ResponseWriter, r *http.Request, intent domain.RedirectIntent) {
	if r.Context().Err() != nil {
		return
	}

	target := intent.To
	if intent.Resume != "" {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + "redirect=" + url.QueryEscape(intent.Resume)
	}

	code := http.StatusFound
	if intent.Replace {
		code = http.StatusSeeOther
	}
	http.Redirect(w, r, target, code)
}

// Bridge is a single-slot reference to the router's navigate function, owned
// by application bootstrap and injected by constructor into whoever needs to
// redirect on session expiry. Register may be called again on router
// re-creation; until the first registration Navigate degrades to the plain
// redirect fallback rather than dropping the signal.
type Bridge struct {
	fn atomic.Pointer[Func]
}

func NewBridge() *Bridge {
	return &Bridge{}
}

// Register stores the router's navigate function, replacing any previous one.
func (b *Bridge) Register(fn Func) {
	b.fn.Store(&fn)
}

// Navigate redirects through the registered function, or through the plain
// fallback when none has been registered yet.
func (b *Bridge) Navigate(w http.ResponseWriter, r *http.Request, intent domain.RedirectIntent) {
	if fn := b.fn.Load(); fn != nil {
		(*fn)(w, r, intent)
		return
	}
	Write(w, r, intent)
}
