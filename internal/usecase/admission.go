// Package usecase holds the route-admission logic that gates every protected
// navigation.
package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/metrics"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/domain"
)

// DecisionKind tags the outcome of an admission check. Redirects are control
// flow here, not errors: the outer navigation layer interprets the tag.
type DecisionKind int

const (
	DecisionAdmit DecisionKind = iota
	DecisionRedirect
)

// Decision is the result of checking one navigation attempt.
type Decision struct {
	Kind   DecisionKind
	Intent domain.RedirectIntent
}

// Request carries everything the gate needs to know about a navigation
// attempt.
type Request struct {
	Authenticated bool
	SessionToken  string
	Path          string
	// OriginalURL is the full requested location, attached to login redirects
	// so the flow resumes there after authentication.
	OriginalURL string
}

// tenantLister is satisfied by *tenancy.Directory; the gate shares the
// directory's de-duplicated fetch with the resolver.
type tenantLister interface {
	List(ctx context.Context, token string) ([]domain.Tenant, error)
}

// AdmissionService decides whether a protected navigation may proceed.
//
// The check is strictly sequential: it completes (admit or redirect) before
// the protected view is reached, never optimistically. Zero tenants and a
// failed membership check fold into the same redirect — the gate cannot
// safely admit a user into a dashboard it cannot confirm is usable, and the
// user's remediation is identical — but the two are distinguished in logs and
// metrics.
type AdmissionService struct {
	tenants          tenantLister
	logger           *slog.Logger
	metrics          *metrics.GateMetrics
	loginPath        string
	createTenantPath string
}

// NewAdmissionService creates the gate. metrics may be nil.
func NewAdmissionService(tenants tenantLister, logger *slog.Logger, m *metrics.GateMetrics, loginPath, createTenantPath string) *AdmissionService {
	return &AdmissionService{
		tenants:          tenants,
		logger:           logger.With("component", "admission_gate"),
		metrics:          m,
		loginPath:        loginPath,
		createTenantPath: createTenantPath,
	}
}

// Check runs the admission state machine for one navigation attempt.
func (s *AdmissionService) Check(ctx context.Context, req Request) Decision {
	if !req.Authenticated {
		s.count("auth_failed")
		s.logger.Info("unauthenticated navigation", "path", req.Path)
		return Decision{
			Kind:   DecisionRedirect,
			Intent: domain.RedirectIntent{To: s.loginPath, Resume: req.OriginalURL},
		}
	}

	// The create-tenant page must stay reachable with zero tenants, so it
	// skips membership verification entirely.
	if req.Path == s.createTenantPath {
		s.count("admitted")
		return Decision{Kind: DecisionAdmit}
	}

	tenants, err := s.tenants.List(ctx, req.SessionToken)
	if err != nil {
		var redirect *domain.RedirectError
		if errors.As(err, &redirect) {
			// A redirect raised inside the check is a navigation signal,
			// never a membership failure. Re-raise it unchanged, carrying the
			// resume location the same way a direct auth failure would.
			s.count("redirect_reraised")
			intent := redirect.Intent
			if intent.Resume == "" {
				intent.Resume = req.OriginalURL
			}
			return Decision{Kind: DecisionRedirect, Intent: intent}
		}

		s.count("check_failed")
		s.logger.Warn("tenant membership check failed", "path", req.Path, "error", err)
		return Decision{
			Kind:   DecisionRedirect,
			Intent: domain.RedirectIntent{To: s.createTenantPath, Replace: true},
		}
	}

	if len(tenants) == 0 {
		s.count("tenant_missing")
		s.logger.Info("session has no tenants", "path", req.Path)
		return Decision{
			Kind:   DecisionRedirect,
			Intent: domain.RedirectIntent{To: s.createTenantPath, Replace: true},
		}
	}

	s.count("admitted")
	return Decision{Kind: DecisionAdmit}
}

func (s *AdmissionService) count(outcome string) {
	if s.metrics != nil {
		s.metrics.AdmissionDecisions.WithLabelValues(outcome).Inc()
	}
}
