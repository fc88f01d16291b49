package tenancy

import "github.com/gregory6z/saas-multitenant-front-sub001/internal/domain"

// Resolution is the read model for "which tenant does this request belong
// to". It is recomputed from the host name and the directory snapshot on
// every call, never stored. TenantID is always derived from Tenant.
//
// Loading true means the directory has not been populated yet; a nil Tenant
// with Loading false means the host addresses no tenant the session can
// access — a terminal display state, not a retryable error.
type Resolution struct {
	Tenant   *domain.Tenant `json:"tenant"`
	TenantID string         `json:"tenant_id"`
	Loading  bool           `json:"loading"`
}

// Resolver combines the subdomain extractor and the tenant directory to
// produce the current tenant for a request.
type Resolver struct {
	env Environment
	dir *Directory
}

// NewResolver creates a Resolver for the given environment.
func NewResolver(env Environment, dir *Directory) *Resolver {
	return &Resolver{env: env, dir: dir}
}

// Resolve computes the current tenant for the session identified by token on
// the given host. Idempotent for a fixed (hostname, directory snapshot).
//
// Under ModeLocalBare the first tenant of the directory stands in for
// "current": a bare local host has no addressable subdomains, so this is a
// deliberate development convenience, not a fallback for other topologies.
func (r *Resolver) Resolve(token, hostname string) Resolution {
	if hostname == "" {
		return Resolution{}
	}

	tenants, populated := r.dir.Snapshot(token)
	if !populated {
		return Resolution{Loading: true}
	}

	if r.env.Mode == ModeLocalBare {
		if len(tenants) == 0 {
			return Resolution{}
		}
		first := tenants[0]
		return Resolution{Tenant: &first, TenantID: first.ID}
	}

	slug, ok := r.env.Subdomain(hostname)
	if !ok {
		return Resolution{}
	}
	for _, t := range tenants {
		if t.Subdomain == slug {
			match := t
			return Resolution{Tenant: &match, TenantID: match.ID}
		}
	}
	return Resolution{}
}
