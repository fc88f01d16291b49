package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrSessionExpired is reported by the upstream API when the session
	// token it was given is no longer accepted.
	ErrSessionExpired = errors.New("session expired")
)

// TenantRole defines the permission level of the session's user within a tenant.
type TenantRole string

const (
	RoleOwner   TenantRole = "owner"
	RoleAdmin   TenantRole = "admin"
	RoleCurator TenantRole = "curator"
	RoleUser    TenantRole = "user"
)

// Tenant represents an organization-level account boundary the current
// session may access. Identity is ID; Subdomain addresses the tenant through
// the host name and is unique per active tenant on the server side.
type Tenant struct {
	ID        string     `json:"id"`
	Subdomain string     `json:"subdomain"`
	Name      string     `json:"name"`
	Role      TenantRole `json:"role"`
}

// TenantSource lists the tenants accessible to a session. Implemented by the
// upstream API client; callers are expected to cache through a Directory
// rather than hit the source directly.
type TenantSource interface {
	ListTenants(ctx context.Context, token string) ([]Tenant, error)
}
