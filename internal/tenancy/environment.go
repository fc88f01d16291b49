// Package tenancy derives the current tenant from the request host name and
// the list of tenants the authenticated session may access.
package tenancy

// Mode identifies the deployment topology, which changes how a tenant is
// addressed through the host name.
type Mode string

const (
	// ModeLocalBare is local development on a bare host (localhost) with no
	// addressable subdomains.
	ModeLocalBare Mode = "local-bare"
	// ModeLocalWildcard is local development behind a wildcard DNS root such
	// as lvh.me, where subdomains resolve to the loopback address.
	ModeLocalWildcard Mode = "local-wildcard"
	// ModeProduction is the deployed topology behind the real wildcard root.
	ModeProduction Mode = "production"
)

// Environment carries the topology context needed to interpret a host name.
// It is an injected value object so extraction and resolution stay testable
// without any request or process globals.
type Environment struct {
	Mode           Mode
	LocalRoot      string
	ProductionRoot string
}
