package tenancy

import "strings"

// Subdomain extracts the tenant slug addressed by hostname under the
// environment's topology. The second return is false when no tenant is
// addressable from this host (bare root, bare localhost, or a host that does
// not belong to any configured root).
//
// Pure function of (hostname, environment); no I/O.
func (e Environment) Subdomain(hostname string) (string, bool) {
	switch e.Mode {
	case ModeLocalBare:
		if !strings.Contains(hostname, "localhost") {
			return "", false
		}
		labels := strings.Split(hostname, ".")
		if len(labels) > 1 {
			return labels[0], true
		}
		return "", false
	case ModeLocalWildcard:
		return subdomainUnder(hostname, e.LocalRoot)
	case ModeProduction:
		return subdomainUnder(hostname, e.ProductionRoot)
	}
	return "", false
}

// HasSubdomain reports whether hostname addresses a tenant at all.
func (e Environment) HasSubdomain(hostname string) bool {
	_, ok := e.Subdomain(hostname)
	return ok
}

func subdomainUnder(hostname, root string) (string, bool) {
	if root == "" || !strings.Contains(hostname, root) {
		return "", false
	}
	if hostname == root {
		return "", false
	}
	labels := strings.Split(hostname, ".")
	if len(labels) > len(strings.Split(root, ".")) {
		return labels[0], true
	}
	return "", false
}
