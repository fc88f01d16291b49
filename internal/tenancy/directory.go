package tenancy

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/metrics"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/domain"
)

type cacheEntry struct {
	tenants   []domain.Tenant
	expiresAt time.Time
}

// Directory caches the list of tenants each session may access. The upstream
// fetch happens once per session scope and is shared: concurrent callers
// during an in-flight fetch resolve from the same pending result instead of
// issuing parallel requests.
//
// A zero-tenant session caches an empty list; that is a legitimate state, not
// an error, and downstream gating handles it explicitly. Entries carry a TTL
// so a token revoked server-side cannot serve a stale tenant list forever.
type Directory struct {
	source   domain.TenantSource
	logger   *slog.Logger
	metrics  *metrics.GateMetrics
	cacheTTL time.Duration
	now      func() time.Time

	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewDirectory creates a Directory over source with the given cache TTL.
// metrics may be nil.
func NewDirectory(source domain.TenantSource, logger *slog.Logger, m *metrics.GateMetrics, cacheTTL time.Duration) *Directory {
	return &Directory{
		source:   source,
		logger:   logger.With("component", "tenant_directory"),
		metrics:  m,
		cacheTTL: cacheTTL,
		now:      time.Now,
		cache:    make(map[string]cacheEntry),
	}
}

// List returns the tenants accessible to the session identified by token,
// fetching from the upstream source on first use and again once the cached
// entry expires. Fetch failures are not cached; the next caller retries.
func (d *Directory) List(ctx context.Context, token string) ([]domain.Tenant, error) {
	d.mu.RLock()
	entry, found := d.cache[token]
	d.mu.RUnlock()

	if found && d.now().Before(entry.expiresAt) {
		if d.metrics != nil {
			d.metrics.DirectoryCacheHits.Inc()
		}
		return entry.tenants, nil
	}

	if d.metrics != nil {
		d.metrics.DirectoryCacheMisses.Inc()
	}

	v, err, _ := d.group.Do(token, func() (any, error) {
		fetched, err := d.source.ListTenants(ctx, token)
		if err != nil {
			if d.metrics != nil {
				d.metrics.DirectoryFetches.WithLabelValues("error").Inc()
			}
			d.logger.Warn("tenant directory fetch failed", "error", err)
			return nil, err
		}

		result := "ok"
		if len(fetched) == 0 {
			result = "empty"
			d.logger.Info("session has no accessible tenants")
		}
		if d.metrics != nil {
			d.metrics.DirectoryFetches.WithLabelValues(result).Inc()
		}

		d.mu.Lock()
		d.cache[token] = cacheEntry{tenants: fetched, expiresAt: d.now().Add(d.cacheTTL)}
		d.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Tenant), nil
}

// Snapshot is the non-blocking read used by the resolver. The second return
// is false while the directory has not been populated for this session yet,
// or when the populated entry has expired; callers must treat that as "still
// loading", not "no tenants".
func (d *Directory) Snapshot(token string) ([]domain.Tenant, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	entry, found := d.cache[token]
	if !found || d.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.tenants, true
}

// Invalidate drops the cached list for the session. Called on logout and
// tenant switch.
func (d *Directory) Invalidate(token string) {
	d.mu.Lock()
	delete(d.cache, token)
	d.mu.Unlock()
}
