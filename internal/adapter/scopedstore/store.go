// Package scopedstore persists tenant-durable client state under a
// per-tenant namespace so switching tenants cannot leak or corrupt another
// tenant's cached data.
package scopedstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/gregory6z/saas-multitenant-front-sub001/internal/adapter/metrics"
)

// Namespace is the key prefix every tenant-scoped entry lives under. It is
// the only part of the key layout external code may rely on.
const Namespace = "tenant:"

// Medium is the underlying storage. Implementations: Redis in production,
// an in-memory map in tests.
type Medium interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Store is the tenant-scoped key/value store. Every operation is a no-op
// (reads report absent) when no medium is available, and every medium or
// serialization failure is swallowed: durability of unrelated app state takes
// priority over surfacing a corrupted cache entry. Failures log at Debug and
// count in metrics, nothing more.
type Store struct {
	medium  Medium
	scope   string
	tenant  string
	logger  *slog.Logger
	metrics *metrics.GateMetrics
}

// New creates a Store over medium. A nil medium yields a store whose
// operations all no-op. metrics may be nil.
func New(medium Medium, logger *slog.Logger, m *metrics.GateMetrics) *Store {
	return &Store{
		medium:  medium,
		logger:  logger.With("component", "scoped_store"),
		metrics: m,
	}
}

// WithScope returns a view of the store bound to a session scope. Scopes keep
// one server process from mixing different sessions' tenant state; within a
// scope all keys still live under the tenant namespace.
func (s *Store) WithScope(scope string) *Store {
	clone := *s
	clone.scope = scope
	return &clone
}

// ForTenant returns a view bound to one tenant. Keys written through it live
// under that tenant's own segment of the namespace, so an entry written for
// one tenant can never be read under another — switching tenants is isolated
// by construction, with no purge to forget.
func (s *Store) ForTenant(tenantID string) *Store {
	clone := *s
	clone.tenant = tenantID
	return &clone
}

// Set serializes value as JSON and writes it under the tenant namespace.
// Last write wins on key collision.
func (s *Store) Set(ctx context.Context, key string, value any) {
	if s.medium == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		s.fail("set", key, err)
		return
	}
	if err := s.medium.Set(ctx, s.fullKey(key), string(raw)); err != nil {
		s.fail("set", key, err)
	}
}

// Get reads and deserializes the entry into dest, reporting whether it was
// present. A deserialization failure is treated as "entry absent".
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	if s.medium == nil {
		return false
	}
	raw, found, err := s.medium.Get(ctx, s.fullKey(key))
	if err != nil {
		s.fail("get", key, err)
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.fail("get", key, err)
		return false
	}
	return true
}

// Remove deletes a single entry.
func (s *Store) Remove(ctx context.Context, key string) {
	if s.medium == nil {
		return
	}
	if err := s.medium.Del(ctx, s.fullKey(key)); err != nil {
		s.fail("remove", key, err)
	}
}

// ClearAll removes every entry under this view's namespace and nothing else:
// a tenant-bound view purges only that tenant's segment, an unbound view
// purges the whole session namespace across tenants. Called on logout and
// when a tenant's cached state must be discarded.
func (s *Store) ClearAll(ctx context.Context) {
	if s.medium == nil {
		return
	}
	keys, err := s.medium.Keys(ctx, s.fullKey(""))
	if err != nil {
		s.fail("clear", "", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.medium.Del(ctx, keys...); err != nil {
		s.fail("clear", "", err)
	}
}

func (s *Store) fullKey(key string) string {
	k := Namespace
	if s.scope != "" {
		k = s.scope + ":" + k
	}
	if s.tenant != "" {
		k += s.tenant + ":"
	}
	return k + key
}

func (s *Store) fail(op, key string, err error) {
	if s.metrics != nil {
		s.metrics.StoreFailures.WithLabelValues(op).Inc()
	}
	s.logger.Debug("scoped store operation failed", "op", op, "key", key, "error", err)
}

// MemoryMedium is a map-backed Medium for tests and storage-less local runs.
type MemoryMedium struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{entries: make(map[string]string)}
}

func (m *MemoryMedium) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemoryMedium) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *MemoryMedium) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

func (m *MemoryMedium) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
