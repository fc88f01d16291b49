package mocks

import (
	"context"
	"sync"

	"github.com/gregory6z/saas-multitenant-front-sub001/internal/domain"
)

// MockTenantSource is a mock implementation of domain.TenantSource for testing.
type MockTenantSource struct {
	mu        sync.Mutex
	Tenants   []domain.Tenant
	ListErr   error
	Calls     int
	LastToken string

	// BlockUntil, when non-nil, is closed by the test to release in-flight
	// ListTenants calls. Used to assert fetch de-duplication.
	BlockUntil chan struct{}
}

func (m *MockTenantSource) ListTenants(ctx context.Context, token string) ([]domain.Tenant, error) {
	m.mu.Lock()
	m.Calls++
	m.LastToken = token
	block := m.BlockUntil
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Tenants, nil
}

// CallCount returns how many times ListTenants was invoked.
func (m *MockTenantSource) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
