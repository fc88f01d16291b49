package tenancy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/gregory6z/saas-multitenant-front-sub001/internal/domain"
	"github.com/gregory6z/saas-multitenant-front-sub001/internal/domain/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDirectory_List(t *testing.T) {
	t.Run("caches after first fetch", func(t *testing.T) {
		source := &mocks.MockTenantSource{
			Tenants: []domain.Tenant{{ID: "t1", Subdomain: "acme", Name: "Acme", Role: domain.RoleOwner}},
		}
		dir := NewDirectory(source, testLogger(), nil, time.Minute)

		for i := 0; i < 3; i++ {
			tenants, err := dir.List(context.Background(), "token-a")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(tenants) != 1 || tenants[0].ID != "t1" {
				t.Fatalf("unexpected tenants: %+v", tenants)
			}
		}

		if got := source.CallCount(); got != 1 {
			t.Errorf("expected 1 upstream call, got %d", got)
		}
	})

	t.Run("zero tenants is a legitimate cached state", func(t *testing.T) {
		source := &mocks.MockTenantSource{}
		dir := NewDirectory(source, testLogger(), nil, time.Minute)

		tenants, err := dir.List(context.Background(), "token-a")
		if err != nil {
			t.Fatalf("expected no error for empty list, got %v", err)
		}
		if len(tenants) != 0 {
			t.Fatalf("expected empty list, got %+v", tenants)
		}

		if _, err := dir.List(context.Background(), "token-a"); err != nil {
			t.Fatalf("second call: %v", err)
		}
		if got := source.CallCount(); got != 1 {
			t.Errorf("empty result should be cached, got %d calls", got)
		}
	})

	t.Run("concurrent callers share one in-flight fetch", func(t *testing.T) {
		source := &mocks.MockTenantSource{
			Tenants:    []domain.Tenant{{ID: "t1", Subdomain: "acme"}},
			BlockUntil: make(chan struct{}),
		}
		dir := NewDirectory(source, testLogger(), nil, time.Minute)

		const callers = 8
		var wg sync.WaitGroup
		errs := make([]error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = dir.List(context.Background(), "token-a")
			}(i)
		}

		close(source.BlockUntil)
		wg.Wait()

		for i, err := range errs {
			if err != nil {
				t.Fatalf("caller %d: %v", i, err)
			}
		}
		if got := source.CallCount(); got != 1 {
			t.Errorf("expected a single de-duplicated fetch, got %d", got)
		}
	})

	t.Run("failures are not cached", func(t *testing.T) {
		source := &mocks.MockTenantSource{ListErr: errors.New("upstream down")}
		dir := NewDirectory(source, testLogger(), nil, time.Minute)

		if _, err := dir.List(context.Background(), "token-a"); err == nil {
			t.Fatal("expected an error")
		}

		source.ListErr = nil
		source.Tenants = []domain.Tenant{{ID: "t1"}}
		tenants, err := dir.List(context.Background(), "token-a")
		if err != nil {
			t.Fatalf("retry after failure: %v", err)
		}
		if len(tenants) != 1 {
			t.Fatalf("expected retry to succeed, got %+v", tenants)
		}
	})

	t.Run("expired entries are refetched", func(t *testing.T) {
		source := &mocks.MockTenantSource{Tenants: []domain.Tenant{{ID: "t1"}}}
		dir := NewDirectory(source, testLogger(), nil, time.Minute)
		base := time.Now()
		dir.now = func() time.Time { return base }

		if _, err := dir.List(context.Background(), "token-a"); err != nil {
			t.Fatal(err)
		}
		if _, err := dir.List(context.Background(), "token-a"); err != nil {
			t.Fatal(err)
		}
		if got := source.CallCount(); got != 1 {
			t.Fatalf("expected a cache hit inside the TTL, got %d calls", got)
		}

		dir.now = func() time.Time { return base.Add(2 * time.Minute) }

		if _, populated := dir.Snapshot("token-a"); populated {
			t.Error("an expired snapshot must read as unpopulated")
		}
		if _, err := dir.List(context.Background(), "token-a"); err != nil {
			t.Fatal(err)
		}
		if got := source.CallCount(); got != 2 {
			t.Errorf("expected a refetch after expiry, got %d calls", got)
		}
	})

	t.Run("sessions are cached independently", func(t *testing.T) {
		source := &mocks.MockTenantSource{Tenants: []domain.Tenant{{ID: "t1"}}}
		dir := NewDirectory(source, testLogger(), nil, time.Minute)

		if _, err := dir.List(context.Background(), "token-a"); err != nil {
			t.Fatal(err)
		}
		if _, err := dir.List(context.Background(), "token-b"); err != nil {
			t.Fatal(err)
		}
		if got := source.CallCount(); got != 2 {
			t.Errorf("expected one fetch per session, got %d", got)
		}
	})
}

func TestDirectory_Snapshot(t *testing.T) {
	source := &mocks.MockTenantSource{Tenants: []domain.Tenant{{ID: "t1"}}}
	dir := NewDirectory(source, testLogger(), nil, time.Minute)

	if _, populated := dir.Snapshot("token-a"); populated {
		t.Fatal("snapshot should not be populated before any fetch")
	}

	if _, err := dir.List(context.Background(), "token-a"); err != nil {
		t.Fatal(err)
	}

	tenants, populated := dir.Snapshot("token-a")
	if !populated {
		t.Fatal("snapshot should be populated after a fetch")
	}
	if len(tenants) != 1 {
		t.Fatalf("unexpected snapshot: %+v", tenants)
	}

	dir.Invalidate("token-a")
	if _, populated := dir.Snapshot("token-a"); populated {
		t.Fatal("snapshot should be empty after invalidation")
	}
}
