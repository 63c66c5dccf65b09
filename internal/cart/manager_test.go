package cart

import (
	"context"
	"testing"

	"github.com/rockshoes/cart-service/pkg/metrics"
)

func newTestManager(t *testing.T, store *fakeStore) *Manager {
	t.Helper()
	manager, err := NewManager(catalogInventory(map[int64]int64{1: 5}), store, &fakeNotifier{}, metrics.NewCartMetrics(nil), nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return manager
}

func TestManagerReturnsSameEnginePerSession(t *testing.T) {
	manager := newTestManager(t, newFakeStore())

	first, err := manager.Engine("sess-1")
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	second, err := manager.Engine("sess-1")
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	if first != second {
		t.Fatalf("expected one engine per session")
	}
}

func TestManagerIsolatesSessions(t *testing.T) {
	store := newFakeStore()
	manager := newTestManager(t, store)
	ctx := context.Background()

	first, _ := manager.Engine("sess-a")
	second, _ := manager.Engine("sess-b")

	first.Add(ctx, 1)

	if items := second.Items(ctx); len(items) != 0 {
		t.Fatalf("sessions share cart state: %+v", items)
	}
	if items := first.Items(ctx); len(items) != 1 {
		t.Fatalf("expected one line in first session, got %+v", items)
	}
}

func TestManagerRejectsEmptySession(t *testing.T) {
	manager := newTestManager(t, newFakeStore())
	if _, err := manager.Engine("  "); err == nil {
		t.Fatalf("expected error for blank session ID")
	}
}

func TestNewManagerValidatesDependencies(t *testing.T) {
	if _, err := NewManager(nil, newFakeStore(), nil, nil, nil); err == nil {
		t.Fatalf("expected error for nil inventory client")
	}
	if _, err := NewManager(catalogInventory(nil), nil, nil, nil, nil); err == nil {
		t.Fatalf("expected error for nil store")
	}
}
