package cart

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rockshoes/cart-service/internal/cartstore"
	"github.com/rockshoes/cart-service/internal/inventory"
	"github.com/rockshoes/cart-service/internal/notify"
	"github.com/rockshoes/cart-service/pkg/logger"
	"github.com/rockshoes/cart-service/pkg/metrics"
)

// Manager hands out one engine per session, created lazily and kept for the
// life of the process. Engines share the injected dependencies.
type Manager struct {
	mu      sync.Mutex
	engines map[string]*Engine

	inventory inventory.Client
	store     cartstore.Store
	notifier  notify.Notifier
	metrics   *metrics.CartMetrics
	logg      *logger.Logger
}

// NewManager validates dependencies and builds the session registry.
func NewManager(inv inventory.Client, store cartstore.Store, notifier notify.Notifier, m *metrics.CartMetrics, logg *logger.Logger) (*Manager, error) {
	if inv == nil {
		return nil, fmt.Errorf("inventory client is required")
	}
	if store == nil {
		return nil, fmt.Errorf("snapshot store is required")
	}
	return &Manager{
		engines:   map[string]*Engine{},
		inventory: inv,
		store:     store,
		notifier:  notifier,
		metrics:   m,
		logg:      logg,
	}, nil
}

// Engine returns the session's engine, creating it on first use.
func (m *Manager) Engine(sessionID string) (*Engine, error) {
	trimmed := strings.TrimSpace(sessionID)
	if trimmed == "" {
		return nil, fmt.Errorf("session ID is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if engine, ok := m.engines[trimmed]; ok {
		return engine, nil
	}

	engine := NewEngine(trimmed, m.inventory, m.store, m.notifier, m.metrics, m.logg)
	m.engines[trimmed] = engine
	return engine, nil
}
