package cart

import (
	"context"
	"fmt"

	"github.com/rockshoes/cart-service/pkg/types"
)

// Service is the session-scoped surface the HTTP layer consumes. Mutating
// calls return the post-operation cart plus the outcome; the only error is
// a missing session ID.
type Service interface {
	Items(ctx context.Context, sessionID string) ([]Item, error)
	Add(ctx context.Context, sessionID string, productID int64) ([]Item, types.Outcome, error)
	Remove(ctx context.Context, sessionID string, productID int64) ([]Item, types.Outcome, error)
	SetAmount(ctx context.Context, sessionID string, productID int64, amount int64) ([]Item, types.Outcome, error)
}

type service struct {
	manager *Manager
}

// NewService wraps the manager in the session-scoped service.
func NewService(manager *Manager) (Service, error) {
	if manager == nil {
		return nil, fmt.Errorf("manager is required")
	}
	return &service{manager: manager}, nil
}

func (s *service) Items(ctx context.Context, sessionID string) ([]Item, error) {
	engine, err := s.manager.Engine(sessionID)
	if err != nil {
		return nil, err
	}
	return engine.Items(ctx), nil
}

func (s *service) Add(ctx context.Context, sessionID string, productID int64) ([]Item, types.Outcome, error) {
	engine, err := s.manager.Engine(sessionID)
	if err != nil {
		return nil, types.Outcome{}, err
	}
	items, outcome := engine.Add(ctx, productID)
	return items, outcome, nil
}

func (s *service) Remove(ctx context.Context, sessionID string, productID int64) ([]Item, types.Outcome, error) {
	engine, err := s.manager.Engine(sessionID)
	if err != nil {
		return nil, types.Outcome{}, err
	}
	items, outcome := engine.Remove(ctx, productID)
	return items, outcome, nil
}

func (s *service) SetAmount(ctx context.Context, sessionID string, productID int64, amount int64) ([]Item, types.Outcome, error) {
	engine, err := s.manager.Engine(sessionID)
	if err != nil {
		return nil, types.Outcome{}, err
	}
	items, outcome := engine.SetAmount(ctx, productID, amount)
	return items, outcome, nil
}
