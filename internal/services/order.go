package services

import (
	"context"

	"github.com/shipbid/apiserver/internal/store"
	"github.com/shipbid/apiserver/types"
)

// OrderRepository defines persistence operations for fulfillment orders.
type OrderRepository interface {
	Get(ctx context.Context, id int) (types.Order, error)
	UpdateStatus(ctx context.Context, id int, from, to types.OrderStatus) (types.Order, error)
}

// OrderService encapsulates order lifecycle use-cases.
type OrderService struct {
	repo   OrderRepository
	events EventPublisher
}

func NewOrderService(repo OrderRepository, events EventPublisher) *OrderService {
	return &OrderService{repo: repo, events: events}
}

func (s *OrderService) Get(ctx context.Context, id int) (types.Order, error) {
	return s.repo.Get(ctx, id)
}

// Transition advances the order to the next status. The move must be legal
// under the order state machine; anything else, including a repeat of the
// current status, returns store.ErrConflict. The repository update is a
// compare-and-set on the current status, so a concurrent transition that
// wins the race also surfaces as store.ErrConflict.
func (s *OrderService) Transition(ctx context.Context, id int, next types.OrderStatus) (types.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Order{}, err
	}
	if !order.Status.CanTransitionTo(next) {
		return types.Order{}, store.ErrConflict
	}

	updated, err := s.repo.UpdateStatus(ctx, id, order.Status, next)
	if err != nil {
		return types.Order{}, err
	}

	publishOrderEvent(ctx, s.events, OrderEvent{
		Kind:       EventOrderStatusChanged,
		OrderID:    updated.ID,
		AuctionID:  updated.AuctionID,
		ShipperID:  updated.ShipperID,
		CustomerID: updated.CustomerID,
		Status:     updated.Status,
		PrevStatus: order.Status,
	})
	return updated, nil
}
