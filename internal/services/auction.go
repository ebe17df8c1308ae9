package services

import (
	"context"

	"github.com/shipbid/apiserver/types"
)

// AuctionRepository defines persistence operations for auctions.
type AuctionRepository interface {
	List(ctx context.Context) ([]types.Auction, error)
	ListForPost(ctx context.Context, postID int) ([]types.Auction, error)
	Get(ctx context.Context, id int) (types.Auction, error)
	Create(ctx context.Context, auction types.Auction) (types.Auction, error)
	Accept(ctx context.Context, id int) (types.Auction, types.Order, error)
	Withdraw(ctx context.Context, id int) error
}

// AuctionService encapsulates bidding use-cases.
type AuctionService struct {
	repo   AuctionRepository
	events EventPublisher
}

func NewAuctionService(repo AuctionRepository, events EventPublisher) *AuctionService {
	return &AuctionService{repo: repo, events: events}
}

func (s *AuctionService) List(ctx context.Context) ([]types.Auction, error) {
	return s.repo.List(ctx)
}

func (s *AuctionService) ListForPost(ctx context.Context, postID int) ([]types.Auction, error) {
	return s.repo.ListForPost(ctx, postID)
}

func (s *AuctionService) Get(ctx context.Context, id int) (types.Auction, error) {
	return s.repo.Get(ctx, id)
}

func (s *AuctionService) Create(ctx context.Context, auction types.Auction) (types.Auction, error) {
	return s.repo.Create(ctx, auction)
}

// Accept marks the bid as the winner for its post and creates the
// fulfillment order. At most one bid per post can ever win; a second
// accept under the same post returns store.ErrConflict.
func (s *AuctionService) Accept(ctx context.Context, id int) (types.Auction, types.Order, error) {
	auction, order, err := s.repo.Accept(ctx, id)
	if err != nil {
		return types.Auction{}, types.Order{}, err
	}

	publishOrderEvent(ctx, s.events, OrderEvent{
		Kind:       EventOrderCreated,
		OrderID:    order.ID,
		AuctionID:  order.AuctionID,
		ShipperID:  order.ShipperID,
		CustomerID: order.CustomerID,
		Status:     order.Status,
	})
	return auction, order, nil
}

// Withdraw deactivates a standing bid. Accepted bids cannot be withdrawn.
func (s *AuctionService) Withdraw(ctx context.Context, id int) error {
	return s.repo.Withdraw(ctx, id)
}
