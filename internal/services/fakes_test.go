package services

import (
	"context"

	"github.com/shipbid/apiserver/internal/store"
	"github.com/shipbid/apiserver/types"
)

// capturePublisher records every published message.
type capturePublisher struct {
	channels []string
	payloads [][]byte
	attrs    []map[string]string
	err      error
}

func (p *capturePublisher) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	p.channels = append(p.channels, channel)
	p.payloads = append(p.payloads, data)
	p.attrs = append(p.attrs, attrs)
	return "msg-1", p.err
}

type fakeOrderRepo struct {
	orders map[int]types.Order

	updateCalls int
	lastFrom    types.OrderStatus
	lastTo      types.OrderStatus
	updateErr   error
}

func (r *fakeOrderRepo) Get(_ context.Context, id int) (types.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return types.Order{}, store.ErrNotFound
	}
	return order, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id int, from, to types.OrderStatus) (types.Order, error) {
	r.updateCalls++
	r.lastFrom = from
	r.lastTo = to
	if r.updateErr != nil {
		return types.Order{}, r.updateErr
	}
	order, ok := r.orders[id]
	if !ok {
		return types.Order{}, store.ErrNotFound
	}
	if order.Status != from {
		return types.Order{}, store.ErrConflict
	}
	order.Status = to
	r.orders[id] = order
	return order, nil
}

type fakeAuctionRepo struct {
	auctions map[int]types.Auction
	order    types.Order

	acceptErr   error
	acceptCalls int
}

func (r *fakeAuctionRepo) List(_ context.Context) ([]types.Auction, error) {
	auctions := make([]types.Auction, 0, len(r.auctions))
	for _, auction := range r.auctions {
		auctions = append(auctions, auction)
	}
	return auctions, nil
}

func (r *fakeAuctionRepo) ListForPost(_ context.Context, postID int) ([]types.Auction, error) {
	auctions := make([]types.Auction, 0)
	for _, auction := range r.auctions {
		if auction.PostID == postID {
			auctions = append(auctions, auction)
		}
	}
	return auctions, nil
}

func (r *fakeAuctionRepo) Get(_ context.Context, id int) (types.Auction, error) {
	auction, ok := r.auctions[id]
	if !ok {
		return types.Auction{}, store.ErrNotFound
	}
	return auction, nil
}

func (r *fakeAuctionRepo) Create(_ context.Context, auction types.Auction) (types.Auction, error) {
	auction.ID = len(r.auctions) + 1
	auction.Active = true
	if r.auctions == nil {
		r.auctions = map[int]types.Auction{}
	}
	r.auctions[auction.ID] = auction
	return auction, nil
}

func (r *fakeAuctionRepo) Accept(_ context.Context, id int) (types.Auction, types.Order, error) {
	r.acceptCalls++
	if r.acceptErr != nil {
		return types.Auction{}, types.Order{}, r.acceptErr
	}
	auction, ok := r.auctions[id]
	if !ok {
		return types.Auction{}, types.Order{}, store.ErrNotFound
	}
	auction.HadAccept = true
	r.auctions[id] = auction
	return auction, r.order, nil
}

func (r *fakeAuctionRepo) Withdraw(_ context.Context, id int) error {
	auction, ok := r.auctions[id]
	if !ok || auction.HadAccept {
		return store.ErrNotFound
	}
	auction.Active = false
	r.auctions[id] = auction
	return nil
}

type fakeShipperRepo struct {
	shippers map[int]types.Shipper
}

func (r *fakeShipperRepo) List(_ context.Context, _ store.ShipperFilter) ([]types.Shipper, error) {
	shippers := make([]types.Shipper, 0, len(r.shippers))
	for _, shipper := range r.shippers {
		shippers = append(shippers, shipper)
	}
	return shippers, nil
}

func (r *fakeShipperRepo) Get(_ context.Context, id int) (types.Shipper, error) {
	shipper, ok := r.shippers[id]
	if !ok {
		return types.Shipper{}, store.ErrNotFound
	}
	return shipper, nil
}

func (r *fakeShipperRepo) GetByUserID(_ context.Context, userID int) (types.Shipper, error) {
	for _, shipper := range r.shippers {
		if shipper.UserID == userID {
			return shipper, nil
		}
	}
	return types.Shipper{}, store.ErrNotFound
}

func (r *fakeShipperRepo) Create(_ context.Context, shipper types.Shipper) (types.Shipper, error) {
	shipper.ID = len(r.shippers) + 1
	if r.shippers == nil {
		r.shippers = map[int]types.Shipper{}
	}
	r.shippers[shipper.ID] = shipper
	return shipper, nil
}

func (r *fakeShipperRepo) Update(_ context.Context, shipper types.Shipper) (types.Shipper, error) {
	if _, ok := r.shippers[shipper.ID]; !ok {
		return types.Shipper{}, store.ErrNotFound
	}
	r.shippers[shipper.ID] = shipper
	return shipper, nil
}

type fakeCommentRepo struct {
	comments map[int]types.Comment
}

func (r *fakeCommentRepo) ListForShipper(_ context.Context, shipperID int) ([]types.Comment, error) {
	comments := make([]types.Comment, 0)
	for _, comment := range r.comments {
		if comment.ShipperID == shipperID {
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

func (r *fakeCommentRepo) Get(_ context.Context, id int) (types.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return types.Comment{}, store.ErrNotFound
	}
	return comment, nil
}

func (r *fakeCommentRepo) Create(_ context.Context, comment types.Comment) (types.Comment, error) {
	comment.ID = len(r.comments) + 1
	if r.comments == nil {
		r.comments = map[int]types.Comment{}
	}
	r.comments[comment.ID] = comment
	return comment, nil
}

func (r *fakeCommentRepo) Update(_ context.Context, comment types.Comment) (types.Comment, error) {
	if _, ok := r.comments[comment.ID]; !ok {
		return types.Comment{}, store.ErrNotFound
	}
	r.comments[comment.ID] = comment
	return comment, nil
}

type fakeRatingRepo struct {
	ratings map[[2]int]types.Rating
	nextID  int
}

func (r *fakeRatingRepo) ListForShipper(_ context.Context, shipperID int) ([]types.Rating, error) {
	ratings := make([]types.Rating, 0)
	for _, rating := range r.ratings {
		if rating.ShipperID == shipperID {
			ratings = append(ratings, rating)
		}
	}
	return ratings, nil
}

func (r *fakeRatingRepo) GetByPair(_ context.Context, customerID, shipperID int) (types.Rating, error) {
	rating, ok := r.ratings[[2]int{customerID, shipperID}]
	if !ok {
		return types.Rating{}, store.ErrNotFound
	}
	return rating, nil
}

func (r *fakeRatingRepo) Upsert(_ context.Context, rating types.Rating) (types.Rating, error) {
	key := [2]int{rating.CustomerID, rating.ShipperID}
	if r.ratings == nil {
		r.ratings = map[[2]int]types.Rating{}
	}
	if existing, ok := r.ratings[key]; ok {
		existing.Rate = rating.Rate
		r.ratings[key] = existing
		return existing, nil
	}
	r.nextID++
	rating.ID = r.nextID
	r.ratings[key] = rating
	return rating, nil
}
