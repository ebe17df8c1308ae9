package services

import (
	"context"
	"errors"

	"github.com/shipbid/apiserver/internal/storage"
	"github.com/shipbid/apiserver/internal/store"
	"github.com/shipbid/apiserver/types"
)

// ShipperRepository defines persistence operations for shipper profiles.
type ShipperRepository interface {
	List(ctx context.Context, filter store.ShipperFilter) ([]types.Shipper, error)
	Get(ctx context.Context, id int) (types.Shipper, error)
	GetByUserID(ctx context.Context, userID int) (types.Shipper, error)
	Create(ctx context.Context, shipper types.Shipper) (types.Shipper, error)
	Update(ctx context.Context, shipper types.Shipper) (types.Shipper, error)
}

// CommentRepository defines persistence operations for shipper comments.
type CommentRepository interface {
	ListForShipper(ctx context.Context, shipperID int) ([]types.Comment, error)
	Get(ctx context.Context, id int) (types.Comment, error)
	Create(ctx context.Context, comment types.Comment) (types.Comment, error)
	Update(ctx context.Context, comment types.Comment) (types.Comment, error)
}

// RatingRepository defines persistence operations for shipper ratings.
type RatingRepository interface {
	ListForShipper(ctx context.Context, shipperID int) ([]types.Rating, error)
	GetByPair(ctx context.Context, customerID, shipperID int) (types.Rating, error)
	Upsert(ctx context.Context, rating types.Rating) (types.Rating, error)
}

// ShipperService encapsulates shipper profile and feedback use-cases.
type ShipperService struct {
	repo     ShipperRepository
	comments CommentRepository
	ratings  RatingRepository
	storage  *storage.Storage
}

func NewShipperService(repo ShipperRepository, comments CommentRepository, ratings RatingRepository, st *storage.Storage) *ShipperService {
	return &ShipperService{repo: repo, comments: comments, ratings: ratings, storage: st}
}

func (s *ShipperService) List(ctx context.Context, filter store.ShipperFilter) ([]types.Shipper, error) {
	return s.repo.List(ctx, filter)
}

// Get returns the shipper profile. When viewerCustomerID is non-zero the
// Rate field carries that customer's standing rating of the shipper, or -1
// when the customer has not rated them yet.
func (s *ShipperService) Get(ctx context.Context, id, viewerCustomerID int) (types.Shipper, error) {
	shipper, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Shipper{}, err
	}
	if viewerCustomerID != 0 {
		rating, err := s.ratings.GetByPair(ctx, viewerCustomerID, shipper.ID)
		switch {
		case err == nil:
			shipper.Rate = rating.Rate
		case errors.Is(err, store.ErrNotFound):
			shipper.Rate = -1
		default:
			return types.Shipper{}, err
		}
	}
	return shipper, nil
}

func (s *ShipperService) GetByUserID(ctx context.Context, userID int) (types.Shipper, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *ShipperService) Create(ctx context.Context, shipper types.Shipper) (types.Shipper, error) {
	return s.repo.Create(ctx, shipper)
}

func (s *ShipperService) Update(ctx context.Context, shipper types.Shipper) (types.Shipper, error) {
	return s.repo.Update(ctx, shipper)
}

// UploadAvatar stores the avatar image and returns its public URL.
func (s *ShipperService) UploadAvatar(ctx context.Context, filename string, data []byte) (string, error) {
	return uploadImage(ctx, s.storage, "avatars/shippers", filename, data)
}

func (s *ShipperService) ListComments(ctx context.Context, shipperID int) ([]types.Comment, error) {
	return s.comments.ListForShipper(ctx, shipperID)
}

func (s *ShipperService) GetComment(ctx context.Context, id int) (types.Comment, error) {
	return s.comments.Get(ctx, id)
}

func (s *ShipperService) AddComment(ctx context.Context, comment types.Comment) (types.Comment, error) {
	return s.comments.Create(ctx, comment)
}

func (s *ShipperService) UpdateComment(ctx context.Context, comment types.Comment) (types.Comment, error) {
	return s.comments.Update(ctx, comment)
}

func (s *ShipperService) ListRatings(ctx context.Context, shipperID int) ([]types.Rating, error) {
	return s.ratings.ListForShipper(ctx, shipperID)
}

// Rate stores or replaces the customer's rating of the shipper. A customer
// holds at most one rating per shipper; repeat calls overwrite it.
func (s *ShipperService) Rate(ctx context.Context, rating types.Rating) (types.Rating, error) {
	if rating.Rate < 1 || rating.Rate > 5 {
		return types.Rating{}, errors.New("rate must be between 1 and 5")
	}
	return s.ratings.Upsert(ctx, rating)
}
