package services

import (
	"context"

	"github.com/shipbid/apiserver/types"
)

// DiscountRepository defines persistence operations for discounts.
type DiscountRepository interface {
	List(ctx context.Context) ([]types.Discount, error)
	Get(ctx context.Context, id int) (types.Discount, error)
	Create(ctx context.Context, discount types.Discount) (types.Discount, error)
	Update(ctx context.Context, discount types.Discount) (types.Discount, error)
}

// DiscountService encapsulates discount use-cases.
type DiscountService struct {
	repo DiscountRepository
}

func NewDiscountService(repo DiscountRepository) *DiscountService {
	return &DiscountService{repo: repo}
}

func (s *DiscountService) List(ctx context.Context) ([]types.Discount, error) {
	return s.repo.List(ctx)
}

func (s *DiscountService) Get(ctx context.Context, id int) (types.Discount, error) {
	return s.repo.Get(ctx, id)
}

func (s *DiscountService) Create(ctx context.Context, discount types.Discount) (types.Discount, error) {
	return s.repo.Create(ctx, discount)
}

func (s *DiscountService) Update(ctx context.Context, discount types.Discount) (types.Discount, error) {
	return s.repo.Update(ctx, discount)
}
