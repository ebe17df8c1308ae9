package services

import (
	"context"

	"github.com/shipbid/apiserver/internal/storage"
	"github.com/shipbid/apiserver/internal/store"
	"github.com/shipbid/apiserver/types"
)

// PostRepository defines persistence operations for delivery job posts.
type PostRepository interface {
	List(ctx context.Context, filter store.PostFilter) ([]types.Post, error)
	Get(ctx context.Context, id int) (types.Post, error)
	Create(ctx context.Context, post types.Post) (types.Post, error)
	Update(ctx context.Context, post types.Post) (types.Post, error)
}

// PostService encapsulates delivery job post use-cases.
type PostService struct {
	repo    PostRepository
	storage *storage.Storage
}

func NewPostService(repo PostRepository, st *storage.Storage) *PostService {
	return &PostService{repo: repo, storage: st}
}

func (s *PostService) List(ctx context.Context, filter store.PostFilter) ([]types.Post, error) {
	return s.repo.List(ctx, filter)
}

func (s *PostService) Get(ctx context.Context, id int) (types.Post, error) {
	return s.repo.Get(ctx, id)
}

func (s *PostService) Create(ctx context.Context, post types.Post) (types.Post, error) {
	return s.repo.Create(ctx, post)
}

func (s *PostService) Update(ctx context.Context, post types.Post) (types.Post, error) {
	return s.repo.Update(ctx, post)
}

// UploadProductImage stores the product image and returns its public URL.
func (s *PostService) UploadProductImage(ctx context.Context, filename string, data []byte) (string, error) {
	return uploadImage(ctx, s.storage, "posts", filename, data)
}
