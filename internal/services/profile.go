package services

import (
	"context"

	"github.com/shipbid/apiserver/internal/storage"
	"github.com/shipbid/apiserver/types"
)

// CustomerRepository defines persistence operations for customer profiles.
type CustomerRepository interface {
	List(ctx context.Context, userID int) ([]types.Customer, error)
	Get(ctx context.Context, id int) (types.Customer, error)
	GetByUserID(ctx context.Context, userID int) (types.Customer, error)
	Create(ctx context.Context, customer types.Customer) (types.Customer, error)
}

// AdminRepository defines persistence operations for admin profiles.
type AdminRepository interface {
	List(ctx context.Context, userID int) ([]types.Admin, error)
	Get(ctx context.Context, id int) (types.Admin, error)
	GetByUserID(ctx context.Context, userID int) (types.Admin, error)
	Create(ctx context.Context, admin types.Admin) (types.Admin, error)
}

// CustomerService encapsulates customer profile use-cases.
type CustomerService struct {
	repo    CustomerRepository
	storage *storage.Storage
}

func NewCustomerService(repo CustomerRepository, st *storage.Storage) *CustomerService {
	return &CustomerService{repo: repo, storage: st}
}

func (s *CustomerService) List(ctx context.Context, userID int) ([]types.Customer, error) {
	return s.repo.List(ctx, userID)
}

func (s *CustomerService) Get(ctx context.Context, id int) (types.Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *CustomerService) GetByUserID(ctx context.Context, userID int) (types.Customer, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *CustomerService) Create(ctx context.Context, customer types.Customer) (types.Customer, error) {
	return s.repo.Create(ctx, customer)
}

// UploadAvatar stores the avatar image and returns its public URL.
func (s *CustomerService) UploadAvatar(ctx context.Context, filename string, data []byte) (string, error) {
	return uploadImage(ctx, s.storage, "avatars/customers", filename, data)
}

// AdminService encapsulates admin profile use-cases.
type AdminService struct {
	repo    AdminRepository
	storage *storage.Storage
}

func NewAdminService(repo AdminRepository, st *storage.Storage) *AdminService {
	return &AdminService{repo: repo, storage: st}
}

func (s *AdminService) List(ctx context.Context, userID int) ([]types.Admin, error) {
	return s.repo.List(ctx, userID)
}

func (s *AdminService) Get(ctx context.Context, id int) (types.Admin, error) {
	return s.repo.Get(ctx, id)
}

func (s *AdminService) GetByUserID(ctx context.Context, userID int) (types.Admin, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *AdminService) Create(ctx context.Context, admin types.Admin) (types.Admin, error) {
	return s.repo.Create(ctx, admin)
}

// UploadAvatar stores the avatar image and returns its public URL.
func (s *AdminService) UploadAvatar(ctx context.Context, filename string, data []byte) (string, error) {
	return uploadImage(ctx, s.storage, "avatars/admins", filename, data)
}
