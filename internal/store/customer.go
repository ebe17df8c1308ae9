package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shipbid/apiserver/types"
)

// CustomerRepository handles persistence for customer profiles.
type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `id, user_id, avatar_url, active, created_at, updated_at`

func scanCustomer(row rowScanner) (types.Customer, error) {
	var customer types.Customer
	err := row.Scan(
		&customer.ID,
		&customer.UserID,
		&customer.AvatarURL,
		&customer.Active,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Customer{}, ErrNotFound
		}
		return types.Customer{}, err
	}
	return customer, nil
}

func (r *CustomerRepository) List(ctx context.Context, userID int) ([]types.Customer, error) {
	query := `
		SELECT c.id, c.user_id, c.avatar_url, c.active, c.created_at, c.updated_at
		FROM customers c
		JOIN users u ON u.id = c.user_id
		WHERE c.active AND u.active`
	args := make([]any, 0, 1)
	if userID != 0 {
		args = append(args, userID)
		query += ` AND c.user_id = $1`
	}
	query += ` ORDER BY c.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]types.Customer, 0)
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) Get(ctx context.Context, id int) (types.Customer, error) {
	const query = `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE id = $1 AND active`
	return scanCustomer(r.db.QueryRowContext(ctx, query, id))
}

func (r *CustomerRepository) GetByUserID(ctx context.Context, userID int) (types.Customer, error) {
	const query = `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE user_id = $1 AND active`
	return scanCustomer(r.db.QueryRowContext(ctx, query, userID))
}

func (r *CustomerRepository) Create(ctx context.Context, customer types.Customer) (types.Customer, error) {
	now := time.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	customer.Active = true

	const query = `
		INSERT INTO customers (user_id, avatar_url, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		customer.UserID,
		customer.AvatarURL,
		customer.Active,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Scan(&customer.ID); err != nil {
		if isUniqueViolation(err) {
			return types.Customer{}, ErrConflict
		}
		return types.Customer{}, err
	}
	return customer, nil
}
