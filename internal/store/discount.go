package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shipbid/apiserver/types"
)

// DiscountRepository handles persistence for admin-owned discounts.
type DiscountRepository struct {
	db *sql.DB
}

func NewDiscountRepository(db *sql.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

const discountColumns = `id, title, percent, admin_id, active, created_at`

func scanDiscount(row rowScanner) (types.Discount, error) {
	var discount types.Discount
	err := row.Scan(
		&discount.ID,
		&discount.Title,
		&discount.Percent,
		&discount.AdminID,
		&discount.Active,
		&discount.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Discount{}, ErrNotFound
		}
		return types.Discount{}, err
	}
	return discount, nil
}

func (r *DiscountRepository) List(ctx context.Context) ([]types.Discount, error) {
	const query = `
		SELECT ` + discountColumns + `
		FROM discounts
		WHERE active
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	discounts := make([]types.Discount, 0)
	for rows.Next() {
		discount, err := scanDiscount(rows)
		if err != nil {
			return nil, err
		}
		discounts = append(discounts, discount)
	}
	return discounts, rows.Err()
}

func (r *DiscountRepository) Get(ctx context.Context, id int) (types.Discount, error) {
	const query = `
		SELECT ` + discountColumns + `
		FROM discounts
		WHERE id = $1 AND active`
	return scanDiscount(r.db.QueryRowContext(ctx, query, id))
}

func (r *DiscountRepository) Create(ctx context.Context, discount types.Discount) (types.Discount, error) {
	discount.CreatedAt = time.Now()
	discount.Active = true

	const query = `
		INSERT INTO discounts (title, percent, admin_id, active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		discount.Title,
		discount.Percent,
		discount.AdminID,
		discount.Active,
		discount.CreatedAt,
	).Scan(&discount.ID); err != nil {
		return types.Discount{}, err
	}
	return discount, nil
}

func (r *DiscountRepository) Update(ctx context.Context, discount types.Discount) (types.Discount, error) {
	const query = `
		UPDATE discounts
		SET title = $1,
			percent = $2,
			active = $3
		WHERE id = $4`
	result, err := r.db.ExecContext(
		ctx,
		query,
		discount.Title,
		discount.Percent,
		discount.Active,
		discount.ID,
	)
	if err != nil {
		return types.Discount{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Discount{}, err
	}
	if affected == 0 {
		return types.Discount{}, ErrNotFound
	}
	return discount, nil
}
