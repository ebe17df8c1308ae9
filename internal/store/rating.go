package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shipbid/apiserver/types"
)

// RatingRepository handles persistence for customer ratings of shippers.
type RatingRepository struct {
	db *sql.DB
}

func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

const ratingColumns = `id, rate, shipper_id, customer_id, created_at, updated_at`

func scanRating(row rowScanner) (types.Rating, error) {
	var rating types.Rating
	err := row.Scan(
		&rating.ID,
		&rating.Rate,
		&rating.ShipperID,
		&rating.CustomerID,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Rating{}, ErrNotFound
		}
		return types.Rating{}, err
	}
	return rating, nil
}

func (r *RatingRepository) ListForShipper(ctx context.Context, shipperID int) ([]types.Rating, error) {
	const query = `
		SELECT ` + ratingColumns + `
		FROM ratings
		WHERE shipper_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, shipperID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make([]types.Rating, 0)
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

func (r *RatingRepository) GetByPair(ctx context.Context, customerID, shipperID int) (types.Rating, error) {
	const query = `
		SELECT ` + ratingColumns + `
		FROM ratings
		WHERE customer_id = $1 AND shipper_id = $2`
	return scanRating(r.db.QueryRowContext(ctx, query, customerID, shipperID))
}

// Upsert stores the customer's rating of a shipper in a single conditional
// write. The unique (customer_id, shipper_id) index makes concurrent calls
// from the same customer converge on one row holding the latest value.
func (r *RatingRepository) Upsert(ctx context.Context, rating types.Rating) (types.Rating, error) {
	now := time.Now()
	rating.CreatedAt = now
	rating.UpdatedAt = now

	const query = `
		INSERT INTO ratings (rate, shipper_id, customer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (customer_id, shipper_id)
		DO UPDATE SET rate = EXCLUDED.rate, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		rating.Rate,
		rating.ShipperID,
		rating.CustomerID,
		rating.CreatedAt,
		rating.UpdatedAt,
	).Scan(&rating.ID, &rating.CreatedAt); err != nil {
		return types.Rating{}, err
	}
	return rating, nil
}
