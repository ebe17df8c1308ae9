package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/shipbid/apiserver/types"
)

// ShipperRepository handles persistence for shipper profiles.
type ShipperRepository struct {
	db *sql.DB
}

func NewShipperRepository(db *sql.DB) *ShipperRepository {
	return &ShipperRepository{db: db}
}

// ShipperFilter narrows shipper listings. Zero values mean no filtering.
type ShipperFilter struct {
	// CMND filters by substring match on the national identity number.
	CMND string

	// UserID filters by the exact owning user id.
	UserID int
}

const shipperColumns = `id, user_id, avatar_url, cmnd, verified, active, created_at, updated_at`

func scanShipper(row rowScanner) (types.Shipper, error) {
	shipper := types.Shipper{Rate: -1}
	err := row.Scan(
		&shipper.ID,
		&shipper.UserID,
		&shipper.AvatarURL,
		&shipper.CMND,
		&shipper.Verified,
		&shipper.Active,
		&shipper.CreatedAt,
		&shipper.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Shipper{}, ErrNotFound
		}
		return types.Shipper{}, err
	}
	return shipper, nil
}

func (r *ShipperRepository) List(ctx context.Context, filter ShipperFilter) ([]types.Shipper, error) {
	query := `
		SELECT s.id, s.user_id, s.avatar_url, s.cmnd, s.verified, s.active, s.created_at, s.updated_at
		FROM shippers s
		JOIN users u ON u.id = s.user_id
		WHERE s.active AND u.active`
	args := make([]any, 0, 2)
	if filter.CMND != "" {
		args = append(args, "%"+filter.CMND+"%")
		query += ` AND s.cmnd ILIKE $` + strconv.Itoa(len(args))
	}
	if filter.UserID != 0 {
		args = append(args, filter.UserID)
		query += ` AND s.user_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY s.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shippers := make([]types.Shipper, 0)
	for rows.Next() {
		shipper, err := scanShipper(rows)
		if err != nil {
			return nil, err
		}
		shippers = append(shippers, shipper)
	}
	return shippers, rows.Err()
}

func (r *ShipperRepository) Get(ctx context.Context, id int) (types.Shipper, error) {
	const query = `
		SELECT ` + shipperColumns + `
		FROM shippers
		WHERE id = $1 AND active`
	return scanShipper(r.db.QueryRowContext(ctx, query, id))
}

func (r *ShipperRepository) GetByUserID(ctx context.Context, userID int) (types.Shipper, error) {
	const query = `
		SELECT ` + shipperColumns + `
		FROM shippers
		WHERE user_id = $1 AND active`
	return scanShipper(r.db.QueryRowContext(ctx, query, userID))
}

func (r *ShipperRepository) Create(ctx context.Context, shipper types.Shipper) (types.Shipper, error) {
	now := time.Now()
	shipper.CreatedAt = now
	shipper.UpdatedAt = now
	shipper.Active = true
	shipper.Rate = -1

	const query = `
		INSERT INTO shippers (user_id, avatar_url, cmnd, verified, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		shipper.UserID,
		shipper.AvatarURL,
		shipper.CMND,
		shipper.Verified,
		shipper.Active,
		shipper.CreatedAt,
		shipper.UpdatedAt,
	).Scan(&shipper.ID); err != nil {
		if isUniqueViolation(err) {
			return types.Shipper{}, ErrConflict
		}
		return types.Shipper{}, err
	}
	return shipper, nil
}

func (r *ShipperRepository) Update(ctx context.Context, shipper types.Shipper) (types.Shipper, error) {
	shipper.UpdatedAt = time.Now()

	const query = `
		UPDATE shippers
		SET avatar_url = $1,
			cmnd = $2,
			verified = $3,
			active = $4,
			updated_at = $5
		WHERE id = $6`
	result, err := r.db.ExecContext(
		ctx,
		query,
		shipper.AvatarURL,
		shipper.CMND,
		shipper.Verified,
		shipper.Active,
		shipper.UpdatedAt,
		shipper.ID,
	)
	if err != nil {
		return types.Shipper{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Shipper{}, err
	}
	if affected == 0 {
		return types.Shipper{}, ErrNotFound
	}
	return shipper, nil
}
