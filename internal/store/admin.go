package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shipbid/apiserver/types"
)

// AdminRepository handles persistence for admin profiles.
type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

const adminColumns = `id, user_id, avatar_url, active, created_at, updated_at`

func scanAdmin(row rowScanner) (types.Admin, error) {
	var admin types.Admin
	err := row.Scan(
		&admin.ID,
		&admin.UserID,
		&admin.AvatarURL,
		&admin.Active,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Admin{}, ErrNotFound
		}
		return types.Admin{}, err
	}
	return admin, nil
}

func (r *AdminRepository) List(ctx context.Context, userID int) ([]types.Admin, error) {
	query := `
		SELECT a.id, a.user_id, a.avatar_url, a.active, a.created_at, a.updated_at
		FROM admins a
		JOIN users u ON u.id = a.user_id
		WHERE a.active AND u.active`
	args := make([]any, 0, 1)
	if userID != 0 {
		args = append(args, userID)
		query += ` AND a.user_id = $1`
	}
	query += ` ORDER BY a.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := make([]types.Admin, 0)
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, admin)
	}
	return admins, rows.Err()
}

func (r *AdminRepository) Get(ctx context.Context, id int) (types.Admin, error) {
	const query = `
		SELECT ` + adminColumns + `
		FROM admins
		WHERE id = $1 AND active`
	return scanAdmin(r.db.QueryRowContext(ctx, query, id))
}

func (r *AdminRepository) GetByUserID(ctx context.Context, userID int) (types.Admin, error) {
	const query = `
		SELECT ` + adminColumns + `
		FROM admins
		WHERE user_id = $1 AND active`
	return scanAdmin(r.db.QueryRowContext(ctx, query, userID))
}

func (r *AdminRepository) Create(ctx context.Context, admin types.Admin) (types.Admin, error) {
	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	admin.Active = true

	const query = `
		INSERT INTO admins (user_id, avatar_url, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		admin.UserID,
		admin.AvatarURL,
		admin.Active,
		admin.CreatedAt,
		admin.UpdatedAt,
	).Scan(&admin.ID); err != nil {
		if isUniqueViolation(err) {
			return types.Admin{}, ErrConflict
		}
		return types.Admin{}, err
	}
	return admin, nil
}
