package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shipbid/apiserver/types"
)

// CommentRepository handles persistence for customer comments on shippers.
type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentColumns = `id, content, shipper_id, customer_id, active, created_at, updated_at`

func scanComment(row rowScanner) (types.Comment, error) {
	var comment types.Comment
	err := row.Scan(
		&comment.ID,
		&comment.Content,
		&comment.ShipperID,
		&comment.CustomerID,
		&comment.Active,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Comment{}, ErrNotFound
		}
		return types.Comment{}, err
	}
	return comment, nil
}

func (r *CommentRepository) ListForShipper(ctx context.Context, shipperID int) ([]types.Comment, error) {
	const query = `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE shipper_id = $1 AND active
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, shipperID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]types.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (r *CommentRepository) Get(ctx context.Context, id int) (types.Comment, error) {
	const query = `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE id = $1 AND active`
	return scanComment(r.db.QueryRowContext(ctx, query, id))
}

func (r *CommentRepository) Create(ctx context.Context, comment types.Comment) (types.Comment, error) {
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	comment.Active = true

	const query = `
		INSERT INTO comments (content, shipper_id, customer_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		comment.Content,
		comment.ShipperID,
		comment.CustomerID,
		comment.Active,
		comment.CreatedAt,
		comment.UpdatedAt,
	).Scan(&comment.ID); err != nil {
		return types.Comment{}, err
	}
	return comment, nil
}

func (r *CommentRepository) Update(ctx context.Context, comment types.Comment) (types.Comment, error) {
	comment.UpdatedAt = time.Now()

	const query = `
		UPDATE comments
		SET content = $1,
			active = $2,
			updated_at = $3
		WHERE id = $4`
	result, err := r.db.ExecContext(
		ctx,
		query,
		comment.Content,
		comment.Active,
		comment.UpdatedAt,
		comment.ID,
	)
	if err != nil {
		return types.Comment{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Comment{}, err
	}
	if affected == 0 {
		return types.Comment{}, ErrNotFound
	}
	return comment, nil
}
