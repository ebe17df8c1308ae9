package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/shipbid/apiserver/types"
)

// PostRepository handles persistence for delivery job posts.
type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// PostFilter narrows post listings. Zero values mean no filtering.
type PostFilter struct {
	// ProductName filters by substring match on the product name.
	ProductName string

	// ID filters by exact post id.
	ID int
}

const postColumns = `id, product_name, product_img_url, from_address, to_address, description, discount_id, customer_id, active, created_at, updated_at`

func scanPost(row rowScanner) (types.Post, error) {
	var post types.Post
	var discountID sql.NullInt64
	err := row.Scan(
		&post.ID,
		&post.ProductName,
		&post.ProductImgURL,
		&post.FromAddress,
		&post.ToAddress,
		&post.Description,
		&discountID,
		&post.CustomerID,
		&post.Active,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Post{}, ErrNotFound
		}
		return types.Post{}, err
	}
	if discountID.Valid {
		id := int(discountID.Int64)
		post.DiscountID = &id
	}
	return post, nil
}

func (r *PostRepository) List(ctx context.Context, filter PostFilter) ([]types.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE active`
	args := make([]any, 0, 2)
	if filter.ProductName != "" {
		args = append(args, "%"+filter.ProductName+"%")
		query += ` AND product_name ILIKE $` + strconv.Itoa(len(args))
	}
	if filter.ID != 0 {
		args = append(args, filter.ID)
		query += ` AND id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]types.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *PostRepository) Get(ctx context.Context, id int) (types.Post, error) {
	const query = `
		SELECT ` + postColumns + `
		FROM posts
		WHERE id = $1 AND active`
	return scanPost(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostRepository) Create(ctx context.Context, post types.Post) (types.Post, error) {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Active = true

	const query = `
		INSERT INTO posts (product_name, product_img_url, from_address, to_address, description, discount_id, customer_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		post.ProductName,
		post.ProductImgURL,
		post.FromAddress,
		post.ToAddress,
		post.Description,
		nullableInt(post.DiscountID),
		post.CustomerID,
		post.Active,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID); err != nil {
		return types.Post{}, err
	}
	return post, nil
}

func (r *PostRepository) Update(ctx context.Context, post types.Post) (types.Post, error) {
	post.UpdatedAt = time.Now()

	const query = `
		UPDATE posts
		SET product_name = $1,
			product_img_url = $2,
			from_address = $3,
			to_address = $4,
			description = $5,
			discount_id = $6,
			active = $7,
			updated_at = $8
		WHERE id = $9`
	result, err := r.db.ExecContext(
		ctx,
		query,
		post.ProductName,
		post.ProductImgURL,
		post.FromAddress,
		post.ToAddress,
		post.Description,
		nullableInt(post.DiscountID),
		post.Active,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return types.Post{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Post{}, err
	}
	if affected == 0 {
		return types.Post{}, ErrNotFound
	}
	return post, nil
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}
