package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shipbid/apiserver/types"
)

// AuctionRepository handles persistence for auctions (shipper bids).
type AuctionRepository struct {
	db *sql.DB
}

func NewAuctionRepository(db *sql.DB) *AuctionRepository {
	return &AuctionRepository{db: db}
}

const auctionColumns = `id, content, price, had_accept, post_id, shipper_id, active, created_at, updated_at`

func scanAuction(row rowScanner) (types.Auction, error) {
	var auction types.Auction
	err := row.Scan(
		&auction.ID,
		&auction.Content,
		&auction.Price,
		&auction.HadAccept,
		&auction.PostID,
		&auction.ShipperID,
		&auction.Active,
		&auction.CreatedAt,
		&auction.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Auction{}, ErrNotFound
		}
		return types.Auction{}, err
	}
	return auction, nil
}

func (r *AuctionRepository) List(ctx context.Context) ([]types.Auction, error) {
	const query = `
		SELECT ` + auctionColumns + `
		FROM auctions
		WHERE active
		ORDER BY id`
	return r.queryAuctions(ctx, query)
}

func (r *AuctionRepository) ListForPost(ctx context.Context, postID int) ([]types.Auction, error) {
	const query = `
		SELECT ` + auctionColumns + `
		FROM auctions
		WHERE post_id = $1 AND active
		ORDER BY id`
	return r.queryAuctions(ctx, query, postID)
}

func (r *AuctionRepository) queryAuctions(ctx context.Context, query string, args ...any) ([]types.Auction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	auctions := make([]types.Auction, 0)
	for rows.Next() {
		auction, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		auctions = append(auctions, auction)
	}
	return auctions, rows.Err()
}

func (r *AuctionRepository) Get(ctx context.Context, id int) (types.Auction, error) {
	const query = `
		SELECT ` + auctionColumns + `
		FROM auctions
		WHERE id = $1 AND active`
	return scanAuction(r.db.QueryRowContext(ctx, query, id))
}

func (r *AuctionRepository) Create(ctx context.Context, auction types.Auction) (types.Auction, error) {
	now := time.Now()
	auction.CreatedAt = now
	auction.UpdatedAt = now
	auction.Active = true
	auction.HadAccept = false

	const query = `
		INSERT INTO auctions (content, price, had_accept, post_id, shipper_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		auction.Content,
		auction.Price,
		auction.HadAccept,
		auction.PostID,
		auction.ShipperID,
		auction.Active,
		auction.CreatedAt,
		auction.UpdatedAt,
	).Scan(&auction.ID); err != nil {
		return types.Auction{}, err
	}
	return auction, nil
}

// Withdraw clears a standing bid. Accepted bids cannot be withdrawn.
func (r *AuctionRepository) Withdraw(ctx context.Context, id int) error {
	const query = `
		UPDATE auctions
		SET active = FALSE, updated_at = $2
		WHERE id = $1 AND active AND NOT had_accept`
	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Accept marks the auction as the chosen bid for its post and creates the
// order, all in one transaction. The conditional UPDATE refuses to run when
// any auction under the same post is already accepted, and the partial
// unique index on auctions(post_id) WHERE had_accept backstops concurrent
// accepts racing past the condition.
func (r *AuctionRepository) Accept(ctx context.Context, id int) (types.Auction, types.Order, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return types.Auction{}, types.Order{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()

	const acceptQuery = `
		UPDATE auctions
		SET had_accept = TRUE, updated_at = $2
		WHERE id = $1 AND active AND NOT had_accept
			AND NOT EXISTS (
				SELECT 1 FROM auctions other
				WHERE other.post_id = auctions.post_id AND other.had_accept
			)`
	result, err := tx.ExecContext(ctx, acceptQuery, id, now)
	if err != nil {
		if isUniqueViolation(err) {
			return types.Auction{}, types.Order{}, ErrConflict
		}
		return types.Auction{}, types.Order{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Auction{}, types.Order{}, err
	}
	if affected == 0 {
		// Distinguish a missing bid from a post that already has a winner.
		var exists bool
		const existsQuery = `SELECT EXISTS (SELECT 1 FROM auctions WHERE id = $1 AND active)`
		if err := tx.QueryRowContext(ctx, existsQuery, id).Scan(&exists); err != nil {
			return types.Auction{}, types.Order{}, err
		}
		if !exists {
			return types.Auction{}, types.Order{}, ErrNotFound
		}
		return types.Auction{}, types.Order{}, ErrConflict
	}

	const auctionQuery = `
		SELECT ` + auctionColumns + `
		FROM auctions
		WHERE id = $1`
	auction, err := scanAuction(tx.QueryRowContext(ctx, auctionQuery, id))
	if err != nil {
		return types.Auction{}, types.Order{}, err
	}

	order := types.Order{
		AuctionID: auction.ID,
		ShipperID: auction.ShipperID,
		Status:    types.StatusConfirm,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	const orderQuery = `
		INSERT INTO orders (auction_id, shipper_id, customer_id, status_order, active, created_at, updated_at)
		SELECT $1, $2, p.customer_id, $3, TRUE, $4, $4
		FROM posts p
		WHERE p.id = $5
		RETURNING id, customer_id`
	if err := tx.QueryRowContext(
		ctx,
		orderQuery,
		order.AuctionID,
		order.ShipperID,
		order.Status,
		now,
		auction.PostID,
	).Scan(&order.ID, &order.CustomerID); err != nil {
		if isUniqueViolation(err) {
			return types.Auction{}, types.Order{}, ErrConflict
		}
		return types.Auction{}, types.Order{}, err
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return types.Auction{}, types.Order{}, ErrConflict
		}
		return types.Auction{}, types.Order{}, err
	}
	return auction, order, nil
}
