package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shipbid/apiserver/types"
)

// OrderRepository handles persistence for fulfillment orders.
type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, auction_id, shipper_id, customer_id, status_order, active, created_at, updated_at`

func scanOrder(row rowScanner) (types.Order, error) {
	var order types.Order
	err := row.Scan(
		&order.ID,
		&order.AuctionID,
		&order.ShipperID,
		&order.CustomerID,
		&order.Status,
		&order.Active,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Order{}, ErrNotFound
		}
		return types.Order{}, err
	}
	return order, nil
}

func (r *OrderRepository) Get(ctx context.Context, id int) (types.Order, error) {
	const query = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1 AND active`
	return scanOrder(r.db.QueryRowContext(ctx, query, id))
}

// UpdateStatus advances the order from one status to another with a
// compare-and-set on the previous status, so two concurrent transitions
// cannot both succeed. Callers validate the transition beforehand;
// a lost race surfaces as ErrConflict.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int, from, to types.OrderStatus) (types.Order, error) {
	const query = `
		UPDATE orders
		SET status_order = $3, updated_at = $4
		WHERE id = $1 AND active AND status_order = $2`
	result, err := r.db.ExecContext(ctx, query, id, from, to, time.Now())
	if err != nil {
		return types.Order{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Order{}, err
	}
	if affected == 0 {
		if _, getErr := r.Get(ctx, id); errors.Is(getErr, ErrNotFound) {
			return types.Order{}, ErrNotFound
		}
		return types.Order{}, ErrConflict
	}
	return r.Get(ctx, id)
}
