package types

import (
	"fmt"
	"time"
)

// OrderStatus is the closed set of states a delivery order moves through.
type OrderStatus string

// Supported order statuses.
const (
	// StatusConfirm is the initial state, entered when a bid is accepted.
	StatusConfirm OrderStatus = "CONFIRM"

	// StatusDelivering means the shipper has picked the goods up.
	StatusDelivering OrderStatus = "DELIVERING"

	// StatusReceived is the successful terminal state.
	StatusReceived OrderStatus = "RECEIVED"

	// StatusCancel is the unsuccessful terminal state, reachable from
	// CONFIRM or DELIVERING.
	StatusCancel OrderStatus = "CANCEL"
)

// orderTransitions holds the legal next states per current state.
// RECEIVED and CANCEL are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusConfirm:    {StatusDelivering, StatusCancel},
	StatusDelivering: {StatusReceived, StatusCancel},
	StatusReceived:   nil,
	StatusCancel:     nil,
}

// ParseOrderStatus converts a wire or database value into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	switch OrderStatus(value) {
	case StatusConfirm, StatusDelivering, StatusReceived, StatusCancel:
		return OrderStatus(value), nil
	default:
		return "", fmt.Errorf("unknown order status %q", value)
	}
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, candidate := range orderTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status accepts no further transitions.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

// Order is the fulfillment record created when a customer accepts a bid.
// It exists only as a side effect of that acceptance and is advanced solely
// by the shipper behind the accepted auction.
type Order struct {
	// ID is the unique identifier of the order.
	ID int `json:"id" db:"id"`

	// AuctionID references the accepted auction. Exactly one order exists
	// per accepted auction.
	AuctionID int `json:"auction" db:"auction_id"`

	// ShipperID identifies the fulfilling shipper, derived from the
	// accepted auction's bidder.
	ShipperID int `json:"shipper" db:"shipper_id"`

	// CustomerID identifies the customer who owns the underlying post.
	CustomerID int `json:"customer" db:"customer_id"`

	// Status is the current state in the order state machine.
	Status OrderStatus `json:"status_order" db:"status_order"`

	// Active marks whether the order is visible.
	Active bool `json:"active" db:"active"`

	// CreatedAt is the timestamp when the order was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent status change.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
