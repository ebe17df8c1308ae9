package types

import "time"

// Comment is free-form feedback a customer leaves on a shipper.
// Comments are append-only; only the authoring customer may edit one.
type Comment struct {
	// ID is the unique identifier of the comment.
	ID int `json:"id" db:"id"`

	// Content is the comment text.
	Content string `json:"content" db:"content"`

	// ShipperID identifies the shipper the comment targets.
	ShipperID int `json:"shipper" db:"shipper_id"`

	// CustomerID identifies the authoring customer.
	CustomerID int `json:"creator" db:"customer_id"`

	// Active marks whether the comment is visible.
	Active bool `json:"active" db:"active"`

	// CreatedAt is the timestamp when the comment was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent edit.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Rating is a 1..5 score a customer gives a shipper. At most one rating
// exists per (customer, shipper) pair; rating again overwrites the value.
type Rating struct {
	// ID is the unique identifier of the rating.
	ID int `json:"id" db:"id"`

	// Rate is the score, between 1 and 5 inclusive.
	Rate int `json:"rate" db:"rate"`

	// ShipperID identifies the rated shipper.
	ShipperID int `json:"shipper" db:"shipper_id"`

	// CustomerID identifies the rating customer.
	CustomerID int `json:"creator" db:"customer_id"`

	// CreatedAt is the timestamp when the rating was first created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent re-rate.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
