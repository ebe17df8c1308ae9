package types

import "time"

// Auction is a shipper's priced bid against a post.
// At most one auction per post may ever be accepted; accepting it creates
// the order that the bidding shipper fulfills.
type Auction struct {
	// ID is the unique identifier of the auction.
	ID int `json:"id" db:"id"`

	// Content is the shipper's pitch for the job.
	Content string `json:"content" db:"content"`

	// Price is the bid amount, in the smallest currency unit.
	Price int64 `json:"price" db:"price"`

	// HadAccept marks the single chosen bid for the post. Set exactly once,
	// by the post's owning customer, through the accept operation.
	HadAccept bool `json:"had_accept" db:"had_accept"`

	// PostID identifies the post the bid targets.
	PostID int `json:"post" db:"post_id"`

	// ShipperID identifies the bidding shipper.
	ShipperID int `json:"delivery" db:"shipper_id"`

	// Active marks whether the bid is standing. A shipper withdraws a bid
	// by clearing it rather than deleting the row.
	Active bool `json:"active" db:"active"`

	// CreatedAt is the timestamp when the bid was placed.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the bid.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
