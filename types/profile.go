package types

import "time"

// Shipper is the role profile for users holding RoleShipper.
// Shippers place auctions against posts and fulfill the resulting orders.
type Shipper struct {
	// ID is the unique identifier of the shipper profile.
	ID int `json:"id" db:"id"`

	// UserID links the profile to its user account. Exactly one profile
	// exists per user.
	UserID int `json:"user_id" db:"user_id"`

	// AvatarURL is the public URL of the shipper's avatar in object
	// storage, empty when none was uploaded.
	AvatarURL string `json:"avatar" db:"avatar_url"`

	// CMND is the shipper's national identity number, searchable by
	// substring on the shipper listing.
	CMND string `json:"cmnd" db:"cmnd"`

	// Verified marks whether an admin has verified the shipper's identity
	// papers. Only admins may change it.
	Verified bool `json:"verified" db:"verified"`

	// Rate is the rating the requesting customer gave this shipper,
	// or -1 when the viewer has not rated them. Computed per request,
	// never stored on this row.
	Rate int `json:"rate" db:"-"`

	// Active marks whether the profile is visible. Soft-delete flag.
	Active bool `json:"active" db:"active"`

	// CreatedAt is the timestamp when the profile was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the profile.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Customer is the role profile for users holding RoleCustomer.
type Customer struct {
	// ID is the unique identifier of the customer profile.
	ID int `json:"id" db:"id"`

	// UserID links the profile to its user account.
	UserID int `json:"user_id" db:"user_id"`

	// AvatarURL is the public URL of the customer's avatar, empty when
	// none was uploaded.
	AvatarURL string `json:"avatar" db:"avatar_url"`

	// Active marks whether the profile is visible.
	Active bool `json:"active" db:"active"`

	// CreatedAt is the timestamp when the profile was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the profile.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Admin is the role profile for users holding RoleAdmin.
// Admins own discounts and verify shippers.
type Admin struct {
	// ID is the unique identifier of the admin profile.
	ID int `json:"id" db:"id"`

	// UserID links the profile to its user account.
	UserID int `json:"user_id" db:"user_id"`

	// AvatarURL is the public URL of the admin's avatar, empty when none
	// was uploaded.
	AvatarURL string `json:"avatar" db:"avatar_url"`

	// Active marks whether the profile is visible.
	Active bool `json:"active" db:"active"`

	// CreatedAt is the timestamp when the profile was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the profile.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
