package types

import (
	"fmt"
	"time"
)

// Role is the closed set of authorization roles a user can hold.
// A user's role is assigned at registration and never changes afterwards.
type Role string

// Supported roles.
const (
	// RoleAdmin manages discounts and verifies shippers.
	RoleAdmin Role = "ADMIN"

	// RoleShipper bids on posts and fulfills orders.
	RoleShipper Role = "SHIPPER"

	// RoleCustomer creates posts, accepts bids, and leaves feedback.
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole converts a wire or database value into a Role.
// It returns an error for anything outside the closed set.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleAdmin, RoleShipper, RoleCustomer:
		return Role(value), nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// User represents an authenticated principal in the system.
// Every user holds exactly one role and links 1:1 to a role-specific
// profile (Shipper, Customer, or Admin).
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username" db:"username"`

	// Email is the user's email address.
	Email string `json:"email" db:"email"`

	// Name is the user's display or full name.
	Name string `json:"name" db:"name"`

	// Role indicates the user's authorization role. Immutable after
	// creation.
	Role Role `json:"role" db:"role"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// Active marks whether the account is usable. Inactive users cannot
	// authenticate and are excluded from listings.
	Active bool `json:"active" db:"active"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
