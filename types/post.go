package types

import "time"

// Post represents a delivery job posted by a customer.
// Shippers bid on a post via auctions; accepting one bid spawns an order.
type Post struct {
	// ID is the unique identifier of the post.
	ID int `json:"id" db:"id"`

	// ProductName names the goods to deliver. The post listing supports
	// substring search on it.
	ProductName string `json:"product_name" db:"product_name"`

	// ProductImgURL is the public URL of the product image in object
	// storage, empty when none was uploaded.
	ProductImgURL string `json:"product_img" db:"product_img_url"`

	// FromAddress is the pickup address.
	FromAddress string `json:"from_address" db:"from_address"`

	// ToAddress is the drop-off address.
	ToAddress string `json:"to_address" db:"to_address"`

	// Description holds free-form details about the job.
	Description string `json:"description" db:"description"`

	// DiscountID optionally applies an admin-owned discount to the post.
	DiscountID *int `json:"discount" db:"discount_id"`

	// CustomerID identifies the owning customer. Only that customer may
	// update the post.
	CustomerID int `json:"customer" db:"customer_id"`

	// Active marks whether the post is visible. Soft-delete flag; posts
	// are never physically deleted.
	Active bool `json:"active" db:"active"`

	// CreatedAt is the timestamp when the post was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the post.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Discount is a percentage reduction an admin can attach to posts.
type Discount struct {
	// ID is the unique identifier of the discount.
	ID int `json:"id" db:"id"`

	// Title is the human-readable name of the discount.
	Title string `json:"discount_title" db:"title"`

	// Percent is the reduction applied, expressed as a whole percentage.
	Percent int `json:"discount_percent" db:"percent"`

	// AdminID identifies the owning admin. Only that admin may update the
	// discount.
	AdminID int `json:"admin" db:"admin_id"`

	// Active marks whether the discount is usable.
	Active bool `json:"active" db:"active"`

	// CreatedAt is the timestamp when the discount was created.
	CreatedAt time.Time `json:"created_date" db:"created_at"`
}
