// Package authz holds the authorization decisions for every mutating
// operation: role gates comparing the acting user's role against the role
// an operation demands, and ownership gates comparing the acting profile
// against the target entity's owner field. The functions are pure so they
// can be tested without HTTP or a database; handlers translate a false
// decision into a 403 and never attempt the mutation.
package authz

import "github.com/shipbid/apiserver/types"

// CanCreatePost permits only customers to post delivery jobs.
func CanCreatePost(user types.User) bool {
	return user.Role == types.RoleCustomer
}

// CanBid permits only shippers to place auctions.
func CanBid(user types.User) bool {
	return user.Role == types.RoleShipper
}

// CanCreateDiscount permits only admins to create discounts.
func CanCreateDiscount(user types.User) bool {
	return user.Role == types.RoleAdmin
}

// CanLeaveFeedback permits only customers to comment on or rate shippers.
func CanLeaveFeedback(user types.User) bool {
	return user.Role == types.RoleCustomer
}

// CanUpdatePost permits only the owning customer to change a post.
func CanUpdatePost(customer types.Customer, post types.Post) bool {
	return customer.ID != 0 && customer.ID == post.CustomerID
}

// CanAcceptAuction permits only the customer owning the auctioned post to
// accept or withdraw a bid.
func CanAcceptAuction(customer types.Customer, post types.Post) bool {
	return customer.ID != 0 && customer.ID == post.CustomerID
}

// CanUpdateDiscount permits only the owning admin to change a discount.
func CanUpdateDiscount(admin types.Admin, discount types.Discount) bool {
	return admin.ID != 0 && admin.ID == discount.AdminID
}

// CanUpdateComment permits only the authoring customer to edit a comment.
func CanUpdateComment(customer types.Customer, comment types.Comment) bool {
	return customer.ID != 0 && customer.ID == comment.CustomerID
}

// CanAdvanceOrder permits only the shipper behind the accepted auction to
// move the order through its state machine.
func CanAdvanceOrder(shipper types.Shipper, order types.Order) bool {
	return shipper.ID != 0 && shipper.ID == order.ShipperID
}

// CanViewOrder permits the two parties to an order to read it.
func CanViewOrder(shipper types.Shipper, customer types.Customer, order types.Order) bool {
	return CanAdvanceOrder(shipper, order) ||
		(customer.ID != 0 && customer.ID == order.CustomerID)
}

// CanUpdateShipper permits the owning shipper to edit their profile.
// The verified flag is excluded: see CanVerifyShipper.
func CanUpdateShipper(user types.User, shipper types.Shipper) bool {
	return user.Role == types.RoleShipper && user.ID == shipper.UserID
}

// CanVerifyShipper permits only admins to flip a shipper's verified flag.
func CanVerifyShipper(user types.User) bool {
	return user.Role == types.RoleAdmin
}

// CanUpdateUser permits self-service account updates only.
func CanUpdateUser(user types.User, target types.User) bool {
	return user.ID != 0 && user.ID == target.ID
}
