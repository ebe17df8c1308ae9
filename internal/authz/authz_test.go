package authz

import (
	"testing"

	"github.com/shipbid/apiserver/types"
	"github.com/stretchr/testify/assert"
)

func TestRoleGates(t *testing.T) {
	admin := types.User{ID: 1, Role: types.RoleAdmin}
	shipper := types.User{ID: 2, Role: types.RoleShipper}
	customer := types.User{ID: 3, Role: types.RoleCustomer}

	assert.True(t, CanCreatePost(customer))
	assert.False(t, CanCreatePost(shipper))
	assert.False(t, CanCreatePost(admin))

	assert.True(t, CanBid(shipper))
	assert.False(t, CanBid(customer))
	assert.False(t, CanBid(admin))

	assert.True(t, CanCreateDiscount(admin))
	assert.False(t, CanCreateDiscount(shipper))
	assert.False(t, CanCreateDiscount(customer))

	assert.True(t, CanLeaveFeedback(customer))
	assert.False(t, CanLeaveFeedback(shipper))
	assert.False(t, CanLeaveFeedback(admin))

	assert.True(t, CanVerifyShipper(admin))
	assert.False(t, CanVerifyShipper(shipper))
	assert.False(t, CanVerifyShipper(customer))
}

func TestOwnershipGates(t *testing.T) {
	owner := types.Customer{ID: 10}
	stranger := types.Customer{ID: 11}
	nobody := types.Customer{}

	post := types.Post{ID: 1, CustomerID: 10}
	assert.True(t, CanUpdatePost(owner, post))
	assert.False(t, CanUpdatePost(stranger, post))
	assert.False(t, CanUpdatePost(nobody, post))

	assert.True(t, CanAcceptAuction(owner, post))
	assert.False(t, CanAcceptAuction(stranger, post))
	assert.False(t, CanAcceptAuction(nobody, post))

	comment := types.Comment{ID: 5, CustomerID: 10}
	assert.True(t, CanUpdateComment(owner, comment))
	assert.False(t, CanUpdateComment(stranger, comment))
	assert.False(t, CanUpdateComment(nobody, comment))

	discount := types.Discount{ID: 7, AdminID: 4}
	assert.True(t, CanUpdateDiscount(types.Admin{ID: 4}, discount))
	assert.False(t, CanUpdateDiscount(types.Admin{ID: 5}, discount))
	assert.False(t, CanUpdateDiscount(types.Admin{}, discount))
}

func TestOrderGates(t *testing.T) {
	order := types.Order{ID: 1, ShipperID: 20, CustomerID: 10}

	assert.True(t, CanAdvanceOrder(types.Shipper{ID: 20}, order))
	assert.False(t, CanAdvanceOrder(types.Shipper{ID: 21}, order))
	assert.False(t, CanAdvanceOrder(types.Shipper{}, order))

	assert.True(t, CanViewOrder(types.Shipper{ID: 20}, types.Customer{}, order))
	assert.True(t, CanViewOrder(types.Shipper{}, types.Customer{ID: 10}, order))
	assert.False(t, CanViewOrder(types.Shipper{ID: 21}, types.Customer{ID: 11}, order))
	assert.False(t, CanViewOrder(types.Shipper{}, types.Customer{}, order))
}

func TestShipperProfileGates(t *testing.T) {
	shipperUser := types.User{ID: 2, Role: types.RoleShipper}
	otherShipperUser := types.User{ID: 3, Role: types.RoleShipper}
	adminUser := types.User{ID: 1, Role: types.RoleAdmin}

	profile := types.Shipper{ID: 20, UserID: 2}
	assert.True(t, CanUpdateShipper(shipperUser, profile))
	assert.False(t, CanUpdateShipper(otherShipperUser, profile))
	assert.False(t, CanUpdateShipper(adminUser, profile))
}

func TestUserGates(t *testing.T) {
	user := types.User{ID: 5, Role: types.RoleCustomer}
	assert.True(t, CanUpdateUser(user, types.User{ID: 5}))
	assert.False(t, CanUpdateUser(user, types.User{ID: 6}))
	assert.False(t, CanUpdateUser(types.User{}, types.User{}))
}
