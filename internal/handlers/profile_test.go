package handlers

import (
	"net/http"
	"testing"

	"github.com/shipbid/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomerProfile(t *testing.T) {
	env := newTestEnv()
	customerUser := env.seedUser("alice", types.RoleCustomer)
	shipperUser := env.seedUser("bob", types.RoleShipper)

	recorder := env.do(multipartRequest(t, "/customers", env.token(customerUser), nil))
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	created := decodeBody[types.Customer](t, recorder)
	assert.Equal(t, customerUser.ID, created.UserID)

	// One profile per user.
	recorder = env.do(multipartRequest(t, "/customers", env.token(customerUser), nil))
	assert.Equal(t, http.StatusConflict, recorder.Code)

	// Role must match the profile kind.
	recorder = env.do(multipartRequest(t, "/customers", env.token(shipperUser), nil))
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Empty(t, recorder.Body.String())
}

func TestCreateShipperProfile(t *testing.T) {
	env := newTestEnv()
	shipperUser := env.seedUser("bob", types.RoleShipper)

	recorder := env.do(multipartRequest(t, "/shippers", env.token(shipperUser), map[string]string{
		"cmnd": "0123456789",
	}))
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	created := decodeBody[types.Shipper](t, recorder)
	assert.Equal(t, shipperUser.ID, created.UserID)
	assert.Equal(t, -1, created.Rate)
	assert.False(t, created.Verified, "verification is never self-service")

	// The identity number is required.
	env2 := newTestEnv()
	user2 := env2.seedUser("dan", types.RoleShipper)
	recorder = env2.do(multipartRequest(t, "/shippers", env2.token(user2), nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestListProfilesByUser(t *testing.T) {
	env := newTestEnv()
	customerUser := env.seedUser("alice", types.RoleCustomer)
	customer := env.seedCustomerProfile(customerUser)
	otherUser := env.seedUser("carol", types.RoleCustomer)
	env.seedCustomerProfile(otherUser)

	recorder := env.do(jsonRequest(t, http.MethodGet, "/customers?userid="+itoa(customerUser.ID), "", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	customers := decodeBody[[]types.Customer](t, recorder)
	require.Len(t, customers, 1)
	assert.Equal(t, customer.ID, customers[0].ID)

	recorder = env.do(jsonRequest(t, http.MethodGet, "/customers", "", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, decodeBody[[]types.Customer](t, recorder), 2)
}
