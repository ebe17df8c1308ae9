package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/shipbid/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv()

	recorder := env.do(jsonRequest(t, http.MethodPost, "/users", "", map[string]any{
		"username": "alice",
		"email":    "alice@example.com",
		"name":     "Alice",
		"password": "s3cret",
		"role":     "CUSTOMER",
	}))
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	created := decodeBody[types.User](t, recorder)
	assert.Equal(t, types.RoleCustomer, created.Role)
	assert.NotContains(t, recorder.Body.String(), "password", "hash must never serialize")

	stored := env.store.users[created.ID]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret")))

	recorder = env.do(jsonRequest(t, http.MethodPost, "/auth/login", "", map[string]any{
		"username": "alice",
		"password": "s3cret",
	}))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	auth := decodeBody[AuthResponse](t, recorder)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, created.ID, auth.User.ID)

	recorder = env.do(jsonRequest(t, http.MethodPost, "/auth/login", "", map[string]any{
		"username": "alice",
		"password": "wrong",
	}))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv()

	// Unknown role.
	recorder := env.do(jsonRequest(t, http.MethodPost, "/users", "", map[string]any{
		"username": "bob", "email": "b@example.com", "name": "Bob",
		"password": "pw", "role": "SUPERUSER",
	}))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// Missing fields.
	recorder = env.do(jsonRequest(t, http.MethodPost, "/users", "", map[string]any{
		"username": "bob", "role": "SHIPPER",
	}))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv()
	env.seedUser("alice", types.RoleCustomer)

	recorder := env.do(jsonRequest(t, http.MethodPost, "/users", "", map[string]any{
		"username": "alice", "email": "a2@example.com", "name": "Alice Two",
		"password": "pw", "role": "SHIPPER",
	}))
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestCurrentUser(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser("alice", types.RoleCustomer)

	recorder := env.do(jsonRequest(t, http.MethodGet, "/users/current-user", env.token(user), nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, user.ID, decodeBody[types.User](t, recorder).ID)

	recorder = env.do(jsonRequest(t, http.MethodGet, "/users/current-user", "", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestUpdateUserSelfOnly(t *testing.T) {
	env := newTestEnv()
	alice := env.seedUser("alice", types.RoleCustomer)
	bob := env.seedUser("bob", types.RoleShipper)

	// Self-update works and re-hashes the password.
	recorder := env.do(jsonRequest(t, http.MethodPatch, "/users/"+itoa(alice.ID), env.token(alice),
		map[string]any{"name": "Alice Cooper", "password": "newpw"}))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Equal(t, "Alice Cooper", decodeBody[types.User](t, recorder).Name)

	stored := env.store.users[alice.ID]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpw")))

	// Updating someone else is forbidden with an empty body.
	recorder = env.do(jsonRequest(t, http.MethodPatch, "/users/"+itoa(bob.ID), env.token(alice),
		map[string]any{"name": "Hijacked"}))
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Empty(t, recorder.Body.String())
	assert.Equal(t, "bob", env.store.users[bob.ID].Name)
}

func TestUpdateCurrentUserKeepsRole(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser("alice", types.RoleCustomer)

	recorder := env.do(jsonRequest(t, http.MethodPut, "/users/current-user", env.token(user),
		map[string]any{"email": "new@example.com"}))
	require.Equal(t, http.StatusOK, recorder.Code)

	updated := decodeBody[types.User](t, recorder)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, types.RoleCustomer, updated.Role)
	assert.Equal(t, types.RoleCustomer, env.store.users[user.ID].Role)
}

func TestListUsersRequiresAuth(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser("alice", types.RoleCustomer)

	recorder := env.do(jsonRequest(t, http.MethodGet, "/users", "", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = env.do(jsonRequest(t, http.MethodGet, "/users", env.token(user), nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	users := decodeBody[[]types.User](t, recorder)
	require.Len(t, users, 1)
	assert.False(t, strings.Contains(recorder.Body.String(), "password_hash"))
}
