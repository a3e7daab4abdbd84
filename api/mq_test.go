package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeonGeckoCom/neon-data-models/errors"
)

func TestCreateUserRequest(t *testing.T) {
	valid := map[string]any{
		"message_id": "test_id",
		"operation":  "create",
		"user":       map[string]any{"username": "test_user"},
	}
	r, err := ParseCreateUserRequest(valid)
	require.NoError(t, err)
	assert.Equal(t, "test_user", r.User.Username)

	generic, err := ParseUserDBRequest(valid)
	require.NoError(t, err)
	create, ok := generic.(*CreateUserRequest)
	require.True(t, ok)
	assert.Equal(t, r.User.Username, create.User.Username)

	// Lookup-style fields are forbidden on create.
	_, err = ParseUserDBRequest(map[string]any{
		"message_id": "test0", "operation": "create", "username": "test",
	})
	assert.True(t, errors.IsForbiddenField(err))
}

func TestReadUserRequest(t *testing.T) {
	valid := map[string]any{
		"message_id": "test_id",
		"operation":  "read",
		"user_spec":  "test_user",
	}
	r, err := ParseReadUserRequest(valid)
	require.NoError(t, err)
	assert.Equal(t, "test_user", r.UserSpec)

	generic, err := ParseUserDBRequest(valid)
	require.NoError(t, err)
	read, ok := generic.(*ReadUserRequest)
	require.True(t, ok)
	assert.Equal(t, r.UserSpec, read.UserSpec)

	// A full user payload is forbidden on read.
	_, err = ParseUserDBRequest(map[string]any{
		"message_id": "test0", "operation": "read",
		"user": map[string]any{"username": "test"},
	})
	assert.True(t, errors.IsForbiddenField(err))
}

func TestUpdateUserRequestExplicitAuth(t *testing.T) {
	r, err := ParseUpdateUserRequest(map[string]any{
		"message_id":    "test_id",
		"operation":     "update",
		"auth_password": "test_password",
		"user":          map[string]any{"username": "test_user"},
	})
	require.NoError(t, err)
	// Username derives from the record when only the password is explicit.
	assert.Equal(t, "test_user", r.AuthUsername)
	assert.Equal(t, "test_password", r.AuthPassword)
}

func TestUpdateUserRequestDerivedAuth(t *testing.T) {
	r, err := ParseUpdateUserRequest(map[string]any{
		"message_id": "test_id",
		"operation":  "update",
		"user": map[string]any{
			"username":      "user",
			"password_hash": "password",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "user", r.AuthUsername)
	assert.Equal(t, "password", r.AuthPassword)
}

func TestUpdateUserRequestSeparateAuth(t *testing.T) {
	r, err := ParseUpdateUserRequest(map[string]any{
		"message_id":    "test_id",
		"operation":     "update",
		"auth_username": "admin",
		"auth_password": "admin_pass",
		"user": map[string]any{
			"username":      "user",
			"password_hash": "password",
		},
	})
	require.NoError(t, err)
	// Explicit credentials win over derivation.
	assert.Equal(t, "user", r.User.Username)
	assert.Equal(t, "admin", r.AuthUsername)
	assert.Equal(t, "admin_pass", r.AuthPassword)
}

func TestUpdateUserRequestUnderivablePassword(t *testing.T) {
	_, err := ParseUserDBRequest(map[string]any{
		"message_id": "test0",
		"operation":  "update",
		"user":       map[string]any{"username": "test_user"},
	})
	assert.True(t, errors.IsMissingField(err))
}

func TestDeleteUserRequest(t *testing.T) {
	valid := map[string]any{
		"message_id": "test_id",
		"operation":  "delete",
		"user":       map[string]any{"username": "test_user"},
	}
	r, err := ParseDeleteUserRequest(valid)
	require.NoError(t, err)
	assert.Equal(t, "test_user", r.User.Username)

	generic, err := ParseUserDBRequest(valid)
	require.NoError(t, err)
	del, ok := generic.(*DeleteUserRequest)
	require.True(t, ok)
	assert.Equal(t, r.User.Username, del.User.Username)

	_, err = ParseUserDBRequest(map[string]any{
		"message_id": "test0", "operation": "delete", "username": "test_user",
	})
	assert.True(t, errors.IsForbiddenField(err))
}

func TestUserDBRequestDispatchErrors(t *testing.T) {
	_, err := ParseUserDBRequest(map[string]any{"message_id": "test0"})
	assert.True(t, errors.IsMissingField(err))

	_, err = ParseUserDBRequest(map[string]any{
		"message_id": "test0", "operation": "upsert",
	})
	assert.True(t, errors.IsUnknownOperation(err))

	// An explicit wrong discriminator on a concrete variant is rejected.
	_, err = ParseReadUserRequest(map[string]any{
		"message_id": "test0", "operation": "create", "user_spec": "u",
	})
	assert.True(t, errors.IsTypeMismatch(err))
}

func TestUserDBRequestDump(t *testing.T) {
	r, err := ParseReadUserRequest(map[string]any{
		"message_id": "test_id", "user_spec": "u1",
	})
	require.NoError(t, err)

	dump := r.Dump()
	assert.Equal(t, "read", dump["operation"])
	assert.Equal(t, "test_id", dump["message_id"])
	assert.Equal(t, "u1", dump["user_spec"])

	again, err := ParseUserDBRequest(dump)
	require.NoError(t, err)
	assert.Equal(t, r, again)
}
