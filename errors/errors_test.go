package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldErrorMessage(t *testing.T) {
	err := NewTypeMismatch("units.time", "one of 12, 24", "12")
	assert.Contains(t, err.Error(), "units.time")
	assert.Contains(t, err.Error(), "type mismatch")
	assert.Contains(t, err.Error(), "12, 24")

	err = NewMissingField("context")
	assert.Equal(t, "context: missing required field", err.Error())
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsMissingField(NewMissingField("a")))
	assert.True(t, IsTypeMismatch(NewTypeMismatch("a", "string", 1)))
	assert.True(t, IsInvalidRole(NewInvalidRole("roles", "core WIZARD")))
	assert.True(t, IsMalformedRole(NewMalformedRole("roles", "coreADMIN")))
	assert.True(t, IsUnknownOperation(NewUnknownOperation("upsert")))
	assert.True(t, IsUnknownMessageType(NewUnknownMessageType("neon.nope")))
	assert.True(t, IsForbiddenField(NewForbiddenField("username", "x")))

	// Kinds do not cross-match.
	assert.False(t, IsTypeMismatch(NewMissingField("a")))
	assert.False(t, IsMissingField(NewForbiddenField("a", 1)))
}

func TestPredicatesThroughJoin(t *testing.T) {
	joined := Join(NewMissingField("username"), NewTypeMismatch("time", "integer", "x"))
	assert.True(t, IsMissingField(joined))
	assert.True(t, IsTypeMismatch(joined))
	assert.False(t, IsForbiddenField(joined))
}

func TestWithPrefix(t *testing.T) {
	err := WithPrefix(NewMissingField("lang"), "data")
	var fe *FieldError
	require.True(t, As(err, &fe))
	assert.Equal(t, "data.lang", fe.Field)
	assert.True(t, IsMissingField(err))

	// A bare-path error adopts the prefix as its path.
	err = WithPrefix(NewMissingField(""), "permissions")
	require.True(t, As(err, &fe))
	assert.Equal(t, "permissions", fe.Field)
}

func TestWithPrefixJoined(t *testing.T) {
	joined := Join(NewMissingField("cid"), NewMissingField("sid"))
	err := WithPrefix(joined, "context.klat_data")
	require.Error(t, err)
	assert.True(t, IsMissingField(err))
	assert.Contains(t, err.Error(), "context.klat_data.cid")
	assert.Contains(t, err.Error(), "context.klat_data.sid")
}

func TestJoinNil(t *testing.T) {
	assert.NoError(t, Join())
	assert.NoError(t, Join(nil, nil))
	assert.Error(t, Join(nil, NewMissingField("x")))
}
