package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeonGeckoCom/neon-data-models/errors"
)

func TestNodeDataDefaults(t *testing.T) {
	n := NewNodeData()
	assert.NotEmpty(t, n.DeviceID)
	assert.Nil(t, n.Networking.LocalIP)
	assert.Nil(t, n.Location.Latitude)

	// A record loads its own serialized output.
	again, err := ParseNodeData(n.Dump())
	require.NoError(t, err)
	assert.Equal(t, *n, *again)
}

func TestNodeDataGeneratedID(t *testing.T) {
	a := NewNodeData()
	b := NewNodeData()
	assert.NotEqual(t, a.DeviceID, b.DeviceID)

	n, err := ParseNodeData(map[string]any{"device_id": "fixed-id"})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", n.DeviceID)
}

func TestNodeDataFlatLocationCompat(t *testing.T) {
	n, err := ParseNodeData(map[string]any{
		"networking": map[string]any{"local_ip": "10.0.0.2"},
		"location":   map[string]any{"lat": 42.0, "lon": -71.0},
	})
	require.NoError(t, err)
	require.NotNil(t, n.Networking.LocalIP)
	assert.Equal(t, "10.0.0.2", *n.Networking.LocalIP)

	require.NotNil(t, n.Location.Latitude)
	require.NotNil(t, n.Location.Longitude)
	assert.InDelta(t, 42.0, *n.Location.Latitude, 1e-9)
	assert.InDelta(t, -71.0, *n.Location.Longitude, 1e-9)

	// The upgraded record still loads its own structured dump.
	again, err := ParseNodeData(n.Dump())
	require.NoError(t, err)
	assert.Equal(t, *n, *again)
}

func TestNodeDataInvalidSection(t *testing.T) {
	_, err := ParseNodeData(map[string]any{"networking": "not-a-map"})
	assert.True(t, errors.IsTypeMismatch(err))

	_, err = ParseNodeData(map[string]any{
		"location": map[string]any{"latitude": "north"},
	})
	assert.True(t, errors.IsTypeMismatch(err))
}
