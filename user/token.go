package user

import (
	"github.com/NeonGeckoCom/neon-data-models/errors"
	"github.com/NeonGeckoCom/neon-data-models/schema"
)

// TokenConfig is token metadata associated with a user record. It never
// carries the raw secret. The legacy JWT claim names `jti` and `sub` are
// accepted as input aliases for the token and user identifiers.
type TokenConfig struct {
	TokenName string
	// TokenID uniquely identifies the token (legacy alias: jti).
	TokenID string
	// UserID identifies the owning user (legacy alias: sub).
	UserID   string
	ClientID string
	// Permissions override the user-level permissions for requests
	// authenticated with this token.
	Permissions                PermissionsConfig
	RefreshExpirationTimestamp int64
	CreationTimestamp          int64
	LastRefreshTimestamp       int64
}

// ParseTokenConfig validates and coerces a raw mapping.
func ParseTokenConfig(raw map[string]any) (*TokenConfig, error) {
	d := schema.NewDecoder(raw)
	t := DecodeTokenConfig(d)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &t, nil
}

// DecodeTokenConfig reads token metadata from an existing decoder.
func DecodeTokenConfig(d *schema.Decoder) TokenConfig {
	permsD, ok := d.ChildOrEmpty("permissions")
	if !ok {
		d.Fail("permissions", errors.NewMissingField(""))
	}
	return TokenConfig{
		TokenName:                  d.String("token_name"),
		TokenID:                    d.String("token_id", "jti"),
		UserID:                     d.String("user_id", "sub"),
		ClientID:                   d.String("client_id"),
		Permissions:                DecodePermissionsConfig(permsD),
		RefreshExpirationTimestamp: d.Epoch("refresh_expiration_timestamp"),
		CreationTimestamp:          d.Epoch("creation_timestamp"),
		LastRefreshTimestamp:       d.Epoch("last_refresh_timestamp"),
	}
}

// Dump serializes the token metadata using canonical field names; the
// legacy claim aliases are never emitted.
func (t TokenConfig) Dump() map[string]any {
	return map[string]any{
		"token_name":                   t.TokenName,
		"token_id":                     t.TokenID,
		"user_id":                      t.UserID,
		"client_id":                    t.ClientID,
		"permissions":                  t.Permissions.Dump(),
		"refresh_expiration_timestamp": t.RefreshExpirationTimestamp,
		"creation_timestamp":           t.CreationTimestamp,
		"last_refresh_timestamp":       t.LastRefreshTimestamp,
	}
}
