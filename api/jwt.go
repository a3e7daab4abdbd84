package api

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/NeonGeckoCom/neon-data-models/enums"
	"github.com/NeonGeckoCom/neon-data-models/schema"
)

// JWT is the claim set of a platform session token. Roles use the
// `"<name> <AccessRole>"` format defined by PermissionsConfig.
type JWT struct {
	Issuer  *string
	Subject *string
	// Expiration and IssuedAt are epoch seconds.
	Expiration *int64
	IssuedAt   *int64
	// TokenID is generated when absent from the input.
	TokenID  string
	ClientID *string
	Roles    []string
}

// ParseJWT validates and coerces a raw claim mapping.
func ParseJWT(raw map[string]any) (*JWT, error) {
	d := schema.NewDecoder(raw)
	t := decodeJWT(d)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &t, nil
}

func decodeJWT(d *schema.Decoder) JWT {
	t := JWT{
		Issuer:     d.StringPtr("iss"),
		Subject:    d.StringPtr("sub"),
		Expiration: d.EpochPtr("exp"),
		IssuedAt:   d.EpochPtr("iat"),
		TokenID:    d.StringDefault("jti", ""),
		ClientID:   d.StringPtr("client_id"),
		Roles:      d.StringSliceDefault("roles", nil),
	}
	if t.TokenID == "" {
		t.TokenID = uuid.NewString()
	}
	return t
}

// Dump serializes the claim set using registered claim names.
func (t JWT) Dump() map[string]any {
	var roles any
	if t.Roles != nil {
		roles = append([]string(nil), t.Roles...)
	}
	return map[string]any{
		"iss":       ptrValue(t.Issuer),
		"sub":       ptrValue(t.Subject),
		"exp":       ptrValue(t.Expiration),
		"iat":       ptrValue(t.IssuedAt),
		"jti":       t.TokenID,
		"client_id": ptrValue(t.ClientID),
		"roles":     roles,
	}
}

// HanaToken is the HANA service's session token. It accepts legacy
// keyword aliases (`username` for the subject, `expire` for the
// expiration) and can derive its roles list from a raw permissions
// mapping when one is supplied instead of pre-formatted roles.
type HanaToken struct {
	JWT
	// Purpose is "access" or "refresh".
	Purpose string
}

// ParseHanaToken validates and coerces a raw claim mapping.
func ParseHanaToken(raw map[string]any) (*HanaToken, error) {
	d := schema.NewDecoder(raw)
	t := HanaToken{
		Purpose: d.StringChoice("purpose", "access", []string{"access", "refresh"}),
	}
	t.Subject = d.StringPtr("sub", "username")
	t.Expiration = d.EpochPtr("exp", "expire")
	t.Issuer = d.StringPtr("iss")
	t.IssuedAt = d.EpochPtr("iat")
	t.TokenID = d.StringDefault("jti", "")
	if t.TokenID == "" {
		t.TokenID = uuid.NewString()
	}
	t.ClientID = d.StringPtr("client_id")
	t.Roles = d.StringSliceDefault("roles", nil)

	// A raw permissions mapping from the legacy HANA config grants guest
	// access to core and backend services and user access for the node,
	// overriding any supplied roles list.
	if perms, ok := d.Sub("permissions"); ok {
		core, diana, node := enums.RoleNone, enums.RoleNone, enums.RoleNone
		if truthy(perms["assist"]) {
			core = enums.RoleGuest
		}
		if truthy(perms["backend"]) {
			diana = enums.RoleGuest
		}
		if truthy(perms["node"]) {
			node = enums.RoleUser
		}
		t.Roles = []string{
			fmt.Sprintf("core %d", int(core)),
			fmt.Sprintf("diana %d", int(diana)),
			fmt.Sprintf("node %d", int(node)),
		}
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Dump serializes the claim set using registered claim names; the legacy
// aliases are never emitted.
func (t HanaToken) Dump() map[string]any {
	out := t.JWT.Dump()
	out["purpose"] = t.Purpose
	return out
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case nil:
		return false
	}
	return true
}

// Sign encodes the claim set as an HS256-signed compact token. Unset
// claims are omitted rather than emitted as nulls, which registered-claim
// validation would reject on the way back in.
func Sign(claims interface{ Dump() map[string]any }, secret []byte) (string, error) {
	mapClaims := jwt.MapClaims{}
	for k, v := range claims.Dump() {
		if v != nil {
			mapClaims[k] = v
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseSigned verifies an HS256-signed compact token and returns its raw
// claim mapping, suitable for ParseJWT or ParseHanaToken.
func ParseSigned(tokenString string, secret []byte) (map[string]any, error) {
	token, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("parse token: unexpected claims type %T", token.Claims)
	}
	return map[string]any(claims), nil
}

func ptrValue[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
