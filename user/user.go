package user

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/NeonGeckoCom/neon-data-models/schema"
)

// User is the canonical identity record exchanged between platform
// services. Uniqueness of usernames and referential integrity are the
// responsibility of the store that persists these records.
type User struct {
	Username string
	// PasswordHash is opaque to this layer; see HashPassword for the
	// helper account services use to populate it.
	PasswordHash *string
	// UserID is generated when absent from the input.
	UserID string
	// CreatedTimestamp is epoch seconds, defaulted to the creation time.
	CreatedTimestamp int64
	Neon             NeonUserConfig
	Klat             KlatConfig
	LLM              BrainForgeConfig
	Permissions      PermissionsConfig
	Tokens           []TokenConfig
	// Extra holds unrecognized top-level fields when the active policy
	// retains them; nil otherwise.
	Extra map[string]any
}

// ParseUser validates and coerces a raw mapping using the process-wide
// extra-field policy.
func ParseUser(raw map[string]any) (*User, error) {
	return ParseUserWithPolicy(raw, schema.DefaultPolicy())
}

// ParseUserWithPolicy validates and coerces a raw mapping with an explicit
// extra-field policy. Nested sections drop unknown keys regardless of the
// policy.
func ParseUserWithPolicy(raw map[string]any, policy schema.Policy) (*User, error) {
	d := schema.NewDecoder(raw)
	u := DecodeUser(d)
	u.Extra = d.ExtrasIf(policy)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &u, nil
}

// DecodeUser reads a user record from an existing decoder. Unknown keys are
// left unconsumed for the caller's policy to resolve.
func DecodeUser(d *schema.Decoder) User {
	neonD, _ := d.ChildOrEmpty("neon")
	klatD, _ := d.ChildOrEmpty("klat")
	llmD, _ := d.ChildOrEmpty("llm")
	permsD, _ := d.ChildOrEmpty("permissions")

	u := User{
		Username:         d.String("username"),
		PasswordHash:     d.StringPtr("password_hash"),
		UserID:           d.StringDefault("user_id", ""),
		CreatedTimestamp: d.EpochDefault("created_timestamp", schema.EpochNow()),
		Neon:             DecodeNeonUserConfig(neonD),
		Klat:             decodeKlatConfig(klatD),
		LLM:              decodeBrainForgeConfig(llmD),
		Permissions:      DecodePermissionsConfig(permsD),
		Tokens:           []TokenConfig{},
	}
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	if tokens, ok := d.ChildList("tokens"); ok {
		for _, tokenD := range tokens {
			u.Tokens = append(u.Tokens, DecodeTokenConfig(tokenD))
		}
	}
	return u
}

// Dump serializes the record using canonical field names. Retained extra
// fields are re-emitted verbatim.
func (u *User) Dump() map[string]any {
	tokens := make([]any, 0, len(u.Tokens))
	for _, t := range u.Tokens {
		tokens = append(tokens, t.Dump())
	}
	out := map[string]any{
		"username":          u.Username,
		"password_hash":     ptrValue(u.PasswordHash),
		"user_id":           u.UserID,
		"created_timestamp": u.CreatedTimestamp,
		"neon":              u.Neon.Dump(),
		"klat":              u.Klat.Dump(),
		"llm":               u.LLM.Dump(),
		"permissions":       u.Permissions.Dump(),
		"tokens":            tokens,
	}
	for k, v := range u.Extra {
		out[k] = v
	}
	return out
}

// Equal reports full structural equality of the serialized forms. Two
// freshly-created users with identical input are not equal when any
// generated field (user id, created timestamp) differs.
func (u *User) Equal(other *User) bool {
	if u == nil || other == nil {
		return u == other
	}
	return reflect.DeepEqual(u.Dump(), other.Dump())
}
