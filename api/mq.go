// Package api defines the request and message families exchanged over the
// platform bus: user-database CRUD requests discriminated by operation,
// device/skill protocol messages discriminated by message type, and the
// JWT shapes used for session tokens.
package api

import (
	"github.com/NeonGeckoCom/neon-data-models/errors"
	"github.com/NeonGeckoCom/neon-data-models/schema"
	"github.com/NeonGeckoCom/neon-data-models/user"
)

// MQRequest carries the transport metadata common to every bus request.
type MQRequest struct {
	MessageID  string
	RoutingKey *string
}

func decodeMQRequest(d *schema.Decoder) MQRequest {
	return MQRequest{
		MessageID:  d.String("message_id"),
		RoutingKey: d.StringPtr("routing_key"),
	}
}

func (r MQRequest) dumpInto(out map[string]any) {
	out["message_id"] = r.MessageID
	if r.RoutingKey != nil {
		out["routing_key"] = *r.RoutingKey
	} else {
		out["routing_key"] = nil
	}
}

// UserDBRequest is implemented by the four user-database operation
// variants.
type UserDBRequest interface {
	// Operation returns the discriminator value of the variant.
	Operation() string
	// Dump serializes the request to a plain mapping.
	Dump() map[string]any
}

// CreateUserRequest adds a new user to the database. The full user payload
// is required; lookup-style fields are forbidden.
type CreateUserRequest struct {
	MQRequest
	User user.User
}

// ParseCreateUserRequest validates and coerces a raw mapping.
func ParseCreateUserRequest(raw map[string]any) (*CreateUserRequest, error) {
	d := schema.NewDecoder(raw)
	d.Discriminator("operation", "create")
	d.Forbid("username", "user_spec")
	r := CreateUserRequest{MQRequest: decodeMQRequest(d)}
	if userD, ok := d.Child("user"); ok {
		r.User = user.DecodeUser(userD)
	} else {
		d.Fail("user", errors.NewMissingField(""))
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Operation returns "create".
func (r CreateUserRequest) Operation() string { return "create" }

// Dump serializes the request using canonical field names.
func (r CreateUserRequest) Dump() map[string]any {
	out := map[string]any{
		"operation": r.Operation(),
		"user":      r.User.Dump(),
	}
	r.dumpInto(out)
	return out
}

// ReadUserRequest looks a user up by id or username. Only the lookup spec
// is accepted; a full user payload is forbidden.
type ReadUserRequest struct {
	MQRequest
	// UserSpec is a user id or username to resolve.
	UserSpec string
}

// ParseReadUserRequest validates and coerces a raw mapping.
func ParseReadUserRequest(raw map[string]any) (*ReadUserRequest, error) {
	d := schema.NewDecoder(raw)
	d.Discriminator("operation", "read")
	d.Forbid("user")
	r := ReadUserRequest{
		MQRequest: decodeMQRequest(d),
		UserSpec:  d.String("user_spec"),
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Operation returns "read".
func (r ReadUserRequest) Operation() string { return "read" }

// Dump serializes the request using canonical field names.
func (r ReadUserRequest) Dump() map[string]any {
	out := map[string]any{
		"operation": r.Operation(),
		"user_spec": r.UserSpec,
	}
	r.dumpInto(out)
	return out
}

// UpdateUserRequest replaces a stored user record. Authenticating
// credentials may be supplied separately; when omitted they are derived
// from the updated record's own username and password hash. A request
// whose password cannot be derived is invalid.
type UpdateUserRequest struct {
	MQRequest
	User         user.User
	AuthUsername string
	AuthPassword string
}

// ParseUpdateUserRequest validates and coerces a raw mapping.
func ParseUpdateUserRequest(raw map[string]any) (*UpdateUserRequest, error) {
	d := schema.NewDecoder(raw)
	d.Discriminator("operation", "update")
	r := UpdateUserRequest{MQRequest: decodeMQRequest(d)}
	if userD, ok := d.Child("user"); ok {
		r.User = user.DecodeUser(userD)
	} else {
		d.Fail("user", errors.NewMissingField(""))
	}
	r.AuthUsername = d.StringDefault("auth_username", "")
	if r.AuthUsername == "" {
		r.AuthUsername = r.User.Username
	}
	if pw := d.StringPtr("auth_password"); pw != nil {
		r.AuthPassword = *pw
	} else if r.User.PasswordHash != nil {
		r.AuthPassword = *r.User.PasswordHash
	} else {
		d.Fail("auth_password", errors.NewMissingField(""))
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Operation returns "update".
func (r UpdateUserRequest) Operation() string { return "update" }

// Dump serializes the request using canonical field names.
func (r UpdateUserRequest) Dump() map[string]any {
	out := map[string]any{
		"operation":     r.Operation(),
		"user":          r.User.Dump(),
		"auth_username": r.AuthUsername,
		"auth_password": r.AuthPassword,
	}
	r.dumpInto(out)
	return out
}

// DeleteUserRequest removes a user. The full record is required so the
// handler can verify the caller is deleting what it thinks it is; lookup
// fields are forbidden.
type DeleteUserRequest struct {
	MQRequest
	User user.User
}

// ParseDeleteUserRequest validates and coerces a raw mapping.
func ParseDeleteUserRequest(raw map[string]any) (*DeleteUserRequest, error) {
	d := schema.NewDecoder(raw)
	d.Discriminator("operation", "delete")
	d.Forbid("username", "user_spec")
	r := DeleteUserRequest{MQRequest: decodeMQRequest(d)}
	if userD, ok := d.Child("user"); ok {
		r.User = user.DecodeUser(userD)
	} else {
		d.Fail("user", errors.NewMissingField(""))
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Operation returns "delete".
func (r DeleteUserRequest) Operation() string { return "delete" }

// Dump serializes the request using canonical field names.
func (r DeleteUserRequest) Dump() map[string]any {
	out := map[string]any{
		"operation": r.Operation(),
		"user":      r.User.Dump(),
	}
	r.dumpInto(out)
	return out
}

// userDBOperations is the static dispatch table for the CRUD family. Each
// operation value binds to exactly one typed constructor; there is no
// shape-based fallback.
var userDBOperations = map[string]func(map[string]any) (UserDBRequest, error){
	"create": func(raw map[string]any) (UserDBRequest, error) { return ParseCreateUserRequest(raw) },
	"read":   func(raw map[string]any) (UserDBRequest, error) { return ParseReadUserRequest(raw) },
	"update": func(raw map[string]any) (UserDBRequest, error) { return ParseUpdateUserRequest(raw) },
	"delete": func(raw map[string]any) (UserDBRequest, error) { return ParseDeleteUserRequest(raw) },
}

// ParseUserDBRequest resolves a raw request to its operation variant. An
// unregistered operation value is an UnknownOperation error; validation
// errors of the matched variant propagate unchanged.
func ParseUserDBRequest(raw map[string]any) (UserDBRequest, error) {
	d := schema.NewDecoder(raw)
	op := d.String("operation")
	if err := d.Err(); err != nil {
		return nil, err
	}
	parse, ok := userDBOperations[op]
	if !ok {
		return nil, errors.NewUnknownOperation(op)
	}
	return parse(raw)
}
