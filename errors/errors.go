// Package errors provides the standardized validation error kinds raised by
// the data-contract models. Every error identifies the offending field path
// and the received value, is raised synchronously at construction time, and
// is classifiable with errors.Is against the sentinel kinds below.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for validation failures.
var (
	// ErrMissingField indicates a required field was absent from the input.
	ErrMissingField = errors.New("missing required field")
	// ErrTypeMismatch indicates a value was present but not coercible to the
	// declared type.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrInvalidRole indicates an unrecognized access-role token.
	ErrInvalidRole = errors.New("invalid role")
	// ErrMalformedRole indicates a role string not in "<name> <value>" form.
	ErrMalformedRole = errors.New("malformed role string")
	// ErrUnknownOperation indicates an operation discriminator that matches
	// no registered request variant.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrUnknownMessageType indicates a msg_type discriminator that matches
	// no registered message variant.
	ErrUnknownMessageType = errors.New("unknown message type")
	// ErrForbiddenField indicates a field that is disallowed for the
	// resolved discriminator variant.
	ErrForbiddenField = errors.New("forbidden field")
)

// FieldError wraps a sentinel kind with the field path and received value.
type FieldError struct {
	Kind     error
	Field    string
	Expected string
	Value    any
}

// Error implements the error interface.
func (fe *FieldError) Error() string {
	switch {
	case fe.Field == "":
		if fe.Expected != "" {
			return fmt.Sprintf("%s: expected %s, got %v (%T)",
				fe.Kind.Error(), fe.Expected, fe.Value, fe.Value)
		}
		return fmt.Sprintf("%s: %v", fe.Kind.Error(), fe.Value)
	case fe.Expected != "":
		return fmt.Sprintf("%s: %s: expected %s, got %v (%T)",
			fe.Field, fe.Kind.Error(), fe.Expected, fe.Value, fe.Value)
	case fe.Value != nil:
		return fmt.Sprintf("%s: %s: %v", fe.Field, fe.Kind.Error(), fe.Value)
	default:
		return fmt.Sprintf("%s: %s", fe.Field, fe.Kind.Error())
	}
}

// Unwrap returns the sentinel kind so errors.Is matches.
func (fe *FieldError) Unwrap() error {
	return fe.Kind
}

// WithPrefix prepends a parent path element to every FieldError in err,
// including members of a joined error. Used when nested sub-model validation
// propagates up to the enclosing record.
func WithPrefix(err error, prefix string) error {
	if err == nil || prefix == "" {
		return err
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		members := joined.Unwrap()
		prefixed := make([]error, 0, len(members))
		for _, member := range members {
			prefixed = append(prefixed, WithPrefix(member, prefix))
		}
		return errors.Join(prefixed...)
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		field := prefix
		if fe.Field != "" {
			field = prefix + "." + fe.Field
		}
		return &FieldError{Kind: fe.Kind, Field: field, Expected: fe.Expected, Value: fe.Value}
	}
	return fmt.Errorf("%s: %w", prefix, err)
}

// NewMissingField reports a required field absent at the given path.
func NewMissingField(field string) error {
	return &FieldError{Kind: ErrMissingField, Field: field}
}

// NewTypeMismatch reports a value that cannot be coerced to the expected type.
func NewTypeMismatch(field, expected string, value any) error {
	return &FieldError{Kind: ErrTypeMismatch, Field: field, Expected: expected, Value: value}
}

// NewInvalidRole reports an unrecognized role token.
func NewInvalidRole(field string, value any) error {
	return &FieldError{Kind: ErrInvalidRole, Field: field, Value: value}
}

// NewMalformedRole reports a role string that is not "<name> <value>".
func NewMalformedRole(field string, value any) error {
	return &FieldError{Kind: ErrMalformedRole, Field: field, Value: value}
}

// NewUnknownOperation reports an operation discriminator with no variant.
func NewUnknownOperation(value any) error {
	return &FieldError{Kind: ErrUnknownOperation, Field: "operation", Value: value}
}

// NewUnknownMessageType reports a msg_type discriminator with no variant.
func NewUnknownMessageType(value any) error {
	return &FieldError{Kind: ErrUnknownMessageType, Field: "msg_type", Value: value}
}

// NewForbiddenField reports a field disallowed for the resolved variant.
func NewForbiddenField(field string, value any) error {
	return &FieldError{Kind: ErrForbiddenField, Field: field, Value: value}
}

// IsMissingField checks whether any error in the chain is a MissingField.
func IsMissingField(err error) bool { return errors.Is(err, ErrMissingField) }

// IsTypeMismatch checks whether any error in the chain is a TypeMismatch.
func IsTypeMismatch(err error) bool { return errors.Is(err, ErrTypeMismatch) }

// IsInvalidRole checks whether any error in the chain is an InvalidRole.
func IsInvalidRole(err error) bool { return errors.Is(err, ErrInvalidRole) }

// IsMalformedRole checks whether any error in the chain is a MalformedRole.
func IsMalformedRole(err error) bool { return errors.Is(err, ErrMalformedRole) }

// IsUnknownOperation checks whether any error in the chain is an
// UnknownOperation.
func IsUnknownOperation(err error) bool { return errors.Is(err, ErrUnknownOperation) }

// IsUnknownMessageType checks whether any error in the chain is an
// UnknownMessageType.
func IsUnknownMessageType(err error) bool { return errors.Is(err, ErrUnknownMessageType) }

// IsForbiddenField checks whether any error in the chain is a ForbiddenField.
func IsForbiddenField(err error) bool { return errors.Is(err, ErrForbiddenField) }

// Join combines multiple validation errors into one, dropping nil members.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Is re-exports errors.Is for callers already importing this package.
func Is(err, target error) bool { return errors.Is(err, target) }

// As re-exports errors.As for callers already importing this package.
func As(err error, target any) bool { return errors.As(err, target) }
