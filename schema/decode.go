// Package schema implements the validation-and-coercion pipeline shared by
// every data-contract model. A Decoder walks a raw key/value mapping (as
// decoded from JSON), applies per-field coercion rules, resolves legacy
// aliases, tracks unconsumed keys for the extra-field policy, and
// accumulates field-scoped validation errors.
package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/NeonGeckoCom/neon-data-models/errors"
)

// Decoder reads typed fields out of a raw mapping. Accessors record every
// key they consume and append a FieldError for each failure; Err returns the
// accumulated result. A model is either fully valid or not constructed at
// all: callers must check Err before returning a record.
type Decoder struct {
	raw      map[string]any
	path     string
	consumed map[string]struct{}
	errs     []error
	children []*Decoder
}

// NewDecoder creates a Decoder over the given mapping. A nil mapping is
// treated as empty.
func NewDecoder(raw map[string]any) *Decoder {
	if raw == nil {
		raw = map[string]any{}
	}
	return &Decoder{raw: raw, consumed: make(map[string]struct{})}
}

// NewChildDecoder creates a Decoder for a nested mapping, prefixing every
// reported field path with the parent key.
func NewChildDecoder(raw map[string]any, path string) *Decoder {
	d := NewDecoder(raw)
	d.path = path
	return d
}

func (d *Decoder) at(key string) string {
	if d.path == "" {
		return key
	}
	return d.path + "." + key
}

func (d *Decoder) fail(err error) {
	if err != nil {
		d.errs = append(d.errs, err)
	}
}

// Fail appends a field-scoped error produced outside the accessor set, for
// example by enum parsing or cross-field checks.
func (d *Decoder) Fail(key string, err error) {
	d.fail(errors.WithPrefix(err, d.at(key)))
}

// Err returns all accumulated validation errors, including those of child
// decoders, joined into one. Nil when the input validated cleanly.
func (d *Decoder) Err() error {
	errs := append([]error(nil), d.errs...)
	for _, c := range d.children {
		if err := c.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Value returns the first present value among the canonical key and its
// legacy aliases, marking the matched key consumed. Explicit nulls are
// reported as absent.
func (d *Decoder) Value(key string, aliases ...string) (any, bool) {
	for _, k := range append([]string{key}, aliases...) {
		if v, ok := d.raw[k]; ok {
			d.consumed[k] = struct{}{}
			if v == nil {
				return nil, false
			}
			return v, true
		}
	}
	return nil, false
}

// Forbid records a ForbiddenField error for each listed key present in the
// input. Supplying a field disallowed for the resolved variant is a
// validation error, not a silent ignore.
func (d *Decoder) Forbid(keys ...string) {
	for _, k := range keys {
		if v, ok := d.raw[k]; ok {
			d.consumed[k] = struct{}{}
			d.fail(errors.NewForbiddenField(d.at(k), v))
		}
	}
}

// Discriminator validates the tag field against the variant's single legal
// value, filling it in when absent and rejecting any other explicit value.
func (d *Decoder) Discriminator(key, legal string) string {
	v, ok := d.Value(key)
	if !ok {
		return legal
	}
	s, isStr := v.(string)
	if !isStr || s != legal {
		d.fail(errors.NewTypeMismatch(d.at(key), fmt.Sprintf("%q", legal), v))
		return legal
	}
	return s
}

// Extras returns the keys that no accessor consumed, with their original
// values untouched.
func (d *Decoder) Extras() map[string]any {
	extras := make(map[string]any)
	for k, v := range d.raw {
		if _, ok := d.consumed[k]; !ok {
			extras[k] = v
		}
	}
	if len(extras) == 0 {
		return nil
	}
	return extras
}

// String reads a required string field.
func (d *Decoder) String(key string, aliases ...string) string {
	v, ok := d.Value(key, aliases...)
	if !ok {
		d.fail(errors.NewMissingField(d.at(key)))
		return ""
	}
	s, err := asString(v)
	if err != nil {
		d.fail(errors.NewTypeMismatch(d.at(key), "string", v))
		return ""
	}
	return s
}

// StringDefault reads an optional string field with a default.
func (d *Decoder) StringDefault(key, def string, aliases ...string) string {
	v, ok := d.Value(key, aliases...)
	if !ok {
		return def
	}
	s, err := asString(v)
	if err != nil {
		d.fail(errors.NewTypeMismatch(d.at(key), "string", v))
		return def
	}
	return s
}

// StringPtr reads an optional string field, nil when absent.
func (d *Decoder) StringPtr(key string, aliases ...string) *string {
	v, ok := d.Value(key, aliases...)
	if !ok {
		return nil
	}
	s, err := asString(v)
	if err != nil {
		d.fail(errors.NewTypeMismatch(d.at(key), "string", v))
		return nil
	}
	return &s
}

// StringChoice reads an optional string field restricted to a closed set.
func (d *Decoder) StringChoice(key, def string, choices []string, aliases ...string) string {
	v, ok := d.Value(key, aliases...)
	if !ok {
		return def
	}
	s, err := asString(v)
	if err == nil {
		for _, c := range choices {
			if s == c {
				return s
			}
		}
	}
	d.fail(errors.NewTypeMismatch(d.at(key), "one of "+quoteChoices(choices), v))
	return def
}

// StringSlice reads a required list of strings.
func (d *Decoder) StringSlice(key string, aliases ...string) []string {
	v, ok := d.Value(key, aliases...)
	if !ok {
		d.fail(errors.NewMissingField(d.at(key)))
		return nil
	}
	out, err := asStringSlice(v)
	if err != nil {
		d.fail(errors.NewTypeMismatch(d.at(key), "list of strings", v))
		return nil
	}
	return out
}

// StringSliceDefault reads an optional list of strings with a default.
func (d *Decoder) StringSliceDefault(key string, def []string, aliases ...string) []string {
	v, ok := d.Value(key, aliases...)
	if !ok {
		return append([]string(nil), def...)
	}
	out, err := asStringSlice(v)
	if err != nil {
		d.fail(errors.NewTypeMismatch(d.at(key), "list of strings", v))
		return append([]string(nil), def...)
	}
	return out
}

// Int64Default reads an optional integer field, coercing digit strings and
// whole floats.
func (d *Decoder) Int64Default(key string, def int64, aliases ...string) int64 {
	v, ok := d.Value(key, aliases...)
	if !ok {
		return def
	}
	i, err := asInt64(v, true)
	if err != nil {
		d.fail(errors.NewTypeMismatch(d.at(key), "integer", v))
		return def
	}
	return i
}

// IntChoiceDefault reads an optional integer restricted to a closed set.
// Literal integer fields accept only integer inputs; digit strings are
// rejected.
func (d *Decoder) IntChoiceDefault(key string, def int64, choices []int64, aliases ...string) int64 {
	v, ok := d.Value(key, aliases...)
	if !ok {
		return def
	}
	i, err := asInt64(v, false)
	if err == nil {
		for _, c := range choices {
			if i == c {
				return i
			}
		}
	}
	d.fail(errors.NewTypeMismatch(d.at(key), "one of "+formatIntChoices(choices), v))
	return def
}

// IntChoicePtr reads an optional literal integer field, nil when absent.
func (d *Decoder) IntChoicePtr(key string, choices []int64, aliases ...string) *int64 {
	v, ok := d.Value(key, aliases...)
	if !ok {
		return nil
	}
	i, err := asInt64(v, false)
	if err == nil {
		for _, c := range choices {
			if i == c {
				return &i
			}
		}
	}
	d.fail(errors.NewTypeMismatch(d.at(key), "one of "+formatIntChoices(choices), v))
	return nil
}

// IntDefault reads an optional integer with a default.
func (d *Decoder) IntDefault(key string, def int, aliases ...string) int {
	return int(d.Int64Default(key, int64(def), aliases...))
}

// Float64Default reads an optional float field, coercing numeric strings.
func (d *Decoder) Float64Default(key string, def float64, aliases ...string) float64 {
	v, ok := d.Value(key, aliases...)
	if !ok {
		return def
	}
	f, err := asFloat64(v)
	if err != nil {
		d.fail(errors.NewTypeMismatch(d.at(key), "float", v))
		return def
	}
	return f
}

// Float64Ptr reads an optional float field, nil when absent.
func (d *Decoder) Float64Ptr(key string, aliases ...string) *float64 {
	v, ok := d.Value(key, aliases...)
	if !ok {
		return nil
	}
	f, err := asFloat64(v)
	if err != nil {
		d.fail(errors.NewTypeMismatch(d.at(key), "float", v))
		return nil
	}
	return &f
}

// Bool reads a required boolean field.
func (d *Decoder) Bool(key string, aliases ...string) bool {
	v, ok := d.Value(key, aliases...)
	if !ok {
		d.fail(errors.NewMissingField(d.at(key)))
		return false
	}
	b, isBool := v.(bool)
	if !isBool {
		d.fail(errors.NewTypeMismatch(d.at(key), "boolean", v))
		return false
	}
	return b
}

// BoolDefault reads an optional boolean field with a default.
func (d *Decoder) BoolDefault(key string, def bool, aliases ...string) bool {
	v, ok := d.Value(key, aliases...)
	if !ok {
		return def
	}
	b, isBool := v.(bool)
	if !isBool {
		d.fail(errors.NewTypeMismatch(d.at(key), "boolean", v))
		return def
	}
	return b
}

// Epoch reads a required timestamp field, normalized to epoch seconds.
func (d *Decoder) Epoch(key string, aliases ...string) int64 {
	v, ok := d.Value(key, aliases...)
	if !ok {
		d.fail(errors.NewMissingField(d.at(key)))
		return 0
	}
	ts, err := ParseEpoch(v)
	if err != nil {
		d.fail(errors.NewTypeMismatch(d.at(key), "epoch seconds", v))
		return 0
	}
	return ts
}

// EpochDefault reads an optional timestamp field with a default.
func (d *Decoder) EpochDefault(key string, def int64, aliases ...string) int64 {
	v, ok := d.Value(key, aliases...)
	if !ok {
		return def
	}
	ts, err := ParseEpoch(v)
	if err != nil {
		d.fail(errors.NewTypeMismatch(d.at(key), "epoch seconds", v))
		return def
	}
	return ts
}

// EpochPtr reads an optional timestamp field, nil when absent.
func (d *Decoder) EpochPtr(key string, aliases ...string) *int64 {
	v, ok := d.Value(key, aliases...)
	if !ok {
		return nil
	}
	ts, err := ParseEpoch(v)
	if err != nil {
		d.fail(errors.NewTypeMismatch(d.at(key), "epoch seconds", v))
		return nil
	}
	return &ts
}

// Time reads a required point-in-time field accepting time.Time, epoch
// numbers, or ISO strings.
func (d *Decoder) Time(key string, aliases ...string) time.Time {
	v, ok := d.Value(key, aliases...)
	if !ok {
		d.fail(errors.NewMissingField(d.at(key)))
		return time.Time{}
	}
	t, err := ParseTime(v)
	if err != nil {
		d.fail(errors.NewTypeMismatch(d.at(key), "timestamp", v))
		return time.Time{}
	}
	return t
}

// TimePtr reads an optional point-in-time field, nil when absent.
func (d *Decoder) TimePtr(key string, aliases ...string) *time.Time {
	v, ok := d.Value(key, aliases...)
	if !ok {
		return nil
	}
	t, err := ParseTime(v)
	if err != nil {
		d.fail(errors.NewTypeMismatch(d.at(key), "timestamp", v))
		return nil
	}
	return &t
}

// DatePtr reads an optional civil-date field, nil when absent.
func (d *Decoder) DatePtr(key string, aliases ...string) *time.Time {
	v, ok := d.Value(key, aliases...)
	if !ok {
		return nil
	}
	t, err := ParseDate(v)
	if err != nil {
		d.fail(errors.NewTypeMismatch(d.at(key), "ISO date (YYYY-MM-DD)", v))
		return nil
	}
	return &t
}

// DurationPtr reads an optional duration field accepting raw seconds or a
// time.Duration, nil when absent.
func (d *Decoder) DurationPtr(key string, aliases ...string) *time.Duration {
	v, ok := d.Value(key, aliases...)
	if !ok {
		return nil
	}
	dur, err := ParseDurationSeconds(v)
	if err != nil {
		d.fail(errors.NewTypeMismatch(d.at(key), "duration seconds", v))
		return nil
	}
	return &dur
}

// Map reads a required nested mapping.
func (d *Decoder) Map(key string, aliases ...string) map[string]any {
	v, ok := d.Value(key, aliases...)
	if !ok {
		d.fail(errors.NewMissingField(d.at(key)))
		return nil
	}
	m, isMap := v.(map[string]any)
	if !isMap {
		d.fail(errors.NewTypeMismatch(d.at(key), "mapping", v))
		return nil
	}
	return m
}

// MapDefault reads an optional nested mapping, empty when absent.
func (d *Decoder) MapDefault(key string, aliases ...string) map[string]any {
	v, ok := d.Value(key, aliases...)
	if !ok {
		return map[string]any{}
	}
	m, isMap := v.(map[string]any)
	if !isMap {
		d.fail(errors.NewTypeMismatch(d.at(key), "mapping", v))
		return map[string]any{}
	}
	return m
}

// Sub reads an optional nested mapping for a typed sub-model, reporting
// presence separately so callers can apply sub-model defaults.
func (d *Decoder) Sub(key string, aliases ...string) (map[string]any, bool) {
	v, ok := d.Value(key, aliases...)
	if !ok {
		return nil, false
	}
	m, isMap := v.(map[string]any)
	if !isMap {
		d.fail(errors.NewTypeMismatch(d.at(key), "mapping", v))
		return nil, false
	}
	return m, true
}

// SubList reads an optional list of nested mappings for typed sub-models.
func (d *Decoder) SubList(key string, aliases ...string) ([]map[string]any, bool) {
	v, ok := d.Value(key, aliases...)
	if !ok {
		return nil, false
	}
	list, isList := v.([]any)
	if !isList {
		if typed, isTyped := v.([]map[string]any); isTyped {
			return typed, true
		}
		d.fail(errors.NewTypeMismatch(d.at(key), "list of mappings", v))
		return nil, false
	}
	out := make([]map[string]any, 0, len(list))
	for i, item := range list {
		m, isMap := item.(map[string]any)
		if !isMap {
			d.fail(errors.NewTypeMismatch(
				fmt.Sprintf("%s.%d", d.at(key), i), "mapping", item))
			return nil, false
		}
		out = append(out, m)
	}
	return out, true
}

// Child returns a linked Decoder over a nested mapping. Errors recorded by
// the child are surfaced through the parent's Err with the child's field
// path prefixed. The boolean reports whether the section was present.
func (d *Decoder) Child(key string, aliases ...string) (*Decoder, bool) {
	m, ok := d.Sub(key, aliases...)
	if !ok {
		return nil, false
	}
	c := NewChildDecoder(m, d.at(key))
	d.children = append(d.children, c)
	return c, true
}

// ChildOrEmpty behaves like Child but always returns a usable decoder: an
// absent section decodes as an empty mapping so sub-model defaults apply.
func (d *Decoder) ChildOrEmpty(key string, aliases ...string) (*Decoder, bool) {
	c, ok := d.Child(key, aliases...)
	if !ok {
		c = NewChildDecoder(nil, d.at(key))
		d.children = append(d.children, c)
	}
	return c, ok
}

// ChildList returns linked Decoders for a list of nested mappings.
func (d *Decoder) ChildList(key string, aliases ...string) ([]*Decoder, bool) {
	maps, ok := d.SubList(key, aliases...)
	if !ok {
		return nil, false
	}
	out := make([]*Decoder, 0, len(maps))
	for i, m := range maps {
		c := NewChildDecoder(m, fmt.Sprintf("%s.%d", d.at(key), i))
		d.children = append(d.children, c)
		out = append(out, c)
	}
	return out, true
}

// ExtrasIf returns the unconsumed keys when the policy retains them, nil
// otherwise.
func (d *Decoder) ExtrasIf(p Policy) map[string]any {
	if !p.AllowExtra {
		return nil
	}
	return d.Extras()
}

// Coercion primitives. Only the well-defined coercions of the wire contract
// are applied; anything else is a type mismatch.

func asString(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", errors.ErrTypeMismatch
}

func asInt64(v any, allowString bool) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n == float64(int64(n)) {
			return int64(n), nil
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
	case string:
		if allowString {
			if i, err := strconv.ParseInt(n, 10, 64); err == nil {
				return i, nil
			}
		}
	}
	return 0, errors.ErrTypeMismatch
}

func asFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f, nil
		}
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, nil
		}
	}
	return 0, errors.ErrTypeMismatch
}

func asStringSlice(v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...), nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, errors.ErrTypeMismatch
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, errors.ErrTypeMismatch
}

func quoteChoices(choices []string) string {
	out := ""
	for i, c := range choices {
		if i > 0 {
			out += ", "
		}
		out += strconv.Quote(c)
	}
	return out
}

func formatIntChoices(choices []int64) string {
	out := ""
	for i, c := range choices {
		if i > 0 {
			out += ", "
		}
		out += strconv.FormatInt(c, 10)
	}
	return out
}
