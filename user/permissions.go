package user

import (
	"fmt"
	"strings"

	"github.com/NeonGeckoCom/neon-data-models/enums"
	"github.com/NeonGeckoCom/neon-data-models/errors"
	"github.com/NeonGeckoCom/neon-data-models/schema"
)

// permissionFamilies lists the supported service families in declaration
// order. ToRoles emits one entry per family in this order.
var permissionFamilies = []string{"klat", "core", "diana", "node", "hub", "llm"}

// PermissionsConfig defines an AccessRole for each supported project or
// service family. The zero value grants no permissions anywhere.
type PermissionsConfig struct {
	Klat  enums.AccessRole
	Core  enums.AccessRole
	Diana enums.AccessRole
	Node  enums.AccessRole
	Hub   enums.AccessRole
	LLM   enums.AccessRole
}

// ParsePermissionsConfig validates and coerces a raw mapping. Role values
// may be integers or symbolic names.
func ParsePermissionsConfig(raw map[string]any) (*PermissionsConfig, error) {
	d := schema.NewDecoder(raw)
	p := DecodePermissionsConfig(d)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecodePermissionsConfig reads role fields from an existing decoder.
func DecodePermissionsConfig(d *schema.Decoder) PermissionsConfig {
	p := PermissionsConfig{}
	for _, family := range permissionFamilies {
		value, ok := d.Value(family)
		if !ok {
			continue
		}
		role, err := enums.ParseAccessRole(value)
		if err != nil {
			d.Fail(family, errors.NewInvalidRole("", value))
			continue
		}
		*p.roleField(family) = role
	}
	return p
}

func (p *PermissionsConfig) roleField(family string) *enums.AccessRole {
	switch family {
	case "klat":
		return &p.Klat
	case "core":
		return &p.Core
	case "diana":
		return &p.Diana
	case "node":
		return &p.Node
	case "hub":
		return &p.Hub
	case "llm":
		return &p.LLM
	}
	return nil
}

// Dump serializes the config with integer role values.
func (p PermissionsConfig) Dump() map[string]any {
	out := make(map[string]any, len(permissionFamilies))
	for _, family := range permissionFamilies {
		out[family] = int64(*p.roleField(family))
	}
	return out
}

// ToRoles emits one "<family> <ROLE_NAME>" string per service family, in
// declaration order. The output is the JWT "roles" claim format and is
// losslessly reversible via FromRoles.
func (p PermissionsConfig) ToRoles() []string {
	roles := make([]string, 0, len(permissionFamilies))
	for _, family := range permissionFamilies {
		roles = append(roles, fmt.Sprintf("%s %s", family, p.roleField(family).String()))
	}
	return roles
}

// FromRoles reconstructs a PermissionsConfig from "<family> <role>" strings.
// Each entry must contain exactly one space; the role token may be a
// symbolic name (any case) or an integer value. Unknown families are
// ignored so tokens minted against newer family sets still parse.
func FromRoles(roles []string) (*PermissionsConfig, error) {
	p := PermissionsConfig{}
	var errs []error
	for _, entry := range roles {
		if strings.Count(entry, " ") != 1 {
			errs = append(errs, errors.NewMalformedRole("roles", entry))
			continue
		}
		parts := strings.SplitN(entry, " ", 2)
		family, token := parts[0], strings.ToUpper(parts[1])
		role, err := enums.ParseAccessRole(token)
		if err != nil {
			errs = append(errs, errors.NewInvalidRole("roles", entry))
			continue
		}
		if field := p.roleField(family); field != nil {
			*field = role
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &p, nil
}
