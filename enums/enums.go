// Package enums defines the ordered enumerations shared across the data
// contracts: access roles, alert types, and user-data categories. Every
// enumeration accepts either its symbolic name (case-insensitive) or its
// underlying integer value on input.
package enums

import (
	"strconv"
	"strings"

	"github.com/NeonGeckoCom/neon-data-models/errors"
)

// AccessRole defines permission levels such that a larger value always
// corresponds to more permissions. 0 equates to no permission and negative
// values correspond to non-user (system/node) actors. A capability check can
// therefore require, for example, `granted > enums.RoleGuest` to admit all
// registered users, admins, and owners.
type AccessRole int

const (
	RoleNone  AccessRole = 0
	RoleGuest AccessRole = 1
	RoleUser  AccessRole = 2
	RoleAdmin AccessRole = 3
	RoleOwner AccessRole = 4

	RoleNode AccessRole = -1
)

var accessRoleNames = map[AccessRole]string{
	RoleNone:  "NONE",
	RoleGuest: "GUEST",
	RoleUser:  "USER",
	RoleAdmin: "ADMIN",
	RoleOwner: "OWNER",
	RoleNode:  "NODE",
}

var accessRolesByName = func() map[string]AccessRole {
	m := make(map[string]AccessRole, len(accessRoleNames))
	for role, name := range accessRoleNames {
		m[name] = role
	}
	return m
}()

// String returns the symbolic role name, or the integer value for roles
// outside the defined set.
func (r AccessRole) String() string {
	if name, ok := accessRoleNames[r]; ok {
		return name
	}
	return strconv.Itoa(int(r))
}

// IsValid reports whether the role is a defined member of the enumeration.
func (r AccessRole) IsValid() bool {
	_, ok := accessRoleNames[r]
	return ok
}

// ParseAccessRole constructs an AccessRole from an integer value, a float with
// no fractional part, or a case-insensitive name string. Any other value
// fails with an InvalidRole error.
func ParseAccessRole(value any) (AccessRole, error) {
	switch v := value.(type) {
	case AccessRole:
		if v.IsValid() {
			return v, nil
		}
	case int:
		if r := AccessRole(v); r.IsValid() {
			return r, nil
		}
	case int64:
		if r := AccessRole(v); r.IsValid() {
			return r, nil
		}
	case float64:
		if v == float64(int(v)) {
			if r := AccessRole(int(v)); r.IsValid() {
				return r, nil
			}
		}
	case string:
		token := strings.ToUpper(strings.TrimSpace(v))
		if r, ok := accessRolesByName[token]; ok {
			return r, nil
		}
		if i, err := strconv.Atoi(token); err == nil {
			if r := AccessRole(i); r.IsValid() {
				return r, nil
			}
		}
	}
	return RoleNone, errors.NewInvalidRole("", value)
}

// AlertType identifies the category of a scheduled alert.
type AlertType int

const (
	AlertAll      AlertType = -1
	AlertAlarm    AlertType = 0
	AlertTimer    AlertType = 1
	AlertReminder AlertType = 2
	AlertUnknown  AlertType = 99
)

var alertTypeNames = map[AlertType]string{
	AlertAll:      "ALL",
	AlertAlarm:    "ALARM",
	AlertTimer:    "TIMER",
	AlertReminder: "REMINDER",
	AlertUnknown:  "UNKNOWN",
}

var alertTypesByName = func() map[string]AlertType {
	m := make(map[string]AlertType, len(alertTypeNames))
	for t, name := range alertTypeNames {
		m[name] = t
	}
	return m
}()

func (t AlertType) String() string {
	if name, ok := alertTypeNames[t]; ok {
		return name
	}
	return strconv.Itoa(int(t))
}

// IsValid reports whether the alert type is a defined member.
func (t AlertType) IsValid() bool {
	_, ok := alertTypeNames[t]
	return ok
}

// ParseAlertType constructs an AlertType from its integer value or
// case-insensitive name.
func ParseAlertType(value any) (AlertType, error) {
	switch v := value.(type) {
	case AlertType:
		if v.IsValid() {
			return v, nil
		}
	case int:
		if t := AlertType(v); t.IsValid() {
			return t, nil
		}
	case int64:
		if t := AlertType(v); t.IsValid() {
			return t, nil
		}
	case float64:
		if v == float64(int(v)) {
			if t := AlertType(int(v)); t.IsValid() {
				return t, nil
			}
		}
	case string:
		if t, ok := alertTypesByName[strings.ToUpper(strings.TrimSpace(v))]; ok {
			return t, nil
		}
	}
	return AlertUnknown, errors.NewTypeMismatch("", "AlertType", value)
}

// UserData identifies a category of stored user data that may be cleared by a
// core clear-data request.
type UserData int

const (
	UserDataAll         UserData = 0
	UserDataAllMedia    UserData = 1
	UserDataConfLikes   UserData = 2
	UserDataConfDislike UserData = 3
	UserDataAllPrefs    UserData = 4
	UserDataAllLanguage UserData = 5
	UserDataCaches      UserData = 6
	UserDataProfile     UserData = 7
)

var userDataNames = map[UserData]string{
	UserDataAll:         "ALL_DATA",
	UserDataAllMedia:    "ALL_MEDIA",
	UserDataConfLikes:   "CONF_LIKES",
	UserDataConfDislike: "CONF_DISLIKES",
	UserDataAllPrefs:    "ALL_PREFS",
	UserDataAllLanguage: "ALL_LANGUAGE",
	UserDataCaches:      "CACHES",
	UserDataProfile:     "PROFILE",
}

var userDataByName = func() map[string]UserData {
	m := make(map[string]UserData, len(userDataNames))
	for d, name := range userDataNames {
		m[name] = d
	}
	return m
}()

func (d UserData) String() string {
	if name, ok := userDataNames[d]; ok {
		return name
	}
	return strconv.Itoa(int(d))
}

// IsValid reports whether the user-data category is a defined member.
func (d UserData) IsValid() bool {
	_, ok := userDataNames[d]
	return ok
}

// ParseUserData constructs a UserData category from its integer value or
// case-insensitive name.
func ParseUserData(value any) (UserData, error) {
	switch v := value.(type) {
	case UserData:
		if v.IsValid() {
			return v, nil
		}
	case int:
		if d := UserData(v); d.IsValid() {
			return d, nil
		}
	case int64:
		if d := UserData(v); d.IsValid() {
			return d, nil
		}
	case float64:
		if v == float64(int(v)) {
			if d := UserData(int(v)); d.IsValid() {
				return d, nil
			}
		}
	case string:
		if d, ok := userDataByName[strings.ToUpper(strings.TrimSpace(v))]; ok {
			return d, nil
		}
	}
	return UserDataAll, errors.NewTypeMismatch("", "UserData", value)
}
