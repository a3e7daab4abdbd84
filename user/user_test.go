package user

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeonGeckoCom/neon-data-models/enums"
	"github.com/NeonGeckoCom/neon-data-models/errors"
	"github.com/NeonGeckoCom/neon-data-models/schema"
)

func TestParseUserDefaults(t *testing.T) {
	u, err := ParseUser(map[string]any{"username": "test_user"})
	require.NoError(t, err)

	assert.Equal(t, "test_user", u.Username)
	assert.Nil(t, u.PasswordHash)
	assert.NotEmpty(t, u.UserID)
	assert.InDelta(t, schema.EpochNow(), u.CreatedTimestamp, 5)
	assert.Equal(t, []string{"en-us"}, u.Neon.Language.InputLanguages)
	assert.Equal(t, int64(12), u.Neon.Units.Time)
	assert.True(t, u.Klat.IsTmp)
	assert.Equal(t, enums.RoleNone, u.Permissions.Core)
	assert.Empty(t, u.Tokens)
}

func TestParseUserMissingUsername(t *testing.T) {
	_, err := ParseUser(map[string]any{})
	assert.True(t, errors.IsMissingField(err))
}

func TestUserRoundTrip(t *testing.T) {
	hash, err := HashPassword("test_password")
	require.NoError(t, err)

	u, err := ParseUser(map[string]any{
		"username":      "round_trip",
		"password_hash": hash,
		"neon": map[string]any{
			"user": map[string]any{
				"first_name": "Ada",
				"last_name":  "Lovelace",
				"dob":        "1815-12-10",
			},
			"language": map[string]any{
				"input_languages":  []any{"en-us", "uk-ua"},
				"output_languages": []any{"uk-ua"},
			},
			"units":    map[string]any{"time": 24, "measure": "metric"},
			"location": map[string]any{"lat": 47.6, "lon": -122.3},
		},
		"permissions": map[string]any{"core": "ADMIN", "node": -1},
	})
	require.NoError(t, err)

	again, err := ParseUser(u.Dump())
	require.NoError(t, err)
	assert.True(t, u.Equal(again))
}

func TestUserEqualGeneratedFields(t *testing.T) {
	raw := map[string]any{"username": "same_input"}
	a, err := ParseUser(raw)
	require.NoError(t, err)
	b, err := ParseUser(raw)
	require.NoError(t, err)

	// Generated ids differ, so freshly created records are not equal.
	assert.False(t, a.Equal(b))
	assert.NotEqual(t, a.UserID, b.UserID)
	assert.True(t, a.Equal(a))
}

func TestUserExtraFieldPolicy(t *testing.T) {
	raw := map[string]any{"username": "extra_user", "legacy_field": "kept?"}

	dropped, err := ParseUserWithPolicy(raw, schema.Policy{AllowExtra: false})
	require.NoError(t, err)
	assert.Nil(t, dropped.Extra)
	assert.NotContains(t, dropped.Dump(), "legacy_field")

	kept, err := ParseUserWithPolicy(raw, schema.Policy{AllowExtra: true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"legacy_field": "kept?"}, kept.Extra)
	assert.Equal(t, "kept?", kept.Dump()["legacy_field"])
}

func TestNestedSectionsAlwaysDropExtras(t *testing.T) {
	u, err := ParseUserWithPolicy(map[string]any{
		"username": "nested",
		"neon": map[string]any{
			"units":       map[string]any{"time": 24, "bogus": true},
			"other_bogus": 1,
		},
	}, schema.Policy{AllowExtra: true})
	require.NoError(t, err)

	neon := u.Dump()["neon"].(map[string]any)
	units := neon["units"].(map[string]any)
	assert.NotContains(t, units, "bogus")
	assert.NotContains(t, neon, "other_bogus")
}

func TestUnitsValidation(t *testing.T) {
	// Literal integer fields reject digit strings.
	_, err := ParseNeonUserConfig(map[string]any{
		"units": map[string]any{"time": "12"},
	})
	assert.True(t, errors.IsTypeMismatch(err))

	_, err = ParseNeonUserConfig(map[string]any{
		"units": map[string]any{"date": "XYZ"},
	})
	assert.True(t, errors.IsTypeMismatch(err))
}

func TestLocationFlatCompat(t *testing.T) {
	c, err := ParseNeonUserConfig(map[string]any{
		"location": map[string]any{"lat": 42.0, "lon": -71.0},
	})
	require.NoError(t, err)
	require.NotNil(t, c.Location.Latitude)
	require.NotNil(t, c.Location.Longitude)
	assert.InDelta(t, 42.0, *c.Location.Latitude, 1e-9)
	assert.InDelta(t, -71.0, *c.Location.Longitude, 1e-9)

	// The structured dump loads back to the same values.
	again, err := ParseNeonUserConfig(map[string]any{"location": c.Location.Dump()})
	require.NoError(t, err)
	assert.Equal(t, c.Location, again.Location)
}

func TestPermissionsRoles(t *testing.T) {
	p, err := ParsePermissionsConfig(map[string]any{
		"klat": "ADMIN", "core": 2, "node": -1,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.RoleAdmin, p.Klat)
	assert.Equal(t, enums.RoleUser, p.Core)
	assert.Equal(t, enums.RoleNode, p.Node)
	assert.Equal(t, enums.RoleNone, p.Hub)

	roles := p.ToRoles()
	assert.Equal(t, []string{
		"klat ADMIN", "core USER", "diana NONE",
		"node NODE", "hub NONE", "llm NONE",
	}, roles)

	back, err := FromRoles(roles)
	require.NoError(t, err)
	assert.Equal(t, *p, *back)
}

func TestFromRolesIntegerForm(t *testing.T) {
	p, err := FromRoles([]string{"core 1", "diana 0", "node 2"})
	require.NoError(t, err)
	assert.Equal(t, enums.RoleGuest, p.Core)
	assert.Equal(t, enums.RoleNone, p.Diana)
	assert.Equal(t, enums.RoleUser, p.Node)
}

func TestFromRolesErrors(t *testing.T) {
	_, err := FromRoles([]string{"coreADMIN"})
	assert.True(t, errors.IsMalformedRole(err))

	_, err = FromRoles([]string{"core  ADMIN"})
	assert.True(t, errors.IsMalformedRole(err))

	_, err = FromRoles([]string{"core WIZARD"})
	assert.True(t, errors.IsInvalidRole(err))

	// Unknown families are ignored for forward compatibility.
	p, err := FromRoles([]string{"future_service ADMIN"})
	require.NoError(t, err)
	assert.Equal(t, PermissionsConfig{}, *p)
}

func TestInvalidPermissionValue(t *testing.T) {
	_, err := ParsePermissionsConfig(map[string]any{"core": "WIZARD"})
	assert.True(t, errors.IsInvalidRole(err))
}

func TestTokenConfigAliases(t *testing.T) {
	raw := map[string]any{
		"token_name":                   "cli",
		"jti":                          "token-1",
		"sub":                          "user-1",
		"client_id":                    "client-1",
		"permissions":                  map[string]any{"core": 2},
		"refresh_expiration_timestamp": 1700000000,
		"creation_timestamp":           1690000000,
		"last_refresh_timestamp":       1695000000,
	}
	tok, err := ParseTokenConfig(raw)
	require.NoError(t, err)
	assert.Equal(t, "token-1", tok.TokenID)
	assert.Equal(t, "user-1", tok.UserID)
	assert.Equal(t, enums.RoleUser, tok.Permissions.Core)

	// Canonical names only on the way out.
	dump := tok.Dump()
	assert.NotContains(t, dump, "jti")
	assert.NotContains(t, dump, "sub")
	assert.Equal(t, "token-1", dump["token_id"])

	again, err := ParseTokenConfig(dump)
	require.NoError(t, err)
	assert.Equal(t, *tok, *again)
}

func TestTokenConfigRequiresPermissions(t *testing.T) {
	_, err := ParseTokenConfig(map[string]any{
		"token_name":                   "cli",
		"token_id":                     "token-1",
		"user_id":                      "user-1",
		"client_id":                    "client-1",
		"refresh_expiration_timestamp": 1700000000,
		"creation_timestamp":           1690000000,
		"last_refresh_timestamp":       1695000000,
	})
	assert.True(t, errors.IsMissingField(err))
}

func TestUserProfileDerivation(t *testing.T) {
	hash := "not-a-real-hash"
	u, err := ParseUser(map[string]any{
		"username":      "profile_user",
		"password_hash": hash,
		"neon": map[string]any{
			"user": map[string]any{
				"first_name":  "Test",
				"middle_name": "Middle",
				"last_name":   "User",
				"dob":         "2000-01-01",
			},
			"language": map[string]any{
				"input_languages":  []any{"en-us", "uk-ua"},
				"output_languages": []any{"uk-ua", "en-us"},
			},
			"units": map[string]any{"measure": "metric"},
			"location": map[string]any{
				"latitude":  47.6,
				"longitude": -122.3,
				"timezone":  "Asia/Kolkata",
			},
			"response_mode": map[string]any{
				"tts_gender":           "male",
				"tts_speed_multiplier": 1.5,
			},
		},
	})
	require.NoError(t, err)

	p := UserProfileFromUser(u)
	assert.Equal(t, "profile_user", p.User.Username)
	assert.Equal(t, hash, p.User.Password)
	assert.Equal(t, "Test Middle User", p.User.FullName)
	assert.Equal(t, "2000/01/01", p.User.DOB)

	dob := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	wantAge := ageYears(dob, time.Now().UTC())
	assert.Equal(t, strconv.Itoa(wantAge), p.User.Age)

	assert.Equal(t, "en", p.Speech.STTLanguage)
	assert.Equal(t, []string{"uk"}, p.Speech.AltLanguages)
	assert.Equal(t, "uk-ua", p.Speech.TTSLanguage)
	assert.Equal(t, "en-us", p.Speech.SecondaryTTSLanguage)
	assert.Equal(t, "male", p.Speech.TTSGender)
	assert.InDelta(t, 1.5, p.Speech.SpeedMultiplier, 1e-9)

	assert.Equal(t, "metric", p.Units.Measure)
	assert.InDelta(t, 47.6, p.Location.Lat, 1e-9)
	assert.InDelta(t, -122.3, p.Location.Lng, 1e-9)
	assert.Equal(t, "Asia/Kolkata", p.Location.TZ)
	assert.InDelta(t, 5.5, p.Location.UTC, 1e-9)
}

func TestCredentials(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
}
