// Package user defines the canonical identity record and its nested
// configuration sections, per-service-family permissions, and token
// metadata. All models accept raw mappings as decoded from JSON and dump
// back to plain mappings using canonical field names only.
package user

import (
	"time"

	"github.com/NeonGeckoCom/neon-data-models/errors"
	"github.com/NeonGeckoCom/neon-data-models/schema"
)

// UserConfig holds personal identity details within a NeonUserConfig.
type UserConfig struct {
	FirstName     string
	MiddleName    string
	LastName      string
	PreferredName string
	// DOB is a civil date; wire form is "YYYY-MM-DD".
	DOB *time.Time
	Email string
	// AvatarURL is a fully-qualified URI of a user avatar,
	// i.e. `https://example.com/avatar.jpg`.
	AvatarURL string
	About     string
	Phone     string
}

func decodeUserConfig(d *schema.Decoder) UserConfig {
	return UserConfig{
		FirstName:     d.StringDefault("first_name", ""),
		MiddleName:    d.StringDefault("middle_name", ""),
		LastName:      d.StringDefault("last_name", ""),
		PreferredName: d.StringDefault("preferred_name", ""),
		DOB:           d.DatePtr("dob"),
		Email:         d.StringDefault("email", ""),
		AvatarURL:     d.StringDefault("avatar_url", ""),
		About:         d.StringDefault("about", ""),
		Phone:         d.StringDefault("phone", ""),
	}
}

// Dump serializes the section using canonical field names.
func (c UserConfig) Dump() map[string]any {
	var dob any
	if c.DOB != nil {
		dob = schema.FormatDate(*c.DOB)
	}
	return map[string]any{
		"first_name":     c.FirstName,
		"middle_name":    c.MiddleName,
		"last_name":      c.LastName,
		"preferred_name": c.PreferredName,
		"dob":            dob,
		"email":          c.Email,
		"avatar_url":     c.AvatarURL,
		"about":          c.About,
		"phone":          c.Phone,
	}
}

// LanguageConfig lists the languages a user speaks and wants responses in,
// as BCP-47 codes.
type LanguageConfig struct {
	InputLanguages  []string
	OutputLanguages []string
}

func decodeLanguageConfig(d *schema.Decoder) LanguageConfig {
	return LanguageConfig{
		InputLanguages:  d.StringSliceDefault("input_languages", []string{"en-us"}),
		OutputLanguages: d.StringSliceDefault("output_languages", []string{"en-us"}),
	}
}

// Dump serializes the section using canonical field names.
func (c LanguageConfig) Dump() map[string]any {
	return map[string]any{
		"input_languages":  append([]string(nil), c.InputLanguages...),
		"output_languages": append([]string(nil), c.OutputLanguages...),
	}
}

// UnitsConfig selects clock, date, and measurement formats.
type UnitsConfig struct {
	// Time is the clock format, 12 or 24.
	Time int64
	// Date is one of MDY, YMD, YDM, DMY.
	Date string
	// Measure is "imperial" or "metric".
	Measure string
}

func decodeUnitsConfig(d *schema.Decoder) UnitsConfig {
	return UnitsConfig{
		Time:    d.IntChoiceDefault("time", 12, []int64{12, 24}),
		Date:    d.StringChoice("date", "MDY", []string{"MDY", "YMD", "YDM", "DMY"}),
		Measure: d.StringChoice("measure", "imperial", []string{"imperial", "metric"}),
	}
}

// Dump serializes the section using canonical field names.
func (c UnitsConfig) Dump() map[string]any {
	return map[string]any{
		"time":    c.Time,
		"date":    c.Date,
		"measure": c.Measure,
	}
}

// LocationConfig is the minimal location spec from which the remaining
// values may be calculated. It accepts a legacy flat {lat, lon} input shape
// in addition to the structured form.
type LocationConfig struct {
	Latitude  *float64
	Longitude *float64
	Name      *string
	Timezone  *string
}

func decodeLocationConfig(d *schema.Decoder) LocationConfig {
	return LocationConfig{
		Latitude:  d.Float64Ptr("latitude", "lat"),
		Longitude: d.Float64Ptr("longitude", "lon", "lng"),
		Name:      d.StringPtr("name"),
		Timezone:  d.StringPtr("timezone"),
	}
}

// Dump serializes the section using canonical field names only; the legacy
// flat names are never emitted.
func (c LocationConfig) Dump() map[string]any {
	return map[string]any{
		"latitude":  ptrValue(c.Latitude),
		"longitude": ptrValue(c.Longitude),
		"name":      ptrValue(c.Name),
		"timezone":  ptrValue(c.Timezone),
	}
}

// Flat returns the legacy flat representation. Both Dump forms are mutually
// loadable.
func (c LocationConfig) Flat() map[string]any {
	return map[string]any{
		"lat": ptrValue(c.Latitude),
		"lon": ptrValue(c.Longitude),
	}
}

// ResponseConfig tunes spoken-response behavior.
type ResponseConfig struct {
	Hesitation  bool
	LimitDialog bool
	// TTSGender is "male" or "female".
	TTSGender          string
	TTSSpeedMultiplier float64
}

func decodeResponseConfig(d *schema.Decoder) ResponseConfig {
	return ResponseConfig{
		Hesitation:         d.BoolDefault("hesitation", false),
		LimitDialog:        d.BoolDefault("limit_dialog", false),
		TTSGender:          d.StringChoice("tts_gender", "female", []string{"male", "female"}),
		TTSSpeedMultiplier: d.Float64Default("tts_speed_multiplier", 1.0),
	}
}

// Dump serializes the section using canonical field names.
func (c ResponseConfig) Dump() map[string]any {
	return map[string]any{
		"hesitation":           c.Hesitation,
		"limit_dialog":         c.LimitDialog,
		"tts_gender":           c.TTSGender,
		"tts_speed_multiplier": c.TTSSpeedMultiplier,
	}
}

// PrivacyConfig controls retention of user interactions.
type PrivacyConfig struct {
	SaveText  bool
	SaveAudio bool
}

func decodePrivacyConfig(d *schema.Decoder) PrivacyConfig {
	return PrivacyConfig{
		SaveText:  d.BoolDefault("save_text", true),
		SaveAudio: d.BoolDefault("save_audio", false),
	}
}

// Dump serializes the section using canonical field names.
func (c PrivacyConfig) Dump() map[string]any {
	return map[string]any{
		"save_text":  c.SaveText,
		"save_audio": c.SaveAudio,
	}
}

// NeonUserConfig defines user configuration used in Neon Core. Unknown keys
// inside any section are always dropped; section values that fail coercion
// are validation errors.
type NeonUserConfig struct {
	// Skills holds per-skill settings; contents are arbitrary.
	Skills       map[string]map[string]any
	User         UserConfig
	Language     LanguageConfig
	Units        UnitsConfig
	Location     LocationConfig
	ResponseMode ResponseConfig
	Privacy      PrivacyConfig
}

// NewNeonUserConfig returns a config with every section at its defaults.
func NewNeonUserConfig() NeonUserConfig {
	c, _ := ParseNeonUserConfig(nil)
	return *c
}

// ParseNeonUserConfig validates and coerces a raw mapping.
func ParseNeonUserConfig(raw map[string]any) (*NeonUserConfig, error) {
	d := schema.NewDecoder(raw)
	c := DecodeNeonUserConfig(d)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &c, nil
}

// DecodeNeonUserConfig reads the config sections from an existing decoder,
// accumulating any validation errors on it.
func DecodeNeonUserConfig(d *schema.Decoder) NeonUserConfig {
	userD, _ := d.ChildOrEmpty("user")
	langD, _ := d.ChildOrEmpty("language")
	unitsD, _ := d.ChildOrEmpty("units")
	locD, _ := d.ChildOrEmpty("location")
	respD, _ := d.ChildOrEmpty("response_mode")
	privD, _ := d.ChildOrEmpty("privacy")
	return NeonUserConfig{
		Skills:       decodeSkills(d),
		User:         decodeUserConfig(userD),
		Language:     decodeLanguageConfig(langD),
		Units:        decodeUnitsConfig(unitsD),
		Location:     decodeLocationConfig(locD),
		ResponseMode: decodeResponseConfig(respD),
		Privacy:      decodePrivacyConfig(privD),
	}
}

func decodeSkills(d *schema.Decoder) map[string]map[string]any {
	raw := d.MapDefault("skills")
	skills := make(map[string]map[string]any, len(raw))
	for id, settings := range raw {
		m, ok := settings.(map[string]any)
		if !ok {
			d.Fail("skills."+id, errors.NewTypeMismatch("", "mapping", settings))
			continue
		}
		skills[id] = m
	}
	return skills
}

// Dump serializes the full configuration using canonical field names.
func (c NeonUserConfig) Dump() map[string]any {
	skills := make(map[string]any, len(c.Skills))
	for id, settings := range c.Skills {
		skills[id] = settings
	}
	return map[string]any{
		"skills":        skills,
		"user":          c.User.Dump(),
		"language":      c.Language.Dump(),
		"units":         c.Units.Dump(),
		"location":      c.Location.Dump(),
		"response_mode": c.ResponseMode.Dump(),
		"privacy":       c.Privacy.Dump(),
	}
}

// KlatConfig defines user configuration used in the Klat chat service.
type KlatConfig struct {
	IsTmp       bool
	Preferences map[string]any
}

func decodeKlatConfig(d *schema.Decoder) KlatConfig {
	return KlatConfig{
		IsTmp:       d.BoolDefault("is_tmp", true),
		Preferences: d.MapDefault("preferences"),
	}
}

// ParseKlatConfig validates and coerces a raw mapping.
func ParseKlatConfig(raw map[string]any) (*KlatConfig, error) {
	d := schema.NewDecoder(raw)
	c := decodeKlatConfig(d)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Dump serializes the section using canonical field names.
func (c KlatConfig) Dump() map[string]any {
	return map[string]any{
		"is_tmp":      c.IsTmp,
		"preferences": c.Preferences,
	}
}

// BrainForgeConfig defines configuration used in BrainForge LLM
// applications: a map of backend to model to allowed personas.
type BrainForgeConfig struct {
	InferenceAccess map[string]map[string][]string
}

func decodeBrainForgeConfig(d *schema.Decoder) BrainForgeConfig {
	raw := d.MapDefault("inference_access")
	access := make(map[string]map[string][]string, len(raw))
	for backend, modelsRaw := range raw {
		models, ok := modelsRaw.(map[string]any)
		if !ok {
			d.Fail("inference_access."+backend,
				errors.NewTypeMismatch("", "mapping", modelsRaw))
			continue
		}
		typed := make(map[string][]string, len(models))
		for model, personasRaw := range models {
			personas, err := toStringList(personasRaw)
			if err != nil {
				d.Fail("inference_access."+backend+"."+model,
					errors.NewTypeMismatch("", "list of strings", personasRaw))
				continue
			}
			typed[model] = personas
		}
		access[backend] = typed
	}
	return BrainForgeConfig{InferenceAccess: access}
}

// ParseBrainForgeConfig validates and coerces a raw mapping.
func ParseBrainForgeConfig(raw map[string]any) (*BrainForgeConfig, error) {
	d := schema.NewDecoder(raw)
	c := decodeBrainForgeConfig(d)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Dump serializes the section using canonical field names.
func (c BrainForgeConfig) Dump() map[string]any {
	access := make(map[string]any, len(c.InferenceAccess))
	for backend, models := range c.InferenceAccess {
		typed := make(map[string]any, len(models))
		for model, personas := range models {
			typed[model] = append([]string(nil), personas...)
		}
		access[backend] = typed
	}
	return map[string]any{"inference_access": access}
}

func toStringList(v any) ([]string, error) {
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

func ptrValue[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
