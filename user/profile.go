package user

import (
	"strconv"
	"strings"
	"time"
)

// UserProfile is the legacy flat profile shape consumed by Neon Core
// skills. It is derived from a User record rather than parsed from the
// wire; services that still speak the profile format build one with
// UserProfileFromUser.
type UserProfile struct {
	User     ProfileUser
	Speech   ProfileSpeech
	Units    ProfileUnits
	Location ProfileLocation
}

// ProfileUser carries identity fields plus values derived from them.
type ProfileUser struct {
	Username      string
	Password      string
	FirstName     string
	MiddleName    string
	LastName      string
	PreferredName string
	FullName      string
	// DOB is formatted YYYY/MM/DD in this legacy shape.
	DOB string
	// Age in whole years, as a string for historical reasons.
	Age       string
	Email     string
	AvatarURL string
	About     string
	Phone     string
}

// ProfileSpeech carries STT/TTS language selections. Primary-language
// fields use the bare language code ("en"); TTS fields keep the full
// locale ("en-us").
type ProfileSpeech struct {
	STTLanguage          string
	AltLanguages         []string
	TTSLanguage          string
	SecondaryTTSLanguage string
	TTSGender            string
	SecondaryTTSGender   string
	SpeedMultiplier      float64
}

// ProfileUnits mirrors UnitsConfig in the legacy shape.
type ProfileUnits struct {
	Time    int64
	Date    string
	Measure string
}

// ProfileLocation carries resolved location values including the current
// UTC offset in hours.
type ProfileLocation struct {
	Lat float64
	Lng float64
	TZ  string
	UTC float64
}

// NewUserProfile returns a profile with every field at its default.
func NewUserProfile() *UserProfile {
	return &UserProfile{
		Speech: ProfileSpeech{
			STTLanguage:          "en",
			AltLanguages:         []string{},
			TTSLanguage:          "en-us",
			SecondaryTTSLanguage: "en-us",
			TTSGender:            "female",
			SecondaryTTSGender:   "female",
			SpeedMultiplier:      1.0,
		},
		Units: ProfileUnits{Time: 12, Date: "MDY", Measure: "imperial"},
	}
}

// UserProfileFromUser derives the legacy profile from a canonical User
// record.
func UserProfileFromUser(u *User) *UserProfile {
	p := NewUserProfile()
	cfg := u.Neon

	p.User = ProfileUser{
		Username:      u.Username,
		Password:      stringValue(u.PasswordHash),
		FirstName:     cfg.User.FirstName,
		MiddleName:    cfg.User.MiddleName,
		LastName:      cfg.User.LastName,
		PreferredName: cfg.User.PreferredName,
		FullName:      joinNames(cfg.User.FirstName, cfg.User.MiddleName, cfg.User.LastName),
		Email:         cfg.User.Email,
		AvatarURL:     cfg.User.AvatarURL,
		About:         cfg.User.About,
		Phone:         cfg.User.Phone,
	}
	if cfg.User.DOB != nil {
		p.User.DOB = cfg.User.DOB.Format("2006/01/02")
		p.User.Age = strconv.Itoa(ageYears(*cfg.User.DOB, time.Now().UTC()))
	}

	if len(cfg.Language.InputLanguages) > 0 {
		p.Speech.STTLanguage = primaryLanguage(cfg.Language.InputLanguages[0])
		p.Speech.AltLanguages = []string{}
		for _, lang := range cfg.Language.InputLanguages[1:] {
			p.Speech.AltLanguages = append(p.Speech.AltLanguages, primaryLanguage(lang))
		}
	}
	if len(cfg.Language.OutputLanguages) > 0 {
		p.Speech.TTSLanguage = cfg.Language.OutputLanguages[0]
		p.Speech.SecondaryTTSLanguage = p.Speech.TTSLanguage
		if len(cfg.Language.OutputLanguages) > 1 {
			p.Speech.SecondaryTTSLanguage = cfg.Language.OutputLanguages[1]
		}
	}
	p.Speech.TTSGender = cfg.ResponseMode.TTSGender
	p.Speech.SecondaryTTSGender = cfg.ResponseMode.TTSGender
	p.Speech.SpeedMultiplier = cfg.ResponseMode.TTSSpeedMultiplier

	p.Units = ProfileUnits{
		Time:    cfg.Units.Time,
		Date:    cfg.Units.Date,
		Measure: cfg.Units.Measure,
	}

	if cfg.Location.Latitude != nil {
		p.Location.Lat = *cfg.Location.Latitude
	}
	if cfg.Location.Longitude != nil {
		p.Location.Lng = *cfg.Location.Longitude
	}
	if cfg.Location.Timezone != nil {
		p.Location.TZ = *cfg.Location.Timezone
		if loc, err := time.LoadLocation(p.Location.TZ); err == nil {
			_, offset := time.Now().In(loc).Zone()
			p.Location.UTC = float64(offset) / 3600
		}
	}

	return p
}

// Dump serializes the profile in the legacy wire layout.
func (p *UserProfile) Dump() map[string]any {
	return map[string]any{
		"user": map[string]any{
			"username":       p.User.Username,
			"password":       p.User.Password,
			"first_name":     p.User.FirstName,
			"middle_name":    p.User.MiddleName,
			"last_name":      p.User.LastName,
			"preferred_name": p.User.PreferredName,
			"full_name":      p.User.FullName,
			"dob":            p.User.DOB,
			"age":            p.User.Age,
			"email":          p.User.Email,
			"avatar_url":     p.User.AvatarURL,
			"about":          p.User.About,
			"phone":          p.User.Phone,
		},
		"speech": map[string]any{
			"stt_language":           p.Speech.STTLanguage,
			"alt_languages":          append([]string(nil), p.Speech.AltLanguages...),
			"tts_language":           p.Speech.TTSLanguage,
			"secondary_tts_language": p.Speech.SecondaryTTSLanguage,
			"tts_gender":             p.Speech.TTSGender,
			"secondary_tts_gender":   p.Speech.SecondaryTTSGender,
			"speed_multiplier":       p.Speech.SpeedMultiplier,
		},
		"units": map[string]any{
			"time":    p.Units.Time,
			"date":    p.Units.Date,
			"measure": p.Units.Measure,
		},
		"location": map[string]any{
			"lat": p.Location.Lat,
			"lng": p.Location.Lng,
			"tz":  p.Location.TZ,
			"utc": p.Location.UTC,
		},
	}
}

func joinNames(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	return strings.Join(nonEmpty, " ")
}

func primaryLanguage(locale string) string {
	return strings.SplitN(locale, "-", 2)[0]
}

func ageYears(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() ||
		(now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
