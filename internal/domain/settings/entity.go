package settings

import (
	"time"
)

type (
	ExpirationAction string
	MaxValidity      string
)

const (
	ActionDelete      ExpirationAction = "delete"
	ActionUnavailable ExpirationAction = "unavailable"

	Validity7Days   MaxValidity = "7days"
	Validity1Month  MaxValidity = "1month"
	Validity6Months MaxValidity = "6months"
	Validity1Year   MaxValidity = "1year"
	ValidityNever   MaxValidity = "never"

	MinBlurIntensity = 0
	MaxBlurIntensity = 24
)

var validities = map[MaxValidity]time.Duration{
	Validity7Days:   7 * 24 * time.Hour,
	Validity1Month:  30 * 24 * time.Hour,
	Validity6Months: 182 * 24 * time.Hour,
	Validity1Year:   365 * 24 * time.Hour,
	ValidityNever:   0,
}

type Settings struct {
	Theme             string
	NavbarTitle       string
	LogoPath          string
	BackgroundPath    string
	MaxUploadSize     int64
	BlurIntensity     int
	MaxValidity       MaxValidity
	AllowRegistration bool
	ExpirationAction  ExpirationAction
}

// Default is used whenever no settings row has been written yet.
func Default() Settings {
	return Settings{
		Theme:             "light",
		NavbarTitle:       "PinGO",
		MaxUploadSize:     100 << 20,
		BlurIntensity:     0,
		MaxValidity:       Validity7Days,
		AllowRegistration: true,
		ExpirationAction:  ActionUnavailable,
	}
}

// ParseExpirationAction never fails: anything unknown means "unavailable".
func ParseExpirationAction(s string) ExpirationAction {
	if a := ExpirationAction(s); a == ActionDelete {
		return a
	}
	return ActionUnavailable
}

func (a ExpirationAction) Valid() bool {
	return a == ActionDelete || a == ActionUnavailable
}

func (v MaxValidity) Valid() bool {
	_, ok := validities[v]
	return ok
}

// Duration is zero for ValidityNever and for unknown values.
func (v MaxValidity) Duration() time.Duration { return validities[v] }
