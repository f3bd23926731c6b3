package settings

import (
	"pingo-api/internal/domain/settings"
)

func ToResponseSettings(s settings.Settings) Settings {
	return Settings{
		Theme:             s.Theme,
		NavbarTitle:       s.NavbarTitle,
		Logo:              optional(s.LogoPath),
		BackgroundImage:   optional(s.BackgroundPath),
		MaxUploadSize:     s.MaxUploadSize,
		BlurIntensity:     s.BlurIntensity,
		MaxValidity:       string(s.MaxValidity),
		AllowRegistration: s.AllowRegistration,
		ExpirationAction:  string(s.ExpirationAction),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
