package settings

import (
	domain "pingo-api/internal/domain/settings"
)

// fromDBModel keeps whatever was stored; an unknown expiration action
// collapses to "unavailable".
func fromDBModel(m *Settings) *domain.Settings {
	return &domain.Settings{
		Theme:             m.Theme,
		NavbarTitle:       m.NavbarTitle,
		LogoPath:          m.LogoPath,
		BackgroundPath:    m.BackgroundPath,
		MaxUploadSize:     m.MaxUploadSize,
		BlurIntensity:     int(m.BlurIntensity),
		MaxValidity:       domain.MaxValidity(m.MaxValidity),
		AllowRegistration: m.AllowRegistration,
		ExpirationAction:  domain.ParseExpirationAction(m.ExpirationAction),
	}
}

func toDBModel(s domain.Settings) *Settings {
	return &Settings{
		Theme:             s.Theme,
		NavbarTitle:       s.NavbarTitle,
		LogoPath:          s.LogoPath,
		BackgroundPath:    s.BackgroundPath,
		MaxUploadSize:     s.MaxUploadSize,
		BlurIntensity:     int32(s.BlurIntensity),
		MaxValidity:       string(s.MaxValidity),
		AllowRegistration: s.AllowRegistration,
		ExpirationAction:  string(s.ExpirationAction),
	}
}
