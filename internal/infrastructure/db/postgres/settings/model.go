package settings

type Settings struct {
	Theme             string
	NavbarTitle       string
	LogoPath          string
	BackgroundPath    string
	MaxUploadSize     int64
	BlurIntensity     int32
	MaxValidity       string
	AllowRegistration bool
	ExpirationAction  string
}
