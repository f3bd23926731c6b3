package settings

type Settings struct {
	Theme             string  `json:"theme"`
	NavbarTitle       string  `json:"navbarTitle"`
	Logo              *string `json:"logo,omitempty"`
	BackgroundImage   *string `json:"backgroundImage,omitempty"`
	MaxUploadSize     int64   `json:"maxUploadSize"`
	BlurIntensity     int     `json:"blurIntensity"`
	MaxValidity       string  `json:"maxValidity"`
	AllowRegistration bool    `json:"allowRegistration"`
	ExpirationAction  string  `json:"expirationAction"`
}
