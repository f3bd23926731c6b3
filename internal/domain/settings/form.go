package settings

// Form is an admin settings submission. Nil fields were not sent;
// nil asset slices leave the stored asset untouched.
type Form struct {
	Theme             *string
	NavbarTitle       *string
	MaxValidity       *string
	MaxUploadSize     *string
	BlurIntensity     *string
	AllowRegistration *string
	ExpirationAction  *string

	Logo       []byte
	Background []byte
}

const KeyAllowRegistration = "allowRegistration"
