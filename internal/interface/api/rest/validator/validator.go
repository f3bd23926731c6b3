package validator

import (
	"regexp"
	"strings"

	"pingo-api/internal/interface/api/rest/dto/settings"
)

const maxUploadIDLen = 64

// '_' separates the id from the file name on disk, so an id carrying it could
// prefix the files of another upload ("abc" vs "abc_x").
var uploadIDRe = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// IsUploadID accepts the URL-safe identifiers handed out at upload time.
func IsUploadID(s string) bool {
	return len(s) <= maxUploadIDLen && uploadIDRe.MatchString(s)
}

// IsFileName rejects names that can never match a stored file.
func IsFileName(s string) bool {
	return s != "" && !strings.ContainsRune(s, '\x00')
}

func ValidateQuickSetting(r settings.QuickSettingRequest) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(r.Setting) == "" {
		errs["setting"] = "setting is required"
	}
	if r.Value == nil {
		errs["value"] = "value is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
