package upload

import (
	"time"
)

type (
	File struct {
		Name string `json:"name"`
		Size int64  `json:"size"`
		URL  string `json:"url"`
	}
	Uploader struct {
		Username       string     `json:"username"`
		Avatar         *string    `json:"avatar"`
		Email          *string    `json:"email"`
		ExpirationDate *time.Time `json:"expirationDate"`
	}
	Metadata struct {
		Files    []File   `json:"files"`
		Uploader Uploader `json:"uploader"`
	}
)
