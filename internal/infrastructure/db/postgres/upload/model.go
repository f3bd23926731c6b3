package upload

import (
	"time"
)

type (
	Gate struct {
		UserID         int64
		IsAvailable    bool
		IsDeleted      bool
		DeletionReason string
		DeletedAt      *time.Time
	}
	Expired struct {
		UploadID string
		// Files is the JSON array kept in uploads.files.
		Files string
	}
	Uploader struct {
		Username  string
		Avatar    string
		Email     string
		ExpiresAt *time.Time
	}
)
