package upload

import (
	"time"

	"pingo-api/internal/domain/user"
)

type (
	// File is one physical file of an upload as found on disk.
	File struct {
		Physical string
		Name     string
		Size     int64
		ModTime  time.Time
	}

	// Credentials are the raw tokens a request carried. Both may be empty.
	Credentials struct {
		Bearer string
		Cookie string
	}

	Access struct {
		Available bool
		Owner     user.ID
		Viewer    user.ID
	}

	// Delivery holds exactly one of Single or Archive.
	Delivery struct {
		Single  *File
		Archive []File
	}

	Metadata struct {
		UploadID string
		Files    []File
		Uploader Uploader
	}
)

// UnknownUploader is reported when the owner row is gone.
const UnknownUploader = "Unknown"

func (a Access) IsOwner() bool { return !a.Viewer.IsAnonymous() && a.Viewer == a.Owner }
