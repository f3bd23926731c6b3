package upload

import (
	"net/url"

	"pingo-api/internal/domain/upload"
)

// FileURL is the per-file download route of an upload.
func FileURL(uploadID, name string) string {
	return "/api/file/" + url.PathEscape(uploadID) + "/" + url.PathEscape(name)
}

func ToResponseMetadata(m upload.Metadata) Metadata {
	files := make([]File, len(m.Files))
	for i, f := range m.Files {
		files[i] = File{
			Name: f.Name,
			Size: f.Size,
			URL:  FileURL(m.UploadID, f.Name),
		}
	}

	return Metadata{
		Files: files,
		Uploader: Uploader{
			Username:       m.Uploader.Username,
			Avatar:         optional(m.Uploader.Avatar),
			Email:          optional(m.Uploader.Email),
			ExpirationDate: m.Uploader.ExpiresAt,
		},
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
