package upload

import (
	"encoding/json"
	"fmt"

	domain "pingo-api/internal/domain/upload"
	"pingo-api/internal/domain/user"
)

func fromGateModel(m *Gate) *domain.Gate {
	return &domain.Gate{
		Owner: user.ID(m.UserID),
		State: domain.StateFromFlags(m.IsAvailable, m.IsDeleted, m.DeletionReason, m.DeletedAt),
	}
}

// fromExpiredModel always carries the id; Files is empty when the manifest
// cannot be decoded.
func fromExpiredModel(m Expired) (domain.Expired, error) {
	var files []string
	if m.Files != "" {
		if err := json.Unmarshal([]byte(m.Files), &files); err != nil {
			return domain.Expired{ID: m.UploadID}, fmt.Errorf("decode manifest of %s: %w", m.UploadID, err)
		}
	}
	return domain.Expired{ID: m.UploadID, Files: files}, nil
}

func fromUploaderModel(m *Uploader) *domain.Uploader {
	return &domain.Uploader{
		Username:  m.Username,
		Avatar:    m.Avatar,
		Email:     m.Email,
		ExpiresAt: m.ExpiresAt,
	}
}
