package ports

import (
	"pingo-api/internal/domain/user"
)

type CredentialVerifier interface {
	// VerifyCredential never fails loudly: an unusable token is user.Anonymous, false.
	VerifyCredential(token string) (user.ID, bool)
}
