package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pingo-api/internal/application/ports"
	"pingo-api/internal/domain/upload"
	"pingo-api/internal/domain/user"
)

// AccessService decides whether a request may read an upload. It reads
// state on every call and never mutates it.
type AccessService struct {
	uploads  upload.Repository
	verifier ports.CredentialVerifier
	logger   *zap.Logger
}

func NewAccessService(
	uploads upload.Repository,
	verifier ports.CredentialVerifier,
	logger *zap.Logger,
) *AccessService {
	return &AccessService{
		uploads:  uploads,
		verifier: verifier,
		logger:   logger,
	}
}

func (s *AccessService) ResolveAccess(ctx context.Context, uploadID string, creds upload.Credentials) (upload.Access, error) {
	g, err := s.uploads.LookupUpload(ctx, uploadID)
	if err != nil {
		return upload.Access{}, fmt.Errorf("lookup upload %s: %w", uploadID, err)
	}
	if g == nil || g.State.IsDeleted() {
		return upload.Access{}, ErrNotFound
	}

	a := upload.Access{
		Available: g.State.IsServable(),
		Owner:     g.Owner,
		Viewer:    s.identify(creds),
	}
	if g.State.IsUnavailable() && !a.IsOwner() {
		return upload.Access{}, ErrGone
	}

	return a, nil
}

// identify uses the bearer token when one was sent and the cookie otherwise.
// A rejected bearer token does not fall back to the cookie.
func (s *AccessService) identify(creds upload.Credentials) user.ID {
	tok := creds.Bearer
	if tok == "" {
		tok = creds.Cookie
	}
	if tok == "" {
		return user.Anonymous
	}

	id, ok := s.verifier.VerifyCredential(tok)
	if !ok {
		s.logger.Debug("credential rejected, continuing as anonymous")
		return user.Anonymous
	}
	return id
}
