package services

import (
	"context"
	"time"

	"github.com/spf13/afero"

	"pingo-api/internal/domain/settings"
	"pingo-api/internal/domain/upload"
	"pingo-api/internal/domain/user"
	"pingo-api/internal/infrastructure/mq"
	"pingo-api/internal/infrastructure/storage"
)

type fakeUploadRepo struct {
	LookupUploadFunc    func(ctx context.Context, id string) (*upload.Gate, error)
	QueryExpiredFunc    func(ctx context.Context, now time.Time) ([]upload.Expired, error)
	MarkDeletedFunc     func(ctx context.Context, id, reason string, at time.Time) (bool, error)
	MarkUnavailableFunc func(ctx context.Context, id string) (bool, error)
	FetchUploaderFunc   func(ctx context.Context, id string) (*upload.Uploader, error)
}

func (f *fakeUploadRepo) LookupUpload(ctx context.Context, id string) (*upload.Gate, error) {
	return f.LookupUploadFunc(ctx, id)
}
func (f *fakeUploadRepo) QueryExpired(ctx context.Context, now time.Time) ([]upload.Expired, error) {
	return f.QueryExpiredFunc(ctx, now)
}
func (f *fakeUploadRepo) MarkDeleted(ctx context.Context, id, reason string, at time.Time) (bool, error) {
	return f.MarkDeletedFunc(ctx, id, reason, at)
}
func (f *fakeUploadRepo) MarkUnavailable(ctx context.Context, id string) (bool, error) {
	return f.MarkUnavailableFunc(ctx, id)
}
func (f *fakeUploadRepo) FetchUploader(ctx context.Context, id string) (*upload.Uploader, error) {
	return f.FetchUploaderFunc(ctx, id)
}

type fakeSettingsRepo struct {
	FetchFunc func(ctx context.Context) (*settings.Settings, error)
	SaveFunc  func(ctx context.Context, s settings.Settings) error
}

func (f *fakeSettingsRepo) Fetch(ctx context.Context) (*settings.Settings, error) {
	return f.FetchFunc(ctx)
}
func (f *fakeSettingsRepo) Save(ctx context.Context, s settings.Settings) error {
	return f.SaveFunc(ctx, s)
}

type fakeUserRepo struct {
	FetchUserFunc func(ctx context.Context, id user.ID) (*user.User, error)
}

func (f *fakeUserRepo) FetchUser(ctx context.Context, id user.ID) (*user.User, error) {
	return f.FetchUserFunc(ctx, id)
}

// tokenVerifier accepts exactly the tokens it holds.
type tokenVerifier map[string]user.ID

func (v tokenVerifier) VerifyCredential(token string) (user.ID, bool) {
	id, ok := v[token]
	if !ok {
		return user.Anonymous, false
	}
	return id, true
}

type fakeAssets struct {
	StoreFunc   func(category storage.Category, data []byte, nc storage.NamingContext) (string, error)
	DiscardFunc func(category storage.Category, url string)
}

func (f *fakeAssets) Store(category storage.Category, data []byte, nc storage.NamingContext) (string, error) {
	return f.StoreFunc(category, data, nc)
}
func (f *fakeAssets) Discard(category storage.Category, url string) {
	if f.DiscardFunc != nil {
		f.DiscardFunc(category, url)
	}
}

type recordingEmitter struct {
	events []mq.Event
	err    error
}

func (r *recordingEmitter) Emit(_ context.Context, e mq.Event) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

type staticGate struct {
	access upload.Access
	err    error
}

func (g staticGate) ResolveAccess(context.Context, string, upload.Credentials) (upload.Access, error) {
	return g.access, g.err
}

// memUploads builds an UploadStore over an in-memory filesystem.
func memUploads(files map[string]string, mod time.Time) (*storage.UploadStore, afero.Fs) {
	fsys := afero.NewMemMapFs()
	_ = fsys.MkdirAll("/uploads", 0o755)
	for name, body := range files {
		_ = afero.WriteFile(fsys, "/uploads/"+name, []byte(body), 0o644)
		_ = fsys.Chtimes("/uploads/"+name, mod, mod)
	}
	return storage.NewUploadStore(fsys, "/uploads"), fsys
}
