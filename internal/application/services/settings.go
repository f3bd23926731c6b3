package services

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"pingo-api/internal/application/ports"
	"pingo-api/internal/domain/settings"
	"pingo-api/internal/domain/user"
	"pingo-api/internal/infrastructure/metrics"
	"pingo-api/internal/infrastructure/storage"
)

type SettingsService struct {
	settings settings.Repository
	users    user.Repository
	assets   ports.AssetWriter
	logger   *zap.Logger
	mCounter *prometheus.CounterVec
}

func NewSettingsService(
	settingsRepo settings.Repository,
	users user.Repository,
	assets ports.AssetWriter,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) ports.SettingsService {
	return &SettingsService{
		settings: settingsRepo,
		users:    users,
		assets:   assets,
		logger:   logger,
		mCounter: mCounter,
	}
}

func (s *SettingsService) Get(ctx context.Context) (settings.Settings, error) {
	st, err := s.settings.Fetch(ctx)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("fetch settings: %w", err)
	}
	if st == nil {
		return settings.Default(), nil
	}
	return *st, nil
}

// Update applies a form on top of the stored settings. Invalid field values
// are ignored; asset failures abort the whole update. Superseded assets are
// removed only after the new settings are saved, and on failure the freshly
// stored ones are removed instead.
func (s *SettingsService) Update(ctx context.Context, actor user.ID, form settings.Form) (settings.Settings, error) {
	admin, err := s.requireAdmin(ctx, actor)
	if err != nil {
		return settings.Settings{}, err
	}

	cur, err := s.Get(ctx)
	if err != nil {
		return settings.Settings{}, err
	}

	s.applyFields(&cur, form)

	var swaps []assetSwap
	nc := storage.NamingContext{Username: admin.Username}
	for _, a := range []struct {
		category storage.Category
		data     []byte
		path     *string
	}{
		{storage.CategoryLogo, form.Logo, &cur.LogoPath},
		{storage.CategoryBackground, form.Background, &cur.BackgroundPath},
	} {
		if a.data == nil {
			continue
		}
		stored, err := s.assets.Store(a.category, a.data, nc)
		if err != nil {
			s.discard(swaps, func(w assetSwap) string { return w.stored })
			return settings.Settings{}, fmt.Errorf("store %s: %w", a.category, err)
		}
		swaps = append(swaps, assetSwap{category: a.category, previous: *a.path, stored: stored})
		*a.path = stored
	}

	if err = s.settings.Save(ctx, cur); err != nil {
		s.discard(swaps, func(w assetSwap) string { return w.stored })
		return settings.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	s.discard(swaps, func(w assetSwap) string { return w.previous })
	for range swaps {
		s.mCounter.WithLabelValues(metrics.AssetsReplacedTotal).Inc()
	}

	s.logger.Info("settings updated", zap.Int64("admin_id", int64(actor)))

	return cur, nil
}

// assetSwap records one asset written during an Update.
type assetSwap struct {
	category storage.Category
	previous string
	stored   string
}

// discard removes the side of each swap picked by which, skipping swaps whose
// file did not change since both sides then name the same file.
func (s *SettingsService) discard(swaps []assetSwap, which func(assetSwap) string) {
	for _, w := range swaps {
		if w.previous == w.stored {
			continue
		}
		if p := which(w); p != "" {
			s.assets.Discard(w.category, p)
		}
	}
}

func (s *SettingsService) applyFields(cur *settings.Settings, form settings.Form) {
	if v := form.Theme; v != nil && *v != "" {
		cur.Theme = *v
	}
	if v := form.NavbarTitle; v != nil && *v != "" {
		cur.NavbarTitle = *v
	}
	if v := form.MaxValidity; v != nil {
		if mv := settings.MaxValidity(*v); mv.Valid() {
			cur.MaxValidity = mv
		} else {
			s.ignored("maxValidity", *v)
		}
	}
	if v := form.MaxUploadSize; v != nil {
		if n, err := humanize.ParseBytes(*v); err == nil && n > 0 && n <= math.MaxInt64 {
			cur.MaxUploadSize = int64(n)
		} else {
			s.ignored("maxUploadSize", *v)
		}
	}
	if v := form.BlurIntensity; v != nil {
		if n, err := strconv.Atoi(*v); err == nil && n >= settings.MinBlurIntensity && n <= settings.MaxBlurIntensity {
			cur.BlurIntensity = n
		} else {
			s.ignored("blurIntensity", *v)
		}
	}
	if v := form.AllowRegistration; v != nil {
		if b, err := strconv.ParseBool(*v); err == nil {
			cur.AllowRegistration = b
		} else {
			s.ignored("allowRegistration", *v)
		}
	}
	if v := form.ExpirationAction; v != nil {
		if a := settings.ExpirationAction(*v); a.Valid() {
			cur.ExpirationAction = a
		} else {
			s.ignored("expirationAction", *v)
		}
	}
}

func (s *SettingsService) ignored(field, value string) {
	s.logger.Debug("ignoring invalid settings value", zap.String("field", field), zap.String("value", value))
}

func (s *SettingsService) QuickSet(ctx context.Context, actor user.ID, key string, value any) (settings.Settings, error) {
	if _, err := s.requireAdmin(ctx, actor); err != nil {
		return settings.Settings{}, err
	}
	if key != settings.KeyAllowRegistration {
		return settings.Settings{}, ErrUnknownSetting
	}
	b, ok := value.(bool)
	if !ok {
		return settings.Settings{}, ErrInvalidValue
	}

	cur, err := s.Get(ctx)
	if err != nil {
		return settings.Settings{}, err
	}
	cur.AllowRegistration = b

	if err = s.settings.Save(ctx, cur); err != nil {
		return settings.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	return cur, nil
}

func (s *SettingsService) requireAdmin(ctx context.Context, actor user.ID) (*user.User, error) {
	if actor.IsAnonymous() {
		return nil, ErrForbidden
	}
	u, err := s.users.FetchUser(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("fetch user %d: %w", actor, err)
	}
	if u == nil || !u.IsAdmin {
		return nil, ErrForbidden
	}
	return u, nil
}
