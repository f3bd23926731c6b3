package rest

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pingo-api/internal/application/ports"
	"pingo-api/internal/application/services"
	"pingo-api/internal/domain/settings"
	"pingo-api/internal/domain/user"
	"pingo-api/internal/infrastructure/jwt"
	"pingo-api/internal/infrastructure/storage"
)

type FakeSettingsService struct {
	GetFunc      func(ctx context.Context) (settings.Settings, error)
	UpdateFunc   func(ctx context.Context, actor user.ID, form settings.Form) (settings.Settings, error)
	QuickSetFunc func(ctx context.Context, actor user.ID, key string, value any) (settings.Settings, error)
}

func (f *FakeSettingsService) Get(ctx context.Context) (settings.Settings, error) {
	if f.GetFunc == nil {
		return settings.Settings{}, errors.New("not used")
	}
	return f.GetFunc(ctx)
}
func (f *FakeSettingsService) Update(ctx context.Context, actor user.ID, form settings.Form) (settings.Settings, error) {
	if f.UpdateFunc == nil {
		return settings.Settings{}, errors.New("not used")
	}
	return f.UpdateFunc(ctx, actor, form)
}
func (f *FakeSettingsService) QuickSet(ctx context.Context, actor user.ID, key string, value any) (settings.Settings, error) {
	if f.QuickSetFunc == nil {
		return settings.Settings{}, errors.New("not used")
	}
	return f.QuickSetFunc(ctx, actor, key, value)
}

const adminID = int64(1)

// requireAdminFake mirrors the service rule: only adminID may write.
func requireAdminFake(actor user.ID) error {
	if actor != user.ID(adminID) {
		return services.ErrForbidden
	}
	return nil
}

func setupSettingsRouter(t *testing.T, ss ports.SettingsService) *gin.Engine {
	t.Helper()
	r := newTestRouter()
	NewSettingsController(r, ss, zap.NewNop(), jwt.New(testSecret))
	return r
}

func TestSettingsController_GetSettingsHandler(t *testing.T) {
	s := settings.Default()
	s.LogoPath = "/logos/logo.png"

	r := setupSettingsRouter(t, &FakeSettingsService{
		GetFunc: func(context.Context) (settings.Settings, error) { return s, nil },
	})

	rr := doReq(t, r, http.MethodGet, RouteSettings, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no-cache", rr.Header().Get("Pragma"))
	assert.JSONEq(t, `{
		"theme": "light",
		"navbarTitle": "PinGO",
		"logo": "/logos/logo.png",
		"maxUploadSize": 104857600,
		"blurIntensity": 0,
		"maxValidity": "7days",
		"allowRegistration": true,
		"expirationAction": "unavailable"
	}`, rr.Body.String())
}

func TestSettingsController_GetSettingsHandler_StoreError(t *testing.T) {
	r := setupSettingsRouter(t, &FakeSettingsService{
		GetFunc: func(context.Context) (settings.Settings, error) {
			return settings.Settings{}, errors.New("db down")
		},
	})

	rr := doReq(t, r, http.MethodGet, RouteSettings, nil, nil)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal server error", errorOf(t, rr))
}

func TestSettingsController_UpdateSettingsHandler_Auth(t *testing.T) {
	update := func(_ context.Context, actor user.ID, _ settings.Form) (settings.Settings, error) {
		if err := requireAdminFake(actor); err != nil {
			return settings.Settings{}, err
		}
		return settings.Default(), nil
	}

	tests := []struct {
		name       string
		headers    func(t *testing.T) map[string]string
		wantStatus int
		wantErr    string
	}{
		{
			name:       "no credentials",
			headers:    func(*testing.T) map[string]string { return nil },
			wantStatus: http.StatusUnauthorized,
			wantErr:    "missing credentials",
		},
		{
			name: "bad token",
			headers: func(*testing.T) map[string]string {
				return map[string]string{"Authorization": "Bearer nope"}
			},
			wantStatus: http.StatusUnauthorized,
			wantErr:    "invalid token",
		},
		{
			name:       "not an admin",
			headers:    func(t *testing.T) map[string]string { return bearer(t, 7) },
			wantStatus: http.StatusForbidden,
			wantErr:    "admin access required",
		},
		{
			name:       "admin via bearer",
			headers:    func(t *testing.T) map[string]string { return bearer(t, adminID) },
			wantStatus: http.StatusOK,
		},
		{
			name: "admin via cookie",
			headers: func(t *testing.T) map[string]string {
				return map[string]string{"Cookie": cookieHeader(t, adminID)}
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := setupSettingsRouter(t, &FakeSettingsService{UpdateFunc: update})

			rr := doMultipartReq(t, r, RouteAdminSettings, map[string]string{"theme": "dark"}, nil, tt.headers(t))
			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, errorOf(t, rr))
			}
		})
	}
}

func cookieHeader(t *testing.T, userID int64) string {
	t.Helper()
	tok := bearer(t, userID)["Authorization"][len("Bearer "):]
	return "auth_token=" + tok
}

func TestSettingsController_UpdateSettingsHandler_Form(t *testing.T) {
	var got settings.Form
	r := setupSettingsRouter(t, &FakeSettingsService{
		UpdateFunc: func(_ context.Context, actor user.ID, form settings.Form) (settings.Settings, error) {
			got = form
			s := settings.Default()
			s.Theme = "dark"
			return s, nil
		},
	})

	logo := []byte("\x89PNG\r\n\x1a\n")
	rr := doMultipartReq(t, r, RouteAdminSettings,
		map[string]string{"theme": "dark", "maxUploadSize": "2GB", "allowRegistration": "false"},
		map[string][]byte{"logo": logo},
		bearer(t, adminID),
	)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got.Theme)
	assert.Equal(t, "dark", *got.Theme)
	require.NotNil(t, got.MaxUploadSize)
	assert.Equal(t, "2GB", *got.MaxUploadSize)
	require.NotNil(t, got.AllowRegistration)
	assert.Equal(t, "false", *got.AllowRegistration)
	assert.Nil(t, got.NavbarTitle)
	assert.Nil(t, got.ExpirationAction)
	assert.Equal(t, logo, got.Logo)
	assert.Nil(t, got.Background)
}

func TestSettingsController_UpdateSettingsHandler_AssetErrors(t *testing.T) {
	t.Run("too large", func(t *testing.T) {
		called := false
		r := setupSettingsRouter(t, &FakeSettingsService{
			UpdateFunc: func(context.Context, user.ID, settings.Form) (settings.Settings, error) {
				called = true
				return settings.Default(), nil
			},
		})

		big := bytes.Repeat([]byte{0}, int(maxAssetSize)+1)
		rr := doMultipartReq(t, r, RouteAdminSettings, nil, map[string][]byte{"backgroundImage": big}, bearer(t, adminID))
		require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
		assert.False(t, called)
	})

	t.Run("whole body too large", func(t *testing.T) {
		prev := maxSettingsBody
		maxSettingsBody = 1 << 10
		t.Cleanup(func() { maxSettingsBody = prev })

		r := setupSettingsRouter(t, &FakeSettingsService{})

		rr := doMultipartReq(t, r, RouteAdminSettings,
			map[string]string{"navbarTitle": string(bytes.Repeat([]byte("x"), 4<<10))},
			nil, bearer(t, adminID))
		require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
		assert.Equal(t, "request too large", errorOf(t, rr))
	})

	t.Run("rejected by store", func(t *testing.T) {
		r := setupSettingsRouter(t, &FakeSettingsService{
			UpdateFunc: func(context.Context, user.ID, settings.Form) (settings.Settings, error) {
				return settings.Settings{}, storage.ErrInvalidAsset
			},
		})

		rr := doMultipartReq(t, r, RouteAdminSettings, nil, map[string][]byte{"logo": []byte("text")}, bearer(t, adminID))
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "asset must be a non-empty image", errorOf(t, rr))
	})

	t.Run("not multipart", func(t *testing.T) {
		r := setupSettingsRouter(t, &FakeSettingsService{})

		rr := doReq(t, r, http.MethodPost, RouteAdminSettings, map[string]string{"theme": "dark"}, bearer(t, adminID))
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "invalid request body", errorOf(t, rr))
	})
}

func TestSettingsController_QuickSettingsHandler(t *testing.T) {
	quickSet := func(_ context.Context, actor user.ID, key string, value any) (settings.Settings, error) {
		if err := requireAdminFake(actor); err != nil {
			return settings.Settings{}, err
		}
		if key != settings.KeyAllowRegistration {
			return settings.Settings{}, services.ErrUnknownSetting
		}
		b, ok := value.(bool)
		if !ok {
			return settings.Settings{}, services.ErrInvalidValue
		}
		s := settings.Default()
		s.AllowRegistration = b
		return s, nil
	}

	tests := []struct {
		name       string
		userID     int64
		body       any
		wantStatus int
		wantErr    string
	}{
		{"malformed json", adminID, "{", http.StatusBadRequest, "invalid request body"},
		{"missing value", adminID, map[string]any{"setting": "allowRegistration"}, http.StatusBadRequest, "invalid request body"},
		{"unknown setting", adminID, map[string]any{"setting": "theme", "value": "dark"}, http.StatusBadRequest, "unknown setting"},
		{"wrong type", adminID, map[string]any{"setting": "allowRegistration", "value": "yes"}, http.StatusBadRequest, "invalid setting value"},
		{"not an admin", 9, map[string]any{"setting": "allowRegistration", "value": false}, http.StatusForbidden, "admin access required"},
		{"ok", adminID, map[string]any{"setting": "allowRegistration", "value": false}, http.StatusOK, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := setupSettingsRouter(t, &FakeSettingsService{QuickSetFunc: quickSet})

			rr := doReq(t, r, http.MethodPost, RouteAdminQuickSettings, tt.body, bearer(t, tt.userID))
			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, errorOf(t, rr))
				return
			}
			assert.Contains(t, rr.Body.String(), `"allowRegistration":false`)
		})
	}
}

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrGone, http.StatusGone},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrUnknownSetting, http.StatusBadRequest},
		{services.ErrInvalidValue, http.StatusBadRequest},
		{storage.ErrInvalidAsset, http.StatusBadRequest},
		{errors.Join(errors.New("wrapped"), services.ErrGone), http.StatusGone},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, msg := mapServiceError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.NotEmpty(t, msg)
		})
	}
}
