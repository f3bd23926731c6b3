package rest

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pingo-api/internal/application/ports"
	domain "pingo-api/internal/domain/settings"
	dto "pingo-api/internal/interface/api/rest/dto/settings"
	"pingo-api/internal/interface/api/rest/middleware"
	"pingo-api/internal/interface/api/rest/validator"
)

const (
	// 20MB
	maxAssetSize  = int64(20 << 20)
	maxFormMemory = int64(8 << 20)
)

var (
	errAssetTooLarge = errors.New("asset too large")

	// maxSettingsBody bounds the whole admin settings request.
	maxSettingsBody = 2*maxAssetSize + maxFormMemory
)

type SettingsController struct {
	settingsService ports.SettingsService
	logger          *zap.Logger
}

func NewSettingsController(
	r *gin.Engine,
	settingsService ports.SettingsService,
	logger *zap.Logger,
	verifier ports.CredentialVerifier,
) *SettingsController {
	sc := &SettingsController{
		settingsService: settingsService,
		logger:          logger,
	}

	r.GET(RouteSettings, sc.GetSettingsHandler)
	r.POST(RouteAdminSettings, middleware.AuthMiddleware(verifier), sc.UpdateSettingsHandler)
	r.POST(RouteAdminQuickSettings, middleware.AuthMiddleware(verifier), sc.QuickSettingsHandler)

	return sc
}

func (sc *SettingsController) GetSettingsHandler(c *gin.Context) {
	noCache(c)

	s, err := sc.settingsService.Get(c.Request.Context())
	if err != nil {
		respondError(c, sc.logger, "Get()", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResponseSettings(s))
}

func (sc *SettingsController) UpdateSettingsHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSettingsBody)
	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	form := domain.Form{
		Theme:             postForm(c, "theme"),
		NavbarTitle:       postForm(c, "navbarTitle"),
		MaxValidity:       postForm(c, "maxValidity"),
		MaxUploadSize:     postForm(c, "maxUploadSize"),
		BlurIntensity:     postForm(c, "blurIntensity"),
		AllowRegistration: postForm(c, "allowRegistration"),
		ExpirationAction:  postForm(c, "expirationAction"),
	}

	var err error
	if form.Logo, err = readAsset(c, "logo"); err != nil {
		sc.assetError(c, err)
		return
	}
	if form.Background, err = readAsset(c, "backgroundImage"); err != nil {
		sc.assetError(c, err)
		return
	}

	s, err := sc.settingsService.Update(c.Request.Context(), middleware.UserID(c), form)
	if err != nil {
		respondError(c, sc.logger, "Update()", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResponseSettings(s))
}

func (sc *SettingsController) QuickSettingsHandler(c *gin.Context) {
	var req dto.QuickSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}
	if errs := validator.ValidateQuickSetting(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	s, err := sc.settingsService.QuickSet(c.Request.Context(), middleware.UserID(c), req.Setting, req.Value)
	if err != nil {
		respondError(c, sc.logger, "QuickSet()", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResponseSettings(s))
}

func (sc *SettingsController) assetError(c *gin.Context, err error) {
	if errors.Is(err, errAssetTooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "asset too large"})
		return
	}
	sc.logger.Error("reading asset error", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset upload"})
}

func postForm(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

// readAsset returns nil when the field was not sent.
func readAsset(c *gin.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	if fh.Size > maxAssetSize {
		return nil, errAssetTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxAssetSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxAssetSize {
		return nil, errAssetTooLarge
	}
	return data, nil
}
