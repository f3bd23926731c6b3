package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pingo-api/internal/application/services"
	"pingo-api/internal/infrastructure/storage"
)

func mapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "upload not found"
	case errors.Is(err, services.ErrGone):
		return http.StatusGone, "upload is no longer available"
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, "admin access required"
	case errors.Is(err, services.ErrUnknownSetting):
		return http.StatusBadRequest, "unknown setting"
	case errors.Is(err, services.ErrInvalidValue):
		return http.StatusBadRequest, "invalid setting value"
	case errors.Is(err, storage.ErrInvalidAsset):
		return http.StatusBadRequest, "asset must be a non-empty image"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// respondError writes the mapped error. Internal errors are logged, never exposed.
func respondError(c *gin.Context, logger *zap.Logger, op string, err error) {
	status, msg := mapServiceError(err)
	if status == http.StatusInternalServerError {
		logger.Error(op+" error", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}
