package rest

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pingo-api/internal/application/ports"
	"pingo-api/internal/application/services"
	"pingo-api/internal/domain/upload"
	dto "pingo-api/internal/interface/api/rest/dto/upload"
	"pingo-api/internal/interface/api/rest/middleware"
	"pingo-api/internal/interface/api/rest/validator"
)

type DeliveryController struct {
	deliveryService ports.DeliveryService
	logger          *zap.Logger
}

func NewDeliveryController(
	r *gin.Engine,
	deliveryService ports.DeliveryService,
	logger *zap.Logger,
) *DeliveryController {
	dc := &DeliveryController{
		deliveryService: deliveryService,
		logger:          logger,
	}

	r.GET(RouteDownload, dc.DownloadHandler)
	r.GET(RouteFile, dc.FileHandler)
	r.GET(RouteFiles, dc.MetadataHandler)

	return dc
}

// DownloadHandler serves a lone file as is and bundles anything else into a zip.
func (dc *DeliveryController) DownloadHandler(c *gin.Context) {
	id := c.Param("upload_id")
	if !validator.IsUploadID(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "upload not found"})
		return
	}

	d, err := dc.deliveryService.Prepare(c.Request.Context(), id, middleware.Credentials(c))
	if err != nil {
		respondError(c, dc.logger, "Prepare()", err)
		return
	}

	if d.Single != nil {
		rc, err := dc.deliveryService.Open(*d.Single)
		if err != nil {
			respondError(c, dc.logger, "Open()", err)
			return
		}
		defer rc.Close()

		dc.serveFile(c, rc, *d.Single)
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="`+services.ArchiveName+`"`)
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)

	// headers are gone by now; a failure can only be logged
	if err = dc.deliveryService.WriteArchive(c.Request.Context(), c.Writer, d.Archive); err != nil {
		dc.logger.Error("WriteArchive() error", zap.String("upload_id", id), zap.Error(err))
	}
}

func (dc *DeliveryController) FileHandler(c *gin.Context) {
	id := c.Param("upload_id")
	name := c.Param("filename")
	if !validator.IsUploadID(id) || !validator.IsFileName(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "upload not found"})
		return
	}

	rc, f, err := dc.deliveryService.OpenFile(c.Request.Context(), id, name, middleware.Credentials(c))
	if err != nil {
		respondError(c, dc.logger, "OpenFile()", err)
		return
	}
	defer rc.Close()

	dc.serveFile(c, rc, f)
}

func (dc *DeliveryController) MetadataHandler(c *gin.Context) {
	noCache(c)

	id := c.Param("upload_id")
	if !validator.IsUploadID(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "upload not found"})
		return
	}

	m, err := dc.deliveryService.Metadata(c.Request.Context(), id, middleware.Credentials(c))
	if err != nil {
		respondError(c, dc.logger, "Metadata()", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResponseMetadata(*m))
}

// serveFile lets net/http handle Range and conditional requests.
func (dc *DeliveryController) serveFile(c *gin.Context, rc io.ReadSeeker, f upload.File) {
	c.Header("Content-Type", dc.deliveryService.ContentType(rc, f.Name))
	c.Header("Content-Disposition", attachment(f.Name))
	c.Header("X-Content-Type-Options", "nosniff")

	http.ServeContent(c.Writer, c.Request, "", f.ModTime, rc)
}

func noCache(c *gin.Context) {
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
}
