package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medhaven/internal/middleware"
	"medhaven/internal/service"
	apperrors "medhaven/pkg/errors"
	"medhaven/pkg/logger"
)

const imageField = "image"

type UploadHandler struct {
	assetService service.AssetService
	log          logger.Logger
}

func NewUploadHandler(assetService service.AssetService, log logger.Logger) *UploadHandler {
	return &UploadHandler{
		assetService: assetService,
		log:          log,
	}
}

func (h *UploadHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile(imageField)
	if err != nil {
		_ = c.Error(apperrors.Validation("no image uploaded"))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.log.Error("Failed to open uploaded image", "error", err)
		_ = c.Error(apperrors.Validation("failed to read image"))
		return
	}
	defer file.Close()

	asset, err := h.assetService.UploadImage(c.Request.Context(), middleware.CurrentUserID(c), file, header.Size)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"imageUrl": asset.SecureURL})
}
