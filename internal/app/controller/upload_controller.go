package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/guialocal/guialocal-backend/internal/errors"
	"github.com/guialocal/guialocal-backend/internal/middleware"
	"github.com/guialocal/guialocal-backend/internal/storage"
)

type UploadController struct {
	storage storage.PhotoUploader
}

// NewUploadController accepts a nil uploader when S3 is not configured.
func NewUploadController(uploader storage.PhotoUploader) *UploadController {
	return &UploadController{
		storage: uploader,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	BusinessID  string `json:"business_id"`
}

// GeneratePresignedURL POST /upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.storage == nil {
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.InternalConfigError, "Envio de fotos indisponível no momento")
		return
	}

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	response, err := ctrl.storage.PresignPhotoUpload(c.Request.Context(), req.BusinessID, req.Filename, req.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrContentTypeNotAllowed) {
			log.Warn("Invalid content type", map[string]interface{}{
				"content_type": req.ContentType,
			})
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Apenas imagens JPEG, PNG ou WEBP são permitidas")
			return
		}
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":    req.Filename,
			"business_id": req.BusinessID,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Não foi possível preparar o envio da foto")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"business_id": req.BusinessID,
		"key":         response.Key,
	})
	c.JSON(http.StatusOK, response)
}
