// internal/handlers/media.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pagecraft/pagecraft-backend/internal/i18n"
	"github.com/pagecraft/pagecraft-backend/internal/services"
	"github.com/pagecraft/pagecraft-backend/internal/utils"
)

type MediaHandler struct {
	storageService *services.StorageService
}

func NewMediaHandler(storageService *services.StorageService) *MediaHandler {
	return &MediaHandler{
		storageService: storageService,
	}
}

// POST /media/upload
func (h *MediaHandler) UploadImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadImage(file, fileHeader)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"image":   result,
	})
}
