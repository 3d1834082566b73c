// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/pagecraft/pagecraft-backend/internal/i18n"
	"github.com/pagecraft/pagecraft-backend/internal/services"
	"github.com/pagecraft/pagecraft-backend/internal/utils"
)

// handleServiceError maps service-layer errors onto HTTP responses.
// notFoundKey is the i18n key used when the error is ErrNotFound.
func handleServiceError(c *gin.Context, err error, notFoundKey string) {
	lang := utils.GetLangFromContext(c)

	var validationErrs services.ValidationErrors
	var slugConflict *services.SlugConflictError
	var invalidReorder *services.InvalidReorderError

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, notFoundKey)
	case errors.As(err, &validationErrs):
		utils.UnprocessableResponse(c, "VALIDATION_ERROR",
			i18n.T(lang, i18n.KeyValidationInvalid, "input"), validationErrs)
	case errors.As(err, &slugConflict):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyContentSlugConflict))
	case errors.As(err, &invalidReorder):
		utils.UnprocessableResponse(c, "INVALID_REORDER",
			i18n.T(lang, i18n.KeyContentInvalidReorder), gin.H{
				"reason":      invalidReorder.Reason,
				"foreign_ids": invalidReorder.ForeignIDs,
			})
	case errors.Is(err, services.ErrSlugSpaceExhausted):
		utils.ConflictResponse(c, err.Error())
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
