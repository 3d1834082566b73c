// internal/handlers/public.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft-backend/internal/i18n"
	"github.com/pagecraft/pagecraft-backend/internal/services"
	"github.com/pagecraft/pagecraft-backend/internal/utils"
)

type PublicHandler struct {
	publicService *services.PublicService
}

func NewPublicHandler(publicService *services.PublicService) *PublicHandler {
	return &PublicHandler{
		publicService: publicService,
	}
}

// GET /public/products/:slug/nav
func (h *PublicHandler) GetNavigation(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		utils.BadRequestResponse(c, "Invalid product slug", nil)
		return
	}

	nav, err := h.publicService.GetNavigation(slug)
	if err != nil {
		handleServiceError(c, err, i18n.KeyProductNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"navigation": nav,
	})
}

// GET /public/subsections/:id
func (h *PublicHandler) GetSubsectionContent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid subsection ID", nil)
		return
	}

	subsection, blocks, err := h.publicService.GetSubsectionBlocks(id)
	if err != nil {
		handleServiceError(c, err, i18n.KeySubsectionNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"subsection": subsection,
		"blocks":     blocks,
	})
}

// GET /public/search
func (h *PublicHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.BadRequestResponse(c, "Query parameter 'q' is required", nil)
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	results, err := h.publicService.Search(query, limit)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"query":   query,
		"results": results,
	})
}
