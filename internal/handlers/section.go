// internal/handlers/section.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft-backend/internal/i18n"
	"github.com/pagecraft/pagecraft-backend/internal/services"
	"github.com/pagecraft/pagecraft-backend/internal/utils"
)

type SectionHandler struct {
	sectionService *services.SectionService
}

func NewSectionHandler(sectionService *services.SectionService) *SectionHandler {
	return &SectionHandler{
		sectionService: sectionService,
	}
}

// ReorderRequest carries the full sibling id list in the desired order.
type ReorderRequest struct {
	OrderedIDs []uuid.UUID `json:"ordered_ids" validate:"required,min=1"`
}

// GET /products/:id/sections
func (h *SectionHandler) GetSections(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	sections, err := h.sectionService.ListByProduct(productID)
	if err != nil {
		handleServiceError(c, err, i18n.KeyProductNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"sections": sections,
	})
}

// POST /products/:id/sections
func (h *SectionHandler) CreateSection(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req services.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	section, err := h.sectionService.CreateSection(productID, &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyProductNotFound)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySectionCreated),
		"section": section,
	})
}

// PUT /products/:id/sections/reorder
func (h *SectionHandler) ReorderSections(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.sectionService.ReorderSections(productID, req.OrderedIDs); err != nil {
		handleServiceError(c, err, i18n.KeyProductNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySectionReordered),
	})
}

// GET /sections/:id
func (h *SectionHandler) GetSection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid section ID", nil)
		return
	}

	section, err := h.sectionService.GetSection(id)
	if err != nil {
		handleServiceError(c, err, i18n.KeySectionNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"section": section,
	})
}

// PUT /sections/:id
func (h *SectionHandler) UpdateSection(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid section ID", nil)
		return
	}

	var req services.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	section, err := h.sectionService.UpdateSection(id, &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeySectionNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySectionUpdated),
		"section": section,
	})
}

// DELETE /sections/:id
func (h *SectionHandler) DeleteSection(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid section ID", nil)
		return
	}

	if err := h.sectionService.DeleteSection(id); err != nil {
		handleServiceError(c, err, i18n.KeySectionNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySectionDeleted),
	})
}
