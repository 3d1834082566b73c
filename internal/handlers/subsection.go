// internal/handlers/subsection.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft-backend/internal/i18n"
	"github.com/pagecraft/pagecraft-backend/internal/services"
	"github.com/pagecraft/pagecraft-backend/internal/utils"
)

type SubsectionHandler struct {
	subsectionService *services.SubsectionService
}

func NewSubsectionHandler(subsectionService *services.SubsectionService) *SubsectionHandler {
	return &SubsectionHandler{
		subsectionService: subsectionService,
	}
}

// GET /sections/:id/subsections
func (h *SubsectionHandler) GetSubsections(c *gin.Context) {
	sectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid section ID", nil)
		return
	}

	subsections, err := h.subsectionService.ListBySection(sectionID)
	if err != nil {
		handleServiceError(c, err, i18n.KeySectionNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"subsections": subsections,
	})
}

// POST /sections/:id/subsections
func (h *SubsectionHandler) CreateSubsection(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	sectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid section ID", nil)
		return
	}

	var req services.CreateSubsectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	subsection, err := h.subsectionService.CreateSubsection(sectionID, &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeySectionNotFound)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeySubsectionCreated),
		"subsection": subsection,
	})
}

// PUT /sections/:id/subsections/reorder
func (h *SubsectionHandler) ReorderSubsections(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	sectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid section ID", nil)
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.subsectionService.ReorderSubsections(sectionID, req.OrderedIDs); err != nil {
		handleServiceError(c, err, i18n.KeySectionNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySubsectionReordered),
	})
}

// GET /subsections/:id
func (h *SubsectionHandler) GetSubsection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid subsection ID", nil)
		return
	}

	subsection, err := h.subsectionService.GetSubsection(id)
	if err != nil {
		handleServiceError(c, err, i18n.KeySubsectionNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"subsection": subsection,
	})
}

// PUT /subsections/:id
func (h *SubsectionHandler) UpdateSubsection(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid subsection ID", nil)
		return
	}

	var req services.UpdateSubsectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	subsection, err := h.subsectionService.UpdateSubsection(id, &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeySubsectionNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeySubsectionUpdated),
		"subsection": subsection,
	})
}

// DELETE /subsections/:id
func (h *SubsectionHandler) DeleteSubsection(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid subsection ID", nil)
		return
	}

	if err := h.subsectionService.DeleteSubsection(id); err != nil {
		handleServiceError(c, err, i18n.KeySubsectionNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySubsectionDeleted),
	})
}
