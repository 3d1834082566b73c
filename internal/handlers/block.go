// internal/handlers/block.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pagecraft/pagecraft-backend/internal/i18n"
	"github.com/pagecraft/pagecraft-backend/internal/services"
	"github.com/pagecraft/pagecraft-backend/internal/utils"
)

type BlockHandler struct {
	blockService *services.BlockService
}

func NewBlockHandler(blockService *services.BlockService) *BlockHandler {
	return &BlockHandler{
		blockService: blockService,
	}
}

// GET /subsections/:id/blocks
func (h *BlockHandler) GetBlocks(c *gin.Context) {
	subsectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid subsection ID", nil)
		return
	}

	blocks, err := h.blockService.ListBySubsection(subsectionID)
	if err != nil {
		handleServiceError(c, err, i18n.KeySubsectionNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"blocks": blocks,
	})
}

// POST /subsections/:id/blocks
func (h *BlockHandler) CreateBlock(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	subsectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid subsection ID", nil)
		return
	}

	var req services.CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	block, err := h.blockService.CreateBlock(subsectionID, &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeySubsectionNotFound)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBlockCreated),
		"block":   block,
	})
}

// PUT /subsections/:id/blocks/reorder
func (h *BlockHandler) ReorderBlocks(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	subsectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid subsection ID", nil)
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.blockService.ReorderBlocks(subsectionID, req.OrderedIDs); err != nil {
		handleServiceError(c, err, i18n.KeySubsectionNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBlockReordered),
	})
}

// GET /blocks/:id
func (h *BlockHandler) GetBlock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid block ID", nil)
		return
	}

	block, err := h.blockService.GetBlock(id)
	if err != nil {
		handleServiceError(c, err, i18n.KeyBlockNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"block": block,
	})
}

// PUT /blocks/:id
func (h *BlockHandler) UpdateBlock(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid block ID", nil)
		return
	}

	var req services.UpdateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	block, err := h.blockService.UpdateBlock(id, &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyBlockNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBlockUpdated),
		"block":   block,
	})
}

// DELETE /blocks/:id
func (h *BlockHandler) DeleteBlock(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid block ID", nil)
		return
	}

	if err := h.blockService.DeleteBlock(id); err != nil {
		handleServiceError(c, err, i18n.KeyBlockNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBlockDeleted),
	})
}
