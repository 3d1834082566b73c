// internal/services/block_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pagecraft/pagecraft-backend/internal/cache"
	"github.com/pagecraft/pagecraft-backend/internal/models"
)

type BlockService struct {
	db    *gorm.DB
	cache cache.RenderCache
}

// BlockFields carries the union of type-specific fields; exactly the fields
// belonging to the block's type may be set, everything else is rejected.
type BlockFields struct {
	HeadingLevel *int              `json:"heading_level,omitempty"`
	Text         *string           `json:"text,omitempty"`
	ImagePath    *string           `json:"image_path,omitempty"`
	ImageWidth   *int              `json:"image_width,omitempty"`
	ListStyle    *models.ListStyle `json:"list_style,omitempty"`
	ListItems    []string          `json:"list_items,omitempty"`
	HTML         *string           `json:"html,omitempty"`
}

type CreateBlockRequest struct {
	Type  models.BlockType `json:"type" validate:"required"`
	Align models.Alignment `json:"align,omitempty" validate:"omitempty,oneof=left center right"`
	BlockFields
}

type UpdateBlockRequest struct {
	Type  models.BlockType  `json:"type,omitempty"`
	Align *models.Alignment `json:"align,omitempty" validate:"omitempty,oneof=left center right"`
	BlockFields
}

func NewBlockService(db *gorm.DB, renderCache cache.RenderCache) *BlockService {
	return &BlockService{db: db, cache: renderCache}
}

// CreateBlock appends a block under a subsection. Content fields are checked
// against the declared type before anything is written; fields belonging to a
// different block type are rejected rather than silently dropped.
func (s *BlockService) CreateBlock(subsectionID uuid.UUID, req *CreateBlockRequest) (*models.Block, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	content, err := buildContent(req.Type, &req.BlockFields)
	if err != nil {
		return nil, err
	}

	block := &models.Block{
		SubsectionID: subsectionID,
		Type:         req.Type,
		Align:        req.Align,
	}
	if block.Align == "" {
		block.Align = models.AlignLeft
	}
	block.SetContent(content)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var subsection models.Subsection
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&subsection, "id = ?", subsectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("subsection %s: %w", subsectionID, ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		next, err := nextOrderIndex(tx, &models.Block{}, "subsection_id", subsectionID)
		if err != nil {
			return err
		}
		block.OrderIndex = next

		if err := tx.Create(block).Error; err != nil {
			return fmt.Errorf("failed to create block: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(subsectionID)
	return block, nil
}

func (s *BlockService) GetBlock(id uuid.UUID) (*models.Block, error) {
	var block models.Block
	if err := s.db.First(&block, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("block %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &block, nil
}

// ListBySubsection returns a subsection's blocks in display order.
func (s *BlockService) ListBySubsection(subsectionID uuid.UUID) ([]models.Block, error) {
	var subsection models.Subsection
	if err := s.db.First(&subsection, "id = ?", subsectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subsection %s: %w", subsectionID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var blocks []models.Block
	if err := s.db.Where("subsection_id = ?", subsectionID).
		Order("order_index ASC").
		Find(&blocks).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch blocks: %w", err)
	}
	return blocks, nil
}

// UpdateBlock patches a block's alignment and content. The block's type is
// immutable: a request naming a different type is rejected. Patched content
// fields are merged over the current content and the result is re-validated
// as a whole, so a partial patch can never produce an invalid variant.
func (s *BlockService) UpdateBlock(id uuid.UUID, req *UpdateBlockRequest) (*models.Block, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var block models.Block
	if err := s.db.First(&block, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("block %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.Type != "" && req.Type != block.Type {
		return nil, ValidationErrors{{Field: "type", Message: "block type cannot be changed after creation"}}
	}

	merged := mergeFields(&block, &req.BlockFields)
	content, err := buildContent(block.Type, merged)
	if err != nil {
		return nil, err
	}

	block.SetContent(content)
	if req.Align != nil {
		block.Align = *req.Align
	}

	if err := s.db.Save(&block).Error; err != nil {
		return nil, fmt.Errorf("failed to update block: %w", err)
	}

	s.cache.Invalidate(block.SubsectionID)
	return &block, nil
}

// DeleteBlock removes a block and renumbers the remaining blocks so their
// order stays a contiguous 1..N.
func (s *BlockService) DeleteBlock(id uuid.UUID) error {
	var subsectionID uuid.UUID

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var block models.Block
		if err := tx.First(&block, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("block %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}
		subsectionID = block.SubsectionID

		var subsection models.Subsection
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&subsection, "id = ?", subsectionID).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.Delete(&block).Error; err != nil {
			return fmt.Errorf("failed to delete block: %w", err)
		}

		return resequenceSiblings(tx, &models.Block{}, "subsection_id", subsectionID)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(subsectionID)
	return nil
}

// ReorderBlocks rewrites the block order within a subsection; the id list
// must be exactly the current block set.
func (s *BlockService) ReorderBlocks(subsectionID uuid.UUID, orderedIDs []uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var subsection models.Subsection
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&subsection, "id = ?", subsectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("subsection %s: %w", subsectionID, ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}
		return reorderSiblings(tx, &models.Block{}, "subsection_id", subsectionID, orderedIDs)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(subsectionID)
	return nil
}

// buildContent validates the union fields against the block type and returns
// the typed variant. Fields belonging to another type fail validation, which
// keeps a heading from ever carrying, say, list items.
func buildContent(blockType models.BlockType, f *BlockFields) (models.BlockContent, error) {
	if !blockType.Valid() {
		return nil, ValidationErrors{{Field: "type", Message: "must be one of heading, paragraph, image, list, richtext"}}
	}

	var errs ValidationErrors
	errs = append(errs, foreignFieldErrors(blockType, f)...)

	var content models.BlockContent
	switch blockType {
	case models.BlockTypeHeading:
		c := models.HeadingContent{}
		if f.HeadingLevel == nil {
			errs = append(errs, FieldError{Field: "heading_level", Message: "required for heading blocks"})
		} else if *f.HeadingLevel < 1 || *f.HeadingLevel > 6 {
			errs = append(errs, FieldError{Field: "heading_level", Message: "must be between 1 and 6"})
		} else {
			c.Level = *f.HeadingLevel
		}
		if f.Text == nil || *f.Text == "" {
			errs = append(errs, FieldError{Field: "text", Message: "required for heading blocks"})
		} else {
			c.Text = *f.Text
		}
		content = c

	case models.BlockTypeParagraph:
		if f.Text == nil || *f.Text == "" {
			errs = append(errs, FieldError{Field: "text", Message: "required for paragraph blocks"})
		} else {
			content = models.ParagraphContent{Text: *f.Text}
		}

	case models.BlockTypeImage:
		c := models.ImageContent{}
		if f.ImagePath == nil || *f.ImagePath == "" {
			errs = append(errs, FieldError{Field: "image_path", Message: "required for image blocks"})
		} else {
			c.Path = *f.ImagePath
		}
		if f.ImageWidth != nil {
			if *f.ImageWidth <= 0 {
				errs = append(errs, FieldError{Field: "image_width", Message: "must be a positive number of pixels"})
			} else {
				c.Width = *f.ImageWidth
			}
		}
		content = c

	case models.BlockTypeList:
		c := models.ListContent{}
		if f.ListStyle == nil {
			errs = append(errs, FieldError{Field: "list_style", Message: "required for list blocks"})
		} else if *f.ListStyle != models.ListStyleBullet && *f.ListStyle != models.ListStyleNumbered {
			errs = append(errs, FieldError{Field: "list_style", Message: "must be bullet or numbered"})
		} else {
			c.Style = *f.ListStyle
		}
		if len(f.ListItems) == 0 {
			errs = append(errs, FieldError{Field: "list_items", Message: "at least one item is required"})
		} else {
			c.Items = f.ListItems
		}
		content = c

	case models.BlockTypeRichText:
		if f.HTML == nil || *f.HTML == "" {
			errs = append(errs, FieldError{Field: "html", Message: "required for richtext blocks"})
		} else {
			content = models.RichTextContent{HTML: *f.HTML}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return content, nil
}

// foreignFieldErrors flags any populated field that does not belong to the
// given block type.
func foreignFieldErrors(blockType models.BlockType, f *BlockFields) ValidationErrors {
	allowed := map[models.BlockType]map[string]bool{
		models.BlockTypeHeading:   {"heading_level": true, "text": true},
		models.BlockTypeParagraph: {"text": true},
		models.BlockTypeImage:     {"image_path": true, "image_width": true},
		models.BlockTypeList:      {"list_style": true, "list_items": true},
		models.BlockTypeRichText:  {"html": true},
	}[blockType]

	present := map[string]bool{
		"heading_level": f.HeadingLevel != nil,
		"text":          f.Text != nil,
		"image_path":    f.ImagePath != nil,
		"image_width":   f.ImageWidth != nil,
		"list_style":    f.ListStyle != nil,
		"list_items":    len(f.ListItems) > 0,
		"html":          f.HTML != nil,
	}

	var errs ValidationErrors
	for field, isSet := range present {
		if isSet && !allowed[field] {
			errs = append(errs, FieldError{
				Field:   field,
				Message: fmt.Sprintf("not a %s block field", blockType),
			})
		}
	}
	return errs
}

// mergeFields overlays the patch on top of the block's stored content so a
// partial update re-validates as a complete variant.
func mergeFields(block *models.Block, patch *BlockFields) *BlockFields {
	merged := BlockFields{
		HeadingLevel: block.HeadingLevel,
		Text:         block.Text,
		ImagePath:    block.ImagePath,
		ImageWidth:   block.ImageWidth,
		ListStyle:    block.ListStyle,
		ListItems:    block.ListItems,
		HTML:         block.HTML,
	}
	if patch.HeadingLevel != nil {
		merged.HeadingLevel = patch.HeadingLevel
	}
	if patch.Text != nil {
		merged.Text = patch.Text
	}
	if patch.ImagePath != nil {
		merged.ImagePath = patch.ImagePath
	}
	if patch.ImageWidth != nil {
		merged.ImageWidth = patch.ImageWidth
	}
	if patch.ListStyle != nil {
		merged.ListStyle = patch.ListStyle
	}
	if len(patch.ListItems) > 0 {
		merged.ListItems = patch.ListItems
	}
	if patch.HTML != nil {
		merged.HTML = patch.HTML
	}
	return &merged
}
