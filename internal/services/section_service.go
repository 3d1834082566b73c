// internal/services/section_service.go
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

type SectionService struct {
	db    *gorm.DB
	cache cache.RenderCache
}

type CreateSectionRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	IsPublished bool   `json:"is_published"`
}

type UpdateSectionRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	IsPublished *bool   `json:"is_published,omitempty"`
}

func NewSectionService(db *gorm.DB, renderCache cache.RenderCache) *SectionService {
	return &SectionService{db: db, cache: renderCache}
}

// CreateSection appends a section under a product. The FOR UPDATE lock on the
// product row serializes concurrent appends so two creates can never read the
// same MAX(order_index).
func (s *SectionService) CreateSection(productID uuid.UUID, req *CreateSectionRequest) (*models.Section, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	section := &models.Section{
		ProductID:   productID,
		Title:       req.Title,
		IsPublished: req.IsPublished,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %s: %w", productID, ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		next, err := nextOrderIndex(tx, &models.Section{}, "product_id", productID)
		if err != nil {
			return err
		}
		section.OrderIndex = next

		if err := tx.Create(section).Error; err != nil {
			return fmt.Errorf("failed to create section: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return section, nil
}

func (s *SectionService) GetSection(id uuid.UUID) (*models.Section, error) {
	var section models.Section
	if err := s.db.First(&section, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("section %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &section, nil
}

// ListByProduct returns the product's sections in display order.
func (s *SectionService) ListByProduct(productID uuid.UUID) ([]models.Section, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var sections []models.Section
	if err := s.db.Where("product_id = ?", productID).
		Order("order_index ASC").
		Find(&sections).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch sections: %w", err)
	}
	return sections, nil
}

func (s *SectionService) UpdateSection(id uuid.UUID, req *UpdateSectionRequest) (*models.Section, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var section models.Section
	if err := s.db.First(&section, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("section %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}
	if len(updates) == 0 {
		return &section, nil
	}

	if err := s.db.Model(&section).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update section: %w", err)
	}
	return &section, nil
}

// DeleteSection removes the section with its subsections and blocks, then
// renumbers the surviving sibling sections so the sequence stays gapless.
func (s *SectionService) DeleteSection(id uuid.UUID) error {
	var affectedSubsections []uuid.UUID

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var section models.Section
		if err := tx.First(&section, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("section %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		var product models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", section.ProductID).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.Model(&models.Subsection{}).
			Where("section_id = ?", id).
			Pluck("id", &affectedSubsections).Error; err != nil {
			return fmt.Errorf("failed to list subsections: %w", err)
		}

		if len(affectedSubsections) > 0 {
			if err := tx.Where("subsection_id IN ?", affectedSubsections).
				Delete(&models.Block{}).Error; err != nil {
				return fmt.Errorf("failed to delete blocks: %w", err)
			}
			if err := tx.Where("id IN ?", affectedSubsections).
				Delete(&models.Subsection{}).Error; err != nil {
				return fmt.Errorf("failed to delete subsections: %w", err)
			}
		}

		if err := tx.Delete(&section).Error; err != nil {
			return fmt.Errorf("failed to delete section: %w", err)
		}

		return resequenceSiblings(tx, &models.Section{}, "product_id", section.ProductID)
	})
	if err != nil {
		return err
	}

	for _, subID := range affectedSubsections {
		s.cache.Invalidate(subID)
	}
	return nil
}

// ReorderSections rewrites the order of a product's sections. The id list
// must name every current section exactly once; anything else rejects the
// whole request and leaves the previous ordering intact.
func (s *SectionService) ReorderSections(productID uuid.UUID, orderedIDs []uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %s: %w", productID, ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}
		return reorderSiblings(tx, &models.Section{}, "product_id", productID, orderedIDs)
	})
}
