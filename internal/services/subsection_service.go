// internal/services/subsection_service.go
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

type SubsectionService struct {
	db    *gorm.DB
	cache cache.RenderCache
}

type CreateSubsectionRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Slug        string `json:"slug,omitempty" validate:"omitempty,max=255"`
	IsPublished bool   `json:"is_published"`
}

type UpdateSubsectionRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Slug        *string `json:"slug,omitempty" validate:"omitempty,min=1,max=255"`
	IsPublished *bool   `json:"is_published,omitempty"`
}

func NewSubsectionService(db *gorm.DB, renderCache cache.RenderCache) *SubsectionService {
	return &SubsectionService{db: db, cache: renderCache}
}

// CreateSubsection appends a subsection under a section. The slug is unique
// within the section only; collisions are resolved by the insert-retry loop,
// where each attempt is a full transaction carrying the parent lock and the
// order-index assignment.
func (s *SubsectionService) CreateSubsection(sectionID uuid.UUID, req *CreateSubsectionRequest) (*models.Subsection, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	base := req.Slug
	if base == "" {
		base = req.Title
	}
	base = Slugify(base)

	subsection := &models.Subsection{
		SectionID:   sectionID,
		Title:       req.Title,
		IsPublished: req.IsPublished,
	}

	_, err := resolveSlug(base, func(slug string) error {
		subsection.ID = uuid.Nil
		subsection.Slug = slug
		return s.db.Transaction(func(tx *gorm.DB) error {
			var section models.Section
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&section, "id = ?", sectionID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("section %s: %w", sectionID, ErrNotFound)
				}
				return fmt.Errorf("database error: %w", err)
			}

			next, err := nextOrderIndex(tx, &models.Subsection{}, "section_id", sectionID)
			if err != nil {
				return err
			}
			subsection.OrderIndex = next

			return tx.Create(subsection).Error
		})
	})
	if err != nil {
		return nil, err
	}

	return subsection, nil
}

func (s *SubsectionService) GetSubsection(id uuid.UUID) (*models.Subsection, error) {
	var subsection models.Subsection
	if err := s.db.First(&subsection, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subsection %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &subsection, nil
}

// ListBySection returns a section's subsections in display order.
func (s *SubsectionService) ListBySection(sectionID uuid.UUID) ([]models.Subsection, error) {
	var section models.Section
	if err := s.db.First(&section, "id = ?", sectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("section %s: %w", sectionID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var subsections []models.Subsection
	if err := s.db.Where("section_id = ?", sectionID).
		Order("order_index ASC").
		Find(&subsections).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch subsections: %w", err)
	}
	return subsections, nil
}

// UpdateSubsection applies patched fields. A caller-supplied slug is checked
// against the sibling set excluding this row; conflicts are surfaced, never
// auto-suffixed.
func (s *SubsectionService) UpdateSubsection(id uuid.UUID, req *UpdateSubsectionRequest) (*models.Subsection, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var subsection models.Subsection
	if err := s.db.First(&subsection, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subsection %s: %w", id, ErrNotFound)
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
	if req.Slug != nil {
		slug := Slugify(*req.Slug)
		if slug != subsection.Slug {
			var count int64
			if err := s.db.Model(&models.Subsection{}).
				Where("section_id = ? AND slug = ? AND id <> ?", subsection.SectionID, slug, id).
				Count(&count).Error; err != nil {
				return nil, fmt.Errorf("failed to check slug: %w", err)
			}
			if count > 0 {
				return nil, &SlugConflictError{Slug: slug}
			}
			updates["slug"] = slug
		}
	}

	if len(updates) == 0 {
		return &subsection, nil
	}

	if err := s.db.Model(&subsection).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &SlugConflictError{Slug: subsection.Slug}
		}
		return nil, fmt.Errorf("failed to update subsection: %w", err)
	}
	return &subsection, nil
}

// DeleteSubsection removes the subsection and its blocks, renumbers its
// siblings, and drops the cached block list.
func (s *SubsectionService) DeleteSubsection(id uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var subsection models.Subsection
		if err := tx.First(&subsection, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("subsection %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		var section models.Section
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&section, "id = ?", subsection.SectionID).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.Where("subsection_id = ?", id).Delete(&models.Block{}).Error; err != nil {
			return fmt.Errorf("failed to delete blocks: %w", err)
		}
		if err := tx.Delete(&subsection).Error; err != nil {
			return fmt.Errorf("failed to delete subsection: %w", err)
		}

		return resequenceSiblings(tx, &models.Subsection{}, "section_id", subsection.SectionID)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(id)
	return nil
}

// ReorderSubsections rewrites the order of a section's subsections; the id
// list must be exactly the current sibling set.
func (s *SubsectionService) ReorderSubsections(sectionID uuid.UUID, orderedIDs []uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var section models.Section
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&section, "id = ?", sectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("section %s: %w", sectionID, ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}
		return reorderSiblings(tx, &models.Subsection{}, "section_id", sectionID, orderedIDs)
	})
}
