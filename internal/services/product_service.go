// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pagecraft/pagecraft-backend/internal/cache"
	"github.com/pagecraft/pagecraft-backend/internal/models"
	"github.com/pagecraft/pagecraft-backend/internal/utils"
)

type ProductService struct {
	db    *gorm.DB
	cache cache.RenderCache
}

type CreateProductRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Slug        string `json:"slug,omitempty" validate:"omitempty,max=255"`
	Description string `json:"description,omitempty"`
	IsPublished bool   `json:"is_published"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Slug        *string `json:"slug,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty"`
	IsPublished *bool   `json:"is_published,omitempty"`
}

func NewProductService(db *gorm.DB, renderCache cache.RenderCache) *ProductService {
	return &ProductService{db: db, cache: renderCache}
}

// CreateProduct persists a new product root. The slug is derived from the
// name (or taken from the request) and deduplicated against the whole catalog
// by the insert-retry resolver.
func (s *ProductService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	base := req.Slug
	if base == "" {
		base = req.Name
	}
	base = Slugify(base)

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		IsPublished: req.IsPublished,
	}

	_, err := resolveSlug(base, func(slug string) error {
		product.ID = uuid.Nil
		product.Slug = slug
		return s.db.Create(product).Error
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (s *ProductService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

// ListProducts returns the admin catalog view with pagination and search.
func (s *ProductService) ListProducts(params utils.PaginationParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(slug) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "slug"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// UpdateProduct applies the patched fields only. An explicitly supplied slug
// that collides is rejected with SlugConflictError: renames never auto-suffix.
func (s *ProductService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}
	if req.Slug != nil {
		slug := Slugify(*req.Slug)
		if slug != product.Slug {
			var count int64
			if err := s.db.Model(&models.Product{}).
				Where("slug = ? AND id <> ?", slug, id).
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
		return &product, nil
	}

	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &SlugConflictError{Slug: product.Slug}
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &product, nil
}

// DeleteProduct removes the product and every descendant in one transaction.
// The cascade is explicit so the contract does not depend on schema-level FK
// behavior, and affected subsection caches are invalidated on success.
func (s *ProductService) DeleteProduct(id uuid.UUID) error {
	var affectedSubsections []uuid.UUID

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		var sectionIDs []uuid.UUID
		if err := tx.Model(&models.Section{}).
			Where("product_id = ?", id).
			Pluck("id", &sectionIDs).Error; err != nil {
			return fmt.Errorf("failed to list sections: %w", err)
		}

		if len(sectionIDs) > 0 {
			if err := tx.Model(&models.Subsection{}).
				Where("section_id IN ?", sectionIDs).
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

			if err := tx.Where("id IN ?", sectionIDs).
				Delete(&models.Section{}).Error; err != nil {
				return fmt.Errorf("failed to delete sections: %w", err)
			}
		}

		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, subID := range affectedSubsections {
		s.cache.Invalidate(subID)
	}
	return nil
}
