// internal/services/public_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pagecraft/pagecraft-backend/internal/cache"
	"github.com/pagecraft/pagecraft-backend/internal/models"
)

// PublicService is the read path for the public site. It never exposes
// unpublished content: an unpublished ancestor hides every descendant on all
// reads, including direct-by-id ones.
type PublicService struct {
	db    *gorm.DB
	cache cache.RenderCache
}

type NavigationSubsection struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	OrderIndex int       `json:"order_index"`
}

type NavigationSection struct {
	ID          uuid.UUID              `json:"id"`
	Title       string                 `json:"title"`
	OrderIndex  int                    `json:"order_index"`
	Subsections []NavigationSubsection `json:"subsections"`
}

type NavigationTree struct {
	ProductID   uuid.UUID           `json:"product_id"`
	ProductName string              `json:"product_name"`
	ProductSlug string              `json:"product_slug"`
	Sections    []NavigationSection `json:"sections"`
}

type SearchResult struct {
	SubsectionID uuid.UUID `json:"subsection_id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	SectionTitle string    `json:"section_title"`
	ProductSlug  string    `json:"product_slug"`
}

func NewPublicService(db *gorm.DB, renderCache cache.RenderCache) *PublicService {
	return &PublicService{db: db, cache: renderCache}
}

// GetNavigation builds the reader's navigation tree for one published
// product: published sections in order, each with its published subsections
// in order. Unpublished products are indistinguishable from missing ones.
func (s *PublicService) GetNavigation(productSlug string) (*NavigationTree, error) {
	var product models.Product
	if err := s.db.First(&product, "slug = ? AND is_published = ?", productSlug, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %q: %w", productSlug, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var sections []models.Section
	if err := s.db.Where("product_id = ? AND is_published = ?", product.ID, true).
		Order("order_index ASC").
		Find(&sections).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch sections: %w", err)
	}

	tree := &NavigationTree{
		ProductID:   product.ID,
		ProductName: product.Name,
		ProductSlug: product.Slug,
		Sections:    make([]NavigationSection, 0, len(sections)),
	}

	for _, section := range sections {
		var subsections []models.Subsection
		if err := s.db.Where("section_id = ? AND is_published = ?", section.ID, true).
			Order("order_index ASC").
			Find(&subsections).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch subsections: %w", err)
		}

		navSection := NavigationSection{
			ID:          section.ID,
			Title:       section.Title,
			OrderIndex:  section.OrderIndex,
			Subsections: make([]NavigationSubsection, 0, len(subsections)),
		}
		for _, sub := range subsections {
			navSection.Subsections = append(navSection.Subsections, NavigationSubsection{
				ID:         sub.ID,
				Title:      sub.Title,
				Slug:       sub.Slug,
				OrderIndex: sub.OrderIndex,
			})
		}
		tree.Sections = append(tree.Sections, navSection)
	}

	return tree, nil
}

// GetSubsectionBlocks returns the ordered block list for one subsection,
// serving from the render cache when possible. The subsection, its section
// and its product must all be published; anything else reads as not found.
func (s *PublicService) GetSubsectionBlocks(subsectionID uuid.UUID) (*models.Subsection, []models.Block, error) {
	subsection, err := s.publishedSubsection(subsectionID)
	if err != nil {
		return nil, nil, err
	}

	if blocks, ok := s.cache.Get(subsectionID); ok {
		return subsection, blocks, nil
	}

	var blocks []models.Block
	if err := s.db.Where("subsection_id = ?", subsectionID).
		Order("order_index ASC").
		Find(&blocks).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to fetch blocks: %w", err)
	}

	s.cache.Set(subsectionID, blocks)
	return subsection, blocks, nil
}

// Search runs a simple keyword match over published subsections: substring
// against the subsection title and against text-bearing block columns.
func (s *PublicService) Search(query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}, nil
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	term := "%" + strings.ToLower(query) + "%"

	blockMatches := s.db.Model(&models.Block{}).
		Select("subsection_id").
		Where("LOWER(text) LIKE ? OR LOWER(html) LIKE ?", term, term)

	var rows []struct {
		models.Subsection
		SectionTitle string
		ProductSlug  string
	}
	err := s.db.Model(&models.Subsection{}).
		Select("subsections.*, sections.title AS section_title, products.slug AS product_slug").
		Joins("JOIN sections ON sections.id = subsections.section_id").
		Joins("JOIN products ON products.id = sections.product_id").
		Where("subsections.is_published = ? AND sections.is_published = ? AND products.is_published = ?", true, true, true).
		Where("LOWER(subsections.title) LIKE ? OR subsections.id IN (?)", term, blockMatches).
		Order("subsections.title ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, SearchResult{
			SubsectionID: row.ID,
			Title:        row.Title,
			Slug:         row.Slug,
			SectionTitle: row.SectionTitle,
			ProductSlug:  row.ProductSlug,
		})
	}
	return results, nil
}

// publishedSubsection loads a subsection and verifies the publish flag on it
// and on both ancestors.
func (s *PublicService) publishedSubsection(id uuid.UUID) (*models.Subsection, error) {
	var subsection models.Subsection
	if err := s.db.First(&subsection, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subsection %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !subsection.IsPublished {
		return nil, fmt.Errorf("subsection %s: %w", id, ErrNotFound)
	}

	var section models.Section
	if err := s.db.First(&section, "id = ?", subsection.SectionID).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !section.IsPublished {
		return nil, fmt.Errorf("subsection %s: %w", id, ErrNotFound)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", section.ProductID).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !product.IsPublished {
		return nil, fmt.Errorf("subsection %s: %w", id, ErrNotFound)
	}

	return &subsection, nil
}
