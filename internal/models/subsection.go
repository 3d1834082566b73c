// internal/models/subsection.go
package models

import "github.com/google/uuid"

// Subsection is the unit of public reading: it owns an ordered list of blocks.
// Its slug is unique within its section only, enforced by the composite index.
type Subsection struct {
	BaseModel
	SectionID   uuid.UUID `json:"section_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_subsections_section_slug"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Slug        string    `json:"slug" gorm:"size:255;not null;uniqueIndex:idx_subsections_section_slug"`
	OrderIndex  int       `json:"order_index" gorm:"not null"`
	IsPublished bool      `json:"is_published" gorm:"default:false;index"`

	Blocks []Block `json:"blocks,omitempty" gorm:"foreignKey:SubsectionID;constraint:OnDelete:CASCADE"`
}
