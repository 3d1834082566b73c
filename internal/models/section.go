// internal/models/section.go
package models

import "github.com/google/uuid"

// Section groups subsections under a product. Sections have no slug; they are
// addressed by id and ordered by OrderIndex within their product.
type Section struct {
	BaseModel
	ProductID   uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	OrderIndex  int       `json:"order_index" gorm:"not null"`
	IsPublished bool      `json:"is_published" gorm:"default:false;index"`

	Subsections []Subsection `json:"subsections,omitempty" gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
}
