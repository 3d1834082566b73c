// internal/models/product.go
package models

// Product is the root of the content tree. Its slug is unique across the
// whole catalog and forms the first segment of public URLs.
type Product struct {
	BaseModel
	Name        string `json:"name" gorm:"size:255;not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Description string `json:"description" gorm:"type:text"`
	IsPublished bool   `json:"is_published" gorm:"default:false;index"`

	Sections []Section `json:"sections,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}
