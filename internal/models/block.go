// internal/models/block.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Block is one unit of subsection content. The five block kinds share a single
// table with a type discriminator; only the columns matching Type carry data.
// Type is fixed at creation and never changes.
type Block struct {
	BaseModel
	SubsectionID uuid.UUID `json:"subsection_id" gorm:"type:uuid;not null;index"`
	Type         BlockType `json:"type" gorm:"type:varchar(20);not null"`
	OrderIndex   int       `json:"order_index" gorm:"not null"`
	Align        Alignment `json:"align,omitempty" gorm:"type:varchar(10);default:'left'"`

	HeadingLevel *int           `json:"heading_level,omitempty"`
	Text         *string        `json:"text,omitempty" gorm:"type:text"`
	ImagePath    *string        `json:"image_path,omitempty" gorm:"size:512"`
	ImageWidth   *int           `json:"image_width,omitempty"`
	ListStyle    *ListStyle     `json:"list_style,omitempty" gorm:"type:varchar(20)"`
	ListItems    pq.StringArray `json:"list_items,omitempty" gorm:"type:text[]"`
	HTML         *string        `json:"html,omitempty" gorm:"type:text"`
}

// BlockContent is the typed view of a block's payload. Exactly one variant is
// populated for any given block.
type BlockContent interface {
	blockType() BlockType
}

type HeadingContent struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

type ParagraphContent struct {
	Text string `json:"text"`
}

type ImageContent struct {
	Path  string `json:"path"`
	Width int    `json:"width,omitempty"`
}

type ListContent struct {
	Style ListStyle `json:"style"`
	Items []string  `json:"items"`
}

type RichTextContent struct {
	HTML string `json:"html"`
}

func (HeadingContent) blockType() BlockType   { return BlockTypeHeading }
func (ParagraphContent) blockType() BlockType { return BlockTypeParagraph }
func (ImageContent) blockType() BlockType     { return BlockTypeImage }
func (ListContent) blockType() BlockType      { return BlockTypeList }
func (RichTextContent) blockType() BlockType  { return BlockTypeRichText }

// Content returns the variant matching the block's type. Columns belonging to
// other variants are ignored, so a row can never present mixed content.
func (b *Block) Content() BlockContent {
	switch b.Type {
	case BlockTypeHeading:
		c := HeadingContent{Text: strVal(b.Text)}
		if b.HeadingLevel != nil {
			c.Level = *b.HeadingLevel
		}
		return c
	case BlockTypeParagraph:
		return ParagraphContent{Text: strVal(b.Text)}
	case BlockTypeImage:
		c := ImageContent{Path: strVal(b.ImagePath)}
		if b.ImageWidth != nil {
			c.Width = *b.ImageWidth
		}
		return c
	case BlockTypeList:
		c := ListContent{Items: b.ListItems}
		if b.ListStyle != nil {
			c.Style = *b.ListStyle
		}
		return c
	case BlockTypeRichText:
		return RichTextContent{HTML: strVal(b.HTML)}
	}
	return nil
}

// SetContent writes the variant's fields and clears every column that belongs
// to a different variant. The caller is responsible for type validation.
func (b *Block) SetContent(content BlockContent) {
	b.HeadingLevel = nil
	b.Text = nil
	b.ImagePath = nil
	b.ImageWidth = nil
	b.ListStyle = nil
	b.ListItems = nil
	b.HTML = nil

	switch c := content.(type) {
	case HeadingContent:
		level := c.Level
		text := c.Text
		b.HeadingLevel = &level
		b.Text = &text
	case ParagraphContent:
		text := c.Text
		b.Text = &text
	case ImageContent:
		path := c.Path
		b.ImagePath = &path
		if c.Width > 0 {
			width := c.Width
			b.ImageWidth = &width
		}
	case ListContent:
		style := c.Style
		b.ListStyle = &style
		b.ListItems = c.Items
	case RichTextContent:
		html := c.HTML
		b.HTML = &html
	}
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
