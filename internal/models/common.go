// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields. IDs are assigned client-side so the same
// models work against Postgres and the in-memory test database.
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Enums
type UserType string

const (
	UserTypeEditor UserType = "editor"
	UserTypeAdmin  UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type BlockType string

const (
	BlockTypeHeading   BlockType = "heading"
	BlockTypeParagraph BlockType = "paragraph"
	BlockTypeImage     BlockType = "image"
	BlockTypeList      BlockType = "list"
	BlockTypeRichText  BlockType = "richtext"
)

func (t BlockType) Valid() bool {
	switch t {
	case BlockTypeHeading, BlockTypeParagraph, BlockTypeImage, BlockTypeList, BlockTypeRichText:
		return true
	}
	return false
}

type ListStyle string

const (
	ListStyleBullet   ListStyle = "bullet"
	ListStyleNumbered ListStyle = "numbered"
)

type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)
