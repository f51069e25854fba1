package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Character is a reusable persona owned by a single user. Traits are stored
// as a JSON column so element order survives round-trips on both postgres
// and sqlite.
type Character struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	Name        string                      `gorm:"not null" json:"name"`
	Description string                      `gorm:"not null" json:"description"`
	Traits      datatypes.JSONSlice[string] `json:"traits"`
	Backstory   string                      `json:"backstory"`
	UserID      uint                        `gorm:"not null;index" json:"user_id"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
	DeletedAt   gorm.DeletedAt              `gorm:"index" json:"-"`
}

// Field length limits for characters.
const (
	MaxCharacterNameLen        = 50
	MaxCharacterDescriptionLen = 1000
	MaxCharacterBackstoryLen   = 2000
)
