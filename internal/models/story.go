package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Story is a generated artifact. It keeps the exact prompt sent to the
// model alongside the generated content, and references (never owns) the
// characters it was generated from, in request order.
type Story struct {
	ID           uint                      `gorm:"primaryKey" json:"id"`
	Title        string                    `gorm:"not null" json:"title"`
	Content      string                    `gorm:"not null" json:"content"`
	Prompt       string                    `gorm:"not null" json:"prompt"`
	StoryType    string                    `gorm:"not null" json:"story_type"`
	CharacterIDs datatypes.JSONSlice[uint] `json:"character_ids"`
	// Characters is not persisted; populated from CharacterIDs at read time.
	Characters []StoryCharacter `gorm:"-" json:"characters,omitempty"`
	UserID     uint             `gorm:"not null;index" json:"user_id"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	DeletedAt  gorm.DeletedAt   `gorm:"index" json:"-"`
}

// StoryCharacter is the character summary attached to story responses.
type StoryCharacter struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Traits      []string `json:"traits,omitempty"`
}

// MaxStoryTitleLen is the maximum story title length.
const MaxStoryTitleLen = 100

// Story type enum values.
const (
	StoryTypeAdventure = "adventure"
	StoryTypeRomance   = "romance"
	StoryTypeMystery   = "mystery"
	StoryTypeHorror    = "horror"
	StoryTypeFantasy   = "fantasy"
	StoryTypeSciFi     = "sci-fi"
	StoryTypeOther     = "other"
)

// StoryTypes lists every valid story type.
var StoryTypes = []string{
	StoryTypeAdventure,
	StoryTypeRomance,
	StoryTypeMystery,
	StoryTypeHorror,
	StoryTypeFantasy,
	StoryTypeSciFi,
	StoryTypeOther,
}

// IsValidStoryType reports whether t is one of the supported story types.
func IsValidStoryType(t string) bool {
	for _, s := range StoryTypes {
		if t == s {
			return true
		}
	}
	return false
}
