package repository

import (
	"context"
	"errors"

	"storyforge/internal/models"

	"gorm.io/gorm"
)

// CharacterRepository defines the interface for character data operations.
// GetOwned is the ownership precondition every read/update/delete composes:
// absent records and foreign records produce distinct typed errors.
type CharacterRepository interface {
	Create(ctx context.Context, character *models.Character) error
	GetOwned(ctx context.Context, id, userID uint) (*models.Character, error)
	ListByOwner(ctx context.Context, userID uint) ([]*models.Character, error)
	Update(ctx context.Context, character *models.Character) error
	Delete(ctx context.Context, id uint) error
}

type characterRepository struct {
	db *gorm.DB
}

// NewCharacterRepository creates a new character repository
func NewCharacterRepository(db *gorm.DB) CharacterRepository {
	return &characterRepository{db: db}
}

func (r *characterRepository) Create(ctx context.Context, character *models.Character) error {
	if err := r.db.WithContext(ctx).Create(character).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *characterRepository) GetOwned(ctx context.Context, id, userID uint) (*models.Character, error) {
	var character models.Character
	if err := r.db.WithContext(ctx).First(&character, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Character", id)
		}
		return nil, models.NewInternalError(err)
	}
	if character.UserID != userID {
		return nil, models.NewForbiddenError("Not authorized to access this character")
	}
	return &character, nil
}

func (r *characterRepository) ListByOwner(ctx context.Context, userID uint) ([]*models.Character, error) {
	var characters []*models.Character
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&characters).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return characters, nil
}

func (r *characterRepository) Update(ctx context.Context, character *models.Character) error {
	if err := r.db.WithContext(ctx).Save(character).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *characterRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Character{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
