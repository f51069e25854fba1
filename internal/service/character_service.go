package service

import (
	"context"
	"fmt"
	"strings"

	"storyforge/internal/cache"
	"storyforge/internal/models"
	"storyforge/internal/repository"
)

// CharacterService handles owner-scoped character CRUD.
type CharacterService struct {
	characterRepo repository.CharacterRepository
}

// CharacterInput is the payload for creating or updating a character.
type CharacterInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Traits      []string `json:"traits"`
	Backstory   string   `json:"backstory"`
}

// NewCharacterService creates a new character service.
func NewCharacterService(characterRepo repository.CharacterRepository) *CharacterService {
	return &CharacterService{characterRepo: characterRepo}
}

func validateCharacterInput(in *CharacterInput) error {
	in.Name = strings.TrimSpace(in.Name)
	for i, t := range in.Traits {
		in.Traits[i] = strings.TrimSpace(t)
	}

	if in.Name == "" {
		return models.NewValidationError("Please add a character name")
	}
	if len(in.Name) > models.MaxCharacterNameLen {
		return models.NewValidationError(fmt.Sprintf("Name cannot be more than %d characters", models.MaxCharacterNameLen))
	}
	if in.Description == "" {
		return models.NewValidationError("Please add a description")
	}
	if len(in.Description) > models.MaxCharacterDescriptionLen {
		return models.NewValidationError(fmt.Sprintf("Description cannot be more than %d characters", models.MaxCharacterDescriptionLen))
	}
	if len(in.Backstory) > models.MaxCharacterBackstoryLen {
		return models.NewValidationError(fmt.Sprintf("Backstory cannot be more than %d characters", models.MaxCharacterBackstoryLen))
	}
	return nil
}

// Create validates and stores a new character for the given owner.
func (s *CharacterService) Create(ctx context.Context, userID uint, in CharacterInput) (*models.Character, error) {
	if err := validateCharacterInput(&in); err != nil {
		return nil, err
	}

	character := &models.Character{
		Name:        in.Name,
		Description: in.Description,
		Traits:      in.Traits,
		Backstory:   in.Backstory,
		UserID:      userID,
	}
	if err := s.characterRepo.Create(ctx, character); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.CharacterListKey(userID))
	return character, nil
}

// List returns all characters owned by the user, newest first.
func (s *CharacterService) List(ctx context.Context, userID uint) ([]*models.Character, error) {
	var characters []*models.Character
	err := cache.Aside(ctx, cache.CharacterListKey(userID), &characters, cache.ListTTL, func() error {
		var fetchErr error
		characters, fetchErr = s.characterRepo.ListByOwner(ctx, userID)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return characters, nil
}

// Get returns a single character after the ownership precondition passes.
func (s *CharacterService) Get(ctx context.Context, userID, id uint) (*models.Character, error) {
	return s.characterRepo.GetOwned(ctx, id, userID)
}

// Update replaces the mutable fields of an owned character. ID, owner, and
// creation time are immutable after creation.
func (s *CharacterService) Update(ctx context.Context, userID, id uint, in CharacterInput) (*models.Character, error) {
	character, err := s.characterRepo.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := validateCharacterInput(&in); err != nil {
		return nil, err
	}

	character.Name = in.Name
	character.Description = in.Description
	character.Traits = in.Traits
	character.Backstory = in.Backstory

	if err := s.characterRepo.Update(ctx, character); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.CharacterListKey(userID))
	return character, nil
}

// Delete removes an owned character.
func (s *CharacterService) Delete(ctx context.Context, userID, id uint) error {
	character, err := s.characterRepo.GetOwned(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.characterRepo.Delete(ctx, character.ID); err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.CharacterListKey(userID))
	return nil
}
