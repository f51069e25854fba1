package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storyforge/internal/ai"
	"storyforge/internal/cache"
	"storyforge/internal/models"
	"storyforge/internal/observability"
	"storyforge/internal/repository"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
)

// StoryService handles owner-scoped story reads and the generation flow.
type StoryService struct {
	storyRepo     repository.StoryRepository
	characterRepo repository.CharacterRepository
	generator     ai.Generator
}

// GenerateStoryInput is the payload for POST /api/stories.
type GenerateStoryInput struct {
	Title            string `json:"title"`
	StoryType        string `json:"story_type"`
	CharacterIDs     []uint `json:"characters"`
	AdditionalPrompt string `json:"additional_prompt"`
}

// NewStoryService creates a new story service.
func NewStoryService(
	storyRepo repository.StoryRepository,
	characterRepo repository.CharacterRepository,
	generator ai.Generator,
) *StoryService {
	return &StoryService{
		storyRepo:     storyRepo,
		characterRepo: characterRepo,
		generator:     generator,
	}
}

// Generate runs the story creation flow: validate, verify ownership of
// every referenced character, build the prompt, call the model, then
// persist the story as a single record. Any failure before the final write
// leaves no trace; a failed generation call never creates a story.
func (s *StoryService) Generate(ctx context.Context, userID uint, in GenerateStoryInput) (*models.Story, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Please provide title, characters, and story type")
	}
	if len(in.Title) > models.MaxStoryTitleLen {
		return nil, models.NewValidationError(fmt.Sprintf("Title cannot be more than %d characters", models.MaxStoryTitleLen))
	}
	if len(in.CharacterIDs) == 0 {
		return nil, models.NewValidationError("Please provide title, characters, and story type")
	}
	if !models.IsValidStoryType(in.StoryType) {
		return nil, models.NewValidationError("Please specify a valid story type")
	}

	// Ownership check over every referenced character, fail-fast in
	// request order, before the model is called. No partial spend on the
	// external API.
	characters := make([]*models.Character, 0, len(in.CharacterIDs))
	for _, id := range in.CharacterIDs {
		character, err := s.characterRepo.GetOwned(ctx, id, userID)
		if err != nil {
			return nil, err
		}
		characters = append(characters, character)
	}

	profiles := make([]ai.CharacterProfile, 0, len(characters))
	for _, c := range characters {
		profiles = append(profiles, ai.CharacterProfile{
			Name:        c.Name,
			Description: c.Description,
			Traits:      c.Traits,
			Backstory:   c.Backstory,
		})
	}
	prompt := ai.BuildStoryPrompt(in.Title, in.StoryType, profiles, in.AdditionalPrompt)

	span, ctx := observability.NewSpan(ctx, "story.generate")
	span.AddAttributes(
		attribute.String("story.type", in.StoryType),
		attribute.Int("story.characters", len(characters)),
	)
	start := time.Now()
	content, err := s.generator.Generate(ctx, prompt)
	observability.ObserveGeneration(start, err)
	span.SetError(err)
	span.End()
	if err != nil {
		return nil, models.NewGenerationError(err)
	}

	story := &models.Story{
		Title:        in.Title,
		Content:      content,
		Prompt:       prompt,
		StoryType:    in.StoryType,
		CharacterIDs: in.CharacterIDs,
		UserID:       userID,
	}
	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.StoryListKey(userID))

	story.Characters = summarize(characters, true)
	return story, nil
}

// List returns all stories owned by the user, newest first, each with its
// characters' names attached.
func (s *StoryService) List(ctx context.Context, userID uint) ([]*models.Story, error) {
	var stories []*models.Story
	err := cache.Aside(ctx, cache.StoryListKey(userID), &stories, cache.ListTTL, func() error {
		var fetchErr error
		stories, fetchErr = s.storyRepo.ListByOwner(ctx, userID)
		if fetchErr != nil {
			return fetchErr
		}
		for _, story := range stories {
			if err := s.attachCharacters(ctx, userID, story, false); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stories, nil
}

// Get returns a single owned story with full character summaries.
func (s *StoryService) Get(ctx context.Context, userID, id uint) (*models.Story, error) {
	story, err := s.storyRepo.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.attachCharacters(ctx, userID, story, true); err != nil {
		return nil, err
	}
	return story, nil
}

// Delete removes an owned story.
func (s *StoryService) Delete(ctx context.Context, userID, id uint) error {
	story, err := s.storyRepo.GetOwned(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.storyRepo.Delete(ctx, story.ID); err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.StoryListKey(userID))
	return nil
}

// attachCharacters resolves a story's character references in stored order.
// Characters deleted since the story was generated are skipped rather than
// failing the read.
func (s *StoryService) attachCharacters(ctx context.Context, userID uint, story *models.Story, full bool) error {
	summaries := make([]models.StoryCharacter, 0, len(story.CharacterIDs))
	for _, id := range story.CharacterIDs {
		character, err := s.characterRepo.GetOwned(ctx, id, userID)
		if err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Status == fiber.StatusNotFound {
				continue
			}
			return err
		}
		summaries = append(summaries, toSummary(character, full))
	}
	story.Characters = summaries
	return nil
}

func summarize(characters []*models.Character, full bool) []models.StoryCharacter {
	out := make([]models.StoryCharacter, 0, len(characters))
	for _, c := range characters {
		out = append(out, toSummary(c, full))
	}
	return out
}

func toSummary(c *models.Character, full bool) models.StoryCharacter {
	summary := models.StoryCharacter{ID: c.ID, Name: c.Name}
	if full {
		summary.Description = c.Description
		summary.Traits = c.Traits
	}
	return summary
}
