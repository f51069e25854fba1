package server

import (
	"storyforge/internal/middleware"
	"storyforge/internal/models"
	"storyforge/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListStories handles GET /api/stories
func (s *Server) ListStories(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	stories, err := s.stories.List(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.RespondWithList(c, len(stories), stories)
}

// GenerateStory handles POST /api/stories. The flow is strictly ordered:
// validate, verify character ownership, build the prompt, call the model,
// persist. A failure at any step aborts with no story record created.
func (s *Server) GenerateStory(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var req service.GenerateStoryInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	story, err := s.stories.Generate(c.Context(), userID, req)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.RespondWithData(c, fiber.StatusCreated, story)
}

// GetStory handles GET /api/stories/:id
func (s *Server) GetStory(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	id, err := parseIDParam(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	story, err := s.stories.Get(c.Context(), userID, id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.RespondWithData(c, fiber.StatusOK, story)
}

// DeleteStory handles DELETE /api/stories/:id
func (s *Server) DeleteStory(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	id, err := parseIDParam(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.stories.Delete(c.Context(), userID, id); err != nil {
		return models.RespondWithError(c, err)
	}

	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{})
}
