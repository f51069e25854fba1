package server

import (
	"strconv"

	"storyforge/internal/middleware"
	"storyforge/internal/models"
	"storyforge/internal/service"

	"github.com/gofiber/fiber/v2"
)

// parseIDParam parses the :id route parameter.
func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, models.NewValidationError("Invalid id parameter")
	}
	return uint(id), nil
}

// ListCharacters handles GET /api/characters
func (s *Server) ListCharacters(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	characters, err := s.characters.List(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.RespondWithList(c, len(characters), characters)
}

// CreateCharacter handles POST /api/characters
func (s *Server) CreateCharacter(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var req service.CharacterInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	character, err := s.characters.Create(c.Context(), userID, req)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.RespondWithData(c, fiber.StatusCreated, character)
}

// GetCharacter handles GET /api/characters/:id
func (s *Server) GetCharacter(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	id, err := parseIDParam(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	character, err := s.characters.Get(c.Context(), userID, id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.RespondWithData(c, fiber.StatusOK, character)
}

// UpdateCharacter handles PUT /api/characters/:id
func (s *Server) UpdateCharacter(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	id, err := parseIDParam(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req service.CharacterInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	character, err := s.characters.Update(c.Context(), userID, id, req)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.RespondWithData(c, fiber.StatusOK, character)
}

// DeleteCharacter handles DELETE /api/characters/:id
func (s *Server) DeleteCharacter(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	id, err := parseIDParam(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.characters.Delete(c.Context(), userID, id); err != nil {
		return models.RespondWithError(c, err)
	}

	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{})
}
