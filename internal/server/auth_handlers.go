package server

import (
	"storyforge/internal/middleware"
	"storyforge/internal/models"
	"storyforge/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.authSvc.Register(c.Context(), req)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.RespondWithData(c, fiber.StatusCreated, user)
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	token, user, err := s.authSvc.Login(c.Context(), req)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Me handles GET /api/auth/me
func (s *Server) Me(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return models.RespondWithError(c, models.NewUnauthorizedError("Authorization required"))
	}

	user, err := s.authSvc.Me(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.RespondWithData(c, fiber.StatusOK, user)
}
