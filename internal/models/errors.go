package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// AppError is the application error type. Every failure a handler can
// surface is one of these; the Status field drives the HTTP mapping in
// RespondWithError.
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError reports bad or missing input.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  fiber.StatusBadRequest,
	}
}

// NewUnauthorizedError reports bad credentials or a bad token.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  fiber.StatusUnauthorized,
	}
}

// NewForbiddenError reports a valid identity acting on a record it does
// not own. Distinct from NotFound: existence is leaked to the owner check,
// the record body never is.
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  fiber.StatusForbidden,
	}
}

// NewNotFoundError reports an absent record.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found with id %v", resource, id),
		Status:  fiber.StatusNotFound,
	}
}

// NewConflictError reports a duplicate unique key.
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  fiber.StatusConflict,
	}
}

// NewGenerationError wraps a failure from the text-generation provider.
func NewGenerationError(err error) *AppError {
	return &AppError{
		Code:    "GENERATION_ERROR",
		Message: "Failed to generate story with AI service",
		Status:  fiber.StatusBadGateway,
		Err:     err,
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Status:  fiber.StatusInternalServerError,
		Err:     err,
	}
}
