package middleware

import (
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	// LocalsQuizID holds the parsed :id of quiz routes.
	LocalsQuizID = "validated_quiz_id"
	// LocalsGenerateQuizRequest holds the parsed *dto.GenerateQuizRequest.
	LocalsGenerateQuizRequest = "validated_generate_quiz_request"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateQuizID parses the :id path parameter.
func (vm *ValidationMiddleware) ValidateQuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, errs := vm.validator.ParseQuizID(c.Params("id"))
		if len(errs) > 0 {
			return errs
		}
		c.Locals(LocalsQuizID, id)
		return c.Next()
	}
}

// ValidateGenerateQuizRequest parses and validates the JSON body of a generate request.
func (vm *ValidationMiddleware) ValidateGenerateQuizRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.GenerateQuizRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.NewInvalidInputError("Invalid request body")
		}
		if errs := vm.validator.ValidateGenerateQuizRequest(req.URL); len(errs) > 0 {
			return errs
		}
		c.Locals(LocalsGenerateQuizRequest, &req)
		return c.Next()
	}
}
