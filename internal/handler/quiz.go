package handler

import (
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/middleware"
	"wiki-quiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *middleware.ValidationMiddleware
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: middleware.NewValidationMiddleware(),
	}
}

// RegisterRoutes mounts the quiz endpoints on router.
func (h *QuizHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.Root)
	router.Post("/generate-quiz", h.validator.ValidateGenerateQuizRequest(), h.GenerateQuiz)
	router.Get("/quizzes", h.ListQuizzes)
	router.Get("/quiz/:id", h.validator.ValidateQuizID(), h.GetQuiz)
}

// Root godoc
// @Summary Service status
// @Description Reports that the API is up
// @Tags health
// @Produce json
// @Success 200 {object} dto.StatusResponse
// @Router / [get]
func (h *QuizHandler) Root(c *fiber.Ctx) error {
	return c.JSON(dto.StatusResponse{
		Message: "Wikipedia Quiz Generator API",
		Status:  "active",
	})
}

// GenerateQuiz godoc
// @Summary Generate a quiz from a Wikipedia article
// @Description Fetches the article, generates seven multiple-choice questions with an LLM and stores the quiz
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Wikipedia article URL"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /generate-quiz [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	req := c.Locals(middleware.LocalsGenerateQuizRequest).(*dto.GenerateQuizRequest)

	quiz, err := h.service.GenerateQuiz(c.UserContext(), req.URL)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewQuizResponse(quiz))
}

// ListQuizzes godoc
// @Summary List generated quizzes
// @Description Returns every stored quiz, most recent first
// @Tags quiz
// @Produce json
// @Success 200 {array} dto.QuizSummaryResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	summaries, err := h.service.ListQuizzes(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(dto.NewQuizSummaryResponses(summaries))
}

// GetQuiz godoc
// @Summary Get a quiz
// @Description Returns one stored quiz with all of its questions
// @Tags quiz
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quiz/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	id := c.Locals(middleware.LocalsQuizID).(int64)

	quiz, err := h.service.GetQuiz(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewQuizResponse(quiz))
}
