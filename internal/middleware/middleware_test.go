package middleware_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(middleware.RequestLogger())
	return app
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{name: "invalid input", err: domain.NewInvalidInputError("Invalid Wikipedia URL"), wantStatus: 400, wantCode: "INVALID_INPUT", wantMsg: "Invalid Wikipedia URL"},
		{name: "not found", err: domain.NewQuizNotFoundError(99999), wantStatus: 404, wantCode: "NOT_FOUND", wantMsg: "Quiz not found with ID: 99999"},
		{name: "upstream", err: domain.NewUpstreamUnavailableError("Quiz generation failed", errors.New("quota")), wantStatus: 500, wantCode: "UPSTREAM_UNAVAILABLE", wantMsg: "Quiz generation failed"},
		{name: "parse", err: domain.NewGenerationParseError("Invalid quiz format", nil), wantStatus: 500, wantCode: "GENERATION_PARSE_ERROR", wantMsg: "Invalid quiz format"},
		{name: "persistence", err: domain.NewPersistenceError("failed to save quiz", errors.New("disk full")), wantStatus: 500, wantCode: "PERSISTENCE_ERROR", wantMsg: "failed to save quiz"},
		{name: "wrapped domain error", err: errors.Join(errors.New("context"), domain.NewQuizNotFoundError(3)), wantStatus: 404, wantCode: "NOT_FOUND", wantMsg: "Quiz not found with ID: 3"},
		{name: "fiber error", err: fiber.ErrMethodNotAllowed, wantStatus: 405, wantCode: "HTTP_ERROR", wantMsg: "Method Not Allowed"},
		{name: "unknown", err: errors.New("boom"), wantStatus: 500, wantCode: "INTERNAL_ERROR", wantMsg: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp()
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body := decode[middleware.ErrorResponse](t, resp)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.Equal(t, tt.wantStatus, body.Status)
		})
	}
}

func TestErrorHandler_ValidationErrors(t *testing.T) {
	app := newApp()
	app.Get("/", func(c *fiber.Ctx) error {
		return domain.ValidationErrors{domain.NewMissingFieldError("url")}
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[middleware.ValidationErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "url", body.Errors[0].Field)
}

func TestValidationMiddleware_ValidateQuizID(t *testing.T) {
	vm := middleware.NewValidationMiddleware()
	app := newApp()
	app.Get("/quiz/:id", vm.ValidateQuizID(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": c.Locals(middleware.LocalsQuizID).(int64)})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/quiz/12", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(12), decode[map[string]any](t, resp)["id"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/quiz/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValidationMiddleware_ValidateGenerateQuizRequest(t *testing.T) {
	vm := middleware.NewValidationMiddleware()
	app := newApp()
	app.Post("/generate-quiz", vm.ValidateGenerateQuizRequest(), func(c *fiber.Ctx) error {
		req := c.Locals(middleware.LocalsGenerateQuizRequest).(*dto.GenerateQuizRequest)
		return c.SendString(req.URL)
	})

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/generate-quiz", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := post(`{"url":"https://en.wikipedia.org/wiki/Octopus"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = post(`{"url":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", decode[middleware.ValidationErrorResponse](t, resp).Code)

	resp = post(`{"url":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_INPUT", decode[middleware.ErrorResponse](t, resp).Code)
}

func TestRateLimiter(t *testing.T) {
	app := newApp()
	app.Use(middleware.RateLimiter(config.RateLimitConfig{Max: 2, Window: time.Minute}))
	app.Get("/quizzes", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/quizzes", nil))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, statuses)
}

func TestRateLimiter_Disabled(t *testing.T) {
	app := newApp()
	app.Use(middleware.RateLimiter(config.RateLimitConfig{Max: 0}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
