package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/handler"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubQuizService struct {
	list func(ctx context.Context) ([]domain.QuizSummary, error)
}

func (s *stubQuizService) GenerateQuiz(ctx context.Context, url string) (*domain.Quiz, error) {
	return nil, domain.NewInvalidInputError("Invalid Wikipedia URL")
}

func (s *stubQuizService) GetQuiz(ctx context.Context, id int64) (*domain.Quiz, error) {
	return nil, domain.NewQuizNotFoundError(id)
}

func (s *stubQuizService) ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return []domain.QuizSummary{}, nil
}

func testServerConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			IdleTimeout:  time.Second,
			BodyLimit:    1024 * 1024,
			AllowOrigins: "*",
			RateLimit:    config.RateLimitConfig{Max: 100, Window: time.Minute},
		},
	}
}

type okPinger struct{}

func (okPinger) PingContext(ctx context.Context) error { return nil }

func newTestServer(svc *stubQuizService) *fiber.App {
	return newServer(testServerConfig(), handler.NewQuizHandler(svc), handler.NewHealthHandler(okPinger{}, nil))
}

func TestServer_RootCarriesRequestID(t *testing.T) {
	app := newTestServer(&stubQuizService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Header.Get(fiber.HeaderXRequestID), 26)
}

func TestServer_CORS(t *testing.T) {
	app := newTestServer(&stubQuizService{})

	req := httptest.NewRequest(http.MethodGet, "/quizzes", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:5173")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
}

func TestServer_NotFoundQuiz(t *testing.T) {
	app := newTestServer(&stubQuizService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/quiz/99999", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_RecoversFromPanics(t *testing.T) {
	svc := &stubQuizService{list: func(ctx context.Context) ([]domain.QuizSummary, error) {
		panic("boom")
	}}
	app := newTestServer(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/quizzes", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestServer_HealthzIsNotRateLimited(t *testing.T) {
	cfg := testServerConfig()
	cfg.Server.RateLimit = config.RateLimitConfig{Max: 1, Window: time.Minute}
	app := newServer(cfg, handler.NewQuizHandler(&stubQuizService{}), handler.NewHealthHandler(okPinger{}, nil))

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestServer_Metrics(t *testing.T) {
	app := newTestServer(&stubQuizService{})

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "wikiquiz_http_requests_total")
}
