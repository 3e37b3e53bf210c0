package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wiki-quiz/internal/adapter/quizgen"
	"wiki-quiz/internal/adapter/wikipedia"
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/database"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/handler"
	"wiki-quiz/internal/repository"
	"wiki-quiz/internal/resilience/circuitbreaker"
	"wiki-quiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const octopusPage = `<html><body>
<h1 id="firstHeading">Octopus</h1>
<div id="mw-content-text">
<p>An octopus is a soft-bodied, eight-limbed mollusc of the order Octopoda.[1]</p>
<p>It has three hearts, blue blood and a beak, and can change colour to camouflage itself among rocks and coral.</p>
</div>
</body></html>`

type cannedModel struct{ reply string }

func (m cannedModel) Generate(ctx context.Context, prompt string) (string, error) {
	return m.reply, nil
}

func cannedQuizReply() string {
	var b strings.Builder
	b.WriteString("```json\n{\"questions\": [")
	for i := 0; i < 7; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"question": "Octopus fact %d?", "options": ["One", "Two", "Three", "Four"], "correct_answer": "c", "explanation": "From the article.", "difficulty": "Medium"}`, i+1)
	}
	b.WriteString("], \"related_topics\": [\"Cephalopod\", \"Squid\"]}\n```")
	return b.String()
}

// wikiTransport sends every request to the local stand-in for Wikipedia.
type wikiTransport struct {
	target *url.URL
}

func (t wikiTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = t.target.Scheme
	r.URL.Host = t.target.Host
	r.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(r)
}

func newEndToEndApp(t *testing.T) (*fiber.App, string) {
	t.Helper()

	wiki := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(octopusPage))
	}))
	t.Cleanup(wiki.Close)

	cfg := testServerConfig()
	cfg.DB = config.DBConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "wiki_quiz_e2e.db"),
	}
	require.NoError(t, database.Migrate(cfg, zap.NewNop()))
	db, err := database.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	target, err := url.Parse(wiki.URL)
	require.NoError(t, err)
	client := &http.Client{Timeout: 5 * time.Second, Transport: wikiTransport{target: target}}
	fetcher := wikipedia.NewFetcher(client, "Mozilla/5.0 (test)", circuitbreaker.New(circuitbreaker.WikipediaConfig()))
	generator := quizgen.NewQuizGenerator(cannedModel{reply: cannedQuizReply()}, config.LLMConfig{MaxAttempts: 1, Timeout: 5 * time.Second}, nil, zap.NewNop())
	svc := service.NewQuizService(fetcher, generator, repository.NewQuizDatabaseAdapter(db), nil, cfg)

	return newServer(cfg, handler.NewQuizHandler(svc), handler.NewHealthHandler(db, nil)), "https://en.wikipedia.org/wiki/Octopus"
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestEndToEnd_GenerateThenRead(t *testing.T) {
	app, articleURL := newEndToEndApp(t)

	body, _ := json.Marshal(dto.GenerateQuizRequest{URL: articleURL})
	req := httptest.NewRequest(http.MethodPost, "/generate-quiz", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	created := decode[dto.QuizResponse](t, resp)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Octopus", created.ArticleTitle)
	assert.NotContains(t, created.ArticleSummary, "[1]")
	require.Len(t, created.Questions, 7)
	assert.Equal(t, "C", created.Questions[0].CorrectAnswer)
	assert.Equal(t, "medium", created.Questions[0].Difficulty)
	assert.Equal(t, []string{"Cephalopod", "Squid"}, created.RelatedTopics)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/quiz/%d", created.ID), nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decode[dto.QuizResponse](t, resp)
	assert.Equal(t, created.Questions, fetched.Questions)
	assert.True(t, created.CreatedAt.Equal(fetched.CreatedAt))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/quizzes", nil), -1)
	require.NoError(t, err)
	summaries := decode[[]dto.QuizSummaryResponse](t, resp)
	require.Len(t, summaries, 1)
	assert.Equal(t, created.ID, summaries[0].ID)
	assert.Equal(t, 7, summaries[0].QuestionCount)
}

func TestEndToEnd_Healthz(t *testing.T) {
	app, _ := newEndToEndApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	require.NoError(t, err)
	health := decode[dto.HealthResponse](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", health.Checks["database"].Status)
}

func TestEndToEnd_RejectsNonWikipediaURL(t *testing.T) {
	app, _ := newEndToEndApp(t)

	for _, raw := range []string{
		"https://example.com/wiki/Octopus",
		"http://169.254.169.254/wikipedia.org/wiki/Octopus",
	} {
		req := httptest.NewRequest(http.MethodPost, "/generate-quiz", strings.NewReader(`{"url": "`+raw+`"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)

		errResp := decode[map[string]any](t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, raw)
		assert.Equal(t, "Invalid Wikipedia URL", errResp["message"], raw)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/quizzes", nil), -1)
	require.NoError(t, err)
	assert.Empty(t, decode[[]dto.QuizSummaryResponse](t, resp))
}
