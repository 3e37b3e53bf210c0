// Package quizgen turns a Wikipedia article into a validated multiple-choice quiz using an LLM.
package quizgen

import (
	"context"
	"errors"
	"time"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/resilience/circuitbreaker"

	"github.com/cenkalti/backoff/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const defaultRetryInterval = 500 * time.Millisecond

// QuizGenerator implements domain.QuizGenerationService.
type QuizGenerator struct {
	llm           domain.TextGenerator
	breaker       *circuitbreaker.CircuitBreaker
	timeout       time.Duration
	maxAttempts   int
	retryInterval time.Duration
	logger        *zap.Logger
}

var _ domain.QuizGenerationService = (*QuizGenerator)(nil)

// NewQuizGenerator creates a generator around llm. A nil breaker gets the default LLM breaker.
func NewQuizGenerator(llm domain.TextGenerator, cfg config.LLMConfig, cb *circuitbreaker.CircuitBreaker, logger *zap.Logger) *QuizGenerator {
	if cb == nil {
		cb = circuitbreaker.New(circuitbreaker.LLMConfig())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &QuizGenerator{
		llm:           llm,
		breaker:       cb,
		timeout:       cfg.Timeout,
		maxAttempts:   attempts,
		retryInterval: defaultRetryInterval,
		logger:        logger,
	}
}

// GenerateQuiz prompts the model once per attempt and parses the reply.
// Transport failures are retried up to the configured attempt count; malformed replies are not.
func (g *QuizGenerator) GenerateQuiz(ctx context.Context, article *domain.Article) (*domain.GeneratedQuiz, error) {
	prompt := BuildPrompt(article)

	attempt := 0
	reply, err := backoff.Retry(ctx, func() (string, error) {
		attempt++
		out, err := g.generateOnce(ctx, prompt)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", backoff.Permanent(err)
		}
		g.logger.Warn("LLM call failed",
			zap.String("article", article.Title),
			zap.Int("attempt", attempt),
			zap.Error(err))
		return "", err
	},
		backoff.WithBackOff(g.newBackOff()),
		backoff.WithMaxTries(uint(g.maxAttempts)),
	)
	if err != nil {
		g.logger.Error("Quiz generation failed", zap.String("article", article.Title), zap.Error(err))
		return nil, domain.NewUpstreamUnavailableError("Quiz generation failed", err)
	}

	quiz, err := ParseQuizResponse(reply)
	if err != nil {
		g.logger.Error("Failed to parse LLM response",
			zap.String("article", article.Title),
			zap.Int("reply_length", len(reply)),
			zap.Error(err))
		return nil, err
	}

	g.logger.Info("Quiz generated",
		zap.String("article", article.Title),
		zap.Int("questions", len(quiz.Questions)),
		zap.Int("attempts", attempt))
	return quiz, nil
}

func (g *QuizGenerator) generateOnce(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.llm.Generate(ctx, prompt)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (g *QuizGenerator) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.retryInterval
	b.MaxInterval = 8 * g.retryInterval
	return b
}
