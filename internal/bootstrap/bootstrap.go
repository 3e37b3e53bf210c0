// Package bootstrap wires the quiz service and its adapters from configuration.
// Both the HTTP server and the batch command start from here.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"wiki-quiz/internal/adapter"
	"wiki-quiz/internal/adapter/llm"
	"wiki-quiz/internal/adapter/quizgen"
	"wiki-quiz/internal/adapter/wikipedia"
	"wiki-quiz/internal/cache"
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/database"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/repository"
	"wiki-quiz/internal/resilience/circuitbreaker"
	"wiki-quiz/internal/service"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Components holds everything built by Build.
type Components struct {
	DB    *sqlx.DB
	Cache domain.Cache // nil when Redis is not configured or unreachable

	WikipediaBreaker *circuitbreaker.CircuitBreaker
	LLMBreaker       *circuitbreaker.CircuitBreaker

	QuizService service.QuizService

	closers []func() error
}

// Build migrates (when enabled) and opens the database, connects the optional
// Redis cache and assembles the quiz service. Close releases what it opened.
func Build(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Components, error) {
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(cfg, l); err != nil {
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c := &Components{DB: db}
	c.closers = append(c.closers, db.Close)
	l.Info("Database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			l.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		} else {
			c.closers = append(c.closers, redisClient.Close)
			c.Cache = adapter.NewRedisCacheAdapter(redisClient)
			l.Info("Redis cache enabled", zap.String("address", cfg.Redis.Address))
		}
	}

	model, err := llm.NewModel(ctx, cfg.LLM)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	l.Info("LLM client initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model))

	c.LLMBreaker = circuitbreaker.New(circuitbreaker.LLMConfig())
	c.WikipediaBreaker = circuitbreaker.New(circuitbreaker.WikipediaConfig())

	generator := quizgen.NewQuizGenerator(
		llm.NewTextGenerator(model, cfg.LLM),
		cfg.LLM,
		c.LLMBreaker,
		l,
	)
	fetcher := wikipedia.NewFetcher(
		&http.Client{Timeout: cfg.Wikipedia.Timeout},
		cfg.Wikipedia.UserAgent,
		c.WikipediaBreaker,
	)

	c.QuizService = service.NewQuizService(fetcher, generator, repository.NewQuizDatabaseAdapter(c.DB), c.Cache, cfg)
	return c, nil
}

// Close releases the cache connection and the database, in reverse order of opening.
func (c *Components) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}
