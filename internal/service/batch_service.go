package service

import (
	"context"
	"strings"
	"time"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchService generates quizzes for many articles in one run.
type BatchService interface {
	// GenerateQuizzes creates one quiz per distinct URL. Per-URL failures are reported in the
	// results; the returned error is non-nil only when ctx ends before the run completes.
	GenerateQuizzes(ctx context.Context, urls []string) ([]domain.BatchResult, error)
}

// batchService implements BatchService on top of QuizService.
type batchService struct {
	quizzes     QuizService
	concurrency int
	logger      *zap.Logger
}

// NewBatchService creates a new instance of batchService.
func NewBatchService(quizzes QuizService, cfg *config.Config, logger *zap.Logger) BatchService {
	concurrency := cfg.Batch.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &batchService{
		quizzes:     quizzes,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (s *batchService) GenerateQuizzes(ctx context.Context, urls []string) ([]domain.BatchResult, error) {
	targets := uniqueURLs(urls)
	s.logger.Info("Starting batch quiz generation",
		zap.Int("urls", len(targets)),
		zap.Int("concurrency", s.concurrency))
	start := time.Now()

	results := make([]domain.BatchResult, len(targets))
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)

	for i, url := range targets {
		i, url := i, url
		g.Go(func() error {
			results[i] = domain.BatchResult{URL: url}
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			quiz, err := s.quizzes.GenerateQuiz(ctx, url)
			if err != nil {
				s.logger.Warn("Quiz generation failed", zap.String("url", url), zap.Error(err))
				results[i].Err = err
				return nil
			}
			results[i].QuizID = quiz.ID
			s.logger.Info("Quiz stored", zap.String("url", url), zap.Int64("quiz_id", quiz.ID))
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if !r.Succeeded() {
			failed++
		}
	}
	s.logger.Info("Batch quiz generation finished",
		zap.Int("succeeded", len(results)-failed),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)))

	return results, ctx.Err()
}

// uniqueURLs trims input and drops blanks and repeats, keeping first-seen order.
func uniqueURLs(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
