package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"wiki-quiz/internal/cache"
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultQuizTTL    = 24 * time.Hour
	defaultArticleTTL = 6 * time.Hour

	cacheNameQuiz    = "quiz"
	cacheNameArticle = "article"
)

// QuizService defines the quiz operations exposed over HTTP.
type QuizService interface {
	// GenerateQuiz fetches the article at url, generates a quiz and stores it.
	GenerateQuiz(ctx context.Context, url string) (*domain.Quiz, error)
	// GetQuiz returns the stored quiz. Concurrent callers may receive the same
	// *domain.Quiz, so callers must treat it as read-only.
	GetQuiz(ctx context.Context, id int64) (*domain.Quiz, error)
	ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error)
}

// quizService implements QuizService
type quizService struct {
	fetcher    domain.ArticleFetcher
	generator  domain.QuizGenerationService
	repo       domain.QuizRepository
	cache      domain.Cache // nil disables caching
	quizTTL    time.Duration
	articleTTL time.Duration
	group      singleflight.Group
	now        func() time.Time
}

// NewQuizService creates a new instance of quizService. c may be nil.
func NewQuizService(
	fetcher domain.ArticleFetcher,
	generator domain.QuizGenerationService,
	repo domain.QuizRepository,
	c domain.Cache,
	cfg *config.Config,
) QuizService {
	return &quizService{
		fetcher:    fetcher,
		generator:  generator,
		repo:       repo,
		cache:      c,
		quizTTL:    cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Quiz, defaultQuizTTL),
		articleTTL: cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Article, defaultArticleTTL),
		now:        time.Now,
	}
}

// GenerateQuiz implements QuizService. Nothing is stored unless every stage succeeds.
func (s *quizService) GenerateQuiz(ctx context.Context, url string) (quiz *domain.Quiz, err error) {
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = string(domain.CodeOf(err))
		}
		metrics.RecordGeneration(outcome)
	}()

	url = strings.TrimSpace(url)
	if !domain.IsWikipediaArticleURL(url) {
		return nil, domain.NewInvalidInputError("Invalid Wikipedia URL")
	}

	article, err := s.fetchArticle(ctx, url)
	if err != nil {
		logger.Get().Warn("Article fetch failed", zap.String("url", url), zap.Error(err))
		return nil, err
	}

	start := time.Now()
	generated, err := s.generator.GenerateQuiz(ctx, article)
	metrics.RecordStage("generate", time.Since(start))
	if err != nil {
		return nil, err
	}

	quiz = domain.NewQuiz(url, article, generated, s.now().UTC().Truncate(time.Microsecond))

	start = time.Now()
	if _, err := s.repo.Create(ctx, quiz); err != nil {
		logger.Get().Error("Failed to save quiz", zap.String("url", url), zap.Error(err))
		return nil, err
	}
	metrics.RecordStage("persist", time.Since(start))

	logger.Get().Info("Quiz created",
		zap.Int64("quiz_id", quiz.ID),
		zap.String("article", quiz.ArticleTitle),
		zap.Int("questions", len(quiz.Questions)))
	return quiz, nil
}

// GetQuiz implements QuizService. Reads go through the cache; concurrent misses for one id share a single load.
// The shared load ignores the first caller's cancellation so that it cannot fail the other waiters.
func (s *quizService) GetQuiz(ctx context.Context, id int64) (*domain.Quiz, error) {
	key := cache.QuizDetailKey(id)

	var cached domain.Quiz
	if s.getJSON(ctx, cacheNameQuiz, key, &cached) {
		return &cached, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		quiz, err := s.repo.GetByID(loadCtx, id)
		if err != nil {
			return nil, err
		}
		s.setJSON(loadCtx, key, quiz, s.quizTTL)
		return quiz, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Quiz), nil
}

// ListQuizzes implements QuizService
func (s *quizService) ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	return s.repo.List(ctx)
}

func (s *quizService) fetchArticle(ctx context.Context, url string) (*domain.Article, error) {
	key := cache.ArticleKey(url)

	var cached domain.Article
	if s.getJSON(ctx, cacheNameArticle, key, &cached) {
		return &cached, nil
	}

	start := time.Now()
	article, err := s.fetcher.Fetch(ctx, url)
	metrics.RecordStage("fetch", time.Since(start))
	if err != nil {
		return nil, err
	}

	s.setJSON(ctx, key, article, s.articleTTL)
	return article, nil
}

// getJSON reports whether key was found and decoded into dest. Cache faults count as misses.
func (s *quizService) getJSON(ctx context.Context, cacheName, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			metrics.RecordCache(cacheName, "miss")
		} else {
			metrics.RecordCache(cacheName, "error")
			logger.Get().Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		metrics.RecordCache(cacheName, "error")
		logger.Get().Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	metrics.RecordCache(cacheName, "hit")
	return true
}

func (s *quizService) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		logger.Get().Warn("Failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(data), ttl); err != nil {
		logger.Get().Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
