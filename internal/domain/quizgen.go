package domain

import (
	"context"
)

// ArticleFetcher retrieves and normalizes a Wikipedia article.
type ArticleFetcher interface {
	Fetch(ctx context.Context, url string) (*Article, error)
}

// TextGenerator performs one generation call against an LLM and returns its raw reply.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// QuizGenerationService turns an article into a validated quiz payload.
type QuizGenerationService interface {
	GenerateQuiz(ctx context.Context, article *Article) (*GeneratedQuiz, error)
}

// QuizRepository persists and reads quizzes.
type QuizRepository interface {
	// Create stores the quiz header and questions atomically and returns the assigned id.
	Create(ctx context.Context, quiz *Quiz) (int64, error)
	GetByID(ctx context.Context, id int64) (*Quiz, error)
	// List returns summaries, most recent first.
	List(ctx context.Context) ([]QuizSummary, error)
	Delete(ctx context.Context, id int64) error
}

// TransactionManager runs fn inside a transaction carried by the context.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
