package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const (
	insertQuizQuery = `INSERT INTO quizzes (url, article_title, article_summary, related_topics, created_at)
	VALUES (?, ?, ?, ?, ?)
	RETURNING id`

	insertQuestionQuery = `INSERT INTO questions (quiz_id, position, question_text, options, correct_answer, explanation, difficulty)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	selectQuizQuery = `SELECT id, url, article_title, article_summary, related_topics, created_at
	FROM quizzes
	WHERE id = ?`

	selectQuestionsQuery = `SELECT id, quiz_id, position, question_text, options, correct_answer, explanation, difficulty
	FROM questions
	WHERE quiz_id = ?
	ORDER BY position`

	listQuizzesQuery = `SELECT q.id, q.url, q.article_title, q.created_at, COUNT(qs.id) AS question_count
	FROM quizzes q
	LEFT JOIN questions qs ON qs.quiz_id = q.id
	GROUP BY q.id, q.url, q.article_title, q.created_at
	ORDER BY q.created_at DESC, q.id DESC`

	deleteQuizQuery = `DELETE FROM quizzes WHERE id = ?`
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB.
// Queries are written with '?' placeholders and rebound for the connected driver.
type QuizDatabaseAdapter struct {
	db *sqlx.DB
	tx *TransactionManagerAdapter
}

var _ domain.QuizRepository = (*QuizDatabaseAdapter)(nil)

func NewQuizDatabaseAdapter(db *sqlx.DB) *QuizDatabaseAdapter {
	return &QuizDatabaseAdapter{db: db, tx: NewTransactionManagerAdapter(db)}
}

// Create inserts the quiz header and all of its questions in one transaction.
func (a *QuizDatabaseAdapter) Create(ctx context.Context, quiz *domain.Quiz) (int64, error) {
	if quiz == nil {
		return 0, domain.NewPersistenceError("cannot save nil quiz", nil)
	}

	var id int64
	err := a.tx.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, a.db)

		row := toModelQuiz(quiz)
		if err := exec.QueryRowxContext(ctx, a.db.Rebind(insertQuizQuery),
			row.URL,
			row.ArticleTitle,
			row.ArticleSummary,
			row.RelatedTopics,
			row.CreatedAt,
		).Scan(&id); err != nil {
			return fmt.Errorf("insert quiz: %w", err)
		}

		for i, q := range toModelQuestions(id, quiz.Questions) {
			if _, err := exec.ExecContext(ctx, a.db.Rebind(insertQuestionQuery),
				q.QuizID,
				q.Position,
				q.QuestionText,
				q.Options,
				q.CorrectAnswer,
				q.Explanation,
				q.Difficulty,
			); err != nil {
				return fmt.Errorf("insert question %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, domain.NewPersistenceError("failed to save quiz", err)
	}

	quiz.ID = id
	return id, nil
}

// GetByID returns the quiz with its questions ordered by position.
func (a *QuizDatabaseAdapter) GetByID(ctx context.Context, id int64) (*domain.Quiz, error) {
	exec := GetExecutor(ctx, a.db)

	var row models.Quiz
	if err := exec.GetContext(ctx, &row, a.db.Rebind(selectQuizQuery), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewQuizNotFoundError(id)
		}
		return nil, domain.NewPersistenceError("failed to load quiz", err)
	}

	var questions []models.Question
	if err := exec.SelectContext(ctx, &questions, a.db.Rebind(selectQuestionsQuery), id); err != nil {
		return nil, domain.NewPersistenceError("failed to load quiz questions", err)
	}

	return toDomainQuiz(&row, questions), nil
}

// List returns every quiz summary, most recent first.
func (a *QuizDatabaseAdapter) List(ctx context.Context) ([]domain.QuizSummary, error) {
	var rows []models.QuizSummary
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, a.db.Rebind(listQuizzesQuery)); err != nil {
		return nil, domain.NewPersistenceError("failed to list quizzes", err)
	}

	summaries := make([]domain.QuizSummary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, domain.QuizSummary{
			ID:            r.ID,
			SourceURL:     r.URL,
			ArticleTitle:  r.ArticleTitle,
			QuestionCount: r.QuestionCount,
			CreatedAt:     r.CreatedAt.UTC(),
		})
	}
	return summaries, nil
}

// Delete removes a quiz; its questions go with it through the foreign key cascade.
func (a *QuizDatabaseAdapter) Delete(ctx context.Context, id int64) error {
	res, err := GetExecutor(ctx, a.db).ExecContext(ctx, a.db.Rebind(deleteQuizQuery), id)
	if err != nil {
		return domain.NewPersistenceError("failed to delete quiz", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.NewPersistenceError("failed to delete quiz", err)
	}
	if affected == 0 {
		return domain.NewQuizNotFoundError(id)
	}
	return nil
}

func toModelQuiz(q *domain.Quiz) *models.Quiz {
	return &models.Quiz{
		ID:             q.ID,
		URL:            q.SourceURL,
		ArticleTitle:   q.ArticleTitle,
		ArticleSummary: q.ArticleSummary,
		RelatedTopics:  models.StringSlice(q.RelatedTopics),
		CreatedAt:      q.CreatedAt.UTC(),
	}
}

func toModelQuestions(quizID int64, questions []domain.Question) []models.Question {
	rows := make([]models.Question, 0, len(questions))
	for i, q := range questions {
		rows = append(rows, models.Question{
			QuizID:        quizID,
			Position:      i + 1,
			QuestionText:  q.Text,
			Options:       models.StringSlice(q.Options),
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Difficulty:    string(q.Difficulty),
		})
	}
	return rows
}

func toDomainQuiz(row *models.Quiz, questionRows []models.Question) *domain.Quiz {
	questions := make([]domain.Question, 0, len(questionRows))
	for _, q := range questionRows {
		questions = append(questions, domain.Question{
			Text:          q.QuestionText,
			Options:       []string(q.Options),
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Difficulty:    domain.Difficulty(q.Difficulty),
		})
	}
	topics := []string(row.RelatedTopics)
	if topics == nil {
		topics = []string{}
	}
	return &domain.Quiz{
		ID:             row.ID,
		SourceURL:      row.URL,
		ArticleTitle:   row.ArticleTitle,
		ArticleSummary: row.ArticleSummary,
		Questions:      questions,
		RelatedTopics:  topics,
		CreatedAt:      row.CreatedAt.UTC(),
	}
}
