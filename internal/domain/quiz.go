package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// QuestionsPerQuiz is the number of questions every generated quiz carries.
	QuestionsPerQuiz = 7
	// OptionsPerQuestion is the number of answer options, labeled A..D.
	OptionsPerQuestion = 4

	// WikipediaArticlePath must appear in every accepted source URL.
	WikipediaArticlePath = "wikipedia.org/wiki/"
	// WikipediaHost is the registrable domain every accepted source URL must be served from.
	WikipediaHost = "wikipedia.org"
)

// AnswerLabels are the labels of the four options, in order.
var AnswerLabels = []string{"A", "B", "C", "D"}

// Difficulty of a single question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty normalizes s and reports whether it names a known difficulty.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, true
	default:
		return "", false
	}
}

// NormalizeAnswerLabel uppercases label and reports whether it is one of A..D.
func NormalizeAnswerLabel(label string) (string, bool) {
	l := strings.ToUpper(strings.TrimSpace(label))
	for _, valid := range AnswerLabels {
		if l == valid {
			return l, true
		}
	}
	return l, false
}

// IsWikipediaArticleURL reports whether rawURL points at a Wikipedia article page.
// The URL must contain WikipediaArticlePath and its host must be wikipedia.org or a subdomain of it.
func IsWikipediaArticleURL(rawURL string) bool {
	if !strings.Contains(rawURL, WikipediaArticlePath) {
		return false
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == WikipediaHost || strings.HasSuffix(host, "."+WikipediaHost)
}

// Article is the normalized text extracted from a Wikipedia page.
type Article struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

// Question is a single multiple-choice item.
type Question struct {
	Text          string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correct_answer"`
	Explanation   string     `json:"explanation"`
	Difficulty    Difficulty `json:"difficulty"`
}

// Validate checks the per-question invariants.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question text is required")
	}
	if len(q.Options) != OptionsPerQuestion {
		return fmt.Errorf("question must have exactly %d options, got %d", OptionsPerQuestion, len(q.Options))
	}
	if _, ok := NormalizeAnswerLabel(q.CorrectAnswer); !ok {
		return fmt.Errorf("invalid correct answer %q", q.CorrectAnswer)
	}
	if _, ok := ParseDifficulty(string(q.Difficulty)); !ok {
		return fmt.Errorf("invalid difficulty %q", q.Difficulty)
	}
	return nil
}

// GeneratedQuiz is the validated output of the quiz generator.
type GeneratedQuiz struct {
	Questions     []Question `json:"questions"`
	RelatedTopics []string   `json:"related_topics"`
}

// Validate checks the quiz-level invariants.
func (g *GeneratedQuiz) Validate() error {
	if len(g.Questions) != QuestionsPerQuiz {
		return fmt.Errorf("quiz must have exactly %d questions, got %d", QuestionsPerQuiz, len(g.Questions))
	}
	for i := range g.Questions {
		if err := g.Questions[i].Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	if len(g.RelatedTopics) == 0 {
		return fmt.Errorf("related topics are required")
	}
	return nil
}

// Quiz is the persisted bundle of one article's metadata plus its questions.
type Quiz struct {
	ID             int64      `json:"id"`
	SourceURL      string     `json:"url"`
	ArticleTitle   string     `json:"article_title"`
	ArticleSummary string     `json:"article_summary"`
	Questions      []Question `json:"questions"`
	RelatedTopics  []string   `json:"related_topics"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewQuiz assembles an unsaved Quiz from a fetched article and a validated generation result.
func NewQuiz(sourceURL string, article *Article, generated *GeneratedQuiz, createdAt time.Time) *Quiz {
	return &Quiz{
		SourceURL:      sourceURL,
		ArticleTitle:   article.Title,
		ArticleSummary: article.Summary,
		Questions:      generated.Questions,
		RelatedTopics:  generated.RelatedTopics,
		CreatedAt:      createdAt,
	}
}

// QuizSummary is one row of the quiz history listing.
type QuizSummary struct {
	ID            int64     `json:"id"`
	SourceURL     string    `json:"url"`
	ArticleTitle  string    `json:"article_title"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}
