package dto

import (
	"time"

	"wiki-quiz/internal/domain"
)

// GenerateQuizRequest is the body of POST /generate-quiz
// @Description Wikipedia article to build a quiz from
type GenerateQuizRequest struct {
	URL string `json:"url" example:"https://en.wikipedia.org/wiki/Octopus"`
}

// QuestionResponse is one multiple-choice question
type QuestionResponse struct {
	Question      string   `json:"question" example:"How many hearts does an octopus have?"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer" example:"C"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty" example:"easy" enums:"easy,medium,hard"`
}

// QuizResponse represents a stored quiz in the API response
// @Description Quiz with its questions
type QuizResponse struct {
	ID             int64              `json:"id" example:"1"`
	URL            string             `json:"url" example:"https://en.wikipedia.org/wiki/Octopus"`
	ArticleTitle   string             `json:"article_title" example:"Octopus"`
	ArticleSummary string             `json:"article_summary"`
	Questions      []QuestionResponse `json:"questions"`
	RelatedTopics  []string           `json:"related_topics"`
	CreatedAt      time.Time          `json:"created_at"`
}

// QuizSummaryResponse is one entry of the quiz history
type QuizSummaryResponse struct {
	ID            int64     `json:"id" example:"1"`
	URL           string    `json:"url" example:"https://en.wikipedia.org/wiki/Octopus"`
	ArticleTitle  string    `json:"article_title" example:"Octopus"`
	QuestionCount int       `json:"question_count" example:"7"`
	CreatedAt     time.Time `json:"created_at"`
}

// StatusResponse is returned by the health endpoint
type StatusResponse struct {
	Message string `json:"message" example:"Wikipedia Quiz Generator API"`
	Status  string `json:"status" example:"active"`
}

func NewQuizResponse(q *domain.Quiz) QuizResponse {
	questions := make([]QuestionResponse, 0, len(q.Questions))
	for _, qs := range q.Questions {
		questions = append(questions, QuestionResponse{
			Question:      qs.Text,
			Options:       qs.Options,
			CorrectAnswer: qs.CorrectAnswer,
			Explanation:   qs.Explanation,
			Difficulty:    string(qs.Difficulty),
		})
	}
	topics := q.RelatedTopics
	if topics == nil {
		topics = []string{}
	}
	return QuizResponse{
		ID:             q.ID,
		URL:            q.SourceURL,
		ArticleTitle:   q.ArticleTitle,
		ArticleSummary: q.ArticleSummary,
		Questions:      questions,
		RelatedTopics:  topics,
		CreatedAt:      q.CreatedAt,
	}
}

// NewQuizSummaryResponses never returns nil, so an empty history encodes as [].
func NewQuizSummaryResponses(summaries []domain.QuizSummary) []QuizSummaryResponse {
	out := make([]QuizSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, QuizSummaryResponse{
			ID:            s.ID,
			URL:           s.SourceURL,
			ArticleTitle:  s.ArticleTitle,
			QuestionCount: s.QuestionCount,
			CreatedAt:     s.CreatedAt,
		})
	}
	return out
}
