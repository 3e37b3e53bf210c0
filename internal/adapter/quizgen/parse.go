package quizgen

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"wiki-quiz/internal/domain"
)

var (
	thinkBlockPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)
	codeFencePattern  = regexp.MustCompile("```(?:json|JSON)?\\s*|\\s*```")
)

var errNoJSONObject = errors.New("no JSON object found in LLM response")

// llmQuestion mirrors one question as the model writes it.
type llmQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
}

type llmQuiz struct {
	Questions     *[]llmQuestion `json:"questions"`
	RelatedTopics []string       `json:"related_topics"`
}

// ExtractJSONObject locates the JSON object inside a free-form model reply.
//
// Reasoning blocks (<think>...</think>) are dropped, then every '{' is tried in order
// and the first offset from which a complete JSON object decodes wins, so braces in
// leading prose and code fences around the object are skipped. If nothing decodes,
// the greedy span from the first '{' to the last '}' is returned with code fences
// removed, leaving the parse failure to the caller.
func ExtractJSONObject(reply string) (string, error) {
	text := thinkBlockPattern.ReplaceAllString(reply, "")

	for i := strings.IndexByte(text, '{'); i != -1; {
		var obj json.RawMessage
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&obj); err == nil {
			return string(obj), nil
		}
		next := strings.IndexByte(text[i+1:], '{')
		if next == -1 {
			break
		}
		i += next + 1
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return "", errNoJSONObject
	}
	return strings.TrimSpace(codeFencePattern.ReplaceAllString(text[start:end+1], "")), nil
}

// ParseQuizResponse extracts, validates and normalizes a quiz from a model reply.
// Every failure is a GenerationParseError.
func ParseQuizResponse(reply string) (*domain.GeneratedQuiz, error) {
	jsonText, err := ExtractJSONObject(reply)
	if err != nil {
		return nil, domain.NewGenerationParseError("Failed to parse LLM response", err)
	}

	var payload llmQuiz
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return nil, domain.NewGenerationParseError("Failed to parse LLM response", err)
	}
	if payload.Questions == nil {
		return nil, domain.NewGenerationParseError("Failed to parse LLM response", errors.New("no questions in response"))
	}

	quiz := &domain.GeneratedQuiz{
		Questions:     make([]domain.Question, 0, len(*payload.Questions)),
		RelatedTopics: make([]string, 0, len(payload.RelatedTopics)),
	}
	for _, q := range *payload.Questions {
		label, _ := domain.NormalizeAnswerLabel(q.CorrectAnswer)
		difficulty, ok := domain.ParseDifficulty(q.Difficulty)
		if !ok {
			difficulty = domain.Difficulty(q.Difficulty)
		}
		quiz.Questions = append(quiz.Questions, domain.Question{
			Text:          strings.TrimSpace(q.Question),
			Options:       q.Options,
			CorrectAnswer: label,
			Explanation:   strings.TrimSpace(q.Explanation),
			Difficulty:    difficulty,
		})
	}
	for _, topic := range payload.RelatedTopics {
		if topic = strings.TrimSpace(topic); topic != "" {
			quiz.RelatedTopics = append(quiz.RelatedTopics, topic)
		}
	}

	if err := quiz.Validate(); err != nil {
		return nil, domain.NewGenerationParseError("Invalid quiz format", err)
	}
	return quiz, nil
}
