package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice stores a string list as a JSON array in a text column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte

	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}

	return json.Unmarshal(bytesToParse, s)
}

// Quiz is a row of the quizzes table.
type Quiz struct {
	ID             int64       `db:"id"`
	URL            string      `db:"url"`
	ArticleTitle   string      `db:"article_title"`
	ArticleSummary string      `db:"article_summary"`
	RelatedTopics  StringSlice `db:"related_topics"`
	CreatedAt      time.Time   `db:"created_at"`
}

// Question is a row of the questions table.
type Question struct {
	ID            int64       `db:"id"`
	QuizID        int64       `db:"quiz_id"`
	Position      int         `db:"position"`
	QuestionText  string      `db:"question_text"`
	Options       StringSlice `db:"options"`
	CorrectAnswer string      `db:"correct_answer"`
	Explanation   string      `db:"explanation"`
	Difficulty    string      `db:"difficulty"`
}

// QuizSummary is a row of the history listing query.
type QuizSummary struct {
	ID            int64     `db:"id"`
	URL           string    `db:"url"`
	ArticleTitle  string    `db:"article_title"`
	QuestionCount int       `db:"question_count"`
	CreatedAt     time.Time `db:"created_at"`
}
