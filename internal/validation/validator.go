package validation

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"wiki-quiz/internal/domain"
)

const maxURLLength = 2048

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateGenerateQuizRequest checks that rawURL is present and parses as an absolute http(s) URL.
// Whether it points at Wikipedia is decided by the quiz service.
func (v *Validator) ValidateGenerateQuizRequest(rawURL string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		errors = append(errors, domain.NewMissingFieldError("url"))
		return errors
	}

	if len(rawURL) > maxURLLength || !isHTTPURL(rawURL) {
		errors = append(errors, domain.NewInvalidFormatError("url", truncate(rawURL, 100)))
	}

	return errors
}

// ParseQuizID parses a path id. Only base-10 integers are accepted.
func (v *Validator) ParseQuizID(raw string) (int64, domain.ValidationErrors) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError("id", truncate(raw, 40))}
	}
	return id, nil
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
