package cache

import (
	"strings"
	"testing"
)

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "quiz",
			objectType:  "detail",
			identifier:  "123",
			paramsKey:   nil,
			expectedKey: "wikiquiz:quiz:detail:123",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "quiz",
			objectType:  "detail",
			identifier:  "123",
			paramsKey:   []string{},
			expectedKey: "wikiquiz:quiz:detail:123",
		},
		{
			name:        "with one paramsKey",
			serviceName: "article",
			objectType:  "page",
			identifier:  "abc",
			paramsKey:   []string{"en"},
			expectedKey: "wikiquiz:article:page:abc:en",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "quiz",
			objectType:  "list",
			identifier:  "all",
			paramsKey:   []string{"param1", "param2", "param3"},
			expectedKey: "wikiquiz:quiz:list:all:param1_param2_param3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actualKey := GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...)
			if actualKey != tt.expectedKey {
				t.Errorf("GenerateCacheKey() = %v, want %v", actualKey, tt.expectedKey)
			}
		})
	}
}

func TestQuizDetailKey(t *testing.T) {
	if got := QuizDetailKey(42); got != "wikiquiz:quiz:detail:42" {
		t.Errorf("QuizDetailKey() = %v", got)
	}
}

func TestArticleKey(t *testing.T) {
	a := ArticleKey("https://en.wikipedia.org/wiki/Octopus")
	b := ArticleKey("https://en.wikipedia.org/wiki/Squid")

	if !strings.HasPrefix(a, "wikiquiz:article:page:") {
		t.Errorf("ArticleKey() = %v, missing prefix", a)
	}
	if a == b {
		t.Errorf("ArticleKey() collided for different URLs")
	}
	if a != ArticleKey("https://en.wikipedia.org/wiki/Octopus") {
		t.Errorf("ArticleKey() is not stable")
	}
	if strings.Contains(strings.TrimPrefix(a, "wikiquiz:article:page:"), ":") {
		t.Errorf("ArticleKey() identifier contains a separator: %v", a)
	}
}
