package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

const (
	GlobalKeyPrefix = "wikiquiz"

	QuizServiceName    = "quiz"
	ArticleServiceName = "article"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// QuizDetailKey is the key of a cached full quiz.
func QuizDetailKey(id int64) string {
	return GenerateCacheKey(QuizServiceName, "detail", strconv.FormatInt(id, 10))
}

// ArticleKey is the key of a cached article. The URL is hashed to keep keys short and free of separators.
func ArticleKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return GenerateCacheKey(ArticleServiceName, "page", hex.EncodeToString(sum[:]))
}
