// Package wikipedia fetches Wikipedia article pages and extracts their text.
package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/resilience/circuitbreaker"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	maxBodySize = 10 * 1024 * 1024 // 10MB

	// MinContentLength rejects stubs and disambiguation pages.
	MinContentLength = 100
	// MaxContentLength bounds the text handed to the quiz generator.
	MaxContentLength = 8000
	// MaxSummaryLength bounds the stored article summary.
	MaxSummaryLength = 500

	summaryFallbackLength = 300
	unknownTitle          = "Unknown Article"
)

var (
	citationPattern   = regexp.MustCompile(`\[\d+\]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Fetcher implements domain.ArticleFetcher over HTTP.
type Fetcher struct {
	client         *http.Client
	userAgent      string
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewFetcher creates a Fetcher. The client's Timeout bounds each page retrieval.
func NewFetcher(client *http.Client, userAgent string, cb *circuitbreaker.CircuitBreaker) *Fetcher {
	if cb == nil {
		cb = circuitbreaker.New(circuitbreaker.WikipediaConfig())
	}
	return &Fetcher{
		client:         client,
		userAgent:      userAgent,
		circuitBreaker: cb,
	}
}

// Fetch validates rawURL, downloads the page and extracts the article.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*domain.Article, error) {
	if !domain.IsWikipediaArticleURL(rawURL) {
		return nil, domain.NewInvalidInputError("Invalid Wikipedia URL")
	}

	res, err := f.circuitBreaker.Execute(func() (interface{}, error) {
		return f.fetchHTML(ctx, rawURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logger.Get().Warn("wikipedia circuit breaker rejected request",
				zap.String("url", rawURL),
				zap.String("state", f.circuitBreaker.State().String()))
		}
		return nil, domain.NewUpstreamUnavailableError("Failed to fetch Wikipedia article", err)
	}

	page := res.(*fetchedPage)
	if page.doc == nil {
		return nil, domain.NewUpstreamUnavailableError("Failed to fetch Wikipedia article",
			fmt.Errorf("unexpected status: %s", page.status))
	}

	article, err := extractArticle(page.doc)
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Fetched Wikipedia article",
		zap.String("url", rawURL),
		zap.String("title", article.Title),
		zap.Int("content_length", utf8.RuneCountInString(article.Content)))
	return article, nil
}

// fetchedPage carries either a parsed document or the client-error status that replaced it.
type fetchedPage struct {
	doc    *goquery.Document
	status string
}

// fetchHTML returns an error only for failures on Wikipedia's side (transport, 5xx, 429).
// Other 4xx answers come back as a page without a document so they do not trip the breaker.
func (f *Fetcher) fetchHTML(ctx context.Context, rawURL string) (*fetchedPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
	case isClientError(resp.StatusCode):
		return &fetchedPage{status: resp.Status}, nil
	default:
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return &fetchedPage{doc: doc}, nil
}

func isClientError(code int) bool {
	return code >= 400 && code <= 499 && code != http.StatusTooManyRequests
}

// ParseArticle extracts an article from a Wikipedia HTML page.
func ParseArticle(r io.Reader) (*domain.Article, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, domain.NewInvalidInputError("Could not parse article HTML")
	}
	return extractArticle(doc)
}

func extractArticle(doc *goquery.Document) (*domain.Article, error) {
	title := strings.TrimSpace(doc.Find("h1#firstHeading, h1.firstHeading").First().Text())
	if title == "" {
		title = unknownTitle
	}

	contentDiv := doc.Find("div#mw-content-text").First()
	if contentDiv.Length() == 0 {
		return nil, domain.NewInvalidInputError("Could not extract article content")
	}

	var paragraphs []string
	contentDiv.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := p.Text(); strings.TrimSpace(text) != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	content := cleanText(strings.Join(paragraphs, " "))
	if utf8.RuneCountInString(content) < MinContentLength {
		return nil, domain.NewInvalidInputError("Article content too short")
	}

	var summary string
	if len(paragraphs) > 0 {
		summary = cleanText(paragraphs[0])
	} else {
		summary = truncate(content, summaryFallbackLength)
	}

	return &domain.Article{
		Title:   title,
		Summary: truncate(summary, MaxSummaryLength),
		Content: truncate(content, MaxContentLength),
	}, nil
}

// cleanText strips citation markers like [12] and collapses whitespace runs.
func cleanText(s string) string {
	s = citationPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// truncate cuts s to at most n characters without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
