package entity

import (
	"strings"
	"time"
)

// MinContentLength is the minimum cleaned-body length, in bytes, for an
// Article to be considered usable by the summarizer.
const MinContentLength = 50

// Article is a fetched, extracted article body ready for summarization.
type Article struct {
	Title       string
	URL         string
	Body        string
	PublishedAt time.Time
	Author      string
	Source      string
}

// NewArticle validates and constructs an Article. Body must already be
// cleaned (boilerplate-stripped) and at least MinContentLength bytes.
func NewArticle(title, url, body string, publishedAt time.Time, author, source string) (Article, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Article{}, &ValidationError{Field: "title", Message: "title is required"}
	}
	if err := ValidateURL(url); err != nil {
		return Article{}, err
	}
	if len(body) < MinContentLength {
		return Article{}, &ValidationError{
			Field:   "body",
			Message: "article body shorter than minimum content length",
		}
	}
	return Article{
		Title:       title,
		URL:         url,
		Body:        body,
		PublishedAt: publishedAt,
		Author:      strings.TrimSpace(author),
		Source:      source,
	}, nil
}
