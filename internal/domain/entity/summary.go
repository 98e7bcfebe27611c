package entity

import "fmt"

// ArticleSummary is the final, caller-visible product of the pipeline: a
// bounded-length summary of one article.
type ArticleSummary struct {
	Title        string
	URL          string
	Summary      string
	Source       string
	OriginalLen  int
	SummaryLen   int
	QualityScore float64 // 0.0-1.0, optional; 0 means "not computed"
}

// NewArticleSummary validates and constructs an ArticleSummary.
func NewArticleSummary(title, url, summary, source string, originalLen int) (ArticleSummary, error) {
	if summary == "" {
		return ArticleSummary{}, &ValidationError{Field: "summary", Message: "summary must not be empty"}
	}
	summaryLen := len([]rune(summary))
	if summaryLen > originalLen && originalLen > 0 {
		return ArticleSummary{}, &ValidationError{
			Field:   "summary",
			Message: fmt.Sprintf("summary length %d exceeds original length %d", summaryLen, originalLen),
		}
	}
	return ArticleSummary{
		Title:       title,
		URL:         url,
		Summary:     summary,
		Source:      source,
		OriginalLen: originalLen,
		SummaryLen:  summaryLen,
	}, nil
}
