package entity

import (
	"strings"
	"time"
)

// maxTitleLength is the trimmed-title cap enforced on every FeedEntry.
const maxTitleLength = 500

// FeedEntry is one item parsed out of an RSS/Atom feed, before filtering or
// content enhancement. It is immutable once constructed.
type FeedEntry struct {
	Title       string
	Link        string
	RawSummary  string
	PublishedAt time.Time
	Author      string
	SourceName  string
	SourceHost  string
}

// NewFeedEntry validates and constructs a FeedEntry. Title and Link are
// required; a malformed or missing link is rejected rather than silently
// dropped, leaving the caller (the feed parser) to decide whether to skip
// the surrounding entry.
func NewFeedEntry(title, link, rawSummary string, publishedAt time.Time, author, sourceName, sourceHost string) (FeedEntry, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return FeedEntry{}, &ValidationError{Field: "title", Message: "title is required"}
	}
	if len(title) > maxTitleLength {
		title = title[:maxTitleLength]
	}

	if err := ValidateURL(link); err != nil {
		return FeedEntry{}, err
	}

	return FeedEntry{
		Title:       title,
		Link:        link,
		RawSummary:  rawSummary,
		PublishedAt: publishedAt,
		Author:      strings.TrimSpace(author),
		SourceName:  sourceName,
		SourceHost:  sourceHost,
	}, nil
}

// MatchesKeyword reports whether keyword appears, case-insensitively, in the
// entry's title or raw summary. It deliberately never looks at fetched body
// text — filtering happens before a body is ever fetched.
func (e FeedEntry) MatchesKeyword(keyword string) bool {
	k := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(e.Title), k) || strings.Contains(strings.ToLower(e.RawSummary), k)
}
