// Package feedparser turns RSS/Atom bytes into domain FeedEntry values. It
// never fetches a URL itself — that's httpfetch's job — so feeds and HTTP
// concerns stay cleanly separated and testable in isolation.
package feedparser

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"newsdigest/internal/domain/entity"
)

const (
	// DefaultMaxEntries is applied when a caller doesn't specify a cap.
	DefaultMaxEntries = 20
	// MaxEntriesCeiling is the hard ceiling no caller may exceed.
	MaxEntriesCeiling = 100
)

// FeedParser parses feed bytes into FeedEntry values.
type FeedParser interface {
	Parse(body []byte, sourceName, sourceHost string, maxEntries int) ([]entity.FeedEntry, error)
}

// GofeedParser wraps gofeed.Parser.
type GofeedParser struct {
	parser *gofeed.Parser
}

// New returns a GofeedParser.
func New() *GofeedParser {
	return &GofeedParser{parser: gofeed.NewParser()}
}

// Parse decodes an RSS/Atom document and returns up to maxEntries FeedEntry
// values (clamped to [1, MaxEntriesCeiling]), most recent first as given by
// the feed. Entries missing a title or a link that fails URL validation are
// dropped silently; a feed with zero valid entries is not itself an error.
func (p *GofeedParser) Parse(body []byte, sourceName, sourceHost string, maxEntries int) ([]entity.FeedEntry, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if maxEntries > MaxEntriesCeiling {
		maxEntries = MaxEntriesCeiling
	}

	feed, err := p.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed from %s: %w", sourceName, err)
	}

	entries := make([]entity.FeedEntry, 0, maxEntries)
	for _, item := range feed.Items {
		if len(entries) >= maxEntries {
			break
		}
		if item == nil {
			continue
		}

		summary := pickSummary(item)
		author := ""
		if item.Author != nil {
			author = item.Author.Name
		} else if len(item.Authors) > 0 && item.Authors[0] != nil {
			author = item.Authors[0].Name
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		entry, err := entity.NewFeedEntry(item.Title, item.Link, summary, published, author, sourceName, sourceHost)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// pickSummary implements the content-priority ladder: full content body,
// then RSS description, then the iTunes extension summary if that's all the
// feed exposes. gofeed normalizes most of this into Content/Description already;
// this just orders the fallbacks so the richer field wins.
func pickSummary(item *gofeed.Item) string {
	if s := strings.TrimSpace(item.Content); s != "" {
		return s
	}
	if s := strings.TrimSpace(item.Description); s != "" {
		return s
	}
	if item.ITunesExt != nil && strings.TrimSpace(item.ITunesExt.Summary) != "" {
		return strings.TrimSpace(item.ITunesExt.Summary)
	}
	return ""
}
