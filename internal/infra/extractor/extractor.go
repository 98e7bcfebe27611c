// Package extractor turns a fetched HTML page into a clean article body. It
// runs two independent extraction strategies and keeps whichever produced
// more text: go-readability's general-purpose algorithm, and a
// publisher-specific goquery selector cascade tuned for Korean press sites.
package extractor

import (
	"bytes"
	"errors"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// ErrExtractionFailed is returned when neither strategy produced usable text.
var ErrExtractionFailed = errors.New("extractor: could not extract article body")

// MinBodyLength is the shortest body, in runes, worth keeping. Below this the
// page is assumed to be a paywall stub, a loading shell, or similar.
const MinBodyLength = 50

// selectorWinLength is the length a single selector match must clear to win
// the cascade in extractWithSelectors outright, before falling through to
// later selectors or paragraph aggregation. It is higher than MinBodyLength
// because a short match from an early, broad selector is more likely to be
// a caption or byline than the article body.
const selectorWinLength = 100

// Result is the extracted body plus whatever title the page itself carried.
type Result struct {
	Title string
	Body  string
}

// BodyExtractor extracts an article body from raw HTML bytes.
type BodyExtractor interface {
	Extract(html []byte, pageURL string) (Result, error)
}

// Extractor is the default BodyExtractor.
type Extractor struct{}

// New returns an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract runs both extraction strategies and returns the longer result
// among those whose body clears MinBodyLength. When both clear it, the body
// lengths are compared in bytes and a tie goes to the publisher-specific
// goquery match rather than the generic readability pass.
func (e *Extractor) Extract(html []byte, pageURL string) (Result, error) {
	readabilityResult, readabilityErr := extractWithReadability(html, pageURL)
	selectorResult, selectorErr := extractWithSelectors(html)

	readabilityOK := readabilityErr == nil && len([]rune(readabilityResult.Body)) >= MinBodyLength
	selectorOK := selectorErr == nil && len([]rune(selectorResult.Body)) >= MinBodyLength

	switch {
	case selectorOK && readabilityOK:
		if len(selectorResult.Body) >= len(readabilityResult.Body) {
			return selectorResult, nil
		}
		return readabilityResult, nil
	case selectorOK:
		return selectorResult, nil
	case readabilityOK:
		return readabilityResult, nil
	default:
		return Result{}, ErrExtractionFailed
	}
}

func extractWithReadability(html []byte, pageURL string) (Result, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		parsedURL = &url.URL{}
	}

	article, err := readability.FromReader(bytes.NewReader(html), parsedURL)
	if err != nil {
		return Result{}, err
	}

	body := CleanKoreanText(article.TextContent)
	return Result{Title: strings.TrimSpace(article.Title), Body: body}, nil
}

func extractWithSelectors(html []byte) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return Result{}, err
	}

	doc.Find(strings.Join(unwantedSelectors, ", ")).Remove()

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	for _, sel := range append(append([]selector{}, koreanSelectors...), genericSelectors...) {
		text := strings.TrimSpace(doc.Find(sel.css).First().Text())
		if len([]rune(text)) >= selectorWinLength {
			return Result{Title: title, Body: CleanKoreanText(text)}, nil
		}
	}

	// Last resort: aggregate paragraph text from the whole document.
	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			paragraphs = append(paragraphs, t)
		}
	})
	text := strings.Join(paragraphs, " ")
	if len([]rune(text)) < MinBodyLength {
		return Result{}, ErrExtractionFailed
	}
	return Result{Title: title, Body: CleanKoreanText(text)}, nil
}
