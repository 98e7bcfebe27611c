// Package sanitize guards every piece of untrusted text (search queries,
// RSS titles and summaries, extracted article bodies) before it is placed
// into an LLM prompt, so a crafted feed entry can't hijack the system
// instruction it rides alongside.
package sanitize

import (
	"errors"
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrDangerousInput is returned when text matches a known prompt-injection
// or script-injection pattern.
var ErrDangerousInput = errors.New("sanitize: input contains disallowed content")

// MaxQueryLength bounds a user-supplied search query.
const MaxQueryLength = 200

// MaxGeneralLength bounds general untrusted text (feed titles/summaries)
// before it's placed into a prompt.
const MaxGeneralLength = 2000

// dangerousPatterns flags attempts to override the system prompt, inject
// script content, or smuggle SQL. A match means "reject and fall back",
// never "strip and continue" — partial stripping of an injection attempt can
// still leave the dangerous part intact.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(ignore|forget|override)\s+(previous|above|prior|earlier)\s+(instruction|prompt|rule)`),
	regexp.MustCompile(`(?i)(you\s+are\s+now|act\s+as|pretend\s+to\s+be|roleplay)`),
	regexp.MustCompile(`(?i)(system\s*:|assistant\s*:|user\s*:)`),
	regexp.MustCompile(`(?i)(execute|run|eval|compile)\s*[([]`),
	regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)vbscript\s*:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)(union\s+select|drop\s+table|delete\s+from|insert\s+into)`),
	regexp.MustCompile(`['"]\s*;\s*--`),
	regexp.MustCompile(`(?i)###\s*(instruction|system|prompt)`),
	regexp.MustCompile(`(?i)\[system]|\[user]|\[assistant]`),
}

// forbiddenChars are stripped outright rather than triggering rejection;
// they're common in legitimate Korean press text (quotes, punctuation) but
// never belong raw in a prompt.
var forbiddenChars = []string{"<", ">", "`", "\x00", "\x01", "\x02"}

// collapseRunsRe collapses runs of non-word, non-Korean, non-punctuation
// characters that tend to indicate obfuscated injection attempts.
var collapseRunsRe = regexp.MustCompile(`[^\p{L}\p{N}\s.,!?()\-]{2,}`)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Query sanitizes a user-supplied search query. It normalizes, rejects
// dangerous patterns outright, strips forbidden characters, HTML-escapes,
// and collapses whitespace. The query form uses the tighter MaxQueryLength.
func Query(text string) (string, error) {
	return validate(text, MaxQueryLength)
}

// General sanitizes untrusted text destined for a prompt as context rather
// than as the primary instruction (feed titles, summaries, extracted body
// text). It uses the looser MaxGeneralLength.
func General(text string) (string, error) {
	return validate(text, MaxGeneralLength)
}

func validate(text string, maxLength int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New("sanitize: empty input")
	}

	runes := []rune(text)
	if len(runes) > maxLength {
		text = string(runes[:maxLength])
	}

	text = norm.NFKC.String(text)

	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(text) {
			return "", ErrDangerousInput
		}
	}

	for _, c := range forbiddenChars {
		text = strings.ReplaceAll(text, c, "")
	}

	text = html.EscapeString(text)
	text = collapseRunsRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))

	if text == "" {
		return "", errors.New("sanitize: input empty after cleaning")
	}
	return text, nil
}

// ValidAPIKeyFormat reports whether key looks like a well-formed provider
// API key: an "sk-" prefix and at least 20 characters. This is a format
// check only, never proof the key is valid against the provider.
func ValidAPIKeyFormat(key string) bool {
	return strings.HasPrefix(key, "sk-") && len(key) >= 20
}
