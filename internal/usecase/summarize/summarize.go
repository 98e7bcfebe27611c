// Package summarize produces bounded-length article summaries via an
// LLMChat provider, with post-processing (prefix stripping, boilerplate
// removal) and an optional quality score used purely for observability —
// it never gates whether a summary is returned.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/infra/extractor"
	"newsdigest/internal/infra/llm"
	"newsdigest/internal/utils/text"
)

// DefaultCharacterLimit is the soft cap on summary length applied when the
// caller doesn't specify one.
const DefaultCharacterLimit = 900

// MinCharacterLimit and MaxCharacterLimit bound SUMMARIZER_CHAR_LIMIT.
const (
	MinCharacterLimit = 100
	MaxCharacterLimit = 5000
)

// maxInputChars caps the article body sent to the provider; anything longer
// is truncated with a marker before prompting.
const maxInputChars = 8000

// summaryTemperature favors factual, repeatable summaries over creative
// variation.
const summaryTemperature = 0.3

// Language selects the summary's output language.
type Language string

// Supported languages.
const (
	Korean  Language = "ko"
	English Language = "en"
)

// ErrUnsupportedLanguage is returned for any language other than Korean or
// English.
var ErrUnsupportedLanguage = fmt.Errorf("summarize: unsupported language")

var systemPromptTemplates = map[Language]string{
	Korean:  "당신은 뉴스 기사를 요약하는 전문가입니다. 다음 기사를 한국어로 3~4문장, %d자 이내로 요약해주세요. 사실에 기반한 내용만 전달하고, 수사적 표현이나 의견은 배제하세요. 반드시 한국어로만 답하세요.",
	English: "You are an expert news summarizer. Summarize the following article in English in 3-4 sentences, within %d characters. Report only factual content, no rhetoric or opinion. Respond in English only.",
}

var stripPrefixes = []string{
	"요약:", "Summary:", "요약 결과:", "결과:", "Here is a summary:", "다음은 요약입니다:",
}

var koreanFillerPhrases = []string{
	"이 기사는", "기사에서는", "보도에 따르면", "해당 내용은", "관련하여",
}

var englishFillerPhrases = []string{
	"According to the article", "The article states", "In this article", "The report mentions",
}

// Summarizer produces ArticleSummary values from Article bodies.
type Summarizer struct {
	chat           llm.LLMChat
	characterLimit int
	metrics        *QualityMetrics
}

// New returns a Summarizer with the given character limit (0 uses
// DefaultCharacterLimit).
func New(chat llm.LLMChat, characterLimit int) *Summarizer {
	if characterLimit <= 0 {
		characterLimit = DefaultCharacterLimit
	}
	return &Summarizer{chat: chat, characterLimit: characterLimit, metrics: NewQualityMetrics()}
}

// Summarize produces an ArticleSummary for article in the given language. A
// provider error is returned to the caller rather than swallowed: a missing
// summary is a per-article failure the aggregator records and drops, not
// something this package papers over with a fallback.
func (s *Summarizer) Summarize(ctx context.Context, article entity.Article, language Language) (entity.ArticleSummary, error) {
	template, ok := systemPromptTemplates[language]
	if !ok {
		return entity.ArticleSummary{}, ErrUnsupportedLanguage
	}

	start := time.Now()
	input := truncateInput(fmt.Sprintf("%s\n\n%s", article.Title, article.Body))

	resp, err := s.chat.Chat(ctx, llm.ChatRequest{
		SystemPrompt: fmt.Sprintf(template, s.characterLimit),
		UserMessage:  input,
		MaxTokens:    400,
		Temperature:  summaryTemperature,
	})
	if err != nil {
		return entity.ArticleSummary{}, fmt.Errorf("summarize %q: %w", article.URL, err)
	}

	cleaned := postProcess(resp.Text, language)
	summary, err := entity.NewArticleSummary(article.Title, article.URL, cleaned, article.Source, text.CountRunes(article.Body))
	if err != nil {
		return entity.ArticleSummary{}, err
	}
	summary.QualityScore = qualityScore(summary)

	withinLimit := summary.SummaryLen <= s.characterLimit
	s.metrics.RecordLength(summary.SummaryLen)
	s.metrics.RecordDuration(time.Since(start))
	s.metrics.RecordCompliance(withinLimit)
	if !withinLimit {
		s.metrics.RecordLimitExceeded()
		slog.WarnContext(ctx, "summary exceeds character limit",
			slog.Int("length", summary.SummaryLen),
			slog.Int("limit", s.characterLimit))
	}

	return summary, nil
}

func truncateInput(body string) string {
	runes := []rune(body)
	if text.CountRunes(body) <= maxInputChars {
		return body
	}
	return string(runes[:maxInputChars]) + "...(truncated)"
}

// postProcess strips a leading "Summary:"-style prefix, removes filler
// phrases common to generated summaries in the target language, collapses
// whitespace, and ensures the text ends with terminal punctuation.
func postProcess(text string, language Language) string {
	cleaned := strings.TrimSpace(text)
	for _, prefix := range stripPrefixes {
		if strings.HasPrefix(cleaned, prefix) {
			cleaned = strings.TrimSpace(cleaned[len(prefix):])
			break
		}
	}

	if language == English {
		for _, phrase := range englishFillerPhrases {
			cleaned = strings.ReplaceAll(cleaned, phrase, "")
		}
		cleaned = strings.TrimSpace(cleaned)
	} else {
		for _, phrase := range koreanFillerPhrases {
			cleaned = strings.ReplaceAll(cleaned, phrase, "")
		}
		cleaned = extractor.CleanKoreanText(cleaned)
	}

	if cleaned != "" {
		last := cleaned[len(cleaned)-1]
		if last != '.' && last != '!' && last != '?' {
			cleaned += "."
		}
	}
	return cleaned
}

// qualityScore blends length appropriateness, compression ratio, sentence
// count, and terminal punctuation into a single 0.0-1.0 signal. It is
// informational only: nothing in the pipeline rejects a summary for scoring
// low.
func qualityScore(summary entity.ArticleSummary) float64 {
	const idealLength = 150
	score := 0.0

	lengthRatio := float64(summary.SummaryLen) / idealLength
	if lengthRatio > 1.0 {
		lengthRatio = 1.0
	}
	score += lengthRatio * 0.3

	if summary.OriginalLen > 0 {
		compression := float64(summary.SummaryLen) / float64(summary.OriginalLen)
		switch {
		case compression >= 0.1 && compression <= 0.3:
			score += 0.3
		case compression < 0.1:
			score += compression * 3
		default:
			score += (1 - compression) * 0.6
		}
	}

	sentenceCount := countSentences(summary.Summary)
	if sentenceCount >= 3 && sentenceCount <= 5 {
		score += 0.2
	} else {
		delta := sentenceCount - 4
		if delta < 0 {
			delta = -delta
		}
		s := 0.2 - float64(delta)*0.05
		if s > 0 {
			score += s
		}
	}

	if strings.HasSuffix(summary.Summary, ".") || strings.HasSuffix(summary.Summary, "!") || strings.HasSuffix(summary.Summary, "?") {
		score += 0.1
	}
	if !hasUnexpectedSymbols(summary.Summary) {
		score += 0.1
	}

	if score > 1.0 {
		score = 1.0
	}
	if score < 0 {
		score = 0
	}
	return score
}

func countSentences(text string) int {
	count := 0
	for _, part := range strings.Split(text, ".") {
		if strings.TrimSpace(part) != "" {
			count++
		}
	}
	return count
}

func hasUnexpectedSymbols(text string) bool {
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r >= 0xAC00 && r <= 0xD7A3: // Hangul syllables
		case r == ' ', r == '.', r == ',', r == '!', r == '?', r == '(', r == ')', r == '-':
		case r == '\n', r == '\t':
		default:
			return true
		}
	}
	return false
}
