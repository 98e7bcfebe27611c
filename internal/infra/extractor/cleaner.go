package extractor

import "strings"

// boilerplatePhrases are site furniture and syndication markers commonly
// stuck onto the end or beginning of Korean press articles. Stripping them
// is far cheaper and more reliable than trying to select around them.
var boilerplatePhrases = []string{
	"저작권자 ⓒ",
	"무단전재 및 재배포 금지",
	"기자 =",
	"특파원 =",
	"= 기자",
	"본 기사는",
	"이 기사는",
	"▲", "▼", "◆", "◇",
	"Copyright", "All rights reserved",
	"뉴스1", "연합뉴스",
	"더보기", "관련기사", "전체보기",
	"한국경제", "매일경제",
	"페이스북", "트위터", "카카오톡", "네이버", "URL복사",
}

// rssBoilerplatePhrases targets syndicated-feed furniture rather than press
// bylines, since raw feed summaries go through a different pipeline stage
// than extracted article bodies.
var rssBoilerplatePhrases = []string{
	"The post", "appeared first on", "Continue reading",
	"[Read more...]", "Read more",
	"더보기", "전체보기",
}

// CleanKoreanText strips known boilerplate phrases and collapses whitespace.
// It is idempotent: running it twice on already-cleaned text is a no-op.
func CleanKoreanText(text string) string {
	if text == "" {
		return ""
	}
	for _, phrase := range boilerplatePhrases {
		text = strings.ReplaceAll(text, phrase, "")
	}
	return collapseWhitespace(text)
}

// CleanRSSContent strips syndication furniture from a raw feed summary.
// Callers are expected to have already reduced the field to plain text.
func CleanRSSContent(content string) string {
	if content == "" {
		return ""
	}
	for _, phrase := range rssBoilerplatePhrases {
		content = strings.ReplaceAll(content, phrase, "")
	}
	return strings.TrimSpace(content)
}

func collapseWhitespace(text string) string {
	fields := strings.Fields(text)
	return strings.TrimSpace(strings.Join(fields, " "))
}
