// Package keyword turns a free-text user query into an ordered KeywordSet
// for feed filtering. It tries an LLM extraction first and falls back to a
// regex category match, then to raw whitespace tokenization, so a query
// never fails to produce at least one usable keyword.
package keyword

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/infra/llm"
	"newsdigest/internal/security/sanitize"
)

const systemPrompt = `당신은 뉴스 키워드 추출 전문가입니다.
사용자가 제공한 텍스트에서 뉴스 검색에 유용한 핵심 키워드를 추출해주세요.
- 고유명사(회사명, 인물명, 지역명, 기술명 등)를 우선 추출
- 핵심 주제어를 포함
- 최대 10개까지
- 각 키워드는 따옴표 없이 콤마로 구분
- 키워드만 출력하고 다른 설명은 하지 마세요`

// categoryPatterns are the regex fallback used when the LLM path is
// unavailable, returns nothing usable, or the query itself was rejected by
// the sanitizer as a dangerous pattern. Ported from the news aggregator's
// simple keyword extraction.
var categoryPatterns = map[string]*regexp.Regexp{
	"회사명": regexp.MustCompile(`(?i)(삼성|LG|SK|현대|기아|네이버|카카오|쿠팡|배달의민족|토스|TSMC|애플|구글|마이크로소프트|테슬라)`),
	"기술":  regexp.MustCompile(`(?i)(반도체|AI|인공지능|5G|6G|블록체인|메타버스|NFT|클라우드|빅데이터)`),
	"경제":  regexp.MustCompile(`(?i)(주가|증시|코스피|나스닥|달러|원화|금리|인플레이션|경기침체)`),
	"정치":  regexp.MustCompile(`(?i)(대통령|국회|정부|여당|야당|선거|정책|법안)`),
	"사회":  regexp.MustCompile(`(?i)(코로나|백신|기후|환경|교육|의료|복지)`),
}

// Extractor derives keywords from a user query.
type Extractor struct {
	chat llm.LLMChat
}

// New returns an Extractor backed by chat. Pass an llm.NoOp for environments
// without an API key; the regex and tokenization fallbacks still apply.
func New(chat llm.LLMChat) *Extractor {
	return &Extractor{chat: chat}
}

// Extract derives a KeywordSet from a raw user query. It never returns an
// error for a non-empty query: extraction degrades through three tiers
// (LLM, regex category match, whitespace tokens) rather than failing,
// because an empty KeywordSet is caught and reported by the caller as
// ErrNoKeywords, not here.
func (e *Extractor) Extract(ctx context.Context, query string) entity.KeywordSet {
	safeQuery, err := sanitize.Query(query)
	if err != nil {
		slog.WarnContext(ctx, "keyword query rejected by sanitizer, using regex fallback",
			slog.String("error", err.Error()))
		return e.fallback(query)
	}

	if e.chat != nil {
		if ks, ok := e.extractViaLLM(ctx, safeQuery); ok {
			return ks
		}
	}

	return e.fallback(safeQuery)
}

func (e *Extractor) extractViaLLM(ctx context.Context, safeQuery string) (entity.KeywordSet, bool) {
	resp, err := e.chat.Chat(ctx, llm.ChatRequest{
		SystemPrompt: systemPrompt,
		UserMessage:  "텍스트: " + safeQuery,
		MaxTokens:    200,
	})
	if err != nil {
		slog.WarnContext(ctx, "llm keyword extraction failed, falling back",
			slog.String("error", err.Error()))
		return entity.KeywordSet{}, false
	}

	raw := strings.Split(resp.Text, ",")
	candidates := make([]string, 0, len(raw))
	for _, r := range raw {
		if c := strings.TrimSpace(r); c != "" {
			candidates = append(candidates, c)
		}
	}
	ks := entity.NewKeywordSet(candidates)
	if ks.Empty() {
		return entity.KeywordSet{}, false
	}
	return ks, true
}

// fallback runs the five-category regex match, then whitespace tokenization
// as a last resort.
func (e *Extractor) fallback(text string) entity.KeywordSet {
	var candidates []string
	for _, pattern := range categoryPatterns {
		candidates = append(candidates, pattern.FindAllString(text, -1)...)
	}
	if ks := entity.NewKeywordSet(candidates); !ks.Empty() {
		return ks
	}
	return entity.NewKeywordSet(strings.Fields(text))
}
