package summarize

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/infra/llm"
)

type fakeChat struct {
	text string
	err  error
	last llm.ChatRequest
}

func (f *fakeChat) Name() string { return "fake" }
func (f *fakeChat) Chat(_ context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
	f.last = req
	if f.err != nil {
		return llm.ChatResponse{}, f.err
	}
	return llm.ChatResponse{Text: f.text}, nil
}

func testArticle(body string) entity.Article {
	a, err := entity.NewArticle("제목", "https://example.com/a", body, time.Now(), "기자", "example.com")
	if err != nil {
		panic(err)
	}
	return a
}

func TestSummarizer_Summarize_Success(t *testing.T) {
	chat := &fakeChat{text: "요약: 삼성전자가 새로운 반도체 공장을 건설한다고 발표했다. 투자 규모는 10조원이다. 2027년 완공 예정이다"}
	s := New(chat, 0)

	summary, err := s.Summarize(context.Background(), testArticle(strings.Repeat("본문 내용입니다. ", 20)), Korean)
	require.NoError(t, err)
	assert.NotContains(t, summary.Summary, "요약:")
	assert.True(t, strings.HasSuffix(summary.Summary, ".") || strings.HasSuffix(summary.Summary, "다"))
	assert.GreaterOrEqual(t, summary.QualityScore, 0.0)
	assert.LessOrEqual(t, summary.QualityScore, 1.0)
	assert.Equal(t, summaryTemperature, chat.last.Temperature)
}

func TestSummarizer_Summarize_TruncatesLongInput(t *testing.T) {
	chat := &fakeChat{text: "짧은 요약입니다."}
	s := New(chat, 0)

	longBody := strings.Repeat("가", maxInputChars+1000)
	_, err := s.Summarize(context.Background(), testArticle(longBody), Korean)
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(chat.last.UserMessage)), maxInputChars+len("...(truncated)")+100)
}

func TestSummarizer_Summarize_PropagatesProviderError(t *testing.T) {
	chat := &fakeChat{err: assertErr{}}
	s := New(chat, 0)

	_, err := s.Summarize(context.Background(), testArticle(strings.Repeat("x", 100)), Korean)
	require.Error(t, err)
}

func TestSummarizer_Summarize_RejectsUnsupportedLanguage(t *testing.T) {
	chat := &fakeChat{text: "ignored"}
	s := New(chat, 0)

	_, err := s.Summarize(context.Background(), testArticle(strings.Repeat("x", 100)), Language("fr"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestPostProcess_StripsPrefixAndAddsPunctuation(t *testing.T) {
	out := postProcess("요약: 이것은 테스트 문장입니다", Korean)
	assert.False(t, strings.HasPrefix(out, "요약:"))
	assert.True(t, strings.HasSuffix(out, "."))
}

func TestPostProcess_EnglishFillerRemoved(t *testing.T) {
	out := postProcess("According to the article, the company announced new plans.", English)
	assert.NotContains(t, out, "According to the article")
}

func TestQualityScore_WithinBounds(t *testing.T) {
	summary, err := entity.NewArticleSummary("t", "https://example.com/a", "첫 문장입니다. 두번째 문장입니다. 세번째 문장입니다.", "example.com", 1000)
	require.NoError(t, err)
	score := qualityScore(summary)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestValidateCharacterLimit(t *testing.T) {
	assert.NoError(t, ValidateCharacterLimit(900))
	assert.Error(t, ValidateCharacterLimit(50))
	assert.Error(t, ValidateCharacterLimit(10000))
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
