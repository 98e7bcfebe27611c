package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArticle(t *testing.T) {
	longBody := strings.Repeat("word ", 20)

	t.Run("valid article", func(t *testing.T) {
		a, err := NewArticle("Title", "https://example.com/a", longBody, time.Now(), "author", "example.com")
		require.NoError(t, err)
		assert.Equal(t, "Title", a.Title)
		assert.Equal(t, longBody, a.Body)
	})

	t.Run("body too short rejected", func(t *testing.T) {
		_, err := NewArticle("Title", "https://example.com/a", "short", time.Now(), "", "")
		require.Error(t, err)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Equal(t, "body", ve.Field)
	})

	t.Run("missing title rejected", func(t *testing.T) {
		_, err := NewArticle("", "https://example.com/a", longBody, time.Now(), "", "")
		require.Error(t, err)
	})
}

func TestNewArticleSummary(t *testing.T) {
	t.Run("valid summary", func(t *testing.T) {
		s, err := NewArticleSummary("Title", "https://example.com/a", "A short summary.", "example.com", 500)
		require.NoError(t, err)
		assert.Equal(t, 500, s.OriginalLen)
		assert.Greater(t, s.SummaryLen, 0)
	})

	t.Run("empty summary rejected", func(t *testing.T) {
		_, err := NewArticleSummary("Title", "https://example.com/a", "", "example.com", 500)
		require.Error(t, err)
	})

	t.Run("summary longer than original rejected", func(t *testing.T) {
		_, err := NewArticleSummary("Title", "https://example.com/a", strings.Repeat("x", 100), "example.com", 10)
		require.Error(t, err)
	})
}

func TestCanonicalURL(t *testing.T) {
	a, err := CanonicalURL("HTTPS://Example.COM/Path?q=1#frag")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/Path?q=1", a)
}
