package feedparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Sample Feed</title>
  <item>
    <title>Samsung unveils chip</title>
    <link>https://example.com/a</link>
    <description>A short description about semiconductors.</description>
    <pubDate>Mon, 02 Jan 2023 15:04:05 +0900</pubDate>
  </item>
  <item>
    <title>  </title>
    <link>https://example.com/b</link>
    <description>Entry with no title should be dropped.</description>
  </item>
  <item>
    <title>Missing link entry</title>
    <link></link>
    <description>Should be dropped too.</description>
  </item>
</channel>
</rss>`

func TestGofeedParser_Parse(t *testing.T) {
	p := New()
	entries, err := p.Parse([]byte(sampleRSS), "Sample", "example.com", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Samsung unveils chip", entries[0].Title)
	assert.Equal(t, "example.com", entries[0].SourceHost)
	assert.Contains(t, entries[0].RawSummary, "semiconductors")
}

func TestGofeedParser_Parse_RespectsMaxEntries(t *testing.T) {
	p := New()
	entries, err := p.Parse([]byte(sampleRSS), "Sample", "example.com", 1)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(entries), 1)
}

func TestGofeedParser_Parse_InvalidDocument(t *testing.T) {
	p := New()
	_, err := p.Parse([]byte("not xml at all"), "Sample", "example.com", 0)
	require.Error(t, err)
}

func TestGofeedParser_Parse_MaxEntriesClampedToCeiling(t *testing.T) {
	p := New()
	entries, err := p.Parse([]byte(sampleRSS), "Sample", "example.com", 10000)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(entries), MaxEntriesCeiling)
}
