package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKeywordSet(t *testing.T) {
	t.Run("dedups case-insensitively and preserves order", func(t *testing.T) {
		ks := NewKeywordSet([]string{"Samsung", " ", "samsung", "SK Hynix"})
		assert.Equal(t, []string{"Samsung", "SK Hynix"}, ks.Values())
	})

	t.Run("caps at MaxKeywords", func(t *testing.T) {
		in := make([]string, 0, 20)
		for i := 0; i < 20; i++ {
			in = append(in, string(rune('a'+i)))
		}
		ks := NewKeywordSet(in)
		assert.Equal(t, MaxKeywords, ks.Len())
	})

	t.Run("empty", func(t *testing.T) {
		ks := NewKeywordSet(nil)
		assert.True(t, ks.Empty())
	})
}
