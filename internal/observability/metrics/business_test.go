package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordFeedFetch(t *testing.T) {
	tests := []struct {
		name      string
		publisher string
		duration  time.Duration
		success   bool
		entries   int
	}{
		{name: "success with entries", publisher: "한겨레", duration: 200 * time.Millisecond, success: true, entries: 12},
		{name: "success zero entries", publisher: "조선일보", duration: 50 * time.Millisecond, success: true, entries: 0},
		{name: "failure", publisher: "SBS", duration: 5 * time.Second, success: false, entries: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordFeedFetch(tt.publisher, tt.duration, tt.success, tt.entries)
			})
		})
	}
}

func TestRecordBodyFetch(t *testing.T) {
	assert.NotPanics(t, func() { RecordBodyFetch(300*time.Millisecond, true) })
	assert.NotPanics(t, func() { RecordBodyFetch(2*time.Second, false) })
}

func TestRecordArticleSummarized(t *testing.T) {
	tests := []struct {
		name    string
		success bool
	}{
		{name: "success", success: true},
		{name: "failure", success: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordArticleSummarized(tt.success)
			})
		})
	}
}

func TestRecordSummarizationDuration(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordSummarizationDuration(1500 * time.Millisecond)
	})
}

func TestRecordDrop(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordDrop("duplicate")
	})
}

func TestRecordPipelineRun(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordPipelineRun("success", 3*time.Second)
	})
	assert.NotPanics(t, func() {
		RecordPipelineRun("fatal", 500*time.Millisecond)
	})
}
