package topics

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateKeepsRunesIntact(t *testing.T) {
	s := strings.Repeat("ñ", 10)
	got := truncate(s, 4)
	assert.Equal(t, "ññññ...", got)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "corto", truncate("corto", 10), "short strings pass through unchanged")
}

func TestBuildBatchPromptTruncatesLongSubtitles(t *testing.T) {
	a := newTestAggregator(&scriptedGen{})
	long := strings.Repeat("situación ", 40)
	prompt := a.buildBatchPrompt([]Meta{{Title: "Inundación", Subtitle: long}})
	assert.True(t, utf8.ValidString(prompt))
	assert.Contains(t, prompt, "...")
}
