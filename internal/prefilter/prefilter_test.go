package prefilter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubGen struct {
	response string
	err      error
	prompt   string
}

func (s *stubGen) Generate(_ context.Context, _ string, prompt string) (string, error) {
	s.prompt = prompt
	return s.response, s.err
}

func TestShouldProcessAccept(t *testing.T) {
	gen := &stubGen{response: `{"should_process": true, "reason": "upcoming protest downtown"}`}
	f := New(gen, "gemma:1b", time.Second)

	d := f.ShouldProcess(context.Background(), "March planned for Friday", "Downtown closure expected")
	assert.True(t, d.ShouldProcess)
	assert.Equal(t, "upcoming protest downtown", d.Reason)
	assert.Contains(t, gen.prompt, "March planned for Friday")
	assert.Contains(t, gen.prompt, "Subtitle: Downtown closure expected")
}

func TestShouldProcessDecline(t *testing.T) {
	gen := &stubGen{response: `Sure, here is my analysis: {"should_process": false, "reason": "opinion piece"} done`}
	f := New(gen, "gemma:1b", time.Second)

	d := f.ShouldProcess(context.Background(), "Why the budget matters", "")
	assert.False(t, d.ShouldProcess)
	assert.Equal(t, "opinion piece", d.Reason)
	assert.NotContains(t, gen.prompt, "Subtitle:")
}

func TestShouldProcessFailsOpenOnTransportError(t *testing.T) {
	gen := &stubGen{err: errors.New("connection refused")}
	f := New(gen, "gemma:1b", time.Second)

	d := f.ShouldProcess(context.Background(), "Flood hits Riverside", "")
	assert.True(t, d.ShouldProcess, "gate errors must never drop an article")
	assert.Contains(t, d.Reason, "pre-filter error")
}

func TestShouldProcessFailsOpenOnMalformedJSON(t *testing.T) {
	cases := []string{
		"the model rambled with no json at all",
		`{"should_process": true}`,
		`{"reason": "missing the decision"}`,
		`{not valid json}`,
	}
	for _, raw := range cases {
		f := New(&stubGen{response: raw}, "gemma:1b", time.Second)
		d := f.ShouldProcess(context.Background(), "t", "")
		assert.True(t, d.ShouldProcess, "response %q must fail open", raw)
		assert.True(t, strings.Contains(d.Reason, "error") || strings.Contains(d.Reason, "parsing"),
			"reason should note the failure, got %q", d.Reason)
	}
}
