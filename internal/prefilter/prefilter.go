// Package prefilter gates articles before the expensive extractor runs.
// The gate is advisory only: when it cannot produce a decision it fails
// open, so no article is ever dropped because the gate itself misbehaved.
package prefilter

import (
	"context"
	"fmt"
	"time"

	"newsmap/internal/logger"
	"newsmap/internal/ollama"
)

// Generator is the model call the gate needs; satisfied by *ollama.Client.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Decision is the gate's answer for one article. Transient, consumed
// immediately by the caller.
type Decision struct {
	ShouldProcess bool   `json:"should_process"`
	Reason        string `json:"reason"`
}

// Filter asks a lightweight model whether a title/subtitle pair likely
// describes a physically-located, ongoing or upcoming event.
type Filter struct {
	gen     Generator
	model   string
	timeout time.Duration
}

func New(gen Generator, model string, timeout time.Duration) *Filter {
	return &Filter{gen: gen, model: model, timeout: timeout}
}

// ShouldProcess classifies an article from its title and optional subtitle.
// One blocking model round-trip with a short timeout; any failure returns
// a fail-open decision.
func (f *Filter) ShouldProcess(ctx context.Context, title, subtitle string) Decision {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	response, err := f.gen.Generate(ctx, f.model, buildPrompt(title, subtitle))
	if err != nil {
		logger.Warn("pre-filter unavailable, processing to be safe", "error", err)
		return Decision{ShouldProcess: true, Reason: fmt.Sprintf("pre-filter error: %v, processing to be safe", err)}
	}

	decision, err := parseDecision(response)
	if err != nil {
		logger.Warn("pre-filter response unusable, processing to be safe", "error", err)
		return Decision{ShouldProcess: true, Reason: fmt.Sprintf("error parsing pre-filter response: %v", err)}
	}
	return decision
}

func parseDecision(response string) (Decision, error) {
	var d Decision
	if err := ollama.UnmarshalObject(response, []string{"should_process", "reason"}, &d); err != nil {
		return Decision{}, err
	}
	return d, nil
}

func buildPrompt(title, subtitle string) string {
	subtitleLine := ""
	if subtitle != "" {
		subtitleLine = fmt.Sprintf("Subtitle: %s\n", subtitle)
	}

	return fmt.Sprintf(`You are a quick pre-filter that analyzes news titles and subtitles to determine if they are likely to contain information about real-world physical events with specific locations.

Consider an article relevant if it likely discusses:
- Ongoing or upcoming events (not past events)
- Events with physical locations
- Public gatherings, protests, or conflicts
- Natural disasters or weather events
- Infrastructure issues
- Public safety incidents
- Cultural or tourist events

Consider an article NOT relevant if it's about:
- Past events
- Policy announcements
- Business news without physical events
- Opinion pieces
- Obituaries
- General news without specific locations

Analyze this news article:
Title: %s
%s
Return a JSON with two fields:
- "should_process": boolean (true if the article likely contains a location-relevant event)
- "reason": brief explanation of your decision

Respond only with the JSON, nothing else.
`, title, subtitleLine)
}
