// Package extract turns one article into a structured real-world event
// record via the main model.
package extract

import (
	"context"
	"fmt"
	"time"

	"newsmap/internal/logger"
	"newsmap/internal/metrics"
	"newsmap/internal/ollama"
	"newsmap/internal/prefilter"
)

// NoEvent is the sentinel event type returned both when the model judges
// that no relevant event is described and when extraction itself failed.
// Callers cannot and should not distinguish the two.
const NoEvent = "No event"

// Record is one extracted event. All fields except EventType and Summary
// are nullable; never mutated after creation.
type Record struct {
	EventType string  `json:"event_type"`
	City      *string `json:"city"`
	Location  *string `json:"location"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	Summary   string  `json:"summary"`
}

var requiredFields = []string{"event_type", "city", "location", "date", "time", "summary"}

// Fallback is the canonical "no event found" record.
func Fallback() Record {
	return Record{
		EventType: NoEvent,
		Summary:   "No real-world event found.",
	}
}

// Extractor calls the main model with a fixed-taxonomy prompt. When a gate
// is configured it runs first on the cheap metadata and can short-circuit
// the expensive call entirely.
type Extractor struct {
	gen     Generator
	model   string
	timeout time.Duration
	gate    *prefilter.Filter // nil disables the gate
	now     func() time.Time
}

// Generator is the model call the extractor needs; satisfied by
// *ollama.Client.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

func New(gen Generator, model string, timeout time.Duration, gate *prefilter.Filter) *Extractor {
	return &Extractor{
		gen:     gen,
		model:   model,
		timeout: timeout,
		gate:    gate,
		now:     time.Now,
	}
}

// ExtractEvent extracts a structured event from an article. Every failure
// mode (gate decline, transport error, malformed response, missing keys)
// degrades to the canonical fallback record; extraction never aborts a run.
func (e *Extractor) ExtractEvent(ctx context.Context, title, subtitle, body string) Record {
	if e.gate != nil && title != "" {
		decision := e.gate.ShouldProcess(ctx, title, subtitle)
		if !decision.ShouldProcess {
			metrics.Global.IncrementFilteredOut()
			rec := Fallback()
			rec.Summary = "filtered out: " + decision.Reason
			return rec
		}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	response, err := e.gen.Generate(ctx, e.model, e.buildPrompt(composeInput(title, subtitle, body)))
	if err != nil {
		logger.Warn("event extraction failed", "title", title, "error", err)
		metrics.Global.IncrementModelErrors()
		return Fallback()
	}

	var rec Record
	if err := ollama.UnmarshalObject(response, requiredFields, &rec); err != nil {
		logger.Warn("event response unusable", "title", title, "error", err)
		return Fallback()
	}
	if rec.EventType == "" {
		return Fallback()
	}
	return rec
}

// composeInput rebuilds the markdown-ish document the prompt expects.
func composeInput(title, subtitle, body string) string {
	if subtitle != "" {
		return fmt.Sprintf("# %s\n\n## %s\n\n%s", title, subtitle, body)
	}
	return fmt.Sprintf("# %s\n\n%s", title, body)
}

func (e *Extractor) buildPrompt(inputText string) string {
	currentTime := e.now().Format("2006-01-02 15:04")

	return fmt.Sprintf(`The current date and time is: %s

Only consider the following event categories:
- Conflict and protests
- Climate-related events (e.g., floods, droughts, storms)
- Health outbreaks and emergencies
- Infrastructure disruptions that can affect pedestrians or vehicles (e.g., outages, road collapses)
- Crime incidents
- Cultural or tourist events
- No event (if no real-world event is described or if it has already passed and is no longer relevant)

For each input text, extract the following information in valid JSON:
- "event_type": One of the categories above
- "city": The city where the event is taking place
- "location": The most accurate location mentioned. Best would be the specific address of the event, or the venue if it is mentioned. If an area is referred to the event, use the area's name.
- "date": The **exact date** when the event is occurring or is expected to occur (format: YYYY-MM-DD). If the event is upcoming or ongoing, reflect the precise date as mentioned in the text. If the event has no specified date but only a rough estimate (like "tomorrow" or "next week"), try to infer a plausible date.
- "time": The **exact time** when the event is occurring or is expected to occur (format: HH:MM). If the event is ongoing or upcoming and time is mentioned, reflect it. If no time is specified but vague time references are given (like "morning," "afternoon," or "evening"), infer a time such as 10:00, 15:00, or 19:00 respectively. If no time is specified, set it to **null**.
- "summary": A one-sentence summary of the event, written clearly for someone scanning events on a map.

If the text describes an event **in the past** (using past tense verbs or referring to something already happened), return:

{
  "event_type": "No event",
  "city": null,
  "location": null,
  "date": null,
  "time": null,
  "summary": "No real-world event found."
}

Only include events that are **ongoing** or **upcoming** that are relevant for the user, such as helping them decide where to go or avoid. If the text does not describe such an event, return:

{
  "event_type": "No event",
  "city": null,
  "location": null,
  "date": null,
  "time": null,
  "summary": "No real-world event found."
}

Now extract the event from the following text:



"""
%s
"""
`, currentTime, inputText)
}
