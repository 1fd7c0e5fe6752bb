// Package digest assembles the per-country topic digest from the
// aggregator's leading stories and the full article set.
package digest

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"newsmap/internal/article"
	"newsmap/internal/chunk"
	"newsmap/internal/logger"
	"newsmap/internal/topics"
)

// maxArticlesPerTopic caps how many full texts back one topic sentence.
const maxArticlesPerTopic = 3

// Generator is the model call the assembler needs; satisfied by
// *ollama.Client.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// ArticleSummary is one article's entry in the country artifact.
type ArticleSummary struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
}

// Summary is the final per-country artifact: one sentence per topic plus
// the run date. Overwritten, not merged, on re-run.
type Summary struct {
	CountryCode string            `json:"country"`
	Date        string            `json:"date"`
	Topics      map[string]string `json:"topics"`
	Articles    []ArticleSummary  `json:"articles,omitempty"`
}

// Assembler turns leading stories into short topic sentences.
type Assembler struct {
	gen           Generator
	model         string
	timeout       time.Duration
	maxChunkChars int
	now           func() time.Time
}

func New(gen Generator, model string, timeout time.Duration, maxChunkChars int) *Assembler {
	return &Assembler{
		gen:           gen,
		model:         model,
		timeout:       timeout,
		maxChunkChars: maxChunkChars,
		now:           time.Now,
	}
}

// Build produces the country summary. For each topic with a leading
// description it picks up to three articles by keyword overlap and asks
// the model for one short sentence; topics with no matching article are
// omitted. A failed model call omits that topic only.
func (as *Assembler) Build(ctx context.Context, countryCode string, leaders []topics.Leader, articles []article.Article) Summary {
	out := Summary{
		CountryCode: countryCode,
		Date:        as.now().Format("2006-01-02"),
		Topics:      make(map[string]string),
	}

	for _, leader := range leaders {
		if leader.Description == "" {
			continue
		}
		selected := SelectArticles(leader.Description, articles)
		if len(selected) == 0 {
			logger.Debug("no articles match leading story, omitting topic",
				"topic", leader.Topic, "description", leader.Description)
			continue
		}

		var texts []string
		for _, a := range selected {
			texts = append(texts, a.FullText)
		}

		sentence, err := as.summarizeTopic(ctx, leader.Topic, leader.Description, strings.Join(texts, "\n\n"))
		if err != nil {
			logger.Warn("topic sentence failed, omitting topic", "topic", leader.Topic, "error", err)
			continue
		}
		if sentence == "" {
			continue
		}
		out.Topics[leader.Topic] = sentence
	}

	return out
}

// SelectArticles returns up to three articles whose title+subtitle share
// at least one token with the description. Case-insensitive, no stemming.
func SelectArticles(description string, articles []article.Article) []article.Article {
	keywords := tokens(description)
	if len(keywords) == 0 {
		return nil
	}

	var selected []article.Article
	for _, a := range articles {
		if len(selected) >= maxArticlesPerTopic {
			break
		}
		haystack := strings.ToLower(a.Title + " " + a.Subtitle)
		for _, kw := range keywords {
			if strings.Contains(haystack, kw) {
				selected = append(selected, a)
				break
			}
		}
	}
	return selected
}

// tokens lowercases and splits a description, dropping punctuation and
// tokens too short to be meaningful keywords.
func tokens(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	var out []string
	for _, f := range fields {
		if len(f) > 2 {
			out = append(out, f)
		}
	}
	return out
}

// summarizeTopic asks for one short sentence about the topic. The selected
// texts go in whole; callers accept truncation risk for texts exceeding
// the model's limit.
func (as *Assembler) summarizeTopic(ctx context.Context, topic, description, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, as.timeout)
	defer cancel()

	prompt := fmt.Sprintf(`The following news articles all relate to the topic %q. The main story is: %s

%s

Describe this topic's main story in a single sentence of at most 15 words. Respond with the sentence only.`,
		topic, description, text)

	response, err := as.gen.Generate(ctx, as.model, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response), nil
}

// SummarizeArticle produces a standalone summary of one article's full
// text, chunking it to respect the model's input limit: each chunk is
// summarized, then the combined chunk summaries are summarized once more.
// A failed chunk contributes nothing.
func (as *Assembler) SummarizeArticle(ctx context.Context, fullText string) string {
	var parts []string
	for c := range chunk.Chunks(fullText, as.maxChunkChars) {
		s, err := as.summarizeText(ctx, c)
		if err != nil {
			logger.Warn("chunk summary failed", "error", err)
			continue
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return parts[0]
	}

	combined, err := as.summarizeText(ctx, strings.Join(parts, " "))
	if err != nil {
		logger.Warn("combined summary failed", "error", err)
		return strings.Join(parts, " ")
	}
	return combined
}

func (as *Assembler) summarizeText(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, as.timeout)
	defer cancel()

	prompt := fmt.Sprintf("Summarize the following news article in a concise way:\n\n%s\n\nSummary:", text)
	response, err := as.gen.Generate(ctx, as.model, prompt)
	if err != nil {
		return "", err
	}
	if idx := strings.Index(response, "Summary:"); idx >= 0 {
		response = response[idx+len("Summary:"):]
	}
	return strings.TrimSpace(response), nil
}
