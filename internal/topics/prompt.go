package topics

import (
	"fmt"
	"strings"
)

const maxSubtitleChars = 200

// truncate cuts on a rune boundary so accented subtitles survive intact.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// buildBatchPrompt assembles the prompt for one batch. From the second
// batch on, the current leader per topic is injected so the model either
// reinforces it or replaces it when the batch clearly dominates.
func (a *Aggregator) buildBatchPrompt(batch []Meta) string {
	var sb strings.Builder

	sb.WriteString("You are a news editor reviewing article headlines from one country.\n\n")
	sb.WriteString("Topics:\n")
	for _, topic := range a.topics {
		sb.WriteString("- " + topic + "\n")
	}

	leaders := a.Leaders()
	if len(leaders) > 0 {
		sb.WriteString("\nCurrent leading story per topic, from the articles reviewed so far:\n")
		for _, l := range leaders {
			sb.WriteString(fmt.Sprintf("Topic: %s\nMain news: %s\nArticle count: %d\n", l.Topic, l.Description, l.Count))
		}
		sb.WriteString("\nIf articles in this batch discuss the same story as a current leading item, repeat that item's description word for word so its count keeps growing. If a different story clearly dominates the topic in this batch, report that story instead.\n")
	}

	sb.WriteString("\nArticles:\n")
	for i, m := range batch {
		sb.WriteString(fmt.Sprintf("[%d] Title: %s\n", i, m.Title))
		if m.Subtitle != "" {
			sb.WriteString(fmt.Sprintf("    Subtitle: %s\n", truncate(m.Subtitle, maxSubtitleChars)))
		}
	}

	sb.WriteString(`
For each topic that at least one article discusses, report the main news item and how many of the articles above discuss it, using exactly this format:

Topic: <topic name>
Main news: <one-line description of the main news item>
Article count: <number>

Skip topics no article discusses. Do not add anything else.
`)
	return sb.String()
}
