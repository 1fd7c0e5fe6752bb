// Package topics tracks the most-discussed news item per predefined topic
// across batches of article metadata.
package topics

import (
	"strings"

	"github.com/agext/levenshtein"
)

// MiscTopic is the bucket label for stories that fit no other topic.
const MiscTopic = "miscellaneous"

// minSimilarity is the normalized Levenshtein score below which a label is
// not considered a near-miss spelling of a topic.
const minSimilarity = 0.8

// Match maps a free-form topic label reported by the model onto the fixed
// topic set. Exact case-insensitive match wins, then substring containment
// in either direction, then near-miss spellings; anything else lands in the
// miscellaneous bucket when the set has one, else the first topic.
func Match(label string, topics []string) string {
	if len(topics) == 0 {
		return ""
	}
	label = strings.ToLower(strings.TrimSpace(label))

	if label != "" {
		for _, topic := range topics {
			if label == strings.ToLower(topic) {
				return topic
			}
		}

		for _, topic := range topics {
			t := strings.ToLower(topic)
			if strings.Contains(label, t) || strings.Contains(t, label) {
				return topic
			}
		}

		bestScore := 0.0
		bestTopic := ""
		for _, topic := range topics {
			score := levenshtein.Similarity(label, strings.ToLower(topic), nil)
			if score > bestScore {
				bestScore = score
				bestTopic = topic
			}
		}
		if bestScore >= minSimilarity {
			return bestTopic
		}
	}

	for _, topic := range topics {
		if strings.EqualFold(topic, MiscTopic) {
			return topic
		}
	}
	return topics[0]
}
