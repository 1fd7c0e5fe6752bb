package topics

import (
	"regexp"
	"strconv"
	"strings"
)

// Label-prefixed line patterns; tolerant of markdown bold and stray
// whitespace, since the format is only a suggestion to the model.
var (
	topicRe = regexp.MustCompile(`(?i)^[*#\-\s]*topic\s*\**\s*:\s*(.+)$`)
	newsRe  = regexp.MustCompile(`(?i)^[*#\-\s]*main news\s*\**\s*:\s*(.+)$`)
	countRe = regexp.MustCompile(`(?i)^[*#\-\s]*article count\s*\**\s*:\s*(.+)$`)
	numRe   = regexp.MustCompile(`\d+`)
)

// cleanValue strips surrounding whitespace and markdown bold leftovers.
func cleanValue(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*"))
}

// ParseVotes scans a batch response for repeated Topic / Main news /
// Article count triples. Reported topic labels are fuzzy-matched onto the
// fixed topic set, non-numeric counts default to 1 and unparseable lines
// are ignored, never fatal.
func ParseVotes(response string, topics []string) []Vote {
	var votes []Vote

	topic := ""
	description := ""
	count := 0
	haveCount := false

	flush := func() {
		if topic != "" && description != "" {
			if !haveCount || count < 1 {
				count = 1
			}
			votes = append(votes, Vote{
				Topic:       Match(topic, topics),
				Description: description,
				Count:       count,
			})
		}
		topic, description, count, haveCount = "", "", 0, false
	}

	for _, raw := range strings.Split(response, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := topicRe.FindStringSubmatch(line); m != nil {
			flush()
			topic = cleanValue(m[1])
			continue
		}
		if m := newsRe.FindStringSubmatch(line); m != nil {
			description = cleanValue(m[1])
			continue
		}
		if m := countRe.FindStringSubmatch(line); m != nil {
			if num := numRe.FindString(m[1]); num != "" {
				if n, err := strconv.Atoi(num); err == nil {
					count = n
					haveCount = true
				}
			}
			continue
		}
		// Anything else is model chatter; skip it.
	}
	flush()

	return votes
}
