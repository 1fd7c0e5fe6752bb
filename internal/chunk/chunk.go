// Package chunk splits long article text into model-sized fragments.
package chunk

import (
	"iter"
	"strings"
)

// DefaultMaxChars is the fragment budget used when callers pass 0. It sits
// comfortably under the prompt limits of the local models.
const DefaultMaxChars = 2000

// Chunks returns a lazy sequence of fragments of text, each at most maxChars
// runes long. Fragments end on sentence boundaries where one fits, otherwise
// on whitespace; a single token longer than maxChars is the only case that
// gets cut mid-token. Ranging over the sequence again re-chunks the same
// text deterministically. Whitespace-only input yields nothing.
func Chunks(text string, maxChars int) iter.Seq[string] {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return func(yield func(string) bool) {
		words := strings.Fields(text)
		if len(words) == 0 {
			return
		}

		var b strings.Builder
		flush := func() bool {
			if b.Len() == 0 {
				return true
			}
			ok := yield(b.String())
			b.Reset()
			return ok
		}

		for _, w := range words {
			for len([]rune(w)) > maxChars {
				// Oversized token: emit what we have, then hard-cut.
				if !flush() {
					return
				}
				r := []rune(w)
				if !yield(string(r[:maxChars])) {
					return
				}
				w = string(r[maxChars:])
			}
			if w == "" {
				continue
			}

			for b.Len() > 0 && b.Len()+1+len([]rune(w)) > maxChars {
				// Prefer breaking after the last finished sentence so a
				// sentence is never split when an earlier break exists.
				head, tail := splitAfterSentence(b.String())
				if head != "" && tail != "" {
					if !yield(head) {
						return
					}
					b.Reset()
					b.WriteString(tail)
				} else {
					if !flush() {
						return
					}
				}
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(w)
		}
		flush()
	}
}

// Collect materializes the sequence, mostly for callers that need a count.
func Collect(text string, maxChars int) []string {
	var out []string
	for c := range Chunks(text, maxChars) {
		out = append(out, c)
	}
	return out
}

// splitAfterSentence splits s after the last sentence terminator followed by
// a space. Returns s and "" when no such point exists.
func splitAfterSentence(s string) (string, string) {
	best := -1
	for i := 0; i < len(s)-1; i++ {
		if (s[i] == '.' || s[i] == '!' || s[i] == '?') && s[i+1] == ' ' {
			best = i
		}
	}
	if best < 0 {
		return s, ""
	}
	return s[:best+1], strings.TrimSpace(s[best+1:])
}
