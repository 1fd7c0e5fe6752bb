// Package article defines the article record produced by the crawling side
// and the content fingerprint used for deduplication downstream.
package article

import (
	"crypto/sha256"
	"encoding/hex"
)

// Article is a single scraped news article. Immutable once produced;
// the ID is never recomputed after it has been stored.
type Article struct {
	ID          string `json:"article_id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Date        string `json:"date,omitempty"`
	FullText    string `json:"full_text"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	CountryCode string `json:"country_code,omitempty"`
}

// Fingerprint creates a stable content-derived id for an article.
// Identical content re-crawled from the same URL yields the same id.
func Fingerprint(fullText, url string) string {
	h := sha256.New()
	h.Write([]byte(fullText + "|" + url))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// EnsureID fills in the fingerprint if the crawler did not set one.
func (a *Article) EnsureID() {
	if a.ID == "" {
		a.ID = Fingerprint(a.FullText, a.URL)
	}
}
