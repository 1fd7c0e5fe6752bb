package article

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("Flood warning issued for Riverside.", "https://example.com/flood")
	b := Fingerprint("Flood warning issued for Riverside.", "https://example.com/flood")
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}

func TestFingerprintChangesWithContent(t *testing.T) {
	base := Fingerprint("text", "https://example.com/a")
	assert.NotEqual(t, base, Fingerprint("other text", "https://example.com/a"))
	assert.NotEqual(t, base, Fingerprint("text", "https://example.com/b"))
}

func TestEnsureIDKeepsExisting(t *testing.T) {
	a := Article{ID: "abc123", FullText: "body", URL: "https://example.com"}
	a.EnsureID()
	assert.Equal(t, "abc123", a.ID)

	b := Article{FullText: "body", URL: "https://example.com"}
	b.EnsureID()
	assert.Equal(t, Fingerprint("body", "https://example.com"), b.ID)
}
