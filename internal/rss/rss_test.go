package rss

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Diario Test</title>
<item><title>Inundación en Riverside</title><link>https://example.com/a</link><description>El río creció durante la noche</description></item>
</channel></rss>`

func TestFetchCountryConvertsItems(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleFeed))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	articles, err := FetchCountry(CountryFeeds{Code: "ar", Feeds: []string{bad.URL, good.URL}})
	assert.NoError(t, err, "one live feed is enough")
	if assert.Len(t, articles, 1) {
		a := articles[0]
		assert.Equal(t, "Inundación en Riverside", a.Title)
		assert.Equal(t, "El río creció durante la noche", a.Subtitle)
		assert.Equal(t, a.Subtitle, a.FullText, "description doubles as body")
		assert.Equal(t, "ar", a.CountryCode)
		assert.NotEmpty(t, a.ID)
	}
}

func TestFetchCountryAllFeedsDeadIsError(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	_, err := FetchCountry(CountryFeeds{Code: "ar", Feeds: []string{bad.URL, bad.URL}})
	assert.Error(t, err)
}

func TestFetchCountryNoFeedsConfigured(t *testing.T) {
	articles, err := FetchCountry(CountryFeeds{Code: "ar"})
	assert.NoError(t, err)
	assert.Empty(t, articles)
}

func TestLoadFeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	payload := "countries:\n  - code: ar\n    feeds:\n      - https://example.com/rss\n"
	assert.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	cfg, err := LoadFeeds(path)
	assert.NoError(t, err)
	if assert.Len(t, cfg.Countries, 1) {
		assert.Equal(t, "ar", cfg.Countries[0].Code)
		assert.Equal(t, []string{"https://example.com/rss"}, cfg.Countries[0].Feeds)
	}
}
