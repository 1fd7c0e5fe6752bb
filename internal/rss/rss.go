// Package rss pulls articles from RSS feeds for countries that have no
// dedicated site scraper.
package rss

import (
	"fmt"
	"os"
	"time"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"newsmap/internal/article"
	"newsmap/internal/logger"
)

// CountryFeeds is one country's feed list in the YAML config:
//
//	countries:
//	  - code: ar
//	    feeds:
//	      - https://...
type CountryFeeds struct {
	Code  string   `yaml:"code"`
	Feeds []string `yaml:"feeds"`
}

type FeedsConfig struct {
	Countries []CountryFeeds `yaml:"countries"`
}

// LoadFeeds reads the per-country RSS feeds list from a YAML file.
func LoadFeeds(path string) (*FeedsConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FetchCountry downloads and parses one country's feeds, returning the
// items as article records. Feed errors are logged and skipped; one dead
// feed never stops a run, but every feed failing is an error.
func FetchCountry(cf CountryFeeds) ([]article.Article, error) {
	parser := gofeed.NewParser()
	var articles []article.Article
	successCount := 0

	for _, url := range cf.Feeds {
		feed, err := parser.ParseURL(url)
		if err != nil {
			logger.Warn("error parsing RSS feed", "url", url, "error", err)
			continue
		}
		for _, item := range feed.Items {
			articles = append(articles, fromFeedItem(item, feed.Title, cf.Code))
		}
		successCount++
		logger.Info("loaded feed", "count", len(feed.Items), "url", url)
	}

	if successCount == 0 && len(cf.Feeds) > 0 {
		return nil, fmt.Errorf("no feeds loaded for country %s", cf.Code)
	}

	logger.Info("processed RSS feeds", "ok", successCount, "total", len(cf.Feeds), "country", cf.Code)
	return articles, nil
}

// fromFeedItem converts a feed entry to an article record. Feeds carry no
// full text, so the description doubles as subtitle and body; downstream
// components treat both as best-effort metadata.
func fromFeedItem(item *gofeed.Item, sourceName, countryCode string) article.Article {
	date := ""
	if item.PublishedParsed != nil {
		date = item.PublishedParsed.Format(time.RFC3339)
	} else if item.Published != "" {
		date = item.Published
	}

	a := article.Article{
		Title:       item.Title,
		Subtitle:    item.Description,
		Date:        date,
		FullText:    item.Description,
		URL:         item.Link,
		Source:      sourceName,
		CountryCode: countryCode,
	}
	a.EnsureID()
	return a
}
