// Package storage reads crawled article files and writes the pipeline's
// JSON artifacts.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"newsmap/internal/article"
)

// ListArticleFiles returns the JSON article files under dir, sorted by
// name. A missing directory is an error; the caller decides whether the
// run can continue.
func ListArticleFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// LoadArticles reads one crawler output file. Fingerprints are filled in
// for articles the crawler left without an id.
func LoadArticles(path string) ([]article.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read article file: %w", err)
	}

	var articles []article.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("parse article file %s: %w", filepath.Base(path), err)
	}
	for i := range articles {
		articles[i].EnsureID()
	}
	return articles, nil
}

// GroupByCountry buckets articles by their country code, resolving blank
// codes through the newspaper configuration when one is supplied.
func GroupByCountry(articles []article.Article, countryFor func(source string) string) map[string][]article.Article {
	grouped := make(map[string][]article.Article)
	for _, a := range articles {
		code := a.CountryCode
		if code == "" && countryFor != nil {
			code = countryFor(a.Source)
		}
		if code == "" {
			continue
		}
		grouped[code] = append(grouped[code], a)
	}
	return grouped
}

// WriteJSON writes v as indented JSON, creating parent directories.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// EventsPath names the event artifact for one input file:
// events_<input name> in the output directory.
func EventsPath(outputDir, inputPath string) string {
	return filepath.Join(outputDir, "events_"+filepath.Base(inputPath))
}

// DigestPath names the combined per-country digest artifact.
func DigestPath(outputDir, date string) string {
	return filepath.Join(outputDir, fmt.Sprintf("digest_%s.json", date))
}
