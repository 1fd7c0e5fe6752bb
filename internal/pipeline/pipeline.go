// Package pipeline wires the components into the per-run flows: event
// extraction over crawled article files and the per-country topic digest.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"newsmap/internal/article"
	"newsmap/internal/config"
	"newsmap/internal/digest"
	"newsmap/internal/extract"
	"newsmap/internal/logger"
	"newsmap/internal/metrics"
	"newsmap/internal/ollama"
	"newsmap/internal/prefilter"
	"newsmap/internal/rss"
	"newsmap/internal/scraper"
	"newsmap/internal/storage"
	"newsmap/internal/topics"
)

// EventArtifact is one extracted event plus the source cross-references
// written to the per-file event output.
type EventArtifact struct {
	extract.Record
	SourceID       string `json:"source_id"`
	SourceURL      string `json:"source_url"`
	SourceTitle    string `json:"source_title"`
	SourceSubtitle string `json:"source_subtitle,omitempty"`
}

// Pipeline holds the wired components for one run.
type Pipeline struct {
	cfg        *config.Config
	client     *ollama.Client
	extractor  *extract.Extractor
	assembler  *digest.Assembler
	newspapers config.Newspapers
	cache      *storage.ProcessedCache
}

// New builds a pipeline from configuration. A missing newspapers config
// or processed cache degrades with a warning; articles then rely on their
// own country codes and nothing is skipped as already processed.
func New(cfg *config.Config) *Pipeline {
	client := ollama.New(cfg.ModelEndpoint)

	var gate *prefilter.Filter
	if cfg.EnablePreFilter {
		gate = prefilter.New(client, cfg.FilterModel, cfg.FilterTimeout)
	}

	newspapers, err := config.LoadNewspapers(cfg.NewspapersPath)
	if err != nil {
		logger.Warn("newspapers config unavailable, relying on article country codes", "error", err)
	}

	cache := storage.NewProcessedCache(cfg.ProcessedCachePath, cfg.CacheTTLHours)
	if err := cache.Load(); err != nil {
		logger.Warn("processed cache unreadable, starting empty", "error", err)
	}

	return &Pipeline{
		cfg:        cfg,
		client:     client,
		extractor:  extract.New(client, cfg.EventModel, cfg.EventTimeout, gate),
		assembler:  digest.New(client, cfg.SummaryModel, cfg.EventTimeout, cfg.MaxChunkChars),
		newspapers: newspapers,
		cache:      cache,
	}
}

// RunEvents extracts events from every article file in the input dir and
// writes one events_<file>.json artifact per input file. An unreadable
// file is fatal for that file only.
func (p *Pipeline) RunEvents(ctx context.Context) error {
	startTime := time.Now()
	defer func() {
		metrics.Global.RecordRunDuration(time.Since(startTime))
		metrics.Global.SetLastRun()
	}()

	files, err := storage.ListArticleFiles(p.cfg.InputDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Warn("no article files found", "dir", p.cfg.InputDir)
		return nil
	}

	for _, path := range files {
		if err := p.processFile(ctx, path); err != nil {
			logger.Error("skipping article file", "file", path, "error", err)
			metrics.Global.SetError(err.Error())
		}
	}

	if err := p.cache.Save(); err != nil {
		logger.Warn("can't save processed cache", "error", err)
	}
	return nil
}

func (p *Pipeline) processFile(ctx context.Context, path string) error {
	articles, err := storage.LoadArticles(path)
	if err != nil {
		return err
	}

	out := storage.EventsPath(p.cfg.OutputDir, path)
	previous := loadPreviousEvents(out)

	results := make([]EventArtifact, 0, len(articles))
	for _, a := range articles {
		metrics.Global.IncrementArticlesProcessed()

		if a.FullText == "" {
			continue
		}
		if p.cache.IsProcessed(a.ID) {
			logger.Debug("already processed", "id", a.ID, "title", a.Title)
			// A cache skip must not erase the record extracted last run.
			if prev, ok := previous[a.ID]; ok {
				results = append(results, prev)
			}
			continue
		}

		rec := p.extractor.ExtractEvent(ctx, a.Title, a.Subtitle, a.FullText)
		if rec.EventType == extract.NoEvent {
			metrics.Global.IncrementFallbackRecords()
		} else {
			metrics.Global.IncrementEventsExtracted()
		}

		results = append(results, EventArtifact{
			Record:         rec,
			SourceID:       a.ID,
			SourceURL:      a.URL,
			SourceTitle:    a.Title,
			SourceSubtitle: a.Subtitle,
		})
		p.cache.MarkProcessed(a.ID, a.URL)
	}

	if err := storage.WriteJSON(out, results); err != nil {
		return err
	}
	logger.Info("processed article file", "file", path, "events", len(results), "output", out)
	return nil
}

// loadPreviousEvents reads the artifact a prior run wrote for the same
// input file, keyed by source id. Missing file means a first run; an
// unreadable one is dropped with a warning.
func loadPreviousEvents(path string) map[string]EventArtifact {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var prior []EventArtifact
	if err := json.Unmarshal(data, &prior); err != nil {
		logger.Warn("previous events artifact unreadable, ignoring it", "file", path, "error", err)
		return nil
	}
	byID := make(map[string]EventArtifact, len(prior))
	for _, r := range prior {
		byID[r.SourceID] = r
	}
	return byID
}

// RunDigest builds the per-country topic digest across every article file
// and writes one combined artifact keyed by country code, overwriting any
// previous run for the same date.
func (p *Pipeline) RunDigest(ctx context.Context) error {
	files, err := storage.ListArticleFiles(p.cfg.InputDir)
	if err != nil {
		return err
	}

	var all []article.Article
	for _, path := range files {
		articles, err := storage.LoadArticles(path)
		if err != nil {
			logger.Error("skipping article file", "file", path, "error", err)
			continue
		}
		all = append(all, articles...)
	}

	grouped := storage.GroupByCountry(all, p.newspapers.CountryFor)
	if len(grouped) == 0 {
		logger.Warn("no articles with a known country, nothing to digest")
		return nil
	}

	codes := make([]string, 0, len(grouped))
	for code := range grouped {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	combined := make(map[string]digest.Summary, len(grouped))
	for _, code := range codes {
		combined[code] = p.digestCountry(ctx, code, grouped[code])
	}

	date := time.Now().Format("2006-01-02")
	out := storage.DigestPath(p.cfg.OutputDir, date)
	if err := storage.WriteJSON(out, combined); err != nil {
		return err
	}
	metrics.Global.IncrementDigestsWritten()
	logger.Info("digest written", "countries", len(combined), "output", out)
	return nil
}

// digestCountry runs the aggregator and assembler for one country. The
// aggregator's tables live and die inside this call.
func (p *Pipeline) digestCountry(ctx context.Context, code string, articles []article.Article) digest.Summary {
	logger.Info("generating digest", "country", code, "articles", len(articles))

	metas := make([]topics.Meta, 0, len(articles))
	for _, a := range articles {
		metas = append(metas, topics.Meta{ID: a.ID, Title: a.Title, Subtitle: a.Subtitle})
	}

	agg := topics.NewAggregator(p.client, p.cfg.SummaryModel, p.cfg.EventTimeout, p.cfg.Topics,
		topics.WithBatchSize(p.cfg.BatchSize))
	leaders := agg.Run(ctx, metas)

	summary := p.assembler.Build(ctx, code, leaders, articles)
	for _, a := range articles {
		if a.FullText == "" {
			continue
		}
		s := p.assembler.SummarizeArticle(ctx, a.FullText)
		if s == "" {
			continue
		}
		summary.Articles = append(summary.Articles, digest.ArticleSummary{
			Title:   a.Title,
			Summary: s,
			URL:     a.URL,
		})
	}
	return summary
}

// RunScrape crawls the built-in sites and writes one article file per
// site into the input dir, ready for the events and digest flows.
func (p *Pipeline) RunScrape() error {
	date := time.Now().Format("2006-01-02")

	for name, site := range scraper.Sites() {
		articles, err := scraper.ScrapeSite(site, p.cfg.ScrapeMaxArticles)
		if err != nil {
			logger.Error("site scrape failed", "site", name, "error", err)
			continue
		}
		if len(articles) == 0 {
			continue
		}
		out := fmt.Sprintf("%s/%s_%s.json", p.cfg.InputDir, name, date)
		if err := storage.WriteJSON(out, articles); err != nil {
			logger.Error("can't write scraped articles", "site", name, "error", err)
		}
	}
	return nil
}

// RunRSS pulls the configured per-country feeds into the input dir.
func (p *Pipeline) RunRSS() error {
	feeds, err := rss.LoadFeeds(p.cfg.FeedsPath)
	if err != nil {
		return fmt.Errorf("load feeds config: %w", err)
	}

	date := time.Now().Format("2006-01-02")
	for _, cf := range feeds.Countries {
		articles, err := rss.FetchCountry(cf)
		if err != nil {
			logger.Error("feed fetch failed", "country", cf.Code, "error", err)
			continue
		}
		if len(articles) == 0 {
			continue
		}
		out := fmt.Sprintf("%s/%s_rss_%s.json", p.cfg.InputDir, cf.Code, date)
		if err := storage.WriteJSON(out, articles); err != nil {
			logger.Error("can't write feed articles", "country", cf.Code, "error", err)
		}
	}
	return nil
}
