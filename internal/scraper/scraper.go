// Package scraper collects articles from the configured news sites.
// Selector rules are site-specific and brittle on purpose; when a site
// redesigns, only its rule set changes.
package scraper

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"newsmap/internal/article"
	"newsmap/internal/logger"
)

// Site is one configured news source with its crawl rules.
type Site struct {
	Name        string
	FrontPage   string
	CountryCode string
	linkPattern *regexp.Regexp
}

// Sites returns the built-in site rules, keyed by source name.
func Sites() map[string]Site {
	return map[string]Site{
		"clarin": {
			Name:        "clarin.com",
			FrontPage:   "https://www.clarin.com",
			CountryCode: "ar",
			linkPattern: regexp.MustCompile(`^https://www\.clarin\.com/.+`),
		},
		"lanacion": {
			Name:        "lanacion.com.ar",
			FrontPage:   "https://www.lanacion.com.ar",
			CountryCode: "ar",
			linkPattern: regexp.MustCompile(`^https://www\.lanacion\.com\.ar/[^/]+/.+-nid\d+/?$`),
		},
		"lapoliticaonline": {
			Name:        "lapoliticaonline.com",
			FrontPage:   "https://lapoliticaonline.com/",
			CountryCode: "ar",
			linkPattern: regexp.MustCompile(`^https://www\.lapoliticaonline\.com/[^/]+/[a-z0-9\-]+/?$`),
		},
	}
}

var httpClient = &http.Client{Timeout: 15 * time.Second}

// ScrapeSite crawls one site's front page and extracts up to maxArticles
// articles. Per-article failures are logged and skipped.
func ScrapeSite(site Site, maxArticles int) ([]article.Article, error) {
	links, err := CollectLinks(site)
	if err != nil {
		return nil, fmt.Errorf("collect links for %s: %w", site.Name, err)
	}

	var articles []article.Article
	for _, link := range links {
		if len(articles) >= maxArticles {
			break
		}

		a, err := ScrapeArticle(site, link)
		if err != nil {
			logger.Warn("can't extract article", "url", link, "error", err)
			continue
		}
		if len(a.FullText) < 100 {
			logger.Debug("content too short, skipping", "url", link)
			continue
		}
		articles = append(articles, a)

		// Small pause between requests, don't overload sites
		time.Sleep(500 * time.Millisecond)
	}

	logger.Info("scraped site", "site", site.Name, "articles", len(articles))
	return articles, nil
}

// CollectLinks discovers article URLs on the site's front page.
func CollectLinks(site Site) ([]string, error) {
	doc, err := fetchDocument(site.FrontPage)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(site.FrontPage)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var links []string
	doc.Find("a").Each(func(i int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := strings.Replace(base.ResolveReference(ref).String(), ".com:443", ".com", 1)
		if !site.linkPattern.MatchString(abs) {
			return
		}
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		links = append(links, abs)
	})
	return links, nil
}

// ScrapeArticle downloads and parses one article page.
func ScrapeArticle(site Site, articleURL string) (article.Article, error) {
	doc, err := fetchDocument(articleURL)
	if err != nil {
		return article.Article{}, err
	}
	return ParseArticle(site, doc, articleURL), nil
}

// ParseArticle applies the site's selector rules to a parsed document.
func ParseArticle(site Site, doc *goquery.Document, articleURL string) article.Article {
	var title, subtitle, date, fullText string

	switch site.Name {
	case "clarin.com":
		title = firstText(doc, "h1")
		subtitle, _ = doc.Find(`meta[name="description"]`).Attr("content")
		date, _ = doc.Find(`meta[name="date"]`).Attr("content")
		fullText = joinParagraphs(doc, "div#cuerpo p")
	case "lanacion.com.ar":
		title = firstText(doc, "h1")
		subtitle = firstText(doc, "h2")
		date = dateFromNid(articleURL)
		fullText = joinParagraphs(doc, "section.cuerpo__nota p")
	case "lapoliticaonline.com":
		title = firstText(doc, "div.title")
		subtitle = firstText(doc, "div.description")
		date = firstText(doc, "span.time")
		fullText = joinParagraphs(doc, `div.zleft.z75 p`)
	default:
		title = firstText(doc, "h1")
		fullText = genericContent(doc)
	}

	a := article.Article{
		Title:       cleanText(title),
		Subtitle:    cleanText(subtitle),
		Date:        strings.TrimSpace(date),
		FullText:    cleanText(fullText),
		URL:         articleURL,
		Source:      site.Name,
		CountryCode: site.CountryCode,
	}
	a.EnsureID()
	return a
}

func fetchDocument(pageURL string) (*goquery.Document, error) {
	resp, err := httpClient.Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}
	return doc, nil
}

func firstText(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

// joinParagraphs collects the text of every matching paragraph.
func joinParagraphs(doc *goquery.Document, selector string) string {
	var paragraphs []string
	doc.Find(selector).Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" && len(text) > 10 {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, " ")
}

// genericContent tries common body selectors for sites without rules.
func genericContent(doc *goquery.Document) string {
	selectors := []string{
		"article p",
		".article-body p",
		".content p",
		".post-content p",
		"main p",
		"p",
	}
	for _, selector := range selectors {
		if text := joinParagraphs(doc, selector); len(strings.Fields(text)) > 30 {
			return text
		}
	}
	return ""
}

var nidRe = regexp.MustCompile(`nid(\d{2})(\d{2})(\d{4})`)

// dateFromNid recovers the publication date lanacion encodes in its URLs.
func dateFromNid(articleURL string) string {
	m := nidRe.FindStringSubmatch(articleURL)
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%s-%s-%s", m[3], m[2], m[1])
}

var controlRe = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F-\x9F]`)

// cleanText strips control characters and collapses whitespace.
func cleanText(text string) string {
	text = controlRe.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}
