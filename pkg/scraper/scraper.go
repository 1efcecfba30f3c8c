// Package scraper fetches web pages and extracts their readable content for
// the research agent, stripping navigation, scripts and other boilerplate.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"unicode/utf8"

	"blogbrain/pkg/logger"
	"blogbrain/pkg/serrors"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	// DefaultMaxContentLength caps extracted content so a single page cannot
	// blow up the research context.
	DefaultMaxContentLength = 5000

	// userAgent mimics a browser; several publishers reject default Go
	// client strings.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// boilerplateSelector matches elements removed before content extraction.
	boilerplateSelector = "script,style,nav,footer,aside,header,form"
)

// Page is the readable extraction of a single web page.
type Page struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	WordCount int    `json:"word_count"`
}

// Metadata holds meta tags and Open Graph fields of a page.
type Metadata struct {
	Title         string `json:"title,omitempty"`
	Description   string `json:"description,omitempty"`
	Keywords      string `json:"keywords,omitempty"`
	Author        string `json:"author,omitempty"`
	OGTitle       string `json:"og_title,omitempty"`
	OGDescription string `json:"og_description,omitempty"`
	OGImage       string `json:"og_image,omitempty"`
}

// Scraper fetches and extracts pages. It is safe for concurrent use.
type Scraper struct {
	httpClient       *http.Client
	maxContentLength int
}

// New constructs a Scraper using the provided http.Client. A non-positive
// maxContentLength falls back to DefaultMaxContentLength.
func New(httpClient *http.Client, maxContentLength int) *Scraper {
	if maxContentLength <= 0 {
		maxContentLength = DefaultMaxContentLength
	}

	return &Scraper{
		httpClient:       httpClient,
		maxContentLength: maxContentLength,
	}
}

// Scrape fetches a page and extracts its title and main content. The title
// prefers the first h1 and falls back to the <title> tag; content is gathered
// from the article, main or body container in that order.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (*Page, error) {
	doc, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc.Find(boilerplateSelector).Remove()

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		title = "No title found"
	}

	container := doc.Find("article").First()
	if container.Length() == 0 {
		container = doc.Find("main").First()
	}
	if container.Length() == 0 {
		container = doc.Find("body").First()
	}

	var parts []string
	container.Find("p,h2,h3,h4,li").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	content := strings.Join(parts, " ")
	if content == "" {
		content = strings.TrimSpace(doc.Text())
	}
	if len(content) > s.maxContentLength {
		cut := s.maxContentLength
		// back up to a rune boundary so the cap never emits invalid UTF-8
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut]
	}

	page := &Page{
		URL:       pageURL,
		Title:     title,
		Content:   content,
		WordCount: len(strings.Fields(content)),
	}

	logger.Debug(ctx, "scraped page",
		zap.String("url", pageURL),
		zap.Int("word_count", page.WordCount))

	return page, nil
}

// Metadata fetches a page and extracts its meta tags and Open Graph fields.
func (s *Scraper) Metadata(ctx context.Context, pageURL string) (*Metadata, error) {
	doc, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	meta := func(name string) string {
		return doc.Find(`meta[name="` + name + `"]`).First().AttrOr("content", "")
	}
	og := func(prop string) string {
		return doc.Find(`meta[property="` + prop + `"]`).First().AttrOr("content", "")
	}

	return &Metadata{
		Title:         strings.TrimSpace(doc.Find("title").First().Text()),
		Description:   meta("description"),
		Keywords:      meta("keywords"),
		Author:        meta("author"),
		OGTitle:       og("og:title"),
		OGDescription: og("og:description"),
		OGImage:       og("og:image"),
	}, nil
}

func (s *Scraper) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrValidation, err, "invalid page url")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		var ne net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
			return nil, serrors.Wrap(serrors.ErrTimeout, err, "fetching %s timed out", pageURL)
		}

		return nil, fmt.Errorf("could not fetch page: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serrors.With(serrors.ErrUnavailable, "fetching %s failed with status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not parse page: %w", err)
	}

	return doc, nil
}
