package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// maxPageBytes bounds how much markup is read from a single page. Longer
// pages are cut at the limit and logged.
const maxPageBytes = 5 << 20

// Fetcher retrieves site pages
type Fetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
	FetchText(ctx context.Context, url string) (string, error)
}

// PageFetcher downloads pages with a browser User-Agent and reduces them to
// plain text
type PageFetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// NewPageFetcher creates a fetcher whose requests fail after timeout
func NewPageFetcher(timeout time.Duration, userAgent string) *PageFetcher {
	return &PageFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
		maxBytes:  maxPageBytes,
	}
}

// FetchHTML returns the raw markup of url
func (f *PageFetcher) FetchHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	// One extra byte tells a page of exactly maxBytes from a longer one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		slog.Warn("Page truncated", "url", url, "limit", f.maxBytes)
		body = body[:f.maxBytes]
	}

	return string(body), nil
}

// FetchText returns the normalized visible text of url
func (f *PageFetcher) FetchText(ctx context.Context, url string) (string, error) {
	html, err := f.FetchHTML(ctx, url)
	if err != nil {
		return "", err
	}
	return ExtractText(html)
}

// ExtractText strips non-content elements from html and returns its text
// with whitespace collapsed to single spaces.
func ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	doc.Find("script, style, noscript, svg, template, iframe").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	return NormalizeWhitespace(root.Text()), nil
}

// NormalizeWhitespace collapses runs of whitespace and trims the ends
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
