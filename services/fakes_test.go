package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"site-assistant/models"
)

var testSources = []models.TopicSource{
	{Topic: models.TopicShipping, URL: "https://shop.test/policies/shipping-policy"},
	{Topic: models.TopicRefund, URL: "https://shop.test/policies/refund-policy"},
	{Topic: models.TopicPrivacy, URL: "https://shop.test/policies/privacy-policy"},
	{Topic: models.TopicTerms, URL: "https://shop.test/policies/terms-of-service"},
	{Topic: models.TopicFAQs, URL: "https://shop.test/pages/faqs"},
}

func sourceURL(topic models.Topic) string {
	for _, src := range testSources {
		if src.Topic == topic {
			return src.URL
		}
	}
	return ""
}

// fakeFetcher serves canned page texts and counts calls
type fakeFetcher struct {
	mu    sync.Mutex
	texts map[string]string
	errs  map[string]error
	calls int
	byURL map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		texts: make(map[string]string),
		errs:  make(map[string]error),
		byURL: make(map[string]int),
	}
}

func (f *fakeFetcher) set(topic models.Topic, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts[sourceURL(topic)] = text
	delete(f.errs, sourceURL(topic))
}

func (f *fakeFetcher) fail(topic models.Topic) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[sourceURL(topic)] = errors.New("connection refused")
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeFetcher) FetchHTML(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.byURL[url]++
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	return "<html><body>" + f.texts[url] + "</body></html>", nil
}

func (f *fakeFetcher) FetchText(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.byURL[url]++
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	return f.texts[url], nil
}

func allPagesFetcher() *fakeFetcher {
	f := newFakeFetcher()
	f.set(models.TopicShipping, "Ships in 3 days.")
	f.set(models.TopicRefund, "Refunds within 30 days.")
	f.set(models.TopicPrivacy, "We respect your data.")
	f.set(models.TopicTerms, "Terms apply.")
	f.set(models.TopicFAQs, "Frequently asked questions.")
	return f
}

// fakeClock is a settable time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(f Fetcher, clock *fakeClock) *SiteCache {
	cache := NewSiteCache(f, testSources, time.Hour)
	cache.now = clock.Now
	return cache
}

// fakeProvider records the last completion request
type fakeProvider struct {
	reply string
	err   error
	last  CompletionRequest
	calls int
}

func (p *fakeProvider) Complete(_ context.Context, req CompletionRequest) (string, error) {
	p.calls++
	p.last = req
	return p.reply, p.err
}
