package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"site-assistant/models"
)

// DefaultSiteCacheTTL is how long a refresh cycle stays fresh
const DefaultSiteCacheTTL = time.Hour

// SiteCacheSnapshot is a point-in-time copy of the cache
type SiteCacheSnapshot struct {
	Texts     map[models.Topic]string
	UpdatedAt time.Time
}

// SiteCache holds the normalized text of every topic page plus the start time
// of the last successful refresh cycle. All topics share one timestamp.
type SiteCache struct {
	fetcher Fetcher
	sources []models.TopicSource
	ttl     time.Duration
	now     func() time.Time

	mu        sync.RWMutex
	texts     map[models.Topic]string
	updatedAt time.Time
}

// NewSiteCache creates an empty, stale cache over the given topic sources
func NewSiteCache(fetcher Fetcher, sources []models.TopicSource, ttl time.Duration) *SiteCache {
	if ttl <= 0 {
		ttl = DefaultSiteCacheTTL
	}
	return &SiteCache{
		fetcher: fetcher,
		sources: sources,
		ttl:     ttl,
		now:     time.Now,
		texts:   make(map[models.Topic]string),
	}
}

// Source returns the configured source of topic
func (s *SiteCache) Source(topic models.Topic) (models.TopicSource, bool) {
	for _, src := range s.sources {
		if src.Topic == topic {
			return src, true
		}
	}
	return models.TopicSource{}, false
}

// IsStale reports whether more than the TTL has passed since the last
// successful refresh. A cache that was never refreshed is always stale.
func (s *SiteCache) IsStale(now time.Time) bool {
	s.mu.RLock()
	updatedAt := s.updatedAt
	s.mu.RUnlock()

	if updatedAt.IsZero() {
		return true
	}
	return now.Sub(updatedAt) > s.ttl
}

// EnsureFresh refreshes the cache only when it is stale
func (s *SiteCache) EnsureFresh(ctx context.Context) error {
	if !s.IsStale(s.now()) {
		return nil
	}
	return s.Refresh(ctx)
}

// Refresh runs one refresh cycle. The mandatory policy pages are fetched in
// order and any failure aborts the cycle with the previous state kept. The
// FAQ page is optional: a failure stores an empty text and the cycle goes on.
func (s *SiteCache) Refresh(ctx context.Context) error {
	cycleID := uuid.New().String()
	startedAt := s.now()
	logger := slog.With("cycle_id", cycleID)
	logger.Info("Site cache refresh started", "topics", len(s.sources))

	texts := make(map[models.Topic]string, len(s.sources))
	for _, src := range s.sources {
		text, err := s.fetcher.FetchText(ctx, src.URL)
		if err != nil {
			fetchErr := &FetchError{Topic: src.Topic, URL: src.URL, Err: err}
			if src.Topic == models.TopicFAQs {
				logger.Warn("Optional page fetch failed, keeping empty text", "topic", src.Topic, "url", src.URL, "error", err)
				texts[src.Topic] = ""
				continue
			}
			logger.Error("Site cache refresh aborted", "topic", src.Topic, "url", src.URL, "error", err)
			return fetchErr
		}
		texts[src.Topic] = text
		logger.Debug("Fetched site page", "topic", src.Topic, "length", len(text))
	}

	s.mu.Lock()
	s.texts = texts
	s.updatedAt = startedAt
	s.mu.Unlock()

	logger.Info("Site cache refreshed", "updated_at", startedAt, "duration", s.now().Sub(startedAt))
	return nil
}

// Text returns the cached text of topic, or "" when it was never fetched
func (s *SiteCache) Text(topic models.Topic) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.texts[topic]
}

// UpdatedAt returns the start time of the last successful refresh cycle
func (s *SiteCache) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Snapshot copies the current cache state
func (s *SiteCache) Snapshot() SiteCacheSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	texts := make(map[models.Topic]string, len(s.texts))
	for topic, text := range s.texts {
		texts[topic] = text
	}
	return SiteCacheSnapshot{Texts: texts, UpdatedAt: s.updatedAt}
}

// Status describes the cache for the admin status endpoint
func (s *SiteCache) Status() models.SiteCacheStatus {
	snapshot := s.Snapshot()

	status := models.SiteCacheStatus{
		Stale:  s.IsStale(s.now()),
		Topics: make(map[models.Topic]models.SiteCacheTopicStatus, len(s.sources)),
	}
	if !snapshot.UpdatedAt.IsZero() {
		updatedAt := snapshot.UpdatedAt
		status.UpdatedAt = &updatedAt
	}
	for _, src := range s.sources {
		status.Topics[src.Topic] = models.SiteCacheTopicStatus{
			Label:  src.Label(),
			URL:    src.URL,
			Length: len(snapshot.Texts[src.Topic]),
		}
	}
	return status
}

// StartSiteCacheWarmer keeps the cache warm in the background so chat
// requests rarely pay for a refresh. A non-positive interval disables it.
func StartSiteCacheWarmer(ctx context.Context, cache *SiteCache, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("Site cache warmer stopped")
				return
			case <-ticker.C:
				if err := cache.EnsureFresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
					slog.Error("Failed to warm site cache", "error", err)
				}
			}
		}
	}()

	slog.Info("Site cache warmer started", "interval", interval)
}
