package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-assistant/models"
)

func TestSiteCacheStartsStale(t *testing.T) {
	clock := newFakeClock()
	cache := newTestCache(newFakeFetcher(), clock)

	assert.True(t, cache.IsStale(clock.Now()))
	assert.True(t, cache.UpdatedAt().IsZero())
	assert.Equal(t, "", cache.Text(models.TopicShipping))
}

func TestSiteCacheRefreshFetchesAllTopics(t *testing.T) {
	clock := newFakeClock()
	fetcher := allPagesFetcher()
	cache := newTestCache(fetcher, clock)

	require.NoError(t, cache.Refresh(context.Background()))

	assert.Equal(t, 5, fetcher.callCount())
	assert.Equal(t, "Ships in 3 days.", cache.Text(models.TopicShipping))
	assert.Equal(t, "Refunds within 30 days.", cache.Text(models.TopicRefund))
	assert.Equal(t, "We respect your data.", cache.Text(models.TopicPrivacy))
	assert.Equal(t, "Terms apply.", cache.Text(models.TopicTerms))
	assert.Equal(t, "Frequently asked questions.", cache.Text(models.TopicFAQs))
	assert.Equal(t, clock.Now(), cache.UpdatedAt())
	assert.False(t, cache.IsStale(clock.Now()))
}

func TestSiteCacheEnsureFreshWithinWindow(t *testing.T) {
	clock := newFakeClock()
	fetcher := allPagesFetcher()
	cache := newTestCache(fetcher, clock)
	ctx := context.Background()

	require.NoError(t, cache.EnsureFresh(ctx))
	calls := fetcher.callCount()
	require.Equal(t, 5, calls)

	clock.Advance(30 * time.Minute)
	require.NoError(t, cache.EnsureFresh(ctx))
	clock.Advance(29 * time.Minute)
	require.NoError(t, cache.EnsureFresh(ctx))

	assert.Equal(t, calls, fetcher.callCount(), "no fetch expected within the freshness window")
}

func TestSiteCacheEnsureFreshAfterWindow(t *testing.T) {
	clock := newFakeClock()
	fetcher := allPagesFetcher()
	cache := newTestCache(fetcher, clock)
	ctx := context.Background()

	require.NoError(t, cache.EnsureFresh(ctx))
	calls := fetcher.callCount()

	clock.Advance(time.Hour)
	require.NoError(t, cache.EnsureFresh(ctx))
	assert.Equal(t, calls, fetcher.callCount(), "exactly one hour is not stale yet")

	clock.Advance(time.Millisecond)
	require.NoError(t, cache.EnsureFresh(ctx))
	assert.Greater(t, fetcher.callCount(), calls)
	assert.Equal(t, clock.Now(), cache.UpdatedAt())
}

func TestSiteCacheMandatoryFailureKeepsPreviousState(t *testing.T) {
	clock := newFakeClock()
	fetcher := allPagesFetcher()
	cache := newTestCache(fetcher, clock)
	ctx := context.Background()

	require.NoError(t, cache.Refresh(ctx))
	firstUpdate := cache.UpdatedAt()

	clock.Advance(2 * time.Hour)
	fetcher.fail(models.TopicShipping)
	fetcher.set(models.TopicRefund, "New refund text.")
	fetcher.set(models.TopicPrivacy, "New privacy text.")
	fetcher.set(models.TopicTerms, "New terms text.")

	err := cache.Refresh(ctx)
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, models.TopicShipping, fetchErr.Topic)

	assert.Equal(t, "Ships in 3 days.", cache.Text(models.TopicShipping))
	assert.Equal(t, "Refunds within 30 days.", cache.Text(models.TopicRefund))
	assert.Equal(t, "We respect your data.", cache.Text(models.TopicPrivacy))
	assert.Equal(t, "Terms apply.", cache.Text(models.TopicTerms))
	assert.Equal(t, firstUpdate, cache.UpdatedAt())
	assert.True(t, cache.IsStale(clock.Now()))
}

func TestSiteCacheLaterMandatoryFailureAbortsWholeCycle(t *testing.T) {
	clock := newFakeClock()
	fetcher := allPagesFetcher()
	fetcher.fail(models.TopicTerms)
	cache := newTestCache(fetcher, clock)

	err := cache.Refresh(context.Background())
	require.Error(t, err)

	assert.Equal(t, "", cache.Text(models.TopicShipping), "partial results must not be stored")
	assert.True(t, cache.UpdatedAt().IsZero())
	assert.Equal(t, 4, fetcher.callCount(), "FAQ page is not fetched after an abort")
}

func TestSiteCacheFAQFailureIsTolerated(t *testing.T) {
	clock := newFakeClock()
	fetcher := allPagesFetcher()
	cache := newTestCache(fetcher, clock)
	ctx := context.Background()

	require.NoError(t, cache.Refresh(ctx))
	require.Equal(t, "Frequently asked questions.", cache.Text(models.TopicFAQs))

	clock.Advance(2 * time.Hour)
	fetcher.fail(models.TopicFAQs)
	fetcher.set(models.TopicShipping, "Ships in 1 day.")
	fetcher.set(models.TopicRefund, "New refund text.")
	fetcher.set(models.TopicPrivacy, "New privacy text.")
	fetcher.set(models.TopicTerms, "New terms text.")

	require.NoError(t, cache.Refresh(ctx))

	assert.Equal(t, clock.Now(), cache.UpdatedAt())
	assert.Equal(t, "Ships in 1 day.", cache.Text(models.TopicShipping))
	assert.Equal(t, "New refund text.", cache.Text(models.TopicRefund))
	assert.Equal(t, "New privacy text.", cache.Text(models.TopicPrivacy))
	assert.Equal(t, "New terms text.", cache.Text(models.TopicTerms))
	assert.Equal(t, "", cache.Text(models.TopicFAQs))
}

func TestSiteCacheUpdatedAtIsCycleStart(t *testing.T) {
	clock := newFakeClock()
	start := clock.Now()
	cache := NewSiteCache(allPagesFetcher(), testSources, time.Hour)

	// each clock read moves time forward, as a slow fetch would
	cache.now = func() time.Time {
		now := clock.Now()
		clock.Advance(time.Second)
		return now
	}

	require.NoError(t, cache.Refresh(context.Background()))
	assert.Equal(t, start, cache.UpdatedAt())
}

func TestSiteCacheStatus(t *testing.T) {
	clock := newFakeClock()
	cache := newTestCache(allPagesFetcher(), clock)

	status := cache.Status()
	assert.True(t, status.Stale)
	assert.Nil(t, status.UpdatedAt)

	require.NoError(t, cache.Refresh(context.Background()))

	status = cache.Status()
	assert.False(t, status.Stale)
	require.NotNil(t, status.UpdatedAt)
	assert.Equal(t, clock.Now(), *status.UpdatedAt)
	require.Len(t, status.Topics, 5)
	assert.Equal(t, "Shipping Policy", status.Topics[models.TopicShipping].Label)
	assert.Equal(t, len("Ships in 3 days."), status.Topics[models.TopicShipping].Length)
}

func TestSiteCacheSnapshotIsACopy(t *testing.T) {
	cache := newTestCache(allPagesFetcher(), newFakeClock())
	require.NoError(t, cache.Refresh(context.Background()))

	snapshot := cache.Snapshot()
	snapshot.Texts[models.TopicShipping] = "changed"

	assert.Equal(t, "Ships in 3 days.", cache.Text(models.TopicShipping))
}
