package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
)

func TestAnalyticsRepository_Dashboard(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnalyticsRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	seedOwner(t, db, "samuel")
	seedInfluencer(t, db, "a", "samuel", "a.tt")
	seedInfluencer(t, db, "b", "samuel", "b.tt")

	seedVideo(t, db, domain.SponsoredVideo{
		Handle: "a", TikTokVideoID: "1",
		ViewCount: 1000, LikeCount: 80, CommentCount: 10, ShareCount: 10,
		PublishedAt: timePtr(time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)),
	})
	seedVideo(t, db, domain.SponsoredVideo{
		Handle: "b", TikTokVideoID: "2",
		ViewCount: 0, LikeCount: 5,
		PublishedAt: timePtr(time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)),
	})

	stats, err := repo.Dashboard(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalInfluencers)
	assert.Equal(t, int64(2), stats.TotalVideos)
	assert.Equal(t, int64(1000), stats.TotalViews)
	assert.Equal(t, int64(85), stats.TotalLikes)
	assert.Equal(t, int64(1), stats.VideosThisMonth)
	// Video 1: (80+10+10)/1000*100 = 10%. Video 2 has no views and
	// contributes 0, not a division error. Average = 5%.
	assert.InDelta(t, 5.0, stats.AvgEngagementRate, 0.001)
}

func TestAnalyticsRepository_TopVideos(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnalyticsRepository(db)
	ctx := context.Background()

	seedVideo(t, db, domain.SponsoredVideo{Handle: "a", TikTokVideoID: "1", ViewCount: 100, LikeCount: 50})
	seedVideo(t, db, domain.SponsoredVideo{Handle: "b", TikTokVideoID: "2", ViewCount: 1000, LikeCount: 20})
	seedVideo(t, db, domain.SponsoredVideo{Handle: "c", TikTokVideoID: "3", ViewCount: 0, LikeCount: 999})

	byLikes, err := repo.TopVideos(ctx, "likes", 10)
	require.NoError(t, err)
	require.Len(t, byLikes, 3)
	assert.Equal(t, "3", byLikes[0].TikTokVideoID)
	assert.Equal(t, float64(999), byLikes[0].MetricValue)

	byViews, err := repo.TopVideos(ctx, "views", 2)
	require.NoError(t, err)
	require.Len(t, byViews, 2)
	assert.Equal(t, "2", byViews[0].TikTokVideoID)

	// Zero-view videos are excluded from the engagement leaderboard.
	byEngagement, err := repo.TopVideos(ctx, "engagement", 10)
	require.NoError(t, err)
	require.Len(t, byEngagement, 2)
	assert.Equal(t, "1", byEngagement[0].TikTokVideoID)
	assert.InDelta(t, 50.0, byEngagement[0].MetricValue, 0.001)

	_, err = repo.TopVideos(ctx, "comments", 10)
	assert.Error(t, err)
}

func TestAnalyticsRepository_InfluencerStats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnalyticsRepository(db)
	ctx := context.Background()

	last := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	seedVideo(t, db, domain.SponsoredVideo{Handle: "a", TikTokVideoID: "1", ViewCount: 100, LikeCount: 10, PublishedAt: timePtr(last.AddDate(0, -1, 0))})
	seedVideo(t, db, domain.SponsoredVideo{Handle: "a", TikTokVideoID: "2", ViewCount: 300, LikeCount: 30, PublishedAt: timePtr(last)})
	seedVideo(t, db, domain.SponsoredVideo{Handle: "b", TikTokVideoID: "3", ViewCount: 50, LikeCount: 5})

	stats, err := repo.InfluencerStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// Ordered by video count descending.
	a := stats[0]
	assert.Equal(t, "a", a.Handle)
	assert.Equal(t, int64(2), a.TotalVideos)
	assert.InDelta(t, 20.0, a.AvgLikes, 0.001)
	assert.InDelta(t, 200.0, a.AvgViews, 0.001)
	assert.Equal(t, int64(300), a.BestPerformance)
	require.NotNil(t, a.LastVideoDate)
	assert.Equal(t, last.Unix(), a.LastVideoDate.UTC().Unix())
}

func TestAnalyticsRepository_PeriodStats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnalyticsRepository(db)
	ctx := context.Background()

	in := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	out := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedVideo(t, db, domain.SponsoredVideo{Handle: "a", TikTokVideoID: "1", ViewCount: 200, LikeCount: 20, PublishedAt: timePtr(in)})
	seedVideo(t, db, domain.SponsoredVideo{Handle: "b", TikTokVideoID: "2", ViewCount: 100, LikeCount: 10, PublishedAt: timePtr(in.AddDate(0, 0, 5))})
	seedVideo(t, db, domain.SponsoredVideo{Handle: "a", TikTokVideoID: "3", ViewCount: 9999, PublishedAt: timePtr(out)})

	stats, err := repo.PeriodStats(ctx,
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalVideos)
	assert.Equal(t, int64(300), stats.TotalViews)
	assert.Equal(t, int64(30), stats.TotalLikes)
	assert.Equal(t, int64(2), stats.ActiveInfluencers)
}

func TestAnalyticsRepository_MonthlySummary(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnalyticsRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	seedVideo(t, db, domain.SponsoredVideo{Handle: "a", TikTokVideoID: "1", ViewCount: 100, LikeCount: 10, PublishedAt: timePtr(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))})
	seedVideo(t, db, domain.SponsoredVideo{Handle: "b", TikTokVideoID: "2", ViewCount: 300, LikeCount: 30, PublishedAt: timePtr(time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC))})
	seedVideo(t, db, domain.SponsoredVideo{Handle: "a", TikTokVideoID: "3", ViewCount: 50, LikeCount: 5, PublishedAt: timePtr(time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC))})
	// Outside the window.
	seedVideo(t, db, domain.SponsoredVideo{Handle: "a", TikTokVideoID: "4", ViewCount: 1, PublishedAt: timePtr(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))})

	buckets, err := repo.MonthlySummary(ctx, 3, now)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	// Newest month first.
	june := buckets[0]
	assert.Equal(t, "2026-06", june.Month)
	assert.Equal(t, int64(2), june.TotalVideos)
	assert.InDelta(t, 200.0, june.AvgViews, 0.001)
	assert.Equal(t, int64(40), june.TotalLikes)
	assert.Equal(t, int64(2), june.ActiveInfluencers)

	may := buckets[1]
	assert.Equal(t, "2026-05", may.Month)
	assert.Equal(t, int64(1), may.TotalVideos)
	assert.Equal(t, int64(1), may.ActiveInfluencers)
}
