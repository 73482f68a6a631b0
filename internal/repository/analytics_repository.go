package repository

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
)

// AnalyticsRepository reads aggregate views over the sponsored video data.
type AnalyticsRepository interface {
	Dashboard(ctx context.Context, now time.Time) (*domain.DashboardStats, error)
	TopVideos(ctx context.Context, metric string, limit int) ([]domain.TopVideo, error)
	InfluencerStats(ctx context.Context) ([]domain.InfluencerStats, error)
	PeriodStats(ctx context.Context, start, end time.Time) (*domain.PeriodStats, error)
	MonthlySummary(ctx context.Context, months int, now time.Time) ([]domain.MonthlyBucket, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a gorm-backed AnalyticsRepository.
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// engagementExpr computes the per-video engagement percentage in SQL.
// Rows with zero views contribute zero instead of dividing by zero.
const engagementExpr = "CASE WHEN view_count > 0 THEN (like_count + comment_count + share_count) * 100.0 / view_count ELSE 0 END"

func (r *analyticsRepository) Dashboard(ctx context.Context, now time.Time) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}

	if err := r.db.WithContext(ctx).Model(&domain.Influencer{}).
		Where("status = ?", domain.InfluencerActive).
		Count(&stats.TotalInfluencers).Error; err != nil {
		return nil, err
	}

	var totals struct {
		TotalVideos   int64
		TotalViews    int64
		TotalLikes    int64
		AvgEngagement float64
	}
	err := r.db.WithContext(ctx).Model(&domain.SponsoredVideo{}).
		Select("COUNT(*) AS total_videos, " +
			"COALESCE(SUM(view_count), 0) AS total_views, " +
			"COALESCE(SUM(like_count), 0) AS total_likes, " +
			"COALESCE(AVG(" + engagementExpr + "), 0) AS avg_engagement").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	stats.TotalVideos = totals.TotalVideos
	stats.TotalViews = totals.TotalViews
	stats.TotalLikes = totals.TotalLikes
	stats.AvgEngagementRate = round2(totals.AvgEngagement)

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if err := r.db.WithContext(ctx).Model(&domain.SponsoredVideo{}).
		Where("published_at >= ?", monthStart).
		Count(&stats.VideosThisMonth).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *analyticsRepository) TopVideos(ctx context.Context, metric string, limit int) ([]domain.TopVideo, error) {
	var metricCol string
	q := r.db.WithContext(ctx).Model(&domain.SponsoredVideo{})

	switch metric {
	case "likes":
		metricCol = "like_count * 1.0"
	case "views":
		metricCol = "view_count * 1.0"
	case "engagement":
		metricCol = engagementExpr
		q = q.Where("view_count > 0")
	default:
		return nil, fmt.Errorf("unknown metric %q", metric)
	}

	var videos []domain.TopVideo
	err := q.Select("handle, tiktok_username, tiktok_video_id, description, published_at, " +
		metricCol + " AS metric_value").
		Order("metric_value DESC").
		Limit(limit).
		Scan(&videos).Error
	if err != nil {
		return nil, err
	}
	for i := range videos {
		videos[i].MetricValue = round2(videos[i].MetricValue)
	}
	return videos, nil
}

// InfluencerStats rolls up per handle in Go; the datetime aggregate does
// not scan portably across drivers.
func (r *analyticsRepository) InfluencerStats(ctx context.Context) ([]domain.InfluencerStats, error) {
	var rows []struct {
		Handle      string
		ViewCount   int64
		LikeCount   int64
		PublishedAt *time.Time
	}
	err := r.db.WithContext(ctx).Model(&domain.SponsoredVideo{}).
		Select("handle, view_count, like_count, published_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	type acc struct {
		videos int64
		views  int64
		likes  int64
		best   int64
		last   *time.Time
	}
	byHandle := map[string]*acc{}
	for _, row := range rows {
		a, ok := byHandle[row.Handle]
		if !ok {
			a = &acc{}
			byHandle[row.Handle] = a
		}
		a.videos++
		a.views += row.ViewCount
		a.likes += row.LikeCount
		if row.ViewCount > a.best {
			a.best = row.ViewCount
		}
		if row.PublishedAt != nil && (a.last == nil || row.PublishedAt.After(*a.last)) {
			a.last = row.PublishedAt
		}
	}

	stats := make([]domain.InfluencerStats, 0, len(byHandle))
	for handle, a := range byHandle {
		stats = append(stats, domain.InfluencerStats{
			Handle:          handle,
			TotalVideos:     a.videos,
			AvgLikes:        round2(float64(a.likes) / float64(a.videos)),
			AvgViews:        round2(float64(a.views) / float64(a.videos)),
			BestPerformance: a.best,
			LastVideoDate:   a.last,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalVideos != stats[j].TotalVideos {
			return stats[i].TotalVideos > stats[j].TotalVideos
		}
		return stats[i].Handle < stats[j].Handle
	})
	return stats, nil
}

func (r *analyticsRepository) PeriodStats(ctx context.Context, start, end time.Time) (*domain.PeriodStats, error) {
	var totals struct {
		TotalVideos       int64
		TotalViews        int64
		TotalLikes        int64
		AvgEngagement     float64
		ActiveInfluencers int64
	}
	err := r.db.WithContext(ctx).Model(&domain.SponsoredVideo{}).
		Select("COUNT(*) AS total_videos, "+
			"COALESCE(SUM(view_count), 0) AS total_views, "+
			"COALESCE(SUM(like_count), 0) AS total_likes, "+
			"COALESCE(AVG("+engagementExpr+"), 0) AS avg_engagement, "+
			"COUNT(DISTINCT handle) AS active_influencers").
		Where("published_at >= ? AND published_at <= ?", start, end).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	return &domain.PeriodStats{
		StartDate:         start,
		EndDate:           end,
		TotalVideos:       totals.TotalVideos,
		TotalViews:        totals.TotalViews,
		TotalLikes:        totals.TotalLikes,
		AvgEngagementRate: round2(totals.AvgEngagement),
		ActiveInfluencers: totals.ActiveInfluencers,
	}, nil
}

// MonthlySummary buckets videos by publish month in Go rather than SQL so
// the same query runs on every supported database.
func (r *analyticsRepository) MonthlySummary(ctx context.Context, months int, now time.Time) ([]domain.MonthlyBucket, error) {
	cutoff := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	var rows []struct {
		Handle      string
		ViewCount   int64
		LikeCount   int64
		PublishedAt *time.Time
	}
	err := r.db.WithContext(ctx).Model(&domain.SponsoredVideo{}).
		Select("handle, view_count, like_count, published_at").
		Where("published_at >= ?", cutoff).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	type acc struct {
		videos   int64
		views    int64
		likes    int64
		handles  map[string]struct{}
	}
	buckets := map[string]*acc{}
	for _, row := range rows {
		if row.PublishedAt == nil {
			continue
		}
		month := row.PublishedAt.UTC().Format("2006-01")
		b, ok := buckets[month]
		if !ok {
			b = &acc{handles: map[string]struct{}{}}
			buckets[month] = b
		}
		b.videos++
		b.views += row.ViewCount
		b.likes += row.LikeCount
		b.handles[row.Handle] = struct{}{}
	}

	out := make([]domain.MonthlyBucket, 0, len(buckets))
	for month, b := range buckets {
		avgViews := 0.0
		if b.videos > 0 {
			avgViews = round2(float64(b.views) / float64(b.videos))
		}
		out = append(out, domain.MonthlyBucket{
			Month:             month,
			TotalVideos:       b.videos,
			AvgViews:          avgViews,
			TotalLikes:        b.likes,
			ActiveInfluencers: int64(len(b.handles)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
