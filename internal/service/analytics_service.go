package service

import (
	"context"
	"fmt"
	"time"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
	"github.com/eldorado-p2p/influencer-api/internal/repository"
)

// TopVideoMetrics are the leaderboard orderings the API accepts.
var TopVideoMetrics = map[string]bool{
	"likes":      true,
	"views":      true,
	"engagement": true,
}

// AnalyticsService exposes aggregate reporting over sponsored videos.
type AnalyticsService struct {
	analytics   repository.AnalyticsRepository
	influencers repository.InfluencerRepository
	now         func() time.Time
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(analytics repository.AnalyticsRepository, influencers repository.InfluencerRepository) *AnalyticsService {
	return &AnalyticsService{
		analytics:   analytics,
		influencers: influencers,
		now:         time.Now,
	}
}

func (s *AnalyticsService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	return s.analytics.Dashboard(ctx, s.now().UTC())
}

func (s *AnalyticsService) TopVideos(ctx context.Context, metric string, limit int) ([]domain.TopVideo, error) {
	if !TopVideoMetrics[metric] {
		return nil, fmt.Errorf("unsupported metric %q (want likes, views or engagement)", metric)
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.analytics.TopVideos(ctx, metric, limit)
}

// InfluencerStats returns the rollup for one influencer. The influencer
// must exist even when it has no videos yet.
func (s *AnalyticsService) InfluencerStats(ctx context.Context, handle string) (*domain.InfluencerStats, error) {
	influencer, err := s.influencers.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	all, err := s.analytics.InfluencerStats(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Handle == handle {
			return &all[i], nil
		}
	}
	return &domain.InfluencerStats{Handle: influencer.Handle}, nil
}

func (s *AnalyticsService) AllInfluencerStats(ctx context.Context) ([]domain.InfluencerStats, error) {
	return s.analytics.InfluencerStats(ctx)
}

func (s *AnalyticsService) PeriodStats(ctx context.Context, start, end time.Time) (*domain.PeriodStats, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s precedes start date %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return s.analytics.PeriodStats(ctx, start, end)
}

func (s *AnalyticsService) MonthlySummary(ctx context.Context, months int) ([]domain.MonthlyBucket, error) {
	if months <= 0 || months > 24 {
		months = 6
	}
	return s.analytics.MonthlySummary(ctx, months, s.now().UTC())
}
