package domain

import "time"

// SyncReport summarizes one influencer's sync run.
type SyncReport struct {
	Success         bool     `json:"success"`
	Message         string   `json:"message"`
	Handle          string   `json:"handle"`
	VideosProcessed int      `json:"videos_processed"`
	NewVideos       int      `json:"new_videos"`
	UpdatedVideos   int      `json:"updated_videos"`
	Errors          []string `json:"errors"`
}

// TranscriptionResult is the outcome of resolving a transcription request.
// "Not an influencer's video" is a successful outcome, not an error.
type TranscriptionResult struct {
	Success           bool            `json:"success"`
	Message           string          `json:"message"`
	VideoFound        bool            `json:"video_found"`
	IsInfluencerVideo bool            `json:"is_influencer_video"`
	Handle            string          `json:"handle,omitempty"`
	Transcript        string          `json:"transcript,omitempty"`
	Video             *SponsoredVideo `json:"video,omitempty"`
}

// DashboardStats are the headline totals for the dashboard endpoint.
type DashboardStats struct {
	TotalInfluencers  int64   `json:"total_influencers"`
	TotalVideos       int64   `json:"total_videos"`
	TotalViews        int64   `json:"total_views"`
	TotalLikes        int64   `json:"total_likes"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
	VideosThisMonth   int64   `json:"videos_this_month"`
}

// TopVideo is one leaderboard row for a selected metric.
type TopVideo struct {
	Handle         string     `json:"handle"`
	TikTokUsername string     `json:"tiktok_username"`
	TikTokVideoID  string     `json:"tiktok_video_id"`
	Description    string     `json:"description"`
	MetricValue    float64    `json:"metric_value"`
	PublishedAt    *time.Time `json:"published_at"`
}

// InfluencerStats is the per-influencer rollup.
type InfluencerStats struct {
	Handle          string     `json:"handle"`
	TotalVideos     int64      `json:"total_videos"`
	AvgLikes        float64    `json:"avg_likes"`
	AvgViews        float64    `json:"avg_views"`
	BestPerformance int64      `json:"best_performance"`
	LastVideoDate   *time.Time `json:"last_video_date"`
}

// PeriodStats is the rollup for an arbitrary date range.
type PeriodStats struct {
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	TotalVideos       int64     `json:"total_videos"`
	TotalViews        int64     `json:"total_views"`
	TotalLikes        int64     `json:"total_likes"`
	AvgEngagementRate float64   `json:"avg_engagement"`
	ActiveInfluencers int64     `json:"active_influencers"`
}

// MonthlyBucket is one month's summary row.
type MonthlyBucket struct {
	Month             string  `json:"month"` // YYYY-MM
	TotalVideos       int64   `json:"total_videos"`
	AvgViews          float64 `json:"avg_views"`
	TotalLikes        int64   `json:"total_likes"`
	ActiveInfluencers int64   `json:"active_influencers"`
}
