package service

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/eldorado-p2p/influencer-api/internal/repository"
)

const exportPageSize = 500

// ExportService bundles the campaign data into a portable zip archive:
// influencers.csv, videos.csv and a summary.json with the dashboard
// totals at export time.
type ExportService struct {
	influencers repository.InfluencerRepository
	videos      repository.VideoRepository
	analytics   repository.AnalyticsRepository
	logger      *slog.Logger
	now         func() time.Time
}

// NewExportService creates a new export service.
func NewExportService(
	influencers repository.InfluencerRepository,
	videos repository.VideoRepository,
	analytics repository.AnalyticsRepository,
	logger *slog.Logger,
) *ExportService {
	return &ExportService{
		influencers: influencers,
		videos:      videos,
		analytics:   analytics,
		logger:      logger,
		now:         time.Now,
	}
}

// ExportSummary describes what one export contained.
type ExportSummary struct {
	GeneratedAt       time.Time `json:"generated_at"`
	Influencers       int       `json:"influencers"`
	Videos            int       `json:"videos"`
	TotalViews        int64     `json:"total_views"`
	TotalLikes        int64     `json:"total_likes"`
	AvgEngagementRate float64   `json:"avg_engagement_rate"`
}

// Export writes the archive to w and returns what it contained.
func (s *ExportService) Export(ctx context.Context, w io.Writer) (*ExportSummary, error) {
	started := s.now()
	zw := zip.NewWriter(w)

	summary := &ExportSummary{GeneratedAt: started}

	count, err := s.writeInfluencers(ctx, zw)
	if err != nil {
		return nil, fmt.Errorf("export influencers: %w", err)
	}
	summary.Influencers = count

	count, err = s.writeVideos(ctx, zw)
	if err != nil {
		return nil, fmt.Errorf("export videos: %w", err)
	}
	summary.Videos = count

	if stats, err := s.analytics.Dashboard(ctx, started); err != nil {
		s.logger.Warn("dashboard stats unavailable for export summary", "error", err)
	} else {
		summary.TotalViews = stats.TotalViews
		summary.TotalLikes = stats.TotalLikes
		summary.AvgEngagementRate = stats.AvgEngagementRate
	}

	entry, err := zw.Create("summary.json")
	if err != nil {
		return nil, fmt.Errorf("export summary: %w", err)
	}
	enc := json.NewEncoder(entry)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return nil, fmt.Errorf("export summary: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	s.logger.Info("export completed",
		"influencers", summary.Influencers,
		"videos", summary.Videos,
		"duration", s.now().Sub(started))
	return summary, nil
}

func (s *ExportService) writeInfluencers(ctx context.Context, zw *zip.Writer) (int, error) {
	entry, err := zw.Create("influencers.csv")
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(entry)
	if err := cw.Write([]string{"handle", "first_name", "owner_name", "country", "status", "created_at"}); err != nil {
		return 0, err
	}

	total := 0
	for offset := 0; ; offset += exportPageSize {
		page, err := s.influencers.List(ctx, offset, exportPageSize)
		if err != nil {
			return total, err
		}
		for _, inf := range page {
			if err := cw.Write([]string{
				inf.Handle,
				inf.FirstName,
				inf.OwnerName,
				inf.Country,
				inf.Status,
				inf.CreatedAt.Format(time.RFC3339),
			}); err != nil {
				return total, err
			}
			total++
		}
		if len(page) < exportPageSize {
			break
		}
	}

	cw.Flush()
	return total, cw.Error()
}

func (s *ExportService) writeVideos(ctx context.Context, zw *zip.Writer) (int, error) {
	entry, err := zw.Create("videos.csv")
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(entry)
	if err := cw.Write([]string{
		"tiktok_video_id", "handle", "tiktok_username", "description",
		"views", "likes", "comments", "shares", "engagement_rate",
		"public_video_url", "transcribed", "published_at",
	}); err != nil {
		return 0, err
	}

	total := 0
	for offset := 0; ; offset += exportPageSize {
		page, err := s.videos.List(ctx, "", offset, exportPageSize)
		if err != nil {
			return total, err
		}
		for i := range page {
			v := &page[i]
			publishedAt := ""
			if v.PublishedAt != nil {
				publishedAt = v.PublishedAt.Format(time.RFC3339)
			}
			if err := cw.Write([]string{
				v.TikTokVideoID,
				v.Handle,
				v.TikTokUsername,
				v.Description,
				strconv.FormatInt(v.ViewCount, 10),
				strconv.FormatInt(v.LikeCount, 10),
				strconv.FormatInt(v.CommentCount, 10),
				strconv.FormatInt(v.ShareCount, 10),
				strconv.FormatFloat(v.EngagementRate(), 'f', 2, 64),
				v.PublicVideoURL,
				strconv.FormatBool(v.Transcript != ""),
				publishedAt,
			}); err != nil {
				return total, err
			}
			total++
		}
		if len(page) < exportPageSize {
			break
		}
	}

	cw.Flush()
	return total, cw.Error()
}
