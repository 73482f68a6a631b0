package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eldorado-p2p/influencer-api/internal/config"
	"github.com/eldorado-p2p/influencer-api/internal/domain"
	"github.com/eldorado-p2p/influencer-api/internal/repository"
)

// VideoProvider fetches sponsored videos for a TikTok account.
type VideoProvider interface {
	AccountID(ctx context.Context, username string) string
	SponsoredVideos(ctx context.Context, username string) []domain.VideoDraft
}

// SyncService reconciles provider data into the sponsored video table.
type SyncService struct {
	provider    VideoProvider
	influencers repository.InfluencerRepository
	videos      repository.VideoRepository
	cfg         config.SyncConfig
	logger      *slog.Logger
}

// NewSyncService creates a new sync service.
func NewSyncService(
	provider VideoProvider,
	influencers repository.InfluencerRepository,
	videos repository.VideoRepository,
	cfg config.SyncConfig,
	logger *slog.Logger,
) *SyncService {
	return &SyncService{
		provider:    provider,
		influencers: influencers,
		videos:      videos,
		cfg:         cfg,
		logger:      logger,
	}
}

// SyncInfluencer fetches the influencer's recent sponsored videos and
// reconciles them against stored rows.
func (s *SyncService) SyncInfluencer(ctx context.Context, handle string) (*domain.SyncReport, error) {
	influencer, err := s.influencers.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	accounts, err := s.influencers.SocialAccounts(ctx, handle)
	if err != nil {
		return nil, err
	}
	if accounts.TikTokUsername == "" {
		return nil, fmt.Errorf("influencer %s: %w", handle, domain.ErrMissingSocialID)
	}

	s.logger.Info("syncing influencer",
		"handle", handle,
		"tiktok_username", accounts.TikTokUsername)

	// Resolve and pin the numeric account id the first time we see it.
	// An influencer whose id cannot be resolved is skipped for this run
	// and retried on the next sync.
	if accounts.TikTokID == "" {
		id := s.provider.AccountID(ctx, accounts.TikTokUsername)
		if id == "" {
			s.logger.Warn("tiktok id unresolved, skipping",
				"handle", handle,
				"tiktok_username", accounts.TikTokUsername)
			return &domain.SyncReport{
				Success: false,
				Message: fmt.Sprintf("tiktok account id for %s could not be resolved, influencer skipped", handle),
				Handle:  influencer.Handle,
				Errors:  []string{},
			}, nil
		}
		if err := s.influencers.SaveTikTokID(ctx, handle, id); err != nil {
			s.logger.Warn("failed to persist tiktok id", "handle", handle, "error", err)
		}
	}

	drafts := s.provider.SponsoredVideos(ctx, accounts.TikTokUsername)
	if len(drafts) == 0 {
		return &domain.SyncReport{
			Success: true,
			Message: fmt.Sprintf("no sponsored videos found for %s", handle),
			Handle:  influencer.Handle,
			Errors:  []string{},
		}, nil
	}

	stats, err := s.videos.UpsertBatch(ctx, handle, accounts.TikTokUsername, drafts)
	if err != nil {
		return nil, fmt.Errorf("reconcile videos for %s: %w", handle, err)
	}

	errs := stats.Errors
	if errs == nil {
		errs = []string{}
	}
	return &domain.SyncReport{
		Success:         true,
		Message:         fmt.Sprintf("synced %d sponsored videos for %s", len(drafts), handle),
		Handle:          influencer.Handle,
		VideosProcessed: len(drafts),
		NewVideos:       stats.New,
		UpdatedVideos:   stats.Updated,
		Errors:          errs,
	}, nil
}

// ResolveTikTokID probes the provider for the influencer's numeric
// account id and persists it. Returns "" when the provider cannot
// resolve the username.
func (s *SyncService) ResolveTikTokID(ctx context.Context, handle string) (string, error) {
	accounts, err := s.influencers.SocialAccounts(ctx, handle)
	if err != nil {
		return "", err
	}
	if accounts.TikTokUsername == "" {
		return "", fmt.Errorf("influencer %s: %w", handle, domain.ErrMissingSocialID)
	}

	id := s.provider.AccountID(ctx, accounts.TikTokUsername)
	if id == "" {
		return "", nil
	}
	if err := s.influencers.SaveTikTokID(ctx, handle, id); err != nil {
		return "", err
	}
	return id, nil
}

// SyncAll runs SyncInfluencer for every active influencer, sequentially,
// pausing between accounts to stay under the provider's rate limits. A
// failure for one influencer is recorded and does not stop the run.
func (s *SyncService) SyncAll(ctx context.Context) ([]domain.SyncReport, error) {
	active, err := s.influencers.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]domain.SyncReport, 0, len(active))
	for i, influencer := range active {
		if i > 0 && s.cfg.Delay > 0 {
			select {
			case <-ctx.Done():
				return reports, ctx.Err()
			case <-time.After(s.cfg.Delay):
			}
		}

		report, err := s.SyncInfluencer(ctx, influencer.Handle)
		if err != nil {
			s.logger.Error("sync failed", "handle", influencer.Handle, "error", err)
			reports = append(reports, domain.SyncReport{
				Success: false,
				Message: err.Error(),
				Handle:  influencer.Handle,
				Errors:  []string{err.Error()},
			})
			continue
		}
		reports = append(reports, *report)
	}

	s.logger.Info("bulk sync finished", "influencers", len(active))
	return reports, nil
}
