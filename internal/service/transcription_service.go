package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
	"github.com/eldorado-p2p/influencer-api/internal/repository"
	"github.com/eldorado-p2p/influencer-api/pkg/tiktok"
)

// VideoLister is the read-side slice of the video repository the HTTP
// layer needs.
type VideoLister interface {
	List(ctx context.Context, handle string, offset, limit int) ([]domain.SponsoredVideo, error)
	GetByTikTokID(ctx context.Context, tiktokVideoID string) (*domain.SponsoredVideo, error)
}

// MediaTranscriber turns a playable media URL into text.
type MediaTranscriber interface {
	TranscribeURL(ctx context.Context, mediaURL string) (string, error)
}

// URLResolver expands short TikTok links and extracts video ids.
type URLResolver interface {
	ExpandURL(ctx context.Context, raw string) string
	ExtractVideoID(ctx context.Context, raw string) string
}

// TranscriptionService resolves an arbitrary TikTok URL to a tracked
// sponsored video and produces (or recalls) its transcript.
type TranscriptionService struct {
	resolver    URLResolver
	transcriber MediaTranscriber
	sync        *SyncService
	videos      repository.VideoRepository
	logger      *slog.Logger
}

// NewTranscriptionService creates a new transcription service.
func NewTranscriptionService(
	resolver URLResolver,
	transcriber MediaTranscriber,
	sync *SyncService,
	videos repository.VideoRepository,
	logger *slog.Logger,
) *TranscriptionService {
	return &TranscriptionService{
		resolver:    resolver,
		transcriber: transcriber,
		sync:        sync,
		videos:      videos,
		logger:      logger,
	}
}

// Transcribe resolves the URL to a stored video, refreshes that
// influencer's sync data, and returns a cached or freshly produced
// transcript. A URL that does not belong to any tracked influencer is a
// successful outcome with is_influencer_video=false, not an error.
func (s *TranscriptionService) Transcribe(ctx context.Context, rawURL string) (*domain.TranscriptionResult, error) {
	if !tiktok.IsTikTokURL(rawURL) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidVideoURL, rawURL)
	}

	videoID := s.resolver.ExtractVideoID(ctx, rawURL)
	shortID := tiktok.ShortID(rawURL)

	video, err := s.videos.Locate(ctx, videoID, shortID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return &domain.TranscriptionResult{
			Success:           true,
			Message:           "video does not belong to a tracked influencer",
			VideoFound:        false,
			IsInfluencerVideo: false,
		}, nil
	}

	// Re-sync so the playback URLs are fresh; stale counters are fine,
	// expired download links are not. A failed refresh is logged and the
	// stored URLs are used as-is.
	if _, err := s.sync.SyncInfluencer(ctx, video.Handle); err != nil {
		s.logger.Warn("pre-transcription sync failed, using stored urls",
			"handle", video.Handle, "error", err)
	} else if refreshed, err := s.videos.GetByTikTokID(ctx, video.TikTokVideoID); err == nil {
		video = refreshed
	}

	if video.Transcript != "" {
		return &domain.TranscriptionResult{
			Success:           true,
			Message:           "transcript already available",
			VideoFound:        true,
			IsInfluencerVideo: true,
			Handle:            video.Handle,
			Transcript:        video.Transcript,
			Video:             video,
		}, nil
	}

	candidates := video.PlaybackURLs()
	if len(candidates) == 0 {
		return nil, fmt.Errorf("video %s: %w", video.TikTokVideoID, domain.ErrNoPlaybackURL)
	}

	var attempts []domain.URLAttempt
	var transcript string
	transcribed := false
	for _, candidate := range candidates {
		text, err := s.transcriber.TranscribeURL(ctx, candidate.URL)
		if err != nil {
			s.logger.Warn("playback url failed",
				"video_id", video.TikTokVideoID,
				"label", candidate.Label,
				"error", err)
			attempts = append(attempts, domain.URLAttempt{
				Label: candidate.Label,
				URL:   candidate.URL,
				Err:   err,
			})
			continue
		}
		transcript = text
		transcribed = true
		break
	}
	if !transcribed {
		return nil, &domain.CascadeError{Attempts: attempts}
	}

	if err := s.videos.SaveTranscript(ctx, video.TikTokVideoID, transcript); err != nil {
		s.logger.Error("failed to persist transcript",
			"video_id", video.TikTokVideoID, "error", err)
	}
	video.Transcript = transcript

	return &domain.TranscriptionResult{
		Success:           true,
		Message:           "transcription completed",
		VideoFound:        true,
		IsInfluencerVideo: true,
		Handle:            video.Handle,
		Transcript:        transcript,
		Video:             video,
	}, nil
}
