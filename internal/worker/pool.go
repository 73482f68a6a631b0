// Package worker runs the background transcript backfill: synced videos
// that still lack a transcript are picked up and transcribed without
// waiting for an API request.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
)

// ErrShutdownTimeout is returned when workers don't stop within timeout.
var ErrShutdownTimeout = errors.New("worker pool shutdown timed out")

// VideoSource lists videos still waiting for a transcript.
type VideoSource interface {
	ListUntranscribed(ctx context.Context, limit int) ([]domain.SponsoredVideo, error)
}

// Transcriber resolves a video URL to a stored transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, rawURL string) (*domain.TranscriptionResult, error)
}

// Pool manages a pool of workers backfilling transcripts.
type Pool struct {
	workers      int
	pollInterval time.Duration
	batchSize    int
	maxAttempts  int
	videos       VideoSource
	transcriber  Transcriber
	logger       *slog.Logger

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	inFlight map[string]struct{}
	failures map[string]int
}

// Config holds worker pool configuration.
type Config struct {
	Workers      int
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

// NewPool creates a new worker pool.
func NewPool(cfg Config, videos VideoSource, transcriber Transcriber, logger *slog.Logger) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:      cfg.Workers,
		pollInterval: cfg.PollInterval,
		batchSize:    cfg.BatchSize,
		maxAttempts:  cfg.MaxAttempts,
		videos:       videos,
		transcriber:  transcriber,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
		inFlight:     make(map[string]struct{}),
		failures:     make(map[string]int),
	}
}

// Start launches all workers.
func (p *Pool) Start() {
	p.logger.Info("starting transcript backfill pool", "workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop(timeout time.Duration) error {
	p.logger.Info("stopping transcript backfill pool")
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("transcript backfill pool stopped gracefully")
		return nil
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	logger := p.logger.With("worker_id", id)
	logger.Info("worker started")

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			logger.Info("worker stopping")
			return
		case <-ticker.C:
			p.processNext(logger)
		}
	}
}

func (p *Pool) processNext(logger *slog.Logger) {
	video := p.claimNext()
	if video == nil {
		return
	}
	defer p.release(video.TikTokVideoID)

	logger = logger.With("video_id", video.TikTokVideoID, "handle", video.Handle)
	logger.Info("backfilling transcript")

	result, err := p.transcriber.Transcribe(p.ctx, video.PublicVideoURL)
	if err != nil {
		p.recordFailure(logger, video.TikTokVideoID, err)
		return
	}
	if !result.IsInfluencerVideo {
		// The row was deleted between listing and transcription.
		logger.Warn("video no longer tracked, skipping")
		return
	}

	logger.Info("transcript backfilled", "chars", len(result.Transcript))
}

// claimNext picks the oldest untranscribed video no other worker holds
// and that has not exhausted its attempts.
func (p *Pool) claimNext() *domain.SponsoredVideo {
	candidates, err := p.videos.ListUntranscribed(p.ctx, p.batchSize)
	if err != nil {
		p.logger.Error("failed to list untranscribed videos", "error", err)
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range candidates {
		v := &candidates[i]
		if v.PublicVideoURL == "" {
			continue
		}
		if _, busy := p.inFlight[v.TikTokVideoID]; busy {
			continue
		}
		if p.failures[v.TikTokVideoID] >= p.maxAttempts {
			continue
		}
		p.inFlight[v.TikTokVideoID] = struct{}{}
		return v
	}
	return nil
}

func (p *Pool) release(videoID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, videoID)
}

func (p *Pool) recordFailure(logger *slog.Logger, videoID string, err error) {
	p.mu.Lock()
	p.failures[videoID]++
	attempts := p.failures[videoID]
	p.mu.Unlock()

	if attempts >= p.maxAttempts {
		logger.Error("transcript backfill failed permanently", "error", err, "attempts", attempts)
		return
	}
	logger.Warn("transcript backfill failed, will retry",
		"error", err, "attempt", attempts, "max_attempts", p.maxAttempts)
}
