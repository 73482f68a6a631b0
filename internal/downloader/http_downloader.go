// Package downloader fetches media payloads from signed, expiring URLs.
package downloader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/eldorado-p2p/influencer-api/internal/config"
	"github.com/eldorado-p2p/influencer-api/internal/domain"
)

// MediaDownloader downloads video payloads into temporary files. CDN hosts
// reject default client signatures, so requests carry browser-like headers.
type MediaDownloader struct {
	client    *http.Client
	userAgent string
	tempDir   string
	logger    *slog.Logger
}

// NewMediaDownloader creates a downloader writing into cfg.TempPath.
func NewMediaDownloader(cfg config.TranscribeConfig, logger *slog.Logger) *MediaDownloader {
	return &MediaDownloader{
		client:    &http.Client{Timeout: cfg.DownloadTimeout},
		userAgent: cfg.UserAgent,
		tempDir:   cfg.TempPath,
		logger:    logger,
	}
}

// Fetch downloads the resource fully into a temporary file and returns its
// path and size. The caller owns the file and must remove it.
func (d *MediaDownloader) Fetch(ctx context.Context, mediaURL string) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("%w: create request: %v", domain.ErrDownloadFailed, err)
	}

	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "video/mp4,video/*,*/*;q=0.9")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return "", 0, fmt.Errorf("%w: status %d", domain.ErrURLExpired, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return "", 0, fmt.Errorf("%w: status %d", domain.ErrMediaNotFound, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", 0, fmt.Errorf("%w: status %d", domain.ErrRateLimited, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", 0, fmt.Errorf("%w: status %d", domain.ErrDownloadFailed, resp.StatusCode)
	}

	// Leave headroom for the audio extraction pass that may follow.
	if resp.ContentLength > 0 {
		if free := getFreeDiskSpace(d.tempDir); free > 0 && free < resp.ContentLength*2 {
			return "", 0, fmt.Errorf("%w: insufficient disk space in %s (%d bytes free, payload %d bytes)",
				domain.ErrDownloadFailed, d.tempDir, free, resp.ContentLength)
		}
	}

	tmp, err := os.CreateTemp(d.tempDir, "media-*.mp4")
	if err != nil {
		return "", 0, fmt.Errorf("%w: create temp file: %v", domain.ErrDownloadFailed, err)
	}

	size, err := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("%w: write payload: %v", domain.ErrDownloadFailed, err)
	}

	d.logger.Debug("media downloaded", "bytes", size, "path", tmp.Name())
	return tmp.Name(), size, nil
}
