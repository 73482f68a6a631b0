// Package transcriber turns a media URL into transcript text: download,
// size reduction when needed, speech-to-text submission.
package transcriber

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
	"github.com/eldorado-p2p/influencer-api/pkg/ffmpeg"
	"github.com/eldorado-p2p/influencer-api/pkg/whisper"
)

// Downloader fetches a media URL into a temporary file.
type Downloader interface {
	Fetch(ctx context.Context, mediaURL string) (path string, size int64, err error)
}

// Transcriber resolves a media URL to plain transcript text. Payloads over
// the size ceiling get audio-only extraction first, then a bitrate-reduced
// re-encode; if neither lands under the ceiling the call fails. Every temp
// file is removed on every exit path.
type Transcriber struct {
	downloader Downloader
	processor  *ffmpeg.Processor // nil when ffmpeg is unavailable
	stt        whisper.Client
	maxBytes   int64
	logger     *slog.Logger
}

// New creates a Transcriber. processor may be nil; oversized payloads then
// fail directly with ErrPayloadTooLarge.
func New(dl Downloader, processor *ffmpeg.Processor, stt whisper.Client, maxBytes int64, logger *slog.Logger) *Transcriber {
	if maxBytes <= 0 {
		maxBytes = whisper.MaxFileSize
	}
	return &Transcriber{
		downloader: dl,
		processor:  processor,
		stt:        stt,
		maxBytes:   maxBytes,
		logger:     logger,
	}
}

// TranscribeURL downloads the media and returns its transcript verbatim.
func (t *Transcriber) TranscribeURL(ctx context.Context, mediaURL string) (string, error) {
	path, size, err := t.downloader.Fetch(ctx, mediaURL)
	if err != nil {
		return "", err
	}

	cleanup := []string{path}
	defer func() {
		for _, p := range cleanup {
			os.Remove(p)
		}
	}()

	if size > t.maxBytes {
		reduced, extra, rerr := t.reduce(ctx, path, size)
		cleanup = append(cleanup, extra...)
		if rerr != nil {
			return "", rerr
		}
		path = reduced
	}

	resp, err := t.stt.TranscribeFile(ctx, path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTranscriptionFailed, err)
	}

	return resp.Text, nil
}

// reduce tries audio extraction, then bitrate re-encoding, accepting the
// first result under the ceiling. It returns every path it created so the
// caller can clean up regardless of outcome.
func (t *Transcriber) reduce(ctx context.Context, path string, size int64) (string, []string, error) {
	if t.processor == nil {
		return "", nil, fmt.Errorf("%w: %d bytes, no reducer available", domain.ErrPayloadTooLarge, size)
	}

	var created []string

	audioPath := strings.TrimSuffix(path, ".mp4") + ".mp3"
	if err := t.processor.ExtractAudio(ctx, path, audioPath, ffmpeg.ExtractAudioConfig{}); err == nil {
		created = append(created, audioPath)
		if st, err := os.Stat(audioPath); err == nil && st.Size() <= t.maxBytes {
			t.logger.Info("payload reduced via audio extraction", "from_bytes", size, "to_bytes", st.Size())
			return audioPath, created, nil
		}
	} else {
		t.logger.Warn("audio extraction failed", "error", err)
	}

	reencodedPath := strings.TrimSuffix(path, ".mp4") + "-reduced.mp4"
	if err := t.processor.ReencodeVideo(ctx, path, reencodedPath, ffmpeg.ReencodeConfig{}); err == nil {
		created = append(created, reencodedPath)
		if st, err := os.Stat(reencodedPath); err == nil && st.Size() <= t.maxBytes {
			t.logger.Info("payload reduced via re-encoding", "from_bytes", size, "to_bytes", st.Size())
			return reencodedPath, created, nil
		}
	} else {
		t.logger.Warn("re-encoding failed", "error", err)
	}

	return "", created, fmt.Errorf("%w: %d bytes after reduction attempts", domain.ErrPayloadTooLarge, size)
}
