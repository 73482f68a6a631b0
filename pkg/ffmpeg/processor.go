// Package ffmpeg shells out to ffmpeg for payload size reduction.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// Processor runs ffmpeg for audio extraction and video re-encoding.
type Processor struct {
	ffmpegPath string
}

// NewProcessor locates ffmpeg in PATH.
func NewProcessor() (*Processor, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	return &Processor{ffmpegPath: ffmpegPath}, nil
}

// ExtractAudioConfig configures audio extraction.
type ExtractAudioConfig struct {
	SampleRate int    // Sample rate in Hz (default: 16000 for speech)
	Channels   int    // Number of channels, 1=mono (default: 1)
	Bitrate    string // Audio bitrate (default: "64k")
}

// ExtractAudio strips the video track, writing a compact mp3 suitable for
// speech-to-text. Fails when the input has no audio stream.
func (p *Processor) ExtractAudio(ctx context.Context, videoPath, outputPath string, cfg ExtractAudioConfig) error {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.Bitrate == "" {
		cfg.Bitrate = "64k"
	}

	cmd := exec.CommandContext(ctx, p.ffmpegPath,
		"-i", videoPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-ar", strconv.Itoa(cfg.SampleRate),
		"-ac", strconv.Itoa(cfg.Channels),
		"-b:a", cfg.Bitrate,
		"-y",
		outputPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("extract audio: %w: %s", err, tail(out))
	}
	return nil
}

// ReencodeConfig configures bitrate-reduced re-encoding.
type ReencodeConfig struct {
	VideoBitrate string // default "500k"
	AudioBitrate string // default "64k"
}

// ReencodeVideo re-encodes the video at a reduced bitrate.
func (p *Processor) ReencodeVideo(ctx context.Context, videoPath, outputPath string, cfg ReencodeConfig) error {
	if cfg.VideoBitrate == "" {
		cfg.VideoBitrate = "500k"
	}
	if cfg.AudioBitrate == "" {
		cfg.AudioBitrate = "64k"
	}

	cmd := exec.CommandContext(ctx, p.ffmpegPath,
		"-i", videoPath,
		"-c:v", "libx264",
		"-preset", "fast",
		"-b:v", cfg.VideoBitrate,
		"-b:a", cfg.AudioBitrate,
		"-y",
		outputPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("reencode video: %w: %s", err, tail(out))
	}
	return nil
}

// tail keeps the last part of ffmpeg's output, where the actual error is.
func tail(out []byte) string {
	const max = 300
	if len(out) <= max {
		return string(out)
	}
	return "..." + string(out[len(out)-max:])
}
