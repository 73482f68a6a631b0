package domain

import (
	"errors"
	"strings"
)

// Domain errors.
var (
	// ErrInfluencerNotFound is returned when an influencer cannot be found.
	ErrInfluencerNotFound = errors.New("influencer not found")

	// ErrOwnerNotFound is returned when an owner cannot be found.
	ErrOwnerNotFound = errors.New("owner not found")

	// ErrVideoNotFound is returned when a sponsored video cannot be found.
	ErrVideoNotFound = errors.New("video not found")

	// ErrDuplicateHandle is returned when registering a handle that already exists.
	ErrDuplicateHandle = errors.New("handle already exists")

	// ErrDuplicateOwner is returned when an owner with the same name already exists.
	ErrDuplicateOwner = errors.New("owner with this name already exists")

	// ErrUnknownOwner is returned when an influencer references an owner
	// that does not exist or is deactivated.
	ErrUnknownOwner = errors.New("owner is not registered or inactive")

	// ErrMissingSocialID is returned when a sync is requested for an
	// influencer without a TikTok username or resolved numeric id.
	ErrMissingSocialID = errors.New("missing TikTok username or id")

	// ErrInvalidVideoURL is returned when a URL does not belong to TikTok.
	ErrInvalidVideoURL = errors.New("invalid TikTok URL")

	// ErrNoPlaybackURL is returned when a video has no usable media URL
	// even after a refresh sync.
	ErrNoPlaybackURL = errors.New("no watermark-free URL available")

	// ErrDownloadFailed is returned when the media download fails.
	ErrDownloadFailed = errors.New("media download failed")

	// ErrURLExpired is returned when the media URL rejects the request.
	ErrURLExpired = errors.New("media URL has expired")

	// ErrMediaNotFound is returned when the media URL yields a 404.
	ErrMediaNotFound = errors.New("media not found at URL")

	// ErrRateLimited is returned when throttled by an external service.
	ErrRateLimited = errors.New("rate limited")

	// ErrPayloadTooLarge is returned when the media cannot be reduced
	// under the transcription size ceiling.
	ErrPayloadTooLarge = errors.New("media exceeds transcription size limit")

	// ErrTranscriptionFailed is returned when the speech-to-text API
	// rejects or errors on a submitted payload.
	ErrTranscriptionFailed = errors.New("transcription service error")

	// ErrAssistantUnavailable is returned when the chat-completion API fails.
	ErrAssistantUnavailable = errors.New("assistant unavailable")
)

// URLAttempt records one failed playback URL during a transcription cascade.
type URLAttempt struct {
	Label string
	URL   string
	Err   error
}

// CascadeError reports that every candidate playback URL failed, keeping
// the per-URL reasons for the caller to surface.
type CascadeError struct {
	Attempts []URLAttempt
}

func (e *CascadeError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Label+": "+a.Err.Error())
	}
	return "all playback URLs failed: " + strings.Join(parts, "; ")
}

// Reasons returns the per-URL failure messages in attempt order.
func (e *CascadeError) Reasons() []string {
	out := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		out = append(out, a.Label+": "+a.Err.Error())
	}
	return out
}
