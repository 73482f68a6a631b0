package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
	"github.com/eldorado-p2p/influencer-api/internal/service"
)

// VideoHandler handles sponsored video, sync and transcription requests.
type VideoHandler struct {
	syncSvc       *service.SyncService
	transcribeSvc *service.TranscriptionService
	videos        service.VideoLister
	logger        *slog.Logger
}

// NewVideoHandler creates a new video handler.
func NewVideoHandler(syncSvc *service.SyncService, transcribeSvc *service.TranscriptionService, videos service.VideoLister, logger *slog.Logger) *VideoHandler {
	return &VideoHandler{
		syncSvc:       syncSvc,
		transcribeSvc: transcribeSvc,
		videos:        videos,
		logger:        logger,
	}
}

// VideoResponse augments the stored row with its computed engagement.
type VideoResponse struct {
	domain.SponsoredVideo
	EngagementRate float64 `json:"engagement_rate"`
}

// TranscribeRequest is the JSON request body for transcription.
type TranscribeRequest struct {
	VideoURL string `json:"video_url"`
}

// List handles GET /api/v1/videos
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	handle := r.URL.Query().Get("handle")
	offset, limit := pagination(r, 50)

	videos, err := h.videos.List(r.Context(), handle, offset, limit)
	if err != nil {
		h.logger.Error("list videos failed", "error", err)
		writeDomainError(w, err)
		return
	}

	out := make([]VideoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, VideoResponse{SponsoredVideo: v, EngagementRate: v.EngagementRate()})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"videos": out,
		"total":  len(out),
		"offset": offset,
		"limit":  limit,
	})
}

// Get handles GET /api/v1/videos/{videoID}
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")
	video, err := h.videos.GetByTikTokID(r.Context(), videoID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VideoResponse{SponsoredVideo: *video, EngagementRate: video.EngagementRate()})
}

// Sync handles POST /api/v1/videos/sync/{handle}
func (h *VideoHandler) Sync(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	report, err := h.syncSvc.SyncInfluencer(r.Context(), handle)
	if err != nil {
		if errors.Is(err, domain.ErrInfluencerNotFound) || errors.Is(err, domain.ErrMissingSocialID) {
			writeDomainError(w, err)
			return
		}
		h.logger.Error("sync failed", "handle", handle, "error", err)
		writeJSON(w, http.StatusOK, domain.SyncReport{
			Success: false,
			Message: "sync failed for " + handle,
			Handle:  handle,
			Errors:  []string{err.Error()},
		})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// SyncAll handles POST /api/v1/videos/sync/all
func (h *VideoHandler) SyncAll(w http.ResponseWriter, r *http.Request) {
	reports, err := h.syncSvc.SyncAll(r.Context())
	if err != nil {
		h.logger.Error("bulk sync failed", "error", err)
		writeDomainError(w, err)
		return
	}

	succeeded := 0
	for _, report := range reports {
		if report.Success {
			succeeded++
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"total":     len(reports),
		"succeeded": succeeded,
		"failed":    len(reports) - succeeded,
		"reports":   reports,
	})
}

// Transcribe handles POST /api/v1/videos/transcribe
func (h *VideoHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	var req TranscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.VideoURL == "" {
		writeError(w, http.StatusBadRequest, "video_url is required")
		return
	}

	result, err := h.transcribeSvc.Transcribe(r.Context(), req.VideoURL)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidVideoURL) {
			writeDomainError(w, err)
			return
		}
		var cascade *domain.CascadeError
		if errors.As(err, &cascade) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": false,
				"message": "transcription failed for every playback URL",
				"reasons": cascade.Reasons(),
			})
			return
		}
		h.logger.Error("transcription failed", "url", req.VideoURL, "error", err)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": "transcription failed",
		})
		return
	}
	writeJSON(w, http.StatusOK, result)
}
