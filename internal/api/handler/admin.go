package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/eldorado-p2p/influencer-api/internal/service"
)

// VideoWiper deletes every sponsored video row.
type VideoWiper interface {
	DeleteAll(ctx context.Context) (int64, error)
}

// AdminHandler handles maintenance and export endpoints.
type AdminHandler struct {
	influencerSvc *service.InfluencerService
	exportSvc     *service.ExportService
	videos        VideoWiper
	logger        *slog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(influencerSvc *service.InfluencerService, exportSvc *service.ExportService, videos VideoWiper, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		influencerSvc: influencerSvc,
		exportSvc:     exportSvc,
		videos:        videos,
		logger:        logger,
	}
}

// DeleteAllVideos handles DELETE /api/v1/admin/videos
func (h *AdminHandler) DeleteAllVideos(w http.ResponseWriter, r *http.Request) {
	removed, err := h.videos.DeleteAll(r.Context())
	if err != nil {
		h.logger.Error("delete all videos failed", "error", err)
		writeDomainError(w, err)
		return
	}
	h.logger.Warn("all sponsored videos deleted", "count", removed)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"deleted": removed,
	})
}

// Export handles GET /api/v1/admin/export
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("campaign-export-%s.zip", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	// Headers are already on the wire; a mid-stream failure can only be
	// logged and the connection cut short.
	if _, err := h.exportSvc.Export(r.Context(), w); err != nil {
		h.logger.Error("export failed", "error", err)
	}
}

// PurgeInvalidOwners handles DELETE /api/v1/admin/influencers/invalid-owner
func (h *AdminHandler) PurgeInvalidOwners(w http.ResponseWriter, r *http.Request) {
	removed, err := h.influencerSvc.PurgeUnknownOwners(r.Context())
	if err != nil {
		h.logger.Error("purge invalid owners failed", "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"deleted": removed,
	})
}
