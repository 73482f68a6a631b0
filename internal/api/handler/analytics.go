package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eldorado-p2p/influencer-api/internal/service"
)

// AnalyticsHandler handles aggregate reporting requests.
type AnalyticsHandler struct {
	analyticsSvc *service.AnalyticsService
	logger       *slog.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(analyticsSvc *service.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc, logger: logger}
}

// Dashboard handles GET /api/v1/analytics/dashboard
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analyticsSvc.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("dashboard stats failed", "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// TopVideos handles GET /api/v1/analytics/top-videos/{metric}
func (h *AnalyticsHandler) TopVideos(w http.ResponseWriter, r *http.Request) {
	metric := chi.URLParam(r, "metric")

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	videos, err := h.analyticsSvc.TopVideos(r.Context(), metric, limit)
	if err != nil {
		if !service.TopVideoMetrics[metric] {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("top videos failed", "metric", metric, "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"metric": metric,
		"videos": videos,
	})
}

// InfluencerStats handles GET /api/v1/analytics/influencer/{handle}
func (h *AnalyticsHandler) InfluencerStats(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	stats, err := h.analyticsSvc.InfluencerStats(r.Context(), handle)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// PeriodStats handles GET /api/v1/analytics/period?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *AnalyticsHandler) PeriodStats(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "end must be YYYY-MM-DD")
		return
	}
	// Include the whole end day.
	end = end.Add(24*time.Hour - time.Nanosecond)

	stats, err := h.analyticsSvc.PeriodStats(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// MonthlySummary handles GET /api/v1/analytics/monthly-summary?months=N
func (h *AnalyticsHandler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	months := 6
	if v := r.URL.Query().Get("months"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			months = n
		}
	}

	buckets, err := h.analyticsSvc.MonthlySummary(r.Context(), months)
	if err != nil {
		h.logger.Error("monthly summary failed", "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"months":  months,
		"summary": buckets,
	})
}
