package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
	"github.com/eldorado-p2p/influencer-api/internal/service"
)

// InfluencerHandler handles influencer CRUD and account requests.
type InfluencerHandler struct {
	influencerSvc *service.InfluencerService
	syncSvc       *service.SyncService
	logger        *slog.Logger
}

// NewInfluencerHandler creates a new influencer handler.
func NewInfluencerHandler(influencerSvc *service.InfluencerService, syncSvc *service.SyncService, logger *slog.Logger) *InfluencerHandler {
	return &InfluencerHandler{
		influencerSvc: influencerSvc,
		syncSvc:       syncSvc,
		logger:        logger,
	}
}

// CreateInfluencerRequest is the JSON request body for registration.
type CreateInfluencerRequest struct {
	FirstName      string `json:"first_name"`
	Handle         string `json:"handle"`
	Phone          string `json:"phone,omitempty"`
	Country        string `json:"country,omitempty"`
	OwnerName      string `json:"owner_name"`
	TikTokUsername string `json:"tiktok_username"`
}

// List handles GET /api/v1/influencers
func (h *InfluencerHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r, 100)

	influencers, err := h.influencerSvc.List(r.Context(), offset, limit)
	if err != nil {
		h.logger.Error("list influencers failed", "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"influencers": influencers,
		"total":       len(influencers),
		"offset":      offset,
		"limit":       limit,
	})
}

// Create handles POST /api/v1/influencers
func (h *InfluencerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInfluencerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Handle == "" || req.OwnerName == "" {
		writeError(w, http.StatusBadRequest, "handle and owner_name are required")
		return
	}

	influencer := &domain.Influencer{
		FirstName: req.FirstName,
		Handle:    req.Handle,
		Phone:     req.Phone,
		Country:   req.Country,
		OwnerName: req.OwnerName,
	}
	if err := h.influencerSvc.Create(r.Context(), influencer, req.TikTokUsername); err != nil {
		h.logger.Error("create influencer failed", "handle", req.Handle, "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, influencer)
}

// Get handles GET /api/v1/influencers/{handle}
func (h *InfluencerHandler) Get(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	influencer, err := h.influencerSvc.Get(r.Context(), handle)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, influencer)
}

// Update handles PATCH /api/v1/influencers/{handle}
func (h *InfluencerHandler) Update(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	var changes map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	influencer, err := h.influencerSvc.Update(r.Context(), handle, changes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, influencer)
}

// Delete handles DELETE /api/v1/influencers/{handle}
func (h *InfluencerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	if err := h.influencerSvc.Delete(r.Context(), handle); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "influencer " + handle + " and associated data deleted",
	})
}

// SocialAccounts handles GET /api/v1/influencers/{handle}/social-accounts
func (h *InfluencerHandler) SocialAccounts(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	accounts, err := h.influencerSvc.SocialAccounts(r.Context(), handle)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

// ResolveTikTokID handles POST /api/v1/influencers/{handle}/resolve-tiktok-id
func (h *InfluencerHandler) ResolveTikTokID(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	id, err := h.syncSvc.ResolveTikTokID(r.Context(), handle)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if id == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": "tiktok account id could not be resolved",
			"handle":  handle,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"handle":    handle,
		"tiktok_id": id,
	})
}
