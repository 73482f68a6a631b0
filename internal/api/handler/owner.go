package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
	"github.com/eldorado-p2p/influencer-api/internal/service"
)

// OwnerHandler handles recruitment team CRUD requests.
type OwnerHandler struct {
	ownerSvc *service.OwnerService
	logger   *slog.Logger
}

// NewOwnerHandler creates a new owner handler.
func NewOwnerHandler(ownerSvc *service.OwnerService, logger *slog.Logger) *OwnerHandler {
	return &OwnerHandler{ownerSvc: ownerSvc, logger: logger}
}

// CreateOwnerRequest is the JSON request body for owner creation.
type CreateOwnerRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
}

// List handles GET /api/v1/owners
func (h *OwnerHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"
	offset, limit := pagination(r, 100)

	owners, err := h.ownerSvc.List(r.Context(), activeOnly, offset, limit)
	if err != nil {
		h.logger.Error("list owners failed", "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"owners": owners,
		"total":  len(owners),
	})
}

// Create handles POST /api/v1/owners
func (h *OwnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	owner := &domain.Owner{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Email:       req.Email,
	}
	if err := h.ownerSvc.Create(r.Context(), owner); err != nil {
		h.logger.Error("create owner failed", "name", req.Name, "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, owner)
}

// Get handles GET /api/v1/owners/{name}
func (h *OwnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	owner, err := h.ownerSvc.Get(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, owner)
}

// Update handles PATCH /api/v1/owners/{name}
func (h *OwnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var changes map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	owner, err := h.ownerSvc.Update(r.Context(), name, changes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, owner)
}

// Delete handles DELETE /api/v1/owners/{name} - soft delete.
func (h *OwnerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.ownerSvc.Deactivate(r.Context(), name); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "owner " + name + " deactivated",
	})
}

// pagination reads offset/limit query params with a handler default.
func pagination(r *http.Request, defaultLimit int) (offset, limit int) {
	limit = defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return offset, limit
}
