package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
	"github.com/eldorado-p2p/influencer-api/internal/service"
)

// AssistantHandler handles AI chat requests.
type AssistantHandler struct {
	assistantSvc *service.AssistantService
	logger       *slog.Logger
}

// NewAssistantHandler creates a new assistant handler.
func NewAssistantHandler(assistantSvc *service.AssistantService, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{assistantSvc: assistantSvc, logger: logger}
}

// ChatRequest is the JSON request body for a chat turn.
type ChatRequest struct {
	Message string `json:"message"`
}

// Chat handles POST /api/v1/assistant/chat
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	answer, err := h.assistantSvc.Answer(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrAssistantUnavailable) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": false,
				"message": "assistant is temporarily unavailable, try again shortly",
			})
			return
		}
		h.logger.Error("chat failed", "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"response": answer,
	})
}

// Suggestions handles GET /api/v1/assistant/suggestions
func (h *AssistantHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": h.assistantSvc.Suggestions(),
	})
}
