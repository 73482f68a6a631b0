package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeDomainError maps domain sentinels to HTTP statuses. Unknown errors
// become opaque 500s so internals never leak to clients.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInfluencerNotFound),
		errors.Is(err, domain.ErrOwnerNotFound),
		errors.Is(err, domain.ErrVideoNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateHandle),
		errors.Is(err, domain.ErrDuplicateOwner):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnknownOwner),
		errors.Is(err, domain.ErrMissingSocialID),
		errors.Is(err, domain.ErrInvalidVideoURL):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
