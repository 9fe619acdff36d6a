package auth

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

type Handler struct {
	service     *Service
	defaultSlot string
}

// NewHandler serves session requests; a request without a slot gets
// defaultSlot.
func NewHandler(service *Service, defaultSlot string) *Handler {
	return &Handler{service: service, defaultSlot: defaultSlot}
}

type sessionRequest struct {
	Slot string `json:"slot"`
}

// CreateSession issues a token for the requested slot.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Slot == "" {
		req.Slot = h.defaultSlot
	}

	result, err := h.service.Issue(req.Slot)
	if err != nil {
		if errors.Is(err, ErrInvalidSlot) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "slot must be 1-64 letters, digits, '-' or '_'"})
			return
		}
		slog.Error("issue session failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
