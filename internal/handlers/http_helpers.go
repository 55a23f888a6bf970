package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// errorResponse is the JSON body of an error reply.
type errorResponse struct {
	Message string `json:"message"`
}

// respondJSON writes a JSON response. A nil payload writes the status
// line only.
func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// respondError writes an error reply.
func respondError(w http.ResponseWriter, logger *zap.Logger, status int, msg string) {
	respondJSON(w, logger, status, errorResponse{Message: msg})
}
