package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"docshare-sync/internal/relay"
)

// PresenceHandler exposes a read-only view of who is currently attached
// to a document. Nothing here touches persistent state.
type PresenceHandler struct {
	hub    *relay.Hub
	logger *zap.Logger
}

func NewPresenceHandler(hub *relay.Hub, logger *zap.Logger) *PresenceHandler {
	return &PresenceHandler{hub: hub, logger: logger}
}

type presenceResponse struct {
	DocID        string         `json:"docId"`
	Participants []relay.Member `json:"participants"`
}

// Get lists the current participants of a document's room. An unknown or
// empty room is not an error; it simply has no participants.
func (h *PresenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := validateDocID(docID); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	members := h.hub.Members("doc_" + docID)
	if members == nil {
		members = []relay.Member{}
	}
	respondJSON(w, h.logger, http.StatusOK, presenceResponse{
		DocID:        docID,
		Participants: members,
	})
}
