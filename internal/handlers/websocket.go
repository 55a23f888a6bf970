package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"docshare-sync/internal/auth"
	"docshare-sync/internal/presence"
	"docshare-sync/internal/relay"
)

// invalidFrameMessage is the error reported to a client whose frame could
// not be parsed. The exact text is part of the wire contract.
const invalidFrameMessage = "Invalid WebSocket message format."

// WebSocketHandler runs one collaboration session per connection:
// authenticate, join the document's room, relay frames, clean up on
// disconnect.
type WebSocketHandler struct {
	hub      *relay.Hub
	presence *presence.Registry
	auth     *auth.Validator
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler creates a WebSocketHandler.
func NewWebSocketHandler(hub *relay.Hub, reg *presence.Registry, v *auth.Validator, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:      hub,
		presence: reg,
		auth:     v,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Browser clients cannot set headers on the upgrade;
				// origin policy is handled by the CORS layer.
				return true
			},
		},
		logger: logger,
	}
}

// HandleWebSocket serves one session end to end:
//  1. resolve the document id and the optional bearer token
//  2. compute the display identity (authenticated username or guest label)
//  3. upgrade, join the room, announce the join to every member
//  4. relay inbound frames until the connection closes
//  5. announce the leave and release the presence entry, on every exit path
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := validateDocID(docID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	roomID := "doc_" + docID

	// A bad or unknown token degrades to guest, never rejects the
	// connection.
	identity := h.auth.Validate(r.Context(), r.URL.Query().Get("token"))

	connID := uuid.NewString()
	username := identity.Username
	if !identity.Authenticated {
		username = guestName(connID)
	}
	color := h.presence.ColorFor(username)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		h.presence.Release(username)
		return
	}

	client := h.hub.Register(roomID, connID, username, color, conn)
	defer func() {
		// All three must run on every exit path, abrupt disconnects
		// included: leave the room, tell the remaining members, free the
		// color.
		h.hub.Unregister(client)
		h.hub.Broadcast(roomID, relay.LeaveEvent{Username: username}, nil)
		h.presence.Release(username)
		conn.Close()
	}()

	// The joining member is included in its own join announcement.
	h.hub.Broadcast(roomID, relay.JoinEvent{Username: username, Color: color}, nil)

	h.readLoop(client, roomID, conn)
}

// readLoop relays inbound frames until the connection closes. A malformed
// frame is reported to its sender only and never ends the session.
func (h *WebSocketHandler) readLoop(client *relay.Client, roomID string, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Debug("websocket read error",
					zap.String("connId", client.ConnID), zap.Error(err))
			}
			return
		}

		in, err := relay.ParseInbound(data)
		if err != nil {
			client.Send(relay.ErrorEvent{Message: invalidFrameMessage})
			continue
		}

		// Echo back to the sender as well; the client treats its own
		// frames like anyone else's.
		h.hub.Broadcast(roomID, relay.MessageEvent{
			Username: client.Username,
			Color:    client.Color,
			Message:  in.Message,
			Cursor:   in.Cursor,
		}, nil)
	}
}

// guestName derives a display label for an unauthenticated participant
// from the tail of its connection id. Good enough for casual display, not
// unique.
func guestName(connID string) string {
	suffix := connID
	if len(suffix) > 5 {
		suffix = suffix[len(suffix)-5:]
	}
	return "Guest_" + suffix
}
