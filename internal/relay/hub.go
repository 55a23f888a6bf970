// Package relay implements the live fan-out core: rooms keyed by document
// id, each holding the set of connections that receive every event
// broadcast into the room, in the order the room accepted them.
package relay

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub owns every active room in the process. When a Bus is configured,
// broadcasts also fan out to the same room in other processes.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	bus       Bus
	queueSize int
	logger    *zap.Logger
}

// Room groups the connections attached to one document. The room mutex is
// the serialization point: everything delivered to members is enqueued
// under it, so all members observe broadcasts in the same order.
type Room struct {
	id      string
	mu      sync.Mutex
	members map[string]*Client // keyed by connection id

	unsubscribe func() // bus teardown, nil without a bus
}

// NewHub creates a Hub. bus may be nil for single-process operation.
func NewHub(bus Bus, queueSize int, logger *zap.Logger) *Hub {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Hub{
		rooms:     make(map[string]*Room),
		bus:       bus,
		queueSize: queueSize,
		logger:    logger,
	}
}

// Register adds a connection to a room, creating the room on first join,
// and starts the connection's writer goroutine. The returned Client is
// ready to receive broadcasts.
func (h *Hub) Register(roomID, connID, username, color string, conn *websocket.Conn) *Client {
	h.mu.Lock()
	room, ok := h.rooms[roomID]
	if !ok {
		room = &Room{id: roomID, members: make(map[string]*Client)}
		h.rooms[roomID] = room
		if h.bus != nil {
			unsub, err := h.bus.Subscribe(roomID, room.deliverRemote)
			if err != nil {
				h.logger.Error("bus subscribe failed, room is process-local",
					zap.String("room", roomID), zap.Error(err))
			} else {
				room.unsubscribe = unsub
			}
		}
	}

	client := &Client{
		ConnID:   connID,
		Username: username,
		Color:    color,
		room:     room,
		conn:     conn,
		send:     make(chan []byte, h.queueSize),
		logger:   h.logger,
	}

	// The member is inserted while the hub lock is still held: collect
	// takes the hub lock before discarding an empty room, so the room
	// cannot disappear between the lookup above and this insertion.
	room.mu.Lock()
	room.members[connID] = client
	room.mu.Unlock()
	h.mu.Unlock()

	go client.writePump()

	h.logger.Info("client joined room",
		zap.String("room", roomID),
		zap.String("connId", connID),
		zap.String("username", username))
	return client
}

// Unregister removes a connection from its room and closes its outbound
// queue. The room is garbage-collected once its last member leaves.
func (h *Hub) Unregister(client *Client) {
	room := client.room

	room.mu.Lock()
	delete(room.members, client.ConnID)
	if !client.closed {
		client.closed = true
		close(client.send)
	}
	empty := len(room.members) == 0
	room.mu.Unlock()

	if empty {
		h.collect(room)
	}

	h.logger.Info("client left room",
		zap.String("room", room.id),
		zap.String("connId", client.ConnID),
		zap.String("username", client.Username))
}

// collect discards a room that went empty, unless a new member joined it
// in the meantime.
func (h *Hub) collect(room *Room) {
	h.mu.Lock()
	room.mu.Lock()
	stillEmpty := len(room.members) == 0
	if stillEmpty && h.rooms[room.id] == room {
		delete(h.rooms, room.id)
	}
	room.mu.Unlock()
	h.mu.Unlock()

	if stillEmpty && room.unsubscribe != nil {
		room.unsubscribe()
	}
}

// Broadcast delivers an event to every current member of the room, in the
// order broadcasts reach the room. exclude skips one member when non-nil.
// Delivery is best-effort: members mid-disconnect or with a full queue
// simply miss the frame. Events never cross rooms.
func (h *Hub) Broadcast(roomID string, ev Event, exclude *Client) {
	frame, err := Encode(ev)
	if err != nil {
		h.logger.Error("failed to encode event", zap.Error(err))
		return
	}

	// Publish before the local lookup: the room may already be collected
	// here (last local member just left) while other processes still host
	// members who need the frame.
	if h.bus != nil {
		if err := h.bus.Publish(roomID, frame); err != nil {
			h.logger.Warn("bus publish failed, delivering locally only",
				zap.String("room", roomID), zap.Error(err))
		}
	}

	h.mu.RLock()
	room, ok := h.rooms[roomID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	room.deliver(frame, exclude)
}

// Members returns a snapshot of the room's participants, in no particular
// order. A missing room yields an empty slice.
func (h *Hub) Members(roomID string) []Member {
	h.mu.RLock()
	room, ok := h.rooms[roomID]
	h.mu.RUnlock()
	if !ok {
		return nil
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	out := make([]Member, 0, len(room.members))
	for _, c := range room.members {
		out = append(out, Member{Username: c.Username, Color: c.Color})
	}
	return out
}

// Member is the externally visible slice of a participant.
type Member struct {
	Username string `json:"username"`
	Color    string `json:"color"`
}

func (r *Room) deliver(frame []byte, exclude *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.members {
		if c == exclude {
			continue
		}
		c.enqueue(frame)
	}
}

// deliverRemote feeds frames published by other processes to the local
// members. The bus already filtered out this process's own frames.
func (r *Room) deliverRemote(frame []byte) {
	r.deliver(frame, nil)
}
