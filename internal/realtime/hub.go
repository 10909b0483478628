package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/mushxhid/Accounting-sub000/internal/logger"
)

// Message is what subscribed clients receive: the full, newly-sorted
// snapshot of one collection. Clients replace state wholesale and never
// merge deltas.
type Message struct {
	Collection string      `json:"collection"`
	Records    interface{} `json:"records"`
	SentAt     time.Time   `json:"sent_at"`
}

type envelope struct {
	orgID string
	data  []byte
}

// Hub fans collection snapshots out to every connected admin of an org.
type Hub struct {
	mu         sync.Mutex
	rooms      map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			room := h.rooms[client.orgID]
			if room == nil {
				room = make(map[*Client]struct{})
				h.rooms[client.orgID] = room
			}
			room[client] = struct{}{}
			h.mu.Unlock()
			logger.Log.WithField("org_id", client.orgID).Debug("sync client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.orgID]; ok {
				if _, ok := room[client]; ok {
					delete(room, client)
					close(client.send)
					if len(room) == 0 {
						delete(h.rooms, client.orgID)
					}
				}
			}
			h.mu.Unlock()
			logger.Log.WithField("org_id", client.orgID).Debug("sync client unregistered")

		case env := <-h.broadcast:
			h.mu.Lock()
			for client := range h.rooms[env.orgID] {
				select {
				case client.send <- env.data:
				default:
					// Slow consumer: drop it rather than stall the room.
					delete(h.rooms[env.orgID], client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish sends a collection snapshot to every client of the org.
func (h *Hub) Publish(orgID, collection string, records interface{}) {
	data, err := json.Marshal(Message{
		Collection: collection,
		Records:    records,
		SentAt:     time.Now().UTC(),
	})
	if err != nil {
		logger.Log.WithError(err).Error("failed to marshal sync snapshot")
		return
	}

	select {
	case h.broadcast <- envelope{orgID: orgID, data: data}:
	default:
		logger.Log.WithField("org_id", orgID).Warn("sync broadcast queue full, snapshot dropped")
	}
}
