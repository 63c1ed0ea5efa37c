package realtime

import (
	"log"
	"sync"
	"time"
)

// subscriberBuffer is the per-connection event queue depth. A viewer that
// falls further behind than this starts losing events; reconnecting clients
// reload the full board instead of replaying, so a drop is recoverable.
const subscriberBuffer = 32

// Event is one realtime notification scoped to a project room.
type Event struct {
	Name    string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Subscriber is one connected viewer of a project room.
type Subscriber struct {
	projectID string
	events    chan Event
}

// Events returns the subscriber's delivery channel.
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// Hub fans events out to every subscriber of a project room. Broadcasting is
// fire-and-forget: no subscribers is a no-op, and a subscriber with a full
// buffer has the event dropped rather than delaying the caller.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Subscriber]struct{}),
	}
}

// Subscribe joins the project room and returns the new subscriber. The
// caller must Unsubscribe when the connection ends.
func (h *Hub) Subscribe(projectID string) *Subscriber {
	sub := &Subscriber{
		projectID: projectID,
		events:    make(chan Event, subscriberBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[projectID]
	if !ok {
		room = make(map[*Subscriber]struct{})
		h.rooms[projectID] = room
	}
	room[sub] = struct{}{}
	return sub
}

// Unsubscribe leaves the room and closes the subscriber's channel. Empty
// rooms are removed.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[sub.projectID]
	if !ok {
		return
	}
	if _, ok := room[sub]; !ok {
		return
	}
	delete(room, sub)
	if len(room) == 0 {
		delete(h.rooms, sub.projectID)
	}
	close(sub.events)
}

// Broadcast delivers the event to every subscriber of the project room.
// It never blocks: subscribers whose buffer is full miss the event.
func (h *Hub) Broadcast(projectID, name string, payload interface{}) {
	ev := Event{Name: name, Payload: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.rooms[projectID] {
		select {
		case sub.events <- ev:
		default:
			log.Println("realtime: dropping", name, "for slow subscriber in project", projectID)
		}
	}
}

// RoomSize returns the number of connected viewers of a project.
func (h *Hub) RoomSize(projectID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[projectID])
}

// Envelope builds the standard event payload: a type tag, the acting user,
// an RFC3339 timestamp, and any event-specific fields.
func Envelope(eventType, userID, userName string, fields map[string]interface{}) map[string]interface{} {
	payload := map[string]interface{}{
		"type":      eventType,
		"userId":    userID,
		"userName":  userName,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	for k, v := range fields {
		payload[k] = v
	}
	return payload
}
