package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"camino_routes/internal/trail"
)

// Event types.
const (
	RouteCreated = "route.created"
	RouteUpdated = "route.updated"
)

const writeWait = 10 * time.Second

// Event is broadcast to websocket clients after a route write.
type Event struct {
	Type    string         `json:"type"`
	RouteID string         `json:"route_id"`
	Route   trail.Document `json:"route"`
	At      time.Time      `json:"at"`
}

// Publisher receives route write notifications.
type Publisher interface {
	Publish(Event)
}

// Hub fans route events out to websocket clients. Clients subscribe to one
// route_id or, with an empty id, to every route.
type Hub struct {
	clients   map[string]map[*websocket.Conn]bool
	broadcast chan Event
	done      chan struct{}
	mu        sync.Mutex
	closeOnce sync.Once
}

// NewHub creates a hub and starts its broadcast goroutine.
func NewHub() *Hub {
	hub := &Hub{
		clients:   make(map[string]map[*websocket.Conn]bool),
		broadcast: make(chan Event, 100),
		done:      make(chan struct{}),
	}
	go hub.run()
	return hub
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			return
		case ev := <-h.broadcast:
			h.send(ev)
		}
	}
}

func (h *Hub) send(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, key := range []string{"", ev.RouteID} {
		for conn := range h.clients[key] {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"route_id": ev.RouteID,
					"conn_ptr": fmt.Sprintf("%p", conn),
				}).Warn("Failed to send route event, dropping client.")
				h.remove(key, conn)
				conn.Close()
			}
		}
		if ev.RouteID == "" {
			break
		}
	}
}

// Register subscribes conn to events for routeID, or all events when
// routeID is empty.
func (h *Hub) Register(routeID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[routeID]; !ok {
		h.clients[routeID] = make(map[*websocket.Conn]bool)
	}
	h.clients[routeID][conn] = true
	logrus.WithFields(logrus.Fields{
		"route_id": routeID,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("Client registered with route hub.")
}

func (h *Hub) Unregister(routeID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(routeID, conn)
}

func (h *Hub) remove(routeID string, conn *websocket.Conn) {
	clients, ok := h.clients[routeID]
	if !ok {
		return
	}
	delete(clients, conn)
	if len(clients) == 0 {
		delete(h.clients, routeID)
	}
}

// Clients returns the number of registered connections.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, c := range h.clients {
		n += len(c)
	}
	return n
}

// Publish queues ev for broadcast. Events are dropped when the queue is
// full.
func (h *Hub) Publish(ev Event) {
	select {
	case h.broadcast <- ev:
	default:
		logrus.WithField("route_id", ev.RouteID).Warn("Route event channel full, dropping message.")
	}
}

// Close stops the broadcast goroutine.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// NewEvent builds an event carrying the canonical wire form of route.
func NewEvent(kind string, route trail.Route) Event {
	ev := Event{Type: kind, RouteID: route.RouteID, At: time.Now().UTC()}
	doc, err := trail.ExternalDocument(route, trail.Canonical)
	if err != nil {
		logrus.WithError(err).WithField("route_id", route.RouteID).Warn("Publishing route event without body.")
		return ev
	}
	ev.Route = doc
	return ev
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(Event) {}
