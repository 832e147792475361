package websocket

// Hub owns every room. Connections talk to it through channels so rooms are
// only mutated by the Run goroutine.

import (
	"context"
	"net/http"
	"sync"

	"moviehub/internal/events"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the feed is public and read-only
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type roomMessage struct {
	movieID string
	data    []byte
}

type Hub struct {
	rooms      map[string]*Room
	mu         sync.RWMutex
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomMessage
	done       chan struct{}
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomMessage, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, room := range h.rooms {
				for _, c := range room.Clients() {
					room.Remove(c)
					close(c.send)
				}
				delete(h.rooms, id)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			room, ok := h.rooms[c.MovieID]
			if !ok {
				room = NewRoom(c.MovieID)
				h.rooms[c.MovieID] = room
			}
			room.Add(c)
			h.mu.Unlock()
			h.log.Debug("live client joined", zap.String("movie_id", c.MovieID), zap.Int("clients", room.Len()))

		case c := <-h.unregister:
			h.drop(c)

		case m := <-h.broadcast:
			h.mu.RLock()
			room := h.rooms[m.movieID]
			h.mu.RUnlock()
			if room == nil {
				continue
			}
			for _, c := range room.Clients() {
				select {
				case c.send <- m.data:
				default:
					// slow consumer
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.MovieID]
	if !ok || !room.Remove(c) {
		return
	}
	close(c.send)
	if room.Len() == 0 {
		delete(h.rooms, c.MovieID)
	}
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount returns the number of live subscribers of a movie.
func (h *Hub) ClientCount(movieID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if room, ok := h.rooms[movieID]; ok {
		return room.Len()
	}
	return 0
}

// Serve upgrades the request and subscribes the connection to movieID.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, movieID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := newClient(movieID, conn, h)
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return nil
	}

	go c.writePump()
	go c.readPump()
	return nil
}

// Publish implements events.Conn so the hub can sit next to NATS behind one
// events.Publisher. Unknown subjects and events are ignored and a full
// backlog drops the message.
func (h *Hub) Publish(subject string, data []byte) error {
	if subject != events.SubjectMovieRated && subject != events.SubjectReviewUpserted {
		return nil
	}

	msg, err := MessageFromEvent(data)
	if err != nil || msg == nil {
		return err
	}
	out, err := msg.ToJSON()
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- roomMessage{movieID: msg.MovieID, data: out}:
	case <-h.done:
	default:
		h.log.Warn("live feed backlog full, dropping message", zap.String("movie_id", msg.MovieID))
	}
	return nil
}
