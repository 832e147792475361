package websocket

// Room holds the subscribers of one movie. Only the hub goroutine mutates it;
// the lock lets other goroutines read its size.
import "sync"

type Room struct {
	MovieID string
	clients map[*Client]struct{}
	mu      sync.RWMutex
}

func NewRoom(movieID string) *Room {
	return &Room{
		MovieID: movieID,
		clients: make(map[*Client]struct{}),
	}
}

func (r *Room) Add(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c] = struct{}{}
}

// Remove reports whether c was present.
func (r *Room) Remove(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c]; !ok {
		return false
	}
	delete(r.clients, c)
	return true
}

func (r *Room) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Clients returns a snapshot of the room's members.
func (r *Room) Clients() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		clients = append(clients, c)
	}
	return clients
}
