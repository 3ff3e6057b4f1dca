package signaling

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var errNotAttached = errors.New("connection has no transport attached")

// transportWriter is the only piece of the websocket session the core
// ever touches. *melody.Session satisfies it; tests use fakes.
type transportWriter interface {
	Write([]byte) error
}

// Conn is the server-side reference to one websocket connection: the
// connection id, the user id resolved at handshake (immutable after),
// and the explicit set of rooms the connection has joined. The transport
// object itself stays owned by melody.
type Conn struct {
	ID     string
	UserID string

	mu        sync.Mutex
	transport transportWriter
	rooms     map[string]struct{}
}

func NewConn(userID string) *Conn {
	return &Conn{
		ID:     uuid.New().String(),
		UserID: userID,
		rooms:  make(map[string]struct{}),
	}
}

// Attach binds the transport once the websocket session is established.
func (c *Conn) Attach(w transportWriter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transport = w
}

// Send writes a marshaled rpc frame to the peer.
func (c *Conn) Send(payload []byte) error {
	c.mu.Lock()
	w := c.transport
	c.mu.Unlock()

	if w == nil {
		return errNotAttached
	}
	return w.Write(payload)
}

func (c *Conn) addRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[roomID] = struct{}{}
}

func (c *Conn) removeRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, roomID)
}

// Rooms returns a snapshot of the rooms this connection has joined.
func (c *Conn) Rooms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	rooms := make([]string, 0, len(c.rooms))
	for id := range c.rooms {
		rooms = append(rooms, id)
	}
	return rooms
}
