package signaling

import (
	"iter"
	"sync"
)

// RoomRegistry maps room ids to the set of joined connections. Valid for
// a single-instance deployment only: a multi-instance setup needs this
// state in a shared pub/sub-backed store.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*Conn
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[string]map[string]*Conn),
	}
}

// Join adds the connection to the room. Joining twice with the same
// connection does not duplicate membership.
func (r *RoomRegistry) Join(roomID string, conn *Conn) {
	r.mu.Lock()
	members, ok := r.rooms[roomID]
	if !ok {
		members = make(map[string]*Conn)
		r.rooms[roomID] = members
	}
	members[conn.ID] = conn
	r.mu.Unlock()

	conn.addRoom(roomID)
}

// Members returns a restartable sequence over a snapshot of the room's
// current members. An unknown room yields an empty sequence.
func (r *RoomRegistry) Members(roomID string) iter.Seq[*Conn] {
	r.mu.RLock()
	snapshot := make([]*Conn, 0, len(r.rooms[roomID]))
	for _, conn := range r.rooms[roomID] {
		snapshot = append(snapshot, conn)
	}
	r.mu.RUnlock()

	return func(yield func(*Conn) bool) {
		for _, conn := range snapshot {
			if !yield(conn) {
				return
			}
		}
	}
}

// Leave removes the connection from every room it joined. Rooms left
// empty are dropped entirely.
func (r *RoomRegistry) Leave(conn *Conn) {
	for _, roomID := range conn.Rooms() {
		r.mu.Lock()
		if members, ok := r.rooms[roomID]; ok {
			delete(members, conn.ID)
			if len(members) == 0 {
				delete(r.rooms, roomID)
			}
		}
		r.mu.Unlock()

		conn.removeRoom(roomID)
	}
}

// BroadcastOthers delivers payload to every member of the room except
// the sender. A message never echoes back to its origin connection.
// Write failures are skipped: a dying peer is cleaned up by its own
// disconnect handler.
func (r *RoomRegistry) BroadcastOthers(roomID string, sender *Conn, payload []byte) {
	for conn := range r.Members(roomID) {
		if sender != nil && conn.ID == sender.ID {
			continue
		}
		_ = conn.Send(payload)
	}
}

// Len reports the number of live rooms.
func (r *RoomRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
