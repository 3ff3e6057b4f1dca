package signaling

import "sync"

// ConnRegistry tracks every live connection of this instance, used for
// the global presence fan-out (user-online / user-offline).
type ConnRegistry struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

func NewConnRegistry() *ConnRegistry {
	return &ConnRegistry{
		conns: make(map[string]*Conn),
	}
}

func (r *ConnRegistry) Add(conn *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn.ID] = conn
}

func (r *ConnRegistry) Remove(conn *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, conn.ID)
}

func (r *ConnRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// BroadcastExceptUser writes payload to every connection not owned by
// userID. Presence notices never go back to the user they describe.
func (r *ConnRegistry) BroadcastExceptUser(userID string, payload []byte) {
	r.mu.RLock()
	snapshot := make([]*Conn, 0, len(r.conns))
	for _, conn := range r.conns {
		if conn.UserID != userID {
			snapshot = append(snapshot, conn)
		}
	}
	r.mu.RUnlock()

	for _, conn := range snapshot {
		_ = conn.Send(payload)
	}
}
