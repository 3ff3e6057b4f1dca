package signaling

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTransport struct {
	mu     sync.Mutex
	frames [][]byte
}

func (f *fakeTransport) Write(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, payload)
	return nil
}

func (f *fakeTransport) Frames() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte{}, f.frames...)
}

func newTestConn(userID string) (*Conn, *fakeTransport) {
	conn := NewConn(userID)
	transport := &fakeTransport{}
	conn.Attach(transport)
	return conn, transport
}

func collectMembers(r *RoomRegistry, roomID string) []*Conn {
	members := []*Conn{}
	for conn := range r.Members(roomID) {
		members = append(members, conn)
	}
	return members
}

func TestRoomRegistryJoinIsIdempotent(t *testing.T) {
	registry := NewRoomRegistry()
	conn, _ := newTestConn("user-1")

	registry.Join("booking-b1", conn)
	registry.Join("booking-b1", conn)

	assert.Len(t, collectMembers(registry, "booking-b1"), 1)
	assert.Equal(t, []string{"booking-b1"}, conn.Rooms())
}

func TestRoomRegistryBroadcastOthersNeverEchoes(t *testing.T) {
	registry := NewRoomRegistry()
	sender, senderTransport := newTestConn("user-1")
	peer, peerTransport := newTestConn("user-2")

	registry.Join("booking-b1", sender)
	registry.Join("booking-b1", peer)

	registry.BroadcastOthers("booking-b1", sender, []byte(`{"method":"offer"}`))

	assert.Empty(t, senderTransport.Frames())
	assert.Len(t, peerTransport.Frames(), 1)
}

func TestRoomRegistryLeaveDropsEmptyRoom(t *testing.T) {
	registry := NewRoomRegistry()
	conn, _ := newTestConn("user-1")

	registry.Join("booking-b1", conn)
	assert.Equal(t, 1, registry.Len())

	registry.Leave(conn)

	assert.Equal(t, 0, registry.Len())
	assert.Empty(t, collectMembers(registry, "booking-b1"))
	assert.Empty(t, conn.Rooms())
}

func TestRoomRegistryLeaveRemovesFromEveryRoom(t *testing.T) {
	registry := NewRoomRegistry()
	conn, _ := newTestConn("user-1")
	other, _ := newTestConn("user-2")

	registry.Join("booking-b1", conn)
	registry.Join("booking-b2", conn)
	registry.Join("booking-b2", other)

	registry.Leave(conn)

	assert.Empty(t, collectMembers(registry, "booking-b1"))
	assert.Len(t, collectMembers(registry, "booking-b2"), 1)
}

func TestRoomRegistryMembersIsRestartable(t *testing.T) {
	registry := NewRoomRegistry()
	a, _ := newTestConn("user-1")
	b, _ := newTestConn("user-2")

	registry.Join("booking-b1", a)
	registry.Join("booking-b1", b)

	seq := registry.Members("booking-b1")

	first := 0
	for range seq {
		first++
		break
	}
	second := 0
	for range seq {
		second++
	}

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestConnRegistryBroadcastExceptUser(t *testing.T) {
	registry := NewConnRegistry()
	a, aTransport := newTestConn("user-1")
	aSecond, aSecondTransport := newTestConn("user-1")
	b, bTransport := newTestConn("user-2")

	registry.Add(a)
	registry.Add(aSecond)
	registry.Add(b)

	registry.BroadcastExceptUser("user-1", []byte(`{"method":"user-online"}`))

	assert.Empty(t, aTransport.Frames())
	assert.Empty(t, aSecondTransport.Frames())
	assert.Len(t, bTransport.Frames(), 1)
}
