package signaling

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/skillswap/signaling/internal/core"
	"github.com/skillswap/signaling/internal/eventbus"
)

// PresenceRegistry keeps reference counts of live connections per user.
// A user is globally online iff their count is >= 1. Records survive the
// count returning to zero so a later reconnect reuses them.
type PresenceRegistry struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		counts: make(map[string]int),
	}
}

// Increment bumps the user's connection count and reports whether this
// was the 0->1 transition.
func (r *PresenceRegistry) Increment(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counts[userID]++
	return r.counts[userID] == 1
}

// Decrement drops the user's connection count and reports whether it
// reached zero. The count never goes negative.
func (r *PresenceRegistry) Decrement(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	count, ok := r.counts[userID]
	if !ok || count == 0 {
		return false
	}
	r.counts[userID] = count - 1
	return count == 1
}

// Online reports the derived global flag.
func (r *PresenceRegistry) Online(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[userID] >= 1
}

// PresenceService turns connection lifecycle into the global presence
// signal: write-through to the user store plus a bus publish on every
// 0<->1 transition. Both side effects are best-effort; presence must
// never abort the connection lifecycle.
type PresenceService struct {
	registry *PresenceRegistry
	store    core.UserPresenceStorer
	bus      eventbus.Publisher
}

func NewPresenceService(store core.UserPresenceStorer, bus eventbus.Publisher) *PresenceService {
	return &PresenceService{
		registry: NewPresenceRegistry(),
		store:    store,
		bus:      bus,
	}
}

func (s *PresenceService) OnConnect(ctx context.Context, userID string) {
	if !s.registry.Increment(userID) {
		return
	}
	s.transition(ctx, userID, true)
}

func (s *PresenceService) OnDisconnect(ctx context.Context, userID string) {
	if !s.registry.Decrement(userID) {
		return
	}
	s.transition(ctx, userID, false)
}

// Online exposes the derived flag, independent of session presence.
func (s *PresenceService) Online(userID string) bool {
	return s.registry.Online(userID)
}

func (s *PresenceService) transition(ctx context.Context, userID string, online bool) {
	now := time.Now().UTC()

	if err := s.store.SetOnline(ctx, userID, online, now); err != nil {
		log.Error().Err(err).Str("service", "presence").Str("userID", userID).
			Msg("presence write-through failed")
	}

	event := eventbus.PresenceEvent{UserID: userID, Online: online, At: now}
	if err := s.bus.PublishPresence(ctx, event); err != nil {
		log.Error().Err(err).Str("service", "presence").Str("userID", userID).
			Msg("presence publish failed")
	}
}
