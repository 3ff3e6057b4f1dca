package signaling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skillswap/signaling/internal/eventbus"
)

type stubPresenceStore struct {
	mu    sync.Mutex
	err   error
	calls []bool
}

func (s *stubPresenceStore) SetOnline(ctx context.Context, userID string, online bool, lastSeen time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, online)
	return s.err
}

type stubBus struct {
	mu     sync.Mutex
	err    error
	events []eventbus.PresenceEvent
}

func (s *stubBus) PublishPresence(ctx context.Context, event eventbus.PresenceEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *stubBus) Events() []eventbus.PresenceEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]eventbus.PresenceEvent{}, s.events...)
}

func TestPresenceRegistryTransitions(t *testing.T) {
	registry := NewPresenceRegistry()

	assert.False(t, registry.Online("user-1"))

	assert.True(t, registry.Increment("user-1"))
	assert.True(t, registry.Online("user-1"))

	// second connection of the same user is not a transition
	assert.False(t, registry.Increment("user-1"))

	assert.False(t, registry.Decrement("user-1"))
	assert.True(t, registry.Online("user-1"))

	assert.True(t, registry.Decrement("user-1"))
	assert.False(t, registry.Online("user-1"))
}

func TestPresenceRegistryNeverGoesNegative(t *testing.T) {
	registry := NewPresenceRegistry()

	assert.False(t, registry.Decrement("user-1"))
	assert.False(t, registry.Online("user-1"))

	assert.True(t, registry.Increment("user-1"))
	assert.True(t, registry.Decrement("user-1"))
	assert.False(t, registry.Decrement("user-1"))
}

func TestPresenceServicePublishesOnlyOnTransitions(t *testing.T) {
	store := &stubPresenceStore{}
	bus := &stubBus{}
	service := NewPresenceService(store, bus)
	ctx := context.Background()

	service.OnConnect(ctx, "user-1")
	service.OnConnect(ctx, "user-1")
	service.OnDisconnect(ctx, "user-1")
	service.OnDisconnect(ctx, "user-1")

	events := bus.Events()
	assert.Len(t, events, 2)
	assert.Equal(t, "user-1", events[0].UserID)
	assert.True(t, events[0].Online)
	assert.False(t, events[1].Online)
}

func TestPresenceServiceSwallowsStoreFailure(t *testing.T) {
	store := &stubPresenceStore{err: errors.New("db is down")}
	bus := &stubBus{}
	service := NewPresenceService(store, bus)

	service.OnConnect(context.Background(), "user-1")

	// write-through failed but the broadcast still went out
	assert.Len(t, bus.Events(), 1)
	assert.True(t, service.Online("user-1"))
}
