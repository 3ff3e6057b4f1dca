package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// PresenceChannel is the pub/sub channel carrying global online/offline
// transitions. Every instance subscribes and fans events out to its own
// websocket connections, which keeps the broadcast correct when the
// service runs as more than one process.
const PresenceChannel = "presence_events"

// PresenceEvent is one global presence transition (count 0->1 or ->0).
type PresenceEvent struct {
	UserID string    `json:"user_id"`
	Online bool      `json:"online"`
	At     time.Time `json:"at"`
}

type Publisher interface {
	PublishPresence(ctx context.Context, event PresenceEvent) error
}

type Subscriber interface {
	SubscribePresence(ctx context.Context) (*Subscription, error)
}

type Subscription struct {
	pubsub *redis.PubSub
	events chan PresenceEvent
}

// Events yields decoded presence events. Frames that fail to decode are
// dropped; the channel closes when the subscription is closed.
func (s *Subscription) Events() <-chan PresenceEvent {
	return s.events
}

func (s *Subscription) Close() error {
	return s.pubsub.Close()
}

type Eventbus struct {
	rdb *redis.Client
}

// RedisPubSub is factory for building Eventbus based on redis pubsub
func RedisPubSub(rdb *redis.Client) *Eventbus {
	return &Eventbus{rdb: rdb}
}

func (e *Eventbus) PublishPresence(ctx context.Context, event PresenceEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return e.rdb.Publish(ctx, PresenceChannel, msg).Err()
}

func (e *Eventbus) SubscribePresence(ctx context.Context) (*Subscription, error) {
	pubsub := e.rdb.Subscribe(ctx, PresenceChannel)
	// Wait until subscription is created
	if _, err := pubsub.Receive(ctx); err != nil {
		return nil, err
	}

	sub := &Subscription{
		pubsub: pubsub,
		events: make(chan PresenceEvent),
	}

	go func() {
		defer close(sub.events)
		for msg := range pubsub.Channel() {
			event := PresenceEvent{}
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			sub.events <- event
		}
	}()

	return sub, nil
}
