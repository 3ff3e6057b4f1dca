// Package notify publishes session lifecycle notices for the rest of
// the marketplace (booking emails, activity feeds). Everything here is
// fire-and-forget: callers log a failed publish and move on.
package notify

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
)

const LearnerJoinedSubject = "skillswap.sessions.learner_joined"

// LearnerJoinedMessage announces the first time the learner enters the
// session room of a booking.
type LearnerJoinedMessage struct {
	BookingID string    `json:"booking_id"`
	LearnerID string    `json:"learner_id"`
	JoinedAt  time.Time `json:"joined_at"`
}

type Notifier interface {
	LearnerJoined(msg LearnerJoinedMessage) error
}

// NatsNotifier publishes notices to a NATS subject consumed by the
// marketplace workers.
type NatsNotifier struct {
	nc *nats.Conn
}

func New(natsAddr string) (*NatsNotifier, error) {
	nc, err := nats.Connect(natsAddr, nats.NoEcho())
	if err != nil {
		return nil, err
	}

	return &NatsNotifier{nc: nc}, nil
}

func (n *NatsNotifier) LearnerJoined(msg LearnerJoinedMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return n.nc.Publish(LearnerJoinedSubject, payload)
}

func (n *NatsNotifier) Close() error {
	return n.nc.Drain()
}

// Noop discards every notice; used when NATS is not configured and in
// tests.
type Noop struct{}

func (Noop) LearnerJoined(LearnerJoinedMessage) error { return nil }
