package signaling

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/skillswap/signaling/internal/core"
	"github.com/skillswap/signaling/internal/notify"
)

// AccessGate decides whether a user may enter a booking room. It runs
// before any room state is touched, so an unauthorized user never shows
// up in another participant's member list.
type AccessGate struct {
	bookings core.BookingStorer
	notifier notify.Notifier
}

func NewAccessGate(bookings core.BookingStorer, notifier notify.Notifier) *AccessGate {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &AccessGate{
		bookings: bookings,
		notifier: notifier,
	}
}

// Authorize re-validates the booking on every join attempt: booking
// state such as the learner-joined flag changes between joins. Returns
// core.ErrBookingNotFound or core.ErrNotAuthorized on rejection.
func (g *AccessGate) Authorize(ctx context.Context, bookingID, userID string) (*core.Booking, error) {
	booking, err := g.bookings.Participants(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.IsParticipant(userID) {
		return nil, core.ErrNotAuthorized
	}

	return booking, nil
}

// MarkJoined applies the one side effect of a successful join: the
// first time the learner enters, the booking is flagged and the
// marketplace is notified. The flag is checked before writing, and the
// repository UPDATE is guarded, so the mutation happens exactly once.
func (g *AccessGate) MarkJoined(ctx context.Context, booking *core.Booking, userID string) {
	if userID != booking.LearnerID || booking.LearnerJoined {
		return
	}

	if err := g.bookings.MarkLearnerJoined(ctx, booking.ID); err != nil {
		log.Error().Err(err).Str("service", "gate").Str("bookingID", booking.ID).
			Msg("can't mark learner as joined")
		return
	}
	booking.LearnerJoined = true

	msg := notify.LearnerJoinedMessage{
		BookingID: booking.ID,
		LearnerID: userID,
		JoinedAt:  time.Now().UTC(),
	}
	if err := g.notifier.LearnerJoined(msg); err != nil {
		log.Error().Err(err).Str("service", "gate").Str("bookingID", booking.ID).
			Msg("learner-joined notify failed")
	}
}
