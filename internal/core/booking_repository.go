package core

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// BookingStorer resolves booking participants and applies the single
// mutation the signaling core is allowed to make.
type BookingStorer interface {
	Participants(ctx context.Context, bookingID string) (*Booking, error)
	MarkLearnerJoined(ctx context.Context, bookingID string) error
}

type BookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{
		db: db,
	}
}

// Participants fetches the two authorized parties of the booking.
func (r *BookingRepository) Participants(ctx context.Context, bookingID string) (*Booking, error) {
	booking := &Booking{}

	err := r.db.GetContext(ctx, booking,
		`SELECT id, teacher_id, learner_id, status, learner_joined, learner_joined_at, scheduled_at
		   FROM bookings WHERE id = $1 LIMIT 1`,
		bookingID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return booking, nil
}

// MarkLearnerJoined sets the learner-joined flag. The guarded UPDATE makes
// the write idempotent: a second call matches no row and changes nothing.
func (r *BookingRepository) MarkLearnerJoined(ctx context.Context, bookingID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET learner_joined = TRUE, learner_joined_at = NOW()
		  WHERE id = $1 AND NOT learner_joined`,
		bookingID,
	)

	return err
}
