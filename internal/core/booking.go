package core

import (
	"errors"
	"strings"
	"time"
)

const roomIDPrefix = "booking-"

var (
	// ErrBookingNotFound is returned when a booking id does not resolve
	ErrBookingNotFound = errors.New("booking not found")
	// ErrNotAuthorized is returned when the user is neither teacher nor learner of the booking
	ErrNotAuthorized = errors.New("user is not a participant of the booking")
)

// Booking is a scheduled live session between exactly two parties.
// The signaling core never mutates it except for the learner-joined mark.
type Booking struct {
	ID              string     `json:"id" db:"id"`
	TeacherID       string     `json:"teacher_id" db:"teacher_id"`
	LearnerID       string     `json:"learner_id" db:"learner_id"`
	Status          string     `json:"status" db:"status"`
	LearnerJoined   bool       `json:"learner_joined" db:"learner_joined"`
	LearnerJoinedAt *time.Time `json:"learner_joined_at,omitempty" db:"learner_joined_at"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty" db:"scheduled_at"`
}

// IsParticipant reports whether userID is one of the two authorized parties.
func (b *Booking) IsParticipant(userID string) bool {
	return userID == b.TeacherID || userID == b.LearnerID
}

// RoomID returns the room identifier of the booking session.
func (b *Booking) RoomID() string {
	return BookingRoomID(b.ID)
}

// BookingRoomID builds the room identifier for a booking id.
func BookingRoomID(bookingID string) string {
	return roomIDPrefix + bookingID
}

// BookingIDFromRoom extracts the booking id from a room identifier.
func BookingIDFromRoom(roomID string) (string, bool) {
	id, found := strings.CutPrefix(roomID, roomIDPrefix)
	if !found || id == "" {
		return "", false
	}
	return id, true
}
