package core

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}

	sqlxDb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDb.Close() })

	return sqlxDb, mock
}

func TestBookingRepositoryParticipants(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "teacher_id", "learner_id", "status", "learner_joined", "learner_joined_at", "scheduled_at",
	}).AddRow("b1", "teacher-1", "learner-1", "confirmed", false, nil, nil)

	mock.ExpectQuery("SELECT id, teacher_id, learner_id").
		WithArgs("b1").
		WillReturnRows(rows)

	booking, err := repo.Participants(context.Background(), "b1")
	require.NoError(t, err)

	assert.Equal(t, "teacher-1", booking.TeacherID)
	assert.Equal(t, "learner-1", booking.LearnerID)
	assert.False(t, booking.LearnerJoined)
	assert.True(t, booking.IsParticipant("learner-1"))
	assert.False(t, booking.IsParticipant("user-x"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryParticipantsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectQuery("SELECT id, teacher_id, learner_id").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Participants(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestBookingRepositoryMarkLearnerJoined(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectExec("UPDATE bookings SET learner_joined = TRUE").
		WithArgs("b1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkLearnerJoined(context.Background(), "b1"))

	// flag already set: the guarded update matches nothing and stays silent
	mock.ExpectExec("UPDATE bookings SET learner_joined = TRUE").
		WithArgs("b1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.MarkLearnerJoined(context.Background(), "b1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositorySetOnline(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET is_online").
		WithArgs("user-1", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetOnline(context.Background(), "user-1", true, time.Now().UTC())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
