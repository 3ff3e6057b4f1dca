package core

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// UserPresenceStorer is the write-through target for the global
// online/offline flag. Callers treat SetOnline as best-effort.
type UserPresenceStorer interface {
	SetOnline(ctx context.Context, userID string, online bool, lastSeen time.Time) error
}

type UserStorer interface {
	UserPresenceStorer
	Find(ctx context.Context, id string) (*User, error)
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Find(ctx context.Context, id string) (*User, error) {
	user := &User{}

	err := r.db.GetContext(ctx, user,
		`SELECT id, name, email, is_online, last_seen FROM users WHERE id = $1 LIMIT 1`,
		id,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// SetOnline flips the global online flag and records the transition time.
func (r *UserRepository) SetOnline(ctx context.Context, userID string, online bool, lastSeen time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_online = $2, last_seen = $3 WHERE id = $1`,
		userID,
		online,
		lastSeen,
	)

	return err
}
