package core

import (
	"time"
)

// User is central subject of the application. Only the fields the
// signaling service reads or writes are mapped here; profile data,
// skills and credits belong to the marketplace API.
type User struct {
	ID       string     `json:"id" db:"id"`
	Name     string     `json:"name" db:"name"`
	Email    string     `json:"email,omitempty" db:"email"`
	IsOnline bool       `json:"is_online" db:"is_online"`
	LastSeen *time.Time `json:"last_seen,omitempty" db:"last_seen"`
}
