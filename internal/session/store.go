// Package session keeps the wizard state of each open run between requests.
// Sessions are ephemeral: idle sessions are dropped and nothing is written
// to durable storage.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/terra-clan/nebula-guide/internal/wizard"
)

// ErrNotFound is returned for unknown or expired session ids
var ErrNotFound = errors.New("session not found")

// Session is one wizard run
type Session struct {
	ID        string       `json:"id"`
	State     wizard.State `json:"state"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// New creates a session with a random id
func New(state wizard.State) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Store defines the interface for session storage
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error

	// Sweep removes sessions idle for longer than the store's TTL and
	// returns how many were removed. Stores that expire keys natively
	// return zero.
	Sweep(ctx context.Context) (int, error)

	Ping(ctx context.Context) error
	Close() error
}

// ValidID reports whether id has the shape of a session id
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
