package cache

import (
	"context"
	"errors"

	"mindwell/internal/screening"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
	// ErrUpdateConflict means concurrent writers kept invalidating the update
	ErrUpdateConflict = errors.New("session update conflict")
)

// UpdateFunc mutates a session in place. Returning an error aborts the
// update and nothing is written.
type UpdateFunc func(sess *screening.Session) error

// SessionStore persists screening sessions by ID
type SessionStore interface {
	Create(ctx context.Context, sess *screening.Session) error
	// Get returns nil, nil when the session does not exist or has expired
	Get(ctx context.Context, id string) (*screening.Session, error)
	// Update applies fn atomically and returns the stored result
	Update(ctx context.Context, id string, fn UpdateFunc) (*screening.Session, error)
	Delete(ctx context.Context, id string) error
}
