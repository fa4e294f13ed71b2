package session

import "errors"

// ErrNotFound is returned by Store.Load when no snapshot exists for an id.
// The manager treats it as "start fresh", not as a failure.
var ErrNotFound = errors.New("game not found")

// Store abstracts snapshot persistence (SQLite in production, anything
// keyed by game id in principle).
type Store interface {
	Save(s *Session) error
	Load(id string) (*Session, error)
	List() ([]*Session, error)
	Delete(id string) error
	Close() error
}
