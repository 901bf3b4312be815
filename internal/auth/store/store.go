package store

import (
	"context"
	"errors"

	"github.com/couchloft/pgpauth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	// ErrRevMismatch is returned when a mutation presents a stale or wrong
	// revision token for an existing record.
	ErrRevMismatch = errors.New("store: revision mismatch")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Sessions() Sessions
	ServerKeys() ServerKeys

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back if fn returns
	// an error and committing otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByName returns a record by username.
	GetUserByName(ctx context.Context, name string) (domain.User, error)

	// CreateUser inserts a new record. The UNIQUE constraint on name
	// serializes concurrent signups; the loser gets ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// DeleteUser removes a record iff rev matches the stored revision.
	// Unknown name yields ErrNotFound, a stale rev ErrRevMismatch.
	DeleteUser(ctx context.Context, name, rev string) error

	// IsEmpty returns true if there are no user records.
	IsEmpty(ctx context.Context) (bool, error)
}

type Sessions interface {
	// CreateSession stores a new session row.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSession returns a session row by id.
	GetSession(ctx context.Context, id string) (domain.Session, error)

	// DeleteSession removes a session row. Deleting an absent row is not
	// an error; logout is idempotent.
	DeleteSession(ctx context.Context, id string) error

	// DeleteUserSessions removes all sessions for a username.
	DeleteUserSessions(ctx context.Context, name string) error

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context) error
}

type ServerKeys interface {
	// GetServerKey returns the stored key material for a kind
	// ("pgp" or "session").
	GetServerKey(ctx context.Context, kind string) (domain.ServerKey, error)

	// PutServerKey inserts or replaces the key material for a kind.
	PutServerKey(ctx context.Context, k domain.ServerKey) error
}
