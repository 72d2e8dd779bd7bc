package store

import (
	"context"
	"errors"

	"github.com/anurag24-26/openup/internal/bucket/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Items() Items

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the username is taken; uniqueness is
	// enforced by the store, not re-checked by callers.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login and owner resolution.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// ListUsers returns all users ordered by creation (oldest first).
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type Items interface {
	// CreateItem inserts a new item (id is ULID, completed=false).
	CreateItem(ctx context.Context, it domain.Item) error

	// GetItemByID returns an item with its owner's name resolved.
	GetItemByID(ctx context.Context, id string) (domain.Item, error)

	// ListItems returns all items newest-first.
	ListItems(ctx context.Context) ([]domain.Item, error)

	// ListItemsByOwner returns one owner's items newest-first.
	ListItemsByOwner(ctx context.Context, ownerID string) ([]domain.Item, error)

	// MarkItemCompleted sets completed=1 and bumps updated_at. Completing
	// an already-completed item is a no-op; the transition is one-way.
	MarkItemCompleted(ctx context.Context, id string) error
}
