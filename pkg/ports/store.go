package ports

import (
	"context"

	"github.com/aretw0/charter/pkg/domain"
)

// SessionStore defines the interface for persisting wizard sessions.
// A session survives between messages but is never needed across restarts,
// so an in-memory implementation is the default.
type SessionStore interface {
	// Save persists the session for a given user ID.
	Save(ctx context.Context, userID string, session *domain.Session) error

	// Load retrieves the session for a given user ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, userID string) (*domain.Session, error)

	// Delete removes the session for a given user ID. Deleting a missing session is not an error.
	Delete(ctx context.Context, userID string) error

	// List returns the IDs of all active sessions.
	List(ctx context.Context) ([]string, error)
}
