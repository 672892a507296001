package conversation

import (
	"context"
	"errors"
)

// ErrNotFound is returned for unknown and expired conversation ids.
var ErrNotFound = errors.New("conversation not found")

// Store owns live conversation state keyed by conversation id. Expiry
// is checked on read: Get returns ErrNotFound for ids idle longer than
// the configured window and evicts them. All mutations of a single
// conversation are atomic with respect to its reads; implementations
// must not require callers to hold any lock across external calls.
type Store interface {
	// Create allocates a new conversation and returns a copy of it.
	Create(ctx context.Context) (*Conversation, error)

	// Get returns a deep copy of the conversation, or ErrNotFound for
	// unknown/expired ids.
	Get(ctx context.Context, id string) (*Conversation, error)

	// Touch updates the last-activity timestamp.
	Touch(ctx context.Context, id string) error

	// Append records a turn, enforcing the retention window.
	Append(ctx context.Context, id string, role Role, text string) error

	// Update applies mutate atomically and returns a copy of the
	// resulting state. The callback runs under the store's lock and
	// must not block on I/O.
	Update(ctx context.Context, id string, mutate func(*Conversation)) (*Conversation, error)
}
