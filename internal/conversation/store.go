package conversation

import (
	"context"
	"errors"
)

// ErrStateNotFound indicates that a user has no open conversation.
var ErrStateNotFound = errors.New("conversation state not found")

// Store defines the persistence contract for conversation state. The flow
// machines depend only on this interface so the process-local map can be
// swapped for an external session store without touching machine logic.
type Store interface {
	// Get returns the open conversation for the user, or ErrStateNotFound.
	Get(ctx context.Context, userID string) (*State, error)
	// Set saves the conversation state for the user, stamping UpdatedAt.
	Set(ctx context.Context, userID string, state *State) error
	// Delete removes the conversation state for the user.
	Delete(ctx context.Context, userID string) error
}
