package bot

import (
	"context"
	"log/slog"
)

// DialogMachine is the contract every conversational flow exposes to the
// dispatcher: an open-session probe and a message handler reporting whether
// the message was consumed.
type DialogMachine interface {
	IsUserInFlow(ctx context.Context, userID string) bool
	HandleMessage(ctx context.Context, userID string, chatID int64, text string) (bool, error)
}

// Dispatcher gives each registered dialog machine a chance to consume an
// incoming message before the default handler runs.
type Dispatcher struct {
	machines []DialogMachine
	log      *slog.Logger
}

// NewDispatcher creates a Dispatcher over the provided machines, consulted in
// order.
func NewDispatcher(log *slog.Logger, machines ...DialogMachine) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{machines: machines, log: log}
}

// IsUserInFlow reports whether any machine holds an open conversation for the
// user.
func (d *Dispatcher) IsUserInFlow(ctx context.Context, userID string) bool {
	for _, m := range d.machines {
		if m.IsUserInFlow(ctx, userID) {
			return true
		}
	}

	return false
}

// HandleMessage offers the message to each machine until one consumes it.
func (d *Dispatcher) HandleMessage(ctx context.Context, userID string, chatID int64, text string) (bool, error) {
	for _, m := range d.machines {
		consumed, err := m.HandleMessage(ctx, userID, chatID, text)
		if err != nil {
			return consumed, err
		}
		if consumed {
			return true, nil
		}
	}

	return false, nil
}
