// Package channel connects a terminal session to its remote shell bridge
// and to the surface the user types into.
package channel

import (
	"context"

	"github.com/linanwx/webshell/terminal"
)

// Remote is the bridge end of a session.
type Remote interface {
	terminal.Sender

	// Messages yields incoming text frames and is closed when the
	// connection ends.
	Messages() <-chan string

	// Done is closed when the connection ends.
	Done() <-chan struct{}
}

// Channel is a user-facing surface that drives one terminal session.
// It is the session's only dispatcher: every handler call happens on
// the channel's own loop.
type Channel interface {
	// Name returns the channel name ("tui" or "plain").
	Name() string

	// Start begins dispatching input and remote messages.
	Start(ctx context.Context) error

	// Stop shuts the surface down.
	Stop() error

	// Done is closed when the surface has finished on its own, for
	// example after the user quit or the remote hung up.
	Done() <-chan struct{}
}
