package channel

import (
	"context"
	"errors"

	"github.com/linanwx/webshell/logger"
)

const sendQueueSize = 64

var errSendQueueFull = errors.New("send queue full")

// sendQueue hands commands to a writer goroutine so the session's
// dispatcher never waits on the network. A queued command counts as
// sent; write failures are only logged.
type sendQueue struct {
	remote  Remote
	pending chan string
}

func newSendQueue(remote Remote) *sendQueue {
	return &sendQueue{remote: remote, pending: make(chan string, sendQueueSize)}
}

// Send never blocks.
func (q *sendQueue) Send(_ context.Context, text string) error {
	select {
	case q.pending <- text:
		return nil
	default:
		return errSendQueueFull
	}
}

// run writes queued commands in order until stop is closed or the
// remote goes away.
func (q *sendQueue) run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-q.remote.Done():
			return
		case text := <-q.pending:
			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			err := q.remote.Send(ctx, text)
			cancel()
			if err != nil {
				logger.Warn("send failed", "err", err)
			}
		}
	}
}
