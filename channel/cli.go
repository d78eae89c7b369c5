package channel

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/linanwx/webshell/logger"
	"github.com/linanwx/webshell/terminal"
)

const (
	sendTimeout     = 10 * time.Second
	cliDrainTimeout = 2 * time.Second
)

// NewCLIChannel creates the surface for remote.
// If stdin is a terminal, it returns a TUI-based channel; otherwise a
// line-oriented one that reads commands from stdin.
func NewCLIChannel(remote Remote) Channel {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return newTUIChannel(remote)
	}
	return newPlainCLIChannel(remote, os.Stdin, os.Stdout)
}

// plainCLIChannel drives a session from piped input. Each input line is
// typed into the session and followed by Enter; whatever the buffer
// gains is written to out.
type plainCLIChannel struct {
	remote   Remote
	session  *terminal.Session
	in       io.Reader
	out      io.Writer
	printed  int
	stop     chan struct{}
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func newPlainCLIChannel(remote Remote, in io.Reader, out io.Writer) *plainCLIChannel {
	return &plainCLIChannel{
		remote:  remote,
		session: terminal.NewSession(remote),
		in:      in,
		out:     out,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (c *plainCLIChannel) Name() string { return "plain" }

func (c *plainCLIChannel) Start(ctx context.Context) error {
	lines := make(chan string)
	go c.readInput(lines)

	c.wg.Add(1)
	go c.run(ctx, lines)

	logger.Info("cli channel started (plain mode)")
	return nil
}

func (c *plainCLIChannel) Stop() error {
	c.stopOnce.Do(func() {
		close(c.stop)
		c.wg.Wait()
		logger.Info("cli channel stopped")
	})
	return nil
}

func (c *plainCLIChannel) Done() <-chan struct{} { return c.done }

// readInput never touches the session; it only feeds the dispatcher.
func (c *plainCLIChannel) readInput(lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-c.stop:
			return
		}
	}
}

func (c *plainCLIChannel) run(ctx context.Context, lines <-chan string) {
	defer c.wg.Done()
	defer close(c.done)

	messages := c.remote.Messages()
	// Armed once input is exhausted so late output still gets printed.
	var drain <-chan time.Time
	var drainTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case <-drain:
			return
		case text, ok := <-messages:
			if !ok {
				return
			}
			c.session.HandleMessage(text)
			c.flush()
			if drainTimer != nil {
				drainTimer.Reset(cliDrainTimeout)
			}
		case line, ok := <-lines:
			if !ok {
				lines = nil
				drainTimer = time.NewTimer(cliDrainTimeout)
				defer drainTimer.Stop()
				drain = drainTimer.C
				continue
			}
			sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
			if err := c.session.Type(sendCtx, line); err != nil {
				logger.Warn("send failed", "err", err)
			}
			cancel()
			c.flush()
		}
	}
}

// flush writes what the buffer gained since the last flush. After a
// clear the buffer shrinks and is written again from the start.
func (c *plainCLIChannel) flush() {
	buf := c.session.Buffer()
	if len(buf) < c.printed {
		c.printed = 0
		io.WriteString(c.out, "\n")
	}
	if _, err := io.WriteString(c.out, buf[c.printed:]); err != nil {
		logger.Warn("write output failed", "err", err)
	}
	c.printed = len(buf)
}
