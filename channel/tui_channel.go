package channel

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linanwx/webshell/channel/tui"
	"github.com/linanwx/webshell/logger"
)

const logLineBufferSize = 256

// TUIChannel drives a session from a bubbletea program. Nothing on the
// program's update loop may block on the network or on program.Send:
// commands go through a sendQueue and log lines through a logWriter.
type TUIChannel struct {
	remote   Remote
	queue    *sendQueue
	logs     *logWriter
	app      *tui.App
	program  *tea.Program
	options  []tea.ProgramOption
	stop     chan struct{}
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func newTUIChannel(remote Remote, opts ...tea.ProgramOption) *TUIChannel {
	return &TUIChannel{
		remote:  remote,
		queue:   newSendQueue(remote),
		logs:    &logWriter{lines: make(chan string, logLineBufferSize)},
		options: append([]tea.ProgramOption{tea.WithAltScreen()}, opts...),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (c *TUIChannel) Name() string { return "tui" }

func (c *TUIChannel) Start(ctx context.Context) error {
	c.app = tui.NewApp(c.queue)
	c.program = tea.NewProgram(c.app, append(c.options, tea.WithContext(ctx))...)

	// Redirect logger output to the TUI log panel.
	logger.Intercept(c.logs)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(c.done)
		if _, err := c.program.Run(); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "tui error: %v\n", err)
		}
	}()

	// Remote frames become bubbletea messages so the handlers run on
	// the program's update loop.
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		messages := c.remote.Messages()
		for {
			select {
			case <-c.stop:
				return
			case <-c.done:
				return
			case text, ok := <-messages:
				if !ok {
					c.program.Send(tui.RemoteClosedMsg{})
					return
				}
				c.program.Send(tui.IncomingMsg{Text: text})
			}
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.queue.run(c.stop)
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-c.stop:
				return
			case <-c.done:
				return
			case line := <-c.logs.lines:
				c.program.Send(tui.LogLineMsg{Line: line})
			}
		}
	}()

	logger.Info("cli channel started (TUI mode)")
	return nil
}

func (c *TUIChannel) Stop() error {
	c.stopOnce.Do(func() {
		close(c.stop)
		if c.program != nil {
			c.program.Quit()
		}
		c.wg.Wait()
		logger.Restore()
		logger.Info("cli channel stopped")
	})
	return nil
}

func (c *TUIChannel) Done() <-chan struct{} { return c.done }

// logWriter implements io.Writer and queues each line for the TUI log
// panel. It never blocks; lines are dropped while the queue is full.
type logWriter struct {
	lines chan string
}

func (w *logWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		select {
		case w.lines <- string(line):
		default:
		}
	}
	return len(p), nil
}
