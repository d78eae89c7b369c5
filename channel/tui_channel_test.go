package channel

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linanwx/webshell/logger"
)

// loggingRemote logs on every send the way Socket does, and reports each
// attempt on attempts.
type loggingRemote struct {
	err      error
	attempts chan string
	messages chan string
	done     chan struct{}
}

func newLoggingRemote(err error) *loggingRemote {
	return &loggingRemote{
		err:      err,
		attempts: make(chan string, 8),
		messages: make(chan string, 8),
		done:     make(chan struct{}),
	}
}

func (r *loggingRemote) Send(_ context.Context, text string) error {
	logger.Debug("remote sent", "bytes", len(text))
	r.attempts <- text
	return r.err
}

func (r *loggingRemote) Messages() <-chan string { return r.messages }
func (r *loggingRemote) Done() <-chan struct{}   { return r.done }

func startHeadlessTUI(t *testing.T, remote Remote) *TUIChannel {
	t.Helper()
	if err := logger.Init(logger.Config{Enabled: true, Level: "debug"}, ""); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = logger.Init(logger.Config{}, "") })

	ch := newTUIChannel(remote, tea.WithInput(nil), tea.WithOutput(io.Discard), tea.WithoutRenderer(), tea.WithoutSignalHandler())
	if err := ch.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = ch.Stop() })
	return ch
}

func typeLine(ch *TUIChannel, line string) {
	ch.program.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	ch.program.Send(tea.KeyMsg{Type: tea.KeyEnter})
}

func waitAttempt(t *testing.T, remote *loggingRemote, want string) {
	t.Helper()
	select {
	case got := <-remote.attempts:
		if got != want {
			t.Fatalf("sent %q, want %q", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("%q was never sent", want)
	}
}

func waitDone(t *testing.T, ch *TUIChannel) {
	t.Helper()
	select {
	case <-ch.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("TUI did not exit; its event loop is stuck")
	}
}

func TestTUIChannelRunsCommandWhileLoggingAtDebug(t *testing.T) {
	remote := newLoggingRemote(nil)
	ch := startHeadlessTUI(t, remote)

	typeLine(ch, "ls")
	waitAttempt(t, remote, "ls")

	remote.messages <- "a.txt"
	close(remote.messages)
	waitDone(t, ch)

	if got, want := ch.app.Session().Buffer(), "> ls\na.txt\n> "; got != want {
		t.Fatalf("Buffer() = %q, want %q", got, want)
	}
}

func TestTUIChannelSurvivesSendFailure(t *testing.T) {
	remote := newLoggingRemote(errors.New("connection reset"))
	ch := startHeadlessTUI(t, remote)

	typeLine(ch, "ls")
	waitAttempt(t, remote, "ls")

	go ch.program.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	waitDone(t, ch)

	if got, want := ch.app.Session().Buffer(), "> ls\n"; got != want {
		t.Fatalf("Buffer() = %q, want %q", got, want)
	}
}

func TestSendQueueRejectsWhenFull(t *testing.T) {
	q := newSendQueue(newLoggingRemote(nil))
	for i := 0; i < sendQueueSize; i++ {
		if err := q.Send(context.Background(), "x"); err != nil {
			t.Fatalf("Send() #%d error = %v", i, err)
		}
	}
	if err := q.Send(context.Background(), "x"); !errors.Is(err, errSendQueueFull) {
		t.Fatalf("Send() on a full queue error = %v, want %v", err, errSendQueueFull)
	}
}
