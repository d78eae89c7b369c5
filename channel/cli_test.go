package channel

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

// echoRemote replies to every command with "ran <command>".
type echoRemote struct {
	mu       sync.Mutex
	sent     []string
	messages chan string
	done     chan struct{}
}

func newEchoRemote() *echoRemote {
	return &echoRemote{messages: make(chan string, 16), done: make(chan struct{})}
}

func (r *echoRemote) Send(_ context.Context, text string) error {
	r.mu.Lock()
	r.sent = append(r.sent, text)
	r.mu.Unlock()
	r.messages <- "ran " + text
	return nil
}

func (r *echoRemote) Messages() <-chan string { return r.messages }
func (r *echoRemote) Done() <-chan struct{}   { return r.done }

func (r *echoRemote) hangUp() {
	close(r.messages)
	close(r.done)
}

// syncBuffer is a bytes.Buffer safe for the dispatcher and the test to share.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForSuffix(t *testing.T, out *syncBuffer, suffix string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !strings.HasSuffix(out.String(), suffix) {
		if time.Now().After(deadline) {
			t.Fatalf("output = %q, want suffix %q", out.String(), suffix)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPlainChannelTypesLinesAndPrintsOutput(t *testing.T) {
	remote := newEchoRemote()
	in, feed := io.Pipe()
	defer feed.Close()
	out := &syncBuffer{}

	ch := newPlainCLIChannel(remote, in, out)
	if err := ch.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer ch.Stop()

	remote.messages <- "connected"
	waitForSuffix(t, out, "connected\n> ")

	io.WriteString(feed, "whoami\n")
	waitForSuffix(t, out, "whoami\nran whoami\n> ")

	io.WriteString(feed, "   \n")
	waitForSuffix(t, out, "ran whoami\n>    \n> ")

	io.WriteString(feed, "clear\nuptime\n")
	waitForSuffix(t, out, "\n> uptime\nran uptime\n> ")

	remote.hangUp()
	select {
	case <-ch.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("channel did not finish after the remote hung up")
	}

	remote.mu.Lock()
	sent := strings.Join(remote.sent, ",")
	remote.mu.Unlock()
	if sent != "whoami,uptime" {
		t.Fatalf("sent = %q, want %q", sent, "whoami,uptime")
	}
	if got, want := ch.session.Buffer(), "> uptime\nran uptime\n> "; got != want {
		t.Fatalf("Buffer() = %q, want %q", got, want)
	}
}

func TestPlainChannelStopsOnContextCancel(t *testing.T) {
	remote := newEchoRemote()
	ch := newPlainCLIChannel(remote, strings.NewReader(""), &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	if err := ch.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()

	select {
	case <-ch.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("channel ignored context cancellation")
	}
	ch.Stop()
}
