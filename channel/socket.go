package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/coder/websocket"

	"github.com/linanwx/webshell/logger"
)

const socketMessageBufferSize = 64

// Socket is a client connection to a shell bridge. Every frame carries
// plain text; there is no envelope.
type Socket struct {
	conn     *websocket.Conn
	url      string
	messages chan string
	done     chan struct{}
	cancel   context.CancelFunc

	mu        sync.Mutex
	err       error
	closeOnce sync.Once
}

// DialSocket opens the connection and starts reading from it.
func DialSocket(ctx context.Context, url string) (*Socket, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	// Output is unbounded, like the buffer it lands in.
	conn.SetReadLimit(-1)

	readCtx, cancel := context.WithCancel(context.Background())
	s := &Socket{
		conn:     conn,
		url:      url,
		messages: make(chan string, socketMessageBufferSize),
		done:     make(chan struct{}),
		cancel:   cancel,
	}
	go s.readLoop(readCtx)
	logger.Info("socket connected", "url", url)
	return s, nil
}

// Send writes one text frame.
func (s *Socket) Send(ctx context.Context, text string) error {
	if err := s.conn.Write(ctx, websocket.MessageText, []byte(text)); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	logger.Debug("socket sent", "bytes", len(text))
	return nil
}

// Messages yields incoming text frames. It is closed when the connection ends.
func (s *Socket) Messages() <-chan string { return s.messages }

// Done is closed when the connection ends.
func (s *Socket) Done() <-chan struct{} { return s.done }

// Err returns why the connection ended, or nil for a normal closure.
func (s *Socket) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close closes the connection with a normal closure status.
func (s *Socket) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.conn.Close(websocket.StatusNormalClosure, "")
		s.cancel()
	})
	return err
}

func (s *Socket) readLoop(ctx context.Context) {
	defer close(s.done)
	defer close(s.messages)

	for {
		typ, data, err := s.conn.Read(ctx)
		if err != nil {
			s.finish(err)
			return
		}
		if typ != websocket.MessageText {
			logger.Warn("socket ignored non-text frame", "url", s.url, "bytes", len(data))
			continue
		}
		select {
		case s.messages <- string(data):
		case <-ctx.Done():
			return
		}
	}
}

func (s *Socket) finish(err error) {
	if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, context.Canceled) {
		logger.Info("socket closed", "url", s.url)
		return
	}
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	logger.Warn("socket ended", "url", s.url, "err", err)
}
