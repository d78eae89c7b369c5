// Package terminal implements the client side of a remote shell session:
// a display buffer, the offset where unsent input begins, and the two
// handlers (incoming message, key down) that mutate them.
package terminal

import (
	"context"
	"strings"
	"unicode/utf8"
)

const (
	// Prompt marks where the next command begins.
	Prompt = "> "

	// ClearCommand is handled locally and never sent.
	ClearCommand = "clear"
)

// Key identifies a key press delivered to the session.
type Key int

const (
	KeyRunes Key = iota
	KeyEnter
	KeyUp
	KeyBackspace
	KeyOther
)

// KeyEvent is one key-down event. Runes is only set for KeyRunes.
type KeyEvent struct {
	Key   Key
	Runes []rune
}

// Sender delivers one outgoing message to the remote endpoint.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, text string) error

func (f SenderFunc) Send(ctx context.Context, text string) error { return f(ctx, text) }

// Option configures a Session.
type Option func(*Session)

// WithScroller registers a callback invoked whenever the surface should
// scroll to the bottom.
func WithScroller(fn func()) Option {
	return func(s *Session) { s.scroll = fn }
}

// Session is not safe for concurrent use. Both handlers must be called
// from the same dispatcher.
type Session struct {
	sender   Sender
	scroll   func()
	buffer   strings.Builder
	baseline int
	last     string
}

// NewSession creates a session with an empty buffer.
func NewSession(sender Sender, opts ...Option) *Session {
	s := &Session{sender: sender}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ShowPrompt puts the prompt marker into an empty buffer, so typing has
// a prompt to follow before the first message arrives.
func (s *Session) ShowPrompt() {
	if s.buffer.Len() == 0 {
		s.reset(Prompt)
	}
}

// Buffer returns the full display buffer.
func (s *Session) Buffer() string { return s.buffer.String() }

// Baseline returns the offset where the unsent input begins.
func (s *Session) Baseline() int { return s.baseline }

// Input returns the text typed since the baseline.
func (s *Session) Input() string { return s.buffer.String()[s.baseline:] }

// Remembered returns the command an Up-Arrow press would recall.
func (s *Session) Remembered() string { return s.last }

// HandleMessage renders one incoming payload.
func (s *Session) HandleMessage(payload string) {
	s.buffer.WriteString(payload)
	s.promptLine()
	if s.scroll != nil {
		s.scroll()
	}
}

// HandleKey runs the key-down handler and reports whether the key's
// default effect was suppressed. A send error leaves the buffer as is.
func (s *Session) HandleKey(ctx context.Context, key Key) (bool, error) {
	switch key {
	case KeyEnter:
		command := strings.TrimSpace(s.Input())
		switch {
		case command == ClearCommand:
			s.reset(Prompt)
			return true, nil
		case command != "":
			if err := s.sender.Send(ctx, command); err != nil {
				return false, err
			}
			s.last = command
			return false, nil
		default:
			s.promptLine()
			return true, nil
		}
	case KeyUp:
		s.buffer.WriteString(s.last)
		s.last = ""
		return true, nil
	}
	return false, nil
}

// Press dispatches a key the way a text area would: the handler first,
// then the key's default effect unless the handler suppressed it.
func (s *Session) Press(ctx context.Context, ev KeyEvent) error {
	prevented, err := s.HandleKey(ctx, ev.Key)
	if prevented {
		return err
	}
	switch ev.Key {
	case KeyRunes:
		s.Insert(string(ev.Runes))
	case KeyEnter:
		s.Insert("\n")
	case KeyBackspace:
		s.Backspace()
	}
	return err
}

// Type presses each rune of text followed by Enter.
func (s *Session) Type(ctx context.Context, line string) error {
	if line != "" {
		if err := s.Press(ctx, KeyEvent{Key: KeyRunes, Runes: []rune(line)}); err != nil {
			return err
		}
	}
	return s.Press(ctx, KeyEvent{Key: KeyEnter})
}

// Insert appends text at the end of the buffer.
func (s *Session) Insert(text string) {
	s.buffer.WriteString(text)
}

// Backspace removes the last rune of the unsent input. Text before the
// baseline is never removed.
func (s *Session) Backspace() {
	input := s.Input()
	if input == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(input)
	baseline := s.baseline
	s.reset(s.buffer.String()[:s.buffer.Len()-size])
	s.baseline = baseline
}

func (s *Session) promptLine() {
	s.buffer.WriteString("\n" + Prompt)
	s.baseline = s.buffer.Len()
}

func (s *Session) reset(content string) {
	s.buffer.Reset()
	s.buffer.WriteString(content)
	s.baseline = s.buffer.Len()
}
