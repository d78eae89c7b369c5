package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linanwx/webshell/logger"
	"github.com/linanwx/webshell/terminal"
)

var cursorStyle = lipgloss.NewStyle().Reverse(true)

// TerminalPanel shows the session's display buffer and feeds it keys.
type TerminalPanel struct {
	session  *terminal.Session
	viewport viewport.Model
	width    int
	follow   bool
}

// NewTerminalPanel creates a panel driving a fresh session over sender.
// Update calls sender.Send on the program's event loop, so it must not
// block or log.
func NewTerminalPanel(sender terminal.Sender) *TerminalPanel {
	p := &TerminalPanel{viewport: viewport.New(0, 0)}
	p.session = terminal.NewSession(sender, terminal.WithScroller(func() { p.follow = true }))
	p.session.ShowPrompt()
	return p
}

// Session returns the panel's session.
func (p *TerminalPanel) Session() *terminal.Session { return p.session }

func (p *TerminalPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case IncomingMsg:
		p.session.HandleMessage(msg.Text)
		p.refresh()
		return p, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			p.viewport, cmd = p.viewport.Update(msg)
			return p, cmd
		}
		err := p.session.Press(context.Background(), keyEvent(msg))
		p.follow = true
		p.refresh()
		if err != nil {
			return p, logSendError(err)
		}
		return p, nil
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *TerminalPanel) View() string {
	return p.viewport.View()
}

func (p *TerminalPanel) SetSize(width, height int) {
	p.width = width
	p.viewport.Width = width
	p.viewport.Height = height
	p.follow = true
	p.refresh()
}

func (p *TerminalPanel) refresh() {
	content := p.session.Buffer() + cursorStyle.Render(" ")
	if p.width > 0 {
		content = lipgloss.NewStyle().Width(p.width).Render(content)
	}
	p.viewport.SetContent(content)
	if p.follow {
		p.viewport.GotoBottom()
		p.follow = false
	}
}

// logSendError logs off the event loop; the logger may be feeding
// this program.
func logSendError(err error) tea.Cmd {
	return func() tea.Msg {
		logger.Warn("send failed", "err", err)
		return nil
	}
}

func keyEvent(msg tea.KeyMsg) terminal.KeyEvent {
	switch msg.Type {
	case tea.KeyEnter:
		return terminal.KeyEvent{Key: terminal.KeyEnter}
	case tea.KeyUp:
		return terminal.KeyEvent{Key: terminal.KeyUp}
	case tea.KeyBackspace:
		return terminal.KeyEvent{Key: terminal.KeyBackspace}
	case tea.KeySpace:
		return terminal.KeyEvent{Key: terminal.KeyRunes, Runes: []rune{' '}}
	case tea.KeyTab:
		return terminal.KeyEvent{Key: terminal.KeyRunes, Runes: []rune{'\t'}}
	case tea.KeyRunes:
		return terminal.KeyEvent{Key: terminal.KeyRunes, Runes: msg.Runes}
	}
	return terminal.KeyEvent{Key: terminal.KeyOther}
}
