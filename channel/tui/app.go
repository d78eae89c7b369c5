package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linanwx/webshell/terminal"
)

const defaultLogRatio = 0.2

var separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

// App is the root bubbletea model: the terminal on top, client logs below.
// Both session handlers run inside Update, so bubbletea's event loop is
// the session's single dispatcher.
type App struct {
	terminal *TerminalPanel
	logPanel Panel

	width, height int
	logRatio      float64
}

// NewApp creates the root model for a session over sender.
func NewApp(sender terminal.Sender) *App {
	return &App{
		terminal: NewTerminalPanel(sender),
		logPanel: NewLogPanel(),
		logRatio: defaultLogRatio,
	}
}

// Session exposes the underlying session.
func (m *App) Session() *terminal.Session { return m.terminal.Session() }

func (m *App) Init() tea.Cmd { return nil }

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		_, cmd := m.terminal.Update(msg)
		return m, cmd

	case RemoteClosedMsg:
		return m, tea.Quit

	case LogLineMsg:
		p, cmd := m.logPanel.Update(msg)
		m.logPanel = p
		return m, cmd
	}

	_, cmd := m.terminal.Update(msg)
	return m, cmd
}

func (m *App) View() string {
	if m.width == 0 || m.height == 0 {
		return "connecting..."
	}

	sep := separatorStyle.Render(strings.Repeat("─", m.width))
	return lipgloss.JoinVertical(lipgloss.Left,
		m.terminal.View(),
		sep,
		m.logPanel.View(),
	)
}

func (m *App) recalcLayout() {
	const sepLines = 1

	usable := max(m.height-sepLines, 2)
	logH := max(int(float64(usable)*m.logRatio), 1)
	termH := max(usable-logH, 1)

	m.terminal.SetSize(m.width, termH)
	m.logPanel.SetSize(m.width, logH)
}
