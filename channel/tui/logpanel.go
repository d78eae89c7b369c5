package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultMaxLogLines = 500

var logLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // dim gray

// LogPanel displays client log records below the terminal.
type LogPanel struct {
	viewport viewport.Model
	lines    []string
	maxLines int
}

// NewLogPanel creates a log panel.
func NewLogPanel() *LogPanel {
	return &LogPanel{
		viewport: viewport.New(0, 0),
		maxLines: defaultMaxLogLines,
	}
}

// Lines returns the retained log lines, oldest first.
func (p *LogPanel) Lines() []string { return p.lines }

func (p *LogPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if msg, ok := msg.(LogLineMsg); ok {
		line := strings.TrimRight(msg.Line, "\n")
		p.lines = append(p.lines, line)
		if len(p.lines) > p.maxLines {
			p.lines = p.lines[len(p.lines)-p.maxLines:]
		}
		p.viewport.SetContent(logLineStyle.Render(strings.Join(p.lines, "\n")))
		p.viewport.GotoBottom()
	}
	return p, nil
}

func (p *LogPanel) View() string {
	return p.viewport.View()
}

func (p *LogPanel) SetSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = height
}
