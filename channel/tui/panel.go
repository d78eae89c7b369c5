// Package tui provides the full-screen terminal surface.
package tui

import tea "github.com/charmbracelet/bubbletea"

// Panel is a composable TUI region with its own state, update logic, and view.
// The root App model orchestrates panels without knowing their internals.
type Panel interface {
	Update(tea.Msg) (Panel, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// LogLineMsg carries a single log line from the logger writer.
type LogLineMsg struct{ Line string }

// IncomingMsg carries one text frame received from the bridge.
type IncomingMsg struct{ Text string }

// RemoteClosedMsg tells the app the bridge connection has ended.
type RemoteClosedMsg struct{}
