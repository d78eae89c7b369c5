package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linanwx/webshell/terminal"
)

func newTestApp(t *testing.T) (*App, *[]string) {
	t.Helper()
	var sent []string
	app := NewApp(terminal.SenderFunc(func(_ context.Context, text string) error {
		sent = append(sent, text)
		return nil
	}))
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return app, &sent
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAppRoutesKeysAndMessagesToSession(t *testing.T) {
	app, sent := newTestApp(t)

	app.Update(IncomingMsg{Text: "welcome"})
	app.Update(runes("ls"))
	app.Update(tea.KeyMsg{Type: tea.KeySpace})
	app.Update(runes("-a"))
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if len(*sent) != 1 || (*sent)[0] != "ls -a" {
		t.Fatalf("sent = %q, want [\"ls -a\"]", *sent)
	}
	if got, want := app.Session().Buffer(), "> welcome\n> ls -a\n"; got != want {
		t.Fatalf("Buffer() = %q, want %q", got, want)
	}

	app.Update(IncomingMsg{Text: "a.txt"})
	app.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got, want := app.Session().Buffer(), "> welcome\n> ls -a\na.txt\n> ls -a"; got != want {
		t.Fatalf("Buffer() = %q, want %q", got, want)
	}

	if view := app.View(); !strings.Contains(view, "a.txt") {
		t.Fatalf("View() = %q, want it to show the buffer", view)
	}
}

func TestAppShowsPromptBeforeFirstMessage(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(runes("pwd"))
	if got, want := app.Session().Buffer(), "> pwd"; got != want {
		t.Fatalf("Buffer() = %q, want %q", got, want)
	}
	if got := app.Session().Input(); got != "pwd" {
		t.Fatalf("Input() = %q, want %q", got, "pwd")
	}
}

func TestAppDefersSendErrorLogging(t *testing.T) {
	app := NewApp(terminal.SenderFunc(func(context.Context, string) error {
		return errors.New("closed")
	}))
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	app.Update(runes("ls"))
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Update(Enter) returned no command, want one that logs the send error")
	}
	if msg := cmd(); msg != nil {
		t.Fatalf("log command returned %T, want nil", msg)
	}
}

func TestAppClearAndBlankEnter(t *testing.T) {
	app, sent := newTestApp(t)

	app.Update(IncomingMsg{Text: "noise"})
	app.Update(runes("clear"))
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := app.Session().Buffer(); got != "> " {
		t.Fatalf("Buffer() = %q, want %q", got, "> ")
	}

	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := app.Session().Buffer(); got != "> \n> " {
		t.Fatalf("Buffer() = %q, want %q", got, "> \n> ")
	}
	if len(*sent) != 0 {
		t.Fatalf("sent = %q, want nothing", *sent)
	}
}

func TestAppQuits(t *testing.T) {
	app, _ := newTestApp(t)

	for _, msg := range []tea.Msg{tea.KeyMsg{Type: tea.KeyCtrlC}, RemoteClosedMsg{}} {
		_, cmd := app.Update(msg)
		if cmd == nil {
			t.Fatalf("Update(%T) returned no command, want tea.Quit", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("Update(%T) command did not quit", msg)
		}
	}
}

func TestLogPanelKeepsRecentLines(t *testing.T) {
	p := NewLogPanel()
	p.maxLines = 3
	for _, line := range []string{"a\n", "b", "c", "d"} {
		p.Update(LogLineMsg{Line: line})
	}
	if got := strings.Join(p.Lines(), ","); got != "b,c,d" {
		t.Fatalf("Lines() = %q, want %q", got, "b,c,d")
	}
}
