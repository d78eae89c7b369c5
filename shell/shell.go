// Package shell describes the command interpreters the bridge can run
// and executes single commands through them.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"

	"github.com/linanwx/webshell/logger"
)

// waitDelay bounds how long output pipes are drained after the process
// is killed, since grandchildren may still hold them open.
const waitDelay = 500 * time.Millisecond

// Shell is one command interpreter.
type Shell struct {
	Name        string
	Program     string
	Argument    string // flag that makes Program run a single command string
	VersionFlag string
	Encoding    encoding.Encoding
}

var (
	Cmd = Shell{Name: "cmd", Program: "cmd", Argument: "/c", VersionFlag: "/v", Encoding: simplifiedchinese.GBK}
	Sh  = Shell{Name: "sh", Program: "sh", Argument: "-c", VersionFlag: "--version", Encoding: unicode.UTF8}
	Nu  = Shell{Name: "nu", Program: "nu", Argument: "-c", VersionFlag: "--version", Encoding: unicode.UTF8}
)

var builtin = map[string]Shell{
	Cmd.Name: Cmd,
	Sh.Name:  Sh,
	Nu.Name:  Nu,
}

// Lookup returns the named shell. Unknown names fall back to cmd.
func Lookup(name string) Shell {
	if sh, ok := builtin[strings.ToLower(strings.TrimSpace(name))]; ok {
		return sh
	}
	return Cmd
}

// Known reports whether name is a built-in shell.
func Known(name string) bool {
	_, ok := builtin[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Names returns the built-in shell names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Version runs the shell's version flag and returns its decoded stdout.
func (s Shell) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, s.Program, s.VersionFlag).Output()
	if err != nil {
		return "", fmt.Errorf("%s version: %w", s.Name, err)
	}
	return strings.TrimSpace(s.decode(out)), nil
}

// Execute runs command in workDir and returns the text to show the user:
// stdout on success, stderr on a non-zero exit, the error text when the
// process could not be run at all. A positive timeout bounds the run.
func (s Shell) Execute(ctx context.Context, workDir, command string, timeout time.Duration) string {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, s.Program, s.Argument, command)
	cmd.Dir = workDir
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return s.decode(stdout.Bytes())
	case errors.As(err, &exitErr):
		if ctx.Err() != nil {
			logger.Warn("command timed out", "shell", s.Name, "command", command)
		}
		return s.decode(stderr.Bytes())
	default:
		logger.Error("failed to execute command", "shell", s.Name, "err", err)
		return err.Error()
	}
}

func (s Shell) decode(b []byte) string {
	if s.Encoding == nil {
		return string(b)
	}
	out, err := s.Encoding.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}
