// Package logger wraps log/slog with process-wide settings.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Config describes logger settings.
type Config struct {
	Enabled bool
	Level   string
	Stdout  bool
	File    string
}

var (
	mu   sync.RWMutex
	base = slog.New(slog.NewTextHandler(os.Stderr, nil))

	current   Config
	file      *os.File
	intercept io.Writer // non-nil while a TUI owns the terminal
)

// Init applies cfg. A relative File is resolved against baseDir.
func Init(cfg Config, baseDir string) error {
	mu.Lock()
	defer mu.Unlock()

	current = cfg
	if file != nil {
		_ = file.Close()
		file = nil
	}

	var initErr error
	if cfg.Enabled && cfg.File != "" {
		path := resolvePath(cfg.File, baseDir)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("logger: create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			initErr = fmt.Errorf("logger: open log file: %w", err)
		} else {
			file = f
		}
	}

	rebuild()
	return initErr
}

// Intercept sends console output to w instead of stdout. The log file,
// if any, keeps receiving records.
func Intercept(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	intercept = w
	rebuild()
}

// Restore undoes Intercept.
func Restore() {
	mu.Lock()
	defer mu.Unlock()
	intercept = nil
	rebuild()
}

// Must be called with mu held.
func rebuild() {
	if !current.Enabled {
		base = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}

	var writers []io.Writer
	switch {
	case intercept != nil:
		writers = append(writers, intercept)
	case current.Stdout:
		writers = append(writers, os.Stdout)
	}
	if file != nil {
		writers = append(writers, file)
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	opts := &slog.HandlerOptions{Level: parseLevel(current.Level)}
	base = slog.New(slog.NewTextHandler(io.MultiWriter(writers...), opts))
}

// With returns a logger that carries args on every record.
func With(args ...any) *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With(args...)
}

func Debug(msg string, args ...any) { log(slog.LevelDebug, msg, args...) }

func Info(msg string, args ...any) { log(slog.LevelInfo, msg, args...) }

func Warn(msg string, args ...any) { log(slog.LevelWarn, msg, args...) }

func Error(msg string, args ...any) { log(slog.LevelError, msg, args...) }

func log(level slog.Level, msg string, args ...any) {
	mu.RLock()
	l := base
	mu.RUnlock()
	l.Log(context.Background(), level, msg, args...)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func resolvePath(path, baseDir string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
