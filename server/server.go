// Package server is the shell bridge: it runs commands sent over a
// websocket or a plain HTTP request and returns their output as text.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"

	"github.com/linanwx/webshell/logger"
	"github.com/linanwx/webshell/shell"
)

const shutdownTimeout = 5 * time.Second

// Config configures the bridge.
type Config struct {
	Addr          string
	WorkDir       string
	Shell         string // default shell for /socket and /execute
	PublicDir     string
	ProbeSchedule string // empty disables scheduled probes
	ExecTimeout   time.Duration
}

// Server serves the bridge routes.
type Server struct {
	cfg    Config
	shell  shell.Shell
	prober *Prober
	router *mux.Router
}

// New creates a server and its routes.
func New(cfg Config) *Server {
	shells := make([]shell.Shell, 0, len(shell.Names()))
	for _, name := range shell.Names() {
		shells = append(shells, shell.Lookup(name))
	}
	s := &Server{
		cfg:    cfg,
		shell:  shell.Lookup(cfg.Shell),
		prober: NewProber(cfg.ProbeSchedule, shells),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler { return s.router }

// Prober returns the shell availability prober.
func (s *Server) Prober() *Prober { return s.prober }

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/shells", s.handleShells).Methods(http.MethodGet)
	r.HandleFunc("/socket", s.handleSocket)
	r.HandleFunc("/socket/{shell}", s.handleSocket)
	r.HandleFunc("/execute", s.handleExecute).Methods(http.MethodPost)

	logsDir := filepath.Join(s.cfg.WorkDir, "logs")
	r.PathPrefix("/logs/").Handler(http.StripPrefix("/logs/", http.FileServer(http.Dir(logsDir))))
	if s.cfg.PublicDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.PublicDir)))
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind TCP listener: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if err := s.prober.Start(ctx); err != nil {
		ln.Close()
		return err
	}
	defer s.prober.Stop()

	srv := &http.Server{
		Handler: s.router,
		// Open sockets see ctx cancellation through their request context.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info("listening", "addr", ln.Addr().String())
	logger.Info("work directory", "dir", s.cfg.WorkDir)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// shellFor resolves a requested shell name, falling back to the default.
func (s *Server) shellFor(name string) shell.Shell {
	if shell.Known(name) {
		return shell.Lookup(name)
	}
	return s.shell
}

func (s *Server) execute(ctx context.Context, sh shell.Shell, command string) string {
	return sh.Execute(ctx, s.cfg.WorkDir, command, s.cfg.ExecTimeout)
}
