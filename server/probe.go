package server

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	robfigcron "github.com/robfig/cron/v3"

	"github.com/linanwx/webshell/logger"
	"github.com/linanwx/webshell/shell"
)

const probeTimeout = 10 * time.Second

// Prober records which shells are installed by running their version
// flag, once at start and then on a cron schedule.
type Prober struct {
	cron     *robfigcron.Cron
	schedule string
	shells   []shell.Shell

	mu       sync.RWMutex
	versions map[string]string
	probed   bool
}

// NewProber creates a prober. An empty schedule probes only on Start.
func NewProber(schedule string, shells []shell.Shell) *Prober {
	return &Prober{
		cron:     robfigcron.New(),
		schedule: schedule,
		shells:   shells,
		versions: make(map[string]string),
	}
}

// Start probes once and schedules later probes.
func (p *Prober) Start(ctx context.Context) error {
	if p.schedule != "" {
		if _, err := p.cron.AddFunc(p.schedule, func() { p.Probe(ctx) }); err != nil {
			return fmt.Errorf("invalid probe schedule %q: %w", p.schedule, err)
		}
	}
	go p.Probe(ctx)
	p.cron.Start()
	return nil
}

// Stop halts scheduled probes and waits for a running one to finish.
func (p *Prober) Stop() {
	<-p.cron.Stop().Done()
}

// Probe checks every shell now.
func (p *Prober) Probe(ctx context.Context) {
	versions := make(map[string]string, len(p.shells))
	for _, sh := range p.shells {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		version, err := sh.Version(probeCtx)
		cancel()
		if err != nil {
			logger.Debug("shell unavailable", "shell", sh.Name, "err", err)
			continue
		}
		versions[sh.Name] = version
	}

	p.mu.Lock()
	p.versions = versions
	p.probed = true
	p.mu.Unlock()
	logger.Info("shell probe finished", "available", len(versions), "known", len(p.shells))
}

// Available lists the shells that answered the last probe. Before the
// first probe completes every known shell is listed.
func (p *Prober) Available() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.shells))
	for _, sh := range p.shells {
		if _, ok := p.versions[sh.Name]; ok || !p.probed {
			names = append(names, sh.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Versions returns the version text of each available shell.
func (p *Prober) Versions() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]string, len(p.versions))
	for k, v := range p.versions {
		out[k] = v
	}
	return out
}
