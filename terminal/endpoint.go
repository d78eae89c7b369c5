package terminal

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultShell is the shell requested when none is given.
const DefaultShell = "sh"

// EndpointURL derives the socket address of a shell bridge from the
// address the client was pointed at. Secure origins (https, wss) map to
// wss, everything else to ws.
func EndpointURL(addr, shell string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", fmt.Errorf("endpoint address is empty")
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint address %q: %w", addr, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("endpoint address %q has no host", addr)
	}

	scheme := "ws"
	switch strings.ToLower(u.Scheme) {
	case "https", "wss":
		scheme = "wss"
	}

	shell = strings.TrimSpace(shell)
	if shell == "" {
		shell = DefaultShell
	}

	out := url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   "/socket/" + shell,
	}
	return out.String(), nil
}
