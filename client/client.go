// Package client calls the bridge's plain HTTP routes.
package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 60 * time.Second

// Client talks to one bridge.
type Client struct {
	resty *resty.Client
}

// New creates a client for the bridge at addr (host[:port] or a URL).
func New(addr string) (*Client, error) {
	base, err := BaseURL(addr)
	if err != nil {
		return nil, err
	}
	r := resty.New().
		SetBaseURL(base).
		SetTimeout(defaultTimeout).
		SetHeader("User-Agent", "webshell/1.0")
	return &Client{resty: r}, nil
}

// Shells lists the shells the bridge reports as available.
func (c *Client) Shells(ctx context.Context) ([]string, error) {
	var names []string
	resp, err := c.resty.R().
		SetContext(ctx).
		SetResult(&names).
		Get("/shells")
	if err != nil {
		return nil, fmt.Errorf("list shells: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list shells: %s", resp.Status())
	}
	return names, nil
}

// Execute runs command with the bridge's default shell and returns
// its output text.
func (c *Client) Execute(ctx context.Context, command string) (string, error) {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain; charset=utf-8").
		SetBody(command).
		Post("/execute")
	if err != nil {
		return "", fmt.Errorf("execute: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("execute: %s", resp.Status())
	}
	return resp.String(), nil
}

// BaseURL turns an address into the bridge's HTTP origin. Websocket
// schemes map to their HTTP counterparts.
func BaseURL(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", fmt.Errorf("bridge address is empty")
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("invalid bridge address %q: %w", addr, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("bridge address %q has no host", addr)
	}
	scheme := "http"
	switch strings.ToLower(u.Scheme) {
	case "https", "wss":
		scheme = "https"
	}
	return scheme + "://" + u.Host, nil
}
