// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP client and request helpers used to
// fetch session-protected assets.
package httputil

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/pdiddy/md-assets/pkg/types"
)

const defaultTimeout = 60 * time.Second

// NewClient returns a client for streaming downloads. cfg.Timeout bounds
// connecting and waiting for response headers, not the body transfer, so
// large attachments are not cut off mid-stream. Redirects are followed with
// the standard library's policy.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = timeout
	transport.ResponseHeaderTimeout = timeout
	return &http.Client{Transport: transport}
}

// SessionCookie returns the Cookie header value for a GitHub session token.
func SessionCookie(token string) string {
	return fmt.Sprintf("user_session=%s; logged_in=yes", token)
}

// NewAssetRequest builds a GET for url carrying the browser-like User-Agent
// and, when a token is configured, the session cookie. The client drops the
// cookie on redirects to other hosts, so CDN hops never see it.
func NewAssetRequest(ctx context.Context, url string, cfg types.LocalizeConfig) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = types.DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	if cfg.SessionToken != "" {
		req.Header.Set("Cookie", SessionCookie(cfg.SessionToken))
	}
	return req, nil
}
