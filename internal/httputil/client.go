// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP client and request helper shared by the
// remote-service stages. Transport failures and non-success statuses come
// back as typed errors so callers can tell them apart.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethgrid/pester"

	"github.com/pdiddy/get-papers-list/pkg/types"
)

// DefaultTimeout applies when the config leaves Timeout unset.
const DefaultTimeout = 60 * time.Second

// maxErrorBody caps how much of an error response body ends up in the message.
const maxErrorBody = 200

// Doer sends a single HTTP request. *http.Client and *pester.Client both
// satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewClient returns a pester client over a standard http.Client. Each
// request gets exactly one attempt: a failed request fails the run.
func NewClient(cfg types.HTTPConfig) *pester.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := pester.NewExtendedClient(&http.Client{Timeout: timeout})
	c.Concurrency = 1
	c.MaxRetries = 1
	return c
}

// Get issues a GET to base with params and returns the response body.
// op names the call in error messages (e.g. "esearch").
//
// Transport and body-read failures return a KindNetwork error; statuses
// outside 2xx return a KindService error carrying the start of the body.
func Get(ctx context.Context, doer Doer, base string, params url.Values, userAgent, op string) ([]byte, error) {
	reqURL := base
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", op, err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := doer.Do(req)
	if err != nil {
		return nil, types.NewError(types.KindNetwork, op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewError(types.KindNetwork, op, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, types.NewError(types.KindService, op, statusError(resp.StatusCode, body))
	}
	return body, nil
}

func statusError(code int, body []byte) error {
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > maxErrorBody {
		snippet = snippet[:maxErrorBody] + "..."
	}
	if snippet == "" {
		return fmt.Errorf("HTTP %d", code)
	}
	return fmt.Errorf("HTTP %d: %s", code, snippet)
}
