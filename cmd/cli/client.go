package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/iho/moneybook/internal/adapter/http/dto"
	"github.com/iho/moneybook/internal/adapter/http/middleware"
)

// apiError is a non-2xx answer from the API.
type apiError struct {
	Status int
	Body   dto.ErrorResponse
}

func (e *apiError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "api error (%d): %s", e.Status, e.Body.Error)
	if e.Body.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Body.Message)
	}
	for field, msg := range e.Body.Fields {
		fmt.Fprintf(&b, "\n  %s %s", field, msg)
	}
	return b.String()
}

type client struct {
	baseURL string
	http    *http.Client
}

func newClient(opts *options) *client {
	return &client{
		baseURL: strings.TrimRight(opts.baseURL, "/") + "/api/v1",
		http:    &http.Client{Timeout: opts.timeout},
	}
}

// do sends the request and decodes a JSON response into out. It returns the
// raw body so --json can print it unchanged.
func (c *client) do(ctx context.Context, method, path string, query url.Values, body any, headers map[string]string, out any) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode}
		if json.Unmarshal(raw, &apiErr.Body) != nil || apiErr.Body.Error == "" {
			apiErr.Body.Error = strings.TrimSpace(string(raw))
		}
		return nil, apiErr
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return raw, nil
}

func idempotencyHeader(key string) map[string]string {
	if key == "" {
		return nil
	}
	return map[string]string{middleware.IdempotencyKeyHeader: key}
}
