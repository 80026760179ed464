package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// orsClient is the HTTP transport shared by the geocode and matrix calls.
// Every attempt, retries included, waits on the limiter first.
type orsClient struct {
	http    *http.Client
	apiKey  string
	baseURL string
	limiter *rate.Limiter
	backoff time.Duration
}

const maxAttempts = 4

func (c *orsClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return c.send(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *orsClient) postJSON(ctx context.Context, path string, in any, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.send(ctx, http.MethodPost, c.baseURL+path, payload, out)
}

// send retries transient failures (network errors, 429 and 5xx responses)
// with exponential backoff and decodes the JSON body into out.
func (c *orsClient) send(ctx context.Context, method, endpoint string, payload []byte, out any) error {
	backoff := c.backoff
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limit wait: %w", err)
			}
		}

		lastErr = c.once(ctx, method, endpoint, payload, out)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) || attempt == maxAttempts {
			return lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}

	return lastErr
}

func (c *orsClient) once(ctx context.Context, method, endpoint string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func retryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
