package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"parliament-sync-service/internal/logger"
)

// Client is the rate-limited fetch client all upstream calls go
// through. 429 and transport failures are retried with exponential
// backoff; any other non-2xx status fails immediately.
type Client struct {
	httpClient  *http.Client
	limiter     *Limiter
	maxRetries  int
	backoffBase time.Duration
}

func New(limiter *Limiter, maxRetries int, backoffBase time.Duration) *Client {
	return &Client{
		httpClient:  &http.Client{},
		limiter:     limiter,
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
	}
}

// GetJSON fetches url and decodes the response body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out interface{}) error {
	body, err := c.fetch(ctx, url)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		body, status, err := c.do(ctx, url)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt >= c.maxRetries {
				return nil, &NetworkError{URL: url, Err: err}
			}
		case status == http.StatusTooManyRequests:
			if attempt >= c.maxRetries {
				return nil, &RateLimitExhaustedError{URL: url}
			}
		case status < 200 || status >= 300:
			return nil, &HTTPError{StatusCode: status, URL: url}
		default:
			return body, nil
		}

		delay := c.backoffBase * (1 << attempt)
		logger.Log.Warn("Retrying upstream request",
			zap.String("url", url),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (c *Client) do(ctx context.Context, url string) ([]byte, int, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, 0, err
	}
	defer c.limiter.Release()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	return body, resp.StatusCode, nil
}

// Pending reports the fetch queue depth (queued + in flight).
func (c *Client) Pending() int {
	return c.limiter.Pending()
}

// Drain blocks until all enqueued requests have completed. Used
// defensively at the end of a run; correctness does not depend on it
// since callers await each fetch directly.
func (c *Client) Drain() {
	c.limiter.Drain()
}
