package client

import "fmt"

// RateLimitExhaustedError means upstream kept answering 429 past the
// retry budget.
type RateLimitExhaustedError struct {
	URL string
}

func (e *RateLimitExhaustedError) Error() string {
	return fmt.Sprintf("rate limit exhausted after retries: %s", e.URL)
}

// NetworkError means the request never got an HTTP response, even
// after retries.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError is any non-2xx, non-429 upstream status. Not retried.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream returned %d for %s", e.StatusCode, e.URL)
}
