package osm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// maxRetryAfter bounds how long a throttled request waits before its retry.
// The public Nominatim server allows one request per second per client and
// answers bursts with 429; longer bans are reported instead of waited out.
const maxRetryAfter = 5 * time.Second

type httpStatusError struct {
	Code       int
	Body       string
	RetryAfter time.Duration
}

// ClientOptions configure the HTTP behaviour shared by the OSM clients.
// A zero Timeout leaves requests bounded only by their context.
type ClientOptions struct {
	BaseURL     string
	UserAgent   string
	Timeout     time.Duration
	MaxAttempts int
	HTTPClient  *http.Client
}

// apiClient holds the transport plumbing shared by Nominatim and OSRM.
type apiClient struct {
	session     *http.Client
	baseURL     string
	userAgent   string
	maxAttempts int
}

func newAPIClient(opts ClientOptions) (*apiClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("osm client: base url is empty")
	}

	session := opts.HTTPClient
	if session == nil {
		session = &http.Client{Timeout: opts.Timeout}
	}

	attempts := opts.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	return &apiClient{
		session:     session,
		baseURL:     baseURL,
		userAgent:   opts.UserAgent,
		maxAttempts: attempts,
	}, nil
}

func (c *apiClient) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	// Nominatim's usage policy rejects requests without an identifying agent.
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	return req, nil
}

func (c *apiClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code:       resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
			RetryAfter: retryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	}
	return resp, nil
}

// retryAfter parses a Retry-After header given as seconds or as an HTTP date.
func retryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}

// doWithRetry retries transient failures (network errors, 429 and 5xx responses)
// with exponential backoff, or after the server's Retry-After when that is longer.
// A Retry-After above maxRetryAfter ends the retries.
// With maxAttempts == 1 the request is issued exactly once.
func (c *apiClient) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		wait := backoff
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case http.StatusTooManyRequests, 500, 502, 503, 504:
				retry = he.RetryAfter <= maxRetryAfter
				wait = max(wait, he.RetryAfter)
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == c.maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}
