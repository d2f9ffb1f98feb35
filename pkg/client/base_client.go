package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const maxBodySize = 4 << 20

var (
	// ErrNotFound is returned when the upstream answers 404 for the query.
	ErrNotFound = errors.New("city not found")
	// ErrUpstream covers transport failures, non-2xx statuses and an open breaker.
	ErrUpstream = errors.New("upstream request failed")
	// ErrInvalidResponse is returned when a 2xx body cannot be decoded.
	ErrInvalidResponse = errors.New("invalid upstream response")
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type BaseClient struct {
	client         HTTPClient
	logger         *zap.Logger
	circuitBreaker *gobreaker.CircuitBreaker
	secretParams   []string
}

type ClientConfig struct {
	Timeout        time.Duration
	Threshold      int
	BreakerTimeout time.Duration
	// HTTPClient overrides the default *http.Client, mostly for tests.
	HTTPClient     HTTPClient
}

func NewBaseClient(name string, config ClientConfig, logger *zap.Logger) *BaseClient {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: config.Timeout,
		}
	}

	threshold := uint32(1)
	if config.Threshold > 1 {
		threshold = uint32(config.Threshold)
	}

	// Circuit breaker settings
	breakerSettings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// An unknown city is a valid answer, not an unhealthy upstream.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				zap.String("client", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &BaseClient{
		client:         httpClient,
		logger:         logger,
		circuitBreaker: gobreaker.NewCircuitBreaker(breakerSettings),
	}
}

// RedactParams marks query parameters whose values must never reach the logs.
func (c *BaseClient) RedactParams(names ...string) {
	c.secretParams = append(c.secretParams, names...)
}

// Get issues a single GET for rawURL with params percent-encoded into the
// query string and returns the body of a 2xx response.
func (c *BaseClient) Get(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url failed: %w", err)
	}
	u.RawQuery = params.Encode()

	result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.doGet(ctx, u)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		return nil, err
	}

	return result.([]byte), nil
}

func (c *BaseClient) doGet(ctx context.Context, u *url.URL) ([]byte, error) {
	logURL := c.redact(u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request failed: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// *url.Error embeds the full URL, secrets included.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		c.logger.Warn("HTTP request failed",
			zap.String("url", logURL),
			zap.Error(err))
		return nil, fmt.Errorf("%w: request to %s failed: %v", ErrUpstream, logURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := upstreamMessage(body)
		c.logger.Debug("Upstream returned error status",
			zap.String("url", logURL),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))

		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, msg)
		}
		return nil, fmt.Errorf("%w: HTTP %d %s", ErrUpstream, resp.StatusCode, msg)
	}

	c.logger.Debug("Request successful",
		zap.String("url", logURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("body_size", len(body)))

	return body, nil
}

func (c *BaseClient) redact(u *url.URL) string {
	if len(c.secretParams) == 0 {
		return u.String()
	}
	redacted := *u
	q := redacted.Query()
	for _, name := range c.secretParams {
		if q.Has(name) {
			q.Set(name, "REDACTED")
		}
	}
	redacted.RawQuery = q.Encode()
	return redacted.String()
}

// upstreamMessage pulls the "message" field out of an error body, if any.
func upstreamMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
