// Package provider fetches fiat exchange rates and crypto market prices from
// external HTTP APIs. Every client is rate limited. A failed or malformed
// response is a single *APIError, never a partial result.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"finances/internal/logger"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second

	maxBodyBytes = 4 << 20
)

// Quote is the price of one unit of Base expressed in Quote.
type Quote struct {
	Base  string
	Quote string
	Price decimal.Decimal
}

// FiatSource returns exchange rates between fiat currencies.
type FiatSource interface {
	// FiatPrices returns, for each quote code, how many units of it one unit of base buys.
	FiatPrices(ctx context.Context, base string, quotes []string) (map[string]decimal.Decimal, error)
	// AllFiatPrices returns every pair the source publishes.
	AllFiatPrices(ctx context.Context) ([]Quote, error)
}

// CryptoSource returns live crypto market prices keyed by trading symbol (e.g. BTCUSDT).
type CryptoSource interface {
	CryptoPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	CryptoPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}

// APIError represents a failed call to a price source.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %s (status: %d, endpoint: %s)", e.Provider, e.Message, e.StatusCode, e.Endpoint)
}

// Option configures a client.
type Option func(*client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) Option {
	return func(c *client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the HTTP client, keeping the configured timeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) {
		timeout := c.httpClient.Timeout
		c.httpClient = httpClient
		if c.httpClient.Timeout == 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// client is the rate-limited JSON-over-HTTP core shared by the sources.
type client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.SugaredLogger
}

func newClient(name, baseURL string, opts []Option) *client {
	c := &client{
		name:       name,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		log:        logger.Named("provider").With("provider", name),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) apiError(status int, endpoint, format string, args ...any) *APIError {
	return &APIError{Provider: c.name, StatusCode: status, Message: fmt.Sprintf(format, args...), Endpoint: endpoint}
}

// get performs a rate-limited GET and decodes a 2xx JSON body into result.
// errorBody, if non-nil, receives the decoded body of a non-2xx response and
// returns the message to report.
func (c *client) get(ctx context.Context, path string, params url.Values, result any, errorBody func([]byte) string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return c.apiError(0, path, "rate limit wait: %v", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return c.apiError(0, path, "building request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.apiError(0, path, "request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return c.apiError(resp.StatusCode, path, "reading response: %v", err)
	}
	c.log.Debugw("price request", "path", path, "status", resp.StatusCode, "latency_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := http.StatusText(resp.StatusCode)
		if errorBody != nil {
			if m := errorBody(body); m != "" {
				msg = m
			}
		}
		return c.apiError(resp.StatusCode, path, "%s", msg)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return c.apiError(resp.StatusCode, path, "malformed response: %v", err)
	}
	return nil
}
