// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/aurora-tui/internal/logx"
	"github.com/jeranaias/aurora-tui/internal/model"
)

// Configuration constants for the generative language API.
const (
	// DefaultBaseURL is the base URL for the generative language API.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is the model used when the config names none.
	DefaultModel = "gemini-2.0-flash"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxAttempts is the total number of tries a dispatch gets
	// before the transient failure is surfaced to the caller.
	DefaultMaxAttempts = 3

	// retryBaseDelay is the base delay for exponential backoff. The delay
	// after failed attempt n is retryBaseDelay << n: 2s, 4s, 8s.
	retryBaseDelay = 1 * time.Second

	// retryMaxDelay caps the exponential backoff for callers that raise
	// the attempt bound.
	retryMaxDelay = 30 * time.Second

	// defaultRequestInterval is the minimum spacing between dispatches.
	defaultRequestInterval = 500 * time.Millisecond

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// apiKeyHeader carries the key. Keeping it out of the query string
	// keeps request URLs safe to log.
	apiKeyHeader = "x-goog-api-key"

	userAgent = "aurora/0.3.0"
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// Shared HTTP client with connection pooling for all API requests.
// SECURITY: TLS verification required for production
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// sleepFunc waits out a backoff delay or returns early with the context's
// error. Tests substitute their own to observe the schedule without it.
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// RetryHook is invoked after each failed attempt, before its backoff
// delay. The chat view uses it to surface retry progress.
type RetryHook func(attempt, maxAttempts int, err error, delay time.Duration)

// Client is a client for the generative language API.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	model       string
	speechModel string
	voice       string
	maxAttempts int
	limiter     *rate.Limiter
	sleep       sleepFunc
	onRetry     RetryHook
}

// NewClient creates a new client with the given API key.
//
// If the key is empty the client is still created, but dispatches fail
// with ErrNotConfigured.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:      strings.TrimSpace(apiKey),
		baseURL:     DefaultBaseURL,
		httpClient:  sharedHTTPClient,
		model:       DefaultModel,
		speechModel: DefaultSpeechModel,
		voice:       DefaultVoice,
		maxAttempts: DefaultMaxAttempts,
		limiter:     rate.NewLimiter(rate.Every(defaultRequestInterval), 1),
		sleep:       sleepContext,
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithTimeout sets the request timeout. The shared transport is kept so
// connection pooling still applies.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient = &http.Client{
		Transport: sharedHTTPClient.Transport,
		Timeout:   timeout,
	}
	return c
}

// WithMaxAttempts sets the total number of tries per dispatch.
func (c *Client) WithMaxAttempts(n int) *Client {
	if n > 0 {
		c.maxAttempts = n
	}
	return c
}

// WithRequestInterval sets the minimum spacing between dispatches.
// Zero or negative disables rate limiting.
func (c *Client) WithRequestInterval(d time.Duration) *Client {
	if d <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 0)
		return c
	}
	c.limiter = rate.NewLimiter(rate.Every(d), 1)
	return c
}

// WithVoice sets the prebuilt voice used for speech synthesis.
func (c *Client) WithVoice(name string) *Client {
	if name != "" {
		c.voice = name
	}
	return c
}

// WithSpeechModel sets the model used for speech synthesis.
func (c *Client) WithSpeechModel(m string) *Client {
	if m != "" {
		c.speechModel = m
	}
	return c
}

// WithRetryHook registers a callback invoked after each failed attempt.
func (c *Client) WithRetryHook(hook RetryHook) *Client {
	c.onRetry = hook
	return c
}

// withSleep substitutes the backoff sleeper. Test hook.
func (c *Client) withSleep(fn sleepFunc) *Client {
	c.sleep = fn
	return c
}

// SetModel sets the model used for text generation. Friendly aliases such
// as "flash" or "pro" resolve to full identifiers.
func (c *Client) SetModel(m string) {
	c.model = model.ResolveModel(m)
}

// Model returns the current text generation model.
func (c *Client) Model() string {
	return c.model
}

// Voice returns the current synthesis voice.
func (c *Client) Voice() string {
	return c.voice
}

// IsConfigured returns true if the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// APIKeyMasked returns a masked form of the API key for display.
// SECURITY: Never exposes key fragments - use the fingerprint instead.
func (c *Client) APIKeyMasked() string {
	if c.apiKey == "" {
		return "[not set]"
	}
	return fmt.Sprintf("[REDACTED, length=%d, fingerprint=%s]", len(c.apiKey), c.keyFingerprint())
}

// keyFingerprint returns a short SHA-256 fingerprint of the API key,
// a stable identifier for logs that exposes nothing of the key itself.
func (c *Client) keyFingerprint() string {
	if c.apiKey == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(c.apiKey))
	return hex.EncodeToString(h[:4])
}

// =============================================================================
// REQUEST DISPATCH AND RETRY
// =============================================================================

// Generate posts a generation request and returns the reply text.
//
// Transient failures are retried with exponential backoff until the
// attempt bound is reached; the delay after failed attempt n is
// retryBaseDelay << n, so the default schedule is 2s, 4s, 8s. The final
// failed attempt also waits out its backoff before the exhausted error is
// surfaced. Non-retryable failures and empty replies surface immediately.
func (c *Client) Generate(ctx context.Context, req *GenerateRequest) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	endpoint := c.endpoint(c.model)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err := c.doGenerate(ctx, endpoint, body)
		if err == nil {
			text, ok := resp.FirstText()
			if !ok {
				return "", ErrEmptyResponse
			}
			if resp.UsageMetadata != nil {
				logx.Debug().
					Int("prompt_tokens", resp.UsageMetadata.PromptTokenCount).
					Int("output_tokens", resp.UsageMetadata.CandidatesTokenCount).
					Msg("generation complete")
			}
			return text, nil
		}

		if !isRetryable(err) {
			return "", err
		}
		lastErr = err

		delay := c.backoff(attempt)
		logx.Warn().
			Int("attempt", attempt).
			Int("max_attempts", c.maxAttempts).
			Dur("backoff", delay).
			Err(err).
			Msg("generate attempt failed")
		if c.onRetry != nil {
			c.onRetry(attempt, c.maxAttempts, err, delay)
		}
		if err := c.sleep(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("%w: %w", ErrRetriesExhausted, lastErr)
}

// doGenerate performs a single HTTP request against a generateContent
// endpoint and parses the reply.
//
// SECURITY: Clears the key header after the request to prevent logging.
func (c *Client) doGenerate(ctx context.Context, endpoint string, body []byte) (*GenerateResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	c.logRequest(req)
	start := time.Now()
	resp, err := c.httpClient.Do(req)

	// SECURITY: Clear the key header immediately after the request.
	req.Header.Del(apiKeyHeader)

	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	c.logResponse(resp, time.Since(start))

	respBody, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, handleErrorResponse(resp.StatusCode, respBody)
	}

	var gr GenerateResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &gr, nil
}

// backoff returns the delay after the given failed attempt (1-based).
func (c *Client) backoff(attempt int) time.Duration {
	delay := retryBaseDelay << uint(attempt)
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}

// endpoint builds the generateContent URL for a model.
func (c *Client) endpoint(model string) string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
}

// setHeaders sets the required headers for API requests.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(apiKeyHeader, c.apiKey)
}

// readResponse reads the response body with a size limit.
//
// SECURITY: Response size limit prevents memory exhaustion attacks.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Hitting the limit means the response was truncated.
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}

	return body, nil
}

// =============================================================================
// SECURE LOGGING
// =============================================================================

// logRequest logs an API request without exposing sensitive data.
// Headers carry the key and bodies carry user content; neither is logged.
func (c *Client) logRequest(req *http.Request) {
	logx.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Msg("api request")
}

// logResponse logs an API response status with duration, no body.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	logx.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", duration).
		Msg("api response")
}
