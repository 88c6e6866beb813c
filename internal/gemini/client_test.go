// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const helloResponse = `{
	"candidates": [{
		"content": {"role": "model", "parts": [{"text": "Hello"}]},
		"finishReason": "STOP"
	}],
	"usageMetadata": {"promptTokenCount": 4, "candidatesTokenCount": 1, "totalTokenCount": 5}
}`

const serverErrorResponse = `{"error": {"code": 500, "message": "internal error", "status": "INTERNAL"}}`

// recordSleeps replaces the client's backoff sleeper with one that records
// each requested delay and returns immediately.
func recordSleeps(c *Client) *[]time.Duration {
	var delays []time.Duration
	c.withSleep(func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	})
	return &delays
}

// =============================================================================
// RETRY SCHEDULE TESTS
// =============================================================================

// TestGenerateRetrySchedule verifies the full failure path: a persistently
// failing server gets exactly three attempts with backoff delays of 2s, 4s,
// and 8s, and the caller receives a single exhausted error.
func TestGenerateRetrySchedule(t *testing.T) {
	var requestCount atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(serverErrorResponse))
	}))
	defer server.Close()

	client := NewClient("test-key-abcdefghijklmnop")
	client.WithBaseURL(server.URL)
	client.WithRequestInterval(0)
	delays := recordSleeps(client)

	_, err := client.Generate(context.Background(), BuildTextRequest("hello"))
	if err == nil {
		t.Fatal("expected error from persistently failing server")
	}
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Errorf("expected ErrRetriesExhausted, got %v", err)
	}

	if got := requestCount.Load(); got != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", got)
	}

	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}
	if len(*delays) != len(want) {
		t.Fatalf("expected %d backoff delays, got %d: %v", len(want), len(*delays), *delays)
	}
	for i, d := range want {
		if (*delays)[i] != d {
			t.Errorf("delay %d: expected %v, got %v", i, d, (*delays)[i])
		}
	}
}

// TestGenerateRecoversAfterRetry verifies that a transient failure followed
// by a success returns the reply text with no error.
func TestGenerateRecoversAfterRetry(t *testing.T) {
	var requestCount atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := requestCount.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(serverErrorResponse))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(helloResponse))
	}))
	defer server.Close()

	client := NewClient("test-key-abcdefghijklmnop")
	client.WithBaseURL(server.URL)
	client.WithRequestInterval(0)
	delays := recordSleeps(client)

	text, err := client.Generate(context.Background(), BuildTextRequest("hello"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", text)
	}
	if got := requestCount.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
	if len(*delays) != 2 {
		t.Errorf("expected 2 backoff delays before the success, got %v", *delays)
	}
}

// TestGenerateFailFastOnClientError verifies that a 4xx reply is not
// retried: one attempt, no backoff, error surfaced as-is.
func TestGenerateFailFastOnClientError(t *testing.T) {
	var requestCount atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"code": 400, "message": "request malformed", "status": "INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	client := NewClient("test-key-abcdefghijklmnop")
	client.WithBaseURL(server.URL)
	client.WithRequestInterval(0)
	delays := recordSleeps(client)

	_, err := client.Generate(context.Background(), BuildTextRequest("hello"))
	if err == nil {
		t.Fatal("expected error from 400 reply")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", apiErr.Status)
	}
	if apiErr.Code != "INVALID_ARGUMENT" {
		t.Errorf("expected code INVALID_ARGUMENT, got %q", apiErr.Code)
	}

	if got := requestCount.Load(); got != 1 {
		t.Errorf("expected exactly 1 attempt for a client error, got %d", got)
	}
	if len(*delays) != 0 {
		t.Errorf("expected no backoff for a client error, got %v", *delays)
	}
}

// TestGenerateEmptyCandidates verifies that a well-formed reply with no
// candidates surfaces ErrEmptyResponse immediately, without retry.
func TestGenerateEmptyCandidates(t *testing.T) {
	var requestCount atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	client := NewClient("test-key-abcdefghijklmnop")
	client.WithBaseURL(server.URL)
	client.WithRequestInterval(0)
	delays := recordSleeps(client)

	_, err := client.Generate(context.Background(), BuildTextRequest("hello"))
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
	if got := requestCount.Load(); got != 1 {
		t.Errorf("expected exactly 1 attempt for an empty reply, got %d", got)
	}
	if len(*delays) != 0 {
		t.Errorf("expected no backoff for an empty reply, got %v", *delays)
	}
}

// TestGenerateEmptyTextPart treats a candidate whose parts carry no text
// the same as no candidates at all.
func TestGenerateEmptyTextPart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"candidates": [{"content": {"role": "model", "parts": [{"text": ""}]}}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key-abcdefghijklmnop")
	client.WithBaseURL(server.URL)
	client.WithRequestInterval(0)

	_, err := client.Generate(context.Background(), BuildTextRequest("hello"))
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

// TestGenerateNotConfigured verifies that a missing key fails before any
// network traffic.
func TestGenerateNotConfigured(t *testing.T) {
	client := NewClient("")
	_, err := client.Generate(context.Background(), BuildTextRequest("hello"))
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

// TestGenerateCanceledDuringBackoff verifies that cancellation during a
// backoff wait surfaces the context error instead of another attempt.
func TestGenerateCanceledDuringBackoff(t *testing.T) {
	var requestCount atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(serverErrorResponse))
	}))
	defer server.Close()

	client := NewClient("test-key-abcdefghijklmnop")
	client.WithBaseURL(server.URL)
	client.WithRequestInterval(0)
	client.withSleep(func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	})

	_, err := client.Generate(context.Background(), BuildTextRequest("hello"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := requestCount.Load(); got != 1 {
		t.Errorf("expected 1 attempt before cancellation, got %d", got)
	}
}

// TestGenerateSuccess covers the plain happy path: one request, the reply
// text extracted from the first candidate.
func TestGenerateSuccess(t *testing.T) {
	var requestCount atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(helloResponse))
	}))
	defer server.Close()

	client := NewClient("test-key-abcdefghijklmnop")
	client.WithBaseURL(server.URL)
	client.WithRequestInterval(0)

	text, err := client.Generate(context.Background(), BuildTextRequest("Say hello"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", text)
	}
	if got := requestCount.Load(); got != 1 {
		t.Errorf("expected exactly 1 request, got %d", got)
	}
}

// TestRetryHookProgress verifies the hook sees every failed attempt with
// its delay, in order.
func TestRetryHookProgress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(serverErrorResponse))
	}))
	defer server.Close()

	type hookCall struct {
		attempt int
		max     int
		delay   time.Duration
	}
	var calls []hookCall

	client := NewClient("test-key-abcdefghijklmnop")
	client.WithBaseURL(server.URL)
	client.WithRequestInterval(0)
	client.WithRetryHook(func(attempt, maxAttempts int, err error, delay time.Duration) {
		calls = append(calls, hookCall{attempt, maxAttempts, delay})
	})
	recordSleeps(client)

	_, err := client.Generate(context.Background(), BuildTextRequest("hello"))
	if err == nil {
		t.Fatal("expected error")
	}

	want := []hookCall{
		{1, 3, 2 * time.Second},
		{2, 3, 4 * time.Second},
		{3, 3, 8 * time.Second},
	}
	if len(calls) != len(want) {
		t.Fatalf("expected %d hook calls, got %d", len(want), len(calls))
	}
	for i, w := range want {
		if calls[i] != w {
			t.Errorf("hook call %d: expected %+v, got %+v", i, w, calls[i])
		}
	}
}

// =============================================================================
// REQUEST SHAPE TESTS
// =============================================================================

// TestGenerateRequestShape captures the outgoing request and checks the
// wire format: endpoint path, auth header, and single-turn contents.
func TestGenerateRequestShape(t *testing.T) {
	var gotPath, gotKey, gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(helloResponse))
	}))
	defer server.Close()

	client := NewClient("test-key-abcdefghijklmnop")
	client.WithBaseURL(server.URL)
	client.WithRequestInterval(0)
	client.SetModel("flash")

	if _, err := client.Generate(context.Background(), BuildTextRequest("What is the weather?")); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if want := "/models/gemini-2.0-flash:generateContent"; gotPath != want {
		t.Errorf("expected path %q, got %q", want, gotPath)
	}
	if gotKey != "test-key-abcdefghijklmnop" {
		t.Errorf("expected API key header, got %q", gotKey)
	}
	if gotContentType != "application/json" {
		t.Errorf("expected JSON content type, got %q", gotContentType)
	}

	var req GenerateRequest
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatalf("unmarshal captured body: %v", err)
	}
	if len(req.Contents) != 1 {
		t.Fatalf("expected single-turn contents, got %d turns", len(req.Contents))
	}
	if req.Contents[0].Role != RoleUser {
		t.Errorf("expected role %q, got %q", RoleUser, req.Contents[0].Role)
	}
	if len(req.Contents[0].Parts) != 1 || req.Contents[0].Parts[0].Text != "What is the weather?" {
		t.Errorf("unexpected parts: %+v", req.Contents[0].Parts)
	}
	if req.GenerationConfig != nil {
		t.Errorf("plain chat requests must not carry a generation config")
	}
}

// TestBuildImageRequestShape checks that an image dispatch pairs the text
// part with the inline data part in one user turn.
func TestBuildImageRequestShape(t *testing.T) {
	req := BuildImageRequest("describe this", "image/png", "aGVsbG8=")

	if len(req.Contents) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(req.Contents))
	}
	parts := req.Contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	if parts[0].Text != "describe this" {
		t.Errorf("expected text part first, got %+v", parts[0])
	}
	if parts[1].InlineData == nil {
		t.Fatal("expected inline data part")
	}
	if parts[1].InlineData.MIMEType != "image/png" {
		t.Errorf("expected image/png, got %q", parts[1].InlineData.MIMEType)
	}
	if parts[1].InlineData.Data != "aGVsbG8=" {
		t.Errorf("expected base64 payload preserved, got %q", parts[1].InlineData.Data)
	}
}

// TestBuildSummaryRequestShape checks transcript replay order and the
// appended instruction turn.
func TestBuildSummaryRequestShape(t *testing.T) {
	transcript := []Content{
		NewUserContent("first question"),
		NewModelContent("first answer"),
		NewUserContent("second question"),
	}
	req := BuildSummaryRequest(transcript)

	if len(req.Contents) != 4 {
		t.Fatalf("expected transcript plus instruction, got %d turns", len(req.Contents))
	}
	if req.Contents[0].Role != RoleUser || req.Contents[1].Role != RoleModel {
		t.Errorf("transcript roles not preserved: %q, %q", req.Contents[0].Role, req.Contents[1].Role)
	}
	last := req.Contents[len(req.Contents)-1]
	if last.Role != RoleUser {
		t.Errorf("instruction turn must be a user turn, got %q", last.Role)
	}
	if !strings.Contains(last.Parts[0].Text, "Summarize") {
		t.Errorf("expected summary instruction, got %q", last.Parts[0].Text)
	}
}

// TestSetModelResolvesAliases mirrors the alias table in the model package.
func TestSetModelResolvesAliases(t *testing.T) {
	client := NewClient("test-key")

	client.SetModel("flash")
	if got := client.Model(); got != "gemini-2.0-flash" {
		t.Errorf("alias flash: expected gemini-2.0-flash, got %q", got)
	}

	client.SetModel("gemini-2.5-pro")
	if got := client.Model(); got != "gemini-2.5-pro" {
		t.Errorf("full identifier must pass through, got %q", got)
	}
}

// =============================================================================
// ERROR CLASSIFICATION TESTS
// =============================================================================

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ErrorKindUnknown},
		{"not configured", ErrNotConfigured, ErrorKindNotConfigured},
		{"empty response", ErrEmptyResponse, ErrorKindInvalidResponse},
		{"invalid response", fmt.Errorf("%w: bad json", ErrInvalidResponse), ErrorKindInvalidResponse},
		{"auth failed", fmt.Errorf("%w: key rejected", ErrAuthFailed), ErrorKindAPIStatus},
		{"rate limited", fmt.Errorf("%w: slow down", ErrRateLimited), ErrorKindAPIStatus},
		{"api error", &APIError{Status: 500, Message: "boom"}, ErrorKindAPIStatus},
		{"canceled", context.Canceled, ErrorKindCanceled},
		{"deadline", context.DeadlineExceeded, ErrorKindCanceled},
		{"transport", errors.New("connection refused"), ErrorKindTransport},
		{"exhausted transport", fmt.Errorf("%w: %w", ErrRetriesExhausted, errors.New("connection reset")), ErrorKindTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"server error", &APIError{Status: 500}, true},
		{"bad gateway", &APIError{Status: 502}, true},
		{"rate limited", fmt.Errorf("%w: slow down", ErrRateLimited), true},
		{"transport", errors.New("connection refused"), true},
		{"client error", &APIError{Status: 400}, false},
		{"auth failed", fmt.Errorf("%w: nope", ErrAuthFailed), false},
		{"model not found", fmt.Errorf("%w: gone", ErrModelNotFound), false},
		{"empty response", ErrEmptyResponse, false},
		{"invalid response", fmt.Errorf("%w: bad json", ErrInvalidResponse), false},
		{"not configured", ErrNotConfigured, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("request failed: %w", context.DeadlineExceeded), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestBackoffSchedule(t *testing.T) {
	client := NewClient("test-key")

	if got := client.backoff(1); got != 2*time.Second {
		t.Errorf("backoff(1) = %v, want 2s", got)
	}
	if got := client.backoff(2); got != 4*time.Second {
		t.Errorf("backoff(2) = %v, want 4s", got)
	}
	if got := client.backoff(3); got != 8*time.Second {
		t.Errorf("backoff(3) = %v, want 8s", got)
	}
	// Large attempt counts hit the ceiling.
	if got := client.backoff(10); got != retryMaxDelay {
		t.Errorf("backoff(10) = %v, want cap %v", got, retryMaxDelay)
	}
}

func TestParseErrorBody(t *testing.T) {
	apiErr := parseErrorBody(429, []byte(`{"error": {"code": 429, "message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`))
	if apiErr.Code != "RESOURCE_EXHAUSTED" {
		t.Errorf("expected RESOURCE_EXHAUSTED, got %q", apiErr.Code)
	}
	if apiErr.Message != "quota exceeded" {
		t.Errorf("expected quota message, got %q", apiErr.Message)
	}
	if !strings.Contains(apiErr.Error(), "RESOURCE_EXHAUSTED") {
		t.Errorf("error string should carry the code: %q", apiErr.Error())
	}

	raw := parseErrorBody(502, []byte("Bad Gateway"))
	if raw.Message != "Bad Gateway" {
		t.Errorf("expected raw body fallback, got %q", raw.Message)
	}
	if raw.Code != "" {
		t.Errorf("expected no code for non-JSON body, got %q", raw.Code)
	}
}

// TestAPIKeyMasked confirms the display form never leaks key material.
func TestAPIKeyMasked(t *testing.T) {
	const key = "secret-key-0123456789abcdef"
	client := NewClient(key)

	masked := client.APIKeyMasked()
	if strings.Contains(masked, "secret") || strings.Contains(masked, "0123456789") {
		t.Errorf("masked key leaks material: %q", masked)
	}
	if !strings.Contains(masked, "REDACTED") {
		t.Errorf("expected redaction marker, got %q", masked)
	}

	empty := NewClient("")
	if got := empty.APIKeyMasked(); got != "[not set]" {
		t.Errorf("expected [not set], got %q", got)
	}
}
