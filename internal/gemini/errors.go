// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error variables for common API failures.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("gemini API key not configured")

	// ErrAuthFailed indicates the API rejected the key.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelNotFound indicates the requested model does not exist.
	ErrModelNotFound = errors.New("model not found")

	// ErrEmptyResponse indicates a well-formed reply that carried no usable
	// content. Not retried: the model will not change its mind.
	ErrEmptyResponse = errors.New("model returned no usable content")

	// ErrInvalidResponse indicates a 200 reply whose body could not be parsed.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrRetriesExhausted indicates every attempt failed with a transient error.
	ErrRetriesExhausted = errors.New("max retries exceeded")
)

// APIError represents an error reply from the generative language API.
type APIError struct {
	Status  int    // HTTP status code
	Code    string // API status string, e.g. "RESOURCE_EXHAUSTED"
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gemini error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("gemini error (HTTP %d): %s", e.Status, e.Message)
}

// =============================================================================
// ERROR CLASSIFICATION
// =============================================================================

// ErrorKind is the coarse failure category of a dispatch error. The chat
// view chooses its fallback wording from the kind, never by matching
// error strings.
type ErrorKind int

const (
	// ErrorKindUnknown is the zero kind for errors from outside this package.
	ErrorKindUnknown ErrorKind = iota

	// ErrorKindNotConfigured means no API key was available.
	ErrorKindNotConfigured

	// ErrorKindTransport covers network failures: the request never
	// produced an HTTP response.
	ErrorKindTransport

	// ErrorKindAPIStatus means the API answered with an error status.
	ErrorKindAPIStatus

	// ErrorKindInvalidResponse means the API answered 200 but the body was
	// empty or unusable.
	ErrorKindInvalidResponse

	// ErrorKindCanceled means the caller gave up before the call settled.
	ErrorKindCanceled
)

// String returns a short name for logging.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindNotConfigured:
		return "not_configured"
	case ErrorKindTransport:
		return "transport"
	case ErrorKindAPIStatus:
		return "api_status"
	case ErrorKindInvalidResponse:
		return "invalid_response"
	case ErrorKindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Classify maps an error returned by this package onto its kind.
func Classify(err error) ErrorKind {
	if err == nil {
		return ErrorKindUnknown
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindCanceled
	}
	if errors.Is(err, ErrNotConfigured) {
		return ErrorKindNotConfigured
	}
	if errors.Is(err, ErrEmptyResponse) || errors.Is(err, ErrInvalidResponse) {
		return ErrorKindInvalidResponse
	}
	if errors.Is(err, ErrAuthFailed) || errors.Is(err, ErrModelNotFound) || errors.Is(err, ErrRateLimited) {
		return ErrorKindAPIStatus
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return ErrorKindAPIStatus
	}
	return ErrorKindTransport
}

// isRetryable determines if an error should trigger another attempt.
//
// Transport failures, server errors, and rate limiting are transient.
// Everything that would fail the same way again, including client errors,
// empty replies, and a missing key, fails fast on the first attempt.
func isRetryable(err error) bool {
	// Don't retry context cancellation; the caller has given up.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Rate limiting is retryable.
	if errors.Is(err, ErrRateLimited) {
		return true
	}

	if errors.Is(err, ErrNotConfigured) ||
		errors.Is(err, ErrAuthFailed) ||
		errors.Is(err, ErrModelNotFound) ||
		errors.Is(err, ErrEmptyResponse) ||
		errors.Is(err, ErrInvalidResponse) {
		return false
	}

	// Server errors are transient; other statuses are the caller's fault
	// and will not improve on retry.
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 && apiErr.Status < 600
	}

	// What remains is transport-level: connection failures, resets, timeouts.
	return true
}

// handleErrorResponse converts an HTTP error reply to an appropriate Go error.
func handleErrorResponse(statusCode int, body []byte) error {
	apiErr := parseErrorBody(statusCode, body)

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuthFailed, apiErr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrModelNotFound, apiErr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
	default:
		return apiErr
	}
}

// parseErrorBody extracts the API error envelope from an error reply,
// falling back to the raw body when it is not JSON.
func parseErrorBody(statusCode int, body []byte) *APIError {
	var envelope apiErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return &APIError{
			Status:  statusCode,
			Code:    envelope.Error.Status,
			Message: envelope.Error.Message,
		}
	}
	return &APIError{
		Status:  statusCode,
		Message: strings.TrimSpace(string(body)),
	}
}
