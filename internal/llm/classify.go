package llm

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
)

// ErrorClass categorizes a provider error for the retry policy.
type ErrorClass int

// Provider error classes.
const (
	// ClassFatal errors fail the job immediately.
	ClassFatal ErrorClass = iota
	// ClassTransient errors (rate limit, timeout, 5xx) are retried with backoff.
	ClassTransient
	// ClassPromptTooLong triggers the one-time minimal-prompt substitution.
	ClassPromptTooLong
)

// tooLongMarkers are substrings a provider uses to reject an over-length prompt.
var tooLongMarkers = []string{
	"token count",
	"tokens exceed",
	"exceeds the maximum",
	"input is too long",
	"prompt is too long",
	"request payload size",
	"context length",
}

// ClassifyError maps a provider error to its class and, for transient errors,
// the provider-requested wait from a Retry-After header (zero when absent).
func ClassifyError(err error) (ErrorClass, time.Duration) {
	if err == nil {
		return ClassFatal, 0
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTransient, 0
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusBadRequest && containsAnyFold(apiErr.Message, tooLongMarkers):
			return ClassPromptTooLong, 0
		case apiErr.Code == http.StatusTooManyRequests:
			return ClassTransient, retryAfterHint(apiErr.Header)
		case apiErr.Code >= 500 && apiErr.Code <= 599:
			return ClassTransient, retryAfterHint(apiErr.Header)
		default:
			return ClassFatal, 0
		}
	}

	// Fall back to message inspection for errors the SDK wraps opaquely.
	msg := err.Error()
	if containsAnyFold(msg, tooLongMarkers) {
		return ClassPromptTooLong, 0
	}
	if containsAnyFold(msg, []string{"timeout", "deadline exceeded", "connection reset", "rate limit", "429", "unavailable", "overloaded"}) {
		return ClassTransient, 0
	}

	return ClassFatal, 0
}

// retryAfterHint parses a Retry-After header given in seconds.
func retryAfterHint(header http.Header) time.Duration {
	if header == nil {
		return 0
	}
	value := header.Get("Retry-After")
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func containsAnyFold(s string, markers []string) bool {
	lower := strings.ToLower(s)
	for _, marker := range markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
