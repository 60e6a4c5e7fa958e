package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

var errTooLong = &googleapi.Error{Code: http.StatusBadRequest, Message: "input is too long"}

func noSleep(record *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*record = append(*record, d)
		return nil
	}
}

func TestInvoke_SuccessOnFirstAttempt(t *testing.T) {
	calls := 0
	response, err := Invoke(context.Background(), func(_ context.Context, prompt string) (string, error) {
		calls++
		assert.Equal(t, "full", prompt)
		return "ok", nil
	}, "full", "minimal", RetryPolicy{MaxRetries: 3})

	require.NoError(t, err)
	assert.Equal(t, "ok", response)
	assert.Equal(t, 1, calls)
}

func TestInvoke_PromptTooLongSwitchesToMinimalOnce(t *testing.T) {
	var prompts []string
	var sleeps []time.Duration

	response, err := Invoke(context.Background(), func(_ context.Context, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		if prompt == "full" {
			return "", errTooLong
		}
		return "ok", nil
	}, "full", "minimal", RetryPolicy{MaxRetries: 3, Sleep: noSleep(&sleeps)})

	require.NoError(t, err)
	assert.Equal(t, "ok", response)
	assert.Equal(t, []string{"full", "minimal"}, prompts)
	// The substitution retries immediately without a backoff wait.
	assert.Empty(t, sleeps)
}

func TestInvoke_SubstitutionDoesNotConsumeRetryBudget(t *testing.T) {
	var sleeps []time.Duration
	calls := 0
	transient := &googleapi.Error{Code: http.StatusServiceUnavailable}

	response, err := Invoke(context.Background(), func(_ context.Context, prompt string) (string, error) {
		calls++
		if prompt == "full" {
			return "", errTooLong
		}
		// Two transient failures on the minimal prompt, then success: the
		// full budget of 2 retries must still be available after the swap.
		if calls <= 3 {
			return "", transient
		}
		return "ok", nil
	}, "full", "minimal", RetryPolicy{MaxRetries: 2, Sleep: noSleep(&sleeps)})

	require.NoError(t, err)
	assert.Equal(t, "ok", response)
	assert.Equal(t, 4, calls)
	assert.Len(t, sleeps, 2)
}

func TestInvoke_SecondPromptTooLongIsFatal(t *testing.T) {
	calls := 0
	_, err := Invoke(context.Background(), func(_ context.Context, _ string) (string, error) {
		calls++
		return "", errTooLong
	}, "full", "minimal", RetryPolicy{MaxRetries: 3})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "too long after fallback")
}

func TestInvoke_NoMinimalPromptMakesTooLongFatal(t *testing.T) {
	calls := 0
	_, err := Invoke(context.Background(), func(_ context.Context, _ string) (string, error) {
		calls++
		return "", errTooLong
	}, "full", "", RetryPolicy{MaxRetries: 3})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestInvoke_ExponentialBackoffSchedule(t *testing.T) {
	var sleeps []time.Duration
	transient := &googleapi.Error{Code: http.StatusInternalServerError}

	_, err := Invoke(context.Background(), func(_ context.Context, _ string) (string, error) {
		return "", transient
	}, "full", "minimal", RetryPolicy{MaxRetries: 5, Sleep: noSleep(&sleeps)})

	require.Error(t, err)
	assert.Equal(t, []time.Duration{
		1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 15 * time.Second,
	}, sleeps)
	assert.Contains(t, err.Error(), "after 5 retries")
}

func TestInvoke_HonorsRetryAfterHint(t *testing.T) {
	var sleeps []time.Duration
	rateLimited := &googleapi.Error{
		Code:   http.StatusTooManyRequests,
		Header: http.Header{"Retry-After": []string{"7"}},
	}
	calls := 0

	response, err := Invoke(context.Background(), func(_ context.Context, _ string) (string, error) {
		calls++
		if calls == 1 {
			return "", rateLimited
		}
		return "ok", nil
	}, "full", "minimal", RetryPolicy{MaxRetries: 3, Sleep: noSleep(&sleeps)})

	require.NoError(t, err)
	assert.Equal(t, "ok", response)
	assert.Equal(t, []time.Duration{7 * time.Second}, sleeps)
}

func TestInvoke_FatalErrorDoesNotRetry(t *testing.T) {
	calls := 0
	fatal := &googleapi.Error{Code: http.StatusUnauthorized}

	_, err := Invoke(context.Background(), func(_ context.Context, _ string) (string, error) {
		calls++
		return "", fatal
	}, "full", "minimal", RetryPolicy{MaxRetries: 3})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, errors.Is(err, fatal))
}

func TestInvoke_CancelledContextStopsBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	transient := &googleapi.Error{Code: http.StatusServiceUnavailable}

	_, err := Invoke(ctx, func(_ context.Context, _ string) (string, error) {
		return "", transient
	}, "full", "minimal", RetryPolicy{MaxRetries: 3})

	require.ErrorIs(t, err, context.Canceled)
}
