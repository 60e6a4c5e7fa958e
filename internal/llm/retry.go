package llm

import (
	"context"
	"fmt"
	"time"
)

// Backoff defaults for transient provider errors.
const (
	// DefaultBaseDelay is the first backoff wait, doubling each attempt.
	DefaultBaseDelay = 1 * time.Second
	// DefaultMaxDelay caps any single backoff wait.
	DefaultMaxDelay = 15 * time.Second
)

// CallFunc performs one model call with the given prompt.
type CallFunc func(ctx context.Context, prompt string) (string, error)

// RetryPolicy configures Invoke. The zero value uses the defaults; Sleep and
// Classify are injectable so the policy is unit-testable without a network.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Classify   func(error) (ErrorClass, time.Duration)
	Sleep      func(ctx context.Context, d time.Duration) error
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultMaxDelay
	}
	if p.Classify == nil {
		p.Classify = ClassifyError
	}
	if p.Sleep == nil {
		p.Sleep = func(ctx context.Context, d time.Duration) error {
			select {
			case <-time.After(d):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return p
}

// Invoke runs the model call with the full prompt under the retry policy.
//
// A prompt-too-long error substitutes the minimal prompt exactly once and
// retries immediately without consuming the retry budget; a second
// prompt-too-long error is fatal. Transient errors wait the provider's
// Retry-After hint when present, otherwise exponential backoff from BaseDelay
// doubling per attempt and capped at MaxDelay, up to MaxRetries retries.
// Any other error, or exhausting the budget, propagates to the caller.
func Invoke(ctx context.Context, call CallFunc, fullPrompt, minimalPrompt string, policy RetryPolicy) (string, error) {
	policy = policy.withDefaults()

	prompt := fullPrompt
	substituted := false
	retries := 0

	for {
		response, err := call(ctx, prompt)
		if err == nil {
			return response, nil
		}

		class, retryAfter := policy.Classify(err)
		switch class {
		case ClassPromptTooLong:
			if substituted || minimalPrompt == "" {
				return "", fmt.Errorf("prompt rejected as too long after fallback: %w", err)
			}
			prompt = minimalPrompt
			substituted = true
			// Retry immediately; the substitution does not count against the
			// retry budget.

		case ClassTransient:
			if retries >= policy.MaxRetries {
				return "", fmt.Errorf("model call failed after %d retries: %w", retries, err)
			}
			wait := retryAfter
			if wait <= 0 {
				wait = policy.BaseDelay << retries
			}
			if wait > policy.MaxDelay {
				wait = policy.MaxDelay
			}
			if sleepErr := policy.Sleep(ctx, wait); sleepErr != nil {
				return "", sleepErr
			}
			retries++

		default:
			return "", fmt.Errorf("model call failed: %w", err)
		}
	}
}
