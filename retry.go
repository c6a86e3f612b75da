package pivotlai

import (
	"context"
	"errors"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay between retries
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// NewRetryPolicy builds an exponential backoff policy that only retries
// errors IsRetryable accepts.
func NewRetryPolicy[T any](cfg RetryConfig) retrypolicy.RetryPolicy[T] {
	builder := retrypolicy.NewBuilder[T]().
		HandleIf(func(_ T, err error) bool { return IsRetryable(err) }).
		WithMaxRetries(cfg.MaxRetries).
		ReturnLastFailure()

	if cfg.BaseDelay > 0 && cfg.MaxDelay > cfg.BaseDelay {
		builder = builder.WithBackoff(cfg.BaseDelay, cfg.MaxDelay)
	} else if cfg.BaseDelay > 0 {
		builder = builder.WithDelay(cfg.BaseDelay)
	}

	return builder.Build()
}

// WithRetry executes a function with exponential backoff retry.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	return failsafe.With(NewRetryPolicy[T](cfg)).WithContext(ctx).Get(fn)
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context errors are not retryable
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}

	return false
}

// RetryableCapability wraps a TranslationCapability so that every session
// retries transient translate failures.
type RetryableCapability struct {
	capability TranslationCapability
	config     RetryConfig
}

// NewRetryableCapability creates a new capability with retry logic.
func NewRetryableCapability(capability TranslationCapability, cfg RetryConfig) *RetryableCapability {
	return &RetryableCapability{
		capability: capability,
		config:     cfg,
	}
}

// Available implements TranslationCapability.
func (c *RetryableCapability) Available(ctx context.Context) bool {
	return c.capability.Available(ctx)
}

// Create implements TranslationCapability. Session creation is not retried:
// an unsupported pair stays unsupported.
func (c *RetryableCapability) Create(ctx context.Context, sourceLang, targetLang LanguageCode) (TranslationSession, error) {
	session, err := c.capability.Create(ctx, sourceLang, targetLang)
	if err != nil {
		return nil, err
	}

	return SessionFunc(func(ctx context.Context, text string) (string, error) {
		return WithRetry(ctx, c.config, func() (string, error) {
			return session.Translate(ctx, text)
		})
	}), nil
}
