package pivotlai

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int // Maximum requests per minute
	BurstSize         int // Maximum burst size (default: same as RPM)
}

// NewRateLimiter creates a token bucket limiter from the config.
func NewRateLimiter(cfg RateLimitConfig) *rate.Limiter {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60 // Default: 60 RPM
	}

	burst := cfg.BurstSize
	if burst <= 0 {
		burst = rpm // Default burst = RPM
	}

	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), burst)
}

// RateLimitedCapability wraps a TranslationCapability with rate limiting.
// Only translate calls consume tokens; session creation is free.
type RateLimitedCapability struct {
	capability TranslationCapability
	limiter    *rate.Limiter
}

// NewRateLimitedCapability creates a new rate-limited capability.
func NewRateLimitedCapability(capability TranslationCapability, cfg RateLimitConfig) *RateLimitedCapability {
	return &RateLimitedCapability{
		capability: capability,
		limiter:    NewRateLimiter(cfg),
	}
}

// Available implements TranslationCapability.
func (c *RateLimitedCapability) Available(ctx context.Context) bool {
	return c.capability.Available(ctx)
}

// Create implements TranslationCapability.
func (c *RateLimitedCapability) Create(ctx context.Context, sourceLang, targetLang LanguageCode) (TranslationSession, error) {
	session, err := c.capability.Create(ctx, sourceLang, targetLang)
	if err != nil {
		return nil, err
	}

	return SessionFunc(func(ctx context.Context, text string) (string, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", &ProviderError{
				Message:   "rate limit wait cancelled",
				Cause:     err,
				Retryable: false,
			}
		}
		return session.Translate(ctx, text)
	}), nil
}

// Limiter returns the underlying rate limiter for inspection.
func (c *RateLimitedCapability) Limiter() *rate.Limiter {
	return c.limiter
}
