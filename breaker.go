package pivotlai

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// BreakerConfig configures the per-pair circuit breakers.
type BreakerConfig struct {
	MaxRequests      uint32        // Requests allowed through while half-open
	Interval         time.Duration // Closed-state window after which counts reset
	Timeout          time.Duration // Open-state duration before probing again
	FailureThreshold uint32        // Consecutive failures that trip the breaker
}

// DefaultBreakerConfig returns sensible defaults for circuit breaking.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerCapability wraps a TranslationCapability with one circuit breaker
// per language pair. While a pair's breaker is open, Create reports
// ErrCapabilityUnavailable for it, so the orchestrator pivots around it.
type BreakerCapability struct {
	capability TranslationCapability
	config     BreakerConfig
	logger     log.FieldLogger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewBreakerCapability creates a new circuit-breaking capability.
func NewBreakerCapability(capability TranslationCapability, cfg BreakerConfig, logger log.FieldLogger) *BreakerCapability {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &BreakerCapability{
		capability: capability,
		config:     cfg,
		logger:     logger,
		breakers:   make(map[string]*gobreaker.CircuitBreaker),
	}
}

func (c *BreakerCapability) breaker(sourceLang, targetLang LanguageCode) *gobreaker.CircuitBreaker {
	name := sourceLang + "->" + targetLang

	c.mu.Lock()
	defer c.mu.Unlock()

	if cb, ok := c.breakers[name]; ok {
		return cb
	}

	threshold := c.config.FailureThreshold
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: c.config.MaxRequests,
		Interval:    c.config.Interval,
		Timeout:     c.config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.WithFields(log.Fields{"pair": name, "from": from.String(), "to": to.String()}).Warn("translation breaker state changed")
		},
		// Cancellation says nothing about the pair's health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	})
	c.breakers[name] = cb
	return cb
}

// State returns the breaker state for a pair. Pairs never used are closed.
func (c *BreakerCapability) State(sourceLang, targetLang LanguageCode) gobreaker.State {
	c.mu.Lock()
	cb, ok := c.breakers[sourceLang+"->"+targetLang]
	c.mu.Unlock()
	if !ok {
		return gobreaker.StateClosed
	}
	return cb.State()
}

// Available implements TranslationCapability.
func (c *BreakerCapability) Available(ctx context.Context) bool {
	return c.capability.Available(ctx)
}

// Create implements TranslationCapability.
func (c *BreakerCapability) Create(ctx context.Context, sourceLang, targetLang LanguageCode) (TranslationSession, error) {
	cb := c.breaker(sourceLang, targetLang)
	if cb.State() == gobreaker.StateOpen {
		return nil, &PairError{SourceLang: sourceLang, TargetLang: targetLang, Cause: ErrCapabilityUnavailable}
	}

	session, err := c.capability.Create(ctx, sourceLang, targetLang)
	if err != nil {
		return nil, err
	}

	return SessionFunc(func(ctx context.Context, text string) (string, error) {
		out, err := cb.Execute(func() (interface{}, error) {
			return session.Translate(ctx, text)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", errors.Join(ErrCapabilityUnavailable, err)
		}
		if err != nil {
			return "", err
		}
		return out.(string), nil
	}), nil
}
