package pivotlai

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrCapabilityUnavailable means the translation capability does not
	// exist in the current environment (or is temporarily switched off).
	ErrCapabilityUnavailable = errors.New("translation capability unavailable")

	// ErrPairUnsupported means no session could be created for a language pair.
	ErrPairUnsupported = errors.New("language pair unsupported")

	// ErrRetryBudgetExhausted means the pivot ceiling was reached without success.
	ErrRetryBudgetExhausted = errors.New("retry budget exhausted")

	// ErrInvalidSession means the capability returned no usable session.
	ErrInvalidSession = errors.New("invalid translation session")
)

// PairError reports a failed session creation for a language pair.
type PairError struct {
	SourceLang string
	TargetLang string
	Cause      error
}

func (e *PairError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot translate %s -> %s: %v", e.SourceLang, e.TargetLang, e.Cause)
	}
	return fmt.Sprintf("cannot translate %s -> %s", e.SourceLang, e.TargetLang)
}

func (e *PairError) Unwrap() error {
	return e.Cause
}

// Is matches ErrPairUnsupported unless the cause says the whole capability is gone.
func (e *PairError) Is(target error) bool {
	return target == ErrPairUnsupported && !errors.Is(e.Cause, ErrCapabilityUnavailable)
}

// HopError reports a failed translate call on an open session.
type HopError struct {
	SourceLang string
	TargetLang string
	Attempt    int
	Cause      error
}

func (e *HopError) Error() string {
	return fmt.Sprintf("hop %s -> %s (attempt %d) failed: %v", e.SourceLang, e.TargetLang, e.Attempt, e.Cause)
}

func (e *HopError) Unwrap() error {
	return e.Cause
}

// FailureKind classifies orchestration failures.
type FailureKind int

const (
	// FailureNone means the call succeeded.
	FailureNone FailureKind = iota
	// FailureCapabilityUnavailable means the backend reported itself unavailable.
	FailureCapabilityUnavailable
	// FailurePairUnsupported means no session could be created for a pair.
	FailurePairUnsupported
	// FailureHop means a session failed while translating.
	FailureHop
	// FailureRetryBudgetExhausted means every pivot route within the attempt ceiling failed.
	FailureRetryBudgetExhausted
	// FailureCanceled means the caller's context ended first.
	FailureCanceled
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureCapabilityUnavailable:
		return "capability_unavailable"
	case FailurePairUnsupported:
		return "pair_unsupported"
	case FailureHop:
		return "hop_failure"
	case FailureRetryBudgetExhausted:
		return "retry_budget_exhausted"
	case FailureCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Classify maps an error to its failure kind. The outermost kind wins:
// an exhausted budget wrapping an unsupported pair is FailureRetryBudgetExhausted.
func Classify(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrRetryBudgetExhausted):
		return FailureRetryBudgetExhausted
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return FailureCanceled
	case errors.Is(err, ErrCapabilityUnavailable):
		return FailureCapabilityUnavailable
	case errors.Is(err, ErrPairUnsupported):
		return FailurePairUnsupported
	default:
		return FailureHop
	}
}

// TranslationError is the terminal error of a failed top-level call.
type TranslationError struct {
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates an AI provider failure (API error, rate limit, etc.).
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ProcessorError indicates a content processing failure (parse error, etc.).
type ProcessorError struct {
	Message     string
	Cause       error
	ContentType string // The type of content that failed to process
}

func (e *ProcessorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processor error (%s): %s: %v", e.ContentType, e.Message, e.Cause)
	}
	return fmt.Sprintf("processor error (%s): %s", e.ContentType, e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.Cause
}

// CountMismatchError indicates a backend returned a different number of translations than expected.
type CountMismatchError struct {
	Expected int
	Got      int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("translation count mismatch: expected %d, got %d", e.Expected, e.Got)
}
