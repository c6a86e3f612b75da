// Package provider defines the AI capability implementations: translation,
// language detection and summarization backends, plus test doubles.
package provider

import (
	"strings"

	"github.com/ZaguanLabs/pivotlai"
)

// TranslationCapability is an alias to the main package interface.
type TranslationCapability = pivotlai.TranslationCapability

// TranslationSession is an alias to the main package interface.
type TranslationSession = pivotlai.TranslationSession

// LanguageDetector is an alias to the main package interface.
type LanguageDetector = pivotlai.LanguageDetector

// Summarizer is an alias to the main package interface.
type Summarizer = pivotlai.Summarizer

// LanguageSet is a set of base language codes a backend accepts.
// A nil set accepts every language.
type LanguageSet map[string]bool

// NewLanguageSet builds a set from codes, normalizing each.
func NewLanguageSet(codes ...string) LanguageSet {
	if len(codes) == 0 {
		return nil
	}
	set := make(LanguageSet, len(codes))
	for _, code := range codes {
		set[pivotlai.NormalizeLanguage(code)] = true
	}
	return set
}

// Supports reports whether the set accepts code.
func (s LanguageSet) Supports(code string) bool {
	if s == nil {
		return true
	}
	return s[pivotlai.NormalizeLanguage(code)]
}

// checkPair validates a pair against a language set.
func checkPair(set LanguageSet, source, target string) error {
	if !set.Supports(source) || !set.Supports(target) {
		return &pivotlai.PairError{SourceLang: source, TargetLang: target, Cause: pivotlai.ErrPairUnsupported}
	}
	return nil
}

// isRetryableError checks error text for common transient conditions.
func isRetryableError(err error) bool {
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporary",
		"503",
		"502",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
