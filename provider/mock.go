package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/ZaguanLabs/pivotlai"
)

// MockCapability is a scripted translation capability for testing.
// Only pairs added with AddPair are supported; unknown texts on a supported
// pair come back bracketed.
type MockCapability struct {
	mu           sync.Mutex
	unavailable  bool
	pairs        map[string]map[string]string
	failures     map[string]error
	createCalls  []string
	translations []string
	calls        int
}

// PairKey names a language pair ("es->en").
func PairKey(source, target string) string {
	return source + "->" + target
}

// NewMockCapability creates a mock supporting es->en and en->fr, enough to
// exercise a pivot from Spanish to French.
func NewMockCapability() *MockCapability {
	m := NewEmptyMockCapability()
	m.AddPair("es", "en", map[string]string{"Hola": "Hello", "Hola Mundo": "Hello World"})
	m.AddPair("en", "fr", map[string]string{"Hello": "Bonjour", "Hello World": "Bonjour le monde"})
	return m
}

// NewEmptyMockCapability creates a mock that supports no pairs.
func NewEmptyMockCapability() *MockCapability {
	return &MockCapability{
		pairs:    make(map[string]map[string]string),
		failures: make(map[string]error),
	}
}

// AddPair supports a pair with the given text table.
func (m *MockCapability) AddPair(source, target string, translations map[string]string) *MockCapability {
	m.mu.Lock()
	defer m.mu.Unlock()
	if translations == nil {
		translations = map[string]string{}
	}
	m.pairs[PairKey(source, target)] = translations
	return m
}

// FailPair makes translate calls on a supported pair fail with err.
func (m *MockCapability) FailPair(source, target string, err error) *MockCapability {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[PairKey(source, target)] = err
	return m
}

// SetUnavailable makes the capability report itself absent.
func (m *MockCapability) SetUnavailable(unavailable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = unavailable
}

// Available implements TranslationCapability.
func (m *MockCapability) Available(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return !m.unavailable
}

// Create implements TranslationCapability.
func (m *MockCapability) Create(ctx context.Context, source, target string) (TranslationSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	key := PairKey(source, target)
	m.createCalls = append(m.createCalls, key)

	if m.unavailable {
		return nil, pivotlai.ErrCapabilityUnavailable
	}
	table, ok := m.pairs[key]
	if !ok {
		return nil, fmt.Errorf("mock: %w: %s", pivotlai.ErrPairUnsupported, key)
	}

	return pivotlai.SessionFunc(func(ctx context.Context, text string) (string, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.calls++
		m.translations = append(m.translations, key)

		if err := m.failures[key]; err != nil {
			return "", err
		}
		if out, ok := table[text]; ok {
			return out, nil
		}
		return "[" + text + "]", nil
	}), nil
}

// CallCount returns the number of calls made to the capability and its sessions.
func (m *MockCapability) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// CreateCalls returns the pairs sessions were requested for, in order.
func (m *MockCapability) CreateCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.createCalls...)
}

// TranslateCalls returns the pairs translate was called on, in order.
func (m *MockCapability) TranslateCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.translations...)
}

// Reset clears the recorded calls.
func (m *MockCapability) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = 0
	m.createCalls = nil
	m.translations = nil
}

// MockDetector returns a fixed detection.
type MockDetector struct {
	Detection pivotlai.Detection
	Err       error
	CallCount int
}

// Detect implements LanguageDetector.
func (d *MockDetector) Detect(ctx context.Context, text string) (pivotlai.Detection, error) {
	d.CallCount++
	if d.Err != nil {
		return pivotlai.Detection{}, d.Err
	}
	return d.Detection, nil
}

// MockSummarizer returns a fixed summary, or the first sentence when Summary is empty.
type MockSummarizer struct {
	Summary   string
	Err       error
	CallCount int
	LastText  string
}

// Summarize implements Summarizer.
func (s *MockSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	s.CallCount++
	s.LastText = text
	if s.Err != nil {
		return "", s.Err
	}
	if s.Summary != "" {
		return s.Summary, nil
	}
	for i, r := range text {
		if r == '.' {
			return text[:i+1], nil
		}
	}
	return text, nil
}

// Verify mocks implement the capability interfaces
var (
	_ TranslationCapability = (*MockCapability)(nil)
	_ LanguageDetector      = (*MockDetector)(nil)
	_ Summarizer            = (*MockSummarizer)(nil)
)
