package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZaguanLabs/pivotlai"
	"google.golang.org/genai"
)

// GeminiCapability implements TranslationCapability and Summarizer using
// the Gemini API.
type GeminiCapability struct {
	client      *genai.Client
	model       string
	temperature float32
	languages   LanguageSet
}

// GeminiConfig holds configuration for the Gemini capability.
type GeminiConfig struct {
	APIKey      string   // Gemini API key
	Model       string   // Model to use (default: "gemini-2.0-flash")
	Temperature float32  // Temperature for generation (default: 0.3)
	Languages   []string // Supported languages; empty means any
}

// NewGeminiCapability creates a new Gemini capability.
func NewGeminiCapability(ctx context.Context, cfg GeminiConfig) (*GeminiCapability, error) {
	if cfg.APIKey == "" {
		return nil, &pivotlai.ProviderError{Message: "Gemini API key required"}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &pivotlai.ProviderError{Message: "creating Gemini client", Cause: err}
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &GeminiCapability{
		client:      client,
		model:       model,
		temperature: temperature,
		languages:   NewLanguageSet(cfg.Languages...),
	}, nil
}

// Model returns the configured model name.
func (p *GeminiCapability) Model() string {
	return p.model
}

// Available implements TranslationCapability.
func (p *GeminiCapability) Available(ctx context.Context) bool {
	return p.client != nil
}

// Create opens a session for a supported pair.
func (p *GeminiCapability) Create(ctx context.Context, source, target string) (TranslationSession, error) {
	if err := checkPair(p.languages, source, target); err != nil {
		return nil, err
	}

	systemPrompt := buildTranslationPrompt(source, target)
	return pivotlai.SessionFunc(func(ctx context.Context, text string) (string, error) {
		return p.generate(ctx, systemPrompt, text)
	}), nil
}

// Summarize summarizes English text.
func (p *GeminiCapability) Summarize(ctx context.Context, text string) (string, error) {
	return p.generate(ctx, summaryPrompt, text)
}

func (p *GeminiCapability) generate(ctx context.Context, systemPrompt, text string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(text), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(p.temperature),
	})
	if err != nil {
		return "", &pivotlai.ProviderError{
			Message:   "Gemini API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", &pivotlai.ProviderError{
			Message:   fmt.Sprintf("empty response from %s", p.model),
			Retryable: true,
		}
	}

	return out, nil
}

// Verify GeminiCapability implements the capability interfaces
var (
	_ TranslationCapability = (*GeminiCapability)(nil)
	_ Summarizer            = (*GeminiCapability)(nil)
)
