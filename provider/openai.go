package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZaguanLabs/pivotlai"
	"github.com/sashabaranov/go-openai"
)

// OpenAICapability implements TranslationCapability and Summarizer using
// OpenAI's chat completion API.
type OpenAICapability struct {
	client      *openai.Client
	apiKey      string
	model       string
	temperature float32
	languages   LanguageSet
}

// OpenAIConfig holds configuration for the OpenAI capability.
type OpenAIConfig struct {
	APIKey      string   // OpenAI API key
	Model       string   // Model to use (default: "gpt-4o-mini")
	Temperature float32  // Temperature for generation (default: 0.3)
	BaseURL     string   // Custom base URL (optional)
	Languages   []string // Supported languages; empty means any
}

// NewOpenAICapability creates a new OpenAI capability.
func NewOpenAICapability(cfg OpenAIConfig) *OpenAICapability {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAICapability{
		client:      openai.NewClientWithConfig(config),
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: temperature,
		languages:   NewLanguageSet(cfg.Languages...),
	}
}

// Model returns the configured model name.
func (p *OpenAICapability) Model() string {
	return p.model
}

// Available reports whether an API key is configured.
func (p *OpenAICapability) Available(ctx context.Context) bool {
	return p.apiKey != ""
}

// Create opens a session for a supported pair.
func (p *OpenAICapability) Create(ctx context.Context, source, target string) (TranslationSession, error) {
	if err := checkPair(p.languages, source, target); err != nil {
		return nil, err
	}

	systemPrompt := buildTranslationPrompt(source, target)
	return pivotlai.SessionFunc(func(ctx context.Context, text string) (string, error) {
		return p.complete(ctx, systemPrompt, text)
	}), nil
}

// Summarize summarizes English text.
func (p *OpenAICapability) Summarize(ctx context.Context, text string) (string, error) {
	return p.complete(ctx, summaryPrompt, text)
}

func (p *OpenAICapability) complete(ctx context.Context, systemPrompt, text string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: p.temperature,
	})
	if err != nil {
		return "", &pivotlai.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return "", &pivotlai.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// summaryPrompt is shared by the chat-based summarizers.
const summaryPrompt = `# Role
You are a precise editor.

# Task
Summarize the English text provided by the user in a few sentences of plain English.

# Format
- Return only the summary, with no preamble or headings.
- Do NOT wrap in Markdown code blocks.`

// buildTranslationPrompt builds the system prompt for one language pair.
func buildTranslationPrompt(source, target string) string {
	sourceName := languageLabel(source)
	targetName := languageLabel(target)

	return fmt.Sprintf(`# Role
You are an expert native translator. You translate %s into %s with the fluency and nuance of a highly educated native speaker.

# Task
Translate the text provided by the user into idiomatic %s.

# Style Guide
- **Natural Flow**: Avoid literal translations. Rephrase sentences to sound completely natural to a native speaker.
- **Idioms**: Never translate idioms literally. Replace them with natural %s equivalents.
- **Interpolation**: Do NOT translate variables or placeholders (e.g., {{name}}, {count}, %%s, $1).
- **Formatting**: Preserve meaningful whitespace and line breaks.

# Format
Return only the translated text.
- Do NOT add explanations, quotes or notes.
- Do NOT wrap in Markdown code blocks.`, sourceName, targetName, targetName, targetName)
}

// languageLabel names a code for prompts, falling back to the code itself.
func languageLabel(code string) string {
	if name := pivotlai.GetLanguageName(code); name != pivotlai.UnknownLanguageName {
		return name
	}
	return code
}

// Verify OpenAICapability implements the capability interfaces
var (
	_ TranslationCapability = (*OpenAICapability)(nil)
	_ Summarizer            = (*OpenAICapability)(nil)
)
