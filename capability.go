package pivotlai

import "context"

// TranslationCapability is the external service that provides translation
// sessions for language pairs.
type TranslationCapability interface {
	// Available reports whether the capability exists in this environment.
	Available(ctx context.Context) bool

	// Create opens a session for one language pair. It fails when the pair
	// is unsupported or the service is unavailable.
	Create(ctx context.Context, sourceLang, targetLang LanguageCode) (TranslationSession, error)
}

// TranslationSession translates text for the pair it was created for.
type TranslationSession interface {
	Translate(ctx context.Context, text string) (string, error)
}

// SessionFunc adapts a function to TranslationSession.
type SessionFunc func(ctx context.Context, text string) (string, error)

// Translate calls f.
func (f SessionFunc) Translate(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Detection is the best guess of a language detector.
type Detection struct {
	Language   LanguageCode // Empty when nothing was detected
	Confidence float64      // 0..1, zero when unknown
}

// LanguageDetector guesses the language of a text.
type LanguageDetector interface {
	Detect(ctx context.Context, text string) (Detection, error)
}

// Summarizer produces a summary of English text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// TranslationCache is the interface for hop result caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// ContentProcessor extracts translatable nodes from structured content and
// puts translations back.
type ContentProcessor interface {
	Extract(content string) (any, []TextNode, error)

	// Apply writes translations (keyed by node hash) into parsed content and
	// marks the result as targetLang where the format allows it.
	Apply(parsed any, nodes []TextNode, translations map[string]string, targetLang LanguageCode) (string, error)

	ContentType() string
}
