package pivotlai

import "time"

// LanguageCode names a natural language (e.g., "en", "es").
// Validity is decided by the capability, not locally.
type LanguageCode = string

// DefaultPivot is the intermediate language used when none is configured.
const DefaultPivot LanguageCode = "en"

// DefaultMaxAttempts is the pivot depth after which a failing hop fails the request.
const DefaultMaxAttempts = 2

// TranslationRequest is one unit of work for the orchestrator.
// A request is never mutated; each pivot hop builds a new one.
type TranslationRequest struct {
	Text       string
	SourceLang LanguageCode
	TargetLang LanguageCode
	Attempt    int // Pivot depth, starts at 0
}

// next builds the request for a pivot leg.
func (r TranslationRequest) next(text string, source, target LanguageCode) TranslationRequest {
	return TranslationRequest{
		Text:       text,
		SourceLang: source,
		TargetLang: target,
		Attempt:    r.Attempt + 1,
	}
}

// State is the position of a request in the orchestration state machine.
type State int

const (
	// StateDirectAttempt tries the (source, target) pair directly.
	StateDirectAttempt State = iota
	// StatePivotHopA waits for source -> pivot.
	StatePivotHopA
	// StatePivotHopB waits for pivot -> target.
	StatePivotHopB
	// StateSucceeded holds a translated text.
	StateSucceeded
	// StateFailed holds the error that ended the request.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDirectAttempt:
		return "direct"
	case StatePivotHopA:
		return "pivot_a"
	case StatePivotHopB:
		return "pivot_b"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status summarizes how a top-level call ended.
type Status string

const (
	// StatusIdentity means source and target matched; no capability call was made.
	StatusIdentity Status = "identity"
	// StatusDirect means the direct hop succeeded.
	StatusDirect Status = "direct"
	// StatusPivot means the text was translated through the pivot language.
	StatusPivot Status = "pivot"
	// StatusFailed means every strategy failed and Text is the original input.
	StatusFailed Status = "failed"
)

// Hop records one attempted session invocation.
type Hop struct {
	SourceLang LanguageCode
	TargetLang LanguageCode
	Attempt    int
	Duration   time.Duration
	Err        error // nil on success
}

// Result is the tagged outcome of a top-level translation.
type Result struct {
	ID     string // Correlates log lines for one call
	Text   string // Translated text, or the original on failure
	Status Status
	Hops   []Hop
	Err    error // Terminal error when Status is StatusFailed
}

// OK reports whether Text is a translation (or an identity pass-through).
func (r *Result) OK() bool {
	return r.Status != StatusFailed
}

// TextNode represents a translatable unit of content.
type TextNode struct {
	ID       string            // Unique identifier within the document
	Text     string            // Original text content (trimmed)
	Hash     string            // SHA-256 hash of Text
	NodeType string            // Content type: "html_text", etc.
	Context  string            // Where the text appeared
	Metadata map[string]string // Additional info (parent tag, etc.)
}

// ProcessedContent is the result of translating structured content.
type ProcessedContent struct {
	Content         string // Translated content
	TranslatedCount int    // Nodes translated successfully
	FailedCount     int    // Nodes left in the source language
	TotalNodes      int    // Total translatable nodes found
}

// RTLLanguages contains language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
}

// IgnoredTags contains HTML tags whose content should not be translated.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}
