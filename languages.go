package pivotlai

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// UnknownLanguageName is shown for codes with no known name.
const UnknownLanguageName = "Unknown"

// LanguageNames maps base language codes to human-readable names.
var LanguageNames = map[string]string{
	// Offered by the language selector
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"pt": "Portuguese",
	"ru": "Russian",
	"tr": "Turkish",

	// Recognized for display
	"ar": "Arabic",
	"bg": "Bulgarian",
	"ca": "Catalan",
	"cs": "Czech",
	"da": "Danish",
	"el": "Greek",
	"fa": "Persian",
	"fi": "Finnish",
	"he": "Hebrew",
	"hi": "Hindi",
	"hu": "Hungarian",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"nl": "Dutch",
	"nb": "Norwegian Bokmål",
	"pl": "Polish",
	"ro": "Romanian",
	"sv": "Swedish",
	"th": "Thai",
	"uk": "Ukrainian",
	"ur": "Urdu",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// SelectableLanguages are the translation targets offered to users.
var SelectableLanguages = []LanguageCode{"en", "es", "fr", "de", "pt", "ru", "tr"}

// Language pairs a code with its display name.
type Language struct {
	Code LanguageCode `json:"code"`
	Name string       `json:"name"`
}

// Languages returns the selectable languages with their names, in selector order.
func Languages() []Language {
	out := make([]Language, len(SelectableLanguages))
	for i, code := range SelectableLanguages {
		out[i] = Language{Code: code, Name: GetLanguageName(code)}
	}
	return out
}

// KnownLanguageCodes returns every code with a display name, sorted.
func KnownLanguageCodes() []LanguageCode {
	codes := make([]LanguageCode, 0, len(LanguageNames))
	for code := range LanguageNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetLanguageName returns the human-readable name for a language code.
// Locale variants resolve to their base language ("es_MX" → "Spanish").
func GetLanguageName(code LanguageCode) string {
	if name, ok := LanguageNames[NormalizeLanguage(code)]; ok {
		return name
	}
	return UnknownLanguageName
}

// NormalizeLanguage reduces a language tag to its lowercase base code
// ("es-ES", "es_ES", "ES" → "es"). Unparseable input is lowercased and trimmed.
func NormalizeLanguage(code LanguageCode) LanguageCode {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return ""
	}

	tag, err := language.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return strings.ToLower(trimmed)
	}

	base, _ := tag.Base()
	return base.String()
}

// SameLanguage reports whether two codes share a base language.
func SameLanguage(a, b LanguageCode) bool {
	return NormalizeLanguage(a) == NormalizeLanguage(b)
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(code LanguageCode) string {
	if RTLLanguages[NormalizeLanguage(code)] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(code LanguageCode) bool {
	return GetDirection(code) == "rtl"
}
