package pivotlai

import (
	"sort"
	"testing"
)

func TestGetLanguageName(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"en", "English"},
		{"es", "Spanish"},
		{"es_MX", "Spanish"},
		{"pt-BR", "Portuguese"},
		{"TR", "Turkish"},
		{"xx", UnknownLanguageName},
		{"", UnknownLanguageName},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			result := GetLanguageName(tt.code)
			if result != tt.expected {
				t.Errorf("GetLanguageName(%q) = %q, want %q", tt.code, result, tt.expected)
			}
		})
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"es-ES", "es"},
		{"es_ES", "es"},
		{"EN", "en"},
		{" fr ", "fr"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeLanguage(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeLanguage(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSameLanguage(t *testing.T) {
	if !SameLanguage("en-US", "en_GB") {
		t.Error("en-US and en_GB share a base language")
	}
	if SameLanguage("es", "pt") {
		t.Error("es and pt are different languages")
	}
}

func TestGetDirection(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"ar_SA", "rtl"},
		{"he", "rtl"},
		{"fa-IR", "rtl"},
		{"ur", "rtl"},
		{"es", "ltr"},
		{"en_US", "ltr"},
		{"ja", "ltr"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			result := GetDirection(tt.code)
			if result != tt.expected {
				t.Errorf("GetDirection(%q) = %q, want %q", tt.code, result, tt.expected)
			}
		})
	}
}

func TestIsRTL(t *testing.T) {
	if !IsRTL("ar") {
		t.Error("IsRTL(ar) should be true")
	}
	if IsRTL("en") {
		t.Error("IsRTL(en) should be false")
	}
}

func TestLanguages(t *testing.T) {
	langs := Languages()

	if len(langs) != len(SelectableLanguages) {
		t.Fatalf("Expected %d languages, got %d", len(SelectableLanguages), len(langs))
	}
	if langs[0].Code != "en" || langs[0].Name != "English" {
		t.Errorf("Expected English first, got %+v", langs[0])
	}
	for _, l := range langs {
		if l.Name == UnknownLanguageName {
			t.Errorf("Selectable language %s has no name", l.Code)
		}
	}
}

func TestKnownLanguageCodes(t *testing.T) {
	codes := KnownLanguageCodes()

	if len(codes) != len(LanguageNames) {
		t.Errorf("Expected %d codes, got %d", len(LanguageNames), len(codes))
	}
	if !sort.StringsAreSorted(codes) {
		t.Error("Codes should be sorted")
	}
}
