package pivotlai

import "testing"

func TestHashText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple text",
			input:    "Hello World",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:     "text with leading whitespace",
			input:    "  Hello World",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:     "text with both whitespace",
			input:    "  Hello World  ",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:  "empty string",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HashText(tt.input)
			if tt.expected != "" && result != tt.expected {
				t.Errorf("HashText(%q) = %q, want %q", tt.input, result, tt.expected)
			}
			// SHA-256 = 64 hex chars
			if len(result) != 64 {
				t.Errorf("HashText(%q) length = %d, want 64", tt.input, len(result))
			}
		})
	}
}

func TestHashHop(t *testing.T) {
	if HashHop("Hola") != HashText("Hola") {
		t.Error("HashHop and HashText should agree on text without surrounding whitespace")
	}

	seen := make(map[string]string)
	for _, input := range []string{"Hola", "Hola\n\n", "  Hola", "Hola "} {
		h := HashHop(input)
		if prev, ok := seen[h]; ok {
			t.Errorf("HashHop(%q) collides with HashHop(%q)", input, prev)
		}
		seen[h] = input
	}
}

func TestCacheKey(t *testing.T) {
	hash := "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e"

	result := CacheKey(hash, "es", "en")
	expected := "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e:es:en"

	if result != expected {
		t.Errorf("CacheKey() = %q, want %q", result, expected)
	}
}

func TestCacheKey_Directional(t *testing.T) {
	if CacheKey("abc", "es", "en") == CacheKey("abc", "en", "es") {
		t.Error("Cache keys must depend on hop direction")
	}
}

func TestCacheKeyExtended(t *testing.T) {
	result := CacheKeyExtended("abc123", "en", "es", "gpt-4o-mini")
	expected := "abc123:en:es:gpt-4o-mini"

	if result != expected {
		t.Errorf("CacheKeyExtended() = %q, want %q", result, expected)
	}
}

func TestParseCacheKey(t *testing.T) {
	hash, src, tgt, ok := ParseCacheKey(CacheKeyExtended("abc123", "es", "en", "gpt-4o-mini"))
	if !ok || hash != "abc123" || src != "es" || tgt != "en" {
		t.Errorf("ParseCacheKey() = (%q, %q, %q, %v)", hash, src, tgt, ok)
	}

	if _, _, _, ok := ParseCacheKey("not-a-key"); ok {
		t.Error("Expected malformed key to be rejected")
	}
}
