package pivotlai

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// HashHop computes the SHA-256 hash of the exact text. Hop results keep the
// input's surrounding whitespace, so hop cache keys must not trim.
func HashHop(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates a hop cache key from a text hash and a language pair.
func CacheKey(hash string, sourceLang, targetLang LanguageCode) string {
	return hash + ":" + sourceLang + ":" + targetLang
}

// CacheKeyExtended also keys on the backend model, for caches shared
// between differently configured capabilities.
func CacheKeyExtended(hash string, sourceLang, targetLang LanguageCode, model string) string {
	return hash + ":" + sourceLang + ":" + targetLang + ":" + model
}

// ParseCacheKey splits a key built by CacheKey. Extended keys keep their
// model suffix out of the result.
func ParseCacheKey(key string) (hash string, sourceLang, targetLang LanguageCode, ok bool) {
	parts := strings.Split(key, ":")
	if len(parts) < 3 || parts[0] == "" {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}
