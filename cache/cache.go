// Package cache provides hop result caches for pivotlai.CachedCapability.
package cache

import (
	"context"

	"github.com/ZaguanLabs/pivotlai"
)

// TranslationCache is the interface for hop result caching.
type TranslationCache = pivotlai.TranslationCache

// Enumerable is a cache whose live entries can be listed, for export.
type Enumerable interface {
	TranslationCache
	Entries(ctx context.Context) (map[string]string, error)
}
