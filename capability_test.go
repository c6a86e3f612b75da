package pivotlai

import (
	"context"
	"sync"
)

// stubCapability is an in-package capability whose sessions run translate.
type stubCapability struct {
	mu          sync.Mutex
	unavailable bool
	supported   map[string]bool // "src->tgt"; nil supports every pair
	translate   func(ctx context.Context, text string) (string, error)
	creates     int
	translates  int
}

func (c *stubCapability) Available(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.unavailable
}

func (c *stubCapability) Create(ctx context.Context, sourceLang, targetLang LanguageCode) (TranslationSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creates++

	if c.supported != nil && !c.supported[sourceLang+"->"+targetLang] {
		return nil, ErrPairUnsupported
	}

	return SessionFunc(func(ctx context.Context, text string) (string, error) {
		c.mu.Lock()
		c.translates++
		fn := c.translate
		c.mu.Unlock()

		if fn == nil {
			return "<" + text + ">", nil
		}
		return fn(ctx, text)
	}), nil
}

func (c *stubCapability) translateCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.translates
}

// mapCache is an in-memory TranslationCache with an optional write error.
type mapCache struct {
	mu       sync.Mutex
	entries  map[string]string
	setErr   error
	setCalls int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]string)}
}

func (c *mapCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *mapCache) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCalls++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	return nil
}
