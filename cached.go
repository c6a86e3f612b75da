package pivotlai

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// CachedCapability caches hop results. Identical hops running concurrently
// share one backend call. Cache write failures are logged and ignored.
type CachedCapability struct {
	capability TranslationCapability
	cache      TranslationCache
	namespace  string
	logger     log.FieldLogger
	group      singleflight.Group
}

// CachedOption configures a CachedCapability.
type CachedOption func(*CachedCapability)

// WithCacheNamespace keys entries on a backend name (e.g., the model), so
// one cache can serve several capabilities.
func WithCacheNamespace(namespace string) CachedOption {
	return func(c *CachedCapability) {
		c.namespace = namespace
	}
}

// WithCacheLogger sets the logger.
func WithCacheLogger(logger log.FieldLogger) CachedOption {
	return func(c *CachedCapability) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCachedCapability wraps capability with cache.
func NewCachedCapability(capability TranslationCapability, cache TranslationCache, opts ...CachedOption) *CachedCapability {
	c := &CachedCapability{
		capability: capability,
		cache:      cache,
		logger:     log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedCapability) key(text string, sourceLang, targetLang LanguageCode) string {
	hash := HashHop(text)
	if c.namespace != "" {
		return CacheKeyExtended(hash, sourceLang, targetLang, c.namespace)
	}
	return CacheKey(hash, sourceLang, targetLang)
}

// Available implements TranslationCapability.
func (c *CachedCapability) Available(ctx context.Context) bool {
	return c.capability.Available(ctx)
}

// Create implements TranslationCapability.
func (c *CachedCapability) Create(ctx context.Context, sourceLang, targetLang LanguageCode) (TranslationSession, error) {
	session, err := c.capability.Create(ctx, sourceLang, targetLang)
	if err != nil {
		return nil, err
	}

	return SessionFunc(func(ctx context.Context, text string) (string, error) {
		// Blank text is never cached
		if strings.TrimSpace(text) == "" {
			return session.Translate(ctx, text)
		}

		key := c.key(text, sourceLang, targetLang)
		if cached, ok := c.cache.Get(key); ok {
			return cached, nil
		}

		// The shared call outlives any one caller; each waiter stops on
		// its own context.
		shared := context.WithoutCancel(ctx)
		ch := c.group.DoChan(key, func() (interface{}, error) {
			out, err := session.Translate(shared, text)
			if err != nil {
				return "", err
			}
			if err := c.cache.Set(key, out); err != nil {
				c.logger.WithError(&CacheError{Message: "storing hop result", Cause: err}).Warn("cache write failed")
			}
			return out, nil
		})

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				return "", res.Err
			}
			return res.Val.(string), nil
		}
	}), nil
}
