package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ZaguanLabs/pivotlai"
	"github.com/ZaguanLabs/pivotlai/cache"
	"github.com/ZaguanLabs/pivotlai/processor"
	"github.com/ZaguanLabs/pivotlai/provider"
)

// backend is a configured capability plus the optional extras it brings.
type backend struct {
	capability pivotlai.TranslationCapability
	summarizer pivotlai.Summarizer
	cache      pivotlai.TranslationCache
	closers    []func() error
}

func (b *backend) Close() {
	for _, c := range b.closers {
		_ = c()
	}
}

// apiKey prefers the provider's own environment variable over config.
func (a *app) apiKey(env, key string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return a.v.GetString(key)
}

// newCapability builds the raw backend named by the "backend" setting.
func (a *app) newCapability(ctx context.Context) (pivotlai.TranslationCapability, pivotlai.Summarizer, error) {
	switch name := a.v.GetString("backend"); name {
	case "openai":
		key := a.apiKey("OPENAI_API_KEY", "openai.api_key")
		if key == "" {
			return nil, nil, fmt.Errorf("OpenAI API key required (OPENAI_API_KEY env or openai.api_key)")
		}
		p := provider.NewOpenAICapability(provider.OpenAIConfig{
			APIKey:    key,
			Model:     a.v.GetString("openai.model"),
			BaseURL:   a.v.GetString("openai.base_url"),
			Languages: a.v.GetStringSlice("openai.languages"),
		})
		return p, p, nil

	case "gemini":
		key := a.apiKey("GEMINI_API_KEY", "gemini.api_key")
		p, err := provider.NewGeminiCapability(ctx, provider.GeminiConfig{
			APIKey:    key,
			Model:     a.v.GetString("gemini.model"),
			Languages: a.v.GetStringSlice("gemini.languages"),
		})
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil

	case "lambda":
		p, err := provider.NewLambdaCapability(ctx, provider.LambdaConfig{
			FunctionPrefix: a.v.GetString("lambda.function_prefix"),
		})
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil

	case "mock":
		return provider.NewMockCapability(), &provider.MockSummarizer{}, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want openai, gemini, lambda or mock)", name)
	}
}

// newBackend wraps the raw capability the way every command uses it: rate
// limit, retry and circuit-break the backend, then cache each hop.
func (a *app) newBackend(ctx context.Context) (*backend, error) {
	raw, summarizer, err := a.newCapability(ctx)
	if err != nil {
		return nil, err
	}

	b := &backend{summarizer: summarizer}

	capability := raw
	if rpm := a.v.GetInt("rpm"); rpm > 0 {
		capability = pivotlai.NewRateLimitedCapability(capability, pivotlai.RateLimitConfig{RequestsPerMinute: rpm})
	}
	capability = pivotlai.NewRetryableCapability(capability, pivotlai.DefaultRetryConfig())
	capability = pivotlai.NewBreakerCapability(capability, pivotlai.DefaultBreakerConfig(), a.logger)

	b.cache, err = a.newCache(ctx, b)
	if err != nil {
		return nil, err
	}
	b.capability = pivotlai.NewCachedCapability(capability, b.cache, pivotlai.WithCacheLogger(a.logger))

	return b, nil
}

// newCache returns the Redis cache when redis_url is set, memory otherwise.
func (a *app) newCache(ctx context.Context, b *backend) (pivotlai.TranslationCache, error) {
	ttl := a.v.GetInt("cache_ttl")

	url := a.v.GetString("redis_url")
	if url == "" {
		return cache.NewInMemoryCache(ttl), nil
	}

	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		URL:       url,
		TTL:       ttl,
		KeyPrefix: a.v.GetString("redis.key_prefix"),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	b.closers = append(b.closers, rc.Close)
	return rc.WithLogger(a.logger), nil
}

// newOrchestrator builds the orchestrator over b with both processors.
func (a *app) newOrchestrator(b *backend) *pivotlai.Orchestrator {
	opts := []pivotlai.Option{
		pivotlai.WithPivot(pivotlai.NormalizeLanguage(a.v.GetString("pivot"))),
		pivotlai.WithMaxAttempts(a.v.GetInt("max_attempts")),
		pivotlai.WithLogger(a.logger),
		pivotlai.WithProcessor(processor.NewHTMLProcessor()),
		pivotlai.WithProcessor(processor.NewTextProcessor()),
	}
	if n := a.v.GetInt("concurrency"); n > 0 {
		opts = append(opts, pivotlai.WithConcurrency(n))
	}
	return pivotlai.NewOrchestrator(b.capability, opts...)
}

// newDetector returns the offline lingua detector.
func (a *app) newDetector() pivotlai.LanguageDetector {
	return provider.NewLinguaDetector(a.v.GetStringSlice("detect.languages")...)
}
