// Command pivotlai-lambda serves the pivoting orchestrator as an AWS Lambda
// function. Pairs without a translator Lambda are pivoted through English.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	log "github.com/sirupsen/logrus"

	"github.com/ZaguanLabs/pivotlai"
	"github.com/ZaguanLabs/pivotlai/cache"
	"github.com/ZaguanLabs/pivotlai/provider"
)

func main() {
	logger := log.New()
	logger.SetFormatter(&log.JSONFormatter{})
	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	}

	ctx := context.Background()
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		logger.WithError(err).Fatal("failed to load AWS config")
	}
	client := lambdasdk.NewFromConfig(awsCfg)

	h, err := newHandler(ctx, client, handlerConfig{
		FunctionName:   os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
		FunctionPrefix: os.Getenv("TRANSLATOR_PREFIX"),
		RedisURL:       os.Getenv("REDIS_URL"),
		CacheTTL:       envInt("CACHE_TTL", 86400),
		MaxAttempts:    envInt("MAX_ATTEMPTS", pivotlai.DefaultMaxAttempts),
		Logger:         logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create handler")
	}

	lambda.Start(h.handle)
}

func envInt(name string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(name)); err == nil {
		return n
	}
	return fallback
}

// Request is the input event.
type Request struct {
	Texts      []string `json:"texts"`
	SourceLang string   `json:"sourceLang"`
	TargetLang string   `json:"targetLang"`
}

// Response is the function result. Texts that could not be translated come
// back unchanged and are listed in Failed.
type Response struct {
	Translations []string `json:"translations"`
	Failed       []int    `json:"failed,omitempty"`
	Error        string   `json:"error,omitempty"`
}

type handlerConfig struct {
	FunctionName   string // This function, for warmup self-invocation
	FunctionPrefix string // Translator function name prefix
	RedisURL       string // Hop cache shared across instances; memory when empty
	CacheTTL       int
	MaxAttempts    int
	Logger         log.FieldLogger
}

type handler struct {
	orchestrator *pivotlai.Orchestrator
	invoker      provider.LambdaInvoker
	functionName string
	logger       log.FieldLogger
}

// newHandler wires the Lambda capability behind retry and a hop cache. The
// cache outlives single invocations while the instance stays warm.
func newHandler(ctx context.Context, invoker provider.LambdaInvoker, cfg handlerConfig) (*handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}

	var hopCache pivotlai.TranslationCache = cache.NewInMemoryCache(cfg.CacheTTL)
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.RedisURL, TTL: cfg.CacheTTL})
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		hopCache = rc.WithLogger(logger)
	}

	capability := pivotlai.NewCachedCapability(
		pivotlai.NewRetryableCapability(
			provider.NewLambdaCapabilityWithInvoker(invoker, provider.LambdaConfig{FunctionPrefix: cfg.FunctionPrefix}),
			pivotlai.DefaultRetryConfig(),
		),
		hopCache,
		pivotlai.WithCacheLogger(logger),
	)

	return &handler{
		orchestrator: pivotlai.NewOrchestrator(capability,
			pivotlai.WithMaxAttempts(cfg.MaxAttempts),
			pivotlai.WithLogger(logger),
		),
		invoker:      invoker,
		functionName: cfg.FunctionName,
		logger:       logger,
	}, nil
}

func (h *handler) handle(ctx context.Context, event json.RawMessage) (any, error) {
	// Warmup detection must come before request parsing
	if warmup, ok := isWarmupEvent(event); ok {
		return h.handleWarmup(ctx, warmup), nil
	}

	var req Request
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, err
	}
	return h.translate(ctx, req), nil
}

func validateRequest(req Request) error {
	if req.SourceLang == "" {
		return fmt.Errorf("sourceLang is required")
	}
	if req.TargetLang == "" {
		return fmt.Errorf("targetLang is required")
	}
	if req.Texts == nil {
		return fmt.Errorf("texts is required")
	}
	return nil
}

func (h *handler) translate(ctx context.Context, req Request) *Response {
	if err := validateRequest(req); err != nil {
		return &Response{Error: err.Error()}
	}

	// The capability routes on base codes itself
	source := strings.TrimSpace(req.SourceLang)
	target := strings.TrimSpace(req.TargetLang)

	results, err := h.orchestrator.TranslateResults(ctx, req.Texts, source, target)
	if err != nil {
		return &Response{Translations: req.Texts, Error: err.Error()}
	}

	resp := &Response{Translations: make([]string, len(results))}
	for i, res := range results {
		resp.Translations[i] = res.Text
		if !res.OK() {
			resp.Failed = append(resp.Failed, i)
		}
	}

	h.logger.WithFields(log.Fields{
		"source": source,
		"target": target,
		"texts":  len(req.Texts),
		"failed": len(resp.Failed),
	}).Info("batch translated")

	return resp
}
