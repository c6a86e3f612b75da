package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ZaguanLabs/pivotlai"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
)

// romanceLanguages can translate to and from English through the romance models.
var romanceLanguages = map[string]bool{
	"es": true, "fr": true, "it": true, "pt": true, "ro": true,
	"ca": true, "gl": true, "oc": true, "la": true, "rm": true,
	"co": true, "wa": true, "an": true, "sc": true,
}

// LambdaInvoker is the subset of the Lambda client the capability uses.
type LambdaInvoker interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaConfig holds configuration for the Lambda capability.
type LambdaConfig struct {
	FunctionPrefix string // Translator function name prefix (default: "translator")
}

// LambdaCapability translates through per-model translator Lambdas. Each
// model covers one direction between English and a language group, so only
// pairs involving English are supported directly; the orchestrator pivots
// for everything else.
type LambdaCapability struct {
	invoker LambdaInvoker
	prefix  string
}

// lambdaRequest is the payload sent to translator Lambdas.
type lambdaRequest struct {
	Chunks     [][]string `json:"chunks"`
	TargetLang string     `json:"target_lang,omitempty"` // Required for en-romance
}

// lambdaResponse is the payload returned by translator Lambdas.
type lambdaResponse struct {
	Translations [][]string `json:"translations"`
	Error        string     `json:"error,omitempty"`
}

// NewLambdaCapability creates a Lambda capability using the default AWS
// configuration chain.
func NewLambdaCapability(ctx context.Context, cfg LambdaConfig) (*LambdaCapability, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewLambdaCapabilityWithInvoker(lambda.NewFromConfig(awsCfg), cfg), nil
}

// NewLambdaCapabilityWithInvoker creates a Lambda capability over an existing client.
func NewLambdaCapabilityWithInvoker(invoker LambdaInvoker, cfg LambdaConfig) *LambdaCapability {
	prefix := cfg.FunctionPrefix
	if prefix == "" {
		prefix = "translator"
	}
	return &LambdaCapability{invoker: invoker, prefix: prefix}
}

// Available implements TranslationCapability.
func (c *LambdaCapability) Available(ctx context.Context) bool {
	return c.invoker != nil
}

// route returns the function and target hint for a single-model pair.
func (c *LambdaCapability) route(source, target string) (function, targetHint string, ok bool) {
	source = pivotlai.NormalizeLanguage(source)
	target = pivotlai.NormalizeLanguage(target)

	switch {
	case target == "en" && romanceLanguages[source]:
		return c.prefix + "-romance-en", "", true
	case target == "en" && source == "de":
		return c.prefix + "-de-en", "", true
	case source == "en" && romanceLanguages[target]:
		return c.prefix + "-en-romance", target, true
	case source == "en" && target == "de":
		return c.prefix + "-en-de", "", true
	}
	return "", "", false
}

// Create implements TranslationCapability.
func (c *LambdaCapability) Create(ctx context.Context, source, target string) (TranslationSession, error) {
	function, targetHint, ok := c.route(source, target)
	if !ok {
		return nil, &pivotlai.PairError{SourceLang: source, TargetLang: target, Cause: pivotlai.ErrPairUnsupported}
	}

	return pivotlai.SessionFunc(func(ctx context.Context, text string) (string, error) {
		return c.invoke(ctx, function, targetHint, text)
	}), nil
}

func (c *LambdaCapability) invoke(ctx context.Context, function, targetHint, text string) (string, error) {
	payload, err := json.Marshal(lambdaRequest{
		Chunks:     [][]string{{text}},
		TargetLang: targetHint,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	result, err := c.invoker.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: &function,
		Payload:      payload,
	})
	if err != nil {
		return "", &pivotlai.ProviderError{
			Message:   fmt.Sprintf("failed to invoke %s", function),
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if result.FunctionError != nil {
		return "", &pivotlai.ProviderError{Message: fmt.Sprintf("lambda error: %s", *result.FunctionError)}
	}

	var resp lambdaResponse
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return "", &pivotlai.ProviderError{Message: "failed to parse response", Cause: err}
	}

	if resp.Error != "" {
		return "", &pivotlai.ProviderError{Message: fmt.Sprintf("translator error: %s", resp.Error)}
	}

	if len(resp.Translations) != 1 || len(resp.Translations[0]) != 1 {
		got := 0
		for _, chunk := range resp.Translations {
			got += len(chunk)
		}
		return "", &pivotlai.CountMismatchError{Expected: 1, Got: got}
	}

	return resp.Translations[0][0], nil
}

// Verify LambdaCapability implements TranslationCapability
var _ TranslationCapability = (*LambdaCapability)(nil)
