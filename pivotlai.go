// Package pivotlai provides an AI-powered text processing toolkit built
// around a pivoting translation orchestrator.
//
// The orchestrator translates text through an external translation
// capability. When a language pair cannot be translated directly, it pivots
// through an intermediate language (English by default), bounded by a retry
// budget so that every call terminates. Failures never surface to callers of
// Translate: the original text is returned instead.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/pivotlai"
//	    "github.com/ZaguanLabs/pivotlai/cache"
//	    "github.com/ZaguanLabs/pivotlai/provider"
//	)
//
//	func main() {
//	    // Create capability
//	    c := provider.NewOpenAICapability(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//
//	    // Cache hop results and retry transient failures
//	    capability := pivotlai.NewCachedCapability(
//	        pivotlai.NewRetryableCapability(c, pivotlai.DefaultRetryConfig()),
//	        cache.NewInMemoryCache(3600),
//	    )
//
//	    // Create orchestrator
//	    o := pivotlai.NewOrchestrator(capability, pivotlai.WithPivot("en"))
//
//	    // Translate, pivoting through English when needed
//	    fmt.Println(o.Translate(context.Background(), "Hola", "es", "fr")) // Bonjour
//	}
package pivotlai
