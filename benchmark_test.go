package pivotlai_test

import (
	"context"
	"testing"

	"github.com/ZaguanLabs/pivotlai"
	"github.com/ZaguanLabs/pivotlai/cache"
	"github.com/ZaguanLabs/pivotlai/processor"
	"github.com/ZaguanLabs/pivotlai/provider"
)

func BenchmarkHashText(b *testing.B) {
	text := "Hola Mundo, este es un texto de ejemplo"
	for i := 0; i < b.N; i++ {
		pivotlai.HashText(text)
	}
}

func BenchmarkInMemoryCache_Get(b *testing.B) {
	c := cache.NewInMemoryCache(3600)
	c.Set("hash:es:en", "Hello")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("hash:es:en")
	}
}

func BenchmarkOrchestrator_Direct(b *testing.B) {
	o := newOrchestrator(provider.NewMockCapability())
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		o.Translate(ctx, "Hola", "es", "en")
	}
}

func BenchmarkOrchestrator_Pivot(b *testing.B) {
	o := newOrchestrator(provider.NewMockCapability())
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		o.Translate(ctx, "Hola", "es", "fr")
	}
}

func BenchmarkOrchestrator_Exhausted(b *testing.B) {
	o := newOrchestrator(provider.NewEmptyMockCapability())
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		o.Translate(ctx, "Hola", "es", "fr")
	}
}

func BenchmarkOrchestrator_PivotCached(b *testing.B) {
	c := pivotlai.NewCachedCapability(provider.NewMockCapability(), cache.NewInMemoryCache(0), pivotlai.WithCacheLogger(quietLogger()))
	o := newOrchestrator(c)
	ctx := context.Background()
	o.Translate(ctx, "Hola", "es", "fr")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		o.Translate(ctx, "Hola", "es", "fr")
	}
}

func BenchmarkTranslateContent_HTML(b *testing.B) {
	o := newOrchestrator(provider.NewMockCapability(), pivotlai.WithProcessor(processor.NewHTMLProcessor()))
	html := `<!DOCTYPE html>
<html>
<head><title>Hola</title></head>
<body>
	<nav><a href="/">Hola</a><a href="/about">Hola Mundo</a></nav>
	<main>
		<h1>Hola Mundo</h1>
		<p>Hola</p>
		<pre>Hola</pre>
	</main>
</body>
</html>`
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		o.TranslateContent(ctx, html, "html", "es", "fr")
	}
}

func BenchmarkNormalizeLanguage(b *testing.B) {
	langs := []string{"en_US", "es-ES", "ar", "pt_BR", "zh-Hant-TW"}
	for i := 0; i < b.N; i++ {
		pivotlai.NormalizeLanguage(langs[i%len(langs)])
	}
}
