package pivotlai

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// TranslateResults translates texts concurrently, bounded by the configured
// concurrency. Results are in input order. Each text gets the same guarantees
// as TranslateResult; the only error is a cancelled context.
func (o *Orchestrator) TranslateResults(ctx context.Context, texts []string, sourceLang, targetLang LanguageCode) ([]*Result, error) {
	results := make([]*Result, len(texts))
	if len(texts) == 0 {
		return results, nil
	}

	// Deduplicate so repeated texts cost one orchestration
	unique := make(map[string]int, len(texts))
	order := make([]string, 0, len(texts))
	for _, text := range texts {
		if _, ok := unique[text]; !ok {
			unique[text] = len(order)
			order = append(order, text)
		}
	}

	translated := make([]*Result, len(order))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, text := range order {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			translated[i] = o.TranslateResult(gctx, text, sourceLang, targetLang)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, text := range texts {
		results[i] = translated[unique[text]]
	}

	return results, nil
}

// TranslateAll is TranslateResults collapsed to text. Failed entries hold
// their original text.
func (o *Orchestrator) TranslateAll(ctx context.Context, texts []string, sourceLang, targetLang LanguageCode) []string {
	out := make([]string, len(texts))
	copy(out, texts)

	results, err := o.TranslateResults(ctx, texts, sourceLang, targetLang)
	if err != nil {
		return out
	}

	for i, res := range results {
		out[i] = res.Text
	}
	return out
}
