package pivotlai

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Orchestrator translates text through a TranslationCapability, pivoting
// through an intermediate language when a pair cannot be translated directly.
//
// An Orchestrator holds no mutable state after construction and is safe for
// concurrent use.
type Orchestrator struct {
	capability  TranslationCapability
	pivot       LanguageCode
	maxAttempts int
	concurrency int
	logger      log.FieldLogger
	processors  map[string]ContentProcessor
}

// Option is a functional option for configuring the Orchestrator.
type Option func(*Orchestrator)

// WithPivot sets the intermediate language used for pivot hops.
func WithPivot(lang LanguageCode) Option {
	return func(o *Orchestrator) {
		if lang != "" {
			o.pivot = lang
		}
	}
}

// WithMaxAttempts sets the pivot depth ceiling. Zero disables pivoting.
func WithMaxAttempts(n int) Option {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.maxAttempts = n
		}
	}
}

// WithConcurrency bounds how many texts TranslateAll translates at once.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.FieldLogger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProcessor registers a content processor for TranslateContent.
func WithProcessor(processor ContentProcessor) Option {
	return func(o *Orchestrator) {
		o.processors[processor.ContentType()] = processor
	}
}

// NewOrchestrator creates an Orchestrator over the given capability.
// A nil capability behaves as an unavailable one.
func NewOrchestrator(capability TranslationCapability, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		capability:  capability,
		pivot:       DefaultPivot,
		maxAttempts: DefaultMaxAttempts,
		concurrency: 4,
		logger:      log.StandardLogger(),
		processors:  make(map[string]ContentProcessor),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Pivot returns the intermediate language.
func (o *Orchestrator) Pivot() LanguageCode {
	return o.pivot
}

// MaxAttempts returns the pivot depth ceiling.
func (o *Orchestrator) MaxAttempts() int {
	return o.maxAttempts
}

// Translate returns text translated from sourceLang to targetLang.
// It never fails: when every strategy fails the original text is returned.
func (o *Orchestrator) Translate(ctx context.Context, text string, sourceLang, targetLang LanguageCode) string {
	res := o.TranslateResult(ctx, text, sourceLang, targetLang)
	return res.Text
}

// frame is one request on the orchestration stack.
type frame struct {
	req   TranslationRequest
	state State
	via   State // state that produced StateSucceeded
	out   string
	err   error
}

func (f *frame) succeed(out string, via State) {
	f.state = StateSucceeded
	f.via = via
	f.out = out
}

func (f *frame) fail(err error) {
	f.state = StateFailed
	f.err = err
}

// TranslateResult is Translate with the outcome tagged: the caller can tell
// an identity pass-through from a translation from a failure.
func (o *Orchestrator) TranslateResult(ctx context.Context, text string, sourceLang, targetLang LanguageCode) *Result {
	res := &Result{ID: uuid.NewString()}
	logger := o.logger.WithFields(log.Fields{
		"call_id": res.ID,
		"source":  sourceLang,
		"target":  targetLang,
	})

	if sourceLang == targetLang {
		res.Text = text
		res.Status = StatusIdentity
		return res
	}

	root := &frame{req: TranslationRequest{Text: text, SourceLang: sourceLang, TargetLang: targetLang}}
	stack := []*frame{root}

	for len(stack) > 0 {
		f := stack[len(stack)-1]

		switch f.state {
		case StateDirectAttempt:
			if f.req.SourceLang == f.req.TargetLang {
				f.succeed(f.req.Text, StateDirectAttempt)
				continue
			}

			out, err := o.hop(ctx, f.req, res, logger)
			if err == nil {
				f.succeed(out, StateDirectAttempt)
				continue
			}

			if ctx.Err() != nil {
				f.fail(err)
				continue
			}

			if f.req.Attempt >= o.maxAttempts {
				f.fail(fmt.Errorf("%w at attempt %d: %w", ErrRetryBudgetExhausted, f.req.Attempt, err))
				continue
			}

			if f.req.Attempt == 0 {
				logger.WithError(err).Warnf("direct translation failed, trying pivot %s", o.pivot)
			}

			f.state = StatePivotHopA
			stack = append(stack, &frame{req: f.req.next(f.req.Text, f.req.SourceLang, o.pivot)})

		case StateSucceeded, StateFailed:
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				continue
			}

			parent := stack[len(stack)-1]
			if f.state == StateFailed {
				parent.fail(f.err)
				continue
			}

			switch parent.state {
			case StatePivotHopA:
				parent.state = StatePivotHopB
				stack = append(stack, &frame{req: parent.req.next(f.out, o.pivot, parent.req.TargetLang)})
			case StatePivotHopB:
				parent.succeed(f.out, StatePivotHopB)
			}

		default:
			// Pivot states are only ever on top of the stack when a child completes.
			f.fail(fmt.Errorf("unexpected orchestration state %s", f.state))
		}
	}

	if root.state == StateSucceeded {
		res.Text = root.out
		res.Status = StatusDirect
		if root.via == StatePivotHopB {
			res.Status = StatusPivot
		}
		logger.WithField("hops", len(res.Hops)).Debugf("translation %s", res.Status)
		return res
	}

	res.Text = text
	res.Status = StatusFailed
	res.Err = &TranslationError{Message: "translation failed", Cause: root.err}
	logger.WithError(root.err).WithField("hops", len(res.Hops)).Error("translation failed, returning original text")
	return res
}

// hop performs one session invocation and records it on the result.
func (o *Orchestrator) hop(ctx context.Context, req TranslationRequest, res *Result, logger log.FieldLogger) (string, error) {
	start := time.Now()
	out, err := o.invoke(ctx, req)

	res.Hops = append(res.Hops, Hop{
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		Attempt:    req.Attempt,
		Duration:   time.Since(start),
		Err:        err,
	})

	entry := logger.WithFields(log.Fields{
		"hop_source": req.SourceLang,
		"hop_target": req.TargetLang,
		"attempt":    req.Attempt,
	})
	if err != nil {
		entry.WithError(err).Debug("hop failed")
	} else {
		entry.Debug("hop succeeded")
	}

	return out, err
}

func (o *Orchestrator) invoke(ctx context.Context, req TranslationRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if o.capability == nil || !o.capability.Available(ctx) {
		return "", ErrCapabilityUnavailable
	}

	session, err := o.capability.Create(ctx, req.SourceLang, req.TargetLang)
	if err != nil {
		return "", &PairError{SourceLang: req.SourceLang, TargetLang: req.TargetLang, Cause: err}
	}
	if session == nil {
		return "", &PairError{SourceLang: req.SourceLang, TargetLang: req.TargetLang, Cause: ErrInvalidSession}
	}

	out, err := session.Translate(ctx, req.Text)
	if err != nil {
		return "", &HopError{
			SourceLang: req.SourceLang,
			TargetLang: req.TargetLang,
			Attempt:    req.Attempt,
			Cause:      err,
		}
	}

	return out, nil
}

// TranslateContent translates structured content (e.g., HTML) node by node.
// Nodes that fail to translate keep their original text.
func (o *Orchestrator) TranslateContent(ctx context.Context, content, contentType string, sourceLang, targetLang LanguageCode) (*ProcessedContent, error) {
	if sourceLang == targetLang {
		return &ProcessedContent{Content: content}, nil
	}

	processor, ok := o.processors[contentType]
	if !ok {
		return nil, &ProcessorError{
			Message:     "no processor registered for content type",
			ContentType: contentType,
		}
	}

	parsed, nodes, err := processor.Extract(content)
	if err != nil {
		return nil, err
	}

	if len(nodes) == 0 {
		return &ProcessedContent{Content: content}, nil
	}

	texts := make([]string, len(nodes))
	for i, node := range nodes {
		texts[i] = node.Text
	}

	results, err := o.TranslateResults(ctx, texts, sourceLang, targetLang)
	if err != nil {
		return nil, err
	}

	translations := make(map[string]string, len(nodes))
	translated, failed := 0, 0
	for i, node := range nodes {
		if !results[i].OK() {
			failed++
			continue
		}
		translations[node.Hash] = results[i].Text
		translated++
	}

	out, err := processor.Apply(parsed, nodes, translations, targetLang)
	if err != nil {
		return nil, err
	}

	return &ProcessedContent{
		Content:         out,
		TranslatedCount: translated,
		FailedCount:     failed,
		TotalNodes:      len(nodes),
	}, nil
}
