package pivotlai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrEmptyInput is returned when Submit receives blank text.
	ErrEmptyInput = errors.New("please enter some text")

	// ErrSummaryUnsupported is returned when summarizing non-English output.
	ErrSummaryUnsupported = errors.New("summarization is only available for English text")

	// ErrNothingToTranslate is returned when there is no output to translate.
	ErrNothingToTranslate = errors.New("no text to translate")

	// ErrNoSummarizer is returned when the pipeline has no summarizer.
	ErrNoSummarizer = errors.New("summarizer not configured")
)

// SummaryLanguage is the only language the summarizer accepts.
const SummaryLanguage LanguageCode = "en"

// PipelineState is a snapshot of a Pipeline.
type PipelineState struct {
	Input        string       `json:"input"`
	Output       string       `json:"output"`
	DetectedLang LanguageCode `json:"detected_lang"`
	DetectedName string       `json:"detected_name"`
	TargetLang   LanguageCode `json:"target_lang"`
}

// SubmitReport describes the outcome of Submit.
type SubmitReport struct {
	Detection Detection
	Defaulted bool  // Detection failed and English was assumed
	Warning   error // Why detection was defaulted, if it was
}

// TranslateReport describes the outcome of Pipeline.Translate.
type TranslateReport struct {
	Result  *Result
	Changed bool // Output differs from the text before translation
}

// Pipeline holds the state of one text-processing session: submitted text,
// detected language, and the current output after summarizing or translating.
type Pipeline struct {
	orchestrator *Orchestrator
	detector     LanguageDetector
	summarizer   Summarizer
	logger       log.FieldLogger

	mu    sync.Mutex
	state PipelineState
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithSummarizer sets the summarizer.
func WithSummarizer(s Summarizer) PipelineOption {
	return func(p *Pipeline) {
		p.summarizer = s
	}
}

// WithPipelineLogger sets the logger.
func WithPipelineLogger(logger log.FieldLogger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates a Pipeline. The detector may be nil, in which case
// every submission defaults to English.
func NewPipeline(orchestrator *Orchestrator, detector LanguageDetector, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		orchestrator: orchestrator,
		detector:     detector,
		logger:       log.StandardLogger(),
		state:        PipelineState{TargetLang: DefaultPivot},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns a snapshot of the pipeline state.
func (p *Pipeline) State() PipelineState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SetTarget selects the translation target language.
func (p *Pipeline) SetTarget(lang LanguageCode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.TargetLang = lang
}

// Submit records text, detects its language and makes it the current output.
// When detection fails or finds nothing, English is assumed and the report
// carries a warning.
func (p *Pipeline) Submit(ctx context.Context, text string) (*SubmitReport, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	report := &SubmitReport{}
	detection, err := p.detect(ctx, text)
	switch {
	case err != nil:
		report.Defaulted = true
		report.Warning = fmt.Errorf("language detection failed, defaulting to English: %w", err)
	case detection.Language == "":
		report.Defaulted = true
		report.Warning = errors.New("language detection failed, defaulting to English")
	}

	if report.Defaulted {
		detection = Detection{Language: "en"}
		p.logger.WithError(report.Warning).Warn("defaulting detected language")
	}
	report.Detection = detection

	p.mu.Lock()
	p.state.Input = text
	p.state.Output = text
	p.state.DetectedLang = detection.Language
	p.state.DetectedName = GetLanguageName(detection.Language)
	p.mu.Unlock()

	p.logger.WithFields(log.Fields{
		"language":   detection.Language,
		"confidence": detection.Confidence,
	}).Debug("text submitted")

	return report, nil
}

func (p *Pipeline) detect(ctx context.Context, text string) (Detection, error) {
	if p.detector == nil {
		return Detection{}, errors.New("no language detector configured")
	}
	d, err := p.detector.Detect(ctx, text)
	if err != nil {
		return Detection{}, err
	}
	d.Language = NormalizeLanguage(d.Language)
	return d, nil
}

// Summarize replaces the output with its summary. Only English output can
// be summarized.
func (p *Pipeline) Summarize(ctx context.Context) (string, error) {
	p.mu.Lock()
	output, lang := p.state.Output, p.state.DetectedLang
	p.mu.Unlock()

	if output == "" || !SameLanguage(lang, SummaryLanguage) {
		return "", ErrSummaryUnsupported
	}
	if p.summarizer == nil {
		return "", ErrNoSummarizer
	}

	summary, err := p.summarizer.Summarize(ctx, output)
	if err != nil {
		return "", fmt.Errorf("failed to summarize text: %w", err)
	}

	p.mu.Lock()
	p.state.Output = summary
	p.mu.Unlock()

	return summary, nil
}

// Translate translates the current output from the detected language into
// target (or the selected target when empty) and makes it the new output.
// Translation failures do not return an error; the report's Result says
// what happened.
func (p *Pipeline) Translate(ctx context.Context, target LanguageCode) (*TranslateReport, error) {
	p.mu.Lock()
	if target != "" {
		p.state.TargetLang = target
	}
	output, source, target := p.state.Output, p.state.DetectedLang, p.state.TargetLang
	p.mu.Unlock()

	if output == "" {
		return nil, ErrNothingToTranslate
	}

	res := p.orchestrator.TranslateResult(ctx, output, source, target)

	p.mu.Lock()
	p.state.Output = res.Text
	p.mu.Unlock()

	return &TranslateReport{Result: res, Changed: res.Text != output}, nil
}

// Reset clears all state; the target language returns to English.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = PipelineState{TargetLang: DefaultPivot}
}
