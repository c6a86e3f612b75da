package provider

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/ZaguanLabs/pivotlai"
	"github.com/pemistahl/lingua-go"
)

const (
	// MinTextLengthForDetection is the shortest text lingua is asked about.
	MinTextLengthForDetection = 3
	// MaxTextLengthForDetection caps the runes passed to the detector.
	MaxTextLengthForDetection = 512
)

// DefaultDetectionLanguages are the languages the selector offers.
var DefaultDetectionLanguages = []string{"en", "es", "fr", "de", "pt", "ru", "tr"}

// LinguaDetector detects languages offline with lingua-go.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLinguaDetector creates a detector restricted to codes. Unknown codes are
// skipped; fewer than two usable codes falls back to DefaultDetectionLanguages.
func NewLinguaDetector(codes ...string) *LinguaDetector {
	languages := linguaLanguages(codes)
	if len(languages) < 2 {
		languages = linguaLanguages(DefaultDetectionLanguages)
	}

	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(languages...).
		Build()

	return &LinguaDetector{detector: detector}
}

func linguaLanguages(codes []string) []lingua.Language {
	var languages []lingua.Language
	for _, code := range codes {
		iso := lingua.GetIsoCode639_1FromValue(strings.ToUpper(pivotlai.NormalizeLanguage(code)))
		if iso == lingua.UnknownIsoCode639_1 {
			continue
		}
		lang := lingua.GetLanguageFromIsoCode639_1(iso)
		if lang == lingua.Unknown {
			continue
		}
		languages = append(languages, lang)
	}
	return languages
}

// Detect implements LanguageDetector. Text too short to judge yields an
// empty detection rather than an error.
func (d *LinguaDetector) Detect(ctx context.Context, text string) (pivotlai.Detection, error) {
	if err := ctx.Err(); err != nil {
		return pivotlai.Detection{}, err
	}

	clean := strings.TrimSpace(text)
	if utf8.RuneCountInString(clean) < MinTextLengthForDetection {
		return pivotlai.Detection{}, nil
	}
	if utf8.RuneCountInString(clean) > MaxTextLengthForDetection {
		clean = string([]rune(clean)[:MaxTextLengthForDetection])
	}

	values := d.detector.ComputeLanguageConfidenceValues(clean)
	if len(values) == 0 || values[0].Value() == 0 {
		return pivotlai.Detection{}, nil
	}

	best := values[0]
	return pivotlai.Detection{
		Language:   strings.ToLower(best.Language().IsoCode639_1().String()),
		Confidence: best.Value(),
	}, nil
}

// Verify LinguaDetector implements LanguageDetector
var _ LanguageDetector = (*LinguaDetector)(nil)
