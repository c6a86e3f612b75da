package processor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ZaguanLabs/pivotlai"
)

// paragraphBreak matches the blank lines separating paragraphs.
var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n\s*`)

// TextProcessor splits plain text into paragraphs, so long inputs are
// translated one paragraph per hop and repeated paragraphs only once.
type TextProcessor struct{}

// NewTextProcessor creates a plain text processor.
func NewTextProcessor() *TextProcessor {
	return &TextProcessor{}
}

// parsedText holds paragraphs and the separators between them.
type parsedText struct {
	paragraphs []string
	separators []string // separators[i] follows paragraphs[i]
}

// Extract implements ContentProcessor.
func (p *TextProcessor) Extract(content string) (any, []TextNode, error) {
	parsed := &parsedText{}

	rest := content
	for {
		loc := paragraphBreak.FindStringIndex(rest)
		if loc == nil {
			parsed.paragraphs = append(parsed.paragraphs, rest)
			parsed.separators = append(parsed.separators, "")
			break
		}
		parsed.paragraphs = append(parsed.paragraphs, rest[:loc[0]])
		parsed.separators = append(parsed.separators, rest[loc[0]:loc[1]])
		rest = rest[loc[1]:]
	}

	var nodes []TextNode
	seen := make(map[string]bool)
	for i, para := range parsed.paragraphs {
		trimmed := strings.TrimSpace(para)
		if trimmed == "" {
			continue
		}
		hash := pivotlai.HashText(trimmed)
		if seen[hash] {
			continue
		}
		seen[hash] = true

		nodes = append(nodes, TextNode{
			ID:       fmt.Sprintf("para-%d", len(nodes)),
			Text:     trimmed,
			Hash:     hash,
			NodeType: "paragraph",
			Context:  fmt.Sprintf("paragraph %d", i+1),
		})
	}

	return parsed, nodes, nil
}

// Apply implements ContentProcessor. Plain text carries no language marker,
// so targetLang is unused.
func (p *TextProcessor) Apply(parsed any, nodes []TextNode, translations map[string]string, targetLang pivotlai.LanguageCode) (string, error) {
	pt, ok := parsed.(*parsedText)
	if !ok {
		return "", &pivotlai.ProcessorError{
			Message:     "invalid parsed content type",
			ContentType: ContentTypeText,
		}
	}

	var b strings.Builder
	for i, para := range pt.paragraphs {
		if translated, ok := translations[pivotlai.HashText(para)]; ok && strings.TrimSpace(para) != "" {
			b.WriteString(preserveWhitespace(para, translated))
		} else {
			b.WriteString(para)
		}
		b.WriteString(pt.separators[i])
	}

	return b.String(), nil
}

// ContentType returns "text".
func (p *TextProcessor) ContentType() string {
	return ContentTypeText
}

var _ ContentProcessor = (*TextProcessor)(nil)
