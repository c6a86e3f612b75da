package processor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/pivotlai"
	"golang.org/x/net/html"
)

// HTMLProcessor extracts and applies translations to HTML content.
// Elements in the ignored set, and elements marked data-no-translate or
// translate="no", are skipped with their subtree.
type HTMLProcessor struct {
	ignoredTags map[string]bool
}

// NewHTMLProcessor creates a new HTML processor with default ignored tags.
func NewHTMLProcessor() *HTMLProcessor {
	return &HTMLProcessor{
		ignoredTags: pivotlai.IgnoredTags,
	}
}

// NewHTMLProcessorWithIgnoredTags creates a new HTML processor with custom ignored tags.
func NewHTMLProcessorWithIgnoredTags(tags []string) *HTMLProcessor {
	ignored := make(map[string]bool, len(tags))
	for _, tag := range tags {
		ignored[strings.ToLower(tag)] = true
	}
	return &HTMLProcessor{
		ignoredTags: ignored,
	}
}

// parsedHTML is the document between Extract and Apply.
type parsedHTML struct {
	doc *goquery.Document
}

// skip reports whether an element's subtree is left untranslated.
func (p *HTMLProcessor) skip(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if p.ignoredTags[strings.ToLower(n.Data)] {
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key == "data-no-translate" || (attr.Key == "translate" && strings.EqualFold(attr.Val, "no")) {
			return true
		}
	}
	return false
}

// eachText calls fn for every non-blank text node outside skipped subtrees.
func (p *HTMLProcessor) eachText(doc *goquery.Document, fn func(n *html.Node, trimmed string)) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if p.skip(n) {
			return
		}
		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				fn(n, trimmed)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range doc.Nodes {
		walk(n)
	}
}

// Extract parses HTML and returns its unique translatable texts in
// document order.
func (p *HTMLProcessor) Extract(content string) (any, []TextNode, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, nil, &pivotlai.ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: ContentTypeHTML,
		}
	}

	var nodes []TextNode
	seen := make(map[string]bool)

	p.eachText(doc, func(n *html.Node, trimmed string) {
		hash := pivotlai.HashText(trimmed)
		if seen[hash] {
			return
		}
		seen[hash] = true

		node := TextNode{
			ID:       fmt.Sprintf("node-%d", len(nodes)),
			Text:     trimmed,
			Hash:     hash,
			NodeType: "html_text",
			Context:  describeLocation(n),
			Metadata: map[string]string{},
		}
		if n.Parent != nil {
			node.Metadata["parent_tag"] = n.Parent.Data
		}
		nodes = append(nodes, node)
	})

	return &parsedHTML{doc: doc}, nodes, nil
}

// Apply replaces every occurrence of a translated text, keeping the
// original surrounding whitespace, and tags the root element with the
// target language and direction.
func (p *HTMLProcessor) Apply(parsed any, nodes []TextNode, translations map[string]string, targetLang pivotlai.LanguageCode) (string, error) {
	ph, ok := parsed.(*parsedHTML)
	if !ok {
		return "", &pivotlai.ProcessorError{
			Message:     "invalid parsed content type",
			ContentType: ContentTypeHTML,
		}
	}

	p.eachText(ph.doc, func(n *html.Node, trimmed string) {
		if translated, ok := translations[pivotlai.HashText(trimmed)]; ok {
			n.Data = preserveWhitespace(n.Data, translated)
		}
	})

	if targetLang != "" {
		lang := pivotlai.NormalizeLanguage(targetLang)
		root := ph.doc.Find("html").First()
		root.SetAttr("lang", lang)
		root.SetAttr("dir", pivotlai.GetDirection(lang))
	}

	out, err := ph.doc.Html()
	if err != nil {
		return "", &pivotlai.ProcessorError{
			Message:     "failed to serialize HTML",
			Cause:       err,
			ContentType: ContentTypeHTML,
		}
	}

	return out, nil
}

// ContentType returns "html".
func (p *HTMLProcessor) ContentType() string {
	return ContentTypeHTML
}

// describeLocation names where a text node sits, e.g.
// `in <button class="primary"> | inside: nav`.
func describeLocation(n *html.Node) string {
	parent := n.Parent
	if parent == nil {
		return ""
	}

	var parts []string

	var classAttr, idAttr string
	for _, attr := range parent.Attr {
		switch attr.Key {
		case "class":
			classAttr = attr.Val
		case "id":
			idAttr = attr.Val
		}
	}

	switch {
	case classAttr != "":
		parts = append(parts, fmt.Sprintf("in <%s class=%q>", parent.Data, classAttr))
	case idAttr != "":
		parts = append(parts, fmt.Sprintf("in <%s id=%q>", parent.Data, idAttr))
	default:
		parts = append(parts, fmt.Sprintf("in <%s>", parent.Data))
	}

	// Up to 3 ancestors, outermost first
	var ancestors []string
	for a, i := parent.Parent, 0; a != nil && i < 3; a, i = a.Parent, i+1 {
		if a.Type == html.ElementNode && a.Data != "html" && a.Data != "body" {
			ancestors = append([]string{a.Data}, ancestors...)
		}
	}
	if len(ancestors) > 0 {
		parts = append(parts, "inside: "+strings.Join(ancestors, " > "))
	}

	return strings.Join(parts, " | ")
}

// preserveWhitespace preserves the original leading/trailing whitespace.
func preserveWhitespace(original, translated string) string {
	trimmedLeft := strings.TrimLeft(original, " \t\n\r")
	leading := original[:len(original)-len(trimmedLeft)]
	trailing := trimmedLeft[len(strings.TrimRight(trimmedLeft, " \t\n\r")):]

	return leading + translated + trailing
}

var _ ContentProcessor = (*HTMLProcessor)(nil)
