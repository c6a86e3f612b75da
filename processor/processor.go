// Package processor splits structured content into translatable text nodes
// for Orchestrator.TranslateContent.
package processor

import "github.com/ZaguanLabs/pivotlai"

// ContentProcessor is an alias to the main package interface.
type ContentProcessor = pivotlai.ContentProcessor

// TextNode is an alias to the main package type.
type TextNode = pivotlai.TextNode

// Content types served by this package.
const (
	ContentTypeHTML = "html"
	ContentTypeText = "text"
)
