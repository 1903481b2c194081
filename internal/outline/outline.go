// Package outline supplies the static skeleton documents the sync engine
// falls back to: the loading placeholder shown at session start, and the
// outline rendered when a stream fails and its output is discarded.
package outline

import (
	"fmt"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/mdlive/internal/block"
)

// Source supplies a deterministic skeleton document for a document id.
type Source interface {
	Skeleton(docID string) block.Document
}

// Static derives its skeleton from trusted static markdown material,
// fixed at construction. Only the heading structure of the material is
// kept; body text is not part of the skeleton.
type Static struct {
	headings []block.Block
}

// NewStatic parses the outline material. The material is trusted and
// static, so unlike the streaming path it goes through a full markdown
// parser.
func NewStatic(material []byte) *Static {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(material))

	var headings []block.Block
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			headings = append(headings, block.Heading(string(h.Text(material)), h.Level))
		}
	}
	return &Static{headings: headings}
}

// LoadStatic reads outline material from a file. An empty path uses the
// built-in default outline.
func LoadStatic(path string) (*Static, error) {
	if path == "" {
		return NewStatic([]byte(defaultMaterial)), nil
	}
	material, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read outline material: %w", err)
	}
	return NewStatic(material), nil
}

// Skeleton returns the outline document for docID. The document id seeds
// the title so distinct documents get distinct skeletons.
func (s *Static) Skeleton(docID string) block.Document {
	doc := make(block.Document, 0, len(s.headings)+1)
	doc = append(doc, block.Heading("Document "+docID, 1))
	doc = append(doc, s.headings...)
	return doc
}

// Placeholder returns the loading skeleton rendered while the first
// chunks arrive: a title heading followed by n shimmer paragraphs.
func Placeholder(docID string, n int) block.Document {
	doc := block.Document{block.Heading("Document "+docID, 1)}
	for i := 0; i < n; i++ {
		doc = append(doc, block.Paragraph(""))
	}
	return doc
}

const defaultMaterial = `# Outline

## Summary

## Background

## Findings

## Conclusion
`
