// Package parser derives a block document from accumulated markdown text.
//
// Parse is fed the full accumulated stream buffer on every call, never a
// delta, so it carries no cross-call state and a half-written construct in
// one call resolves itself on the next. The dialect is intentionally small:
// headings 1-6, ordered/unordered lists, paragraphs, and inline
// bold/italic/code spans.
package parser

import (
	"regexp"
	"strings"

	"github.com/dgallion1/mdlive/internal/block"
)

var (
	headingRe   = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	orderedRe   = regexp.MustCompile(`^\d+\.\s+(.*)$`)
	unorderedRe = regexp.MustCompile(`^[-*]\s+(.*)$`)
)

// Parse converts markdown text into a Document. It is pure, deterministic,
// and total: any input, including garbage mid-stream, yields a valid
// (possibly empty) document without error.
func Parse(text string) block.Document {
	var doc block.Document

	// Two open buffers: paragraph lines and list items. Inline markup is
	// rewritten at flush time, not per raw line, so markers split across
	// lines inside one paragraph still pair up.
	var para []string
	var listStyle block.ListStyle
	var listItems []string

	flushList := func() {
		if len(listItems) == 0 {
			return
		}
		items := make([]string, len(listItems))
		for i, it := range listItems {
			items[i] = renderInline(it)
		}
		doc = append(doc, block.List(listStyle, items))
		listItems = nil
		listStyle = ""
	}
	flushPara := func() {
		if len(para) == 0 {
			return
		}
		doc = append(doc, block.Paragraph(renderInline(strings.Join(para, " "))))
		para = nil
	}
	// When both buffers are open the list opened first (a list item always
	// flushes the open paragraph), so the list flushes first to preserve
	// reading order.
	flushAll := func() {
		flushList()
		flushPara()
	}
	// A list item interrupts the open paragraph; a style change closes the
	// open list so ordered and unordered items never merge into one block.
	startItem := func(style block.ListStyle, item string) {
		if listStyle != style {
			flushList()
			flushPara()
			listStyle = style
		}
		listItems = append(listItems, item)
	}

	var firstRaw string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			// A blank line closes the open list. The paragraph buffer
			// rides across blank lines: a continuation arriving in a
			// later chunk must merge into the same paragraph block, not
			// append a new one.
			flushList()
			continue
		}
		if firstRaw == "" {
			firstRaw = line
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			flushAll()
			doc = append(doc, block.Heading(renderInline(strings.TrimSpace(m[2])), len(m[1])))
			continue
		}
		if m := orderedRe.FindStringSubmatch(line); m != nil {
			startItem(block.StyleOrdered, m[1])
			continue
		}
		if m := unorderedRe.FindStringSubmatch(line); m != nil {
			startItem(block.StyleUnordered, m[1])
			continue
		}
		para = append(para, line)
	}
	flushAll()

	// A transient parse of a half-written construct must never hand the
	// caller an empty document while text exists: fall back to a single
	// heading made from the first non-blank line.
	if len(doc) == 0 && firstRaw != "" {
		doc = append(doc, block.Heading(firstRaw, 1))
	}
	return doc
}
