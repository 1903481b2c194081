package parser

import (
	"testing"

	"github.com/dgallion1/mdlive/internal/block"
)

func TestParseHeadingsAndParagraphs(t *testing.T) {
	doc := Parse("# Title\n\nFirst line.\nSecond line.\n\n## Section\n\nBody.")

	want := block.Document{
		block.Heading("Title", 1),
		block.Paragraph("First line. Second line."),
		block.Heading("Section", 2),
		block.Paragraph("Body."),
	}
	if !doc.Equal(want) {
		t.Errorf("got %v, want %v", doc, want)
	}
}

func TestParseHeadingLevelClamp(t *testing.T) {
	doc := Parse("###### Deep")
	if len(doc) != 1 || doc[0].Level != 6 {
		t.Fatalf("expected single h6, got %v", doc)
	}
	// Seven hashes is not a heading in this dialect; it becomes a paragraph.
	doc = Parse("####### Too deep")
	if len(doc) != 1 || doc[0].Kind != block.KindParagraph {
		t.Fatalf("expected paragraph, got %v", doc)
	}
}

func TestParseLists(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  block.Document
	}{
		{
			"unordered",
			"- one\n- two\n* three",
			block.Document{block.List(block.StyleUnordered, []string{"one", "two", "three"})},
		},
		{
			"ordered",
			"1. first\n2. second\n10. tenth",
			block.Document{block.List(block.StyleOrdered, []string{"first", "second", "tenth"})},
		},
		{
			"style switch splits blocks",
			"- a\n- b\n1. c",
			block.Document{
				block.List(block.StyleUnordered, []string{"a", "b"}),
				block.List(block.StyleOrdered, []string{"c"}),
			},
		},
		{
			"list interrupts paragraph",
			"intro text\n- item",
			block.Document{
				block.Paragraph("intro text"),
				block.List(block.StyleUnordered, []string{"item"}),
			},
		},
		{
			"blank line closes list",
			"- a\n\n- b",
			block.Document{
				block.List(block.StyleUnordered, []string{"a"}),
				block.List(block.StyleUnordered, []string{"b"}),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseInline(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"**bold** word", "<strong>bold</strong> word"},
		{"an *italic* word", "an <em>italic</em> word"},
		{"*a* *b*", "<em>a</em> <em>b</em>"},
		{"*a* and *b* and *c*", "<em>a</em> and <em>b</em> and <em>c</em>"},
		{"has `code span` inside", "has <code>code span</code> inside"},
		{"`**not bold**`", "<code>**not bold**</code>"},
		{"2*3*4 equals 24", "2*3*4 equals 24"},
		{"**unterminated bold", "**unterminated bold"},
		{"mix **b** and `c`", "mix <strong>b</strong> and <code>c</code>"},
	}
	for _, tt := range tests {
		doc := Parse(tt.input)
		if len(doc) != 1 || doc[0].Kind != block.KindParagraph {
			t.Fatalf("Parse(%q): expected single paragraph, got %v", tt.input, doc)
		}
		if doc[0].Text != tt.want {
			t.Errorf("Parse(%q) text = %q, want %q", tt.input, doc[0].Text, tt.want)
		}
	}
}

func TestParseInlineAppliedAtFlush(t *testing.T) {
	// Markers split across physical lines of one paragraph still pair up,
	// because inline rewriting runs on the joined text.
	doc := Parse("**start\nend** of it")
	want := block.Document{block.Paragraph("<strong>start end</strong> of it")}
	if !doc.Equal(want) {
		t.Errorf("got %v, want %v", doc, want)
	}
}

func TestParseTotality(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t\n  ",
		"**bold",
		"`",
		"#",
		"- ",
		"1.",
		"\n\n\n",
		"### **`\n*",
	}
	for _, in := range inputs {
		// Must not panic, and empty-ish input yields an empty document.
		doc := Parse(in)
		for _, b := range doc {
			if b.Kind != block.KindHeading && b.Kind != block.KindParagraph && b.Kind != block.KindList {
				t.Errorf("Parse(%q) produced invalid block kind %q", in, b.Kind)
			}
		}
	}
	if doc := Parse(""); len(doc) != 0 {
		t.Errorf("Parse(\"\") = %v, want empty", doc)
	}
	if doc := Parse(" \n \n"); len(doc) != 0 {
		t.Errorf("blank input = %v, want empty", doc)
	}
}

func TestParseDeterminism(t *testing.T) {
	input := "# T\n\npara **b** one\n\n- x\n- y\n\n1. z"
	a := Parse(input)
	b := Parse(input)
	if !a.Equal(b) {
		t.Errorf("Parse not deterministic: %v != %v", a, b)
	}
}

func TestParseContinuationMergesIntoParagraph(t *testing.T) {
	// Re-parsing the grown buffer merges a continuation into the same
	// paragraph instead of appending a new block.
	partial := Parse("# Title\n\nPara one.\n\n")
	wantPartial := block.Document{
		block.Heading("Title", 1),
		block.Paragraph("Para one."),
	}
	if !partial.Equal(wantPartial) {
		t.Errorf("partial buffer: got %v, want %v", partial, wantPartial)
	}

	full := Parse("# Title\n\nPara one.\n\nPara one continued.")
	wantFull := block.Document{
		block.Heading("Title", 1),
		block.Paragraph("Para one. Para one continued."),
	}
	if !full.Equal(wantFull) {
		t.Errorf("full buffer: got %v, want %v", full, wantFull)
	}
}
