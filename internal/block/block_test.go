package block

import (
	"encoding/json"
	"testing"
)

func TestBlockEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Block
		want bool
	}{
		{"same heading", Heading("Title", 1), Heading("Title", 1), true},
		{"heading level differs", Heading("Title", 1), Heading("Title", 2), false},
		{"heading vs paragraph", Heading("x", 1), Paragraph("x"), false},
		{"same paragraph", Paragraph("hello"), Paragraph("hello"), true},
		{"paragraph text differs", Paragraph("hello"), Paragraph("world"), false},
		{"same list", List(StyleOrdered, []string{"a", "b"}), List(StyleOrdered, []string{"a", "b"}), true},
		{"list style differs", List(StyleOrdered, []string{"a"}), List(StyleUnordered, []string{"a"}), false},
		{"list item order matters", List(StyleUnordered, []string{"a", "b"}), List(StyleUnordered, []string{"b", "a"}), false},
		{"list length differs", List(StyleUnordered, []string{"a"}), List(StyleUnordered, []string{"a", "b"}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("Equal() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHeadingLevelClamp(t *testing.T) {
	if h := Heading("x", 0); h.Level != 1 {
		t.Errorf("expected level clamped to 1, got %d", h.Level)
	}
	if h := Heading("x", 9); h.Level != 6 {
		t.Errorf("expected level clamped to 6, got %d", h.Level)
	}
}

func TestDocumentEqual(t *testing.T) {
	a := Document{Heading("T", 1), Paragraph("p")}
	b := Document{Heading("T", 1), Paragraph("p")}
	if !a.Equal(b) {
		t.Error("expected equal documents")
	}
	if a.Equal(b[:1]) {
		t.Error("expected length mismatch to be unequal")
	}
}

func TestDocumentClone(t *testing.T) {
	orig := Document{List(StyleUnordered, []string{"a", "b"})}
	cp := orig.Clone()
	cp[0].Items[0] = "mutated"
	if orig[0].Items[0] != "a" {
		t.Error("Clone shares list item backing array")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	doc := Document{
		Heading("Title", 2),
		Paragraph("some <strong>bold</strong> text"),
		List(StyleOrdered, []string{"one", "two"}),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Document
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !doc.Equal(back) {
		t.Errorf("round trip mismatch: %v != %v", back, doc)
	}
}

func TestUnmarshalRejectsUnknownKind(t *testing.T) {
	var b Block
	if err := json.Unmarshal([]byte(`{"kind":"table","payload":{}}`), &b); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestUnmarshalRejectsUnknownListStyle(t *testing.T) {
	var b Block
	if err := json.Unmarshal([]byte(`{"kind":"list","payload":{"style":"fancy","items":[]}}`), &b); err == nil {
		t.Error("expected error for unknown list style")
	}
}

func TestUnmarshalClampsHeadingLevel(t *testing.T) {
	var b Block
	if err := json.Unmarshal([]byte(`{"kind":"heading","payload":{"text":"x","level":12}}`), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if b.Level != 6 {
		t.Errorf("expected level clamped to 6, got %d", b.Level)
	}
}
