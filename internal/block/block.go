package block

import (
	"encoding/json"
	"fmt"
)

// Kind identifies the structural type of a block.
type Kind string

const (
	KindHeading   Kind = "heading"
	KindParagraph Kind = "paragraph"
	KindList      Kind = "list"
)

// ListStyle distinguishes ordered from unordered lists.
type ListStyle string

const (
	StyleOrdered   ListStyle = "ordered"
	StyleUnordered ListStyle = "unordered"
)

// Block is the atomic unit of a document. Identity is purely positional:
// blocks are compared structurally, never tracked by id across reparses.
type Block struct {
	Kind  Kind
	Text  string    // heading, paragraph
	Level int       // heading, 1..6
	Style ListStyle // list
	Items []string  // list
}

// Document is an ordered sequence of blocks. Order is reading order.
type Document []Block

func Heading(text string, level int) Block {
	if level < 1 {
		level = 1
	} else if level > 6 {
		level = 6
	}
	return Block{Kind: KindHeading, Text: text, Level: level}
}

func Paragraph(text string) Block {
	return Block{Kind: KindParagraph, Text: text}
}

func List(style ListStyle, items []string) Block {
	return Block{Kind: KindList, Style: style, Items: items}
}

// Equal reports deep structural equality. List items are order-sensitive.
func (b Block) Equal(other Block) bool {
	if b.Kind != other.Kind {
		return false
	}
	switch b.Kind {
	case KindHeading:
		return b.Text == other.Text && b.Level == other.Level
	case KindParagraph:
		return b.Text == other.Text
	case KindList:
		if b.Style != other.Style || len(b.Items) != len(other.Items) {
			return false
		}
		for i := range b.Items {
			if b.Items[i] != other.Items[i] {
				return false
			}
		}
		return true
	}
	return false
}

// Equal reports elementwise equality of two documents.
func (d Document) Equal(other Document) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if !d[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy, so callers can hold a document across
// later mutations of the original.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for i, b := range d {
		if b.Items != nil {
			items := make([]string, len(b.Items))
			copy(items, b.Items)
			b.Items = items
		}
		out[i] = b
	}
	return out
}

type headingPayload struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

type paragraphPayload struct {
	Text string `json:"text"`
}

type listPayload struct {
	Style ListStyle `json:"style"`
	Items []string  `json:"items"`
}

type wireBlock struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// MarshalJSON encodes the block as {"kind":..., "payload":{...}}, the
// form used for durable storage and the API.
func (b Block) MarshalJSON() ([]byte, error) {
	var payload any
	switch b.Kind {
	case KindHeading:
		payload = headingPayload{Text: b.Text, Level: b.Level}
	case KindParagraph:
		payload = paragraphPayload{Text: b.Text}
	case KindList:
		items := b.Items
		if items == nil {
			items = []string{}
		}
		payload = listPayload{Style: b.Style, Items: items}
	default:
		return nil, fmt.Errorf("unknown block kind: %q", b.Kind)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireBlock{Kind: b.Kind, Payload: raw})
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var w wireBlock
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case KindHeading:
		var p headingPayload
		if err := json.Unmarshal(w.Payload, &p); err != nil {
			return fmt.Errorf("heading payload: %w", err)
		}
		*b = Heading(p.Text, p.Level)
	case KindParagraph:
		var p paragraphPayload
		if err := json.Unmarshal(w.Payload, &p); err != nil {
			return fmt.Errorf("paragraph payload: %w", err)
		}
		*b = Paragraph(p.Text)
	case KindList:
		var p listPayload
		if err := json.Unmarshal(w.Payload, &p); err != nil {
			return fmt.Errorf("list payload: %w", err)
		}
		if p.Style != StyleOrdered && p.Style != StyleUnordered {
			return fmt.Errorf("unknown list style: %q", p.Style)
		}
		*b = List(p.Style, p.Items)
	default:
		return fmt.Errorf("unknown block kind: %q", w.Kind)
	}
	return nil
}
