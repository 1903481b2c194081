package patch

import (
	"fmt"
	"sync"

	"github.com/dgallion1/mdlive/internal/block"
)

// Memory is an in-process Handle backed by a block slice. It is the live
// surface the server exposes over the API, and what tests patch against.
// Safe for concurrent use: engine patches and reader snapshots may
// interleave with external edits.
type Memory struct {
	mu     sync.Mutex
	blocks block.Document
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blocks)
}

func (m *Memory) DeleteAt(i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.blocks) {
		return fmt.Errorf("delete at %d: document has %d blocks", i, len(m.blocks))
	}
	m.blocks = append(m.blocks[:i], m.blocks[i+1:]...)
	return nil
}

func (m *Memory) InsertAt(b block.Block, i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i > len(m.blocks) {
		return fmt.Errorf("insert at %d: document has %d blocks", i, len(m.blocks))
	}
	m.blocks = append(m.blocks[:i], append(block.Document{b}, m.blocks[i:]...)...)
	return nil
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocks = nil
}

func (m *Memory) RenderAll(doc block.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocks = doc.Clone()
}

// Snapshot returns a deep copy of the current document.
func (m *Memory) Snapshot() block.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blocks.Clone()
}
