// Package history implements linear undo/redo over whole-document snapshots.
package history

import "github.com/schedit/schedit/backend-go/internal/document"

// DefaultLimit is the number of snapshots kept before the oldest is evicted.
const DefaultLimit = 50

// Manager is a bounded list of snapshots with a cursor. It implements
// document.Recorder.
type Manager struct {
	entries []document.Snapshot
	index   int
	limit   int
}

// New creates an empty history. A limit below 2 falls back to DefaultLimit.
func New(limit int) *Manager {
	if limit < 2 {
		limit = DefaultLimit
	}
	return &Manager{index: -1, limit: limit}
}

// Record discards any redo branch, appends s and evicts the oldest entry
// beyond the limit.
func (m *Manager) Record(s document.Snapshot) {
	m.entries = append(m.entries[:m.index+1], s)
	if len(m.entries) > m.limit {
		m.entries = m.entries[len(m.entries)-m.limit:]
	}
	m.index = len(m.entries) - 1
}

// Reset drops every entry and seeds the baseline from doc, so the first
// recorded action can be undone.
func (m *Manager) Reset(doc *document.Document) {
	m.entries = nil
	m.index = -1
	m.Record(doc.Snapshot())
}

// Undo steps back one entry and restores it into doc.
func (m *Manager) Undo(doc *document.Document) bool {
	if !m.CanUndo() {
		return false
	}
	m.index--
	doc.Restore(m.entries[m.index])
	return true
}

// Redo steps forward one entry and restores it into doc.
func (m *Manager) Redo(doc *document.Document) bool {
	if !m.CanRedo() {
		return false
	}
	m.index++
	doc.Restore(m.entries[m.index])
	return true
}

func (m *Manager) CanUndo() bool { return m.index > 0 }
func (m *Manager) CanRedo() bool { return m.index < len(m.entries)-1 }

// Len returns the number of stored entries.
func (m *Manager) Len() int { return len(m.entries) }

// Index returns the cursor position, -1 when empty.
func (m *Manager) Index() int { return m.index }

// Current returns the entry at the cursor.
func (m *Manager) Current() (document.Snapshot, bool) {
	if m.index < 0 {
		return document.Snapshot{}, false
	}
	return m.entries[m.index], true
}
