// Package store persists encoded documents into named autosave slots.
package store

import (
	"context"
	"errors"
	"time"
)

// DefaultSlot is the slot used when none is configured.
const DefaultSlot = "schedit_autosave"

var ErrNotFound = errors.New("autosave slot not found")

// Store reads and writes encoded documents by slot name. Save overwrites.
type Store interface {
	Save(ctx context.Context, slot string, data []byte) error
	Load(ctx context.Context, slot string) ([]byte, error)
	Delete(ctx context.Context, slot string) error
	List(ctx context.Context) ([]Entry, error)
}

// Entry describes a stored slot without its document.
type Entry struct {
	Slot    string    `json:"slot"`
	SavedAt time.Time `json:"savedAt"`
	Size    int       `json:"size"`
}
