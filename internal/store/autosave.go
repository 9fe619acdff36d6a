package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/schedit/schedit/backend-go/internal/document"
)

const saveTimeout = 5 * time.Second

// Opener replaces its document with an encoded file.
type Opener interface {
	Open(data []byte) error
}

// Autosaver writes the document to a slot every time its collections
// change. It is a document.Observer; failures are logged and otherwise
// ignored.
type Autosaver struct {
	store Store
	slot  string
	now   func() time.Time
}

func NewAutosaver(s Store, slot string) *Autosaver {
	if slot == "" {
		slot = DefaultSlot
	}
	return &Autosaver{store: s, slot: slot, now: time.Now}
}

// Slot returns the slot name written to.
func (a *Autosaver) Slot() string { return a.slot }

func (a *Autosaver) DocumentChanged(d *document.Document) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := a.Save(ctx, d); err != nil {
		slog.Warn("autosave failed", "slot", a.slot, "error", err)
	}
}

// Save encodes d with a save timestamp and writes it to the slot.
func (a *Autosaver) Save(ctx context.Context, d *document.Document) error {
	f := d.ToFile()
	f.SavedAt = a.now().UTC().Format(time.RFC3339)
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return a.store.Save(ctx, a.slot, data)
}

// Restore opens the slot's document into o when one exists and holds at
// least one wire or component. It reports whether anything was restored.
func (a *Autosaver) Restore(ctx context.Context, o Opener) (bool, error) {
	data, err := a.store.Load(ctx, a.slot)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("restore autosave: %w", err)
	}
	if !document.IsRestorable(data) {
		slog.Info("autosave not restorable", "slot", a.slot)
		return false, nil
	}
	if err := o.Open(data); err != nil {
		return false, fmt.Errorf("restore autosave: %w", err)
	}
	slog.Info("autosave restored", "slot", a.slot, "bytes", len(data))
	return true, nil
}
