//go:build js && wasm

package main

import (
	"context"
	"syscall/js"
	"time"

	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/store"
)

// localStore keeps autosave slots in the browser's localStorage.
type localStore struct {
	storage js.Value
}

func (s localStore) Save(_ context.Context, slot string, data []byte) error {
	s.storage.Call("setItem", slot, string(data))
	return nil
}

func (s localStore) Load(_ context.Context, slot string) ([]byte, error) {
	v := s.storage.Call("getItem", slot)
	if v.IsNull() {
		return nil, store.ErrNotFound
	}
	return []byte(v.String()), nil
}

func (s localStore) Delete(_ context.Context, slot string) error {
	if s.storage.Call("getItem", slot).IsNull() {
		return store.ErrNotFound
	}
	s.storage.Call("removeItem", slot)
	return nil
}

// List reports the keys that hold schematic documents.
func (s localStore) List(_ context.Context) ([]store.Entry, error) {
	entries := []store.Entry{}
	n := s.storage.Get("length").Int()
	for i := 0; i < n; i++ {
		key := s.storage.Call("key", i).String()
		data := s.storage.Call("getItem", key).String()
		f, err := document.Decode([]byte(data))
		if err != nil {
			continue
		}
		savedAt, _ := time.Parse(time.RFC3339, f.SavedAt)
		entries = append(entries, store.Entry{Slot: key, SavedAt: savedAt, Size: len(data)})
	}
	return entries, nil
}
