package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/engine"
	"github.com/schedit/schedit/backend-go/internal/geom"
	"github.com/schedit/schedit/backend-go/internal/store"
)

func openTemp(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "nested", "autosave.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	_, err := s.Load(ctx, "a")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Save(ctx, "a", []byte(`{"v":1}`)))
	require.NoError(t, s.Save(ctx, "a", []byte(`{"v":2}`)))
	require.NoError(t, s.Save(ctx, "b", []byte(`{}`)))

	data, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(data))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	slots := []string{entries[0].Slot, entries[1].Slot}
	assert.ElementsMatch(t, []string{"a", "b"}, slots)

	require.NoError(t, s.Delete(ctx, "a"))
	assert.ErrorIs(t, s.Delete(ctx, "a"), store.ErrNotFound)
	_, err = s.Load(ctx, "a")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func newEngine() *engine.Engine {
	return engine.New(engine.Options{Text: document.EstimateMeasurer{}})
}

func TestAutosaverSavesOnCommit(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	a := store.NewAutosaver(s, "")
	assert.Equal(t, store.DefaultSlot, a.Slot())

	e := newEngine()
	e.Document().AddObserver(a)
	e.Document().AddWire(document.Wire{Start: geom.Pt(0, 0), End: geom.Pt(40, 0)})

	data, err := s.Load(ctx, store.DefaultSlot)
	require.NoError(t, err)
	f, err := document.Decode(data)
	require.NoError(t, err)
	require.Len(t, f.Wires, 1)
	assert.Equal(t, geom.Pt(40, 0), f.Wires[0].End)
	assert.NotEmpty(t, f.SavedAt)
}

func TestAutosaverRestore(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	a := store.NewAutosaver(s, "slot")

	src := newEngine()
	src.LoadSample()
	require.NoError(t, a.Save(ctx, src.Document()))

	dst := newEngine()
	ok, err := a.Restore(ctx, dst)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, dst.Document().Components(), len(src.Document().Components()))
	assert.False(t, dst.History().CanUndo(), "restore starts a fresh history")
}

func TestAutosaverRestoreSkips(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	a := store.NewAutosaver(s, "slot")
	e := newEngine()

	ok, err := a.Restore(ctx, e)
	require.NoError(t, err)
	assert.False(t, ok, "missing slot")

	require.NoError(t, s.Save(ctx, "slot", []byte(`{"version":"1.0","wires":[],"components":[]}`)))
	ok, err = a.Restore(ctx, e)
	require.NoError(t, err)
	assert.False(t, ok, "empty document")

	require.NoError(t, s.Save(ctx, "slot", []byte(`not json`)))
	ok, err = a.Restore(ctx, e)
	require.NoError(t, err)
	assert.False(t, ok, "malformed document")
}

type failingStore struct{ store.Store }

func (failingStore) Save(context.Context, string, []byte) error { return errors.New("disk full") }

func TestAutosaverFailureIsNotFatal(t *testing.T) {
	e := newEngine()
	e.Document().AddObserver(store.NewAutosaver(failingStore{}, "x"))
	assert.NotPanics(t, func() {
		e.Document().AddComponent(document.Component{Type: "resistor", X: 20, Y: 20})
	})
	assert.Len(t, e.Document().Components(), 1)
}
