package export

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedit/schedit/backend-go/internal/auth"
	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/painter"
	"github.com/schedit/schedit/backend-go/internal/store"
	"github.com/schedit/schedit/backend-go/internal/symbol"
)

type fakeLive struct {
	slot string
	data []byte
}

func (f *fakeLive) Replace(_ context.Context, slot string, data []byte) (bool, error) {
	if slot != f.slot {
		return false, nil
	}
	f.data = data
	return true, nil
}

func newHandler(t *testing.T, live Live) (*Handler, *store.SQLiteStore) {
	t.Helper()
	st, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "export.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	p := painter.Painter{Symbols: symbol.Builtin(), Text: document.EstimateMeasurer{}}
	return NewHandler(p, st, live), st
}

func sampleJSON(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(document.NewSampleFile())
	require.NoError(t, err)
	return data
}

func request(method, target string, body []byte, vars map[string]string, slot string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewReader(body))
	r = mux.SetURLVars(r, vars)
	if slot != "" {
		r = r.WithContext(context.WithValue(r.Context(), auth.SessionKey, &auth.Session{Slot: slot}))
	}
	return r
}

func TestExport(t *testing.T) {
	h, _ := newHandler(t, nil)
	body, _ := json.Marshal(map[string]any{
		"document": json.RawMessage(sampleJSON(t)),
		"options":  map[string]any{"transparent": true},
	})

	rec := httptest.NewRecorder()
	h.Export(rec, request(http.MethodPost, "/export/svg", body, map[string]string{"format": "svg"}, ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="schematic.svg"`)

	rec = httptest.NewRecorder()
	h.Export(rec, request(http.MethodPost, "/export/png", body, map[string]string{"format": "png"}, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestExportErrors(t *testing.T) {
	h, _ := newHandler(t, nil)
	empty := []byte(`{"document":{"version":"1.0","wires":[],"components":[]}}`)

	tests := []struct {
		name   string
		format string
		body   string
		want   int
	}{
		{"unknown format", "gif", string(empty), http.StatusBadRequest},
		{"bad body", "svg", "{", http.StatusBadRequest},
		{"no document", "svg", `{}`, http.StatusBadRequest},
		{"malformed document", "svg", `{"document":{"version":"1.0"}}`, http.StatusBadRequest},
		{"empty document", "svg", string(empty), http.StatusUnprocessableEntity},
		{"scale too large", "png", `{"document":{"wires":[],"components":[]},"options":{"scale":20}}`, http.StatusBadRequest},
		{"image too large", "png", `{"document":{"version":"1.0","wires":[{"start":{"x":0,"y":0},"end":{"x":1e12,"y":1e12}}],"components":[]}}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Export(rec, request(http.MethodPost, "/export/"+tt.format, []byte(tt.body), map[string]string{"format": tt.format}, ""))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestDocumentsRoundTrip(t *testing.T) {
	h, _ := newHandler(t, nil)
	vars := map[string]string{"slot": "bench"}
	data := sampleJSON(t)

	rec := httptest.NewRecorder()
	h.Get(rec, request(http.MethodGet, "/api/documents/bench", nil, vars, "bench"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.Put(rec, request(http.MethodPut, "/api/documents/bench", data, vars, "bench"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"live":false`)

	rec = httptest.NewRecorder()
	h.Get(rec, request(http.MethodGet, "/api/documents/bench", nil, vars, "bench"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, string(data), rec.Body.String())

	rec = httptest.NewRecorder()
	h.List(rec, request(http.MethodGet, "/documents", nil, nil, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slot":"bench"`)

	rec = httptest.NewRecorder()
	h.ExportSlot(rec, request(http.MethodGet, "/documents/bench/export/svg?grid=true&invert=1", nil,
		map[string]string{"slot": "bench", "format": "svg"}, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="bench.svg"`)

	rec = httptest.NewRecorder()
	h.Delete(rec, request(http.MethodDelete, "/api/documents/bench", nil, vars, "bench"))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.Delete(rec, request(http.MethodDelete, "/api/documents/bench", nil, vars, "bench"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDocumentsForbidden(t *testing.T) {
	h, _ := newHandler(t, nil)
	vars := map[string]string{"slot": "bench"}

	rec := httptest.NewRecorder()
	h.Get(rec, request(http.MethodGet, "/api/documents/bench", nil, vars, "other"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.Put(rec, request(http.MethodPut, "/api/documents/bench", sampleJSON(t), vars, ""))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPutMalformed(t *testing.T) {
	h, _ := newHandler(t, nil)
	rec := httptest.NewRecorder()
	h.Put(rec, request(http.MethodPut, "/api/documents/a", []byte(`{"wires":[]}`), map[string]string{"slot": "a"}, "a"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPutLiveSession(t *testing.T) {
	live := &fakeLive{slot: "open"}
	h, st := newHandler(t, live)
	data := sampleJSON(t)

	rec := httptest.NewRecorder()
	h.Put(rec, request(http.MethodPut, "/api/documents/open", data, map[string]string{"slot": "open"}, "open"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"live":true`)
	assert.Equal(t, data, live.data)

	_, err := st.Load(context.Background(), "open")
	assert.ErrorIs(t, err, store.ErrNotFound, "the live session's autosave owns the write")
}

func TestParseOptions(t *testing.T) {
	q := map[string][]string{"scale": {"2"}, "transparent": {"true"}, "wireColor": {"#ff0000"}}
	opts, err := parseOptions(q)
	require.NoError(t, err)
	assert.Equal(t, 2.0, opts.Scale)
	assert.True(t, opts.Transparent)
	assert.True(t, opts.UseWireColor)
	assert.Equal(t, painter.DefaultPadding, opts.Padding)

	for _, bad := range []map[string][]string{{"scale": {"-1"}}, {"grid": {"maybe"}}} {
		_, err := parseOptions(bad)
		assert.Error(t, err)
	}
}
