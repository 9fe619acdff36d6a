package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/engine"
	"github.com/schedit/schedit/backend-go/internal/store"
)

func testOptions(st store.Store) Options {
	return Options{Engine: engine.Options{Text: document.EstimateMeasurer{}}, Store: st}
}

func msg(t *testing.T, typ string, seq int64, payload any) *Message {
	t.Helper()
	m := &Message{Type: typ, Seq: seq}
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		m.Payload = data
	}
	return m
}

func pointer(t *testing.T, typ string, x, y float64) *Message {
	return msg(t, typ, 0, engine.PointerEvent{X: x, Y: y, Button: engine.ButtonLeft})
}

func decodeFrame(t *testing.T, m *Message) FramePayload {
	t.Helper()
	require.Equal(t, TypeFrame, m.Type)
	var f FramePayload
	require.NoError(t, json.Unmarshal(m.Payload, &f))
	return f
}

func TestHandleDrawsWire(t *testing.T) {
	s := New(context.Background(), "a", testOptions(nil))

	replies := s.Handle(msg(t, TypeToolSet, 1, ToolPayload{Tool: engine.ToolDraw}))
	require.Len(t, replies, 1)
	assert.Equal(t, int64(1), replies[0].Seq)
	assert.Equal(t, engine.ToolDraw, decodeFrame(t, replies[0]).Status.Tool)

	for _, m := range []*Message{
		pointer(t, TypePointerDown, 0, 0),
		pointer(t, TypePointerUp, 0, 0),
		pointer(t, TypePointerMove, 100, 0),
		pointer(t, TypePointerDown, 100, 0),
		pointer(t, TypePointerUp, 100, 0),
	} {
		s.Handle(m)
	}

	var wires []document.Wire
	s.Do(func(e *engine.Engine) { wires = e.Document().Wires() })
	require.Len(t, wires, 1)

	f := decodeFrame(t, s.Frame())
	assert.True(t, f.Status.CanUndo)
	assert.NotEmpty(t, f.Commands)
}

func TestHandleErrors(t *testing.T) {
	s := New(context.Background(), "a", testOptions(nil))

	for name, m := range map[string]*Message{
		"unknown type":    msg(t, "bogus", 7, nil),
		"missing payload": msg(t, TypeKeyDown, 7, nil),
		"bad payload":     {Type: TypeWheel, Seq: 7, Payload: json.RawMessage(`"x"`)},
		"bad document":    msg(t, TypeDocLoad, 7, map[string]string{"document": "nope"}),
		"unknown symbol":  msg(t, TypeComponentPlace, 7, PlacePayload{Type: "flux-capacitor"}),
	} {
		replies := s.Handle(m)
		require.Len(t, replies, 1, name)
		assert.Equal(t, TypeError, replies[0].Type, name)
		assert.Equal(t, int64(7), replies[0].Seq, name)
	}
}

func TestHandleDocumentMessages(t *testing.T) {
	s := New(context.Background(), "a", testOptions(nil))

	s.Handle(msg(t, TypeDocSample, 0, nil))
	replies := s.Handle(msg(t, TypeDocExport, 3, nil))
	require.Len(t, replies, 2)
	require.Equal(t, TypeDocData, replies[0].Type)
	var p DocumentPayload
	require.NoError(t, json.Unmarshal(replies[0].Payload, &p))
	f, err := document.Decode(p.Document)
	require.NoError(t, err)
	assert.NotEmpty(t, f.Components)

	s.Handle(msg(t, TypeDocClear, 0, nil))
	s.Do(func(e *engine.Engine) { assert.Empty(t, e.Document().Components()) })

	replies = s.Handle(msg(t, TypeDocLoad, 0, DocumentPayload{Document: p.Document}))
	assert.Equal(t, TypeFrame, replies[0].Type)
	s.Do(func(e *engine.Engine) { assert.Len(t, e.Document().Components(), len(f.Components)) })
}

func TestHandlePlaceAndText(t *testing.T) {
	s := New(context.Background(), "a", testOptions(nil))

	s.Handle(msg(t, TypeComponentPlace, 0, PlacePayload{Type: "resistor", X: 41, Y: 39}))
	s.Handle(msg(t, TypeTextAdd, 0, TextPayload{Text: "R1", X: 40, Y: 80}))

	s.Do(func(e *engine.Engine) {
		comps := e.Document().Components()
		require.Len(t, comps, 1)
		assert.Equal(t, 40.0, comps[0].X)
		require.Len(t, e.Document().TextBoxes(), 1)
	})
}

func TestSessionAutosaveAndRestore(t *testing.T) {
	ctx := context.Background()
	st, err := store.OpenSQLite(ctx, filepath.Join(t.TempDir(), "a.db"))
	require.NoError(t, err)
	defer st.Close()

	s := New(ctx, "bench", testOptions(st))
	assert.False(t, s.Restored())
	s.Handle(msg(t, TypeComponentPlace, 0, PlacePayload{Type: "resistor", X: 40, Y: 40}))

	again := New(ctx, "bench", testOptions(st))
	assert.True(t, again.Restored())
	again.Do(func(e *engine.Engine) {
		assert.Len(t, e.Document().Components(), 1)
		assert.False(t, e.History().CanUndo())
	})
}

func dial(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	return conn
}

func readType(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string) Message {
	t.Helper()
	for {
		var m Message
		require.NoError(t, wsjson.Read(ctx, conn, &m))
		if m.Type == typ {
			return m
		}
	}
}

func TestHubOverWebsocket(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub := NewHub(testOptions(nil))
	go hub.Run()
	defer hub.Stop()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(w, r, hub, "slot-1", nil)
	}))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	first := dial(t, ctx, url)
	defer first.CloseNow()

	welcome := readType(t, ctx, first, TypeWelcome)
	var wp WelcomePayload
	require.NoError(t, json.Unmarshal(welcome.Payload, &wp))
	assert.Equal(t, "slot-1", wp.Slot)
	assert.NotEmpty(t, wp.ClientID)
	assert.NotEmpty(t, wp.Symbols)
	readType(t, ctx, first, TypeFrame)

	require.NoError(t, wsjson.Write(ctx, first, msg(t, TypeComponentPlace, 42, PlacePayload{Type: "resistor", X: 20, Y: 20})))
	frame := readType(t, ctx, first, TypeFrame)
	assert.Equal(t, int64(42), frame.Seq)

	second := dial(t, ctx, url)
	defer second.CloseNow()
	readType(t, ctx, second, TypeWelcome)
	readType(t, ctx, first, TypeError)

	hub.Session(ctx, "slot-1").Do(func(e *engine.Engine) {
		assert.Len(t, e.Document().Components(), 1)
	})
}
