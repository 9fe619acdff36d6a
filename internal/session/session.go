// Package session runs one editor engine per autosave slot and drives it
// from a websocket client.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/schedit/schedit/backend-go/internal/engine"
	"github.com/schedit/schedit/backend-go/internal/geom"
	"github.com/schedit/schedit/backend-go/internal/store"
	"github.com/schedit/schedit/backend-go/internal/symbol"
)

var (
	ErrUnknownType = errors.New("unknown message type")
	errReplaced    = errors.New("session opened elsewhere")
)

// Options configure the sessions a Hub creates.
type Options struct {
	Engine engine.Options
	// Store receives autosaves; nil keeps documents in memory only.
	Store store.Store
}

// Session owns an Engine and its autosaver. All access goes through its
// mutex.
type Session struct {
	mu       sync.Mutex
	slot     string
	eng      *engine.Engine
	saver    *store.Autosaver
	restored bool
}

// New creates the session for slot, restoring the slot's autosave when
// there is one.
func New(ctx context.Context, slot string, opts Options) *Session {
	s := &Session{slot: slot, eng: engine.New(opts.Engine)}
	if opts.Store == nil {
		return s
	}

	s.saver = store.NewAutosaver(opts.Store, slot)
	restored, err := s.saver.Restore(ctx, s.eng)
	if err != nil {
		slog.Warn("restore session", "slot", slot, "error", err)
	}
	s.restored = restored
	s.eng.Document().AddObserver(s.saver)
	return s
}

func (s *Session) Slot() string   { return s.slot }
func (s *Session) Restored() bool { return s.restored }

// Symbols returns the palette of the session's symbol library.
func (s *Session) Symbols() []symbol.Symbol {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Symbols()
}

// Do runs fn with exclusive access to the engine.
func (s *Session) Do(fn func(e *engine.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.eng)
}

// Flush writes the current document to the slot.
func (s *Session) Flush(ctx context.Context) error {
	if s.saver == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saver.Save(ctx, s.eng.Document())
}

// Handle applies one client message and returns the replies: any data the
// message asked for, then a fresh frame. A failed message gets a single
// error reply and leaves the editor unchanged.
func (s *Session) Handle(msg *Message) []*Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	extra, err := s.apply(msg)
	if err != nil {
		return []*Message{errorMessage(msg, err)}
	}
	return append(extra, s.frame(msg.Seq))
}

// Frame renders the current state without applying anything.
func (s *Session) Frame() *Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame(0)
}

func (s *Session) apply(msg *Message) ([]*Message, error) {
	e := s.eng
	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp:
		var ev engine.PointerEvent
		if err := decode(msg, &ev); err != nil {
			return nil, err
		}
		switch msg.Type {
		case TypePointerDown:
			e.PointerDown(ev)
		case TypePointerMove:
			e.PointerMove(ev)
		default:
			e.PointerUp(ev)
		}

	case TypeKeyDown:
		var ev engine.KeyEvent
		if err := decode(msg, &ev); err != nil {
			return nil, err
		}
		e.KeyDown(ev)

	case TypeWheel:
		var ev engine.WheelEvent
		if err := decode(msg, &ev); err != nil {
			return nil, err
		}
		e.Wheel(ev)

	case TypeToolSet:
		var p ToolPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		if p.Tool != "" {
			e.SetTool(p.Tool)
		}
		if p.Mode != "" {
			e.SetDrawingMode(p.Mode)
		}

	case TypeComponentPlace:
		var p PlacePayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		if _, ok := e.AddComponentAt(p.Type, geom.Pt(p.X, p.Y)); !ok {
			return nil, fmt.Errorf("unknown component type %q", p.Type)
		}

	case TypeTextAdd:
		var p TextPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		e.AddTextAt(p.Text, geom.Pt(p.X, p.Y))

	case TypeTextEdit:
		var p TextPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		e.EditText(p.ID, p.Text)

	case TypeStyleApply:
		var c engine.StyleChange
		if err := decode(msg, &c); err != nil {
			return nil, err
		}
		e.ApplyStyle(c)

	case TypeViewSet:
		var v engine.View
		if err := decode(msg, &v); err != nil {
			return nil, err
		}
		e.SetView(v)

	case TypeViewResize:
		var p ViewportPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		e.SetViewport(p.Width, p.Height)

	case TypeFrameRequest:
		// render only

	case TypeDocLoad:
		var p DocumentPayload
		if err := decode(msg, &p); err != nil {
			return nil, err
		}
		if err := e.LoadJSON(p.Document); err != nil {
			return nil, err
		}

	case TypeDocClear:
		e.Clear()

	case TypeDocSample:
		e.LoadSample()

	case TypeDocExport:
		data, err := e.ExportJSON()
		if err != nil {
			return nil, err
		}
		payload, _ := json.Marshal(DocumentPayload{Document: data})
		return []*Message{{Type: TypeDocData, Slot: s.slot, Seq: msg.Seq, Payload: payload}}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
	}
	return nil, nil
}

func (s *Session) frame(seq int64) *Message {
	payload, err := json.Marshal(FramePayload{
		Commands: s.eng.DrawCommands(),
		Status:   s.eng.Status(),
	})
	if err != nil {
		slog.Error("marshal frame", "slot", s.slot, "error", err)
		return errorMessage(&Message{Seq: seq}, err)
	}
	return &Message{Type: TypeFrame, Slot: s.slot, Seq: seq, Payload: payload}
}

func decode(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", msg.Type, err)
	}
	return nil
}

func errorMessage(msg *Message, err error) *Message {
	payload, _ := json.Marshal(ErrorPayload{Message: err.Error()})
	return &Message{Type: TypeError, Seq: msg.Seq, Payload: payload}
}
