package session

import (
	"encoding/json"

	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/engine"
	"github.com/schedit/schedit/backend-go/internal/render"
	"github.com/schedit/schedit/backend-go/internal/symbol"
)

// Message is the websocket envelope in both directions. Seq is chosen by
// the client and echoed on the replies to that message.
type Message struct {
	Type     string          `json:"type"`
	Slot     string          `json:"slot,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	// Input
	TypePointerDown = "pointer.down"
	TypePointerMove = "pointer.move"
	TypePointerUp   = "pointer.up"
	TypeKeyDown     = "key.down"
	TypeWheel       = "wheel"

	// Editor commands
	TypeToolSet        = "tool.set"
	TypeComponentPlace = "component.place"
	TypeTextAdd        = "text.add"
	TypeTextEdit       = "text.edit"
	TypeStyleApply     = "style.apply"
	TypeViewSet        = "view.set"
	TypeViewResize     = "view.resize"
	TypeFrameRequest   = "frame.request"

	// Document
	TypeDocLoad   = "doc.load"
	TypeDocClear  = "doc.clear"
	TypeDocSample = "doc.sample"
	TypeDocExport = "doc.export"
	TypeDocData   = "doc.data"

	// Server
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeError   = "error"
)

// ToolPayload switches tool and, optionally, the drawing mode.
type ToolPayload struct {
	Tool engine.Tool          `json:"tool,omitempty"`
	Mode document.DrawingMode `json:"mode,omitempty"`
}

// PlacePayload drops a palette symbol at a screen position.
type PlacePayload struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// TextPayload adds a text box at a screen position, or edits one by id.
type TextPayload struct {
	ID   string  `json:"id,omitempty"`
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type ViewportPayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type DocumentPayload struct {
	Document json.RawMessage `json:"document"`
}

type WelcomePayload struct {
	ClientID string          `json:"clientId"`
	Slot     string          `json:"slot"`
	Restored bool            `json:"restored"`
	Symbols  []symbol.Symbol `json:"symbols"`
}

type FramePayload struct {
	Commands []render.DrawCommand `json:"commands"`
	Status   engine.Status        `json:"status"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
