package engine

import (
	"strings"

	"github.com/schedit/schedit/backend-go/internal/document"
)

// KeyEvent is a key press. Key follows KeyboardEvent.key naming.
type KeyEvent struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl"`
	Meta  bool   `json:"meta"`
	Shift bool   `json:"shift"`
}

// KeyDown runs the editor shortcut bound to ev and reports whether one
// matched.
func (e *Engine) KeyDown(ev KeyEvent) bool {
	key := strings.ToLower(ev.Key)

	if ev.Ctrl || ev.Meta {
		switch key {
		case "c":
			e.Copy()
		case "v":
			e.Paste()
		case "z":
			if ev.Shift {
				e.Redo()
			} else {
				e.Undo()
			}
		case "y":
			e.Redo()
		default:
			return false
		}
		return true
	}

	switch key {
	case "escape":
		e.Escape()
	case "delete", "backspace":
		e.Delete()
	case "r":
		e.RotateSelection()
	case "f":
		e.MirrorSelection(true)
	case "v":
		e.MirrorSelection(false)
	case "w":
		e.SetDrawingMode(document.DrawLine)
	case "b":
		e.SetDrawingMode(document.DrawRect)
	default:
		return false
	}
	return true
}

// Escape abandons any drawing or drag without committing and clears the
// selection.
func (e *Engine) Escape() {
	e.cancelDrag()
	e.state = &Idle{}
	e.busy = false
	e.doc.ClearSelection()
}
