package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/schedit/schedit/backend-go/internal/clipboard"
	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/geom"
	"github.com/schedit/schedit/backend-go/internal/history"
	"github.com/schedit/schedit/backend-go/internal/hittest"
	"github.com/schedit/schedit/backend-go/internal/painter"
	"github.com/schedit/schedit/backend-go/internal/symbol"
)

// Zoom limits of the view.
const (
	MinZoom = 0.1
	MaxZoom = 3.0
)

// OverlapTolerance is the distance under which a new wire counts as lying
// on an existing one.
const OverlapTolerance = 0.1

// Tool is the active editor tool.
type Tool string

const (
	ToolSelect Tool = "select"
	ToolDraw   Tool = "draw"
)

// View maps world space to the screen: screen = world*Zoom + Pan.
type View struct {
	Pan  geom.Point `json:"pan"`
	Zoom float64    `json:"zoom"`
}

func (v View) ToWorld(screen geom.Point) geom.Point {
	return geom.ScreenToWorld(screen, v.Pan, v.Zoom)
}

func (v View) ToScreen(world geom.Point) geom.Point {
	return geom.WorldToScreen(world, v.Pan, v.Zoom)
}

// Options configure a new Engine. Zero values select the defaults.
type Options struct {
	Symbols      symbol.Library
	Text         document.TextMeasurer
	HistoryLimit int
	GridSize     float64
}

// Engine is the schematic editor core. It owns the document and its
// history and turns pointer and key input into document mutations.
// It is not safe for concurrent use.
type Engine struct {
	doc      *document.Document
	history  *history.Manager
	clip     *clipboard.Clipboard
	resolver hittest.Resolver
	painter  painter.Painter
	symbols  symbol.Library

	view     View
	viewport geom.Point
	grid     float64

	tool  Tool
	state State

	// busy is set between a handled pointer-down and its pointer-up.
	busy bool
	// pointer is the last known world pointer position.
	pointer geom.Point
}

// New creates an engine with an empty document.
func New(opts Options) *Engine {
	if opts.Symbols == nil {
		opts.Symbols = symbol.Builtin()
	}
	if opts.Text == nil {
		opts.Text = painter.NewFontMeasurer()
	}
	if opts.GridSize <= 0 {
		opts.GridSize = geom.GridSize
	}

	e := &Engine{
		doc:      document.New(),
		history:  history.New(opts.HistoryLimit),
		clip:     clipboard.New(),
		resolver: hittest.Resolver{Symbols: opts.Symbols, Text: opts.Text},
		painter:  painter.Painter{Symbols: opts.Symbols, Text: opts.Text},
		symbols:  opts.Symbols,
		view:     View{Zoom: 1},
		grid:     opts.GridSize,
		tool:     ToolSelect,
		state:    &Idle{},
	}
	e.doc.SetRecorder(e.history)
	e.history.Reset(e.doc)
	return e
}

// --- Accessors ---

func (e *Engine) Document() *document.Document { return e.doc }
func (e *Engine) History() *history.Manager    { return e.history }
func (e *Engine) Painter() painter.Painter     { return e.painter }
func (e *Engine) State() State                 { return e.state }
func (e *Engine) Tool() Tool                   { return e.tool }
func (e *Engine) View() View                   { return e.view }

// SetView replaces pan and zoom; zoom is clamped.
func (e *Engine) SetView(v View) {
	v.Zoom = clampZoom(v.Zoom)
	e.view = v
}

// SetViewport records the canvas size in screen pixels, used to size the
// grid.
func (e *Engine) SetViewport(width, height float64) {
	e.viewport = geom.Pt(width, height)
}

// SetTool switches tools, abandoning any in-progress drawing.
func (e *Engine) SetTool(t Tool) {
	if t != ToolSelect && t != ToolDraw {
		return
	}
	if isDrawing(e.state) {
		e.state = &Idle{}
	}
	e.tool = t
}

// SetDrawingMode chooses what the draw tool creates.
func (e *Engine) SetDrawingMode(m document.DrawingMode) {
	if m != document.DrawLine && m != document.DrawRect {
		return
	}
	def := e.doc.Defaults()
	def.DrawingMode = m
	e.doc.SetDefaults(def)
}

// --- Document lifecycle ---

// LoadJSON replaces the document with an encoded file. The load is one
// undoable step; a malformed file leaves everything untouched.
func (e *Engine) LoadJSON(data []byte) error {
	if err := e.doc.LoadJSON(data); err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	e.reset()
	return nil
}

// Open loads an encoded file as the start of a fresh session: history is
// reset so the load itself cannot be undone.
func (e *Engine) Open(data []byte) error {
	if err := e.LoadJSON(data); err != nil {
		return err
	}
	e.history.Reset(e.doc)
	return nil
}

// LoadFile replaces the document with f.
func (e *Engine) LoadFile(f *document.File) {
	e.doc.Load(f)
	e.reset()
}

// LoadSample replaces the document with the built-in sample circuit.
func (e *Engine) LoadSample() {
	e.LoadFile(document.NewSampleFile())
}

// Clear empties the document as one undoable step.
func (e *Engine) Clear() {
	e.LoadFile(&document.File{Version: document.FileVersion})
}

// ExportJSON encodes the document in the file format.
func (e *Engine) ExportJSON() ([]byte, error) {
	return document.Encode(e.doc)
}

// Export renders the document as an image.
func (e *Engine) Export(f painter.Format, opts painter.ExportOptions) ([]byte, error) {
	return e.painter.Export(e.doc, f, opts)
}

func (e *Engine) reset() {
	e.state = &Idle{}
	e.busy = false
	e.doc.ClearSelection()
}

// Undo steps back one history entry. An in-progress gesture is abandoned.
func (e *Engine) Undo() bool {
	e.abandon()
	return e.history.Undo(e.doc)
}

func (e *Engine) Redo() bool {
	e.abandon()
	return e.history.Redo(e.doc)
}

func (e *Engine) abandon() {
	e.state = &Idle{}
	e.busy = false
}

// --- Clipboard ---

func (e *Engine) Copy() bool {
	return e.clip.Copy(e.doc)
}

func (e *Engine) Paste() document.Selection {
	return e.clip.Paste(e.doc)
}

// Delete removes every selected entity in one step.
func (e *Engine) Delete() {
	e.doc.RemoveSelected()
}

// --- Placement ---

// AddComponentAt places a component of type typ at a screen position,
// snapped to the grid, and selects it. Unknown types are refused.
func (e *Engine) AddComponentAt(typ string, screen geom.Point) (string, bool) {
	if _, ok := e.symbols.Lookup(typ); !ok {
		return "", false
	}
	at := e.snap(e.view.ToWorld(screen))
	id := e.doc.AddComponent(document.Component{Type: typ, X: at.X, Y: at.Y})
	e.doc.SetPrimary(document.KindComponent, id)
	return id, true
}

// AddTextAt places a text box with the default text style. Blank text is
// refused.
func (e *Engine) AddTextAt(text string, screen geom.Point) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	at := e.snap(e.view.ToWorld(screen))
	id := e.doc.AddTextBox(e.doc.Defaults().NewTextBox(at, text))
	e.doc.SetPrimary(document.KindTextBox, id)
	return id, true
}

// EditText replaces a text box's content; blank text removes the box.
func (e *Engine) EditText(id, text string) {
	if strings.TrimSpace(text) == "" {
		e.doc.RemoveTextBox(id)
		return
	}
	e.doc.UpdateTextBox(id, document.TextBoxPatch{Text: &text})
}

// --- Style ---

// StyleChange is a partial style edit from the properties panel. Nil
// fields are left alone.
type StyleChange struct {
	Color         *string                 `json:"color,omitempty"`
	Thickness     *float64                `json:"thickness,omitempty"`
	WireStyle     *document.WireStyle     `json:"wireStyle,omitempty"`
	RectStyle     *document.RectStyle     `json:"rectStyle,omitempty"`
	ArrowStart    *document.Arrow         `json:"arrowStart,omitempty"`
	ArrowEnd      *document.Arrow         `json:"arrowEnd,omitempty"`
	FontSize      *float64                `json:"fontSize,omitempty"`
	TextAlign     *document.TextAlign     `json:"textAlign,omitempty"`
	VerticalAlign *document.VerticalAlign `json:"verticalAlign,omitempty"`
}

// ApplyStyle applies c to every selected entity in one step, or to the
// defaults for new entities when nothing is selected.
func (e *Engine) ApplyStyle(c StyleChange) {
	sel := e.doc.Selected()
	if sel.IsEmpty() {
		e.doc.SetDefaults(c.applyDefaults(e.doc.Defaults()))
		return
	}
	e.doc.Batch(func() {
		for _, id := range sel.Wires {
			e.doc.UpdateWire(id, document.WirePatch{
				Color: c.Color, Thickness: c.Thickness, Style: c.WireStyle,
				ArrowStart: c.ArrowStart, ArrowEnd: c.ArrowEnd,
			})
		}
		for _, id := range sel.Rectangles {
			e.doc.UpdateRectangle(id, document.RectanglePatch{
				Color: c.Color, Thickness: c.Thickness, Style: c.RectStyle,
			})
		}
		for _, id := range sel.TextBoxes {
			e.doc.UpdateTextBox(id, document.TextBoxPatch{
				Color: c.Color, FontSize: c.FontSize,
				TextAlign: c.TextAlign, VerticalAlign: c.VerticalAlign,
			})
		}
	})
}

func (c StyleChange) applyDefaults(d document.Defaults) document.Defaults {
	if c.Color != nil {
		d.WireColor = *c.Color
		d.TextColor = *c.Color
	}
	if c.Thickness != nil && *c.Thickness > 0 {
		d.WireThickness = *c.Thickness
	}
	if c.WireStyle != nil && c.WireStyle.Valid() {
		d.WireStyle = *c.WireStyle
	}
	if c.RectStyle != nil && c.RectStyle.Valid() {
		d.RectStyle = *c.RectStyle
	}
	if c.ArrowStart != nil {
		d.ArrowStart = *c.ArrowStart
	}
	if c.ArrowEnd != nil {
		d.ArrowEnd = *c.ArrowEnd
	}
	if c.FontSize != nil && *c.FontSize > 0 {
		d.FontSize = *c.FontSize
	}
	return d
}

// --- Queries ---

// Status is a compact summary of the editor for UI chrome.
type Status struct {
	State       string               `json:"state"`
	Tool        Tool                 `json:"tool"`
	DrawingMode document.DrawingMode `json:"drawingMode"`
	View        View                 `json:"view"`
	Primary     document.Ref         `json:"primary"`
	Multi       document.Selection   `json:"multi"`
	CanUndo     bool                 `json:"canUndo"`
	CanRedo     bool                 `json:"canRedo"`
	Defaults    document.Defaults    `json:"defaults"`
}

func (e *Engine) Status() Status {
	return Status{
		State:       e.state.Name(),
		Tool:        e.tool,
		DrawingMode: e.doc.Defaults().DrawingMode,
		View:        e.view,
		Primary:     e.doc.Primary(),
		Multi:       e.doc.Multi(),
		CanUndo:     e.history.CanUndo(),
		CanRedo:     e.history.CanRedo(),
		Defaults:    e.doc.Defaults(),
	}
}

// StatusJSON returns Status as JSON.
func (e *Engine) StatusJSON() string {
	data, _ := json.Marshal(e.Status())
	return string(data)
}

// HitTest resolves a screen position without changing any state.
func (e *Engine) HitTest(screen geom.Point) hittest.Hit {
	return e.resolver.At(e.doc, e.view.ToWorld(screen), e.view.Zoom)
}

// Symbols returns the palette entries when the library is a Catalog.
func (e *Engine) Symbols() []symbol.Symbol {
	if c, ok := e.symbols.(symbol.Catalog); ok {
		return c.Symbols()
	}
	return nil
}

func (e *Engine) snap(p geom.Point) geom.Point {
	return geom.SnapPoint(p, e.grid)
}

func clampZoom(z float64) float64 {
	if z <= 0 {
		return 1
	}
	return min(max(z, MinZoom), MaxZoom)
}
