//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"syscall/js"

	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/engine"
	"github.com/schedit/schedit/backend-go/internal/geom"
	"github.com/schedit/schedit/backend-go/internal/painter"
	"github.com/schedit/schedit/backend-go/internal/store"
)

var (
	eng   *engine.Engine
	saver *store.Autosaver
)

func main() {
	eng = engine.New(engine.Options{})

	saver = store.NewAutosaver(localStore{storage: js.Global().Get("localStorage")}, store.DefaultSlot)
	restored, err := saver.Restore(context.Background(), eng)
	if err != nil {
		js.Global().Get("console").Call("warn", "schedit: restore autosave: "+err.Error())
	}
	eng.Document().AddObserver(saver)

	api := js.Global().Get("Object").New()

	// --- Input ---
	api.Set("pointerDown", js.FuncOf(pointerHandler(eng.PointerDown)))
	api.Set("pointerMove", js.FuncOf(pointerHandler(eng.PointerMove)))
	api.Set("pointerUp", js.FuncOf(pointerHandler(eng.PointerUp)))
	api.Set("wheel", js.FuncOf(wheel))
	api.Set("keyDown", js.FuncOf(keyDown))

	// --- Commands ---
	api.Set("setTool", js.FuncOf(setTool))
	api.Set("setDrawingMode", js.FuncOf(setDrawingMode))
	api.Set("setView", js.FuncOf(setView))
	api.Set("setViewport", js.FuncOf(setViewport))
	api.Set("placeComponent", js.FuncOf(placeComponent))
	api.Set("addText", js.FuncOf(addText))
	api.Set("editText", js.FuncOf(editText))
	api.Set("applyStyle", js.FuncOf(applyStyle))
	api.Set("undo", js.FuncOf(func(js.Value, []js.Value) interface{} { return js.ValueOf(eng.Undo()) }))
	api.Set("redo", js.FuncOf(func(js.Value, []js.Value) interface{} { return js.ValueOf(eng.Redo()) }))
	api.Set("copy", js.FuncOf(func(js.Value, []js.Value) interface{} { return js.ValueOf(eng.Copy()) }))
	api.Set("paste", js.FuncOf(paste))
	api.Set("deleteSelection", js.FuncOf(func(js.Value, []js.Value) interface{} { eng.Delete(); return nil }))
	api.Set("rotate", js.FuncOf(func(js.Value, []js.Value) interface{} { eng.RotateSelection(); return nil }))
	api.Set("mirror", js.FuncOf(mirror))
	api.Set("escape", js.FuncOf(func(js.Value, []js.Value) interface{} { eng.Escape(); return nil }))

	// --- Document ---
	api.Set("loadDocument", js.FuncOf(loadDocument))
	api.Set("loadSampleDocument", js.FuncOf(func(js.Value, []js.Value) interface{} { eng.LoadSample(); return ok() }))
	api.Set("clearDocument", js.FuncOf(func(js.Value, []js.Value) interface{} { eng.Clear(); return ok() }))
	api.Set("getDocument", js.FuncOf(getDocument))
	api.Set("exportImage", js.FuncOf(exportImage))

	// --- Queries ---
	api.Set("render", js.FuncOf(func(js.Value, []js.Value) interface{} { return js.ValueOf(eng.RenderJSON()) }))
	api.Set("getStatus", js.FuncOf(func(js.Value, []js.Value) interface{} { return js.ValueOf(eng.StatusJSON()) }))
	api.Set("hitTest", js.FuncOf(hitTest))
	api.Set("getSymbols", js.FuncOf(getSymbols))

	js.Global().Set("scheditEngine", api)
	js.Global().Set("scheditRestored", js.ValueOf(restored))

	// Signal that WASM is ready
	js.Global().Set("scheditWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func ok() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func fail(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

// decodeArg unmarshals a JSON string argument.
func decodeArg(args []js.Value, v any) bool {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return false
	}
	return json.Unmarshal([]byte(args[0].String()), v) == nil
}

// --- Input Handlers ---

func pointerHandler(fn func(engine.PointerEvent)) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		var ev engine.PointerEvent
		if !decodeArg(args, &ev) {
			return nil
		}
		fn(ev)
		return nil
	}
}

func wheel(this js.Value, args []js.Value) interface{} {
	var ev engine.WheelEvent
	if !decodeArg(args, &ev) {
		return nil
	}
	eng.Wheel(ev)
	return nil
}

func keyDown(this js.Value, args []js.Value) interface{} {
	var ev engine.KeyEvent
	if !decodeArg(args, &ev) {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.KeyDown(ev))
}

// --- Command Handlers ---

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.SetTool(engine.Tool(args[0].String()))
	return nil
}

func setDrawingMode(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.SetDrawingMode(document.DrawingMode(args[0].String()))
	return nil
}

func setView(this js.Value, args []js.Value) interface{} {
	var v engine.View
	if !decodeArg(args, &v) {
		return nil
	}
	eng.SetView(v)
	return nil
}

func setViewport(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.SetViewport(args[0].Float(), args[1].Float())
	return nil
}

func placeComponent(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return fail("usage: placeComponent(type, x, y)")
	}
	id, placed := eng.AddComponentAt(args[0].String(), geom.Pt(args[1].Float(), args[2].Float()))
	if !placed {
		return fail("unknown component type")
	}
	return js.ValueOf(id)
}

func addText(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return fail("usage: addText(text, x, y)")
	}
	id, added := eng.AddTextAt(args[0].String(), geom.Pt(args[1].Float(), args[2].Float()))
	if !added {
		return fail("text is empty")
	}
	return js.ValueOf(id)
}

func editText(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.EditText(args[0].String(), args[1].String())
	return nil
}

func applyStyle(this js.Value, args []js.Value) interface{} {
	var c engine.StyleChange
	if !decodeArg(args, &c) {
		return fail("invalid style JSON")
	}
	eng.ApplyStyle(c)
	return ok()
}

func paste(this js.Value, args []js.Value) interface{} {
	data, _ := json.Marshal(eng.Paste())
	return js.ValueOf(string(data))
}

func mirror(this js.Value, args []js.Value) interface{} {
	horizontal := len(args) < 1 || args[0].Truthy()
	eng.MirrorSelection(horizontal)
	return nil
}

// --- Document Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing document JSON")
	}
	if err := eng.LoadJSON([]byte(args[0].String())); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func getDocument(this js.Value, args []js.Value) interface{} {
	data, err := eng.ExportJSON()
	if err != nil {
		return fail(err.Error())
	}
	return js.ValueOf(string(data))
}

// exportImage(format, optionsJSON) returns SVG text, or PNG bytes as a
// Uint8Array.
func exportImage(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing format")
	}
	format, err := painter.ParseFormat(args[0].String())
	if err != nil {
		return fail(err.Error())
	}
	opts := painter.DefaultExportOptions()
	if len(args) > 1 && !decodeArg(args[1:], &opts) {
		return fail("invalid export options")
	}

	out, err := eng.Export(format, opts)
	if err != nil {
		return fail(err.Error())
	}
	if format == painter.FormatSVG {
		return js.ValueOf(string(out))
	}
	buf := js.Global().Get("Uint8Array").New(len(out))
	js.CopyBytesToJS(buf, out)
	return buf
}

// --- Query Handlers ---

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("{}")
	}
	data, _ := json.Marshal(eng.HitTest(geom.Pt(args[0].Float(), args[1].Float())))
	return js.ValueOf(string(data))
}

func getSymbols(this js.Value, args []js.Value) interface{} {
	data, _ := json.Marshal(eng.Symbols())
	return js.ValueOf(string(data))
}
