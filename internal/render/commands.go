package render

import (
	"encoding/json"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
// All coordinates are already in device space.
type DrawCommand struct {
	Op          string        `json:"op"`                    // Operation: "path", "text"
	ObjectID    string        `json:"objectId,omitempty"`    // For hit correlation
	Path        []PathCommand `json:"path,omitempty"`        // Path data for "path" ops
	Fill        string        `json:"fill,omitempty"`        // Fill color
	Stroke      string        `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // Stroke width
	Dash        []float64     `json:"dash,omitempty"`        // Line dash pattern
	Text        string        `json:"text,omitempty"`        // Text for "text" ops
	X           float64       `json:"x,omitempty"`
	Y           float64       `json:"y,omitempty"`
	FontSize    float64       `json:"fontSize,omitempty"`
}

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y],
// ["A", cx, cy, r, start, end, anticlockwise], ["Z"].
type PathCommand []any

// Recorder is a Context that records draw commands instead of drawing.
type Recorder struct {
	Pen
	objectID string
	commands []DrawCommand
}

func NewRecorder() *Recorder {
	return &Recorder{Pen: newPen()}
}

// SetObjectID tags subsequent commands with an entity id.
func (r *Recorder) SetObjectID(id string) {
	r.objectID = id
}

func (r *Recorder) Stroke() {
	style := r.DeviceStyle()
	if !visible(style.Stroke) || len(r.path) == 0 {
		return
	}
	cmd := r.pathCommand()
	cmd.Stroke = style.Stroke
	cmd.StrokeWidth = style.LineWidth
	if len(style.Dash) > 0 {
		cmd.Dash = style.Dash
	}
	r.commands = append(r.commands, cmd)
}

func (r *Recorder) Fill() {
	style := r.DeviceStyle()
	if !visible(style.Fill) || len(r.path) == 0 {
		return
	}
	cmd := r.pathCommand()
	cmd.Fill = style.Fill
	r.commands = append(r.commands, cmd)
}

func (r *Recorder) FillText(text string, x, y, fontSize float64) {
	if text == "" || !visible(r.cur.style.Fill) {
		return
	}
	at, size := r.DeviceText(x, y, fontSize)
	r.commands = append(r.commands, DrawCommand{
		Op:       "text",
		ObjectID: r.objectID,
		Fill:     r.cur.style.Fill,
		Text:     text,
		X:        at.X,
		Y:        at.Y,
		FontSize: size,
	})
}

func (r *Recorder) pathCommand() DrawCommand {
	path := make([]PathCommand, 0, len(r.path))
	for _, s := range r.path {
		switch s.Op {
		case SegMove:
			path = append(path, PathCommand{"M", s.P.X, s.P.Y})
		case SegLine:
			path = append(path, PathCommand{"L", s.P.X, s.P.Y})
		case SegArc:
			path = append(path, PathCommand{"A", s.P.X, s.P.Y, s.R, s.Start, s.Start + s.Sweep, s.Sweep < 0})
		case SegClose:
			path = append(path, PathCommand{"Z"})
		}
	}
	return DrawCommand{Op: "path", ObjectID: r.objectID, Path: path}
}

// Commands returns the recorded buffer in painter's order.
func (r *Recorder) Commands() []DrawCommand {
	return r.commands
}

// Reset clears the buffer and the drawing state.
func (r *Recorder) Reset() {
	r.Pen = newPen()
	r.objectID = ""
	r.commands = nil
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
