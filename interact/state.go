package interact

import (
	"fmt"
	"strings"

	"graphboard/geometry"
	"graphboard/graph"
	"graphboard/hittest"
)

// Tool is the active toolbar tool.
type Tool int

const (
	ToolSelect  Tool = iota // Select, move, resize and pan
	ToolRect                // Draw rectangles
	ToolEllipse             // Draw ellipses
	ToolText                // Draw text boxes
	ToolPen                 // Freehand strokes
)

// String returns the tool name for display
func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolRect:
		return "rect"
	case ToolEllipse:
		return "ellipse"
	case ToolText:
		return "text"
	case ToolPen:
		return "pen"
	default:
		return "unknown"
	}
}

// Kind returns the node kind the tool draws; ok is false for ToolSelect.
func (t Tool) Kind() (graph.Kind, bool) {
	switch t {
	case ToolRect:
		return graph.KindRect, true
	case ToolEllipse:
		return graph.KindEllipse, true
	case ToolText:
		return graph.KindText, true
	case ToolPen:
		return graph.KindPath, true
	default:
		return "", false
	}
}

// ParseTool parses a tool name.
func ParseTool(s string) (Tool, error) {
	for t := ToolSelect; t <= ToolPen; t++ {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// StateKind tags the interaction state.
type StateKind int

const (
	Idle StateKind = iota
	Panning
	DrawingShape
	DraggingExistingShape
)

// String returns the state name for display
func (k StateKind) String() string {
	switch k {
	case Idle:
		return "IDLE"
	case Panning:
		return "PANNING"
	case DrawingShape:
		return "DRAWING"
	case DraggingExistingShape:
		return "DRAGGING"
	default:
		return "UNKNOWN"
	}
}

// State is the interaction state. Only the fields of the current Kind are
// meaningful.
type State struct {
	Kind StateKind

	// Panning: screen pointer and pan at gesture start.
	StartPointer geometry.Point
	StartPan     geometry.Point

	// DrawingShape and DraggingExistingShape.
	ShapeID string
	// Start is the world point where the gesture began.
	Start geometry.Point

	// DraggingExistingShape: the node as it was when the gesture began.
	Snapshot graph.Node
	Origin   geometry.Rect
	Resizing bool
	Handle   hittest.Corner
	Patch    graph.Patch
}
