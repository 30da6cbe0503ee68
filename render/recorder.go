package render

import (
	"slices"

	"graphboard/geometry"
)

// OpKind names a recorded primitive.
type OpKind string

// Recorded primitive kinds.
const (
	OpClear     OpKind = "clear"
	OpTransform OpKind = "transform"
	OpLine      OpKind = "line"
	OpRect      OpKind = "rect"
	OpEllipse   OpKind = "ellipse"
	OpPath      OpKind = "path"
	OpText      OpKind = "text"
)

// Op is one recorded primitive call.
type Op struct {
	Kind      OpKind
	Points    []geometry.Point
	Rect      geometry.Rect
	Closed    bool
	Text      string
	Style     Style
	Transform Transform
}

// Recorder is a Surface that keeps every call. It is used in tests and by
// the debug output of the render command.
type Recorder struct {
	Width, Height float64
	Ops           []Op
}

var _ Surface = (*Recorder)(nil)

// NewRecorder creates a recorder of the given size.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) Size() (float64, float64) { return r.Width, r.Height }

func (r *Recorder) Clear(background string) {
	r.Ops = append(r.Ops, Op{Kind: OpClear, Style: Style{Fill: background}})
}

func (r *Recorder) SetTransform(t Transform) {
	r.Ops = append(r.Ops, Op{Kind: OpTransform, Transform: t})
}

func (r *Recorder) Line(a, b geometry.Point, s Style) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, Points: []geometry.Point{a, b}, Style: s})
}

func (r *Recorder) Rect(rect geometry.Rect, s Style) {
	r.Ops = append(r.Ops, Op{Kind: OpRect, Rect: rect, Style: s})
}

func (r *Recorder) Ellipse(rect geometry.Rect, s Style) {
	r.Ops = append(r.Ops, Op{Kind: OpEllipse, Rect: rect, Style: s})
}

func (r *Recorder) Path(points []geometry.Point, closed bool, s Style) {
	r.Ops = append(r.Ops, Op{Kind: OpPath, Points: slices.Clone(points), Closed: closed, Style: s})
}

func (r *Recorder) Text(p geometry.Point, text string, s Style) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Points: []geometry.Point{p}, Text: text, Style: s})
}

// Reset drops every recorded op.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

// Filter returns the ops of the given kind in call order.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Texts returns every drawn string in call order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Filter(OpText) {
		out = append(out, op.Text)
	}
	return out
}

// Index returns the position of the first op matching fn, or -1.
func (r *Recorder) Index(fn func(Op) bool) int {
	return slices.IndexFunc(r.Ops, fn)
}

// LastIndex returns the position of the last op matching fn, or -1.
func (r *Recorder) LastIndex(fn func(Op) bool) int {
	for i := len(r.Ops) - 1; i >= 0; i-- {
		if fn(r.Ops[i]) {
			return i
		}
	}
	return -1
}
