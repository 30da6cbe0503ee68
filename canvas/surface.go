package canvas

import (
	"math"

	"graphboard/geometry"
	"graphboard/render"
)

// Default cell size in screen units. A terminal cell is about twice as tall
// as it is wide.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// Box styles used for node outlines.
type BoxStyle struct {
	TopLeft, TopRight, BottomLeft, BottomRight rune
	Horizontal, Vertical                       rune
}

var (
	SquareBox  = BoxStyle{'┌', '┐', '└', '┘', '─', '│'}
	RoundedBox = BoxStyle{'╭', '╮', '╰', '╯', '─', '│'}
	DashedBox  = BoxStyle{'┌', '┐', '└', '┘', '┄', '┆'}
	HeavyBox   = BoxStyle{'┏', '┓', '┗', '┛', '━', '┃'}
)

// Surface adapts a Grid to render.Surface. Screen units are mapped to cells
// by the cell size.
type Surface struct {
	*Grid
	cellW, cellH float64
	t            render.Transform
}

var _ render.Surface = (*Surface)(nil)

// NewSurface creates a cols×rows surface with the default cell size.
func NewSurface(cols, rows int) (*Surface, error) {
	return NewSurfaceWithCell(cols, rows, DefaultCellWidth, DefaultCellHeight)
}

// NewSurfaceWithCell creates a surface whose cells cover cellW×cellH screen
// units.
func NewSurfaceWithCell(cols, rows int, cellW, cellH float64) (*Surface, error) {
	if cellW <= 0 || cellH <= 0 {
		return nil, ErrInvalidSize
	}
	g, err := NewGrid(cols, rows)
	if err != nil {
		return nil, err
	}
	return &Surface{Grid: g, cellW: cellW, cellH: cellH, t: render.Identity}, nil
}

// CellSize returns the screen size of one cell.
func (s *Surface) CellSize() (w, h float64) { return s.cellW, s.cellH }

// Size returns the drawable area in screen units.
func (s *Surface) Size() (float64, float64) {
	return float64(s.width) * s.cellW, float64(s.height) * s.cellH
}

func (s *Surface) Clear(background string) {
	s.t = render.Identity
	s.Fill(background)
}

func (s *Surface) SetTransform(t render.Transform) { s.t = t }

// cell maps a world point to a cell position.
func (s *Surface) cell(p geometry.Point) (int, int) {
	q := s.t.Apply(p)
	return int(math.Floor(q.X / s.cellW)), int(math.Floor(q.Y / s.cellH))
}

func (s *Surface) Line(a, b geometry.Point, st render.Style) {
	x0, y0 := s.cell(a)
	x1, y1 := s.cell(b)
	s.line(x0, y0, x1, y1, lineRune(x0, y0, x1, y1, st.Dashed), st.Stroke)
}

func lineRune(x0, y0, x1, y1 int, dashed bool) rune {
	switch {
	case y0 == y1 && dashed:
		return '┄'
	case y0 == y1:
		return '─'
	case x0 == x1 && dashed:
		return '┆'
	case x0 == x1:
		return '│'
	case (x1 > x0) == (y1 > y0):
		return '╲'
	default:
		return '╱'
	}
}

// line draws a Bresenham line clipped to the grid.
func (s *Surface) line(x0, y0, x1, y1 int, r rune, fg string) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for steps := 0; steps <= dx-dy; steps++ {
		_ = s.Set(x0, y0, r, fg)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (s *Surface) box(r geometry.Rect, st render.Style, style BoxStyle) {
	if r.Empty() {
		return
	}
	x0, y0 := s.cell(r.Min())
	x1, y1 := s.cell(r.Max())
	if x1 == x0 && y1 == y0 {
		_ = s.Set(x0, y0, '□', st.Stroke)
		return
	}
	if st.Fill != "" {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				s.Paint(x, y, st.Fill)
			}
		}
	}
	if st.Stroke == "" {
		return
	}
	if st.StrokeWidth >= 2 {
		style = HeavyBox
	}
	for x := x0 + 1; x < x1; x++ {
		_ = s.Set(x, y0, style.Horizontal, st.Stroke)
		_ = s.Set(x, y1, style.Horizontal, st.Stroke)
	}
	for y := y0 + 1; y < y1; y++ {
		_ = s.Set(x0, y, style.Vertical, st.Stroke)
		_ = s.Set(x1, y, style.Vertical, st.Stroke)
	}
	s.Put(x0, y0, style.TopLeft, st.Stroke, false)
	s.Put(x1, y0, style.TopRight, st.Stroke, false)
	s.Put(x0, y1, style.BottomLeft, st.Stroke, false)
	s.Put(x1, y1, style.BottomRight, st.Stroke, false)
}

func (s *Surface) Rect(r geometry.Rect, st render.Style) {
	r = r.Normalize()
	// Selection handles are smaller than a cell; show them as a marker.
	if w, h := r.Width*s.t.Scale, r.Height*s.t.Scale; !r.Empty() && w < s.cellW && h < s.cellH {
		x, y := s.cell(r.Center())
		s.Put(x, y, '■', st.Stroke, false)
		return
	}
	style := SquareBox
	if st.Dashed {
		style = DashedBox
	}
	s.box(r, st, style)
}

func (s *Surface) Ellipse(r geometry.Rect, st render.Style) {
	r = r.Normalize()
	if w, h := r.Width*s.t.Scale, r.Height*s.t.Scale; !r.Empty() && w < 2*s.cellW && h < 2*s.cellH {
		x, y := s.cell(r.Center())
		s.Put(x, y, '●', st.Fill, false)
		return
	}
	s.box(r, st, RoundedBox)
}

func (s *Surface) Path(points []geometry.Point, closed bool, st render.Style) {
	if closed && len(points) == 3 {
		s.arrow(points, st)
		return
	}
	for i := 1; i < len(points); i++ {
		x0, y0 := s.cell(points[i-1])
		x1, y1 := s.cell(points[i])
		s.line(x0, y0, x1, y1, '·', st.Stroke)
	}
	if closed && len(points) > 2 {
		x0, y0 := s.cell(points[len(points)-1])
		x1, y1 := s.cell(points[0])
		s.line(x0, y0, x1, y1, '·', st.Stroke)
	}
}

// arrow draws a triangular arrowhead as one directional rune at its tip.
func (s *Surface) arrow(points []geometry.Point, st render.Style) {
	tip := points[1]
	base := geometry.Midpoint(points[0], points[2])
	d := tip.Sub(base)
	var r rune
	switch {
	case math.Abs(d.X)*s.cellH >= math.Abs(d.Y)*s.cellW && d.X >= 0:
		r = '▶'
	case math.Abs(d.X)*s.cellH >= math.Abs(d.Y)*s.cellW:
		r = '◀'
	case d.Y >= 0:
		r = '▼'
	default:
		r = '▲'
	}
	x, y := s.cell(tip)
	color := st.Fill
	if color == "" {
		color = st.Stroke
	}
	s.Put(x, y, r, color, false)
}

// Text writes text on the cell row containing the middle of the glyphs.
func (s *Surface) Text(p geometry.Point, text string, st render.Style) {
	size := st.FontSize
	if size == 0 {
		size = render.FontSize
	}
	x, y := s.cell(geometry.Pt(p.X, p.Y-size/2))
	s.DrawText(x, y, text, st.Fill, st.Bold)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
