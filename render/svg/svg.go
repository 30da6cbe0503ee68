// Package svg renders frames as standalone SVG documents.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"graphboard/geometry"
	"graphboard/render"
)

const fontFamily = "Helvetica, Arial, sans-serif"

// Surface accumulates SVG elements for one frame.
type Surface struct {
	width, height float64
	body          bytes.Buffer
	group         bool
}

var _ render.Surface = (*Surface)(nil)

// New creates a surface of the given pixel size.
func New(width, height float64) *Surface {
	return &Surface{width: width, height: height}
}

func (s *Surface) Size() (float64, float64) { return s.width, s.height }

func (s *Surface) Clear(background string) {
	s.body.Reset()
	s.group = false
	if background != "" {
		fmt.Fprintf(&s.body, `<rect x="0" y="0" width="%g" height="%g" fill="%s"/>`+"\n", s.width, s.height, attr(background))
	}
}

func (s *Surface) SetTransform(t render.Transform) {
	s.closeGroup()
	fmt.Fprintf(&s.body, `<g transform="scale(%g) translate(%g %g)">`+"\n", t.Scale, t.Translate.X, t.Translate.Y)
	s.group = true
}

func (s *Surface) closeGroup() {
	if s.group {
		s.body.WriteString("</g>\n")
		s.group = false
	}
}

func (s *Surface) Line(a, b geometry.Point, st render.Style) {
	fmt.Fprintf(&s.body, `<line x1="%g" y1="%g" x2="%g" y2="%g"%s/>`+"\n", a.X, a.Y, b.X, b.Y, paint(st, false))
}

func (s *Surface) Rect(r geometry.Rect, st render.Style) {
	r = r.Normalize()
	fmt.Fprintf(&s.body, `<rect x="%g" y="%g" width="%g" height="%g"%s/>`+"\n", r.X, r.Y, r.Width, r.Height, paint(st, true))
}

func (s *Surface) Ellipse(r geometry.Rect, st render.Style) {
	r = r.Normalize()
	c := r.Center()
	fmt.Fprintf(&s.body, `<ellipse cx="%g" cy="%g" rx="%g" ry="%g"%s/>`+"\n", c.X, c.Y, r.Width/2, r.Height/2, paint(st, true))
}

func (s *Surface) Path(points []geometry.Point, closed bool, st render.Style) {
	if len(points) == 0 {
		return
	}
	var pts strings.Builder
	for i, p := range points {
		if i > 0 {
			pts.WriteByte(' ')
		}
		fmt.Fprintf(&pts, "%g,%g", p.X, p.Y)
	}
	tag := "polyline"
	if closed {
		tag = "polygon"
	}
	fmt.Fprintf(&s.body, `<%s points="%s"%s/>`+"\n", tag, pts.String(), paint(st, closed))
}

func (s *Surface) Text(p geometry.Point, text string, st render.Style) {
	size := st.FontSize
	if size == 0 {
		size = render.FontSize
	}
	weight := ""
	if st.Bold {
		weight = ` font-weight="bold"`
	}
	fill := st.Fill
	if fill == "" {
		fill = "#000000"
	}
	fmt.Fprintf(&s.body, `<text x="%g" y="%g" font-family="%s" font-size="%g" fill="%s"%s>%s</text>`+"\n",
		p.X, p.Y, fontFamily, size, attr(fill), weight, escape(text))
}

// WriteTo writes the complete document.
func (s *Surface) WriteTo(w io.Writer) (int64, error) {
	var doc bytes.Buffer
	fmt.Fprintf(&doc, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`+"\n",
		s.width, s.height, s.width, s.height)
	doc.Write(s.body.Bytes())
	if s.group {
		doc.WriteString("</g>\n")
	}
	doc.WriteString("</svg>\n")
	return doc.WriteTo(w)
}

// Bytes returns the complete document.
func (s *Surface) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = s.WriteTo(&buf)
	return buf.Bytes()
}

func paint(st render.Style, fillable bool) string {
	var b strings.Builder
	fill := "none"
	if fillable && st.Fill != "" {
		fill = attr(st.Fill)
	}
	fmt.Fprintf(&b, ` fill="%s"`, fill)
	if st.Stroke != "" {
		width := st.StrokeWidth
		if width == 0 {
			width = 1
		}
		fmt.Fprintf(&b, ` stroke="%s" stroke-width="%g"`, attr(st.Stroke), width)
		if st.Dashed {
			fmt.Fprintf(&b, ` stroke-dasharray="%g %g"`, 6*width, 4*width)
		}
	}
	return b.String()
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func attr(s string) string {
	return strings.NewReplacer(`"`, "", "<", "", ">", "", "&", "").Replace(s)
}
