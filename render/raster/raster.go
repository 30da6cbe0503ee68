// Package raster renders frames to PNG through fogleman/gg.
package raster

import (
	"fmt"
	"image"
	"io"
	"sync"

	"graphboard/geometry"
	"graphboard/render"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
)

var (
	fontsOnce sync.Once
	regular   *truetype.Font
	bold      *truetype.Font
	fontErr   error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if regular, fontErr = truetype.Parse(gomono.TTF); fontErr != nil {
			return
		}
		bold, fontErr = truetype.Parse(gomonobold.TTF)
	})
	return fontErr
}

type faceKey struct {
	size float64
	bold bool
}

// Surface draws into an RGBA image. Coordinates are transformed on the way
// in so stroke widths and font sizes scale with the zoom.
type Surface struct {
	dc    *gg.Context
	t     render.Transform
	faces map[faceKey]font.Face
}

var _ render.Surface = (*Surface)(nil)

// New creates a surface of the given pixel size.
func New(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("loading fonts: %w", err)
	}
	return &Surface{
		dc:    gg.NewContext(width, height),
		t:     render.Identity,
		faces: make(map[faceKey]font.Face),
	}, nil
}

func (s *Surface) Size() (float64, float64) {
	return float64(s.dc.Width()), float64(s.dc.Height())
}

func (s *Surface) Clear(background string) {
	s.t = render.Identity
	if background == "" {
		background = "#ffffff"
	}
	s.dc.SetHexColor(background)
	s.dc.Clear()
}

func (s *Surface) SetTransform(t render.Transform) { s.t = t }

func (s *Surface) width(w float64) float64 {
	if w == 0 {
		w = 1
	}
	return w * s.t.Scale
}

// paint fills and strokes the current path.
func (s *Surface) paint(st render.Style, fillable bool) {
	if fillable && st.Fill != "" {
		s.dc.SetHexColor(st.Fill)
		s.dc.FillPreserve()
	}
	if st.Stroke != "" {
		w := s.width(st.StrokeWidth)
		s.dc.SetHexColor(st.Stroke)
		s.dc.SetLineWidth(w)
		if st.Dashed {
			s.dc.SetDash(6*w, 4*w)
		}
		s.dc.StrokePreserve()
		s.dc.SetDash()
	}
	s.dc.ClearPath()
}

func (s *Surface) Line(a, b geometry.Point, st render.Style) {
	a, b = s.t.Apply(a), s.t.Apply(b)
	s.dc.DrawLine(a.X, a.Y, b.X, b.Y)
	s.paint(st, false)
}

func (s *Surface) Rect(r geometry.Rect, st render.Style) {
	r = s.t.ApplyRect(r)
	s.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	s.paint(st, true)
}

func (s *Surface) Ellipse(r geometry.Rect, st render.Style) {
	r = s.t.ApplyRect(r)
	c := r.Center()
	s.dc.DrawEllipse(c.X, c.Y, r.Width/2, r.Height/2)
	s.paint(st, true)
}

func (s *Surface) Path(points []geometry.Point, closed bool, st render.Style) {
	if len(points) == 0 {
		return
	}
	s.dc.NewSubPath()
	for _, p := range points {
		p = s.t.Apply(p)
		s.dc.LineTo(p.X, p.Y)
	}
	if closed {
		s.dc.ClosePath()
	}
	s.paint(st, closed)
}

func (s *Surface) Text(p geometry.Point, text string, st render.Style) {
	size := st.FontSize
	if size == 0 {
		size = render.FontSize
	}
	s.dc.SetFontFace(s.face(faceKey{size: size * s.t.Scale, bold: st.Bold}))
	fill := st.Fill
	if fill == "" {
		fill = "#000000"
	}
	p = s.t.Apply(p)
	s.dc.SetHexColor(fill)
	s.dc.DrawString(text, p.X, p.Y)
}

func (s *Surface) face(k faceKey) font.Face {
	if f, ok := s.faces[k]; ok {
		return f
	}
	ttf := regular
	if k.bold {
		ttf = bold
	}
	f := truetype.NewFace(ttf, &truetype.Options{Size: k.size, DPI: 72, Hinting: font.HintingFull})
	s.faces[k] = f
	return f
}

// Image returns the rendered image.
func (s *Surface) Image() image.Image { return s.dc.Image() }

// EncodePNG writes the image as PNG.
func (s *Surface) EncodePNG(w io.Writer) error { return s.dc.EncodePNG(w) }
