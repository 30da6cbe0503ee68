// Package terminal hosts a board in a tcell screen with mouse support.
package terminal

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"graphboard/canvas"
	"graphboard/engine"
	"graphboard/geometry"
	"graphboard/interact"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// Config tunes the terminal host.
type Config struct {
	// CellWidth and CellHeight are the screen units covered by one cell.
	CellWidth  float64 `koanf:"cell_width"`
	CellHeight float64 `koanf:"cell_height"`
	// DoubleClick is the longest gap between two clicks on the same cell
	// that still counts as a double-click.
	DoubleClick time.Duration `koanf:"double_click"`
	// PanStep is how many cells an arrow key pans.
	PanStep int `koanf:"pan_step"`
	// Charset is unicode, ascii or auto.
	Charset string `koanf:"charset"`
}

// DefaultConfig returns the standard host settings.
func DefaultConfig() Config {
	return Config{
		CellWidth:   canvas.DefaultCellWidth,
		CellHeight:  canvas.DefaultCellHeight,
		DoubleClick: 400 * time.Millisecond,
		PanStep:     4,
		Charset:     "auto",
	}
}

type mode int

const (
	modeNormal mode = iota
	modeJump
	modeHelp
)

// quitSignal is posted to stop the event loop when the context ends.
type quitSignal struct{}

// Host owns the screen and feeds its events to an engine. The bottom row
// holds the status line; the rest is the board.
type Host struct {
	screen  tcell.Screen
	cfg     Config
	charset canvas.Charset
	logger  *zap.Logger

	engine  *engine.Engine
	surface *canvas.Surface
	status  string
	mode    mode
	labels  []jumpLabel

	pressed   bool
	lastClick time.Time
	lastCell  [2]int
}

// NewHost creates a host on an initialised screen.
func NewHost(screen tcell.Screen, cfg Config, logger *zap.Logger) *Host {
	def := DefaultConfig()
	if cfg.CellWidth <= 0 || cfg.CellHeight <= 0 {
		cfg.CellWidth, cfg.CellHeight = def.CellWidth, def.CellHeight
	}
	if cfg.DoubleClick <= 0 {
		cfg.DoubleClick = def.DoubleClick
	}
	if cfg.PanStep <= 0 {
		cfg.PanStep = def.PanStep
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	charset, err := canvas.ParseCharset(cfg.Charset, os.Getenv)
	if err != nil {
		logger.Warn("falling back to unicode", zap.Error(err))
	}
	return &Host{screen: screen, cfg: cfg, charset: charset, logger: logger}
}

// Wake asks the event loop to pump store completions. It is safe to call
// from any goroutine and is meant for model.Options.Wake.
func (h *Host) Wake() {
	_ = h.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Surface returns a board surface sized to the screen.
func (h *Host) Surface() (*canvas.Surface, error) {
	w, ht := h.screen.Size()
	s, err := canvas.NewSurfaceWithCell(max(w, 1), max(ht-1, 1), h.cfg.CellWidth, h.cfg.CellHeight)
	if err != nil {
		return nil, fmt.Errorf("board surface: %w", err)
	}
	h.surface = s
	return s, nil
}

func (h *Host) resize() error {
	s, err := h.Surface()
	if err != nil {
		return err
	}
	h.engine.Resize(s)
	return nil
}

// Status returns the text of the status line.
func (h *Host) Status() string { return h.status }

// Run processes events until the user quits or ctx ends. The engine must
// draw to a surface obtained from Surface.
func (h *Host) Run(ctx context.Context, e *engine.Engine) error {
	h.engine = e
	if h.surface == nil {
		if err := h.resize(); err != nil {
			return err
		}
	}
	e.OnNotify(func(n engine.Notice) {
		h.logger.Warn("store call failed", zap.Error(n.Failure))
		h.status = n.Message
	})
	e.OnSelect(func(id string) {
		if n, ok := e.Model().Node(id); ok {
			h.status = fmt.Sprintf("selected %s %q", n.Kind, n.Title)
		} else {
			h.status = ""
		}
	})

	h.screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	defer h.screen.DisableMouse()

	stop := context.AfterFunc(ctx, func() {
		_ = h.screen.PostEvent(tcell.NewEventInterrupt(quitSignal{}))
	})
	defer stop()

	e.Redraw()
	for {
		h.draw()
		ev := h.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			h.screen.Sync()
			if err := h.resize(); err != nil {
				return err
			}
		case *tcell.EventInterrupt:
			if _, ok := ev.Data().(quitSignal); ok {
				return ctx.Err()
			}
			e.Pump()
		case *tcell.EventMouse:
			h.handleMouse(ev)
		case *tcell.EventKey:
			if h.handleKey(ev) {
				return nil
			}
		}
	}
}

// point converts a cell to the screen point at its centre.
func (h *Host) point(x, y int) geometry.Point {
	return geometry.Pt((float64(x)+0.5)*h.cfg.CellWidth, (float64(y)+0.5)*h.cfg.CellHeight)
}

func (h *Host) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	p := h.point(x, y)
	_, rows := h.surface.Grid.Size()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		h.engine.HandlePointer(engine.PointerEvent{Kind: engine.Wheel, Point: p, Delta: 1})
	case buttons&tcell.WheelDown != 0:
		h.engine.HandlePointer(engine.PointerEvent{Kind: engine.Wheel, Point: p, Delta: -1})
	case buttons&tcell.Button1 != 0:
		if y >= rows {
			if h.pressed {
				h.pressed = false
				h.engine.HandlePointer(engine.PointerEvent{Kind: engine.PointerLeave, Point: p})
			}
			return
		}
		if h.pressed {
			h.engine.HandlePointer(engine.PointerEvent{Kind: engine.PointerMove, Point: p})
			return
		}
		h.pressed = true
		cell := [2]int{x, y}
		now := time.Now()
		if cell == h.lastCell && now.Sub(h.lastClick) <= h.cfg.DoubleClick {
			h.lastClick = time.Time{}
			h.engine.HandlePointer(engine.PointerEvent{Kind: engine.DoubleClick, Point: p})
			return
		}
		h.lastClick, h.lastCell = now, cell
		h.engine.HandlePointer(engine.PointerEvent{Kind: engine.PointerDown, Point: p})
	case h.pressed:
		h.pressed = false
		h.engine.HandlePointer(engine.PointerEvent{Kind: engine.PointerUp, Point: p})
	default:
		h.engine.HandlePointer(engine.PointerEvent{Kind: engine.PointerMove, Point: p})
	}
}

var toolKeys = map[rune]interact.Tool{
	's': interact.ToolSelect,
	'r': interact.ToolRect,
	'e': interact.ToolEllipse,
	't': interact.ToolText,
	'p': interact.ToolPen,
}

// handleKey applies a key binding and reports whether the user quit.
func (h *Host) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}
	switch h.mode {
	case modeHelp:
		h.mode = modeNormal
		return false
	case modeJump:
		if ev.Key() == tcell.KeyRune {
			h.jump(ev.Rune())
		} else {
			h.mode, h.status = modeNormal, ""
		}
		return false
	}

	step := float64(h.cfg.PanStep)
	switch ev.Key() {
	case tcell.KeyEscape:
		return true
	case tcell.KeyCtrlR:
		h.redo()
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		h.engine.DeleteSelected()
	case tcell.KeyLeft:
		h.engine.PanBy(geometry.Pt(step*h.cfg.CellWidth, 0))
	case tcell.KeyRight:
		h.engine.PanBy(geometry.Pt(-step*h.cfg.CellWidth, 0))
	case tcell.KeyUp:
		h.engine.PanBy(geometry.Pt(0, step*h.cfg.CellHeight))
	case tcell.KeyDown:
		h.engine.PanBy(geometry.Pt(0, -step*h.cfg.CellHeight))
	case tcell.KeyRune:
		r := ev.Rune()
		if tool, ok := toolKeys[r]; ok {
			if h.engine.SetTool(tool) {
				h.status = "tool: " + tool.String()
			}
			return false
		}
		switch r {
		case 'q':
			return true
		case 'x':
			h.engine.DeleteSelected()
		case 'u':
			if !h.engine.Undo() {
				h.status = "nothing to undo"
			}
		case 'U':
			h.redo()
		case 'f':
			h.startJump()
		case '?':
			h.mode = modeHelp
		case '0':
			h.engine.ResetView()
		case '+', '=':
			h.engine.ZoomAt(interact.WheelStep, h.centre())
		case '-':
			h.engine.ZoomAt(1/interact.WheelStep, h.centre())
		}
	}
	return false
}

func (h *Host) redo() {
	if !h.engine.Redo() {
		h.status = "nothing to redo"
	}
}

func (h *Host) centre() geometry.Point {
	w, ht := h.surface.Size()
	return geometry.Pt(w/2, ht/2)
}

// draw copies the board grid to the screen and writes the status line.
func (h *Host) draw() {
	h.screen.Clear()
	cols, rows := h.surface.Grid.Size()
	for y := range rows {
		for x := range cols {
			c := h.surface.Get(x, y)
			if c.Rune == 0 {
				continue
			}
			h.screen.SetContent(x, y, h.charset.Rune(c.Rune), nil, cellStyle(c))
		}
	}
	switch h.mode {
	case modeJump:
		h.drawLabels()
	case modeHelp:
		h.drawHelp()
	}
	h.drawStatus(rows)
	h.screen.Show()
}

func (h *Host) drawStatus(row int) {
	m := h.engine.Model()
	line := fmt.Sprintf(" %s | zoom %d%% | nodes %d", h.engine.Controller().Tool(),
		int(math.Round(h.engine.View().Zoom()*100)), m.Len())
	if n := m.Pending(); n > 0 {
		line += fmt.Sprintf(" | saving %d", n)
	}
	if h.status != "" {
		line += " | " + h.status
	}
	style := tcell.StyleDefault.Reverse(true)
	w, _ := h.screen.Size()
	x := 0
	for _, r := range line {
		if x >= w {
			break
		}
		h.screen.SetContent(x, row, r, nil, style)
		x++
	}
	for ; x < w; x++ {
		h.screen.SetContent(x, row, ' ', nil, style)
	}
}

func cellStyle(c canvas.Cell) tcell.Style {
	st := tcell.StyleDefault
	if c.FG != "" {
		st = st.Foreground(tcell.GetColor(c.FG))
	}
	if c.BG != "" {
		st = st.Background(tcell.GetColor(c.BG))
	}
	return st.Bold(c.Bold)
}
