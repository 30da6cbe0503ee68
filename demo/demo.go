// Package demo replays scripted keyboard and mouse input into a terminal
// screen, for recordings and smoke tests of the board.
package demo

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"gopkg.in/yaml.v3"
)

// Step is one scripted action. Exactly one of the action fields is set.
type Step struct {
	// Key is a rune ("r") or a key name ("Esc", "Left", "Delete").
	Key   string `yaml:"key,omitempty"`
	Click *Cell  `yaml:"click,omitempty"`
	// DoubleClick sends two clicks on the same cell.
	DoubleClick *Cell  `yaml:"double_click,omitempty"`
	Drag        *Drag  `yaml:"drag,omitempty"`
	Wheel       *Wheel `yaml:"wheel,omitempty"`
	// Pause only waits.
	Pause time.Duration `yaml:"pause,omitempty"`
	// Delay overrides the script delay after this step.
	Delay time.Duration `yaml:"delay,omitempty"`
}

// Cell is a terminal column and row.
type Cell struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Drag presses at From, moves to To in Steps moves and releases.
type Drag struct {
	From  Cell `yaml:"from"`
	To    Cell `yaml:"to"`
	Steps int  `yaml:"steps,omitempty"`
}

// Wheel scrolls at a cell; positive notches zoom in.
type Wheel struct {
	At      Cell `yaml:"at"`
	Notches int  `yaml:"notches"`
}

// Script is a named list of steps.
type Script struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Delay       time.Duration `yaml:"delay,omitempty"`
	Variance    time.Duration `yaml:"variance,omitempty"`
	Steps       []Step        `yaml:"steps"`
}

// Load reads a YAML script.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read demo script: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML script and checks every step.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse demo script: %w", err)
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

func (st Step) validate() error {
	actions := 0
	if st.Key != "" {
		if _, _, ok := parseKey(st.Key); !ok {
			return fmt.Errorf("unknown key %q", st.Key)
		}
		actions++
	}
	for _, set := range []bool{st.Click != nil, st.DoubleClick != nil, st.Drag != nil, st.Wheel != nil, st.Pause > 0} {
		if set {
			actions++
		}
	}
	if actions != 1 {
		return fmt.Errorf("want exactly one action, got %d", actions)
	}
	return nil
}

var namedKeys = map[string]tcell.Key{
	"Esc":       tcell.KeyEscape,
	"Enter":     tcell.KeyEnter,
	"Tab":       tcell.KeyTab,
	"Backspace": tcell.KeyBackspace2,
	"Delete":    tcell.KeyDelete,
	"Up":        tcell.KeyUp,
	"Down":      tcell.KeyDown,
	"Left":      tcell.KeyLeft,
	"Right":     tcell.KeyRight,
	"Ctrl-C":    tcell.KeyCtrlC,
}

func parseKey(s string) (tcell.Key, rune, bool) {
	if k, ok := namedKeys[s]; ok {
		return k, 0, true
	}
	if r := []rune(s); len(r) == 1 {
		return tcell.KeyRune, r[0], true
	}
	return 0, 0, false
}

// Poster receives events; tcell.Screen satisfies it.
type Poster interface {
	PostEvent(ev tcell.Event) error
}

// Player posts a script's events to a screen.
type Player struct {
	screen Poster
	rng    *rand.Rand
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewPlayer creates a player for screen.
func NewPlayer(screen Poster) *Player {
	return &Player{
		screen: screen,
		rng:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		sleep:  sleep,
	}
}

// Play sends every step in order, waiting the script delay (plus or minus
// the variance) after each. It stops early when ctx ends.
func (p *Player) Play(ctx context.Context, s *Script) error {
	for i, st := range s.Steps {
		if err := p.step(ctx, st); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		wait := st.Pause
		if wait == 0 {
			wait = p.delay(s, st)
		}
		if err := p.sleep(ctx, wait); err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) delay(s *Script, st Step) time.Duration {
	d := s.Delay
	if st.Delay > 0 {
		d = st.Delay
	}
	if s.Variance > 0 {
		d += time.Duration(p.rng.Int64N(int64(2*s.Variance))) - s.Variance
	}
	return max(d, 0)
}

func (p *Player) step(ctx context.Context, st Step) error {
	switch {
	case st.Key != "":
		k, r, _ := parseKey(st.Key)
		return p.post(ctx, tcell.NewEventKey(k, r, tcell.ModNone))
	case st.Click != nil:
		return p.click(ctx, *st.Click)
	case st.DoubleClick != nil:
		if err := p.click(ctx, *st.DoubleClick); err != nil {
			return err
		}
		return p.click(ctx, *st.DoubleClick)
	case st.Drag != nil:
		return p.drag(ctx, *st.Drag)
	case st.Wheel != nil:
		button := tcell.WheelUp
		n := st.Wheel.Notches
		if n < 0 {
			button, n = tcell.WheelDown, -n
		}
		for range n {
			if err := p.mouse(ctx, st.Wheel.At, button); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Player) click(ctx context.Context, c Cell) error {
	if err := p.mouse(ctx, c, tcell.Button1); err != nil {
		return err
	}
	return p.mouse(ctx, c, tcell.ButtonNone)
}

func (p *Player) drag(ctx context.Context, d Drag) error {
	steps := max(d.Steps, 1)
	if err := p.mouse(ctx, d.From, tcell.Button1); err != nil {
		return err
	}
	for i := 1; i <= steps; i++ {
		c := Cell{
			X: d.From.X + (d.To.X-d.From.X)*i/steps,
			Y: d.From.Y + (d.To.Y-d.From.Y)*i/steps,
		}
		if err := p.mouse(ctx, c, tcell.Button1); err != nil {
			return err
		}
	}
	return p.mouse(ctx, d.To, tcell.ButtonNone)
}

func (p *Player) mouse(ctx context.Context, c Cell, b tcell.ButtonMask) error {
	return p.post(ctx, tcell.NewEventMouse(c.X, c.Y, b, tcell.ModNone))
}

// post retries while the screen's event queue is full.
func (p *Player) post(ctx context.Context, ev tcell.Event) error {
	for {
		err := p.screen.PostEvent(ev)
		if !errors.Is(err, tcell.ErrEventQFull) {
			return err
		}
		if err := p.sleep(ctx, 5*time.Millisecond); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Example is a script that sketches a rectangle and a pen stroke.
const Example = `name: sketch
description: Draw a rectangle and a pen stroke, then quit
delay: 300ms
variance: 100ms
steps:
  - key: r
  - drag: {from: {x: 4, y: 3}, to: {x: 24, y: 9}, steps: 5}
  - key: p
  - drag: {from: {x: 30, y: 4}, to: {x: 50, y: 12}, steps: 8}
  - key: s
  - wheel: {at: {x: 40, y: 10}, notches: 2}
  - pause: 1s
  - key: q
`
