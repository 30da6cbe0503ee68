package demo

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []tcell.Event
	full   int
}

func (r *recorder) PostEvent(ev tcell.Event) error {
	if r.full > 0 {
		r.full--
		return tcell.ErrEventQFull
	}
	r.events = append(r.events, ev)
	return nil
}

func instant(p *Player) *Player {
	p.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return p
}

func TestParseExample(t *testing.T) {
	s, err := Parse([]byte(Example))
	require.NoError(t, err)
	assert.Equal(t, "sketch", s.Name)
	assert.Equal(t, 300*time.Millisecond, s.Delay)
	require.Len(t, s.Steps, 8)
	assert.Equal(t, Cell{X: 24, Y: 9}, s.Steps[1].Drag.To)
	assert.Equal(t, time.Second, s.Steps[6].Pause)
}

func TestParseRejectsAmbiguousSteps(t *testing.T) {
	_, err := Parse([]byte("steps:\n  - key: r\n    click: {x: 1, y: 1}\n"))
	assert.Error(t, err)
	_, err = Parse([]byte("steps:\n  - key: F13\n"))
	assert.Error(t, err)
	_, err = Parse([]byte("steps:\n  - {}\n"))
	assert.Error(t, err)
}

func TestPlayDrag(t *testing.T) {
	rec := &recorder{}
	s := &Script{Steps: []Step{
		{Key: "r"},
		{Drag: &Drag{From: Cell{X: 2, Y: 2}, To: Cell{X: 10, Y: 6}, Steps: 2}},
	}}
	require.NoError(t, instant(NewPlayer(rec)).Play(context.Background(), s))

	require.Len(t, rec.events, 5)
	key := rec.events[0].(*tcell.EventKey)
	assert.Equal(t, 'r', key.Rune())

	type mouse struct {
		x, y int
		b    tcell.ButtonMask
	}
	var got []mouse
	for _, ev := range rec.events[1:] {
		m := ev.(*tcell.EventMouse)
		x, y := m.Position()
		got = append(got, mouse{x, y, m.Buttons()})
	}
	assert.Equal(t, []mouse{
		{2, 2, tcell.Button1},
		{6, 4, tcell.Button1},
		{10, 6, tcell.Button1},
		{10, 6, tcell.ButtonNone},
	}, got)
}

func TestPlayRetriesFullQueue(t *testing.T) {
	rec := &recorder{full: 3}
	s := &Script{Steps: []Step{{Key: "Esc"}}}
	require.NoError(t, instant(NewPlayer(rec)).Play(context.Background(), s))
	require.Len(t, rec.events, 1)
	assert.Equal(t, tcell.KeyEscape, rec.events[0].(*tcell.EventKey).Key())
}

func TestPlayWheelAndDoubleClick(t *testing.T) {
	rec := &recorder{}
	s := &Script{Steps: []Step{
		{Wheel: &Wheel{At: Cell{X: 1, Y: 1}, Notches: -2}},
		{DoubleClick: &Cell{X: 3, Y: 3}},
	}}
	require.NoError(t, instant(NewPlayer(rec)).Play(context.Background(), s))
	require.Len(t, rec.events, 6)
	assert.Equal(t, tcell.WheelDown, rec.events[0].(*tcell.EventMouse).Buttons())
	assert.Equal(t, tcell.WheelDown, rec.events[1].(*tcell.EventMouse).Buttons())
	assert.Equal(t, tcell.Button1, rec.events[2].(*tcell.EventMouse).Buttons())
	assert.Equal(t, tcell.Button1, rec.events[4].(*tcell.EventMouse).Buttons())
}

func TestPlayStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &recorder{}
	err := NewPlayer(rec).Play(ctx, &Script{Delay: time.Hour, Steps: []Step{{Key: "a"}, {Key: "b"}}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, rec.events, 1)
}

func TestDelayVariance(t *testing.T) {
	p := NewPlayer(&recorder{})
	s := &Script{Delay: 100 * time.Millisecond, Variance: 20 * time.Millisecond}
	for range 50 {
		d := p.delay(s, Step{})
		assert.GreaterOrEqual(t, d, 80*time.Millisecond)
		assert.Less(t, d, 120*time.Millisecond)
	}
	assert.Equal(t, 5*time.Millisecond, p.delay(&Script{}, Step{Delay: 5 * time.Millisecond}))
}
