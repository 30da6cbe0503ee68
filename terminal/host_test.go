package terminal_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"graphboard/demo"
	"graphboard/engine"
	"graphboard/geometry"
	"graphboard/graph"
	"graphboard/model"
	"graphboard/store"
	"graphboard/terminal"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	screen tcell.SimulationScreen
	host   *terminal.Host
	engine *engine.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, terminal.DefaultConfig())
}

func newFixtureWith(t *testing.T, cfg terminal.Config) *fixture {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 25)

	host := terminal.NewHost(screen, cfg, nil)
	m := model.New(store.NewMemory(), model.Options{Wake: host.Wake})
	surface, err := host.Surface()
	require.NoError(t, err)
	e := engine.New(m, surface, engine.Options{DefaultKind: graph.KindRect})
	require.NoError(t, e.Load(context.Background()))
	return &fixture{screen: screen, host: host, engine: e}
}

// run replays the injected events and returns once the host quits.
func (f *fixture) run(t *testing.T) {
	t.Helper()
	f.screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.host.Run(ctx, f.engine))
	require.NoError(t, f.engine.Settle(ctx))
}

func (f *fixture) row(y int) string {
	cells, w, _ := f.screen.GetContents()
	var sb strings.Builder
	for x := range w {
		sb.WriteString(string(cells[y*w+x].Runes))
	}
	return sb.String()
}

func TestDrawRectWithMouse(t *testing.T) {
	f := newFixture(t)
	f.screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	f.screen.InjectMouse(2, 2, tcell.Button1, tcell.ModNone)
	f.screen.InjectMouse(7, 4, tcell.Button1, tcell.ModNone)
	f.screen.InjectMouse(12, 6, tcell.Button1, tcell.ModNone)
	f.screen.InjectMouse(12, 6, tcell.ButtonNone, tcell.ModNone)
	f.run(t)

	nodes := f.engine.Model().Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, graph.KindRect, nodes[0].Kind)
	// Cell centres: (2,2) -> (20,40), (12,6) -> (100,104).
	assert.Equal(t, geometry.R(20, 40, 80, 64), nodes[0].Content.Bounds())
}

func TestStatusLine(t *testing.T) {
	f := newFixture(t)
	f.screen.InjectKey(tcell.KeyRune, 'p', tcell.ModNone)
	f.screen.InjectKey(tcell.KeyRune, '+', tcell.ModNone)
	f.screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	f.run(t)

	status := f.row(24)
	assert.Contains(t, status, "pen")
	assert.Contains(t, status, "zoom 110%")
	assert.Contains(t, status, "nodes 0")
}

func TestKeysPanAndReset(t *testing.T) {
	f := newFixture(t)
	f.screen.InjectKey(tcell.KeyLeft, 0, tcell.ModNone)
	f.run(t)
	assert.Equal(t, geometry.Pt(32, 0), f.engine.View().Pan())

	f.screen.InjectKey(tcell.KeyRune, '0', tcell.ModNone)
	f.run(t)
	assert.Equal(t, geometry.Point{}, f.engine.View().Pan())
}

func TestDoubleClickCreatesNode(t *testing.T) {
	f := newFixture(t)
	f.screen.InjectMouse(30, 10, tcell.Button1, tcell.ModNone)
	f.screen.InjectMouse(30, 10, tcell.ButtonNone, tcell.ModNone)
	f.screen.InjectMouse(30, 10, tcell.Button1, tcell.ModNone)
	f.screen.InjectMouse(30, 10, tcell.ButtonNone, tcell.ModNone)
	f.run(t)

	assert.Equal(t, 1, f.engine.Model().Len())
}

func TestContextCancelStopsLoop(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := f.host.Run(ctx, f.engine)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestASCIICharset(t *testing.T) {
	cfg := terminal.DefaultConfig()
	cfg.Charset = "ascii"
	f := newFixtureWith(t, cfg)
	f.screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	f.screen.InjectMouse(2, 2, tcell.Button1, tcell.ModNone)
	f.screen.InjectMouse(12, 6, tcell.Button1, tcell.ModNone)
	f.screen.InjectMouse(12, 6, tcell.ButtonNone, tcell.ModNone)
	f.run(t)

	var board strings.Builder
	for y := range 24 {
		board.WriteString(f.row(y))
	}
	assert.Contains(t, f.row(2), "+")
	assert.NotContains(t, board.String(), "┌")
	assert.NotContains(t, board.String(), "━")
}

func TestDemoScriptDrivesBoard(t *testing.T) {
	f := newFixture(t)
	script, err := demo.Parse([]byte(`name: rect
steps:
  - key: r
  - drag: {from: {x: 2, y: 2}, to: {x: 12, y: 6}, steps: 2}
  - key: q
`))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	played := make(chan error, 1)
	go func() { played <- demo.NewPlayer(f.screen).Play(ctx, script) }()

	require.NoError(t, f.host.Run(ctx, f.engine))
	require.NoError(t, <-played)
	require.NoError(t, f.engine.Settle(ctx))

	nodes := f.engine.Model().Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, geometry.R(20, 40, 80, 64), nodes[0].Content.Bounds())
}

func (f *fixture) drawRect(t *testing.T) graph.Node {
	t.Helper()
	f.screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	f.screen.InjectMouse(2, 2, tcell.Button1, tcell.ModNone)
	f.screen.InjectMouse(12, 6, tcell.Button1, tcell.ModNone)
	f.screen.InjectMouse(12, 6, tcell.ButtonNone, tcell.ModNone)
	f.screen.InjectKey(tcell.KeyRune, 's', tcell.ModNone)
	f.run(t)
	nodes := f.engine.Model().Nodes()
	require.Len(t, nodes, 1)
	return nodes[0]
}

func TestUndoRedoKeys(t *testing.T) {
	f := newFixture(t)
	n := f.drawRect(t)

	f.screen.InjectMouse(4, 3, tcell.Button1, tcell.ModNone)
	f.screen.InjectMouse(4, 3, tcell.ButtonNone, tcell.ModNone)
	f.screen.InjectMouse(5, 4, tcell.Button1, tcell.ModNone)
	f.screen.InjectMouse(8, 4, tcell.Button1, tcell.ModNone)
	f.screen.InjectMouse(8, 4, tcell.ButtonNone, tcell.ModNone)
	f.run(t)
	moved, ok := f.engine.Model().Node(n.ID)
	require.True(t, ok)
	assert.Equal(t, geometry.R(44, 40, 80, 64), moved.Content.Bounds())

	f.screen.InjectKey(tcell.KeyRune, 'u', tcell.ModNone)
	f.run(t)
	undone, _ := f.engine.Model().Node(n.ID)
	assert.Equal(t, geometry.R(20, 40, 80, 64), undone.Content.Bounds())

	f.screen.InjectKey(tcell.KeyCtrlR, 0, tcell.ModNone)
	f.run(t)
	redone, _ := f.engine.Model().Node(n.ID)
	assert.Equal(t, geometry.R(44, 40, 80, 64), redone.Content.Bounds())
}

func TestUndoWithEmptyHistory(t *testing.T) {
	f := newFixture(t)
	f.screen.InjectKey(tcell.KeyRune, 'u', tcell.ModNone)
	f.run(t)
	assert.Equal(t, "nothing to undo", f.host.Status())
}

func TestJumpSelectsLabelledNode(t *testing.T) {
	f := newFixture(t)
	n := f.drawRect(t)
	f.engine.Select("")

	f.screen.InjectKey(tcell.KeyRune, 'f', tcell.ModNone)
	f.screen.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	f.run(t)
	assert.Equal(t, n.ID, f.engine.Model().Selected())
}

func TestJumpCancelledByEscape(t *testing.T) {
	f := newFixture(t)
	f.drawRect(t)
	f.engine.Select("")

	f.screen.InjectKey(tcell.KeyRune, 'f', tcell.ModNone)
	f.screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	f.run(t)
	assert.Empty(t, f.engine.Model().Selected())
}

func TestJumpWithEmptyBoard(t *testing.T) {
	f := newFixture(t)
	f.screen.InjectKey(tcell.KeyRune, 'f', tcell.ModNone)
	f.run(t)
	assert.Equal(t, "no nodes in view", f.host.Status())
}

func TestHelpOverlay(t *testing.T) {
	f := newFixture(t)
	f.screen.InjectKey(tcell.KeyRune, '?', tcell.ModNone)
	f.screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModNone)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.host.Run(ctx, f.engine))

	var screen strings.Builder
	for y := range 25 {
		screen.WriteString(f.row(y) + "\n")
	}
	assert.Contains(t, screen.String(), "show or hide this help")
	assert.Contains(t, screen.String(), "undo a move or resize")
}

func TestHelpClosesOnAnyKey(t *testing.T) {
	f := newFixture(t)
	f.screen.InjectKey(tcell.KeyRune, '?', tcell.ModNone)
	f.screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	f.run(t)

	// r only closed the help, so the tool is unchanged.
	assert.Contains(t, f.row(24), "select")
	assert.NotContains(t, f.row(5), "show or hide this help")
}

func TestHelpTextListsTools(t *testing.T) {
	text := terminal.HelpText()
	for _, action := range []string{"rectangle", "ellipse", "text box", "pen", "quit"} {
		assert.Contains(t, text, action)
	}
}
