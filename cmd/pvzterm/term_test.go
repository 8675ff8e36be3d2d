package main

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/pvzcore/pkg/clock"
	"github.com/decker502/pvzcore/pkg/config"
	"github.com/decker502/pvzcore/pkg/driver"
	"github.com/decker502/pvzcore/pkg/metrics"
	"github.com/decker502/pvzcore/pkg/session"
	"github.com/decker502/pvzcore/pkg/types"
)

// newTestTerm 使用模拟屏幕和手动时钟创建终端驱动
func newTestTerm(t *testing.T) (*Term, tcell.SimulationScreen) {
	t.Helper()

	cfg := config.DefaultGameConfig()
	cfg.Spawn.SpawnChance = 0
	s, err := session.New(session.Options{
		Config: cfg,
		Clock:  clock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		Rand:   rand.New(rand.NewPCG(5, 6)),
	})
	if err != nil {
		t.Fatalf("session.New error = %v", err)
	}

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init error = %v", err)
	}
	screen.SetSize(80, 30)
	t.Cleanup(screen.Fini)

	rt := &driver.Runtime{Session: s, Metrics: metrics.New()}
	return newTerm(screen, rt), screen
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func rowText(screen tcell.Screen, y, width int) string {
	var b strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestCellAtScreen(t *testing.T) {
	for _, cell := range [][2]int{{0, 0}, {2, 4}, {4, 8}} {
		x, y := cellScreenPos(cell[0], cell[1])
		// 格子内任意位置都映射到同一个格子
		for _, off := range [][2]int{{0, 0}, {cellCols - 1, cellRows - 1}} {
			row, col, ok := cellAtScreen(x+off[0], y+off[1])
			if !ok || row != cell[0] || col != cell[1] {
				t.Errorf("cellAtScreen(%d, %d) = (%d, %d, %v), want %v", x+off[0], y+off[1], row, col, ok, cell)
			}
		}
	}

	outside := [][2]int{{0, 0}, {gridX - 1, gridY}, {gridX, gridY - 1}, {gridX + config.GridColumns*cellCols, gridY}}
	for _, p := range outside {
		if _, _, ok := cellAtScreen(p[0], p[1]); ok {
			t.Errorf("cellAtScreen(%d, %d) should be outside the lawn", p[0], p[1])
		}
	}
}

func TestWorldToScreenX(t *testing.T) {
	tests := []struct {
		x    float64
		want int
	}{
		{0, gridX},
		{-10, gridX},
		{config.CellWidth, gridX + cellCols},
		{config.LawnFarEdgeX + 100, gridX + config.GridColumns*cellCols - 1},
	}
	for _, tt := range tests {
		if got := worldToScreenX(tt.x); got != tt.want {
			t.Errorf("worldToScreenX(%v) = %d, want %d", tt.x, got, tt.want)
		}
	}
}

func TestHandleKeys(t *testing.T) {
	term, _ := newTestTerm(t)
	s := term.runtime.Session

	term.handleEvent(key(tcell.KeyEnter))
	if s.State() != types.SessionRunning {
		t.Fatalf("state = %v, want running", s.State())
	}

	// 光标不能移出草坪
	term.handleEvent(key(tcell.KeyUp))
	term.handleEvent(key(tcell.KeyLeft))
	if term.cursorRow != 0 || term.cursorCol != 0 {
		t.Errorf("cursor = (%d, %d), want (0, 0)", term.cursorRow, term.cursorCol)
	}

	term.handleEvent(key(tcell.KeyDown))
	term.handleEvent(key(tcell.KeyRight))
	term.handleEvent(key(tcell.KeyRight))
	term.handleEvent(runeKey('2'))
	term.handleEvent(runeKey(' '))

	snap := s.Snapshot()
	if p, ok := snap.PlantAt(1, 2); !ok || p.Type != types.PlantPeashooter {
		t.Fatalf("plant at (1, 2) = %+v, %v", p, ok)
	}

	term.handleEvent(runeKey('s'))
	if !term.controller.ShovelActive() {
		t.Error("S should toggle the shovel")
	}
	term.handleEvent(runeKey(' '))
	snap = s.Snapshot()
	if _, ok := snap.PlantAt(1, 2); ok {
		t.Error("shovel should remove the plant")
	}

	if term.handleEvent(key(tcell.KeyEscape)) {
		t.Error("ESC should quit")
	}
}

func TestHandleMouse(t *testing.T) {
	term, _ := newTestTerm(t)
	term.handleEvent(key(tcell.KeyEnter))

	x, y := cellScreenPos(3, 5)
	term.handleEvent(tcell.NewEventMouse(x+2, y+1, tcell.Button1, tcell.ModNone))
	// 按住不放不会重复操作
	term.handleEvent(tcell.NewEventMouse(x+2, y+1, tcell.Button1, tcell.ModNone))
	term.handleEvent(tcell.NewEventMouse(x+2, y+1, tcell.ButtonNone, tcell.ModNone))

	snap := term.runtime.Session.Snapshot()
	if len(snap.Plants) != 1 || snap.Plants[0].Row != 3 || snap.Plants[0].Col != 5 {
		t.Errorf("plants = %+v, want one at (3, 5)", snap.Plants)
	}
	if snap.Sun != 100 {
		t.Errorf("sun = %d, want 100", snap.Sun)
	}
	if term.cursorRow != 3 || term.cursorCol != 5 {
		t.Errorf("cursor = (%d, %d), want (3, 5)", term.cursorRow, term.cursorCol)
	}
}

func TestDraw(t *testing.T) {
	term, screen := newTestTerm(t)

	term.draw()
	bottom := gridY + config.GridRows*cellRows + 1
	if got := rowText(screen, bottom, 80); !strings.Contains(got, "Press ENTER to start") {
		t.Errorf("overlay row = %q", got)
	}

	term.handleEvent(key(tcell.KeyEnter))
	term.handleEvent(runeKey('3'))
	term.handleEvent(runeKey(' '))
	term.draw()

	if got := rowText(screen, 0, 80); !strings.HasPrefix(got, "Sun 100") {
		t.Errorf("status row = %q", got)
	}
	if got := rowText(screen, 1, 80); !strings.Contains(got, "[3 wallnut 50 (30s)]") {
		t.Errorf("seed bar row = %q", got)
	}

	x, y := cellScreenPos(0, 0)
	if r, _, _, _ := screen.GetContent(x+1, y); r != 'W' {
		t.Errorf("plant label = %q, want W", r)
	}
	if r, _, _, _ := screen.GetContent(gridX-1, y); r != '|' {
		t.Errorf("house line = %q, want |", r)
	}
}

func TestSoundHooksWithoutSpeaker(t *testing.T) {
	// 未初始化的扬声器不播放也不崩溃
	var muted *Sound
	hooks := muted.Hooks()
	hooks.ZombieKilled(types.ZombieBasic)
	muted.Close()

	silent := &Sound{}
	hooks = silent.Hooks()
	hooks.ZombieKilled(types.ZombieBasic)
	hooks.GameEnded(10, time.Second)
	silent.Close()
}
