package main

import (
	"image/color"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/pvzcore/pkg/config"
	"github.com/decker502/pvzcore/pkg/driver"
	"github.com/decker502/pvzcore/pkg/render"
	"github.com/decker502/pvzcore/pkg/session"
	"github.com/decker502/pvzcore/pkg/types"
)

// 终端布局（字符单位）
const (
	cellCols = 7 // 每个格子的字符宽度
	cellRows = 2 // 每个格子的字符高度
	gridX    = 2 // 草坪左上角
	gridY    = 3

	frameInterval = 16 * time.Millisecond // ~60 FPS
)

var (
	styleDefault = tcell.StyleDefault
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleHouse   = tcell.StyleDefault.Foreground(toTCell(render.ColorHouseLine))
	styleMessage = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
)

// Term 终端版驱动
// 事件循环与 Pump 在同一个 goroutine 中执行
type Term struct {
	screen     tcell.Screen
	runtime    *driver.Runtime
	controller *driver.Controller

	cursorRow, cursorCol int
	mouseDown            bool
}

// NewTerm 初始化终端
func NewTerm(rt *driver.Runtime) (*Term, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return newTerm(screen, rt), nil
}

func newTerm(screen tcell.Screen, rt *driver.Runtime) *Term {
	screen.EnableMouse()
	screen.HideCursor()
	return &Term{
		screen:     screen,
		runtime:    rt,
		controller: driver.NewController(rt.Session),
	}
}

// Close 恢复终端
func (t *Term) Close() {
	t.screen.Fini()
}

// Run 运行事件循环，直到玩家退出
func (t *Term) Run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				// 屏幕已关闭
				return
			}
			eventChan <- ev
		}
	}()

	t.draw()
	for {
		select {
		case ev := <-eventChan:
			if !t.handleEvent(ev) {
				log.Printf("[Term] Quit requested")
				return
			}
		case <-ticker.C:
			t.runtime.Tick()
			t.draw()
		}
	}
}

// handleEvent 处理输入事件，返回 false 表示退出
func (t *Term) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return t.handleKey(ev)
	case *tcell.EventMouse:
		t.handleMouse(ev)
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

func (t *Term) handleKey(ev *tcell.EventKey) bool {
	c := t.controller

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyF2:
		c.Restart()
	case tcell.KeyEnter:
		_ = c.Confirm()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		c.Backspace()
	case tcell.KeyUp:
		t.moveCursor(-1, 0)
	case tcell.KeyDown:
		t.moveCursor(1, 0)
	case tcell.KeyLeft:
		t.moveCursor(0, -1)
	case tcell.KeyRight:
		t.moveCursor(0, 1)
	case tcell.KeyRune:
		r := ev.Rune()
		switch {
		case c.AcceptingName():
			c.TypeRune(r)
		case r == ' ':
			_ = c.ActOnCell(t.cursorRow, t.cursorCol)
		case r == 's' || r == 'S':
			c.ToggleShovel()
		default:
			c.SelectByKey(r)
		}
	}
	return true
}

// handleMouse 左键按下时对格子执行操作，并把光标移到该格子
func (t *Term) handleMouse(ev *tcell.EventMouse) {
	pressed := ev.Buttons()&tcell.Button1 != 0
	if pressed && !t.mouseDown {
		x, y := ev.Position()
		if row, col, ok := cellAtScreen(x, y); ok {
			t.cursorRow, t.cursorCol = row, col
			_ = t.controller.ActOnCell(row, col)
		}
	}
	t.mouseDown = pressed
}

// moveCursor 移动光标，限制在草坪内
func (t *Term) moveCursor(dRow, dCol int) {
	row, col := t.cursorRow+dRow, t.cursorCol+dCol
	if config.IsValidCell(row, col) {
		t.cursorRow, t.cursorCol = row, col
	}
}

// cellScreenPos 格子左上角的屏幕坐标
func cellScreenPos(row, col int) (int, int) {
	return gridX + col*cellCols, gridY + row*cellRows
}

// cellAtScreen 屏幕坐标所在的格子
func cellAtScreen(x, y int) (row, col int, ok bool) {
	if x < gridX || y < gridY {
		return 0, 0, false
	}
	row, col = (y-gridY)/cellRows, (x-gridX)/cellCols
	return row, col, config.IsValidCell(row, col)
}

// worldToScreenX 世界 X 坐标转换为屏幕列，超出草坪时贴边
func worldToScreenX(x float64) int {
	sx := gridX + int(x/config.CellWidth*cellCols)
	if sx < gridX {
		return gridX
	}
	if maxX := gridX + config.GridColumns*cellCols - 1; sx > maxX {
		return maxX
	}
	return sx
}

func toTCell(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// zombieRune 僵尸的字符标记
func zombieRune(z session.ZombieView) rune {
	if z.Armor > 0 {
		switch z.Type {
		case types.ZombieConehead:
			return 'C'
		case types.ZombieBuckethead:
			return 'B'
		}
	}
	return 'Z'
}

func (t *Term) draw() {
	snap := t.runtime.Session.Snapshot()
	t.screen.Clear()

	t.drawText(0, 0, render.StatusLine(&snap), styleHUD)
	t.drawText(0, 1, t.controller.SeedBar(&snap), styleDefault)

	t.drawLawn()

	for _, p := range snap.Plants {
		x, y := cellScreenPos(p.Row, p.Col)
		style := tcell.StyleDefault.Foreground(toTCell(render.PlantColor(p.Type))).Background(t.lawnColor(p.Row, p.Col)).Bold(true)
		t.drawText(x+1, y, render.PlantLabel(p.Type), style)
	}

	for _, s := range snap.Suns {
		x, y := cellScreenPos(s.Row, s.Col)
		style := tcell.StyleDefault.Foreground(toTCell(render.ColorSun)).Background(t.lawnColor(s.Row, s.Col)).Bold(true)
		t.screen.SetContent(x+cellCols-2, y, '*', nil, style)
	}

	for _, p := range snap.Projectiles {
		sx := worldToScreenX(p.X)
		_, y := cellScreenPos(p.Row, 0)
		clr := render.ColorPea
		if p.Enhanced {
			clr = render.ColorPeaEnhanced
		}
		row, col, _ := cellAtScreen(sx, y)
		t.screen.SetContent(sx, y, 'o', nil, tcell.StyleDefault.Foreground(toTCell(clr)).Background(t.lawnColor(row, col)))
	}

	for _, z := range snap.Zombies {
		sx := worldToScreenX(z.X)
		_, y := cellScreenPos(z.Row, 0)
		row, col, _ := cellAtScreen(sx, y+1)
		style := tcell.StyleDefault.Foreground(toTCell(render.ZombieColor(z.Type))).Background(t.lawnColor(row, col)).Bold(true)
		if z.Engaged {
			style = style.Reverse(true)
		}
		t.screen.SetContent(sx, y+1, zombieRune(z), nil, style)
	}

	// 光标
	x, y := cellScreenPos(t.cursorRow, t.cursorCol)
	t.screen.SetContent(x, y, '[', nil, styleMessage)
	t.screen.SetContent(x+cellCols-1, y+cellRows-1, ']', nil, styleMessage)

	bottom := gridY + config.GridRows*cellRows + 1
	if overlay := render.OverlayText(&snap); overlay != "" {
		t.drawText(0, bottom, overlay, styleMessage)
		if t.controller.AcceptingName() {
			t.drawText(0, bottom+1, "Name: "+t.controller.NameInput()+"_", styleHUD)
		}
	}
	t.drawLeaderboard(&snap, bottom+3)

	t.screen.Show()
}

// drawLawn 棋盘格草坪与房子边界
func (t *Term) drawLawn() {
	for row := 0; row < config.GridRows; row++ {
		for col := 0; col < config.GridColumns; col++ {
			x, y := cellScreenPos(row, col)
			style := tcell.StyleDefault.Background(t.lawnColor(row, col))
			for dy := 0; dy < cellRows; dy++ {
				for dx := 0; dx < cellCols; dx++ {
					t.screen.SetContent(x+dx, y+dy, ' ', nil, style)
				}
			}
		}
		_, y := cellScreenPos(row, 0)
		for dy := 0; dy < cellRows; dy++ {
			t.screen.SetContent(gridX-1, y+dy, '|', nil, styleHouse)
		}
	}
}

func (t *Term) lawnColor(row, col int) tcell.Color {
	if (row+col)%2 == 0 {
		return toTCell(render.ColorLawnLight)
	}
	return toTCell(render.ColorLawnDark)
}

func (t *Term) drawLeaderboard(snap *session.Snapshot, y int) {
	if len(snap.Leaderboard) == 0 {
		return
	}
	t.drawText(0, y, "Top scores", styleHUD)
	for i, e := range snap.Leaderboard {
		line := render.LeaderboardLine(i+1, e)
		t.drawText(2, y+1+i, line, styleDefault)
	}
}

func (t *Term) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
