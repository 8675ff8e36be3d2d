package app

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/pvzcore/pkg/config"
	"github.com/decker502/pvzcore/pkg/driver"
	"github.com/decker502/pvzcore/pkg/render"
	"github.com/decker502/pvzcore/pkg/session"
)

// debugGlyphWidth ebitenutil 调试字体的字符宽度
const debugGlyphWidth = 6

// drawScene 以平面图形绘制快照，布局与配色与 PNG 观察画面一致
func drawScene(screen *ebiten.Image, snap *session.Snapshot, l render.Layout, c *driver.Controller) {
	screen.Fill(render.ColorBackground)

	for row := 0; row < config.GridRows; row++ {
		for col := 0; col < config.GridColumns; col++ {
			x, y, w, h := l.CellRect(row, col)
			clr := render.ColorLawnDark
			if (row+col)%2 == 0 {
				clr = render.ColorLawnLight
			}
			fillRect(screen, render.Rect{X: x, Y: y, W: w, H: h}, clr)
		}
	}
	fillRect(screen, render.Rect{X: 0, Y: l.LawnTop(), W: 3, H: float64(l.Height()) - l.LawnTop()}, render.ColorHouseLine)

	for _, p := range snap.Plants {
		r := l.PlantRect(p)
		fillRect(screen, r, render.PlantColor(p.Type))
		label := render.PlantLabel(p.Type)
		ebitenutil.DebugPrintAt(screen, label, int(r.X+r.W/2)-debugGlyphWidth/2, int(r.Y+r.H/2)-8)
		if p.Health < p.MaxHealth {
			drawHealthBar(screen, r, p.HealthRatio(), l.Scale)
		}
	}

	for _, z := range snap.Zombies {
		r := l.ZombieRect(z)
		fillRect(screen, r, render.ZombieColor(z.Type))
		top := r
		if acc, ok := l.AccessoryRect(z); ok {
			fillRect(screen, acc, render.AccessoryColor(z.Type))
			top = acc
		}
		drawHealthBar(screen, top, z.HealthRatio(), l.Scale)
	}

	for _, p := range snap.Projectiles {
		clr := render.ColorPea
		if p.Enhanced {
			clr = render.ColorPeaEnhanced
		}
		fillCircle(screen, l.ProjectileCircle(p), clr)
	}

	for _, s := range snap.Suns {
		fillCircle(screen, l.SunCircle(s), render.ColorSun)
	}

	drawHUD(screen, snap, l, c)

	if text := render.OverlayText(snap); text != "" {
		width, height := float64(l.Width()), float64(l.Height())
		fillRect(screen, render.Rect{X: 0, Y: l.LawnTop(), W: width, H: height - l.LawnTop()}, render.ColorOverlay)
		cy := int((height + l.LawnTop()) / 2)
		ebitenutil.DebugPrintAt(screen, text, int(width/2)-len(text)*debugGlyphWidth/2, cy-8)
		if c.AcceptingName() {
			prompt := "Name: " + c.NameInput() + "_"
			ebitenutil.DebugPrintAt(screen, prompt, int(width/2)-len(prompt)*debugGlyphWidth/2, cy+12)
		}
		for i, e := range snap.Leaderboard {
			ebitenutil.DebugPrintAt(screen, render.LeaderboardLine(i+1, e), 16, int(l.LawnTop())+8+i*16)
		}
	}
}

// drawHUD 第一行是对局状态，第二行是植物卡片（选中项加方括号）
func drawHUD(screen *ebiten.Image, snap *session.Snapshot, l render.Layout, c *driver.Controller) {
	fillRect(screen, render.Rect{X: 0, Y: 0, W: float64(l.Width()), H: l.HUDHeight}, render.ColorHUD)
	ebitenutil.DebugPrintAt(screen, render.StatusLine(snap), 8, 4)

	ebitenutil.DebugPrintAt(screen, c.SeedBar(snap), 8, 24)
}

func fillRect(dst *ebiten.Image, r render.Rect, clr color.Color) {
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), clr, false)
}

func fillCircle(dst *ebiten.Image, c render.Circle, clr color.Color) {
	vector.DrawFilledCircle(dst, float32(c.X), float32(c.Y), float32(c.R), clr, true)
}

func drawHealthBar(dst *ebiten.Image, above render.Rect, ratio, scale float64) {
	back, fill := render.HealthBar(above, ratio, scale)
	fillRect(dst, back, render.ColorHealthBack)
	fillRect(dst, fill, render.ColorHealth)
}
