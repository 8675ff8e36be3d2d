package render

import (
	"image"
	"io"

	"github.com/fogleman/gg"

	"github.com/decker502/pvzcore/pkg/config"
	"github.com/decker502/pvzcore/pkg/session"
)

// Frame 绘制一帧快照
func Frame(snap *session.Snapshot, layout Layout) image.Image {
	dc := gg.NewContext(layout.Width(), layout.Height())
	drawFrame(dc, snap, layout)
	return dc.Image()
}

// EncodePNG 绘制一帧快照并以 PNG 编码写入 w
func EncodePNG(w io.Writer, snap *session.Snapshot, layout Layout) error {
	dc := gg.NewContext(layout.Width(), layout.Height())
	drawFrame(dc, snap, layout)
	return dc.EncodePNG(w)
}

func drawFrame(dc *gg.Context, snap *session.Snapshot, l Layout) {
	width, height := float64(l.Width()), float64(l.Height())

	face := newFace(l.Scale)
	defer face.Close()
	dc.SetFontFace(face)

	dc.SetColor(ColorBackground)
	dc.DrawRectangle(0, 0, width, height)
	dc.Fill()

	drawLawn(dc, l)
	drawPlants(dc, snap, l)
	drawZombies(dc, snap, l)
	drawProjectiles(dc, snap, l)
	drawSuns(dc, snap, l)
	drawHUD(dc, snap, l)

	if text := OverlayText(snap); text != "" {
		dc.SetColor(ColorOverlay)
		dc.DrawRectangle(0, l.LawnTop(), width, height-l.LawnTop())
		dc.Fill()
		dc.SetColor(ColorHUDText)
		dc.DrawStringAnchored(text, width/2, (height+l.LawnTop())/2, 0.5, 0.5)
	}
}

// drawLawn 棋盘格草坪
func drawLawn(dc *gg.Context, l Layout) {
	for row := 0; row < config.GridRows; row++ {
		for col := 0; col < config.GridColumns; col++ {
			x, y, w, h := l.CellRect(row, col)
			if (row+col)%2 == 0 {
				dc.SetColor(ColorLawnLight)
			} else {
				dc.SetColor(ColorLawnDark)
			}
			dc.DrawRectangle(x, y, w, h)
			dc.Fill()
		}
	}

	// 房子边界
	dc.SetColor(ColorHouseLine)
	dc.SetLineWidth(3)
	dc.DrawLine(1, l.LawnTop(), 1, float64(l.Height()))
	dc.Stroke()
}

func drawPlants(dc *gg.Context, snap *session.Snapshot, l Layout) {
	for _, p := range snap.Plants {
		r := l.PlantRect(p)
		dc.SetColor(PlantColor(p.Type))
		dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, 8*l.Scale)
		dc.Fill()

		dc.SetColor(ColorHUDText)
		dc.DrawStringAnchored(PlantLabel(p.Type), r.X+r.W/2, r.Y+r.H/2, 0.5, 0.5)

		if p.Health < p.MaxHealth {
			drawHealthBar(dc, r, p.HealthRatio(), l.Scale)
		}
	}
}

func drawZombies(dc *gg.Context, snap *session.Snapshot, l Layout) {
	for _, z := range snap.Zombies {
		r := l.ZombieRect(z)
		dc.SetColor(ZombieColor(z.Type))
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
		dc.Fill()

		top := r
		if acc, ok := l.AccessoryRect(z); ok {
			dc.SetColor(AccessoryColor(z.Type))
			dc.DrawRectangle(acc.X, acc.Y, acc.W, acc.H)
			dc.Fill()
			top = acc
		}
		drawHealthBar(dc, top, z.HealthRatio(), l.Scale)
	}
}

func drawProjectiles(dc *gg.Context, snap *session.Snapshot, l Layout) {
	for _, p := range snap.Projectiles {
		c := l.ProjectileCircle(p)
		if p.Enhanced {
			dc.SetColor(ColorPeaEnhanced)
		} else {
			dc.SetColor(ColorPea)
		}
		dc.DrawCircle(c.X, c.Y, c.R)
		dc.Fill()
	}
}

func drawSuns(dc *gg.Context, snap *session.Snapshot, l Layout) {
	dc.SetColor(ColorSun)
	for _, s := range snap.Suns {
		c := l.SunCircle(s)
		dc.DrawCircle(c.X, c.Y, c.R)
		dc.Fill()
	}
}

func drawHealthBar(dc *gg.Context, above Rect, ratio, scale float64) {
	back, fill := HealthBar(above, ratio, scale)
	dc.SetColor(ColorHealthBack)
	dc.DrawRectangle(back.X, back.Y, back.W, back.H)
	dc.Fill()
	dc.SetColor(ColorHealth)
	dc.DrawRectangle(fill.X, fill.Y, fill.W, fill.H)
	dc.Fill()
}

func drawHUD(dc *gg.Context, snap *session.Snapshot, l Layout) {
	dc.SetColor(ColorHUD)
	dc.DrawRectangle(0, 0, float64(l.Width()), l.HUDHeight)
	dc.Fill()

	dc.SetColor(ColorHUDText)
	dc.DrawStringAnchored(StatusLine(snap), 12, l.HUDHeight/2, 0, 0.5)
}
