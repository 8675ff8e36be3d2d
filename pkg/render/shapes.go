package render

import (
	"fmt"
	"time"

	"github.com/decker502/pvzcore/pkg/game"
	"github.com/decker502/pvzcore/pkg/session"
	"github.com/decker502/pvzcore/pkg/types"
)

// 图形尺寸（世界坐标）
const (
	plantInset      = 12.0
	zombieWidth     = 36.0
	zombieHeight    = 76.0
	accessoryHeight = 14.0
	peaRadius       = 7.0
	sunRadius       = 18.0
	healthBarHeight = 5.0
)

// Rect 屏幕矩形
type Rect struct {
	X, Y, W, H float64
}

// Circle 屏幕圆
type Circle struct {
	X, Y, R float64
}

// PlantRect 植物矩形（格子内缩）
func (l Layout) PlantRect(p session.PlantView) Rect {
	x, y, w, h := l.CellRect(p.Row, p.Col)
	inset := plantInset * l.Scale
	return Rect{X: x + inset, Y: y + inset, W: w - 2*inset, H: h - 2*inset}
}

// ZombieRect 僵尸矩形，水平中心为僵尸的 X 坐标
func (l Layout) ZombieRect(z session.ZombieView) Rect {
	cx, cy := l.ToScreen(z.Row, z.X)
	w, h := zombieWidth*l.Scale, zombieHeight*l.Scale
	return Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// AccessoryRect 僵尸头顶防具矩形，没有防具时返回 false
func (l Layout) AccessoryRect(z session.ZombieView) (Rect, bool) {
	if z.Armor <= 0 {
		return Rect{}, false
	}
	body := l.ZombieRect(z)
	h := accessoryHeight * l.Scale
	return Rect{X: body.X, Y: body.Y - h, W: body.W, H: h}, true
}

// ProjectileCircle 子弹
func (l Layout) ProjectileCircle(p session.ProjectileView) Circle {
	x, y := l.ToScreen(p.Row, p.X)
	return Circle{X: x, Y: y - 12*l.Scale, R: peaRadius * l.Scale}
}

// SunCircle 草坪上的阳光
func (l Layout) SunCircle(s session.SunView) Circle {
	x, y, w, h := l.CellRect(s.Row, s.Col)
	return Circle{X: x + w/2, Y: y + h/2, R: sunRadius * l.Scale}
}

// HealthBar 血条背景与前景，ratio 为 0-1
func HealthBar(above Rect, ratio float64, scale float64) (back, fill Rect) {
	h := healthBarHeight * scale
	back = Rect{X: above.X, Y: above.Y - h - 2*scale, W: above.W, H: h}
	fill = back
	fill.W = back.W * ratio
	return back, fill
}

// Contains 点是否在圆内
func (c Circle) Contains(x, y float64) bool {
	dx, dy := x-c.X, y-c.Y
	return dx*dx+dy*dy <= c.R*c.R
}

// SunAt 查找屏幕坐标处的阳光
func (l Layout) SunAt(snap *session.Snapshot, x, y float64) (session.SunView, bool) {
	for _, s := range snap.Suns {
		if l.SunCircle(s).Contains(x, y) {
			return s, true
		}
	}
	return session.SunView{}, false
}

// StatusLine 状态栏文字
func StatusLine(snap *session.Snapshot) string {
	return fmt.Sprintf("Sun %d   Score %d   Time %s   Level %d   Zombies %d/%d",
		snap.Sun, snap.Score, snap.Elapsed().Truncate(time.Second), snap.DifficultyLevel,
		len(snap.Zombies), snap.ZombieCap)
}

// OverlayText 非进行中状态的提示文字，进行中返回空字符串
func OverlayText(snap *session.Snapshot) string {
	switch snap.State {
	case types.SessionIdle:
		return "Press ENTER to start"
	case types.SessionEnded:
		if snap.Submitted {
			return fmt.Sprintf("GAME OVER  score %d  -  F2 to restart", snap.Score)
		}
		return fmt.Sprintf("GAME OVER  score %d  -  type a name, ENTER to submit, F2 to restart", snap.Score)
	default:
		return ""
	}
}

// LeaderboardLine 排行榜一行，例如 " 1. Zed         120  (95s)"
func LeaderboardLine(rank int, e game.LeaderboardEntry) string {
	return fmt.Sprintf("%2d. %-24s %6d  (%ds)", rank, e.Name, e.Score, e.Seconds)
}
