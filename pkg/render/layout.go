// Package render 把对局快照绘制为平面图形
//
// Layout 负责世界坐标与屏幕坐标的换算，桌面端（ebiten）与观察接口（PNG）共用同一套布局和配色
package render

import (
	"math"

	"github.com/decker502/pvzcore/pkg/config"
)

// Layout 屏幕布局
// 顶部是状态栏，下方是 5x9 草坪；草坪左侧是房子（世界坐标 X=0）
type Layout struct {
	Scale     float64 // 世界坐标到像素的缩放
	HUDHeight float64 // 状态栏高度（像素）
}

// DefaultLayout 默认布局：1:1 缩放，48 像素状态栏
func DefaultLayout() Layout {
	return Layout{Scale: 1, HUDHeight: 48}
}

// Width 画面宽度（像素）
func (l Layout) Width() int {
	return int(math.Ceil(config.LawnFarEdgeX * l.Scale))
}

// Height 画面高度（像素）
func (l Layout) Height() int {
	return int(math.Ceil(l.HUDHeight + config.GridRows*config.CellHeight*l.Scale))
}

// LawnTop 草坪顶部的屏幕 Y 坐标
func (l Layout) LawnTop() float64 {
	return l.HUDHeight
}

// CellRect 格子的屏幕矩形
func (l Layout) CellRect(row, col int) (x, y, w, h float64) {
	return config.CellLeftX(col) * l.Scale,
		l.HUDHeight + float64(row)*config.CellHeight*l.Scale,
		config.CellWidth * l.Scale,
		config.CellHeight * l.Scale
}

// ToScreen 世界坐标转换为屏幕坐标（Y 取行中心）
func (l Layout) ToScreen(row int, x float64) (float64, float64) {
	return x * l.Scale, l.HUDHeight + config.RowCenterY(row)*l.Scale
}

// CellAt 屏幕坐标所在的格子，点击草坪外返回 false
func (l Layout) CellAt(sx, sy float64) (row, col int, ok bool) {
	if l.Scale <= 0 {
		return 0, 0, false
	}
	wx := sx / l.Scale
	wy := (sy - l.HUDHeight) / l.Scale
	if wx < 0 || wy < 0 {
		return 0, 0, false
	}
	row = int(wy / config.CellHeight)
	col = config.ColumnAt(wx)
	if !config.IsValidCell(row, col) {
		return 0, 0, false
	}
	return row, col, true
}
