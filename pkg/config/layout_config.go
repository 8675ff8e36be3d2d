package config

import "math"

// 布局配置常量
// 模拟使用"草坪坐标系"：X 从房子一侧（近端，X=0）向僵尸出生一侧（远端）递增，
// 每个格子宽 CellWidth，格子列号 = floor(X / CellWidth)

// Lawn Grid Configuration (草坪网格配置)
const (
	// GridColumns 是草坪的列数（横向格子数）
	GridColumns = 9

	// GridRows 是草坪的行数（纵向格子数）
	GridRows = 5

	// CellWidth 是每个格子的宽度（世界单位）
	CellWidth = 80.0

	// CellHeight 是每个格子的高度（世界单位，仅用于展示层换算）
	CellHeight = 100.0

	// LawnNearEdgeX 草坪近端（房子一侧）X 坐标，僵尸越过此线即判负
	LawnNearEdgeX = 0.0

	// LawnFarEdgeX 草坪远端 X 坐标，僵尸在此生成
	LawnFarEdgeX = float64(GridColumns) * CellWidth // 720.0
)

// ColumnAt 返回 X 坐标所在的格子列号（向下取整，可能越界）
func ColumnAt(x float64) int {
	return int(math.Floor(x / CellWidth))
}

// CellLeftX 返回格子左边界（近端一侧）的 X 坐标
func CellLeftX(col int) float64 {
	return float64(col) * CellWidth
}

// CellRightX 返回格子右边界（远端一侧）的 X 坐标
func CellRightX(col int) float64 {
	return float64(col+1) * CellWidth
}

// RowCenterY 返回行中心的 Y 坐标（展示用）
func RowCenterY(row int) float64 {
	return float64(row)*CellHeight + CellHeight/2
}

// IsValidCell 检查行列是否在草坪范围内
func IsValidCell(row, col int) bool {
	return row >= 0 && row < GridRows && col >= 0 && col < GridColumns
}
