package components

import (
	"github.com/decker502/pvzcore/pkg/config"
	"github.com/decker502/pvzcore/pkg/ecs"
)

// LawnGridComponent 草坪占用表，挂在唯一的网格实体上
// 只由 LawnGridSystem 修改；[row][col] 为占用该格子的植物实体，0 表示空
type LawnGridComponent struct {
	Occupancy [config.GridRows][config.GridColumns]ecs.EntityID
}

// At 读取格子，越界返回 0
func (g *LawnGridComponent) At(row, col int) ecs.EntityID {
	if !config.IsValidCell(row, col) {
		return 0
	}
	return g.Occupancy[row][col]
}

// Occupied 已占用的格子数
func (g *LawnGridComponent) Occupied() int {
	n := 0
	for row := range g.Occupancy {
		for _, id := range g.Occupancy[row] {
			if id != 0 {
				n++
			}
		}
	}
	return n
}
