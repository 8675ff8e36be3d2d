package systems

import (
	"fmt"
	"time"

	"github.com/decker502/pvzcore/pkg/components"
	"github.com/decker502/pvzcore/pkg/config"
	"github.com/decker502/pvzcore/pkg/ecs"
	"github.com/decker502/pvzcore/pkg/game"
	"github.com/decker502/pvzcore/pkg/types"
)

// LawnGridSystem 管理草坪网格的占用状态
// 负责跟踪哪些格子已被植物占用，并提供查询和更新方法
//
// 网格是 5x9 的二维数组，每个格子保存占用它的植物实体ID（0 表示空格子）。
// 植物本身是普通实体（PlantComponent + HealthComponent + PositionComponent），
// 只有本系统会修改网格占用状态。
type LawnGridSystem struct {
	entityManager *ecs.EntityManager
	gridEntity    ecs.EntityID // 草坪网格实体ID
}

// NewLawnGridSystem 创建草坪网格系统，并创建草坪网格实体
func NewLawnGridSystem(em *ecs.EntityManager) *LawnGridSystem {
	s := &LawnGridSystem{entityManager: em}
	s.Reset()
	return s
}

// Reset 重新创建草坪网格实体
// 在 EntityManager.Clear() 之后调用，旧的网格实体随之失效
func (s *LawnGridSystem) Reset() {
	s.gridEntity = s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, s.gridEntity, &components.LawnGridComponent{})
}

// GridEntity 返回草坪网格实体ID
func (s *LawnGridSystem) GridEntity() ecs.EntityID {
	return s.gridEntity
}

func (s *LawnGridSystem) grid() (*components.LawnGridComponent, error) {
	grid, ok := ecs.GetComponent[*components.LawnGridComponent](s.entityManager, s.gridEntity)
	if !ok {
		return nil, fmt.Errorf("failed to get LawnGridComponent from entity %d", s.gridEntity)
	}
	return grid, nil
}

// IsOccupied 检查指定格子是否已被占用
// 无效位置视为"已占用"，防止种植
func (s *LawnGridSystem) IsOccupied(row, col int) bool {
	if !config.IsValidCell(row, col) {
		return true
	}
	grid, err := s.grid()
	if err != nil {
		return true
	}
	return grid.Occupancy[row][col] != 0
}

// PlantAt 返回格子中的植物实体
func (s *LawnGridSystem) PlantAt(row, col int) (ecs.EntityID, bool) {
	if !config.IsValidCell(row, col) {
		return 0, false
	}
	grid, err := s.grid()
	if err != nil {
		return 0, false
	}
	id := grid.At(row, col)
	return id, id != 0
}

// OccupyCell 标记指定格子为被占用状态
//
// 返回:
//   - error: 如果位置无效或格子已被占用，返回错误
func (s *LawnGridSystem) OccupyCell(row, col int, plantEntity ecs.EntityID) error {
	if !config.IsValidCell(row, col) {
		return fmt.Errorf("invalid grid position: row=%d, col=%d (valid range: row 0-%d, col 0-%d)",
			row, col, config.GridRows-1, config.GridColumns-1)
	}
	grid, err := s.grid()
	if err != nil {
		return err
	}
	if grid.Occupancy[row][col] != 0 {
		return fmt.Errorf("grid cell (%d, %d) is already occupied by entity %d", row, col, grid.Occupancy[row][col])
	}
	grid.Occupancy[row][col] = plantEntity
	return nil
}

// ReleaseCell 清空指定格子的占用状态
func (s *LawnGridSystem) ReleaseCell(row, col int) error {
	if !config.IsValidCell(row, col) {
		return fmt.Errorf("invalid grid position: row=%d, col=%d", row, col)
	}
	grid, err := s.grid()
	if err != nil {
		return err
	}
	grid.Occupancy[row][col] = 0
	return nil
}

// PlacePlant 在格子中创建植物实体并占用格子
// 只检查格子是否可用；阳光与冷却由调用方检查
//
// 返回:
//   - ecs.EntityID: 新植物实体ID
//   - error: 格子越界或已被占用时返回包装的 game.ErrInvalidTarget
func (s *LawnGridSystem) PlacePlant(row, col int, plantType types.PlantType, health int, now time.Time) (ecs.EntityID, error) {
	if !config.IsValidCell(row, col) {
		return 0, fmt.Errorf("%w: cell (%d, %d) is outside the lawn", game.ErrInvalidTarget, row, col)
	}
	if s.IsOccupied(row, col) {
		return 0, fmt.Errorf("%w: cell (%d, %d) is occupied", game.ErrInvalidTarget, row, col)
	}

	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.PlantComponent{
		PlantType:      plantType,
		GridRow:        row,
		GridCol:        col,
		PlantedAt:      now,
		LastProducedAt: now,
	})
	ecs.AddComponent(s.entityManager, id, &components.HealthComponent{
		CurrentHealth: health,
		MaxHealth:     health,
	})
	ecs.AddComponent(s.entityManager, id, &components.PositionComponent{
		X: config.CellLeftX(col) + config.CellWidth/2,
		Y: config.RowCenterY(row),
	})

	if err := s.OccupyCell(row, col, id); err != nil {
		s.entityManager.DestroyEntity(id)
		return 0, fmt.Errorf("%w: %v", game.ErrInvalidTarget, err)
	}
	return id, nil
}

// RemovePlant 移除格子中的植物（不退还阳光）
// 正在啃食该格子的僵尸同时解除啃食状态（被吃掉和被铲除都经过这里）
//
// 返回:
//   - types.PlantType: 被移除的植物类型
//   - error: 格子为空或越界时返回包装的 game.ErrEmptyTarget
func (s *LawnGridSystem) RemovePlant(row, col int) (types.PlantType, error) {
	id, ok := s.PlantAt(row, col)
	if !ok {
		return types.PlantUnknown, fmt.Errorf("%w: no plant at (%d, %d)", game.ErrEmptyTarget, row, col)
	}

	plantType := types.PlantUnknown
	if plant, ok := ecs.GetComponent[*components.PlantComponent](s.entityManager, id); ok {
		plantType = plant.PlantType
	}

	if err := s.ReleaseCell(row, col); err != nil {
		return types.PlantUnknown, err
	}
	s.entityManager.DestroyEntity(id)
	s.disengageZombies(row, col)
	return plantType, nil
}

// disengageZombies 解除所有啃食指定格子的僵尸的啃食状态
func (s *LawnGridSystem) disengageZombies(row, col int) {
	for _, id := range ecs.GetEntitiesWith1[*components.ZombieComponent](s.entityManager) {
		zombie, _ := ecs.GetComponent[*components.ZombieComponent](s.entityManager, id)
		if zombie.Engaged && zombie.Row == row && zombie.TargetCol == col {
			zombie.Engaged = false
		}
	}
}

// PlantCount 返回已种植的植物数量
func (s *LawnGridSystem) PlantCount() int {
	grid, err := s.grid()
	if err != nil {
		return 0
	}
	return grid.Occupied()
}
