package behavior

import (
	"log"

	"github.com/decker502/pvzcore/pkg/components"
	"github.com/decker502/pvzcore/pkg/config"
	"github.com/decker502/pvzcore/pkg/ecs"
)

// UpdateZombies 僵尸阶段：啃食或前进
//
// 僵尸所在格子有植物，且僵尸位于格子的啃食区间内时停下啃食；
// 植物生命值耗尽时当帧移除植物并解除啃食状态，下一帧继续前进
func (s *BehaviorSystem) UpdateZombies() {
	for _, entityID := range s.queryZombies() {
		zombie, _ := ecs.GetComponent[*components.ZombieComponent](s.entityManager, entityID)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, entityID)

		if plantID, col, ok := s.detectPlantCollision(zombie.Row, pos.X); ok {
			zombie.Engaged = true
			zombie.TargetCol = col
			s.handleZombieEatingBehavior(zombie, plantID)
			continue
		}

		zombie.Engaged = false
		pos.X -= s.config.Combat.ZombieSpeed
	}
}

// detectPlantCollision 检测僵尸是否处于某个植物格子的啃食区间
func (s *BehaviorSystem) detectPlantCollision(row int, x float64) (ecs.EntityID, int, bool) {
	col := config.ColumnAt(x)
	plantID, ok := s.lawnGridSystem.PlantAt(row, col)
	if !ok {
		return 0, 0, false
	}
	offset := x - config.CellLeftX(col)
	if offset < s.config.Combat.EngageMinOffset || offset > s.config.Combat.EngageMaxOffset {
		return 0, 0, false
	}
	return plantID, col, true
}

// handleZombieEatingBehavior 啃食植物一帧
func (s *BehaviorSystem) handleZombieEatingBehavior(zombie *components.ZombieComponent, plantID ecs.EntityID) {
	health, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, plantID)
	if !ok {
		return
	}
	health.CurrentHealth -= s.config.Combat.EatDamage
	if !health.IsDead() {
		return
	}

	plantType, err := s.lawnGridSystem.RemovePlant(zombie.Row, zombie.TargetCol)
	if err != nil {
		log.Printf("[BehaviorSystem] ⚠️ 移除被吃掉的植物失败: %v", err)
		return
	}
	// RemovePlant 已解除所有啃食该格子的僵尸（包括本帧先啃过的）
	log.Printf("[BehaviorSystem] %s at (%d, %d) eaten by %s", plantType, zombie.Row, zombie.TargetCol, zombie.ZombieType)
	s.hooks.PlantLost(plantType, zombie.Row, zombie.TargetCol)
}

// ZombieReachedHouse 检查是否有僵尸越过草坪近端
func (s *BehaviorSystem) ZombieReachedHouse() (ecs.EntityID, bool) {
	for _, entityID := range s.queryZombies() {
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, entityID)
		if pos.X <= config.LawnNearEdgeX {
			return entityID, true
		}
	}
	return 0, false
}
