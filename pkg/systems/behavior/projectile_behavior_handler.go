package behavior

import (
	"github.com/decker502/pvzcore/pkg/components"
	"github.com/decker502/pvzcore/pkg/config"
	"github.com/decker502/pvzcore/pkg/ecs"
)

// UpdateProjectiles 子弹阶段：所有豌豆向远端移动
// 未强化的豌豆移动后进入火炬树桩所在格子时被强化（只强化一次）
func (s *BehaviorSystem) UpdateProjectiles() {
	for _, entityID := range s.queryProjectiles() {
		projectile, _ := ecs.GetComponent[*components.ProjectileComponent](s.entityManager, entityID)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, entityID)

		pos.X += s.config.Combat.ProjectileSpeed

		if !projectile.Enhanced && s.isEnhancerCell(projectile.Row, config.ColumnAt(pos.X)) {
			projectile.Enhanced = true
			projectile.Damage = s.config.Combat.EnhancedDamage
		}
	}
}

// CullProjectiles 删除飞出草坪远端的豌豆，返回删除数量
func (s *BehaviorSystem) CullProjectiles() int {
	limit := config.LawnFarEdgeX + s.config.Combat.CullMargin
	culled := 0
	for _, entityID := range s.queryProjectiles() {
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, entityID)
		if pos.X > limit {
			s.entityManager.DestroyEntity(entityID)
			culled++
		}
	}
	return culled
}

// isEnhancerCell 检查格子中是否是强化型植物
func (s *BehaviorSystem) isEnhancerCell(row, col int) bool {
	plantID, ok := s.lawnGridSystem.PlantAt(row, col)
	if !ok {
		return false
	}
	plant, ok := ecs.GetComponent[*components.PlantComponent](s.entityManager, plantID)
	return ok && components.RoleOf(plant.PlantType) == components.RoleEnhancer
}
