package behavior

import (
	"time"

	"github.com/decker502/pvzcore/pkg/components"
	"github.com/decker502/pvzcore/pkg/config"
	"github.com/decker502/pvzcore/pkg/ecs"
	"github.com/decker502/pvzcore/pkg/game"
)

// handleSunflowerBehavior 向日葵每 SunflowerInterval 生产一次阳光
// 计时从种植时开始，每个向日葵独立计时，与天降阳光无关
func (s *BehaviorSystem) handleSunflowerBehavior(plant *components.PlantComponent, now time.Time) {
	if now.Sub(plant.LastProducedAt) < s.config.Sun.SunflowerInterval {
		return
	}
	credited := s.ledger.AddSun(s.config.Sun.SunflowerAmount)
	plant.LastProducedAt = now
	s.hooks.SunCredited(credited, game.SunSourceSunflower)
}

// handlePeashooterBehavior 同行有僵尸且冷却结束时发射一颗豌豆
// 只要同行有僵尸就射击，不区分僵尸在射手前方还是后方
func (s *BehaviorSystem) handlePeashooterBehavior(plant *components.PlantComponent, now time.Time, occupiedRows [config.GridRows]bool) {
	if !occupiedRows[plant.GridRow] {
		return
	}
	if !plant.LastFiredAt.IsZero() && now.Sub(plant.LastFiredAt) < s.config.Combat.ShootCooldown {
		return
	}

	s.spawnProjectile(plant.GridRow, plant.GridCol)
	plant.LastFiredAt = now
	s.hooks.ProjectileFired(plant.GridRow)
}

// spawnProjectile 在格子远端边缘创建豌豆子弹
func (s *BehaviorSystem) spawnProjectile(row, col int) ecs.EntityID {
	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.ProjectileComponent{
		Row:    row,
		Damage: s.config.Combat.ProjectileDamage,
	})
	ecs.AddComponent(s.entityManager, id, &components.PositionComponent{
		X: config.CellRightX(col),
		Y: config.RowCenterY(row),
	})
	return id
}
