package systems

import (
	"log"
	"math/rand/v2"
	"time"

	"github.com/decker502/pvzcore/pkg/components"
	"github.com/decker502/pvzcore/pkg/config"
	"github.com/decker502/pvzcore/pkg/ecs"
	"github.com/decker502/pvzcore/pkg/game"
)

// SunSpawnSystem 管理天降阳光与草坪上可收集的阳光
//
// direct 模式下阳光直接入账；pickup 模式下在随机格子掉落阳光实体，
// 玩家需要在 PickupLifetime 内收集，否则阳光消失
type SunSpawnSystem struct {
	entityManager *ecs.EntityManager
	config        *config.GameConfig
	ledger        *game.SunLedger
	rng           *rand.Rand
	hooks         *game.Hooks
}

// NewSunSpawnSystem 创建一个新的阳光生成系统
func NewSunSpawnSystem(em *ecs.EntityManager, cfg *config.GameConfig, ledger *game.SunLedger, rng *rand.Rand, hooks *game.Hooks) *SunSpawnSystem {
	log.Printf("[SunSpawnSystem] Initialized with mode=%s interval=%v amount=%d",
		cfg.Sun.AmbientMode, cfg.Sun.AmbientInterval, cfg.Sun.AmbientAmount)
	return &SunSpawnSystem{
		entityManager: em,
		config:        cfg,
		ledger:        ledger,
		rng:           rng,
		hooks:         hooks,
	}
}

// SpawnAmbient 产生一次天降阳光
//
// 返回:
//   - ecs.EntityID: pickup 模式下新阳光实体ID，direct 模式下为 0
func (s *SunSpawnSystem) SpawnAmbient(now time.Time) ecs.EntityID {
	amount := s.config.Sun.AmbientAmount

	if s.config.Sun.AmbientMode != config.AmbientModePickup {
		credited := s.ledger.AddSun(amount)
		s.hooks.SunCredited(credited, game.SunSourceAmbient)
		return 0
	}

	row := s.rng.IntN(config.GridRows)
	col := s.rng.IntN(config.GridColumns)

	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.SunComponent{
		Row:       row,
		Col:       col,
		Amount:    amount,
		ExpiresAt: now.Add(s.config.Sun.PickupLifetime),
	})
	ecs.AddComponent(s.entityManager, id, &components.PositionComponent{
		X: config.CellLeftX(col) + config.CellWidth/2,
		Y: config.RowCenterY(row),
	})
	return id
}

// Collect 收集草坪上的阳光
// 阳光已消失（被收集或超时）时返回 0，不视为错误
func (s *SunSpawnSystem) Collect(id ecs.EntityID) int {
	if !s.entityManager.IsAlive(id) {
		return 0
	}
	sun, ok := ecs.GetComponent[*components.SunComponent](s.entityManager, id)
	if !ok {
		return 0
	}

	credited := s.ledger.AddSun(sun.Amount)
	s.entityManager.DestroyEntity(id)
	s.hooks.SunCredited(credited, game.SunSourcePickup)
	return credited
}

// ExpirePickups 删除超时未收集的阳光，返回删除数量
func (s *SunSpawnSystem) ExpirePickups(now time.Time) int {
	expired := 0
	for _, id := range ecs.GetEntitiesWith1[*components.SunComponent](s.entityManager) {
		sun, _ := ecs.GetComponent[*components.SunComponent](s.entityManager, id)
		if !now.Before(sun.ExpiresAt) {
			s.entityManager.DestroyEntity(id)
			expired++
		}
	}
	return expired
}
