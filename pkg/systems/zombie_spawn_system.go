package systems

import (
	"log"
	"math/rand/v2"
	"time"

	"github.com/decker502/pvzcore/pkg/components"
	"github.com/decker502/pvzcore/pkg/config"
	"github.com/decker502/pvzcore/pkg/ecs"
	"github.com/decker502/pvzcore/pkg/game"
	"github.com/decker502/pvzcore/pkg/types"
)

// ZombieSpawnSystem 负责生成僵尸
//
// 每次生成判定最多生成一只僵尸：
//  1. 同屏僵尸数量达到上限时跳过
//  2. 以 SpawnChance 的概率决定本次是否生成
//  3. 随机选择一行，并按权重选择僵尸类型
type ZombieSpawnSystem struct {
	entityManager *ecs.EntityManager
	config        *config.GameConfig
	difficulty    *DifficultyEngine
	rng           *rand.Rand
	hooks         *game.Hooks
	zombieTypes   []types.ZombieType // 按固定顺序排列，保证相同随机种子结果一致
}

// NewZombieSpawnSystem 创建僵尸生成系统
func NewZombieSpawnSystem(em *ecs.EntityManager, cfg *config.GameConfig, difficulty *DifficultyEngine, rng *rand.Rand, hooks *game.Hooks) *ZombieSpawnSystem {
	var zombieTypes []types.ZombieType
	for _, zt := range []types.ZombieType{types.ZombieBasic, types.ZombieConehead, types.ZombieBuckethead} {
		if stats, ok := cfg.ZombieStatsFor(zt); ok && stats.Weight > 0 {
			zombieTypes = append(zombieTypes, zt)
		}
	}
	return &ZombieSpawnSystem{
		entityManager: em,
		config:        cfg,
		difficulty:    difficulty,
		rng:           rng,
		hooks:         hooks,
		zombieTypes:   zombieTypes,
	}
}

// Population 返回当前存活僵尸数量
func (s *ZombieSpawnSystem) Population() int {
	return len(ecs.GetEntitiesWith1[*components.ZombieComponent](s.entityManager))
}

// TrySpawn 执行一次生成判定
//
// 返回:
//   - ecs.EntityID: 新僵尸实体ID
//   - bool: 本次是否生成了僵尸
func (s *ZombieSpawnSystem) TrySpawn(now time.Time) (ecs.EntityID, bool) {
	population := s.Population()
	if population >= s.difficulty.Cap() {
		return 0, false
	}
	if s.rng.Float64() >= s.config.Spawn.SpawnChance {
		return 0, false
	}

	row := s.rng.IntN(config.GridRows)
	zombieType := s.pickZombieType()
	id := s.SpawnZombie(row, zombieType, now)

	log.Printf("[ZombieSpawnSystem] Spawned %s in row %d (population %d/%d)",
		zombieType, row, population+1, s.difficulty.Cap())
	return id, true
}

// SpawnZombie 在指定行的远端生成一只僵尸
func (s *ZombieSpawnSystem) SpawnZombie(row int, zombieType types.ZombieType, now time.Time) ecs.EntityID {
	stats, ok := s.config.ZombieStatsFor(zombieType)
	if !ok {
		zombieType = types.ZombieBasic
		stats, _ = s.config.ZombieStatsFor(zombieType)
	}

	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.ZombieComponent{
		ZombieType: zombieType,
		Row:        row,
		SpawnedAt:  now,
	})
	ecs.AddComponent(s.entityManager, id, &components.PositionComponent{
		X: config.LawnFarEdgeX,
		Y: config.RowCenterY(row),
	})
	ecs.AddComponent(s.entityManager, id, &components.HealthComponent{
		CurrentHealth: stats.BaseHealth,
		MaxHealth:     stats.BaseHealth,
	})
	if stats.Tier1AccessoryHealth > 0 {
		ecs.AddComponent(s.entityManager, id, &components.ArmorComponent{
			CurrentArmor: stats.Tier1AccessoryHealth,
			MaxArmor:     stats.Tier1AccessoryHealth,
		})
	}

	s.hooks.ZombieSpawned(zombieType, row)
	return id
}

// pickZombieType 按权重随机选择僵尸类型
func (s *ZombieSpawnSystem) pickZombieType() types.ZombieType {
	totalWeight := 0
	for _, zt := range s.zombieTypes {
		stats, _ := s.config.ZombieStatsFor(zt)
		totalWeight += stats.Weight
	}
	if totalWeight <= 0 {
		return types.ZombieBasic
	}

	roll := s.rng.IntN(totalWeight)
	for _, zt := range s.zombieTypes {
		stats, _ := s.config.ZombieStatsFor(zt)
		if roll < stats.Weight {
			return zt
		}
		roll -= stats.Weight
	}
	return s.zombieTypes[len(s.zombieTypes)-1]
}
