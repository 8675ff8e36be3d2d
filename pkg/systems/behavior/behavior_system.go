package behavior

import (
	"log"
	"time"

	"github.com/decker502/pvzcore/pkg/components"
	"github.com/decker502/pvzcore/pkg/config"
	"github.com/decker502/pvzcore/pkg/ecs"
	"github.com/decker502/pvzcore/pkg/game"
	"github.com/decker502/pvzcore/pkg/systems"
)

// BehaviorSystem 处理实体的行为逻辑
// 根据植物类型执行相应的行为（向日葵生产阳光、豌豆射手射击），
// 并负责子弹移动、僵尸前进与啃食
//
// 各阶段由调用方按固定顺序调用，同一帧内后面的阶段会读取前面阶段产生的状态：
// UpdatePlants → UpdateProjectiles →（碰撞）→ CullProjectiles → UpdateZombies → ZombieReachedHouse
type BehaviorSystem struct {
	entityManager   *ecs.EntityManager
	config          *config.GameConfig
	ledger          *game.SunLedger
	lawnGridSystem  *systems.LawnGridSystem // 用于植物死亡时释放网格占用
	hooks           *game.Hooks
	logFrameCounter int // 日志输出计数器
}

// 日志输出间隔常量
const LogOutputFrameInterval = 500 // 日志输出间隔（每N帧输出一次）

// NewBehaviorSystem 创建一个新的行为系统
// 参数:
//   - em: EntityManager 实例
//   - cfg: 对局数值配置
//   - ledger: 资源账本（向日葵产出阳光）
//   - lgs: LawnGridSystem 实例 (用于植物死亡时释放网格占用)
//   - hooks: 事件回调
func NewBehaviorSystem(em *ecs.EntityManager, cfg *config.GameConfig, ledger *game.SunLedger, lgs *systems.LawnGridSystem, hooks *game.Hooks) *BehaviorSystem {
	return &BehaviorSystem{
		entityManager:  em,
		config:         cfg,
		ledger:         ledger,
		lawnGridSystem: lgs,
		hooks:          hooks,
	}
}

// UpdatePlants 植物阶段：先处理全部生产型植物，再处理全部射击型植物
func (s *BehaviorSystem) UpdatePlants(now time.Time) {
	plantEntityList := s.queryPlants()

	s.logFrameCounter++
	if s.logFrameCounter%LogOutputFrameInterval == 1 {
		log.Printf("[BehaviorSystem] 更新 %d 个植物, %d 个僵尸, %d 个子弹",
			len(plantEntityList), len(s.queryZombies()), len(s.queryProjectiles()))
	}

	for _, entityID := range plantEntityList {
		plant, _ := ecs.GetComponent[*components.PlantComponent](s.entityManager, entityID)
		if components.RoleOf(plant.PlantType) == components.RoleProducer {
			s.handleSunflowerBehavior(plant, now)
		}
	}

	// 射击阶段：只需要知道哪些行有僵尸
	occupiedRows := s.rowsWithZombies()
	for _, entityID := range plantEntityList {
		plant, _ := ecs.GetComponent[*components.PlantComponent](s.entityManager, entityID)
		if components.RoleOf(plant.PlantType) == components.RoleShooter {
			s.handlePeashooterBehavior(plant, now, occupiedRows)
		}
	}
}

// queryPlants 查询所有植物实体
func (s *BehaviorSystem) queryPlants() []ecs.EntityID {
	return ecs.GetEntitiesWith2[*components.PlantComponent, *components.HealthComponent](s.entityManager)
}

// queryZombies 查询所有僵尸实体
func (s *BehaviorSystem) queryZombies() []ecs.EntityID {
	return ecs.GetEntitiesWith3[
		*components.ZombieComponent,
		*components.PositionComponent,
		*components.HealthComponent,
	](s.entityManager)
}

// queryProjectiles 查询所有豌豆子弹实体
func (s *BehaviorSystem) queryProjectiles() []ecs.EntityID {
	return ecs.GetEntitiesWith2[*components.ProjectileComponent, *components.PositionComponent](s.entityManager)
}

// rowsWithZombies 返回每一行是否有已进入草坪的僵尸
func (s *BehaviorSystem) rowsWithZombies() [config.GridRows]bool {
	var rows [config.GridRows]bool
	for _, id := range s.queryZombies() {
		zombie, _ := ecs.GetComponent[*components.ZombieComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if zombie.Row >= 0 && zombie.Row < config.GridRows && pos.X <= config.LawnFarEdgeX {
			rows[zombie.Row] = true
		}
	}
	return rows
}
