package systems

import (
	"math"

	"github.com/decker502/pvzcore/pkg/components"
	"github.com/decker502/pvzcore/pkg/ecs"
	"github.com/decker502/pvzcore/pkg/game"
)

// PhysicsSystem 处理游戏物理逻辑
// 主要负责碰撞检测（子弹与僵尸的碰撞）
type PhysicsSystem struct {
	em        *ecs.EntityManager
	ledger    *game.SunLedger
	hooks     *game.Hooks
	hitRange  float64 // 碰撞距离阈值
	killScore int     // 击杀得分
}

// NewPhysicsSystem 创建物理系统
//
// 参数:
//   - em: 实体管理器，用于查询和操作实体组件
//   - ledger: 资源账本，击杀时增加得分
//   - hooks: 事件回调
//   - hitRange: 子弹与僵尸 X 坐标差的碰撞阈值
//   - killScore: 击杀一只僵尸的得分
func NewPhysicsSystem(em *ecs.EntityManager, ledger *game.SunLedger, hooks *game.Hooks, hitRange float64, killScore int) *PhysicsSystem {
	return &PhysicsSystem{
		em:        em,
		ledger:    ledger,
		hooks:     hooks,
		hitRange:  hitRange,
		killScore: killScore,
	}
}

// FindTarget 查找与指定位置碰撞的僵尸
// 多个僵尸同时满足时选择 X 最小的，X 相同时选择 ID 最小的
func (ps *PhysicsSystem) FindTarget(row int, x float64) (ecs.EntityID, bool) {
	var (
		best  ecs.EntityID
		bestX float64
		found bool
	)
	// 查询结果按 ID 升序，X 相同时先出现的 ID 更小
	for _, id := range ecs.GetEntitiesWith2[*components.ZombieComponent, *components.PositionComponent](ps.em) {
		zombie, _ := ecs.GetComponent[*components.ZombieComponent](ps.em, id)
		if zombie.Row != row {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](ps.em, id)
		if math.Abs(pos.X-x) > ps.hitRange {
			continue
		}
		if !found || pos.X < bestX {
			best, bestX, found = id, pos.X, true
		}
	}
	return best, found
}

// ApplyDamage 对僵尸造成伤害（护甲优先吸收）
// 返回僵尸是否因此死亡
func (ps *PhysicsSystem) ApplyDamage(zombieID ecs.EntityID, damage int) bool {
	if armor, ok := ecs.GetComponent[*components.ArmorComponent](ps.em, zombieID); ok {
		damage = armor.Absorb(damage)
	}
	health, ok := ecs.GetComponent[*components.HealthComponent](ps.em, zombieID)
	if !ok {
		return false
	}
	health.CurrentHealth -= damage
	return health.IsDead()
}

// Update 处理所有子弹与僵尸的碰撞
//
// 每颗子弹最多命中一只僵尸，命中后无论僵尸是否存活都删除子弹。
// 僵尸死亡时立即标记删除，之后的子弹查询不到它，所以击杀得分只会计算一次。
//
// 返回:
//   - int: 本次击杀的僵尸数量
func (ps *PhysicsSystem) Update() int {
	kills := 0
	for _, projectileID := range ecs.GetEntitiesWith2[*components.ProjectileComponent, *components.PositionComponent](ps.em) {
		projectile, _ := ecs.GetComponent[*components.ProjectileComponent](ps.em, projectileID)
		pos, _ := ecs.GetComponent[*components.PositionComponent](ps.em, projectileID)

		zombieID, hit := ps.FindTarget(projectile.Row, pos.X)
		if !hit {
			continue
		}

		ps.em.DestroyEntity(projectileID)
		if !ps.ApplyDamage(zombieID, projectile.Damage) {
			continue
		}

		zombie, _ := ecs.GetComponent[*components.ZombieComponent](ps.em, zombieID)
		ps.em.DestroyEntity(zombieID)
		ps.ledger.AddScore(ps.killScore)
		ps.hooks.ZombieKilled(zombie.ZombieType)
		kills++
	}
	return kills
}
