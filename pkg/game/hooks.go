package game

import (
	"time"

	"github.com/decker502/pvzcore/pkg/types"
)

// 阳光来源
const (
	SunSourceAmbient   = "ambient"   // 天降阳光直接入账
	SunSourceSunflower = "sunflower" // 向日葵生产
	SunSourcePickup    = "pickup"    // 玩家收集草坪上的阳光
)

// Hooks 对局事件回调
// 所有回调都在持有 Session 锁的情况下同步调用，回调内不能再调用 Session 的方法
// 未设置的回调会被忽略
type Hooks struct {
	OnZombieSpawned   func(zombieType types.ZombieType, row int)
	OnZombieKilled    func(zombieType types.ZombieType)
	OnPlantPlaced     func(plantType types.PlantType, row, col int)
	OnPlantLost       func(plantType types.PlantType, row, col int) // 被僵尸吃掉
	OnProjectileFired func(row int)
	OnSunCredited     func(amount int, source string)
	OnGameEnded       func(score int, elapsed time.Duration)
}

// ZombieSpawned 触发 OnZombieSpawned
func (h *Hooks) ZombieSpawned(zombieType types.ZombieType, row int) {
	if h != nil && h.OnZombieSpawned != nil {
		h.OnZombieSpawned(zombieType, row)
	}
}

// ZombieKilled 触发 OnZombieKilled
func (h *Hooks) ZombieKilled(zombieType types.ZombieType) {
	if h != nil && h.OnZombieKilled != nil {
		h.OnZombieKilled(zombieType)
	}
}

// PlantPlaced 触发 OnPlantPlaced
func (h *Hooks) PlantPlaced(plantType types.PlantType, row, col int) {
	if h != nil && h.OnPlantPlaced != nil {
		h.OnPlantPlaced(plantType, row, col)
	}
}

// PlantLost 触发 OnPlantLost
func (h *Hooks) PlantLost(plantType types.PlantType, row, col int) {
	if h != nil && h.OnPlantLost != nil {
		h.OnPlantLost(plantType, row, col)
	}
}

// ProjectileFired 触发 OnProjectileFired
func (h *Hooks) ProjectileFired(row int) {
	if h != nil && h.OnProjectileFired != nil {
		h.OnProjectileFired(row)
	}
}

// SunCredited 触发 OnSunCredited（实际入账为 0 时不触发）
func (h *Hooks) SunCredited(amount int, source string) {
	if amount > 0 && h != nil && h.OnSunCredited != nil {
		h.OnSunCredited(amount, source)
	}
}

// GameEnded 触发 OnGameEnded
func (h *Hooks) GameEnded(score int, elapsed time.Duration) {
	if h != nil && h.OnGameEnded != nil {
		h.OnGameEnded(score, elapsed)
	}
}

// ChainHooks 把多组回调合并为一组，按参数顺序依次调用
func ChainHooks(all ...Hooks) Hooks {
	return Hooks{
		OnZombieSpawned: func(zombieType types.ZombieType, row int) {
			for i := range all {
				all[i].ZombieSpawned(zombieType, row)
			}
		},
		OnZombieKilled: func(zombieType types.ZombieType) {
			for i := range all {
				all[i].ZombieKilled(zombieType)
			}
		},
		OnPlantPlaced: func(plantType types.PlantType, row, col int) {
			for i := range all {
				all[i].PlantPlaced(plantType, row, col)
			}
		},
		OnPlantLost: func(plantType types.PlantType, row, col int) {
			for i := range all {
				all[i].PlantLost(plantType, row, col)
			}
		},
		OnProjectileFired: func(row int) {
			for i := range all {
				all[i].ProjectileFired(row)
			}
		},
		OnSunCredited: func(amount int, source string) {
			for i := range all {
				all[i].SunCredited(amount, source)
			}
		},
		OnGameEnded: func(score int, elapsed time.Duration) {
			for i := range all {
				all[i].GameEnded(score, elapsed)
			}
		},
	}
}
