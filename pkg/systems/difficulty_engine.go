package systems

import (
	"time"

	"github.com/decker502/pvzcore/pkg/config"
)

// DifficultyEngine 难度引擎
// 负责维护同屏僵尸上限和生成间隔，为僵尸生成系统提供难度数据支持
//
// 每次 Ramp 上限 +1（不超过 MaxCap），间隔缩短 IntervalDecrement（不低于 MinInterval），
// 两者都只会单调变化
type DifficultyEngine struct {
	spawn    config.SpawnConfig
	level    int
	cap      int
	interval time.Duration
}

// NewDifficultyEngine 创建新的难度引擎实例
func NewDifficultyEngine(spawn config.SpawnConfig) *DifficultyEngine {
	d := &DifficultyEngine{spawn: spawn}
	d.Reset()
	return d
}

// Reset 恢复初始难度
func (d *DifficultyEngine) Reset() {
	d.level = 0
	d.cap = d.spawn.InitialCap
	d.interval = d.spawn.InitialInterval
}

// Ramp 提升一级难度
func (d *DifficultyEngine) Ramp() {
	d.level++
	if d.cap < d.spawn.MaxCap {
		d.cap++
	}
	next := d.interval - d.spawn.IntervalDecrement
	if next < d.spawn.MinInterval {
		next = d.spawn.MinInterval
	}
	d.interval = next
}

// Level 返回已提升的难度级数
func (d *DifficultyEngine) Level() int {
	return d.level
}

// Cap 返回当前同屏僵尸上限
func (d *DifficultyEngine) Cap() int {
	return d.cap
}

// SpawnInterval 返回当前生成间隔
// 生成计时器每次重新计时都会读取该值
func (d *DifficultyEngine) SpawnInterval() time.Duration {
	return d.interval
}
