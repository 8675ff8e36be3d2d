package components

import (
	"time"

	"github.com/decker502/pvzcore/pkg/types"
)

// ZombieComponent 标识实体为僵尸
type ZombieComponent struct {
	// ZombieType 僵尸类型
	ZombieType types.ZombieType
	// Row 所在行，僵尸不会换行
	Row int
	// Engaged 是否正在啃食植物
	Engaged bool
	// TargetCol 啃食中的植物列号（仅 Engaged 时有效）
	TargetCol int
	// SpawnedAt 生成时间
	SpawnedAt time.Time
}
