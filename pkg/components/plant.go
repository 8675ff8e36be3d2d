package components

import (
	"time"

	"github.com/decker502/pvzcore/pkg/types"
)

// PlantRole 植物的行为类别
type PlantRole int

const (
	// RoleBlocker 阻挡型：只会被啃食
	RoleBlocker PlantRole = iota
	// RoleProducer 生产型：定期产出阳光
	RoleProducer
	// RoleShooter 射击型：同行有僵尸时发射豌豆
	RoleShooter
	// RoleEnhancer 强化型：穿过的豌豆伤害提升
	RoleEnhancer
)

// PlantComponent 标识实体为植物
// 包含植物类型、所在格子位置以及各类行为的计时信息
//
// 所有时间点都来自注入的时钟，不读取系统时间
type PlantComponent struct {
	// PlantType 植物类型（向日葵、豌豆射手等）
	PlantType types.PlantType
	// GridRow 所在草坪行 (0-4, 从上到下)
	GridRow int
	// GridCol 所在草坪列 (0-8, 从近端到远端)
	GridCol int

	// PlantedAt 种植时间
	PlantedAt time.Time
	// LastProducedAt 上次生产阳光的时间（生产型，初始为种植时间）
	LastProducedAt time.Time
	// LastFiredAt 上次射击时间（射击型，零值表示尚未射击）
	LastFiredAt time.Time
}

// RoleOf 返回植物类型对应的行为类别
func RoleOf(plantType types.PlantType) PlantRole {
	switch plantType {
	case types.PlantSunflower:
		return RoleProducer
	case types.PlantPeashooter:
		return RoleShooter
	case types.PlantTorchwood:
		return RoleEnhancer
	default:
		return RoleBlocker
	}
}

// IsShooterPlant 判断植物是否是射手类
func IsShooterPlant(plantType types.PlantType) bool {
	return RoleOf(plantType) == RoleShooter
}
