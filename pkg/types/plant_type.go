// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import "fmt"

// PlantType 定义植物的类型
type PlantType int

const (
	// PlantUnknown 未知植物类型
	PlantUnknown PlantType = iota
	// PlantSunflower 向日葵（生产型）
	PlantSunflower
	// PlantPeashooter 豌豆射手（射击型）
	PlantPeashooter
	// PlantWallnut 坚果墙（阻挡型）
	PlantWallnut
	// PlantTorchwood 火炬树桩（强化型：穿过的豌豆伤害提升）
	PlantTorchwood
)

// AllPlantTypes 返回所有可种植的植物类型（按卡片顺序）
func AllPlantTypes() []PlantType {
	return []PlantType{PlantSunflower, PlantPeashooter, PlantWallnut, PlantTorchwood}
}

// String 返回植物类型的字符串表示
func (p PlantType) String() string {
	switch p {
	case PlantSunflower:
		return "sunflower"
	case PlantPeashooter:
		return "peashooter"
	case PlantWallnut:
		return "wallnut"
	case PlantTorchwood:
		return "torchwood"
	default:
		return "unknown"
	}
}

// ParsePlantType 把配置/命令中的名称解析为植物类型
func ParsePlantType(name string) (PlantType, error) {
	for _, p := range AllPlantTypes() {
		if p.String() == name {
			return p, nil
		}
	}
	return PlantUnknown, fmt.Errorf("unknown plant type %q", name)
}

// MarshalText 以名称形式序列化（用于 JSON / YAML map key）
func (p PlantType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText 从名称反序列化
func (p *PlantType) UnmarshalText(text []byte) error {
	parsed, err := ParsePlantType(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
