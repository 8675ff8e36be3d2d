// Package types 定义共享的基础类型
package types

// ZombieType 定义僵尸的类型
type ZombieType int

const (
	// ZombieUnknown 未知僵尸类型
	ZombieUnknown ZombieType = iota
	ZombieBasic               // 普通僵尸
	ZombieConehead            // 路障僵尸
	ZombieBuckethead          // 铁桶僵尸
)

// 僵尸类型 ID，与 game_config.yaml 中 zombies 段的键一致
const (
	ZombieIDBasic      = "basic"
	ZombieIDConehead   = "conehead"
	ZombieIDBuckethead = "buckethead"
)

// String 返回僵尸类型 ID
func (z ZombieType) String() string {
	switch z {
	case ZombieBasic:
		return ZombieIDBasic
	case ZombieConehead:
		return ZombieIDConehead
	case ZombieBuckethead:
		return ZombieIDBuckethead
	default:
		return "unknown"
	}
}

// ParseZombieType 根据 ID 获取僵尸类型，未知 ID 返回 ZombieUnknown
func ParseZombieType(id string) ZombieType {
	switch id {
	case ZombieIDBasic:
		return ZombieBasic
	case ZombieIDConehead:
		return ZombieConehead
	case ZombieIDBuckethead:
		return ZombieBuckethead
	default:
		return ZombieUnknown
	}
}

// MarshalText 以 ID 形式序列化
func (z ZombieType) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}
