package config

import (
	"fmt"
	"os"
	"time"

	"github.com/decker502/pvzcore/pkg/embedded"
	"github.com/decker502/pvzcore/pkg/types"
	"gopkg.in/yaml.v3"
)

// EmbeddedGameConfigPath 内置配置文件路径
const EmbeddedGameConfigPath = "data/game_config.yaml"

// 阳光自然掉落模式
const (
	// AmbientModeDirect 直接增加阳光（不需要点击收集）
	AmbientModeDirect = "direct"
	// AmbientModePickup 在草坪上掉落可收集的阳光，超时消失
	AmbientModePickup = "pickup"
)

// GameConfig 对局数值配置
// 所有"每帧"数值都以一次模拟步进（StepInterval）为单位
type GameConfig struct {
	StartingSun     int           `yaml:"startingSun"`     // 初始阳光
	MaxSun          int           `yaml:"maxSun"`          // 阳光上限（原版显示上限 9990）
	KillScore       int           `yaml:"killScore"`       // 击杀一只僵尸的得分
	StepInterval    time.Duration `yaml:"stepInterval"`    // 模拟步进间隔
	LeaderboardSize int           `yaml:"leaderboardSize"` // 排行榜保留条数

	Sun    SunConfig    `yaml:"sun"`
	Spawn  SpawnConfig  `yaml:"spawn"`
	Combat CombatConfig `yaml:"combat"`

	Plants  map[string]PlantStats  `yaml:"plants"`  // 植物名称 -> 属性
	Zombies map[string]ZombieStats `yaml:"zombies"` // 僵尸类型 -> 属性
}

// SunConfig 阳光相关配置
type SunConfig struct {
	AmbientMode       string        `yaml:"ambientMode"`       // direct / pickup
	AmbientInterval   time.Duration `yaml:"ambientInterval"`   // 自然阳光间隔
	AmbientAmount     int           `yaml:"ambientAmount"`     // 自然阳光数量
	PickupLifetime    time.Duration `yaml:"pickupLifetime"`    // 可收集阳光存在时间
	SunflowerInterval time.Duration `yaml:"sunflowerInterval"` // 向日葵生产间隔
	SunflowerAmount   int           `yaml:"sunflowerAmount"`   // 向日葵每次生产数量
}

// SpawnConfig 僵尸生成与难度递增配置
type SpawnConfig struct {
	InitialInterval   time.Duration `yaml:"initialInterval"`   // 初始生成间隔
	IntervalDecrement time.Duration `yaml:"intervalDecrement"` // 每次难度提升缩短的间隔
	MinInterval       time.Duration `yaml:"minInterval"`       // 生成间隔下限
	InitialCap        int           `yaml:"initialCap"`        // 初始同屏僵尸上限
	MaxCap            int           `yaml:"maxCap"`            // 同屏僵尸上限的最大值
	RampInterval      time.Duration `yaml:"rampInterval"`      // 难度提升间隔
	SpawnChance       float64       `yaml:"spawnChance"`       // 每次生成判定的成功概率
}

// CombatConfig 战斗相关配置
type CombatConfig struct {
	ShootCooldown    time.Duration `yaml:"shootCooldown"`    // 豌豆射手射击冷却
	ProjectileSpeed  float64       `yaml:"projectileSpeed"`  // 子弹每帧移动距离
	ProjectileDamage int           `yaml:"projectileDamage"` // 普通豌豆伤害
	EnhancedDamage   int           `yaml:"enhancedDamage"`   // 穿过火炬树桩后的伤害
	HitRange         float64       `yaml:"hitRange"`         // 子弹与僵尸的碰撞距离阈值
	CullMargin       float64       `yaml:"cullMargin"`       // 子弹超出远端多少后删除
	ZombieSpeed      float64       `yaml:"zombieSpeed"`      // 僵尸每帧前进距离
	EatDamage        int           `yaml:"eatDamage"`        // 僵尸每帧啃食伤害
	EngageMinOffset  float64       `yaml:"engageMinOffset"`  // 啃食判定区间（相对格子左边界）下限
	EngageMaxOffset  float64       `yaml:"engageMaxOffset"`  // 啃食判定区间上限
}

// PlantStats 单个植物类型的属性配置
type PlantStats struct {
	Cost     int           `yaml:"cost"`     // 种植消耗阳光
	Cooldown time.Duration `yaml:"cooldown"` // 卡片冷却时间（同类型共享）
	Health   int           `yaml:"health"`   // 生命值
}

// ZombieStats 单个僵尸类型的属性配置
type ZombieStats struct {
	Weight               int `yaml:"weight"`               // 权重，用于随机选择僵尸类型
	BaseHealth           int `yaml:"baseHealth"`           // 本体血量
	Tier1AccessoryHealth int `yaml:"tier1AccessoryHealth"` // I类饰品血量（如路障、铁桶）
}

// TotalHealth 返回本体与饰品血量之和
func (z ZombieStats) TotalHealth() int {
	return z.BaseHealth + z.Tier1AccessoryHealth
}

// DefaultGameConfig 返回默认配置
// 数值来自原版网页小游戏（阳光 150 起步、每 8 秒 +25、击杀 +10）与原版 PvZ 的植物参数
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		StartingSun:     150,
		MaxSun:          9990,
		KillScore:       10,
		StepInterval:    20 * time.Millisecond,
		LeaderboardSize: 10,
		Sun: SunConfig{
			AmbientMode:       AmbientModeDirect,
			AmbientInterval:   8 * time.Second,
			AmbientAmount:     25,
			PickupLifetime:    10 * time.Second,
			SunflowerInterval: 24 * time.Second,
			SunflowerAmount:   25,
		},
		Spawn: SpawnConfig{
			InitialInterval:   5 * time.Second,
			IntervalDecrement: 250 * time.Millisecond,
			MinInterval:       1500 * time.Millisecond,
			InitialCap:        5,
			MaxCap:            20,
			RampInterval:      30 * time.Second,
			SpawnChance:       0.6,
		},
		Combat: CombatConfig{
			ShootCooldown:    1500 * time.Millisecond,
			ProjectileSpeed:  6.0,
			ProjectileDamage: 20,
			EnhancedDamage:   40,
			HitRange:         20.0,
			CullMargin:       20.0,
			ZombieSpeed:      0.5,
			EatDamage:        2,
			EngageMinOffset:  40,
			EngageMaxOffset:  80,
		},
		Plants: map[string]PlantStats{
			types.PlantSunflower.String():  {Cost: 50, Cooldown: 7500 * time.Millisecond, Health: 300},
			types.PlantPeashooter.String(): {Cost: 100, Cooldown: 7500 * time.Millisecond, Health: 300},
			types.PlantWallnut.String():    {Cost: 50, Cooldown: 30 * time.Second, Health: 4000},
			types.PlantTorchwood.String():  {Cost: 175, Cooldown: 7500 * time.Millisecond, Health: 300},
		},
		Zombies: map[string]ZombieStats{
			types.ZombieIDBasic:      {Weight: 4000, BaseHealth: 200},
			types.ZombieIDConehead:   {Weight: 1500, BaseHealth: 200, Tier1AccessoryHealth: 360},
			types.ZombieIDBuckethead: {Weight: 500, BaseHealth: 200, Tier1AccessoryHealth: 1100},
		},
	}
}

// ParseGameConfig 解析 YAML 配置
// 文件中未出现的字段沿用默认值；plants / zombies 中出现的条目整体覆盖默认条目
func ParseGameConfig(data []byte) (*GameConfig, error) {
	cfg := DefaultGameConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse game config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	return cfg, nil
}

// LoadGameConfig 从文件加载配置
func LoadGameConfig(filePath string) (*GameConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config file %s: %w", filePath, err)
	}
	cfg, err := ParseGameConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return cfg, nil
}

// LoadEmbeddedGameConfig 加载内置配置（需要先调用 embedded.Init）
func LoadEmbeddedGameConfig() (*GameConfig, error) {
	data, err := embedded.ReadFile(EmbeddedGameConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded game config: %w", err)
	}
	return ParseGameConfig(data)
}

// Validate 验证配置的完整性和合法性
func (c *GameConfig) Validate() error {
	if c.StartingSun < 0 {
		return fmt.Errorf("startingSun cannot be negative, got %d", c.StartingSun)
	}
	if c.MaxSun < c.StartingSun {
		return fmt.Errorf("maxSun (%d) must be >= startingSun (%d)", c.MaxSun, c.StartingSun)
	}
	if c.KillScore < 0 {
		return fmt.Errorf("killScore cannot be negative, got %d", c.KillScore)
	}
	if c.StepInterval <= 0 {
		return fmt.Errorf("stepInterval must be positive, got %v", c.StepInterval)
	}
	if c.LeaderboardSize < 1 {
		return fmt.Errorf("leaderboardSize must be at least 1, got %d", c.LeaderboardSize)
	}

	if err := c.Sun.validate(); err != nil {
		return fmt.Errorf("sun: %w", err)
	}
	if err := c.Spawn.validate(); err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	if err := c.Combat.validate(); err != nil {
		return fmt.Errorf("combat: %w", err)
	}

	for _, p := range types.AllPlantTypes() {
		stats, ok := c.Plants[p.String()]
		if !ok {
			return fmt.Errorf("plants: missing entry for %s", p)
		}
		if stats.Cost < 0 {
			return fmt.Errorf("plant %s: cost cannot be negative, got %d", p, stats.Cost)
		}
		if stats.Cooldown < 0 {
			return fmt.Errorf("plant %s: cooldown cannot be negative, got %v", p, stats.Cooldown)
		}
		if stats.Health < 1 {
			return fmt.Errorf("plant %s: health must be at least 1, got %d", p, stats.Health)
		}
	}
	for name := range c.Plants {
		if _, err := types.ParsePlantType(name); err != nil {
			return fmt.Errorf("plants: %w", err)
		}
	}

	if len(c.Zombies) == 0 {
		return fmt.Errorf("zombies: at least one zombie type is required")
	}
	totalWeight := 0
	for zombieType, stats := range c.Zombies {
		if types.ParseZombieType(zombieType) == types.ZombieUnknown {
			return fmt.Errorf("zombie %s: unknown zombie type", zombieType)
		}
		if stats.Weight < 0 {
			return fmt.Errorf("zombie %s: weight cannot be negative, got %d", zombieType, stats.Weight)
		}
		if stats.BaseHealth < 1 {
			return fmt.Errorf("zombie %s: baseHealth must be at least 1, got %d", zombieType, stats.BaseHealth)
		}
		if stats.Tier1AccessoryHealth < 0 {
			return fmt.Errorf("zombie %s: tier1AccessoryHealth cannot be negative, got %d", zombieType, stats.Tier1AccessoryHealth)
		}
		totalWeight += stats.Weight
	}
	if totalWeight == 0 {
		return fmt.Errorf("zombies: total weight must be positive")
	}

	return nil
}

func (s SunConfig) validate() error {
	if s.AmbientMode != AmbientModeDirect && s.AmbientMode != AmbientModePickup {
		return fmt.Errorf("ambientMode must be %q or %q, got %q", AmbientModeDirect, AmbientModePickup, s.AmbientMode)
	}
	if s.AmbientInterval <= 0 {
		return fmt.Errorf("ambientInterval must be positive, got %v", s.AmbientInterval)
	}
	if s.AmbientAmount < 0 {
		return fmt.Errorf("ambientAmount cannot be negative, got %d", s.AmbientAmount)
	}
	if s.AmbientMode == AmbientModePickup && s.PickupLifetime <= 0 {
		return fmt.Errorf("pickupLifetime must be positive in pickup mode, got %v", s.PickupLifetime)
	}
	if s.SunflowerInterval <= 0 {
		return fmt.Errorf("sunflowerInterval must be positive, got %v", s.SunflowerInterval)
	}
	if s.SunflowerAmount < 0 {
		return fmt.Errorf("sunflowerAmount cannot be negative, got %d", s.SunflowerAmount)
	}
	return nil
}

func (s SpawnConfig) validate() error {
	if s.InitialInterval <= 0 {
		return fmt.Errorf("initialInterval must be positive, got %v", s.InitialInterval)
	}
	if s.MinInterval <= 0 || s.MinInterval > s.InitialInterval {
		return fmt.Errorf("minInterval must be in (0, initialInterval], got %v", s.MinInterval)
	}
	if s.IntervalDecrement < 0 {
		return fmt.Errorf("intervalDecrement cannot be negative, got %v", s.IntervalDecrement)
	}
	if s.InitialCap < 1 {
		return fmt.Errorf("initialCap must be at least 1, got %d", s.InitialCap)
	}
	if s.MaxCap < s.InitialCap {
		return fmt.Errorf("maxCap (%d) must be >= initialCap (%d)", s.MaxCap, s.InitialCap)
	}
	if s.RampInterval <= 0 {
		return fmt.Errorf("rampInterval must be positive, got %v", s.RampInterval)
	}
	if s.SpawnChance < 0 || s.SpawnChance > 1 {
		return fmt.Errorf("spawnChance must be within [0, 1], got %v", s.SpawnChance)
	}
	return nil
}

func (c CombatConfig) validate() error {
	if c.ShootCooldown <= 0 {
		return fmt.Errorf("shootCooldown must be positive, got %v", c.ShootCooldown)
	}
	if c.ProjectileSpeed <= 0 {
		return fmt.Errorf("projectileSpeed must be positive, got %v", c.ProjectileSpeed)
	}
	if c.ProjectileDamage < 1 || c.EnhancedDamage < c.ProjectileDamage {
		return fmt.Errorf("projectileDamage must be >= 1 and enhancedDamage >= projectileDamage, got %d/%d",
			c.ProjectileDamage, c.EnhancedDamage)
	}
	if c.HitRange < 0 || c.CullMargin < 0 {
		return fmt.Errorf("hitRange and cullMargin cannot be negative")
	}
	if c.ZombieSpeed <= 0 {
		return fmt.Errorf("zombieSpeed must be positive, got %v", c.ZombieSpeed)
	}
	if c.EatDamage < 1 {
		return fmt.Errorf("eatDamage must be at least 1, got %d", c.EatDamage)
	}
	if c.EngageMinOffset < 0 || c.EngageMaxOffset > CellWidth || c.EngageMinOffset > c.EngageMaxOffset {
		return fmt.Errorf("engage range [%v, %v] must lie within [0, %v]", c.EngageMinOffset, c.EngageMaxOffset, CellWidth)
	}
	return nil
}

// PlantStatsFor 获取植物属性
func (c *GameConfig) PlantStatsFor(plantType types.PlantType) (PlantStats, bool) {
	stats, ok := c.Plants[plantType.String()]
	return stats, ok
}

// ZombieStatsFor 获取僵尸属性
func (c *GameConfig) ZombieStatsFor(zombieType types.ZombieType) (ZombieStats, bool) {
	stats, ok := c.Zombies[zombieType.String()]
	return stats, ok
}
