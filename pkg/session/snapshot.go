package session

import (
	"time"

	"github.com/decker502/pvzcore/pkg/components"
	"github.com/decker502/pvzcore/pkg/config"
	"github.com/decker502/pvzcore/pkg/ecs"
	"github.com/decker502/pvzcore/pkg/game"
	"github.com/decker502/pvzcore/pkg/types"
)

// Snapshot 对局的只读视图，供渲染与观察接口使用
// 所有字段都是值拷贝，读取方无法借此修改对局
type Snapshot struct {
	State          types.SessionState `json:"state"`
	Sun            int                `json:"sun"`
	Score          int                `json:"score"`
	ElapsedSeconds float64            `json:"elapsedSeconds"`
	Tick           uint64             `json:"tick"`

	DifficultyLevel int     `json:"difficultyLevel"`
	ZombieCap       int     `json:"zombieCap"`
	SpawnInterval   float64 `json:"spawnIntervalSeconds"`

	Plants      []PlantView      `json:"plants"`
	Zombies     []ZombieView     `json:"zombies"`
	Projectiles []ProjectileView `json:"projectiles"`
	Suns        []SunView        `json:"suns"`

	// Cooldowns 各植物类型剩余冷却秒数（冷却完毕为 0）
	Cooldowns map[types.PlantType]float64 `json:"cooldowns"`

	Submitted   bool                    `json:"submitted"`
	Leaderboard []game.LeaderboardEntry `json:"leaderboard"`
}

// PlantView 植物视图
type PlantView struct {
	ID        ecs.EntityID    `json:"id"`
	Type      types.PlantType `json:"type"`
	Row       int             `json:"row"`
	Col       int             `json:"col"`
	Health    int             `json:"health"`
	MaxHealth int             `json:"maxHealth"`
}

// ZombieView 僵尸视图
type ZombieView struct {
	ID        ecs.EntityID     `json:"id"`
	Type      types.ZombieType `json:"type"`
	Row       int              `json:"row"`
	X         float64          `json:"x"`
	Health    int              `json:"health"`
	MaxHealth int              `json:"maxHealth"`
	Armor     int              `json:"armor"`
	MaxArmor  int              `json:"maxArmor"`
	Engaged   bool             `json:"engaged"`
}

// ProjectileView 子弹视图
type ProjectileView struct {
	ID       ecs.EntityID `json:"id"`
	Row      int          `json:"row"`
	X        float64      `json:"x"`
	Damage   int          `json:"damage"`
	Enhanced bool         `json:"enhanced"`
}

// SunView 草坪上可收集的阳光
type SunView struct {
	ID        ecs.EntityID `json:"id"`
	Row       int          `json:"row"`
	Col       int          `json:"col"`
	Amount    int          `json:"amount"`
	ExpiresIn float64      `json:"expiresInSeconds"`
}

// HealthRatio 生命值比例，用于绘制血条
func (p PlantView) HealthRatio() float64 {
	return ratio(p.Health, p.MaxHealth)
}

// HealthRatio 本体生命值比例
func (z ZombieView) HealthRatio() float64 {
	return ratio(z.Health, z.MaxHealth)
}

func ratio(current, max int) float64 {
	if max <= 0 || current <= 0 {
		return 0
	}
	if current >= max {
		return 1
	}
	return float64(current) / float64(max)
}

// PlantAt 查找指定格子上的植物
func (s *Snapshot) PlantAt(row, col int) (PlantView, bool) {
	for _, p := range s.Plants {
		if p.Row == row && p.Col == col {
			return p, true
		}
	}
	return PlantView{}, false
}

// Elapsed 对局用时
func (s *Snapshot) Elapsed() time.Duration {
	return time.Duration(s.ElapsedSeconds * float64(time.Second))
}

// Snapshot 生成当前对局的只读视图
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	snap := Snapshot{
		State:           s.state,
		Sun:             s.ledger.GetSun(),
		Score:           s.ledger.GetScore(),
		ElapsedSeconds:  s.elapsedLocked(now).Seconds(),
		Tick:            s.tick,
		DifficultyLevel: s.difficulty.Level(),
		ZombieCap:       s.difficulty.Cap(),
		SpawnInterval:   s.difficulty.SpawnInterval().Seconds(),
		Plants:          []PlantView{},
		Zombies:         []ZombieView{},
		Projectiles:     []ProjectileView{},
		Suns:            []SunView{},
		Cooldowns:       make(map[types.PlantType]float64, len(types.AllPlantTypes())),
		Submitted:       s.submitted,
		Leaderboard:     s.leaderboard.Entries(),
	}

	em := s.entityManager
	for _, id := range ecs.GetEntitiesWith2[*components.PlantComponent, *components.HealthComponent](em) {
		plant, _ := ecs.GetComponent[*components.PlantComponent](em, id)
		health, _ := ecs.GetComponent[*components.HealthComponent](em, id)
		snap.Plants = append(snap.Plants, PlantView{
			ID:        id,
			Type:      plant.PlantType,
			Row:       plant.GridRow,
			Col:       plant.GridCol,
			Health:    health.CurrentHealth,
			MaxHealth: health.MaxHealth,
		})
	}

	for _, id := range ecs.GetEntitiesWith3[*components.ZombieComponent, *components.PositionComponent, *components.HealthComponent](em) {
		zombie, _ := ecs.GetComponent[*components.ZombieComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		health, _ := ecs.GetComponent[*components.HealthComponent](em, id)
		view := ZombieView{
			ID:        id,
			Type:      zombie.ZombieType,
			Row:       zombie.Row,
			X:         pos.X,
			Health:    health.CurrentHealth,
			MaxHealth: health.MaxHealth,
			Engaged:   zombie.Engaged,
		}
		if armor, ok := ecs.GetComponent[*components.ArmorComponent](em, id); ok {
			view.Armor = armor.CurrentArmor
			view.MaxArmor = armor.MaxArmor
		}
		snap.Zombies = append(snap.Zombies, view)
	}

	for _, id := range ecs.GetEntitiesWith2[*components.ProjectileComponent, *components.PositionComponent](em) {
		proj, _ := ecs.GetComponent[*components.ProjectileComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		snap.Projectiles = append(snap.Projectiles, ProjectileView{
			ID:       id,
			Row:      proj.Row,
			X:        pos.X,
			Damage:   proj.Damage,
			Enhanced: proj.Enhanced,
		})
	}

	for _, id := range ecs.GetEntitiesWith1[*components.SunComponent](em) {
		sun, _ := ecs.GetComponent[*components.SunComponent](em, id)
		snap.Suns = append(snap.Suns, SunView{
			ID:        id,
			Row:       sun.Row,
			Col:       sun.Col,
			Amount:    sun.Amount,
			ExpiresIn: max(sun.ExpiresAt.Sub(now), 0).Seconds(),
		})
	}

	for _, plantType := range types.AllPlantTypes() {
		remaining := time.Duration(0)
		if readyAt, ok := s.cooldowns[plantType]; ok && s.state == types.SessionRunning && now.Before(readyAt) {
			remaining = readyAt.Sub(now)
		}
		snap.Cooldowns[plantType] = remaining.Seconds()
	}

	return snap
}

// elapsedLocked 对局用时：进行中按当前时间计算，结束后冻结
func (s *Session) elapsedLocked(now time.Time) time.Duration {
	switch s.state {
	case types.SessionRunning:
		return now.Sub(s.startedAt)
	case types.SessionEnded:
		return s.elapsed
	default:
		return 0
	}
}

// CellCenter 格子中心的世界坐标，供驱动层做点击映射
func CellCenter(row, col int) (float64, float64) {
	return config.CellLeftX(col) + config.CellWidth/2, config.RowCenterY(row)
}
