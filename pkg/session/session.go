// Package session 实现一局游戏的状态机与模拟步进
//
// Session 持有对局的全部状态（实体、网格、账本、定时器），
// 对外提供开始/重新开始、种植/铲除/收集阳光命令以及只读快照。
// 所有公开方法都持有同一把互斥锁，驱动方在一个 goroutine 中调用 Pump 推进模拟，
// HTTP 观察者等其他 goroutine 可以随时读取快照。
package session

import (
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/decker502/pvzcore/pkg/clock"
	"github.com/decker502/pvzcore/pkg/config"
	"github.com/decker502/pvzcore/pkg/ecs"
	"github.com/decker502/pvzcore/pkg/game"
	"github.com/decker502/pvzcore/pkg/systems"
	"github.com/decker502/pvzcore/pkg/systems/behavior"
	"github.com/decker502/pvzcore/pkg/types"
)

// 定时器名称
const (
	TimerSun        = "sun"        // 天降阳光
	TimerSpawn      = "spawn"      // 僵尸生成判定
	TimerDifficulty = "difficulty" // 难度提升
	TimerStep       = "step"       // 模拟步进
)

// MaxNameLength 排行榜名字最大长度（字符数）
const MaxNameLength = 24

// Options 创建 Session 的参数，零值字段使用默认值
type Options struct {
	Config      *config.GameConfig // 为 nil 时使用 DefaultGameConfig()
	Clock       clock.Clock        // 为 nil 时使用系统时间
	Rand        *rand.Rand         // 为 nil 时使用随机种子
	Leaderboard *game.Leaderboard  // 为 nil 时使用纯内存排行榜
	Hooks       game.Hooks
}

// Session 一局游戏
type Session struct {
	mu sync.Mutex

	config      *config.GameConfig
	clock       clock.Clock
	scheduler   *clock.Scheduler
	rng         *rand.Rand
	hooks       *game.Hooks
	leaderboard *game.Leaderboard

	entityManager  *ecs.EntityManager
	ledger         *game.SunLedger
	lawnGrid       *systems.LawnGridSystem
	difficulty     *systems.DifficultyEngine
	zombieSpawn    *systems.ZombieSpawnSystem
	sunSpawn       *systems.SunSpawnSystem
	physics        *systems.PhysicsSystem
	behaviorSystem *behavior.BehaviorSystem

	state     types.SessionState
	startedAt time.Time
	elapsed   time.Duration                   // 结束时冻结
	cooldowns map[types.PlantType]time.Time // 植物类型 -> 冷却结束时间
	tick      uint64
	submitted bool
}

// New 创建处于 Idle 状态的 Session
func New(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultGameConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.NewRealClock()
	}
	rng := opts.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>32|1))
	}
	lb := opts.Leaderboard
	if lb == nil {
		lb = game.NewLeaderboard(nil, cfg.LeaderboardSize)
	}
	hooks := opts.Hooks

	s := &Session{
		config:        cfg,
		clock:         clk,
		scheduler:     clock.NewScheduler(clk),
		rng:           rng,
		hooks:         &hooks,
		leaderboard:   lb,
		entityManager: ecs.NewEntityManager(),
		ledger:        game.NewSunLedger(cfg.StartingSun, cfg.MaxSun),
		difficulty:    systems.NewDifficultyEngine(cfg.Spawn),
		cooldowns:     make(map[types.PlantType]time.Time),
		state:         types.SessionIdle,
	}
	s.lawnGrid = systems.NewLawnGridSystem(s.entityManager)
	s.zombieSpawn = systems.NewZombieSpawnSystem(s.entityManager, cfg, s.difficulty, rng, s.hooks)
	s.sunSpawn = systems.NewSunSpawnSystem(s.entityManager, cfg, s.ledger, rng, s.hooks)
	s.physics = systems.NewPhysicsSystem(s.entityManager, s.ledger, s.hooks, cfg.Combat.HitRange, cfg.KillScore)
	s.behaviorSystem = behavior.NewBehaviorSystem(s.entityManager, cfg, s.ledger, s.lawnGrid, s.hooks)

	return s, nil
}

// Config 返回对局配置（只读）
func (s *Session) Config() *config.GameConfig {
	return s.config
}

// Leaderboard 返回排行榜
func (s *Session) Leaderboard() *game.Leaderboard {
	return s.leaderboard
}

// State 返回当前状态
func (s *Session) State() types.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start 开始对局（Idle → Running）
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != types.SessionIdle {
		return fmt.Errorf("%w: cannot start from %s", game.ErrInvalidTransition, s.state)
	}

	s.state = types.SessionRunning
	s.startedAt = s.clock.Now()
	s.armTimers()

	log.Printf("[Session] Started: sun=%d, spawn interval=%v, cap=%d",
		s.ledger.GetSun(), s.difficulty.SpawnInterval(), s.difficulty.Cap())
	return nil
}

// Restart 重新开始（回到 Idle，所有状态重置）
// 对局进行中调用时先强制结束，状态不会跳过 Ended
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 手动重新开始不算一局结束，不触发 OnGameEnded
	if s.state == types.SessionRunning {
		s.end("restart", false)
	}
	// 重置前定时器必须已全部撤销
	s.scheduler.CancelAll()
	s.reset()
	s.state = types.SessionIdle

	log.Printf("[Session] Reset to idle")
}

// armTimers 装填对局定时器
func (s *Session) armTimers() {
	s.scheduler.Arm(TimerSun, clock.Fixed(s.config.Sun.AmbientInterval), func() {
		s.sunSpawn.SpawnAmbient(s.clock.Now())
	})
	s.scheduler.Arm(TimerSpawn, s.difficulty.SpawnInterval, func() {
		s.zombieSpawn.TrySpawn(s.clock.Now())
	})
	s.scheduler.Arm(TimerDifficulty, clock.Fixed(s.config.Spawn.RampInterval), func() {
		s.difficulty.Ramp()
		log.Printf("[Session] Difficulty level %d: cap=%d, spawn interval=%v",
			s.difficulty.Level(), s.difficulty.Cap(), s.difficulty.SpawnInterval())
	})
	s.scheduler.Arm(TimerStep, clock.Fixed(s.config.StepInterval), s.step)
}

// reset 重新初始化所有状态
func (s *Session) reset() {
	s.entityManager.Clear()
	s.lawnGrid.Reset()
	s.ledger.Reset(s.config.StartingSun)
	s.difficulty.Reset()
	clear(s.cooldowns)
	s.startedAt = time.Time{}
	s.elapsed = 0
	s.tick = 0
	s.submitted = false
}

// end 结束对局
// 顺序：撤销全部定时器 → 标记结束 → 冻结用时 → 触发回调（notify 为 false 时跳过）
func (s *Session) end(reason string, notify bool) {
	if s.state != types.SessionRunning {
		return
	}
	s.scheduler.CancelAll()
	s.state = types.SessionEnded
	s.elapsed = s.clock.Now().Sub(s.startedAt)

	score := s.ledger.GetScore()
	log.Printf("[Session] Game over (%s): score=%d, elapsed=%v, ticks=%d", reason, score, s.elapsed, s.tick)
	if notify {
		s.hooks.GameEnded(score, s.elapsed)
	}
}

// Pump 执行所有到期的定时器，由驱动方每帧调用
// 返回触发的定时器数量；对局未进行时返回 0
func (s *Session) Pump() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != types.SessionRunning {
		return 0
	}
	return s.scheduler.Pump()
}

// step 模拟一帧，阶段顺序固定
func (s *Session) step() {
	now := s.clock.Now()
	s.tick++

	s.behaviorSystem.UpdatePlants(now)   // 1. 生产 2. 射击
	s.behaviorSystem.UpdateProjectiles() // 3. 子弹前进与强化
	s.physics.Update()                   // 4. 碰撞
	s.behaviorSystem.CullProjectiles()   // 5. 删除飞出草坪的子弹
	s.behaviorSystem.UpdateZombies()     // 6. 僵尸啃食与前进

	// 7. 结束判定
	_, reached := s.behaviorSystem.ZombieReachedHouse()

	// 清理超时阳光与已删除实体
	s.sunSpawn.ExpirePickups(now)
	s.entityManager.RemoveMarkedEntities()

	if reached {
		s.end("zombie reached the house", true)
	}
}

// PlaceDefender 在格子中种植植物
//
// 依次检查：格子（越界、已占用、未知植物类型）→ 阳光 → 冷却。
// 成功时扣除阳光、占用格子、开始该植物类型的冷却，三者同时生效
func (s *Session) PlaceDefender(row, col int, plantType types.PlantType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != types.SessionRunning {
		return game.ErrNotRunning
	}

	stats, ok := s.config.PlantStatsFor(plantType)
	if !ok {
		return fmt.Errorf("%w: unknown plant type %s", game.ErrInvalidTarget, plantType)
	}
	if s.lawnGrid.IsOccupied(row, col) {
		return fmt.Errorf("%w: cell (%d, %d) is occupied or outside the lawn", game.ErrInvalidTarget, row, col)
	}
	if s.ledger.GetSun() < stats.Cost {
		return fmt.Errorf("%w: %s costs %d, have %d", game.ErrInsufficientResources, plantType, stats.Cost, s.ledger.GetSun())
	}
	now := s.clock.Now()
	if readyAt, ok := s.cooldowns[plantType]; ok && now.Before(readyAt) {
		return fmt.Errorf("%w: %s ready in %v", game.ErrOnCooldown, plantType, readyAt.Sub(now))
	}

	if _, err := s.lawnGrid.PlacePlant(row, col, plantType, stats.Health, now); err != nil {
		return err
	}
	s.ledger.SpendSun(stats.Cost)
	s.cooldowns[plantType] = now.Add(stats.Cooldown)

	s.hooks.PlantPlaced(plantType, row, col)
	return nil
}

// RemoveDefender 铲除格子中的植物（不退还阳光）
func (s *Session) RemoveDefender(row, col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != types.SessionRunning {
		return game.ErrNotRunning
	}
	_, err := s.lawnGrid.RemovePlant(row, col)
	return err
}

// CollectSun 收集草坪上的阳光
// 返回实际入账数量；阳光已消失时返回 0 且不报错
func (s *Session) CollectSun(id ecs.EntityID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != types.SessionRunning {
		return 0, game.ErrNotRunning
	}
	return s.sunSpawn.Collect(id), nil
}

// SubmitScore 对局结束后把成绩记入排行榜
//
// 返回：
//   - []game.LeaderboardEntry: 提交后的排行榜
//   - int: 本次成绩的名次（未入榜为 0）
//   - error: 对局未结束、名字为空或已提交过时返回错误；持久化失败只记录日志
func (s *Session) SubmitScore(name string) ([]game.LeaderboardEntry, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != types.SessionEnded {
		return nil, 0, fmt.Errorf("%w: scores can only be submitted after the game ends", game.ErrInvalidTransition)
	}
	if s.submitted {
		return nil, 0, game.ErrAlreadySubmitted
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, 0, game.ErrInvalidName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}

	rank, err := s.leaderboard.Add(name, s.ledger.GetScore(), s.elapsed)
	if err != nil {
		log.Printf("[Session] Warning: %v", err)
	}
	s.submitted = true
	return s.leaderboard.Entries(), rank, nil
}
