package session

import (
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/decker502/pvzcore/pkg/clock"
	"github.com/decker502/pvzcore/pkg/components"
	"github.com/decker502/pvzcore/pkg/config"
	"github.com/decker502/pvzcore/pkg/ecs"
	"github.com/decker502/pvzcore/pkg/game"
	"github.com/decker502/pvzcore/pkg/types"
)

var testEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

const frame = 20 * time.Millisecond

// hookCounter 记录回调次数
type hookCounter struct {
	spawned  int
	killed   int
	placed   int
	lost     int
	ended    int
	endScore int
	sun      map[string]int
}

func (h *hookCounter) hooks() game.Hooks {
	h.sun = make(map[string]int)
	return game.Hooks{
		OnZombieSpawned: func(types.ZombieType, int) { h.spawned++ },
		OnZombieKilled:  func(types.ZombieType) { h.killed++ },
		OnPlantPlaced:   func(types.PlantType, int, int) { h.placed++ },
		OnPlantLost:     func(types.PlantType, int, int) { h.lost++ },
		OnSunCredited:   func(amount int, source string) { h.sun[source] += amount },
		OnGameEnded: func(score int, _ time.Duration) {
			h.ended++
			h.endScore = score
		},
	}
}

// newTestSession 创建使用手动时钟和固定种子的 Session
// 默认关闭随机僵尸生成，测试按需手动放置僵尸
func newTestSession(t *testing.T, mutate func(cfg *config.GameConfig)) (*Session, *clock.ManualClock, *hookCounter) {
	t.Helper()

	cfg := config.DefaultGameConfig()
	cfg.Spawn.SpawnChance = 0
	if mutate != nil {
		mutate(cfg)
	}

	clk := clock.NewManualClock(testEpoch)
	counter := &hookCounter{}
	s, err := New(Options{
		Config: cfg,
		Clock:  clk,
		Rand:   rand.New(rand.NewPCG(1, 2)),
		Hooks:  counter.hooks(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s, clk, counter
}

// advance 以 20ms 一帧推进时钟并 Pump，模拟驱动层的主循环
func advance(s *Session, clk *clock.ManualClock, d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		clk.Advance(frame)
		s.Pump()
	}
}

// spawnZombieAt 在指定行放置一只普通僵尸并设置其位置
func spawnZombieAt(t *testing.T, s *Session, row int, x float64) ecs.EntityID {
	t.Helper()
	id := s.zombieSpawn.SpawnZombie(row, types.ZombieBasic, s.clock.Now())
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	if !ok {
		t.Fatalf("zombie %d has no position", id)
	}
	pos.X = x
	return id
}

// endSession 让一只僵尸在下一帧进入房子
func endSession(t *testing.T, s *Session, clk *clock.ManualClock) {
	t.Helper()
	spawnZombieAt(t, s, 4, 0.4)
	advance(s, clk, frame)
	if got := s.State(); got != types.SessionEnded {
		t.Fatalf("state = %v, want ended", got)
	}
}

func mustStart(t *testing.T, s *Session) {
	t.Helper()
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultGameConfig()
	cfg.StepInterval = 0
	if _, err := New(Options{Config: cfg}); err == nil {
		t.Fatal("expected error for zero step interval")
	}
}

func TestNewDefaults(t *testing.T) {
	s, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	snap := s.Snapshot()
	if snap.State != types.SessionIdle {
		t.Errorf("state = %v, want idle", snap.State)
	}
	if snap.Sun != 150 || snap.Score != 0 {
		t.Errorf("sun/score = %d/%d, want 150/0", snap.Sun, snap.Score)
	}
	if s.Leaderboard().Size() != 10 {
		t.Errorf("leaderboard size = %d, want 10", s.Leaderboard().Size())
	}
}

func TestStartTransitions(t *testing.T) {
	s, clk, _ := newTestSession(t, nil)

	mustStart(t, s)
	if err := s.Start(); !errors.Is(err, game.ErrInvalidTransition) {
		t.Errorf("second Start() error = %v, want ErrInvalidTransition", err)
	}

	for _, name := range []string{TimerSun, TimerSpawn, TimerDifficulty, TimerStep} {
		if !s.scheduler.IsArmed(name) {
			t.Errorf("timer %q not armed after start", name)
		}
	}

	endSession(t, s, clk)
	if err := s.Start(); !errors.Is(err, game.ErrInvalidTransition) {
		t.Errorf("Start() from ended error = %v, want ErrInvalidTransition", err)
	}
}

func TestCommandsRejectedOutsideRunning(t *testing.T) {
	s, clk, _ := newTestSession(t, nil)

	check := func(label string) {
		t.Helper()
		before := s.Snapshot()
		if err := s.PlaceDefender(0, 0, types.PlantSunflower); !errors.Is(err, game.ErrNotRunning) {
			t.Errorf("%s: PlaceDefender error = %v, want ErrNotRunning", label, err)
		}
		if err := s.RemoveDefender(0, 0); !errors.Is(err, game.ErrNotRunning) {
			t.Errorf("%s: RemoveDefender error = %v, want ErrNotRunning", label, err)
		}
		if n, err := s.CollectSun(1); !errors.Is(err, game.ErrNotRunning) || n != 0 {
			t.Errorf("%s: CollectSun = %d, %v, want 0, ErrNotRunning", label, n, err)
		}
		if n := s.Pump(); n != 0 {
			t.Errorf("%s: Pump fired %d timers", label, n)
		}
		after := s.Snapshot()
		if before.Sun != after.Sun || len(before.Plants) != len(after.Plants) {
			t.Errorf("%s: rejected commands changed the session", label)
		}
	}

	check("idle")

	mustStart(t, s)
	endSession(t, s, clk)
	clk.Advance(time.Minute)
	check("ended")
}

func TestPlaceDefenderInsufficientResources(t *testing.T) {
	s, _, counter := newTestSession(t, func(cfg *config.GameConfig) {
		cfg.StartingSun = 50
	})
	mustStart(t, s)

	err := s.PlaceDefender(2, 3, types.PlantPeashooter)
	if !errors.Is(err, game.ErrInsufficientResources) {
		t.Fatalf("PlaceDefender error = %v, want ErrInsufficientResources", err)
	}

	snap := s.Snapshot()
	if snap.Sun != 50 {
		t.Errorf("sun = %d, want 50", snap.Sun)
	}
	if _, ok := snap.PlantAt(2, 3); ok {
		t.Error("cell (2, 3) should stay empty")
	}
	if snap.Cooldowns[types.PlantPeashooter] != 0 {
		t.Error("rejected placement must not start the cooldown")
	}
	if counter.placed != 0 {
		t.Errorf("OnPlantPlaced fired %d times", counter.placed)
	}
}

func TestPlaceDefenderSuccess(t *testing.T) {
	s, _, counter := newTestSession(t, nil)
	mustStart(t, s)

	if err := s.PlaceDefender(1, 2, types.PlantSunflower); err != nil {
		t.Fatalf("PlaceDefender error = %v", err)
	}

	snap := s.Snapshot()
	if snap.Sun != 100 {
		t.Errorf("sun = %d, want 100", snap.Sun)
	}
	plant, ok := snap.PlantAt(1, 2)
	if !ok {
		t.Fatal("sunflower not placed")
	}
	if plant.Type != types.PlantSunflower || plant.Health != 300 || plant.HealthRatio() != 1 {
		t.Errorf("plant = %+v", plant)
	}
	if got := snap.Cooldowns[types.PlantSunflower]; got != 7.5 {
		t.Errorf("sunflower cooldown = %v, want 7.5", got)
	}
	if counter.placed != 1 {
		t.Errorf("OnPlantPlaced fired %d times, want 1", counter.placed)
	}
}

func TestPlaceDefenderCheckOrder(t *testing.T) {
	tests := []struct {
		name    string
		sun     int
		setup   func(t *testing.T, s *Session)
		row     int
		col     int
		kind    types.PlantType
		wantErr error
	}{
		{
			name:    "occupied beats insufficient",
			sun:     50,
			setup:   func(t *testing.T, s *Session) { mustPlace(t, s, 0, 0, types.PlantWallnut) },
			row:     0,
			col:     0,
			kind:    types.PlantPeashooter,
			wantErr: game.ErrInvalidTarget,
		},
		{
			name:    "out of lawn",
			sun:     500,
			row:     5,
			col:     0,
			kind:    types.PlantSunflower,
			wantErr: game.ErrInvalidTarget,
		},
		{
			name:    "negative column",
			sun:     500,
			row:     0,
			col:     -1,
			kind:    types.PlantSunflower,
			wantErr: game.ErrInvalidTarget,
		},
		{
			name:    "unknown kind",
			sun:     500,
			row:     0,
			col:     0,
			kind:    types.PlantType(99),
			wantErr: game.ErrInvalidTarget,
		},
		{
			name:    "insufficient beats cooldown",
			sun:     50,
			setup:   func(t *testing.T, s *Session) { mustPlace(t, s, 0, 0, types.PlantSunflower) },
			row:     1,
			col:     0,
			kind:    types.PlantSunflower,
			wantErr: game.ErrInsufficientResources,
		},
		{
			name:    "cooldown",
			sun:     500,
			setup:   func(t *testing.T, s *Session) { mustPlace(t, s, 0, 0, types.PlantSunflower) },
			row:     0,
			col:     1,
			kind:    types.PlantSunflower,
			wantErr: game.ErrOnCooldown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestSession(t, func(cfg *config.GameConfig) {
				cfg.StartingSun = tt.sun
			})
			mustStart(t, s)
			if tt.setup != nil {
				tt.setup(t, s)
			}
			before := s.Snapshot()

			err := s.PlaceDefender(tt.row, tt.col, tt.kind)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("PlaceDefender error = %v, want %v", err, tt.wantErr)
			}

			after := s.Snapshot()
			if after.Sun != before.Sun {
				t.Errorf("sun changed from %d to %d", before.Sun, after.Sun)
			}
			if len(after.Plants) != len(before.Plants) {
				t.Errorf("plant count changed from %d to %d", len(before.Plants), len(after.Plants))
			}
		})
	}
}

func mustPlace(t *testing.T, s *Session, row, col int, kind types.PlantType) {
	t.Helper()
	if err := s.PlaceDefender(row, col, kind); err != nil {
		t.Fatalf("PlaceDefender(%d, %d, %v) error = %v", row, col, kind, err)
	}
}

func TestPlaceDefenderCooldownExpires(t *testing.T) {
	s, clk, _ := newTestSession(t, func(cfg *config.GameConfig) {
		cfg.StartingSun = 500
	})
	mustStart(t, s)

	mustPlace(t, s, 0, 0, types.PlantSunflower)

	// 冷却按植物类型计算，其他类型不受影响
	mustPlace(t, s, 1, 0, types.PlantPeashooter)

	clk.Advance(7 * time.Second)
	if err := s.PlaceDefender(0, 1, types.PlantSunflower); !errors.Is(err, game.ErrOnCooldown) {
		t.Fatalf("error = %v, want ErrOnCooldown", err)
	}

	clk.Advance(500 * time.Millisecond)
	if err := s.PlaceDefender(0, 1, types.PlantSunflower); err != nil {
		t.Fatalf("PlaceDefender after cooldown error = %v", err)
	}
	if got := s.Snapshot().Sun; got != 500-50-100-50 {
		t.Errorf("sun = %d, want %d", got, 500-50-100-50)
	}
}

func TestRemoveDefender(t *testing.T) {
	s, _, _ := newTestSession(t, nil)
	mustStart(t, s)

	if err := s.RemoveDefender(2, 2); !errors.Is(err, game.ErrEmptyTarget) {
		t.Errorf("remove empty cell error = %v, want ErrEmptyTarget", err)
	}
	if err := s.RemoveDefender(9, 9); !errors.Is(err, game.ErrEmptyTarget) {
		t.Errorf("remove outside lawn error = %v, want ErrEmptyTarget", err)
	}

	mustPlace(t, s, 2, 2, types.PlantWallnut)
	if err := s.RemoveDefender(2, 2); err != nil {
		t.Fatalf("RemoveDefender error = %v", err)
	}

	snap := s.Snapshot()
	if _, ok := snap.PlantAt(2, 2); ok {
		t.Error("cell (2, 2) should be empty after removal")
	}
	if snap.Sun != 100 {
		t.Errorf("sun = %d, want 100 (no refund)", snap.Sun)
	}
	if snap.Cooldowns[types.PlantWallnut] == 0 {
		t.Error("removal must not reset the cooldown")
	}
	if err := s.PlaceDefender(2, 2, types.PlantSunflower); err != nil {
		t.Errorf("cell should be reusable after removal: %v", err)
	}
}

func TestAmbientSunDirect(t *testing.T) {
	s, clk, counter := newTestSession(t, nil)
	mustStart(t, s)

	advance(s, clk, 8*time.Second-frame)
	if got := s.Snapshot().Sun; got != 150 {
		t.Fatalf("sun before first ambient drop = %d, want 150", got)
	}

	advance(s, clk, frame)
	if got := s.Snapshot().Sun; got != 175 {
		t.Errorf("sun after 8s = %d, want 175", got)
	}
	if counter.sun[game.SunSourceAmbient] != 25 {
		t.Errorf("ambient credited %d, want 25", counter.sun[game.SunSourceAmbient])
	}
}

func TestAmbientSunPickup(t *testing.T) {
	s, clk, counter := newTestSession(t, func(cfg *config.GameConfig) {
		cfg.Sun.AmbientMode = config.AmbientModePickup
	})
	mustStart(t, s)

	advance(s, clk, 8*time.Second)
	snap := s.Snapshot()
	if snap.Sun != 150 {
		t.Errorf("pickup mode must not credit directly, sun = %d", snap.Sun)
	}
	if len(snap.Suns) != 1 {
		t.Fatalf("suns on lawn = %d, want 1", len(snap.Suns))
	}
	first := snap.Suns[0]
	if first.Amount != 25 || first.ExpiresIn != 10 {
		t.Errorf("sun pickup = %+v", first)
	}

	got, err := s.CollectSun(first.ID)
	if err != nil || got != 25 {
		t.Fatalf("CollectSun = %d, %v, want 25, nil", got, err)
	}
	if got, err := s.CollectSun(first.ID); err != nil || got != 0 {
		t.Errorf("second CollectSun = %d, %v, want 0, nil", got, err)
	}
	if counter.sun[game.SunSourcePickup] != 25 {
		t.Errorf("pickup credited %d, want 25", counter.sun[game.SunSourcePickup])
	}

	// 第二个阳光在 16s 掉落，26s 前未收集则消失
	advance(s, clk, 8*time.Second)
	second := s.Snapshot().Suns[0]
	advance(s, clk, 10*time.Second+frame)

	for _, sun := range s.Snapshot().Suns {
		if sun.ID == second.ID {
			t.Fatalf("sun %d should have expired", second.ID)
		}
	}
	if got, err := s.CollectSun(second.ID); err != nil || got != 0 {
		t.Errorf("CollectSun on expired sun = %d, %v, want 0, nil", got, err)
	}
	if got := s.Snapshot().Sun; got != 175 {
		t.Errorf("sun = %d, want 175", got)
	}
}

func TestSpawnTimer(t *testing.T) {
	s, clk, counter := newTestSession(t, func(cfg *config.GameConfig) {
		cfg.Spawn.SpawnChance = 1
	})
	mustStart(t, s)

	advance(s, clk, 5*time.Second-frame)
	if counter.spawned != 0 {
		t.Fatalf("zombie spawned before the first spawn tick")
	}

	advance(s, clk, frame)
	snap := s.Snapshot()
	if len(snap.Zombies) != 1 {
		t.Fatalf("zombies = %d, want 1", len(snap.Zombies))
	}
	z := snap.Zombies[0]
	if z.X > config.LawnFarEdgeX || z.X < config.LawnFarEdgeX-1 {
		t.Errorf("new zombie x = %v, want near the far edge", z.X)
	}
}

func TestSpawnRespectsCap(t *testing.T) {
	s, clk, counter := newTestSession(t, func(cfg *config.GameConfig) {
		cfg.Spawn.SpawnChance = 1
		cfg.Spawn.InitialCap = 2
		cfg.Spawn.MaxCap = 2
	})
	mustStart(t, s)

	advance(s, clk, 20*time.Second)
	if counter.spawned != 2 {
		t.Errorf("spawned = %d, want 2 (cap)", counter.spawned)
	}
	if got := len(s.Snapshot().Zombies); got != 2 {
		t.Errorf("population = %d, want 2", got)
	}
}

func TestDifficultyRamp(t *testing.T) {
	s, clk, _ := newTestSession(t, nil)
	mustStart(t, s)

	advance(s, clk, 30*time.Second)
	snap := s.Snapshot()
	if snap.DifficultyLevel != 1 || snap.ZombieCap != 6 {
		t.Errorf("level/cap = %d/%d, want 1/6", snap.DifficultyLevel, snap.ZombieCap)
	}
	if snap.SpawnInterval != 4.75 {
		t.Errorf("spawn interval = %v, want 4.75", snap.SpawnInterval)
	}
}

func TestEndCancelsTimers(t *testing.T) {
	s, clk, counter := newTestSession(t, func(cfg *config.GameConfig) {
		cfg.Spawn.SpawnChance = 1
	})
	mustStart(t, s)

	spawnZombieAt(t, s, 0, 0.4)

	// 一次跳过 5s：step 与 spawn 同时到期，step 截止时间更早先执行并结束对局，
	// spawn 不能再触发
	clk.Advance(5 * time.Second)
	if fired := s.Pump(); fired != 1 {
		t.Errorf("Pump fired %d timers, want 1", fired)
	}

	if got := s.State(); got != types.SessionEnded {
		t.Fatalf("state = %v, want ended", got)
	}
	if s.scheduler.Len() != 0 {
		t.Errorf("%d timers still armed after end", s.scheduler.Len())
	}
	if counter.spawned != 1 {
		t.Errorf("spawned = %d, want 1 (only the manual zombie)", counter.spawned)
	}
	if counter.ended != 1 {
		t.Errorf("OnGameEnded fired %d times, want 1", counter.ended)
	}

	elapsed := s.Snapshot().ElapsedSeconds
	if elapsed != 5 {
		t.Errorf("elapsed = %v, want 5", elapsed)
	}

	advance(s, clk, 10*time.Second)
	snap := s.Snapshot()
	if snap.ElapsedSeconds != elapsed {
		t.Errorf("elapsed changed after end: %v -> %v", elapsed, snap.ElapsedSeconds)
	}
	if counter.ended != 1 || counter.spawned != 1 {
		t.Error("no hook may fire after the session ended")
	}
}

func TestEndOnlyOncePerTick(t *testing.T) {
	s, clk, counter := newTestSession(t, nil)
	mustStart(t, s)

	spawnZombieAt(t, s, 0, 0.2)
	spawnZombieAt(t, s, 1, 0.3)
	advance(s, clk, frame)

	if counter.ended != 1 {
		t.Errorf("OnGameEnded fired %d times, want 1", counter.ended)
	}
}

func TestRestart(t *testing.T) {
	t.Run("from running forces end", func(t *testing.T) {
		s, clk, counter := newTestSession(t, nil)
		mustStart(t, s)
		mustPlace(t, s, 0, 0, types.PlantPeashooter)
		spawnZombieAt(t, s, 0, 600)
		advance(s, clk, time.Second)

		s.Restart()

		// 手动重新开始不计入结束的对局
		if counter.ended != 0 {
			t.Errorf("restart fired OnGameEnded %d times, want 0", counter.ended)
		}
		assertFreshSession(t, s)

		mustStart(t, s)
		if err := s.PlaceDefender(0, 0, types.PlantPeashooter); err != nil {
			t.Errorf("cooldowns should be cleared by restart: %v", err)
		}
	})

	t.Run("from ended", func(t *testing.T) {
		s, clk, counter := newTestSession(t, nil)
		mustStart(t, s)
		endSession(t, s, clk)

		s.Restart()
		if counter.ended != 1 {
			t.Errorf("OnGameEnded fired %d times, want 1", counter.ended)
		}
		assertFreshSession(t, s)
	})

	t.Run("from idle", func(t *testing.T) {
		s, _, counter := newTestSession(t, nil)
		s.Restart()
		if counter.ended != 0 {
			t.Error("restart from idle must not fire OnGameEnded")
		}
		assertFreshSession(t, s)
	})
}

func assertFreshSession(t *testing.T, s *Session) {
	t.Helper()
	snap := s.Snapshot()
	if snap.State != types.SessionIdle {
		t.Errorf("state = %v, want idle", snap.State)
	}
	if snap.Sun != 150 || snap.Score != 0 {
		t.Errorf("sun/score = %d/%d, want 150/0", snap.Sun, snap.Score)
	}
	if len(snap.Plants)+len(snap.Zombies)+len(snap.Projectiles)+len(snap.Suns) != 0 {
		t.Errorf("stores not cleared: %+v", snap)
	}
	if snap.ElapsedSeconds != 0 || snap.Tick != 0 || snap.DifficultyLevel != 0 {
		t.Errorf("elapsed/tick/level not reset: %v/%d/%d", snap.ElapsedSeconds, snap.Tick, snap.DifficultyLevel)
	}
	if s.scheduler.Len() != 0 {
		t.Errorf("%d timers armed while idle", s.scheduler.Len())
	}
}

func TestPeashooterKillsZombieThroughPump(t *testing.T) {
	s, clk, counter := newTestSession(t, nil)
	mustStart(t, s)

	mustPlace(t, s, 2, 4, types.PlantPeashooter)
	zombieID := s.zombieSpawn.SpawnZombie(2, types.ZombieBasic, clk.Now())

	hits := 0
	lastHealth := 200
	for i := 0; i < 3000 && counter.killed == 0; i++ {
		advance(s, clk, frame)
		for _, z := range s.Snapshot().Zombies {
			if z.ID != zombieID {
				continue
			}
			if z.Health < lastHealth {
				if lastHealth-z.Health != 20 {
					t.Fatalf("hit dealt %d damage, want 20", lastHealth-z.Health)
				}
				hits++
				lastHealth = z.Health
			}
		}
	}
	if counter.killed != 1 {
		t.Fatalf("zombie not killed, health %d", lastHealth)
	}
	// 最后一发的命中没有出现在快照里（僵尸已被删除）
	hits++

	if hits != 10 {
		t.Errorf("hits = %d, want 10", hits)
	}
	snap := s.Snapshot()
	if snap.Score != 10 {
		t.Errorf("score = %d, want 10", snap.Score)
	}
	if _, ok := snap.PlantAt(2, 4); !ok {
		t.Error("peashooter should survive")
	}
	if snap.State != types.SessionRunning {
		t.Errorf("state = %v, want running", snap.State)
	}
}

func TestSubmitScore(t *testing.T) {
	s, clk, _ := newTestSession(t, nil)
	mustStart(t, s)

	if _, _, err := s.SubmitScore("Alice"); !errors.Is(err, game.ErrInvalidTransition) {
		t.Errorf("submit while running error = %v, want ErrInvalidTransition", err)
	}

	advance(s, clk, time.Second)
	endSession(t, s, clk)

	if _, _, err := s.SubmitScore("   "); !errors.Is(err, game.ErrInvalidName) {
		t.Errorf("blank name error = %v, want ErrInvalidName", err)
	}

	entries, rank, err := s.SubmitScore("  Alice  ")
	if err != nil {
		t.Fatalf("SubmitScore error = %v", err)
	}
	if rank != 1 || len(entries) != 1 {
		t.Fatalf("rank = %d, entries = %+v", rank, entries)
	}
	if entries[0].Name != "Alice" || entries[0].Score != 0 {
		t.Errorf("entry = %+v", entries[0])
	}
	if entries[0].Seconds < 1 {
		t.Errorf("entry seconds = %v, want >= 1", entries[0].Seconds)
	}
	if !s.Snapshot().Submitted {
		t.Error("snapshot should report the score as submitted")
	}

	if _, _, err := s.SubmitScore("Bob"); !errors.Is(err, game.ErrAlreadySubmitted) {
		t.Errorf("second submit error = %v, want ErrAlreadySubmitted", err)
	}

	// 重新开始后可以再次提交
	s.Restart()
	mustStart(t, s)
	endSession(t, s, clk)
	longName := strings.Repeat("z", MaxNameLength+10)
	entries, rank, err = s.SubmitScore(longName)
	if err != nil {
		t.Fatalf("SubmitScore after restart error = %v", err)
	}
	if rank != 2 || len(entries) != 2 {
		t.Errorf("rank = %d, entries = %d, want 2, 2", rank, len(entries))
	}
	if got := entries[1].Name; len(got) != MaxNameLength {
		t.Errorf("long name stored as %d chars, want %d", len(got), MaxNameLength)
	}
}

// TestLedgerNeverNegative 随机命令序列下阳光始终在 [0, MaxSun] 内
func TestLedgerNeverNegative(t *testing.T) {
	s, clk, _ := newTestSession(t, func(cfg *config.GameConfig) {
		cfg.Spawn.SpawnChance = 1
		cfg.Sun.AmbientMode = config.AmbientModePickup
	})
	mustStart(t, s)

	r := rand.New(rand.NewPCG(7, 11))
	kinds := types.AllPlantTypes()
	for i := 0; i < 2000; i++ {
		switch r.IntN(4) {
		case 0:
			_ = s.PlaceDefender(r.IntN(6)-1, r.IntN(10)-1, kinds[r.IntN(len(kinds))])
		case 1:
			_ = s.RemoveDefender(r.IntN(5), r.IntN(9))
		case 2:
			for _, sun := range s.Snapshot().Suns {
				_, _ = s.CollectSun(sun.ID)
			}
		default:
			advance(s, clk, time.Duration(r.IntN(50)+1)*frame)
		}

		snap := s.Snapshot()
		if snap.Sun < 0 || snap.Sun > s.Config().MaxSun {
			t.Fatalf("step %d: sun = %d out of range", i, snap.Sun)
		}
		seen := make(map[[2]int]bool)
		for _, p := range snap.Plants {
			cell := [2]int{p.Row, p.Col}
			if seen[cell] {
				t.Fatalf("step %d: two plants in cell %v", i, cell)
			}
			seen[cell] = true
		}

		if snap.State == types.SessionEnded {
			s.Restart()
			mustStart(t, s)
		}
	}
}

// TestSnapshotConcurrentReads 观察者在模拟推进时并发读取快照
func TestSnapshotConcurrentReads(t *testing.T) {
	s, clk, _ := newTestSession(t, func(cfg *config.GameConfig) {
		cfg.Spawn.SpawnChance = 1
	})
	mustStart(t, s)
	mustPlace(t, s, 0, 0, types.PlantPeashooter)

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					snap := s.Snapshot()
					if snap.Sun < 0 {
						t.Errorf("negative sun in snapshot")
						return
					}
				}
			}
		}()
	}

	advance(s, clk, 10*time.Second)
	close(done)
	wg.Wait()
}

// TestRemoveDefenderDisengagesZombie 测试铲除正在被啃食的植物后僵尸立即解除啃食
func TestRemoveDefenderDisengagesZombie(t *testing.T) {
	s, clk, _ := newTestSession(t, nil)
	mustStart(t, s)
	mustPlace(t, s, 2, 0, types.PlantWallnut)
	// 格子 0 的啃食区间是 [40, 80]
	spawnZombieAt(t, s, 2, 79)
	advance(s, clk, frame)

	snap := s.Snapshot()
	if len(snap.Zombies) != 1 || !snap.Zombies[0].Engaged {
		t.Fatalf("zombie should be eating the wallnut: %+v", snap.Zombies)
	}

	if err := s.RemoveDefender(2, 0); err != nil {
		t.Fatalf("RemoveDefender error = %v", err)
	}
	snap = s.Snapshot()
	if snap.Zombies[0].Engaged {
		t.Error("zombie should be released as soon as its plant is removed")
	}
}
