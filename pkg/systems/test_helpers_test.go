package systems

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/decker502/pvzcore/pkg/config"
	"github.com/decker502/pvzcore/pkg/ecs"
	"github.com/decker502/pvzcore/pkg/game"
	"github.com/decker502/pvzcore/pkg/types"
)

// testEpoch 测试使用的固定起始时间
var testEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// newTestRand 返回固定种子的随机数生成器
func newTestRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// testWorld 测试用的系统集合
type testWorld struct {
	em       *ecs.EntityManager
	cfg      *config.GameConfig
	ledger   *game.SunLedger
	grid     *LawnGridSystem
	hooks    *game.Hooks
	spawned  int
	killed   int
	credited int
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	w := &testWorld{
		em:  ecs.NewEntityManager(),
		cfg: config.DefaultGameConfig(),
	}
	w.ledger = game.NewSunLedger(w.cfg.StartingSun, w.cfg.MaxSun)
	w.grid = NewLawnGridSystem(w.em)
	w.hooks = &game.Hooks{
		OnZombieSpawned: func(types.ZombieType, int) { w.spawned++ },
		OnZombieKilled:  func(types.ZombieType) { w.killed++ },
		OnSunCredited:   func(amount int, _ string) { w.credited += amount },
	}
	return w
}
