package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/pvzcore/pkg/types"
)

// isolateStorage 把 gdata 存档目录指向临时目录
func isolateStorage(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		if cfg.StartingSun != 150 {
			t.Errorf("starting sun = %d, want 150", cfg.StartingSun)
		}
	})

	t.Run("override file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "game.yaml")
		if err := os.WriteFile(path, []byte("startingSun: 500\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg := LoadConfig(path)
		if cfg.StartingSun != 500 {
			t.Errorf("starting sun = %d, want 500", cfg.StartingSun)
		}
		if cfg.Combat.ProjectileDamage != 20 {
			t.Errorf("unset fields should keep defaults, damage = %d", cfg.Combat.ProjectileDamage)
		}
	})

	t.Run("invalid file falls back to defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("stepInterval: -1s\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if cfg := LoadConfig(path); cfg.StepInterval <= 0 {
			t.Errorf("step interval = %v, want default", cfg.StepInterval)
		}
	})
}

func TestNewRuntime(t *testing.T) {
	isolateStorage(t)

	rt, err := NewRuntime(Config{AppName: "pvzcore_test"})
	if err != nil {
		t.Fatalf("NewRuntime error = %v", err)
	}
	defer rt.Close()

	if rt.Session.State() != types.SessionIdle {
		t.Errorf("state = %v, want idle", rt.Session.State())
	}
	if rt.Metrics == nil {
		t.Error("metrics should be created")
	}
	if rt.Session.Leaderboard().Size() != 10 {
		t.Errorf("leaderboard size = %d", rt.Session.Leaderboard().Size())
	}
}

func TestNewRuntimeWithObserver(t *testing.T) {
	isolateStorage(t)

	rt, err := NewRuntime(Config{AppName: "pvzcore_test", ObserveAddr: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("NewRuntime error = %v", err)
	}
	rt.Close()
	// 重复关闭无副作用
	rt.Close()
}

func TestRuntimeTickIdle(t *testing.T) {
	isolateStorage(t)

	rt, err := NewRuntime(Config{AppName: "pvzcore_test"})
	if err != nil {
		t.Fatalf("NewRuntime error = %v", err)
	}
	defer rt.Close()

	// 未开始时不触发任何定时器
	for i := 0; i < metricsRefreshFrames; i++ {
		if fired := rt.Tick(); fired != 0 {
			t.Fatalf("Tick fired %d timers on an idle session", fired)
		}
	}
}
