// Package driver 组装对局运行时，并把玩家输入转换为对局命令
//
// Runtime 负责加载配置、打开存档、创建 Session 与可选的观察服务；
// Controller 不依赖具体输入设备，桌面端（pkg/app）与终端（cmd/pvzterm）共用。
package driver

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/pvzcore/pkg/api"
	"github.com/decker502/pvzcore/pkg/config"
	"github.com/decker502/pvzcore/pkg/embedded"
	"github.com/decker502/pvzcore/pkg/game"
	"github.com/decker502/pvzcore/pkg/metrics"
	"github.com/decker502/pvzcore/pkg/session"
)

// DefaultAppName gdata 存档目录名
const DefaultAppName = "pvzcore"

// metricsRefreshFrames 每隔多少帧刷新一次实体数量指标
const metricsRefreshFrames = 30

// Config 运行时配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 数值配置文件路径，为空时使用内嵌的 data/game_config.yaml
	ConfigPath string
	// ObserveAddr 观察服务监听地址，为空时不启动
	ObserveAddr string
	// AppName 存档目录名，为空时使用 DefaultAppName
	AppName string
	// Hooks 额外的对局事件回调（例如终端音效），在指标与日志回调之后调用
	Hooks game.Hooks
}

// Runtime 一次程序运行所需的全部对象
type Runtime struct {
	Session *session.Session
	Metrics *metrics.Metrics

	frame  int
	server *api.Server
	cancel context.CancelFunc
	done   chan struct{}
}

// ConfigureLogging 非 verbose 模式下丢弃日志
func ConfigureLogging(verbose bool) {
	if !verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}
}

// LoadConfig 加载数值配置，失败时使用默认配置并记录警告
func LoadConfig(path string) *config.GameConfig {
	var (
		cfg *config.GameConfig
		err error
	)
	switch {
	case path != "":
		cfg, err = config.LoadGameConfig(path)
	case embedded.IsInitialized():
		cfg, err = config.LoadEmbeddedGameConfig()
	default:
		err = errors.New("no config file and no embedded data")
	}
	if err != nil {
		log.Printf("[Driver] Warning: %v, using default game config", err)
		return config.DefaultGameConfig()
	}
	log.Printf("[Driver] Game config loaded")
	return cfg
}

// openStorage 打开 gdata 存档，失败时返回 nil（排行榜降级为内存模式）
func openStorage(appName string) *gdata.Manager {
	if appName == "" {
		appName = DefaultAppName
	}
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[Driver] Warning: failed to open save storage: %v", err)
		return nil
	}
	return m
}

// NewRuntime 创建运行时
// 调用前应先调用 embedded.Init()，否则使用默认配置
func NewRuntime(cfg Config) (*Runtime, error) {
	gameConfig := LoadConfig(cfg.ConfigPath)

	leaderboard := game.NewLeaderboard(openStorage(cfg.AppName), gameConfig.LeaderboardSize)
	m := metrics.New()

	s, err := session.New(session.Options{
		Config:      gameConfig,
		Leaderboard: leaderboard,
		Hooks:       game.ChainHooks(m.Hooks(), logHooks(), cfg.Hooks),
	})
	if err != nil {
		return nil, err
	}

	rt := &Runtime{Session: s, Metrics: m}

	if cfg.ObserveAddr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		rt.cancel = cancel
		rt.done = make(chan struct{})
		rt.server = api.NewServer(api.ServerConfig{
			Addr:           cfg.ObserveAddr,
			Source:         s,
			Metrics:        m,
			DisableLogging: !cfg.Verbose,
		})
		go func() {
			defer close(rt.done)
			if err := rt.server.Start(ctx); err != nil {
				log.Printf("[Driver] Observer server error: %v", err)
			}
		}()
	}

	return rt, nil
}

// Tick 每帧调用一次：Pump 调度器并记录耗时，定期刷新实体数量指标
func (rt *Runtime) Tick() int {
	start := time.Now()
	fired := rt.Session.Pump()
	rt.Metrics.ObservePump(time.Since(start))

	rt.frame++
	if rt.frame%metricsRefreshFrames == 0 {
		snap := rt.Session.Snapshot()
		rt.Metrics.SetEntityCounts(len(snap.Plants), len(snap.Zombies), len(snap.Projectiles), len(snap.Suns))
	}
	return fired
}

// Close 停止观察服务
func (rt *Runtime) Close() {
	if rt.cancel == nil {
		return
	}
	rt.cancel()
	<-rt.done
	rt.cancel = nil
}
