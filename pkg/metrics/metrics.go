// Package metrics 把对局事件导出为 Prometheus 指标
//
// 所有标签取值都是有限集合（僵尸类型、植物类型、阳光来源、接口路径），
// 不会随玩家输入增长。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/decker502/pvzcore/pkg/config"
	"github.com/decker502/pvzcore/pkg/game"
	"github.com/decker502/pvzcore/pkg/types"
)

const namespace = "pvz"

// Metrics 指标集合，每个实例使用独立的 Registry
type Metrics struct {
	registry *prometheus.Registry

	zombiesSpawned   *prometheus.CounterVec
	zombiesKilled    *prometheus.CounterVec
	plantsPlaced     *prometheus.CounterVec
	plantsLost       *prometheus.CounterVec
	projectilesFired *prometheus.CounterVec
	sunCredited      *prometheus.CounterVec
	gamesEnded       prometheus.Counter
	lastScore        prometheus.Gauge
	gameDuration     prometheus.Histogram

	pumpDuration prometheus.Histogram
	entities     *prometheus.GaugeVec

	requestLatency     *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	connectionRejected *prometheus.CounterVec
	wsConnections      prometheus.Gauge
	wsMessages         prometheus.Counter
}

// New 创建指标集合并注册 Go 运行时与进程指标
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		zombiesSpawned: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zombies_spawned_total",
			Help:      "Zombies spawned, by type",
		}, []string{"type"}),
		zombiesKilled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zombies_killed_total",
			Help:      "Zombies killed by projectiles, by type",
		}, []string{"type"}),
		plantsPlaced: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plants_placed_total",
			Help:      "Plants placed, by type",
		}, []string{"type"}),
		plantsLost: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plants_lost_total",
			Help:      "Plants eaten by zombies, by type",
		}, []string{"type"}),
		projectilesFired: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projectiles_fired_total",
			Help:      "Peas fired, by lawn row",
		}, []string{"row"}),
		sunCredited: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sun_credited_total",
			Help:      "Sun credited to the ledger, by source",
		}, []string{"source"}),
		gamesEnded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_ended_total",
			Help:      "Finished games",
		}),
		lastScore: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_game_score",
			Help:      "Score of the most recently finished game",
		}),
		gameDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "game_duration_seconds",
			Help:      "Length of finished games",
			Buckets:   []float64{30, 60, 120, 300, 600, 1200},
		}),

		pumpDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pump_duration_seconds",
			Help:      "Time spent running due timers in one pump",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025},
		}),
		entities: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities",
			Help:      "Live entities on the lawn, by kind",
		}, []string{"kind"}),

		requestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		requestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "endpoint", "status"}),
		connectionRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connection_rejected_total",
			Help:      "Connections rejected by the rate limiter or the websocket limit",
		}, []string{"reason"}),
		wsConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections_active",
			Help:      "Currently active websocket observers",
		}),
		wsMessages: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_messages_total",
			Help:      "Snapshots sent to websocket observers",
		}),
	}
}

// Registry 返回底层 Registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 返回 /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks 返回把对局事件写入指标的回调
func (m *Metrics) Hooks() game.Hooks {
	return game.Hooks{
		OnZombieSpawned: func(zombieType types.ZombieType, _ int) {
			m.zombiesSpawned.WithLabelValues(zombieType.String()).Inc()
		},
		OnZombieKilled: func(zombieType types.ZombieType) {
			m.zombiesKilled.WithLabelValues(zombieType.String()).Inc()
		},
		OnPlantPlaced: func(plantType types.PlantType, _, _ int) {
			m.plantsPlaced.WithLabelValues(plantType.String()).Inc()
		},
		OnPlantLost: func(plantType types.PlantType, _, _ int) {
			m.plantsLost.WithLabelValues(plantType.String()).Inc()
		},
		OnProjectileFired: func(row int) {
			m.projectilesFired.WithLabelValues(rowLabel(row)).Inc()
		},
		OnSunCredited: func(amount int, source string) {
			m.sunCredited.WithLabelValues(source).Add(float64(amount))
		},
		OnGameEnded: func(score int, elapsed time.Duration) {
			m.gamesEnded.Inc()
			m.lastScore.Set(float64(score))
			m.gameDuration.Observe(elapsed.Seconds())
		},
	}
}

// rowLabel 行号标签，只有草坪行号五个取值
func rowLabel(row int) string {
	if row < 0 || row >= config.GridRows {
		return "invalid"
	}
	return strconv.Itoa(row)
}

// ObservePump 记录一次 Pump 的耗时
func (m *Metrics) ObservePump(d time.Duration) {
	m.pumpDuration.Observe(d.Seconds())
}

// SetEntityCounts 更新草坪上的实体数量
func (m *Metrics) SetEntityCounts(plants, zombies, projectiles, suns int) {
	m.entities.WithLabelValues("plant").Set(float64(plants))
	m.entities.WithLabelValues("zombie").Set(float64(zombies))
	m.entities.WithLabelValues("projectile").Set(float64(projectiles))
	m.entities.WithLabelValues("sun").Set(float64(suns))
}

// RecordRequest 记录 HTTP 请求
// endpoint 必须是路由模板而不是完整 URL
func (m *Metrics) RecordRequest(method, endpoint string, status int, duration time.Duration) {
	m.requestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// RecordConnectionRejected 记录被拒绝的连接
// reason 取值: "rate_limit", "ws_limit"
func (m *Metrics) RecordConnectionRejected(reason string) {
	m.connectionRejected.WithLabelValues(reason).Inc()
}

// WSConnected 观察者连接建立
func (m *Metrics) WSConnected() {
	m.wsConnections.Inc()
}

// WSDisconnected 观察者连接断开
func (m *Metrics) WSDisconnected() {
	m.wsConnections.Dec()
}

// WSMessageSent 向观察者发送了一条快照
func (m *Metrics) WSMessageSent() {
	m.wsMessages.Inc()
}
