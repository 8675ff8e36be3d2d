// Package api 提供只读的观察接口
//
// 观察者可以获取对局快照（JSON、PNG）、订阅快照推送（WebSocket）、
// 查看排行榜与 Prometheus 指标。接口不接受任何对局命令。
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/decker502/pvzcore/pkg/metrics"
	"github.com/decker502/pvzcore/pkg/render"
	"github.com/decker502/pvzcore/pkg/session"
)

// SnapshotSource 快照来源，*session.Session 实现了该接口
type SnapshotSource interface {
	Snapshot() session.Snapshot
}

// RouterConfig 路由依赖
type RouterConfig struct {
	// Source 快照来源（必填）
	Source SnapshotSource

	// Metrics 为 nil 时不记录指标，也不注册 /metrics
	Metrics *metrics.Metrics

	// RateLimiter 为 nil 时按 RateLimitConfig 创建
	RateLimiter *IPRateLimiter

	// RateLimitConfig 为 nil 时使用 DefaultRateLimitConfig
	RateLimitConfig *RateLimitConfig

	// CORSOrigins 为 nil 时只允许本机来源
	CORSOrigins []string

	// Layout 渲染 PNG 使用的布局，零值时使用 render.DefaultLayout()
	Layout render.Layout

	// DisableLogging 关闭请求日志
	DisableLogging bool
}

type routerHandlers struct {
	source SnapshotSource
	layout render.Layout
}

// NewRouter 创建路由
// 不启动 goroutine，也不监听端口，可直接用于 httptest
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg, cfg.Metrics)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if cfg.Metrics != nil {
		r.Use(metricsMiddleware(cfg.Metrics))
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	layout := cfg.Layout
	if layout.Scale <= 0 {
		layout = render.DefaultLayout()
	}
	h := &routerHandlers{source: cfg.Source, layout: layout}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/leaderboard", h.handleGetLeaderboard)
		r.Get("/frame.png", h.handleGetFrame)
	})

	return r
}

// metricsMiddleware 记录请求耗时，endpoint 标签使用路由模板
func metricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			endpoint := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				endpoint = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.RecordRequest(r.Method, endpoint, status, time.Since(start))
		})
	}
}
