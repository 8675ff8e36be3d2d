package api

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/decker502/pvzcore/pkg/metrics"
)

// ServerConfig 观察服务配置
type ServerConfig struct {
	Addr              string // 监听地址，默认 127.0.0.1:8090
	Source            SnapshotSource
	Metrics           *metrics.Metrics
	RateLimit         *RateLimitConfig
	CORSOrigins       []string
	BroadcastInterval time.Duration
	DisableLogging    bool
}

// DefaultAddr 默认只监听本机
const DefaultAddr = "127.0.0.1:8090"

// Server 观察服务：HTTP 路由 + WebSocket 推送
type Server struct {
	config      ServerConfig
	router      *chi.Mux
	hub         *WebSocketHub
	rateLimiter *IPRateLimiter
}

// NewServer 创建观察服务
// 调用 Start 之前不会启动 goroutine，也不会监听端口
func NewServer(cfg ServerConfig) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	rateLimitCfg := DefaultRateLimitConfig
	if cfg.RateLimit != nil {
		rateLimitCfg = *cfg.RateLimit
	}

	s := &Server{config: cfg}
	s.rateLimiter = NewIPRateLimiter(rateLimitCfg, cfg.Metrics)
	s.router = NewRouter(RouterConfig{
		Source:         cfg.Source,
		Metrics:        cfg.Metrics,
		RateLimiter:    s.rateLimiter,
		CORSOrigins:    cfg.CORSOrigins,
		DisableLogging: cfg.DisableLogging,
	})

	var allowOrigin func(string) bool
	if cfg.CORSOrigins != nil {
		allowOrigin = originMatcher(cfg.CORSOrigins)
	}
	s.hub = NewWebSocketHub(cfg.Source, cfg.Metrics, allowOrigin)
	s.router.Get("/ws", s.hub.HandleWebSocket)

	return s
}

// Handler 返回 HTTP 处理器
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub 返回 WebSocket 推送中心
func (s *Server) Hub() *WebSocketHub {
	return s.hub
}

// Start 监听端口并启动后台任务，阻塞直到 ctx 结束或监听失败
func (s *Server) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.rateLimiter.Run(ctx)
	go s.hub.Run(ctx, s.config.BroadcastInterval)

	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[API] Observer server listening on http://%s", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[API] Shutdown error: %v", err)
		}
		log.Printf("[API] Observer server stopped")
		return nil
	}
}

// IsLocalOrigin 是否是本机来源
func IsLocalOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// originMatcher 按 CORS 配置的来源列表匹配，支持 "*" 通配
func originMatcher(allowed []string) func(string) bool {
	return func(origin string) bool {
		for _, pattern := range allowed {
			if pattern == "*" || pattern == origin {
				return true
			}
			if prefix, suffix, ok := strings.Cut(pattern, "*"); ok &&
				len(origin) >= len(prefix)+len(suffix) &&
				strings.HasPrefix(origin, prefix) && strings.HasSuffix(origin, suffix) {
				return true
			}
		}
		return false
	}
}
