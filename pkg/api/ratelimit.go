package api

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/decker502/pvzcore/pkg/metrics"
)

// RateLimitConfig 按 IP 限流配置
type RateLimitConfig struct {
	RequestsPerSecond float64       // 每个 IP 每秒允许的请求数
	Burst             int           // 突发上限
	CleanupInterval   time.Duration // 清理闲置限流器的间隔
}

// DefaultRateLimitConfig 默认限流配置
// 观察页面每秒最多拉取几次快照，20 的突发足够
var DefaultRateLimitConfig = RateLimitConfig{
	RequestsPerSecond: 10,
	Burst:             20,
	CleanupInterval:   5 * time.Minute,
}

type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // UnixNano
}

// IPRateLimiter 按客户端 IP 的令牌桶限流器
type IPRateLimiter struct {
	limiters sync.Map // map[string]*ipLimiterEntry
	config   RateLimitConfig
	metrics  *metrics.Metrics

	allowedCount  atomic.Uint64
	rejectedCount atomic.Uint64
}

// NewIPRateLimiter 创建限流器
// 不启动后台 goroutine，闲置清理由 Run 负责
func NewIPRateLimiter(cfg RateLimitConfig, m *metrics.Metrics) *IPRateLimiter {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultRateLimitConfig.CleanupInterval
	}
	return &IPRateLimiter{config: cfg, metrics: m}
}

// getLimiter 获取或创建 IP 对应的限流器
func (rl *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	now := time.Now().UnixNano()

	if v, ok := rl.limiters.Load(ip); ok {
		e := v.(*ipLimiterEntry)
		e.lastSeen.Store(now)
		return e.limiter
	}

	entry := &ipLimiterEntry{
		limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst),
	}
	entry.lastSeen.Store(now)

	actual, _ := rl.limiters.LoadOrStore(ip, entry)
	return actual.(*ipLimiterEntry).limiter
}

// Run 定期清理闲置的限流器，直到 ctx 结束
func (rl *IPRateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanup(time.Now())
		}
	}
}

// cleanup 删除超过两个清理周期未使用的限流器
func (rl *IPRateLimiter) cleanup(now time.Time) int {
	cutoff := now.Add(-rl.config.CleanupInterval * 2).UnixNano()
	removed := 0

	rl.limiters.Range(func(key, value any) bool {
		if value.(*ipLimiterEntry).lastSeen.Load() < cutoff {
			rl.limiters.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// Allow 判断该 IP 的请求是否放行
func (rl *IPRateLimiter) Allow(ip string) bool {
	if rl.getLimiter(ip).Allow() {
		rl.allowedCount.Add(1)
		return true
	}
	rl.rejectedCount.Add(1)
	return false
}

// Middleware 限流中间件
func (rl *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(GetClientIP(r)) {
			if rl.metrics != nil {
				rl.metrics.RecordConnectionRejected("rate_limit")
			}
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Stats 放行与拒绝计数
func (rl *IPRateLimiter) Stats() map[string]uint64 {
	return map[string]uint64{
		"allowed":  rl.allowedCount.Load(),
		"rejected": rl.rejectedCount.Load(),
	}
}

// GetClientIP 获取客户端 IP
// 优先使用 X-Forwarded-For 的第一个地址，只应部署在可信代理之后
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
