package clock

import (
	"sync"
	"time"
)

// ManualClock 可手动推进的时间源，用于测试
type ManualClock struct {
	mu      sync.RWMutex
	current time.Time
}

// NewManualClock 创建以 start 为初始时间的手动时钟
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{current: start}
}

// Now 返回当前模拟时间
func (c *ManualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Set 设置当前时间
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

// Advance 推进时间
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}
