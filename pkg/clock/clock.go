// Package clock 提供模拟所用的时间源和定时调度器
//
// 模拟逻辑中所有"距离上次多久"的判断都通过 Clock 读取时间，
// 不直接调用 time.Now()，测试时替换为 ManualClock 即可得到确定性结果。
package clock

import "time"

// Clock 时间源接口
type Clock interface {
	Now() time.Time
}

// RealClock 使用系统时间（带单调时钟读数）
type RealClock struct{}

// NewRealClock 创建系统时间源
func NewRealClock() *RealClock {
	return &RealClock{}
}

// Now 返回当前系统时间
func (c *RealClock) Now() time.Time {
	return time.Now()
}
