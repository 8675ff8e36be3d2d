package clock

import (
	"log"
	"sort"
	"time"
)

// IntervalFunc 返回定时器下一次触发的间隔
// 每次重新装填时都会调用，因此可以返回随难度变化的值
type IntervalFunc func() time.Duration

// Fixed 返回固定间隔的 IntervalFunc
func Fixed(d time.Duration) IntervalFunc {
	return func() time.Duration { return d }
}

// timer 一个命名定时器
type timer struct {
	name     string
	interval IntervalFunc
	fire     func()
	deadline time.Time
	seq      uint64 // 装填顺序，用于同一截止时间的排序
}

// Scheduler 命名定时器调度器
//
// 调度器本身不启动 goroutine：驱动方（游戏主循环）在同一控制流中调用 Pump，
// 到期的定时器依次同步执行，因此任意两个回调都不会并发运行。
type Scheduler struct {
	clock  Clock
	timers map[string]*timer
	seq    uint64
	// epoch 在 CancelAll 时递增，Pump 过程中发现 epoch 变化立即停止
	epoch uint64
}

// NewScheduler 创建调度器
func NewScheduler(c Clock) *Scheduler {
	return &Scheduler{
		clock:  c,
		timers: make(map[string]*timer),
	}
}

// Arm 装填（或重新装填）名为 name 的定时器
// 截止时间 = 当前时间 + interval()；同名定时器会被替换
func (s *Scheduler) Arm(name string, interval IntervalFunc, fire func()) {
	s.seq++
	s.timers[name] = &timer{
		name:     name,
		interval: interval,
		fire:     fire,
		deadline: s.clock.Now().Add(interval()),
		seq:      s.seq,
	}
}

// Cancel 撤销单个定时器
func (s *Scheduler) Cancel(name string) {
	delete(s.timers, name)
}

// CancelAll 同步撤销所有定时器
// 返回后不会再有任何回调被执行，包括本轮 Pump 中尚未执行的到期定时器
func (s *Scheduler) CancelAll() {
	if len(s.timers) > 0 {
		log.Printf("[Scheduler] 撤销 %d 个定时器", len(s.timers))
	}
	clear(s.timers)
	s.epoch++
}

// IsArmed 检查定时器是否处于装填状态
func (s *Scheduler) IsArmed(name string) bool {
	_, ok := s.timers[name]
	return ok
}

// Len 返回已装填的定时器数量
func (s *Scheduler) Len() int {
	return len(s.timers)
}

// Deadline 返回定时器的下一次触发时间
func (s *Scheduler) Deadline(name string) (time.Time, bool) {
	t, ok := s.timers[name]
	if !ok {
		return time.Time{}, false
	}
	return t.deadline, true
}

// Pump 执行所有到期的定时器
//
// 每个定时器每次 Pump 最多触发一次（长时间卡顿后不会补发积压的触发），
// 按截止时间先后执行，相同截止时间按装填顺序。
// 触发后以"上次截止时间 + 最新间隔"重新装填，保证帧间隔与定时器间隔不整除时平均频率不变；
// 若新的截止时间已经过去（卡顿），改为"当前时间 + 最新间隔"。
// 返回本次触发的定时器数量。
func (s *Scheduler) Pump() int {
	now := s.clock.Now()

	due := make([]*timer, 0, len(s.timers))
	for _, t := range s.timers {
		if !t.deadline.After(now) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return 0
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].deadline.Equal(due[j].deadline) {
			return due[i].deadline.Before(due[j].deadline)
		}
		return due[i].seq < due[j].seq
	})

	epoch := s.epoch
	fired := 0
	for _, t := range due {
		// 前面的回调可能撤销了全部定时器（对局结束），或替换了本定时器
		if s.epoch != epoch {
			break
		}
		if current, ok := s.timers[t.name]; !ok || current != t {
			continue
		}

		t.fire()
		fired++

		if s.epoch != epoch {
			break
		}
		if current, ok := s.timers[t.name]; ok && current == t {
			interval := t.interval()
			next := t.deadline.Add(interval)
			if !next.After(now) {
				next = s.clock.Now().Add(interval)
			}
			t.deadline = next
		}
	}
	return fired
}
