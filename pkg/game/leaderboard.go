package game

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Name    string `yaml:"name" json:"name"`
	Score   int    `yaml:"score" json:"score"`
	Seconds int    `yaml:"seconds" json:"seconds"` // 存活时间（秒）
}

// leaderboardData 持久化格式
type leaderboardData struct {
	Entries []LeaderboardEntry `yaml:"entries"`
}

// 存储路径常量
const (
	leaderboardObject   = "leaderboard"
	leaderboardProperty = "top"
)

// DefaultLeaderboardSize 排行榜默认保留条数
const DefaultLeaderboardSize = 10

// Leaderboard 本地排行榜
// 按得分降序保留前 N 条，得分相同时先提交的排在前面
//
// 数据以 YAML 形式保存在 gdata 中；gdataManager 为 nil 时降级为纯内存模式。
// 存储数据缺失、无法读取或已损坏时视为空排行榜。
// 并发安全：HTTP 观察者可以在对局进行时读取
type Leaderboard struct {
	mu           sync.RWMutex
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	size         int
	entries      []LeaderboardEntry
}

// NewLeaderboard 创建排行榜并加载已保存的数据
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存）
//   - size: 保留条数，<= 0 时使用默认值 10
func NewLeaderboard(gdataManager *gdata.Manager, size int) *Leaderboard {
	if size <= 0 {
		size = DefaultLeaderboardSize
	}
	lb := &Leaderboard{
		gdataManager: gdataManager,
		size:         size,
	}

	// 加载失败不是致命错误，使用空排行榜
	if err := lb.Load(); err != nil {
		log.Printf("[Leaderboard] Warning: Failed to load leaderboard: %v (starting empty)", err)
	}
	return lb
}

// Load 从 gdata 加载排行榜
// 数据不存在时为空排行榜；读取或反序列化失败时清空并返回错误
func (lb *Leaderboard) Load() error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.entries = nil

	// 降级模式：无法持久化
	if lb.gdataManager == nil {
		return nil
	}

	if !lb.gdataManager.ObjectPropExists(leaderboardObject, leaderboardProperty) {
		return nil
	}

	data, err := lb.gdataManager.LoadObjectProp(leaderboardObject, leaderboardProperty)
	if err != nil {
		return fmt.Errorf("failed to load leaderboard: %w", err)
	}

	var loaded leaderboardData
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal leaderboard: %w", err)
	}

	// 丢弃无效条目，重新排序并截断，防止手动修改过的数据破坏排序
	valid := make([]LeaderboardEntry, 0, len(loaded.Entries))
	for _, e := range loaded.Entries {
		if e.Name == "" || e.Score < 0 || e.Seconds < 0 {
			continue
		}
		valid = append(valid, e)
	}
	lb.entries = rankEntries(valid, lb.size)

	log.Printf("[Leaderboard] Loaded %d entries", len(lb.entries))
	return nil
}

// save 保存排行榜到 gdata（调用方持有锁）
func (lb *Leaderboard) save() error {
	// 降级模式：无法持久化，但不报错
	if lb.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(leaderboardData{Entries: lb.entries})
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard: %w", err)
	}

	if err := lb.gdataManager.SaveObjectProp(leaderboardObject, leaderboardProperty, data); err != nil {
		return fmt.Errorf("failed to save leaderboard: %w", err)
	}
	return nil
}

// Add 记录一局成绩并持久化
//
// 返回：
//   - rank: 新成绩的名次（从 1 开始），未进入前 N 名时为 0
//   - error: 持久化失败时返回错误（内存中的排行榜已经更新）
func (lb *Leaderboard) Add(name string, score int, elapsed time.Duration) (int, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	entry := LeaderboardEntry{
		Name:    name,
		Score:   score,
		Seconds: int(elapsed / time.Second),
	}

	// 插入到所有得分不低于它的条目之后
	pos := sort.Search(len(lb.entries), func(i int) bool {
		return lb.entries[i].Score < score
	})
	if pos >= lb.size {
		return 0, nil
	}

	lb.entries = append(lb.entries, LeaderboardEntry{})
	copy(lb.entries[pos+1:], lb.entries[pos:])
	lb.entries[pos] = entry
	if len(lb.entries) > lb.size {
		lb.entries = lb.entries[:lb.size]
	}

	log.Printf("[Leaderboard] %s scored %d (%ds), rank %d", name, score, entry.Seconds, pos+1)

	if err := lb.save(); err != nil {
		return pos + 1, err
	}
	return pos + 1, nil
}

// Entries 返回排行榜副本（按名次排序）
func (lb *Leaderboard) Entries() []LeaderboardEntry {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	out := make([]LeaderboardEntry, len(lb.entries))
	copy(out, lb.entries)
	return out
}

// Size 返回保留条数
func (lb *Leaderboard) Size() int {
	return lb.size
}

// rankEntries 按得分降序稳定排序并截断
func rankEntries(entries []LeaderboardEntry, size int) []LeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > size {
		entries = entries[:size]
	}
	return entries
}
