package game

// SunLedger 对局资源账本：阳光与得分
//
// 阳光永远不会为负，不足时扣除会被拒绝而不是截断
// 非并发安全，由 Session 的互斥锁保护
type SunLedger struct {
	sun    int
	score  int
	maxSun int
}

// NewSunLedger 创建账本
func NewSunLedger(startingSun, maxSun int) *SunLedger {
	return &SunLedger{sun: startingSun, maxSun: maxSun}
}

// Reset 重新开始对局时重置账本
func (l *SunLedger) Reset(startingSun int) {
	l.sun = startingSun
	l.score = 0
}

// AddSun 增加阳光数量，返回实际入账的数量
// 超过上限的部分被丢弃（原版阳光上限 9990）
func (l *SunLedger) AddSun(amount int) int {
	if amount <= 0 {
		return 0
	}
	before := l.sun
	l.sun += amount
	if l.sun > l.maxSun {
		l.sun = l.maxSun
	}
	return l.sun - before
}

// SpendSun 扣除阳光，如果阳光不足返回 false
// 只有当阳光充足时才会扣除，否则返回false表示操作失败
func (l *SunLedger) SpendSun(amount int) bool {
	if amount < 0 || l.sun < amount {
		return false
	}
	l.sun -= amount
	return true
}

// GetSun 返回当前阳光值
func (l *SunLedger) GetSun() int {
	return l.sun
}

// AddScore 增加得分
func (l *SunLedger) AddScore(points int) {
	l.score += points
}

// GetScore 返回当前得分
func (l *SunLedger) GetScore() int {
	return l.score
}
