package types

// SessionState 对局状态
// 状态只能按 Idle → Running → Ended 推进，Ended 仅能通过重新开始回到 Idle
type SessionState int

const (
	// SessionIdle 尚未开始
	SessionIdle SessionState = iota
	// SessionRunning 进行中（只有此状态下才会推进模拟）
	SessionRunning
	// SessionEnded 已结束（僵尸进入房子）
	SessionEnded
)

// String 返回状态名称
func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionRunning:
		return "running"
	case SessionEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalText 以名称形式序列化
func (s SessionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
