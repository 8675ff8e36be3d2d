package components

// ProjectileComponent 标识实体为豌豆子弹
type ProjectileComponent struct {
	// Row 所在行
	Row int
	// Damage 命中伤害
	Damage int
	// Enhanced 是否已被火炬树桩强化（只能强化一次）
	Enhanced bool
}
