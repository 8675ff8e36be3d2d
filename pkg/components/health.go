package components

// HealthComponent 存储实体的生命值信息
// 用于僵尸、植物等可被攻击的实体
type HealthComponent struct {
	CurrentHealth int // 当前生命值
	MaxHealth     int // 最大生命值
}

// IsDead 生命值耗尽
func (h *HealthComponent) IsDead() bool {
	return h.CurrentHealth <= 0
}

// ArmorComponent 僵尸的 I 类饰品（路障、铁桶）
// 伤害优先扣除护甲，护甲耗尽后溢出部分扣除本体生命值
type ArmorComponent struct {
	CurrentArmor int
	MaxArmor     int
}

// Absorb 吸收伤害，返回未被吸收的剩余伤害
func (a *ArmorComponent) Absorb(damage int) int {
	if a.CurrentArmor <= 0 {
		return damage
	}
	if damage <= a.CurrentArmor {
		a.CurrentArmor -= damage
		return 0
	}
	remaining := damage - a.CurrentArmor
	a.CurrentArmor = 0
	return remaining
}
