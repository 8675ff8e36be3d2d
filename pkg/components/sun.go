package components

import "time"

// SunComponent 标记实体为草坪上可收集的阳光
type SunComponent struct {
	Row       int       // 掉落的格子行
	Col       int       // 掉落的格子列
	Amount    int       // 收集后增加的阳光数量
	ExpiresAt time.Time // 超过该时间未被收集则消失
}
