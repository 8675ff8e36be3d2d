package components

// PositionComponent 实体在草坪坐标系中的位置
// X 从近端（房子一侧，0）向远端递增；Y 仅用于展示
type PositionComponent struct {
	X float64
	Y float64
}
