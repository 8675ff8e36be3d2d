package render

import (
	"image/color"

	"github.com/decker502/pvzcore/pkg/types"
)

// 配色
var (
	ColorBackground = color.RGBA{34, 30, 24, 255}
	ColorHUD        = color.RGBA{92, 64, 38, 255}
	ColorHUDText    = color.RGBA{255, 244, 214, 255}
	ColorLawnLight  = color.RGBA{110, 176, 64, 255}
	ColorLawnDark   = color.RGBA{94, 158, 52, 255}
	ColorHouseLine  = color.RGBA{180, 40, 40, 255}

	ColorHealthBack = color.RGBA{51, 51, 51, 255}
	ColorHealth     = color.RGBA{83, 255, 69, 255}
	ColorArmor      = color.RGBA{170, 170, 190, 255}

	ColorPea         = color.RGBA{120, 230, 60, 255}
	ColorPeaEnhanced = color.RGBA{255, 140, 30, 255}
	ColorSun         = color.RGBA{255, 220, 40, 255}
	ColorOverlay     = color.RGBA{0, 0, 0, 160}
)

// PlantColor 植物颜色
func PlantColor(plantType types.PlantType) color.RGBA {
	switch plantType {
	case types.PlantSunflower:
		return color.RGBA{250, 200, 30, 255}
	case types.PlantPeashooter:
		return color.RGBA{40, 140, 40, 255}
	case types.PlantWallnut:
		return color.RGBA{160, 110, 60, 255}
	case types.PlantTorchwood:
		return color.RGBA{200, 80, 30, 255}
	default:
		return color.RGBA{255, 0, 255, 255}
	}
}

// ZombieColor 僵尸颜色
func ZombieColor(zombieType types.ZombieType) color.RGBA {
	switch zombieType {
	case types.ZombieConehead:
		return color.RGBA{120, 110, 130, 255}
	case types.ZombieBuckethead:
		return color.RGBA{90, 90, 110, 255}
	default:
		return color.RGBA{130, 150, 140, 255}
	}
}

// AccessoryColor 防具颜色（路障、铁桶）
func AccessoryColor(zombieType types.ZombieType) color.RGBA {
	switch zombieType {
	case types.ZombieConehead:
		return color.RGBA{240, 130, 30, 255}
	case types.ZombieBuckethead:
		return color.RGBA{190, 190, 200, 255}
	default:
		return color.RGBA{}
	}
}

// PlantLabel 植物的单字母标记，用于无贴图绘制
func PlantLabel(plantType types.PlantType) string {
	switch plantType {
	case types.PlantSunflower:
		return "S"
	case types.PlantPeashooter:
		return "P"
	case types.PlantWallnut:
		return "W"
	case types.PlantTorchwood:
		return "T"
	default:
		return "?"
	}
}
