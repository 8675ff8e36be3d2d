package driver

import (
	"log"
	"time"

	"github.com/decker502/pvzcore/pkg/game"
	"github.com/decker502/pvzcore/pkg/types"
)

// logHooks 记录关键对局事件
func logHooks() game.Hooks {
	return game.Hooks{
		OnPlantLost: func(plantType types.PlantType, row, col int) {
			log.Printf("[Driver] %s at (%d, %d) was eaten", plantType, row, col)
		},
		OnGameEnded: func(score int, elapsed time.Duration) {
			log.Printf("[Driver] Game ended: score=%d, survived %v", score, elapsed.Truncate(time.Second))
		},
	}
}
