package driver

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"unicode"

	"github.com/decker502/pvzcore/pkg/game"
	"github.com/decker502/pvzcore/pkg/session"
	"github.com/decker502/pvzcore/pkg/types"
)

// Controller 把玩家输入转换为对局命令
// 桌面端与终端共用，不依赖具体的输入设备
type Controller struct {
	session  *session.Session
	selected types.PlantType
	shovel   bool
	name     []rune
	message  string
}

// NewController 创建输入控制器，默认选中第一种植物
func NewController(s *session.Session) *Controller {
	return &Controller{
		session:  s,
		selected: types.AllPlantTypes()[0],
	}
}

// Selected 当前选中的植物
func (c *Controller) Selected() types.PlantType {
	return c.selected
}

// ShovelActive 是否处于铲子模式
func (c *Controller) ShovelActive() bool {
	return c.shovel
}

// Message 最近一次操作的提示
func (c *Controller) Message() string {
	return c.message
}

// NameInput 正在输入的排行榜名字
func (c *Controller) NameInput() string {
	return string(c.name)
}

// SelectPlant 选择植物并退出铲子模式
func (c *Controller) SelectPlant(plantType types.PlantType) {
	c.selected = plantType
	c.shovel = false
}

// SelectByKey 数字键 1-N 选择植物，返回是否处理了该按键
func (c *Controller) SelectByKey(r rune) bool {
	all := types.AllPlantTypes()
	idx := int(r - '1')
	if idx < 0 || idx >= len(all) {
		return false
	}
	c.SelectPlant(all[idx])
	return true
}

// ToggleShovel 切换铲子模式
func (c *Controller) ToggleShovel() {
	c.shovel = !c.shovel
}

// ActOnCell 对格子执行操作：
// 格子上有阳光时收集阳光，否则铲子模式下铲除植物，否则种植选中的植物
func (c *Controller) ActOnCell(row, col int) error {
	snap := c.session.Snapshot()
	for _, sun := range snap.Suns {
		if sun.Row == row && sun.Col == col {
			amount, err := c.session.CollectSun(sun.ID)
			if err != nil {
				return c.fail(err)
			}
			c.message = fmt.Sprintf("+%d sun", amount)
			return nil
		}
	}

	if c.shovel {
		if err := c.session.RemoveDefender(row, col); err != nil {
			return c.fail(err)
		}
		c.shovel = false
		c.message = "Plant removed"
		return nil
	}

	if err := c.session.PlaceDefender(row, col, c.selected); err != nil {
		return c.fail(err)
	}
	c.message = ""
	return nil
}

// Confirm 回车键：未开始时开始对局，结束后提交名字
func (c *Controller) Confirm() error {
	switch c.session.State() {
	case types.SessionIdle:
		if err := c.session.Start(); err != nil {
			return c.fail(err)
		}
		c.message = ""
		return nil
	case types.SessionEnded:
		_, rank, err := c.session.SubmitScore(string(c.name))
		if err != nil {
			return c.fail(err)
		}
		if rank > 0 {
			c.message = fmt.Sprintf("Ranked #%d", rank)
		} else {
			c.message = "Score saved (not in the top list)"
		}
		c.name = c.name[:0]
		return nil
	default:
		return nil
	}
}

// Restart 重新开始（回到未开始状态）
func (c *Controller) Restart() {
	c.session.Restart()
	c.name = c.name[:0]
	c.shovel = false
	c.message = ""
}

// AcceptingName 是否正在输入名字
func (c *Controller) AcceptingName() bool {
	return c.session.State() == types.SessionEnded && !c.session.Snapshot().Submitted
}

// TypeRune 输入名字字符
func (c *Controller) TypeRune(r rune) {
	if !c.AcceptingName() || !unicode.IsPrint(r) || len(c.name) >= session.MaxNameLength {
		return
	}
	c.name = append(c.name, r)
}

// Backspace 删除名字最后一个字符
func (c *Controller) Backspace() {
	if len(c.name) > 0 {
		c.name = c.name[:len(c.name)-1]
	}
}

// fail 记录被拒绝的命令
func (c *Controller) fail(err error) error {
	c.message = describeError(err)
	log.Printf("[Controller] Command rejected: %v", err)
	return err
}

// describeError 面向玩家的错误提示
func describeError(err error) string {
	switch {
	case errors.Is(err, game.ErrInsufficientResources):
		return "Not enough sun"
	case errors.Is(err, game.ErrOnCooldown):
		return "Still recharging"
	case errors.Is(err, game.ErrInvalidTarget):
		return "Can't plant there"
	case errors.Is(err, game.ErrEmptyTarget):
		return "Nothing to remove"
	case errors.Is(err, game.ErrNotRunning):
		return "Press ENTER to start"
	case errors.Is(err, game.ErrInvalidName):
		return "Type a name first"
	case errors.Is(err, game.ErrAlreadySubmitted):
		return "Score already submitted"
	default:
		return err.Error()
	}
}

// SeedBar 植物卡片栏文字，选中项加方括号，例如
// "[1 sunflower 50]  2 peashooter 100 (3s)  3 wallnut 50  4 torchwood 175  S shovel"
func (c *Controller) SeedBar(snap *session.Snapshot) string {
	cfg := c.session.Config()

	var b strings.Builder
	for i, plantType := range types.AllPlantTypes() {
		card := fmt.Sprintf("%d %s", i+1, plantType)
		if stats, ok := cfg.PlantStatsFor(plantType); ok {
			card += fmt.Sprintf(" %d", stats.Cost)
		}
		if remaining := snap.Cooldowns[plantType]; remaining > 0 {
			card += fmt.Sprintf(" (%.0fs)", math.Ceil(remaining))
		}
		if !c.shovel && plantType == c.selected {
			card = "[" + card + "]"
		}
		b.WriteString(card)
		b.WriteString("  ")
	}
	if c.shovel {
		b.WriteString("[S shovel]")
	} else {
		b.WriteString("S shovel")
	}
	if c.message != "" {
		b.WriteString("   ")
		b.WriteString(c.message)
	}
	return b.String()
}
