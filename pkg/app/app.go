package app

import (
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/pvzcore/pkg/driver"
	"github.com/decker502/pvzcore/pkg/render"
)

// App 桌面端驱动，实现 ebiten.Game 接口
//
// 每帧先处理输入，再 Pump 一次调度器；绘制时只读取快照
type App struct {
	runtime    *driver.Runtime
	controller *driver.Controller
	layout     render.Layout

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数

	touchIDs []ebiten.TouchID
	inputBuf []rune
}

// NewApp 创建桌面端驱动
func NewApp(rt *driver.Runtime) *App {
	return &App{
		runtime:    rt,
		controller: driver.NewController(rt.Session),
		layout:     render.DefaultLayout(),
	}
}

// WindowSize 窗口尺寸
func (a *App) WindowSize() (int, int) {
	return a.layout.Width(), a.layout.Height()
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.WindowSize())
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	a.handleKeyboard()
	a.handlePointer()

	a.runtime.Tick()
	return nil
}

// handleKeyboard 键盘：1-4 选择植物，S 铲子，ENTER 开始/提交，F2 重新开始
func (a *App) handleKeyboard() {
	c := a.controller

	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		c.Restart()
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		_ = c.Confirm()
		return
	}

	if c.AcceptingName() {
		a.inputBuf = ebiten.AppendInputChars(a.inputBuf[:0])
		for _, r := range a.inputBuf {
			c.TypeRune(r)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
			c.Backspace()
		}
		return
	}

	for i, key := range []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4} {
		if inpututil.IsKeyJustPressed(key) {
			c.SelectByKey(rune('1' + i))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		c.ToggleShovel()
	}
}

// handlePointer 鼠标左键或触摸点击格子
func (a *App) handlePointer() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		a.clickAt(float64(x), float64(y))
	}

	a.touchIDs = inpututil.AppendJustPressedTouchIDs(a.touchIDs[:0])
	for _, id := range a.touchIDs {
		x, y := ebiten.TouchPosition(id)
		a.clickAt(float64(x), float64(y))
	}
}

func (a *App) clickAt(x, y float64) {
	row, col, ok := a.layout.CellAt(x, y)
	if !ok {
		return
	}
	_ = a.controller.ActOnCell(row, col)
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	snap := a.runtime.Session.Snapshot()
	drawScene(screen, &snap, a.layout, a.controller)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.WindowSize()
}
