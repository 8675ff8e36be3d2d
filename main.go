package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/pvzcore/pkg/app"
	"github.com/decker502/pvzcore/pkg/driver"
	"github.com/decker502/pvzcore/pkg/embedded"
)

var (
	verbose     = flag.Bool("verbose", false, "显示详细调试信息")
	configPath  = flag.String("config", "", "数值配置文件路径（默认使用内置 data/game_config.yaml）")
	observeAddr = flag.String("observe", "", "观察服务监听地址，例如 127.0.0.1:8090（为空时不启动）")
)

func main() {
	flag.Parse()

	driver.ConfigureLogging(*verbose)

	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	rt, err := driver.NewRuntime(driver.Config{
		Verbose:     *verbose,
		ConfigPath:  *configPath,
		ObserveAddr: *observeAddr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	gameApp := app.NewApp(rt)

	ebiten.SetWindowSize(gameApp.WindowSize())
	ebiten.SetWindowTitle("植物大战僵尸 - 模拟核心")

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Printf("[Main] Game loop error: %v", err)
		fmt.Fprintf(os.Stderr, "游戏异常退出: %v\n", err)
		rt.Close()
		os.Exit(1)
	}
}
