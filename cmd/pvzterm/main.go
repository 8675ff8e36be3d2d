// pvzterm 终端版驱动
//
// 用法：
//
//	pvzterm [-config game.yaml] [-observe 127.0.0.1:8090] [-verbose -log pvzterm.log] [-mute]
//
// 方向键移动光标，空格在光标处种植/铲除/收集阳光，也可以用鼠标点击格子；
// 1-4 选择植物，S 切换铲子，ENTER 开始/提交名字，F2 重新开始，ESC 退出。
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/decker502/pvzcore/pkg/driver"
)

var (
	verbose     = flag.Bool("verbose", false, "显示详细调试信息（写入 -log 指定的文件）")
	logPath     = flag.String("log", "pvzterm.log", "日志文件路径（仅 -verbose 时使用）")
	configPath  = flag.String("config", "", "数值配置文件路径（默认使用内置默认值）")
	observeAddr = flag.String("observe", "", "观察服务监听地址，例如 127.0.0.1:8090（为空时不启动）")
	mute        = flag.Bool("mute", false, "关闭音效")
)

func main() {
	flag.Parse()

	// 终端被界面占用，详细日志只能写入文件
	driver.ConfigureLogging(*verbose)
	if *verbose {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "无法打开日志文件: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	var sound *Sound
	if !*mute {
		sound = NewSound()
	}
	defer sound.Close()

	rt, err := driver.NewRuntime(driver.Config{
		Verbose:     *verbose,
		ConfigPath:  *configPath,
		ObserveAddr: *observeAddr,
		Hooks:       sound.Hooks(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	term, err := NewTerm(rt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "终端初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer term.Close()

	term.Run()
}
