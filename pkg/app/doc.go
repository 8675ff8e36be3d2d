// Package app 提供桌面端（ebiten）驱动
//
// App 每帧处理输入并 Pump 一次调度器，绘制时只读取对局快照。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app
