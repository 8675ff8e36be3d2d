package main

import (
	"log"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/decker502/pvzcore/pkg/game"
	"github.com/decker502/pvzcore/pkg/types"
)

const sampleRate = beep.SampleRate(44100)

// Sound 用正弦波提示音代替音效资源
// 扬声器初始化失败时静默运行
type Sound struct {
	ready bool
}

// NewSound 初始化扬声器
func NewSound() *Sound {
	s := &Sound{}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("[Sound] Audio initialization failed: %v", err)
		return s
	}
	s.ready = true
	return s
}

// tone 播放一段指定频率和时长的提示音
func (s *Sound) tone(freq float64, d time.Duration) {
	if s == nil || !s.ready {
		return
	}
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		log.Printf("[Sound] Failed to generate tone: %v", err)
		return
	}
	speaker.Play(beep.Take(sampleRate.N(d), sine))
}

// Hooks 对局事件提示音
// speaker.Play 不阻塞，可以在持有 Session 锁的回调中调用
func (s *Sound) Hooks() game.Hooks {
	if s == nil {
		return game.Hooks{}
	}
	return game.Hooks{
		OnZombieKilled: func(types.ZombieType) {
			s.tone(880, 50*time.Millisecond)
		},
		OnPlantLost: func(types.PlantType, int, int) {
			s.tone(220, 80*time.Millisecond)
		},
		OnGameEnded: func(int, time.Duration) {
			s.tone(110, 600*time.Millisecond)
		},
	}
}

// Close 关闭扬声器
func (s *Sound) Close() {
	if s != nil && s.ready {
		speaker.Close()
		s.ready = false
	}
}
