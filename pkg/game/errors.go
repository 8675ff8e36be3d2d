package game

import "errors"

// 命令被拒绝时返回的错误
// 调用方使用 errors.Is 判断，被拒绝的命令不会改变对局状态
var (
	// ErrInvalidTarget 目标格子不可种植（越界、已被占用或植物类型未知）
	ErrInvalidTarget = errors.New("invalid target")
	// ErrInsufficientResources 阳光不足
	ErrInsufficientResources = errors.New("insufficient resources")
	// ErrOnCooldown 卡片冷却中
	ErrOnCooldown = errors.New("on cooldown")
	// ErrEmptyTarget 目标格子没有植物
	ErrEmptyTarget = errors.New("empty target")
	// ErrNotRunning 对局未在进行中
	ErrNotRunning = errors.New("session not running")
	// ErrInvalidTransition 非法的状态切换
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrInvalidName 排行榜名字为空
	ErrInvalidName = errors.New("invalid name")
	// ErrAlreadySubmitted 本局成绩已提交
	ErrAlreadySubmitted = errors.New("score already submitted")
)
