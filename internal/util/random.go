package util

import "math/rand/v2"

// RandomSource 抽奖和任务分配使用的随机源，测试中可注入固定序列
type RandomSource interface {
	// IntN 返回 [0, n) 的随机整数，n 必须大于 0
	IntN(n int) int
}

type runtimeRandom struct{}

// 顶层函数由运行时以 ChaCha8 播种，可并发调用
func (runtimeRandom) IntN(n int) int {
	return rand.IntN(n)
}

// NewRuntimeRandom 返回生产环境使用的随机源
func NewRuntimeRandom() RandomSource {
	return runtimeRandom{}
}

// NewSeededRandom 返回可复现的随机源（非并发安全）
func NewSeededRandom(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
