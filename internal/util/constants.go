package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// 幂等键前缀
const (
	KeyPrefixStreak     = "streak"
	KeyPrefixMission    = "mission"
	KeyPrefixFirstClear = "quest-first-clear"
	KeyPrefixLottery    = "lottery"
)

// 分页默认值
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
