package config

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const (
	// EmptyPoolLose 奖池为空时照常扣费，返回未中奖
	EmptyPoolLose = "lose"
	// EmptyPoolReject 奖池为空时拒绝抽奖，不扣费
	EmptyPoolReject = "reject"
)

type FeatureFlags struct {
	LoginBonus   bool `mapstructure:"login_bonus" json:"loginBonus"`
	DailyMission bool `mapstructure:"daily_mission" json:"dailyMission"`
	Quests       bool `mapstructure:"quests" json:"quests"`
	Lottery      bool `mapstructure:"lottery" json:"lottery"`
}

// RewardsConfig 积分奖励策略，每个请求读取一次快照
type RewardsConfig struct {
	Timezone                  string       `mapstructure:"timezone"`
	StreakBonusPoints         int64        `mapstructure:"streak_bonus_points"`
	MissionTimeLimitSeconds   int          `mapstructure:"mission_time_limit_seconds"`
	MissionRewardPoints       int64        `mapstructure:"mission_reward_points"`
	LotteryCost               int64        `mapstructure:"lottery_cost"`
	DrawMaxAttempts           int          `mapstructure:"draw_max_attempts"`
	EmptyPoolPolicy           string       `mapstructure:"empty_pool_policy"`
	AllowLateQuestSubmissions bool         `mapstructure:"allow_late_quest_submissions"`
	CatalogCacheTTLSeconds    int          `mapstructure:"catalog_cache_ttl_seconds"`
	Features                  FeatureFlags `mapstructure:"features"`
}

func DefaultRewards() RewardsConfig {
	return RewardsConfig{
		Timezone:                  "Asia/Tokyo",
		StreakBonusPoints:         10,
		MissionTimeLimitSeconds:   300,
		MissionRewardPoints:       30,
		LotteryCost:               50,
		DrawMaxAttempts:           5,
		EmptyPoolPolicy:           EmptyPoolLose,
		AllowLateQuestSubmissions: true,
		CatalogCacheTTLSeconds:    60,
		Features: FeatureFlags{
			LoginBonus:   true,
			DailyMission: true,
			Quests:       true,
			Lottery:      true,
		},
	}
}

func (r RewardsConfig) Validate() error {
	if r.LotteryCost <= 0 {
		return fmt.Errorf("rewards.lottery_cost must be positive, got %d", r.LotteryCost)
	}
	if r.StreakBonusPoints < 0 || r.MissionRewardPoints < 0 {
		return fmt.Errorf("rewards bonus points must not be negative")
	}
	if r.MissionTimeLimitSeconds <= 0 {
		return fmt.Errorf("rewards.mission_time_limit_seconds must be positive")
	}
	if r.DrawMaxAttempts <= 0 {
		return fmt.Errorf("rewards.draw_max_attempts must be positive")
	}
	switch r.EmptyPoolPolicy {
	case EmptyPoolLose, EmptyPoolReject:
	default:
		return fmt.Errorf("unknown rewards.empty_pool_policy %q", r.EmptyPoolPolicy)
	}
	if _, err := time.LoadLocation(r.Timezone); err != nil {
		return fmt.Errorf("invalid rewards.timezone %q: %w", r.Timezone, err)
	}
	return nil
}

// CatalogCacheTTL 目录缓存过期时间
func (r RewardsConfig) CatalogCacheTTL() time.Duration {
	return time.Duration(r.CatalogCacheTTLSeconds) * time.Second
}

// PolicySource 提供当前生效的奖励策略
type PolicySource interface {
	Snapshot() RewardsConfig
}

// PolicyStore 保存可热更新的奖励策略
type PolicyStore struct {
	current atomic.Pointer[RewardsConfig]
}

func NewPolicyStore(initial RewardsConfig) *PolicyStore {
	s := &PolicyStore{}
	s.current.Store(&initial)
	return s
}

func (s *PolicyStore) Snapshot() RewardsConfig {
	return *s.current.Load()
}

// Update 替换策略；校验失败时保留旧值
func (s *PolicyStore) Update(next RewardsConfig) error {
	if err := next.Validate(); err != nil {
		return err
	}
	s.current.Store(&next)
	return nil
}

// StaticPolicy 固定策略，用于测试和工具
type StaticPolicy RewardsConfig

func (p StaticPolicy) Snapshot() RewardsConfig {
	return RewardsConfig(p)
}

type policyKey struct{}

// WithPolicy 将本次请求的策略快照放入 ctx
func WithPolicy(ctx context.Context, policy RewardsConfig) context.Context {
	return context.WithValue(ctx, policyKey{}, policy)
}

// SnapshotFor 优先返回请求上已固定的快照，没有时从 src 读取
func SnapshotFor(ctx context.Context, src PolicySource) RewardsConfig {
	if policy, ok := ctx.Value(policyKey{}).(RewardsConfig); ok {
		return policy
	}
	return src.Snapshot()
}
