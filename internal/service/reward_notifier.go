package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"study_rewards_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type RewardEventType string

const (
	EventLoginBonus       RewardEventType = "login_bonus"
	EventMissionCompleted RewardEventType = "mission_completed"
	EventQuestFirstClear  RewardEventType = "quest_first_clear"
	EventLotteryDraw      RewardEventType = "lottery_draw"
)

// RewardEvent 提交后发出的奖励事件，由通知服务消费
type RewardEvent struct {
	Type    RewardEventType `json:"type"`
	UserID  uint            `json:"userId"`
	Points  int64           `json:"points"`
	Balance int64           `json:"balance"`
	RefID   string          `json:"refId,omitempty"`
	At      time.Time       `json:"at"`
}

// RewardNotifier 尽力投递，失败不影响已提交的奖励
type RewardNotifier interface {
	Publish(ctx context.Context, event RewardEvent) error
}

// RedisRewardNotifier 通过 Redis Pub/Sub 广播奖励事件
type RedisRewardNotifier struct {
	Redis   *redis.Client
	Channel string
	Timeout time.Duration
}

func NewRedisRewardNotifier(rdb *redis.Client, channel string) *RedisRewardNotifier {
	return &RedisRewardNotifier{Redis: rdb, Channel: channel, Timeout: 500 * time.Millisecond}
}

func (n *RedisRewardNotifier) Publish(ctx context.Context, event RewardEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, n.Timeout)
	defer cancel()
	return n.Redis.Publish(ctx, n.Channel, payload).Err()
}

// LogRewardNotifier 未启用 Redis 时只记录日志
type LogRewardNotifier struct{}

func (LogRewardNotifier) Publish(_ context.Context, event RewardEvent) error {
	logger.Log.Info("reward event",
		zap.String("type", string(event.Type)),
		zap.Uint("user_id", event.UserID),
		zap.Int64("points", event.Points),
		zap.Int64("balance", event.Balance),
		zap.String("ref_id", event.RefID))
	return nil
}

// pendingNotifications 跟踪尚未完成的异步投递，关闭时等待
var pendingNotifications sync.WaitGroup

// notifyAfterCommit 只能在事务提交之后调用。投递在后台进行，不阻塞请求。
func notifyAfterCommit(ctx context.Context, n RewardNotifier, event RewardEvent) {
	if n == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}
	// 请求取消不应影响通知
	ctx = context.WithoutCancel(ctx)
	pendingNotifications.Add(1)
	go func() {
		defer pendingNotifications.Done()
		if err := n.Publish(ctx, event); err != nil {
			logger.Log.Warn("reward notification failed",
				zap.String("type", string(event.Type)),
				zap.Uint("user_id", event.UserID),
				zap.Error(err))
		}
	}()
}

// WaitNotifications 等待后台投递完成，超时返回 false
func WaitNotifications(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		pendingNotifications.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
