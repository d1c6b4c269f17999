package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"study_rewards_backend/internal/config"
	"study_rewards_backend/internal/model"
	"study_rewards_backend/internal/repository"
	"study_rewards_backend/internal/util"
	"study_rewards_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 内存 SQLite，单连接使事务串行，效果等同行锁
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func testPolicy(mutate ...func(*config.RewardsConfig)) config.StaticPolicy {
	p := config.DefaultRewards()
	p.Timezone = "UTC"
	for _, m := range mutate {
		m(&p)
	}
	return config.StaticPolicy(p)
}

// recordingNotifier 记录提交后发出的事件
type recordingNotifier struct {
	mu     sync.Mutex
	events []RewardEvent
}

func (n *recordingNotifier) Publish(_ context.Context, event RewardEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

// Events 先等待后台投递完成
func (n *recordingNotifier) Events() []RewardEvent {
	WaitNotifications(time.Second)
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]RewardEvent(nil), n.events...)
}

// scriptedRandom 依次返回预设值（对 n 取模），并发安全
type scriptedRandom struct {
	mu     sync.Mutex
	values []int
	i      int
}

func (r *scriptedRandom) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.i%len(r.values)]
	r.i++
	return v % n
}

// hookRandom 选择前执行 hook，用于在选择与提交之间制造并发冲突
type hookRandom struct {
	hook func()
	next util.RandomSource
}

func (r *hookRandom) IntN(n int) int {
	if r.hook != nil {
		h := r.hook
		r.hook = nil
		h()
	}
	return r.next.IntN(n)
}

func newIssuer(db *gorm.DB) *RewardIssuer {
	return NewRewardIssuer(db, repository.NewLedgerRepository(db))
}

func credit(t *testing.T, issuer *RewardIssuer, userID uint, amount int64) {
	t.Helper()
	_, err := issuer.IssueInTx(context.Background(), IssueRequest{
		UserID: userID,
		Delta:  amount,
		Reason: model.ReasonAdminGrant,
	})
	require.NoError(t, err)
}

func balanceOf(t *testing.T, issuer *RewardIssuer, userID uint) int64 {
	t.Helper()
	balance, err := issuer.Balance(context.Background(), userID)
	require.NoError(t, err)
	return balance
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}
