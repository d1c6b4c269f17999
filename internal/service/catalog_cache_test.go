package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"study_rewards_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCacheHonoursTTL(t *testing.T) {
	db := newTestDB(t)
	math := seedSubject(t, db, "Math", 1)
	seedChapter(t, db, math, "m1", true)

	cache := NewCatalogCache(repository.NewCatalogRepository(db), 4)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	catalog, err := cache.PublishedChapters(ctx, time.Minute)
	require.NoError(t, err)
	require.Len(t, catalog.All, 1)

	seedChapter(t, db, math, "m2", true)

	catalog, err = cache.PublishedChapters(ctx, time.Minute)
	require.NoError(t, err)
	assert.Len(t, catalog.All, 1, "served from cache")

	now = now.Add(2 * time.Minute)
	catalog, err = cache.PublishedChapters(ctx, time.Minute)
	require.NoError(t, err)
	assert.Len(t, catalog.All, 2)
	require.Len(t, catalog.Groups, 1)
	assert.Len(t, catalog.Groups[0].Chapters, 2)

	seedChapter(t, db, nil, "loose", true)
	cache.Invalidate()
	catalog, err = cache.PublishedChapters(ctx, time.Minute)
	require.NoError(t, err)
	assert.Len(t, catalog.All, 3)
	assert.Len(t, catalog.Groups, 1, "chapters without subject stay out of groups")
}

type failingNotifier struct{ calls atomic.Int32 }

func (n *failingNotifier) Publish(context.Context, RewardEvent) error {
	n.calls.Add(1)
	return errors.New("broker unavailable")
}

// blockingNotifier 在 release 关闭前不返回
type blockingNotifier struct {
	release   chan struct{}
	delivered atomic.Int32
}

func (n *blockingNotifier) Publish(ctx context.Context, _ RewardEvent) error {
	<-n.release
	n.delivered.Add(1)
	return ctx.Err()
}

func TestNotifyAfterCommitSwallowsErrors(t *testing.T) {
	n := &failingNotifier{}
	assert.NotPanics(t, func() {
		notifyAfterCommit(context.Background(), n, RewardEvent{Type: EventLoginBonus, UserID: 1})
	})
	require.True(t, WaitNotifications(time.Second))
	assert.Equal(t, int32(1), n.calls.Load())

	notifyAfterCommit(context.Background(), nil, RewardEvent{})
	assert.NoError(t, LogRewardNotifier{}.Publish(context.Background(), RewardEvent{Type: EventLotteryDraw}))
}

func TestNotifyAfterCommitStampsTime(t *testing.T) {
	n := &recordingNotifier{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	notifyAfterCommit(ctx, n, RewardEvent{Type: EventMissionCompleted, UserID: 2, Points: 30})
	events := n.Events()
	require.Len(t, events, 1)
	assert.False(t, events[0].At.IsZero())
}

func TestNotifyAfterCommitDoesNotBlockOnSlowBroker(t *testing.T) {
	n := &blockingNotifier{release: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())

	returned := make(chan struct{})
	go func() {
		notifyAfterCommit(ctx, n, RewardEvent{Type: EventLotteryDraw, UserID: 3})
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("notifyAfterCommit blocked on a slow publish")
	}

	// 请求结束后投递仍然完成
	cancel()
	assert.False(t, WaitNotifications(20*time.Millisecond))
	close(n.release)
	require.True(t, WaitNotifications(time.Second))
	assert.Equal(t, int32(1), n.delivered.Load())
}
