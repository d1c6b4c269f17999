package service

import (
	"context"
	"sync"
	"testing"

	"study_rewards_backend/internal/config"
	"study_rewards_backend/internal/model"
	"study_rewards_backend/internal/repository"
	"study_rewards_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMissionService(db *gorm.DB, policy config.PolicySource, rng util.RandomSource) *DailyMissionService {
	return NewDailyMissionService(
		db,
		repository.NewMissionRepository(db),
		NewCatalogCache(repository.NewCatalogRepository(db), 4),
		newIssuer(db),
		policy,
		rng,
		&recordingNotifier{},
	)
}

func seedSubject(t *testing.T, db *gorm.DB, name string, order int) *model.Subject {
	t.Helper()
	s := &model.Subject{Name: name, DisplayOrder: order}
	require.NoError(t, db.Create(s).Error)
	return s
}

func seedChapter(t *testing.T, db *gorm.DB, subject *model.Subject, title string, published bool) *model.Chapter {
	t.Helper()
	ch := &model.Chapter{Title: title, IsPublished: published}
	if subject != nil {
		ch.SubjectID = &subject.ID
	}
	require.NoError(t, db.Create(ch).Error)
	return ch
}

func TestChooseChapterSubjectPriority(t *testing.T) {
	db := newTestDB(t)
	english := seedSubject(t, db, "English", 2)
	math := seedSubject(t, db, "Math", 1)
	empty := seedSubject(t, db, "Empty", 0)
	seedChapter(t, db, empty, "draft", false)
	seedChapter(t, db, english, "e1", true)
	m1 := seedChapter(t, db, math, "m1", true)
	m2 := seedChapter(t, db, math, "m2", true)

	cache := NewCatalogCache(repository.NewCatalogRepository(db), 4)
	catalog, err := cache.PublishedChapters(context.Background(), 0)
	require.NoError(t, err)

	picked, err := chooseChapter(catalog, &scriptedRandom{values: []int{0}})
	require.NoError(t, err)
	assert.Equal(t, m1.ID, picked.ID)

	picked, err = chooseChapter(catalog, &scriptedRandom{values: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, m2.ID, picked.ID)
}

func TestChooseChapterFallsBackToAllChapters(t *testing.T) {
	db := newTestDB(t)
	seedSubject(t, db, "Math", 1)
	a := seedChapter(t, db, nil, "loose a", true)
	b := seedChapter(t, db, nil, "loose b", true)

	cache := NewCatalogCache(repository.NewCatalogRepository(db), 4)
	catalog, err := cache.PublishedChapters(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, catalog.Groups)

	picked, err := chooseChapter(catalog, &scriptedRandom{values: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, b.ID, picked.ID)
	assert.NotEqual(t, a.ID, picked.ID)
}

func TestAllocateNoChapter(t *testing.T) {
	db := newTestDB(t)
	svc := newMissionService(db, testPolicy(), &scriptedRandom{})

	_, err := svc.Allocate(context.Background(), 1, day(2024, 5, 1))
	assert.ErrorIs(t, err, util.ErrNoChapterAvailable)
}

func TestAllocateIsIdempotentPerDay(t *testing.T) {
	db := newTestDB(t)
	math := seedSubject(t, db, "Math", 1)
	seedChapter(t, db, math, "m1", true)
	seedChapter(t, db, math, "m2", true)
	seedChapter(t, db, math, "m3", true)

	svc := newMissionService(db, testPolicy(), &scriptedRandom{values: []int{0, 2, 1}})
	ctx := context.Background()

	first, err := svc.Allocate(ctx, 1, day(2024, 5, 1))
	require.NoError(t, err)
	second, err := svc.Allocate(ctx, 1, day(2024, 5, 1))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ChapterID, second.ChapterID)
	assert.Equal(t, "2024-05-01", first.MissionDate)
	assert.Equal(t, 300, first.TimeLimitSeconds)
	assert.Equal(t, int64(30), first.RewardPoints)
	assert.Equal(t, model.MissionActive, first.Status)
	require.NotNil(t, first.Chapter)

	count, err := svc.MissionRepo.CountByUserAndDate(ctx, 1, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	next, err := svc.Allocate(ctx, 1, day(2024, 5, 2))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, next.ID)
}

func TestAllocateConcurrentReturnsSameMission(t *testing.T) {
	db := newTestDB(t)
	math := seedSubject(t, db, "Math", 1)
	for _, title := range []string{"m1", "m2", "m3", "m4"} {
		seedChapter(t, db, math, title, true)
	}
	svc := newMissionService(db, testPolicy(), util.NewRuntimeRandom())

	const workers = 8
	var wg sync.WaitGroup
	missions := make([]*model.DailyMission, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := svc.Allocate(context.Background(), 9, day(2024, 5, 1))
			assert.NoError(t, err)
			missions[i] = m
		}(i)
	}
	wg.Wait()

	for _, m := range missions {
		require.NotNil(t, m)
		assert.Equal(t, missions[0].ID, m.ID)
		assert.Equal(t, missions[0].ChapterID, m.ChapterID)
	}
	count, err := svc.MissionRepo.CountByUserAndDate(context.Background(), 9, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAllocateFeatureDisabled(t *testing.T) {
	db := newTestDB(t)
	svc := newMissionService(db, testPolicy(func(p *config.RewardsConfig) { p.Features.DailyMission = false }), &scriptedRandom{})

	_, err := svc.Allocate(context.Background(), 1, day(2024, 5, 1))
	assert.ErrorIs(t, err, util.ErrFeatureDisabled)
}

func TestCompleteMissionRewardsOnce(t *testing.T) {
	db := newTestDB(t)
	seedChapter(t, db, seedSubject(t, db, "Math", 1), "m1", true)
	svc := newMissionService(db, testPolicy(), &scriptedRandom{})
	ctx := context.Background()

	mission, err := svc.Allocate(ctx, 1, day(2024, 5, 1))
	require.NoError(t, err)

	done, err := svc.Complete(ctx, 1, mission.ID, 120, day(2024, 5, 1))
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, int64(30), done.RewardPoints)
	assert.Equal(t, int64(30), done.Balance)

	again, err := svc.Complete(ctx, 1, mission.ID, 100, day(2024, 5, 1))
	require.NoError(t, err)
	assert.False(t, again.Completed)
	assert.Equal(t, int64(30), again.Balance)

	stored, err := svc.MissionRepo.FindByID(ctx, mission.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MissionCompleted, stored.Status)
	require.NotNil(t, stored.ElapsedSeconds)
	assert.Equal(t, 120, *stored.ElapsedSeconds)

	// 完成后当天再次请求仍返回同一条任务
	same, err := svc.Allocate(ctx, 1, day(2024, 5, 1))
	require.NoError(t, err)
	assert.Equal(t, mission.ID, same.ID)
	assert.Equal(t, model.MissionCompleted, same.Status)
}

func TestCompleteMissionRejections(t *testing.T) {
	db := newTestDB(t)
	seedChapter(t, db, seedSubject(t, db, "Math", 1), "m1", true)
	svc := newMissionService(db, testPolicy(), &scriptedRandom{})
	ctx := context.Background()

	mission, err := svc.Allocate(ctx, 1, day(2024, 5, 1))
	require.NoError(t, err)

	_, err = svc.Complete(ctx, 2, mission.ID, 10, day(2024, 5, 1))
	assert.ErrorIs(t, err, util.ErrMissionNotFound)

	_, err = svc.Complete(ctx, 1, mission.ID+100, 10, day(2024, 5, 1))
	assert.ErrorIs(t, err, util.ErrMissionNotFound)

	_, err = svc.Complete(ctx, 1, mission.ID, -1, day(2024, 5, 1))
	assert.ErrorIs(t, err, util.ErrValidation)

	late, err := svc.Complete(ctx, 1, mission.ID, 301, day(2024, 5, 1))
	require.NoError(t, err)
	assert.False(t, late.Completed)
	assert.True(t, late.TimeExceeded)

	stored, err := svc.MissionRepo.FindByID(ctx, mission.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MissionActive, stored.Status)
	assert.Equal(t, int64(0), balanceOf(t, svc.Issuer, 1))
}

func TestCompleteMissionConcurrent(t *testing.T) {
	db := newTestDB(t)
	seedChapter(t, db, seedSubject(t, db, "Math", 1), "m1", true)
	svc := newMissionService(db, testPolicy(), &scriptedRandom{})
	ctx := context.Background()

	mission, err := svc.Allocate(ctx, 1, day(2024, 5, 1))
	require.NoError(t, err)

	const workers = 6
	var wg sync.WaitGroup
	completed := make([]bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.Complete(ctx, 1, mission.ID, 60, day(2024, 5, 1))
			assert.NoError(t, err)
			if res != nil {
				completed[i] = res.Completed
			}
		}(i)
	}
	wg.Wait()

	n := 0
	for _, ok := range completed {
		if ok {
			n++
		}
	}
	assert.Equal(t, 1, n)
	assert.Equal(t, int64(30), balanceOf(t, svc.Issuer, 1))
}
