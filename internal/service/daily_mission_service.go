package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"study_rewards_backend/internal/config"
	"study_rewards_backend/internal/model"
	"study_rewards_backend/internal/repository"
	"study_rewards_backend/internal/util"
	"study_rewards_backend/pkg/logger"
	"study_rewards_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DailyMissionService 每日任务分配与完成
type DailyMissionService struct {
	DB          *gorm.DB
	MissionRepo *repository.MissionRepository
	Catalog     *CatalogCache
	Issuer      *RewardIssuer
	Policy      config.PolicySource
	Random      util.RandomSource
	Notifier    RewardNotifier
}

func NewDailyMissionService(
	db *gorm.DB,
	missionRepo *repository.MissionRepository,
	catalog *CatalogCache,
	issuer *RewardIssuer,
	policy config.PolicySource,
	random util.RandomSource,
	notifier RewardNotifier,
) *DailyMissionService {
	return &DailyMissionService{
		DB:          db,
		MissionRepo: missionRepo,
		Catalog:     catalog,
		Issuer:      issuer,
		Policy:      policy,
		Random:      random,
		Notifier:    notifier,
	}
}

// chooseChapter 科目优先级高于随机：取排序最前且有已发布章节的科目，在其中均匀随机；
// 没有任何科目有章节时，在全部已发布章节中均匀随机。
func chooseChapter(catalog *ChapterCatalog, rng util.RandomSource) (*model.Chapter, error) {
	if len(catalog.Groups) > 0 {
		chs := catalog.Groups[0].Chapters
		ch := chs[rng.IntN(len(chs))]
		return &ch, nil
	}
	if len(catalog.All) > 0 {
		ch := catalog.All[rng.IntN(len(catalog.All))]
		return &ch, nil
	}
	return nil, util.ErrNoChapterAvailable
}

// Allocate 返回用户当天的任务，不存在时创建。并发请求总是得到同一条任务。
func (s *DailyMissionService) Allocate(ctx context.Context, userID uint, now time.Time) (*model.DailyMission, error) {
	ctx, span := tracing.StartSpan(ctx, "mission.Allocate", attribute.Int64("user.id", int64(userID)))
	defer span.End()

	policy := config.SnapshotFor(ctx, s.Policy)
	if !policy.Features.DailyMission {
		return nil, util.ErrFeatureDisabled
	}
	clock, err := util.NewServiceClock(policy.Timezone)
	if err != nil {
		return nil, err
	}
	today := clock.DayOf(now)

	existing, err := s.MissionRepo.FindByUserAndDate(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("find daily mission: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	catalog, err := s.Catalog.PublishedChapters(ctx, policy.CatalogCacheTTL())
	if err != nil {
		return nil, fmt.Errorf("load chapter catalog: %w", err)
	}
	chapter, err := chooseChapter(catalog, s.Random)
	if err != nil {
		return nil, err
	}

	mission := &model.DailyMission{
		UserID:           userID,
		ChapterID:        chapter.ID,
		MissionDate:      today,
		TimeLimitSeconds: policy.MissionTimeLimitSeconds,
		RewardPoints:     policy.MissionRewardPoints,
		Status:           model.MissionActive,
	}
	created, err := s.MissionRepo.CreateIfAbsent(ctx, mission)
	if err != nil {
		return nil, fmt.Errorf("create daily mission: %w", err)
	}
	if !created {
		// 输给了并发请求，丢弃本次选择，返回胜者
		logger.Log.Debug("daily mission allocated concurrently",
			zap.Uint("user_id", userID),
			zap.String("mission_date", today))
	}

	winner, err := s.MissionRepo.FindByUserAndDate(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("reload daily mission: %w", err)
	}
	if winner == nil {
		return nil, fmt.Errorf("daily mission for user %d on %s vanished", userID, today)
	}
	return winner, nil
}

// CompleteMissionRequest 完成每日任务
type CompleteMissionRequest struct {
	MissionID      uint `json:"missionId" binding:"required"`
	ElapsedSeconds *int `json:"elapsedSeconds" binding:"required,min=0"`
}

// MissionCompletion Completed=false 表示任务已完成过或超时
type MissionCompletion struct {
	Completed    bool  `json:"completed"`
	TimeExceeded bool  `json:"timeExceeded,omitempty"`
	RewardPoints int64 `json:"rewardPoints"`
	Balance      int64 `json:"balance"`
}

// Complete 将任务从 active 置为 completed 并发放奖励，只会成功一次
func (s *DailyMissionService) Complete(ctx context.Context, userID, missionID uint, elapsedSeconds int, now time.Time) (*MissionCompletion, error) {
	ctx, span := tracing.StartSpan(ctx, "mission.Complete",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("mission.id", int64(missionID)))
	defer span.End()

	if elapsedSeconds < 0 {
		return nil, util.NewValidationError("elapsedSeconds must not be negative")
	}
	policy := config.SnapshotFor(ctx, s.Policy)
	if !policy.Features.DailyMission {
		return nil, util.ErrFeatureDisabled
	}

	result := &MissionCompletion{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		missions := s.MissionRepo.WithTx(tx)

		mission, err := missions.FindByID(ctx, missionID)
		if err != nil {
			return fmt.Errorf("find mission: %w", err)
		}
		if mission == nil || mission.UserID != userID {
			return util.ErrMissionNotFound
		}
		if mission.Status == model.MissionCompleted {
			return nil
		}
		if elapsedSeconds > mission.TimeLimitSeconds {
			result.TimeExceeded = true
			return nil
		}

		ok, err := missions.MarkCompleted(ctx, mission.ID, elapsedSeconds, now)
		if err != nil {
			return fmt.Errorf("complete mission: %w", err)
		}
		if !ok {
			return nil
		}
		result.Completed = true

		if mission.RewardPoints <= 0 {
			return nil
		}
		issued, err := s.Issuer.Issue(tx, IssueRequest{
			UserID:         userID,
			Delta:          mission.RewardPoints,
			Reason:         model.ReasonDailyMission,
			IdempotencyKey: util.KeyPrefixMission + ":" + strconv.FormatUint(uint64(mission.ID), 10),
		})
		if err != nil {
			return err
		}
		result.Balance = issued.Balance
		if issued.Applied {
			result.RewardPoints = mission.RewardPoints
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.Completed || result.RewardPoints == 0 {
		balance, err := s.Issuer.Balance(ctx, userID)
		if err != nil {
			return nil, err
		}
		result.Balance = balance
		return result, nil
	}

	notifyAfterCommit(ctx, s.Notifier, RewardEvent{
		Type:    EventMissionCompleted,
		UserID:  userID,
		Points:  result.RewardPoints,
		Balance: result.Balance,
		RefID:   strconv.FormatUint(uint64(missionID), 10),
	})
	return result, nil
}
