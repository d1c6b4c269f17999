package service

import (
	"context"
	"fmt"
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

// LoginBonusResult 登录奖励结果
type LoginBonusResult struct {
	Awarded       bool   `json:"awarded"`
	Streak        int    `json:"streak"`
	LongestStreak int    `json:"longestStreak"`
	IsNewRecord   bool   `json:"isNewRecord"`
	BonusPoints   int64  `json:"bonusPoints"`
	Balance       int64  `json:"balance"`
	LoginDate     string `json:"loginDate"`
}

// StreakService 连续登录统计与登录奖励
type StreakService struct {
	DB         *gorm.DB
	StreakRepo *repository.StreakRepository
	Issuer     *RewardIssuer
	Policy     config.PolicySource
	Notifier   RewardNotifier
}

func NewStreakService(db *gorm.DB, streakRepo *repository.StreakRepository, issuer *RewardIssuer, policy config.PolicySource, notifier RewardNotifier) *StreakService {
	return &StreakService{
		DB:         db,
		StreakRepo: streakRepo,
		Issuer:     issuer,
		Policy:     policy,
		Notifier:   notifier,
	}
}

// nextStreak 根据上次登录日计算本次连续天数；同日或日期倒退返回 ok=false
func nextStreak(last string, current int, today string) (int, bool, error) {
	if last >= today {
		return current, false, nil
	}
	yesterday, err := util.PrevDay(today)
	if err != nil {
		return 0, false, err
	}
	if last == yesterday {
		return current + 1, true, nil
	}
	return 1, true, nil
}

// RecordLogin 记录一次登录。同一服务日重复调用不会重复发放奖励。
func (s *StreakService) RecordLogin(ctx context.Context, userID uint, now time.Time) (*LoginBonusResult, error) {
	ctx, span := tracing.StartSpan(ctx, "streak.RecordLogin", attribute.Int64("user.id", int64(userID)))
	defer span.End()

	policy := config.SnapshotFor(ctx, s.Policy)
	clock, err := util.NewServiceClock(policy.Timezone)
	if err != nil {
		return nil, err
	}
	today := clock.DayOf(now)

	result := &LoginBonusResult{LoginDate: today}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		streaks := s.StreakRepo.WithTx(tx)

		transitioned := false
		longestBefore := 0

		created, err := streaks.CreateFirst(ctx, &model.LoginStreak{
			UserID:        userID,
			CurrentStreak: 1,
			LongestStreak: 1,
			LastLoginDate: today,
		})
		if err != nil {
			return fmt.Errorf("create login streak: %w", err)
		}

		if created {
			transitioned = true
			result.Streak = 1
			result.LongestStreak = 1
		} else {
			row, err := streaks.FindByUser(ctx, userID)
			if err != nil {
				return fmt.Errorf("load login streak: %w", err)
			}
			if row == nil {
				return fmt.Errorf("login streak for user %d vanished", userID)
			}
			result.Streak = row.CurrentStreak
			result.LongestStreak = row.LongestStreak
			longestBefore = row.LongestStreak

			next, advance, err := nextStreak(row.LastLoginDate, row.CurrentStreak, today)
			if err != nil {
				return err
			}
			if advance {
				longest := max(row.LongestStreak, next)
				ok, err := streaks.Advance(ctx, userID, row.LastLoginDate, model.LoginStreak{
					CurrentStreak: next,
					LongestStreak: longest,
					LastLoginDate: today,
				})
				if err != nil {
					return fmt.Errorf("advance login streak: %w", err)
				}
				if ok {
					transitioned = true
					result.Streak = next
					result.LongestStreak = longest
				} else {
					// 并发请求已推进，按同日重复登录处理
					fresh, err := streaks.FindByUser(ctx, userID)
					if err != nil {
						return fmt.Errorf("reload login streak: %w", err)
					}
					if fresh != nil {
						result.Streak = fresh.CurrentStreak
						result.LongestStreak = fresh.LongestStreak
					}
					logger.Log.Debug("login streak advanced concurrently", zap.Uint("user_id", userID))
				}
			}
		}

		if !transitioned {
			return nil
		}
		result.IsNewRecord = result.Streak > longestBefore

		if !policy.Features.LoginBonus || policy.StreakBonusPoints <= 0 {
			return nil
		}

		issued, err := s.Issuer.Issue(tx, IssueRequest{
			UserID:         userID,
			Delta:          policy.StreakBonusPoints,
			Reason:         model.ReasonLoginStreak,
			IdempotencyKey: fmt.Sprintf("%s:%d:%s", util.KeyPrefixStreak, userID, today),
		})
		if err != nil {
			return err
		}
		result.Awarded = issued.Applied
		result.Balance = issued.Balance
		if issued.Applied {
			result.BonusPoints = policy.StreakBonusPoints
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.Awarded {
		balance, err := s.Issuer.Balance(ctx, userID)
		if err != nil {
			return nil, err
		}
		result.Balance = balance
		return result, nil
	}

	notifyAfterCommit(ctx, s.Notifier, RewardEvent{
		Type:    EventLoginBonus,
		UserID:  userID,
		Points:  result.BonusPoints,
		Balance: result.Balance,
		RefID:   today,
	})
	return result, nil
}

// StreakStatus 当前连续登录状态
type StreakStatus struct {
	CurrentStreak  int    `json:"currentStreak"`
	LongestStreak  int    `json:"longestStreak"`
	LastLoginDate  string `json:"lastLoginDate,omitempty"`
	ClaimedToday   bool   `json:"claimedToday"`
	BonusPoints    int64  `json:"bonusPoints"`
	FeatureEnabled bool   `json:"featureEnabled"`
}

func (s *StreakService) Status(ctx context.Context, userID uint, now time.Time) (*StreakStatus, error) {
	policy := config.SnapshotFor(ctx, s.Policy)
	clock, err := util.NewServiceClock(policy.Timezone)
	if err != nil {
		return nil, err
	}

	status := &StreakStatus{
		BonusPoints:    policy.StreakBonusPoints,
		FeatureEnabled: policy.Features.LoginBonus,
	}
	row, err := s.StreakRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return status, nil
	}

	today := clock.DayOf(now)
	status.LongestStreak = row.LongestStreak
	status.LastLoginDate = row.LastLoginDate
	status.ClaimedToday = row.LastLoginDate == today

	// 已断签时展示为 0
	yesterday, err := util.PrevDay(today)
	if err != nil {
		return nil, err
	}
	if row.LastLoginDate == today || row.LastLoginDate == yesterday {
		status.CurrentStreak = row.CurrentStreak
	}
	return status, nil
}
