package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"study_rewards_backend/internal/config"
	"study_rewards_backend/internal/model"
	"study_rewards_backend/internal/repository"
	"study_rewards_backend/internal/util"
	"study_rewards_backend/pkg/logger"
	"study_rewards_backend/pkg/monitoring"
	"study_rewards_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmitQuestRequest 题目ID -> 选项下标
type SubmitQuestRequest struct {
	Answers map[uint]int `json:"answers" binding:"required,dive,answerindex"`
}

type QuestService struct {
	DB        *gorm.DB
	QuestRepo *repository.QuestRepository
	Issuer    *RewardIssuer
	Policy    config.PolicySource
	Notifier  RewardNotifier
}

func NewQuestService(db *gorm.DB, questRepo *repository.QuestRepository, issuer *RewardIssuer, policy config.PolicySource, notifier RewardNotifier) *QuestService {
	return &QuestService{
		DB:        db,
		QuestRepo: questRepo,
		Issuer:    issuer,
		Policy:    policy,
		Notifier:  notifier,
	}
}

// scoreQuest 逐题判分；未作答或下标越界按错误处理
func scoreQuest(questions []model.QuestQuestion, answers map[uint]int) (score, total int, graded []model.QuestAnswer) {
	graded = make([]model.QuestAnswer, 0, len(questions))
	for _, q := range questions {
		total += q.Points
		answer := model.QuestAnswer{QuestionID: q.ID}
		if idx, ok := answers[q.ID]; ok {
			choice := idx
			answer.ChoiceIndex = &choice
			if idx == q.CorrectIndex {
				answer.IsCorrect = true
				answer.Earned = q.Points
				score += q.Points
			}
		}
		graded = append(graded, answer)
	}
	return score, total, graded
}

// percentage 四舍五入（远离零方向）
func percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) * 100 / float64(total)))
}

func firstClearKey(userID, questID uint) string {
	return fmt.Sprintf("%d:%d", userID, questID)
}

func (s *QuestService) loadPlayable(ctx context.Context, questID uint, now time.Time) (*model.Quest, error) {
	quest, err := s.QuestRepo.FindPublishedWithQuestions(ctx, questID)
	if err != nil {
		return nil, fmt.Errorf("find quest: %w", err)
	}
	if quest == nil {
		return nil, util.ErrQuestNotFound
	}
	if len(quest.Questions) == 0 || quest.NotStartedAt(now) {
		return nil, util.ErrQuestNotAvailable
	}
	return quest, nil
}

// Grade 判分并保存结果；首次通关时在同一事务内发放奖励
func (s *QuestService) Grade(ctx context.Context, userID, questID uint, answers map[uint]int, now time.Time) (*model.QuestResult, error) {
	ctx, span := tracing.StartSpan(ctx, "quest.Grade",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("quest.id", int64(questID)))
	defer span.End()

	policy := config.SnapshotFor(ctx, s.Policy)
	if !policy.Features.Quests {
		return nil, util.ErrFeatureDisabled
	}
	for qid, idx := range answers {
		if idx < 0 {
			return nil, util.NewValidationError("answer for question %d must not be negative", qid)
		}
	}

	quest, err := s.loadPlayable(ctx, questID, now)
	if err != nil {
		return nil, err
	}
	late := quest.EndedAt(now)
	if late && !policy.AllowLateQuestSubmissions {
		return nil, util.ErrQuestNotAvailable
	}

	score, total, graded := scoreQuest(quest.Questions, answers)
	pct := percentage(score, total)

	result := &model.QuestResult{
		UserID:        userID,
		QuestID:       quest.ID,
		Score:         score,
		TotalPoints:   total,
		Percentage:    pct,
		IsCleared:     pct >= quest.PassingScorePct,
		SubmittedLate: late,
		Answers:       graded,
	}

	var balance int64
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quests := s.QuestRepo.WithTx(tx)

		candidate := false
		if result.IsCleared {
			cleared, err := quests.HasCleared(ctx, userID, quest.ID)
			if err != nil {
				return fmt.Errorf("check prior clear: %w", err)
			}
			candidate = !cleared
		}

		if candidate {
			key := firstClearKey(userID, quest.ID)
			row := *result
			row.IsFirstClear = true
			row.FirstClearKey = &key
			row.RewardPointsAwarded = quest.RewardPoints
			inserted, err := quests.CreateResult(ctx, &row)
			if err != nil {
				return fmt.Errorf("insert first clear result: %w", err)
			}
			if inserted {
				*result = row
			} else {
				logger.Log.Debug("first clear taken concurrently",
					zap.Uint("user_id", userID),
					zap.Uint("quest_id", quest.ID))
				candidate = false
			}
		}

		if !candidate {
			result.IsFirstClear = false
			result.FirstClearKey = nil
			result.RewardPointsAwarded = 0
			if _, err := quests.CreateResult(ctx, result); err != nil {
				return fmt.Errorf("insert quest result: %w", err)
			}
			return nil
		}

		if quest.RewardPoints <= 0 {
			return nil
		}
		issued, err := s.Issuer.Issue(tx, IssueRequest{
			UserID:         userID,
			Delta:          quest.RewardPoints,
			Reason:         model.ReasonQuestFirstClear,
			IdempotencyKey: fmt.Sprintf("%s:%d:%d", util.KeyPrefixFirstClear, userID, quest.ID),
		})
		if err != nil {
			return err
		}
		balance = issued.Balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.IsFirstClear {
		monitoring.FirstClears.Inc()
		if result.RewardPointsAwarded > 0 {
			notifyAfterCommit(ctx, s.Notifier, RewardEvent{
				Type:    EventQuestFirstClear,
				UserID:  userID,
				Points:  result.RewardPointsAwarded,
				Balance: balance,
				RefID:   fmt.Sprintf("%d", quest.ID),
			})
		}
	}
	return result, nil
}

// QuestSummary 列表项
type QuestSummary struct {
	model.Quest
	IsExpired bool `json:"isExpired"`
}

// ListAvailable 已开始的已发布任务，已过期的也会返回并标记
func (s *QuestService) ListAvailable(ctx context.Context, now time.Time) ([]QuestSummary, error) {
	if !config.SnapshotFor(ctx, s.Policy).Features.Quests {
		return nil, util.ErrFeatureDisabled
	}
	quests, err := s.QuestRepo.ListAvailable(ctx, now)
	if err != nil {
		return nil, err
	}
	list := make([]QuestSummary, 0, len(quests))
	for i := range quests {
		list = append(list, QuestSummary{Quest: quests[i], IsExpired: quests[i].EndedAt(now)})
	}
	return list, nil
}

// GetForPlay 返回任务及题目，正确答案不会序列化
func (s *QuestService) GetForPlay(ctx context.Context, questID uint, now time.Time) (*model.Quest, error) {
	if !config.SnapshotFor(ctx, s.Policy).Features.Quests {
		return nil, util.ErrFeatureDisabled
	}
	return s.loadPlayable(ctx, questID, now)
}

func (s *QuestService) ListResults(ctx context.Context, userID, questID uint) ([]model.QuestResult, error) {
	return s.QuestRepo.ListResults(ctx, userID, questID)
}
