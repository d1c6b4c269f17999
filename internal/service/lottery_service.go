package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

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

const maxRequestKeyLen = 120

var (
	errStockRaced = errors.New("prize stock consumed concurrently")
	errDrawReplay = errors.New("draw request already committed")
)

// DrawResult 抽奖结果；Prize 为空且 Success 为 true 表示未中奖
type DrawResult struct {
	Success          bool         `json:"success"`
	Prize            *model.Prize `json:"prize,omitempty"`
	RemainingBalance int64        `json:"remainingBalance"`
	Message          string       `json:"message,omitempty"`
	DrawID           string       `json:"drawId,omitempty"`
	Replayed         bool         `json:"replayed,omitempty"`
}

// LotteryOverview 抽奖页数据
type LotteryOverview struct {
	Cost           int64         `json:"cost"`
	Balance        int64         `json:"balance"`
	CanDraw        bool          `json:"canDraw"`
	FeatureEnabled bool          `json:"featureEnabled"`
	Prizes         []model.Prize `json:"prizes"`
}

// PrizeUpdate 管理员调整奖品，nil 字段保持不变
type PrizeUpdate struct {
	TotalStock     *int  `json:"totalStock" binding:"omitempty,min=0"`
	RemainingStock *int  `json:"remainingStock" binding:"omitempty,min=0"`
	Weight         *int  `json:"weight" binding:"omitempty,min=0"`
	IsActive       *bool `json:"isActive"`
}

type LotteryService struct {
	DB        *gorm.DB
	PrizeRepo *repository.PrizeRepository
	Issuer    *RewardIssuer
	Policy    config.PolicySource
	Random    util.RandomSource
	Notifier  RewardNotifier
}

func NewLotteryService(
	db *gorm.DB,
	prizeRepo *repository.PrizeRepository,
	issuer *RewardIssuer,
	policy config.PolicySource,
	random util.RandomSource,
	notifier RewardNotifier,
) *LotteryService {
	return &LotteryService{
		DB:        db,
		PrizeRepo: prizeRepo,
		Issuer:    issuer,
		Policy:    policy,
		Random:    random,
		Notifier:  notifier,
	}
}

// drawRequestKey 请求键全局唯一，按用户区分
func drawRequestKey(userID uint, requestKey string) string {
	return fmt.Sprintf("%d:%s", userID, requestKey)
}

// drawIssueKey 客户端请求键和服务端生成的抽奖ID分属不同命名空间，互不冲突
func drawIssueKey(userID uint, requestKey, drawID string) string {
	if requestKey != "" {
		return fmt.Sprintf("%s:%d:req:%s", util.KeyPrefixLottery, userID, requestKey)
	}
	return fmt.Sprintf("%s:%d:auto:%s", util.KeyPrefixLottery, userID, drawID)
}

// pickWeighted 按权重随机选择，candidates 的权重必须都为正
func pickWeighted(candidates []model.Prize, rng util.RandomSource) int {
	total := 0
	for _, p := range candidates {
		total += p.Weight
	}
	r := rng.IntN(total)
	for i, p := range candidates {
		if r < p.Weight {
			return i
		}
		r -= p.Weight
	}
	return len(candidates) - 1
}

func (s *LotteryService) Overview(ctx context.Context, userID uint) (*LotteryOverview, error) {
	policy := config.SnapshotFor(ctx, s.Policy)
	balance, err := s.Issuer.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	prizes, err := s.PrizeRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	drawable := false
	for _, p := range prizes {
		if p.RemainingStock > 0 && p.Weight > 0 {
			drawable = true
			break
		}
	}
	if policy.EmptyPoolPolicy == config.EmptyPoolLose {
		drawable = true
	}

	return &LotteryOverview{
		Cost:           policy.LotteryCost,
		Balance:        balance,
		CanDraw:        policy.Features.Lottery && drawable && balance >= policy.LotteryCost,
		FeatureEnabled: policy.Features.Lottery,
		Prizes:         prizes,
	}, nil
}

// Draw 扣除积分并抽取一个奖品。requestKey 非空时同一个键只会生效一次。
func (s *LotteryService) Draw(ctx context.Context, userID uint, requestKey string) (*DrawResult, error) {
	ctx, span := tracing.StartSpan(ctx, "lottery.Draw",
		attribute.Int64("user.id", int64(userID)),
		attribute.Bool("lottery.keyed", requestKey != ""))
	defer span.End()

	policy := config.SnapshotFor(ctx, s.Policy)
	if !policy.Features.Lottery {
		return nil, util.ErrFeatureDisabled
	}
	if len(requestKey) > maxRequestKeyLen {
		return nil, util.NewValidationError("idempotency key must be at most %d characters", maxRequestKeyLen)
	}

	if requestKey != "" {
		if replayed, err := s.replayDraw(ctx, userID, requestKey); err != nil || replayed != nil {
			return replayed, err
		}
	}

	cost := policy.LotteryCost
	balance, err := s.Issuer.Balance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read balance: %w", err)
	}
	if balance < cost {
		monitoring.LotteryDraws.WithLabelValues("insufficient_balance").Inc()
		return &DrawResult{
			Success:          false,
			RemainingBalance: balance,
			Message:          util.ErrInsufficientBalance.Message,
		}, util.ErrInsufficientBalance
	}

	candidates, err := s.PrizeRepo.ListDrawable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drawable prizes: %w", err)
	}

	if len(candidates) == 0 {
		if policy.EmptyPoolPolicy == config.EmptyPoolReject {
			monitoring.LotteryDraws.WithLabelValues("out_of_stock").Inc()
			return nil, util.ErrOutOfStock
		}
		return s.finish(ctx, userID, nil, cost, requestKey)
	}

	for attempt := 0; attempt < policy.DrawMaxAttempts && len(candidates) > 0; attempt++ {
		idx := pickWeighted(candidates, s.Random)
		prize := candidates[idx]

		result, err := s.finish(ctx, userID, &prize, cost, requestKey)
		if errors.Is(err, errStockRaced) {
			monitoring.StockConflicts.Inc()
			logger.Log.Info("prize stock raced, reselecting",
				zap.Uint("user_id", userID),
				zap.Uint("prize_id", prize.ID),
				zap.Int("attempt", attempt+1))
			candidates = slices.Delete(candidates, idx, idx+1)
			continue
		}
		return result, err
	}

	monitoring.LotteryDraws.WithLabelValues("out_of_stock").Inc()
	return nil, util.ErrOutOfStock
}

// finish 提交一次抽奖并处理重放与通知；prize 为 nil 表示未中奖
func (s *LotteryService) finish(ctx context.Context, userID uint, prize *model.Prize, cost int64, requestKey string) (*DrawResult, error) {
	result, err := s.commitDraw(ctx, userID, prize, cost, requestKey)
	if errors.Is(err, errDrawReplay) {
		replayed, rerr := s.replayDraw(ctx, userID, requestKey)
		if rerr != nil {
			return nil, rerr
		}
		if replayed == nil {
			return nil, fmt.Errorf("draw request %q conflicted but record is missing", requestKey)
		}
		return replayed, nil
	}
	if errors.Is(err, util.ErrInsufficientBalance) {
		// 预检后余额被并发消费
		monitoring.LotteryDraws.WithLabelValues("insufficient_balance").Inc()
		balance, berr := s.Issuer.Balance(ctx, userID)
		if berr != nil {
			return nil, berr
		}
		return &DrawResult{
			Success:          false,
			RemainingBalance: balance,
			Message:          util.ErrInsufficientBalance.Message,
		}, err
	}
	if err != nil {
		return nil, err
	}

	outcome := "prize"
	if result.Prize == nil {
		outcome = "no_prize"
	}
	monitoring.LotteryDraws.WithLabelValues(outcome).Inc()

	event := RewardEvent{
		Type:    EventLotteryDraw,
		UserID:  userID,
		Points:  -cost,
		Balance: result.RemainingBalance,
		RefID:   result.DrawID,
	}
	notifyAfterCommit(ctx, s.Notifier, event)
	return result, nil
}

// commitDraw 扣库存、扣积分、写抽奖记录在同一事务中完成
func (s *LotteryService) commitDraw(ctx context.Context, userID uint, prize *model.Prize, cost int64, requestKey string) (*DrawResult, error) {
	draw := &model.GachaDraw{
		UserID:     userID,
		PointsUsed: cost,
	}
	draw.ID = model.GenerateUUID()
	if requestKey != "" {
		key := drawRequestKey(userID, requestKey)
		draw.RequestKey = &key
	}
	issueKey := drawIssueKey(userID, requestKey, draw.ID)
	if prize != nil {
		id := prize.ID
		draw.PrizeID = &id
	}

	result := &DrawResult{Success: true, DrawID: draw.ID}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prizes := s.PrizeRepo.WithTx(tx)

		if prize != nil {
			ok, err := prizes.DecrementStock(ctx, prize.ID)
			if err != nil {
				return fmt.Errorf("decrement prize stock: %w", err)
			}
			if !ok {
				return errStockRaced
			}
			awarded, err := prizes.FindByID(ctx, prize.ID)
			if err != nil {
				return fmt.Errorf("reload prize: %w", err)
			}
			result.Prize = awarded
		}

		issued, err := s.Issuer.Issue(tx, IssueRequest{
			UserID:         userID,
			Delta:          -cost,
			Reason:         model.ReasonLotteryDraw,
			IdempotencyKey: issueKey,
		})
		if err != nil {
			return err
		}
		if !issued.Applied {
			return errDrawReplay
		}

		inserted, err := prizes.CreateDraw(ctx, draw)
		if err != nil {
			return fmt.Errorf("insert draw: %w", err)
		}
		if !inserted {
			return errDrawReplay
		}
		result.RemainingBalance = issued.Balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	if prize == nil {
		result.Message = "no prize this time"
	}
	return result, nil
}

// replayDraw 返回已提交的同键抽奖；不存在时返回 nil, nil
func (s *LotteryService) replayDraw(ctx context.Context, userID uint, requestKey string) (*DrawResult, error) {
	prior, err := s.PrizeRepo.FindDrawByRequestKey(ctx, userID, drawRequestKey(userID, requestKey))
	if err != nil {
		return nil, fmt.Errorf("find draw by request key: %w", err)
	}
	if prior == nil {
		return nil, nil
	}
	balance, err := s.Issuer.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	monitoring.LotteryDraws.WithLabelValues("replayed").Inc()
	result := &DrawResult{
		Success:          true,
		Prize:            prior.Prize,
		RemainingBalance: balance,
		DrawID:           prior.ID,
		Replayed:         true,
	}
	if prior.Prize == nil {
		result.Message = "no prize this time"
	}
	return result, nil
}

func (s *LotteryService) History(ctx context.Context, userID uint, page, limit int) (*util.PageResponse, error) {
	draws, total, err := s.PrizeRepo.ListDraws(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	return &util.PageResponse{List: draws, Total: total, Page: page, Limit: limit}, nil
}

// UpdatePrizeStock 管理员直接调整库存与权重，不经过抽奖流程
func (s *LotteryService) UpdatePrizeStock(ctx context.Context, prizeID uint, req PrizeUpdate) (*model.Prize, error) {
	prize, err := s.PrizeRepo.FindByID(ctx, prizeID)
	if err != nil {
		return nil, err
	}
	if prize == nil {
		return nil, util.ErrPrizeNotFound
	}

	fields := make(map[string]interface{})
	total, remaining := prize.TotalStock, prize.RemainingStock
	if req.TotalStock != nil {
		total = *req.TotalStock
		fields["total_stock"] = total
	}
	if req.RemainingStock != nil {
		remaining = *req.RemainingStock
		fields["remaining_stock"] = remaining
	}
	if total < 0 || remaining < 0 || remaining > total {
		return nil, util.NewValidationError("stock must satisfy 0 <= remaining (%d) <= total (%d)", remaining, total)
	}
	if req.Weight != nil {
		if *req.Weight < 0 {
			return nil, util.NewValidationError("weight must not be negative")
		}
		fields["weight"] = *req.Weight
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if len(fields) == 0 {
		return prize, nil
	}

	if err := s.PrizeRepo.UpdateFields(ctx, prizeID, fields); err != nil {
		return nil, fmt.Errorf("update prize: %w", err)
	}
	logger.Log.Info("prize updated by admin", zap.Uint("prize_id", prizeID), zap.Any("fields", fields))

	updated, err := s.PrizeRepo.FindByID(ctx, prizeID)
	if err != nil {
		return nil, err
	}
	return updated, nil
}
