package service

import (
	"context"
	"fmt"
	"strconv"

	"study_rewards_backend/internal/model"
	"study_rewards_backend/internal/repository"
	"study_rewards_backend/internal/util"
	"study_rewards_backend/pkg/logger"
	"study_rewards_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IssueRequest 一次余额变更
type IssueRequest struct {
	UserID         uint
	Delta          int64
	Reason         model.PointReason
	IdempotencyKey string // 为空表示不做幂等
}

// IssueResult Applied=false 表示幂等重放，调用方按成功处理
type IssueResult struct {
	Balance int64 `json:"balance"`
	Applied bool  `json:"applied"`
	EntryID uint  `json:"entryId"`
}

// RewardIssuer 唯一允许修改用户余额的入口。
// Issue 是事务原语：必须在调用方的事务中执行，与调用方的资源变更一起提交或回滚。
type RewardIssuer struct {
	DB         *gorm.DB
	LedgerRepo *repository.LedgerRepository
}

func NewRewardIssuer(db *gorm.DB, ledgerRepo *repository.LedgerRepository) *RewardIssuer {
	return &RewardIssuer{DB: db, LedgerRepo: ledgerRepo}
}

// Issue 在 tx 中追加一条流水并返回新余额
func (s *RewardIssuer) Issue(tx *gorm.DB, req IssueRequest) (*IssueResult, error) {
	if req.UserID == 0 {
		return nil, util.NewValidationError("user id is required")
	}
	if req.Delta == 0 {
		return nil, util.NewValidationError("delta must not be zero")
	}
	if !req.Reason.Valid() {
		return nil, util.NewValidationError("unknown reason %q", req.Reason)
	}

	ctx := tx.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ledger := s.LedgerRepo.WithTx(tx)

	// 同一用户的变更在账户行锁之后串行，以下读取都在锁内
	if err := ledger.LockAccount(ctx, req.UserID); err != nil {
		return nil, fmt.Errorf("lock point account: %w", err)
	}

	if req.IdempotencyKey != "" {
		replay, err := s.replay(ctx, ledger, req, false)
		if err != nil || replay != nil {
			return replay, err
		}
	}

	balance, err := ledger.LockedBalance(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("read balance: %w", err)
	}

	if req.Delta < 0 && balance+req.Delta < 0 {
		return nil, util.ErrInsufficientBalance
	}

	entry := &model.PointEntry{
		UserID: req.UserID,
		Delta:  req.Delta,
		Reason: req.Reason,
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		entry.IdempotencyKey = &key
	}

	inserted, err := ledger.Append(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("append ledger entry: %w", err)
	}
	if !inserted {
		// 并发请求先一步写入了同一个幂等键
		replay, err := s.replay(ctx, ledger, req, true)
		if err != nil {
			return nil, err
		}
		if replay == nil {
			return nil, fmt.Errorf("idempotency key %q conflicted but entry is missing", req.IdempotencyKey)
		}
		return replay, nil
	}

	monitoring.LedgerEntries.WithLabelValues(string(req.Reason), "true").Inc()

	return &IssueResult{
		Balance: balance + req.Delta,
		Applied: true,
		EntryID: entry.ID,
	}, nil
}

func (s *RewardIssuer) replay(ctx context.Context, ledger *repository.LedgerRepository, req IssueRequest, lock bool) (*IssueResult, error) {
	prior, err := ledger.FindByIdempotencyKey(ctx, req.IdempotencyKey, lock)
	if err != nil {
		return nil, fmt.Errorf("lookup idempotency key: %w", err)
	}
	if prior == nil {
		return nil, nil
	}
	if prior.UserID != req.UserID {
		return nil, util.NewValidationError("idempotency key belongs to another user")
	}

	balance, err := ledger.BalanceAsOf(ctx, prior.UserID, prior.ID)
	if err != nil {
		return nil, fmt.Errorf("read balance as of entry %d: %w", prior.ID, err)
	}

	logger.Log.Debug("reward issue replayed",
		zap.Uint("user_id", req.UserID),
		zap.String("idempotency_key", req.IdempotencyKey))
	monitoring.LedgerEntries.WithLabelValues(string(req.Reason), "false").Inc()

	return &IssueResult{Balance: balance, Applied: false, EntryID: prior.ID}, nil
}

// IssueInTx 自带事务的便捷方法，用于没有其他资源变更的场景（如管理员发放）
func (s *RewardIssuer) IssueInTx(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	var result *IssueResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = s.Issue(tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *RewardIssuer) Balance(ctx context.Context, userID uint) (int64, error) {
	return s.LedgerRepo.Balance(ctx, userID)
}

// PointsSummary 余额与流水分页
type PointsSummary struct {
	Balance int64             `json:"balance"`
	Entries util.PageResponse `json:"entries"`
}

func (s *RewardIssuer) Summary(ctx context.Context, userID uint, page, limit int) (*PointsSummary, error) {
	balance, err := s.LedgerRepo.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries, total, err := s.LedgerRepo.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	return &PointsSummary{
		Balance: balance,
		Entries: util.PageResponse{List: entries, Total: total, Page: page, Limit: limit},
	}, nil
}

// AdminGrantRequest 管理员手动调整积分
type AdminGrantRequest struct {
	UserID         uint   `json:"userId" binding:"required"`
	Delta          int64  `json:"delta" binding:"required"`
	IdempotencyKey string `json:"idempotencyKey" binding:"required,max=120"`
}

func (s *RewardIssuer) AdminGrant(ctx context.Context, req AdminGrantRequest) (*IssueResult, error) {
	return s.IssueInTx(ctx, IssueRequest{
		UserID:         req.UserID,
		Delta:          req.Delta,
		Reason:         model.ReasonAdminGrant,
		IdempotencyKey: "admin:" + strconv.FormatUint(uint64(req.UserID), 10) + ":" + req.IdempotencyKey,
	})
}
