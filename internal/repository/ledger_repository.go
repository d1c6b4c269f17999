package repository

import (
	"context"
	"errors"

	"study_rewards_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerRepository struct {
	DB *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

// WithTx 返回绑定到事务的仓库
func (r *LedgerRepository) WithTx(tx *gorm.DB) *LedgerRepository {
	return &LedgerRepository{DB: tx}
}

// LockAccount 确保账户行存在并对其加写锁，直到事务结束。
// 同一用户的所有余额变更都先经过这一行，从而串行化。
func (r *LedgerRepository) LockAccount(ctx context.Context, userID uint) error {
	db := r.DB.WithContext(ctx)
	if _, err := CreateIfAbsent(db, &model.PointAccount{UserID: userID}); err != nil {
		return err
	}
	return db.Model(&model.PointAccount{}).
		Where("user_id = ?", userID).
		UpdateColumn("version", gorm.Expr("version + 1")).
		Error
}

// Balance 当前余额，即该用户所有流水之和。事务外的只读查询使用。
func (r *LedgerRepository) Balance(ctx context.Context, userID uint) (int64, error) {
	var balance int64
	err := r.DB.WithContext(ctx).Model(&model.PointEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&balance).Error
	return balance, err
}

// LockedBalance 在 LockAccount 之后读取余额。
// 加锁读总是看到最新提交的流水，与事务快照何时建立无关；聚合查询不能加锁，因此逐行求和。
func (r *LedgerRepository) LockedBalance(ctx context.Context, userID uint) (int64, error) {
	return r.lockedSum(ctx, r.DB.WithContext(ctx).Where("user_id = ?", userID))
}

// BalanceAsOf 截至指定流水（含）的余额，加锁读
func (r *LedgerRepository) BalanceAsOf(ctx context.Context, userID, entryID uint) (int64, error) {
	return r.lockedSum(ctx, r.DB.WithContext(ctx).Where("user_id = ? AND id <= ?", userID, entryID))
}

func (r *LedgerRepository) lockedSum(ctx context.Context, query *gorm.DB) (int64, error) {
	var deltas []int64
	err := query.Model(&model.PointEntry{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Pluck("delta", &deltas).Error
	if err != nil {
		return 0, err
	}
	var balance int64
	for _, d := range deltas {
		balance += d
	}
	return balance, nil
}

// FindByIdempotencyKey 按幂等键查找流水，不存在时返回 nil, nil。
// lock 为 true 时使用加锁读，只应在键已确认存在（插入冲突）后使用，避免对空键加间隙锁。
func (r *LedgerRepository) FindByIdempotencyKey(ctx context.Context, key string, lock bool) (*model.PointEntry, error) {
	query := r.DB.WithContext(ctx).Where("idempotency_key = ?", key)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var entry model.PointEntry
	err := query.First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Append 追加流水；带幂等键且键已存在时返回 false
func (r *LedgerRepository) Append(ctx context.Context, entry *model.PointEntry) (bool, error) {
	db := r.DB.WithContext(ctx)
	if entry.IdempotencyKey == nil {
		if err := db.Create(entry).Error; err != nil {
			return false, err
		}
		return true, nil
	}
	return CreateIfAbsent(db, entry)
}

func (r *LedgerRepository) ListByUser(ctx context.Context, userID uint, page, limit int) ([]model.PointEntry, int64, error) {
	var entries []model.PointEntry
	var total int64

	query := r.DB.WithContext(ctx).Model(&model.PointEntry{}).Where("user_id = ?", userID).Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, total, err
}

func (r *LedgerRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.PointEntry{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
