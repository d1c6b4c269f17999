package repository

import (
	"context"
	"errors"

	"study_rewards_backend/internal/model"

	"gorm.io/gorm"
)

type PrizeRepository struct {
	DB *gorm.DB
}

func NewPrizeRepository(db *gorm.DB) *PrizeRepository {
	return &PrizeRepository{DB: db}
}

func (r *PrizeRepository) WithTx(tx *gorm.DB) *PrizeRepository {
	return &PrizeRepository{DB: tx}
}

// ListActive 所有上架奖品（含已抽完的），用于展示
func (r *PrizeRepository) ListActive(ctx context.Context) ([]model.Prize, error) {
	var prizes []model.Prize
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, id ASC").
		Find(&prizes).Error
	return prizes, err
}

// ListDrawable 可参与抽奖的奖品：上架、有库存、权重为正
func (r *PrizeRepository) ListDrawable(ctx context.Context) ([]model.Prize, error) {
	var prizes []model.Prize
	err := r.DB.WithContext(ctx).
		Where("is_active = ? AND remaining_stock > 0 AND weight > 0", true).
		Order("display_order ASC, id ASC").
		Find(&prizes).Error
	return prizes, err
}

// FindByID 不存在时返回 nil, nil
func (r *PrizeRepository) FindByID(ctx context.Context, id uint) (*model.Prize, error) {
	var prize model.Prize
	err := r.DB.WithContext(ctx).First(&prize, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prize, nil
}

// DecrementStock 条件扣减库存：仅当提交时仍有库存才成功
func (r *PrizeRepository) DecrementStock(ctx context.Context, id uint) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.Prize{}).
		Where("id = ? AND is_active = ? AND remaining_stock > 0", id, true).
		Update("remaining_stock", gorm.Expr("remaining_stock - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// UpdateFields 管理员直接修改奖品字段
func (r *PrizeRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(&model.Prize{}).Where("id = ?", id).Updates(fields).Error
}

// CreateDraw 插入抽奖记录；请求键重复时返回 false
func (r *PrizeRepository) CreateDraw(ctx context.Context, draw *model.GachaDraw) (bool, error) {
	db := r.DB.WithContext(ctx).Omit("Prize")
	if draw.RequestKey == nil {
		if err := db.Create(draw).Error; err != nil {
			return false, err
		}
		return true, nil
	}
	return CreateIfAbsent(db, draw)
}

// FindDrawByRequestKey 不存在时返回 nil, nil
func (r *PrizeRepository) FindDrawByRequestKey(ctx context.Context, userID uint, key string) (*model.GachaDraw, error) {
	var draw model.GachaDraw
	err := r.DB.WithContext(ctx).
		Preload("Prize").
		Where("user_id = ? AND request_key = ?", userID, key).
		First(&draw).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

func (r *PrizeRepository) ListDraws(ctx context.Context, userID uint, page, limit int) ([]model.GachaDraw, int64, error) {
	var draws []model.GachaDraw
	var total int64

	query := r.DB.WithContext(ctx).Model(&model.GachaDraw{}).Where("user_id = ?", userID).Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("Prize").Order("created_at DESC").Offset(offset).Limit(limit).Find(&draws).Error
	return draws, total, err
}

func (r *PrizeRepository) CountDrawsForPrize(ctx context.Context, prizeID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.GachaDraw{}).Where("prize_id = ?", prizeID).Count(&count).Error
	return count, err
}
