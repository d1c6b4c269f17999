package repository

import (
	"context"
	"errors"
	"time"

	"study_rewards_backend/internal/model"

	"gorm.io/gorm"
)

type QuestRepository struct {
	DB *gorm.DB
}

func NewQuestRepository(db *gorm.DB) *QuestRepository {
	return &QuestRepository{DB: db}
}

func (r *QuestRepository) WithTx(tx *gorm.DB) *QuestRepository {
	return &QuestRepository{DB: tx}
}

// FindPublishedWithQuestions 查找已发布任务及其题目（按 order_num 排序），不存在时返回 nil, nil
func (r *QuestRepository) FindPublishedWithQuestions(ctx context.Context, id uint) (*model.Quest, error) {
	var quest model.Quest
	err := r.DB.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC, id ASC")
		}).
		Where("id = ? AND is_published = ?", id, true).
		First(&quest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quest, nil
}

// ListAvailable 返回在 at 时刻已开始的已发布任务，包含已过期的
func (r *QuestRepository) ListAvailable(ctx context.Context, at time.Time) ([]model.Quest, error) {
	var quests []model.Quest
	err := r.DB.WithContext(ctx).
		Where("is_published = ?", true).
		Where("start_date IS NULL OR start_date <= ?", at).
		Order("id DESC").
		Find(&quests).Error
	return quests, err
}

// HasCleared 用户是否已有通关记录
func (r *QuestRepository) HasCleared(ctx context.Context, userID, questID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.QuestResult{}).
		Where("user_id = ? AND quest_id = ? AND is_cleared = ?", userID, questID, true).
		Count(&count).Error
	return count > 0, err
}

// CreateResult 插入结果；带首通键且已存在首通记录时返回 false
func (r *QuestRepository) CreateResult(ctx context.Context, result *model.QuestResult) (bool, error) {
	db := r.DB.WithContext(ctx)
	if result.FirstClearKey == nil {
		if err := db.Create(result).Error; err != nil {
			return false, err
		}
		return true, nil
	}
	return CreateIfAbsent(db, result)
}

func (r *QuestRepository) ListResults(ctx context.Context, userID, questID uint) ([]model.QuestResult, error) {
	var results []model.QuestResult
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND quest_id = ?", userID, questID).
		Order("id ASC").
		Find(&results).Error
	return results, err
}
