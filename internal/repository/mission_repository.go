package repository

import (
	"context"
	"errors"
	"time"

	"study_rewards_backend/internal/model"

	"gorm.io/gorm"
)

type MissionRepository struct {
	DB *gorm.DB
}

func NewMissionRepository(db *gorm.DB) *MissionRepository {
	return &MissionRepository{DB: db}
}

func (r *MissionRepository) WithTx(tx *gorm.DB) *MissionRepository {
	return &MissionRepository{DB: tx}
}

// FindByUserAndDate 查找用户某服务日的任务，不存在时返回 nil, nil
func (r *MissionRepository) FindByUserAndDate(ctx context.Context, userID uint, date string) (*model.DailyMission, error) {
	var mission model.DailyMission
	err := r.DB.WithContext(ctx).
		Preload("Chapter").
		Where("user_id = ? AND mission_date = ?", userID, date).
		First(&mission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mission, nil
}

// FindByID 不存在时返回 nil, nil
func (r *MissionRepository) FindByID(ctx context.Context, id uint) (*model.DailyMission, error) {
	var mission model.DailyMission
	err := r.DB.WithContext(ctx).First(&mission, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mission, nil
}

// CreateIfAbsent 受 (user_id, mission_date) 唯一约束保护
func (r *MissionRepository) CreateIfAbsent(ctx context.Context, mission *model.DailyMission) (bool, error) {
	return CreateIfAbsent(r.DB.WithContext(ctx).Omit("Chapter"), mission)
}

// MarkCompleted 仅当任务仍为 active 时更新为 completed
func (r *MissionRepository) MarkCompleted(ctx context.Context, id uint, elapsedSeconds int, at time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.DailyMission{}).
		Where("id = ? AND status = ?", id, model.MissionActive).
		Updates(map[string]interface{}{
			"status":          model.MissionCompleted,
			"elapsed_seconds": elapsedSeconds,
			"completed_at":    at,
			"updated_at":      at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *MissionRepository) CountByUserAndDate(ctx context.Context, userID uint, date string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.DailyMission{}).
		Where("user_id = ? AND mission_date = ?", userID, date).
		Count(&count).Error
	return count, err
}
