package repository

import (
	"context"
	"errors"
	"time"

	"study_rewards_backend/internal/model"

	"gorm.io/gorm"
)

type StreakRepository struct {
	DB *gorm.DB
}

func NewStreakRepository(db *gorm.DB) *StreakRepository {
	return &StreakRepository{DB: db}
}

func (r *StreakRepository) WithTx(tx *gorm.DB) *StreakRepository {
	return &StreakRepository{DB: tx}
}

// FindByUser 不存在时返回 nil, nil
func (r *StreakRepository) FindByUser(ctx context.Context, userID uint) (*model.LoginStreak, error) {
	var streak model.LoginStreak
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&streak).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &streak, nil
}

// CreateFirst 首次登录时插入；并发下只有一个请求返回 true
func (r *StreakRepository) CreateFirst(ctx context.Context, streak *model.LoginStreak) (bool, error) {
	return CreateIfAbsent(r.DB.WithContext(ctx), streak)
}

// Advance 以 last_login_date 做比较并交换：只有仍停留在 expectedLast 的行会被更新
func (r *StreakRepository) Advance(ctx context.Context, userID uint, expectedLast string, next model.LoginStreak) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.LoginStreak{}).
		Where("user_id = ? AND last_login_date = ?", userID, expectedLast).
		Updates(map[string]interface{}{
			"current_streak":  next.CurrentStreak,
			"longest_streak":  next.LongestStreak,
			"last_login_date": next.LastLoginDate,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
