package model

import "time"

// LoginStreak 连续登录记录，每个用户一行
// swagger:model LoginStreak
type LoginStreak struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint      `gorm:"uniqueIndex;not null" json:"userId"`
	CurrentStreak int       `gorm:"not null;default:1" json:"currentStreak"`
	LongestStreak int       `gorm:"not null;default:1" json:"longestStreak"`
	LastLoginDate string    `gorm:"size:10;not null" json:"lastLoginDate"` // 服务日 YYYY-MM-DD
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (LoginStreak) TableName() string {
	return "login_streaks"
}
