package model

import "time"

type PointReason string

const (
	ReasonLoginStreak     PointReason = "login_streak"
	ReasonDailyMission    PointReason = "daily_mission"
	ReasonQuestFirstClear PointReason = "quest_first_clear"
	ReasonLotteryDraw     PointReason = "lottery_draw"
	ReasonAdminGrant      PointReason = "admin_grant"
)

func (r PointReason) Valid() bool {
	switch r {
	case ReasonLoginStreak, ReasonDailyMission, ReasonQuestFirstClear, ReasonLotteryDraw, ReasonAdminGrant:
		return true
	}
	return false
}

// PointAccount 每个用户一行，仅用于串行化同一用户的余额变更，不存余额
type PointAccount struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	Version   int64     `gorm:"not null;default:0" json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (PointAccount) TableName() string {
	return "point_accounts"
}

// PointEntry 积分流水，只追加；余额 = Σ delta
// swagger:model PointEntry
type PointEntry struct {
	ID             uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint        `gorm:"index;not null" json:"userId"`
	Delta          int64       `gorm:"not null" json:"delta"`
	Reason         PointReason `gorm:"size:32;not null" json:"reason"`
	IdempotencyKey *string     `gorm:"size:191;uniqueIndex" json:"idempotencyKey,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
}

func (PointEntry) TableName() string {
	return "point_entries"
}
