package model

import "time"

type MissionStatus string

const (
	MissionActive    MissionStatus = "active"
	MissionCompleted MissionStatus = "completed"
)

// DailyMission 每个用户每个服务日最多一条
// swagger:model DailyMission
type DailyMission struct {
	ID               uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           uint          `gorm:"not null;uniqueIndex:idx_user_mission_date,priority:1" json:"userId"`
	ChapterID        uint          `gorm:"not null;index" json:"chapterId"`
	MissionDate      string        `gorm:"size:10;not null;uniqueIndex:idx_user_mission_date,priority:2" json:"missionDate"`
	TimeLimitSeconds int           `gorm:"not null" json:"timeLimitSeconds"`
	RewardPoints     int64         `gorm:"not null" json:"rewardPoints"`
	Status           MissionStatus `gorm:"size:16;not null;default:'active'" json:"status"`
	ElapsedSeconds   *int          `json:"elapsedSeconds,omitempty"`
	CompletedAt      *time.Time    `json:"completedAt,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`

	Chapter *Chapter `gorm:"foreignKey:ChapterID" json:"chapter,omitempty"`
}

func (DailyMission) TableName() string {
	return "daily_missions"
}
