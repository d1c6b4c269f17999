package model

import (
	"time"

	"gorm.io/datatypes"
)

// swagger:model Quest
type Quest struct {
	BaseModel
	Title           string     `gorm:"size:200;not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	PassingScorePct int        `gorm:"not null;default:80" json:"passingScorePct"`
	RewardPoints    int64      `gorm:"not null;default:0" json:"rewardPoints"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	IsPublished     bool       `gorm:"not null;default:false;index" json:"isPublished"`

	Questions []QuestQuestion `gorm:"foreignKey:QuestID" json:"questions,omitempty"`
}

func (Quest) TableName() string {
	return "quests"
}

// NotStartedAt 判断在 t 时刻任务是否尚未开始
func (q *Quest) NotStartedAt(t time.Time) bool {
	return q.StartDate != nil && t.Before(*q.StartDate)
}

// EndedAt 判断在 t 时刻任务是否已过有效期
func (q *Quest) EndedAt(t time.Time) bool {
	return q.EndDate != nil && t.After(*q.EndDate)
}

// swagger:model QuestQuestion
type QuestQuestion struct {
	BaseModel
	QuestID      uint                        `gorm:"not null;index" json:"questId"`
	Prompt       string                      `gorm:"type:text" json:"prompt"`
	Choices      datatypes.JSONSlice[string] `json:"choices"`
	CorrectIndex int                         `gorm:"not null" json:"-"`
	Points       int                         `gorm:"not null;default:1" json:"points"`
	OrderNum     int                         `gorm:"not null;default:0" json:"orderNum"`
}

func (QuestQuestion) TableName() string {
	return "quest_questions"
}

// QuestAnswer 单题作答记录，随结果一起保存
type QuestAnswer struct {
	QuestionID  uint `json:"questionId"`
	ChoiceIndex *int `json:"choiceIndex"`
	IsCorrect   bool `json:"isCorrect"`
	Earned      int  `json:"earned"`
}

// QuestResult 提交结果，创建后不可修改。
// FirstClearKey 仅在首通记录上非空，由唯一索引保证每个(用户,任务)至多一条首通。
// swagger:model QuestResult
type QuestResult struct {
	ID                  uint                             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID              uint                             `gorm:"not null;index:idx_quest_result_user_quest,priority:1" json:"userId"`
	QuestID             uint                             `gorm:"not null;index:idx_quest_result_user_quest,priority:2" json:"questId"`
	Score               int                              `gorm:"not null" json:"score"`
	TotalPoints         int                              `gorm:"not null" json:"totalPoints"`
	Percentage          int                              `gorm:"not null" json:"percentage"`
	IsCleared           bool                             `gorm:"not null;default:false" json:"isCleared"`
	IsFirstClear        bool                             `gorm:"not null;default:false" json:"isFirstClear"`
	FirstClearKey       *string                          `gorm:"size:64;uniqueIndex" json:"-"`
	RewardPointsAwarded int64                            `gorm:"not null;default:0" json:"rewardPointsAwarded"`
	SubmittedLate       bool                             `gorm:"not null;default:false" json:"submittedLate"`
	Answers             datatypes.JSONSlice[QuestAnswer] `json:"answers"`
	CreatedAt           time.Time                        `json:"createdAt"`
}

func (QuestResult) TableName() string {
	return "quest_results"
}
