package model

// swagger:model Prize
type Prize struct {
	BaseModel
	Name           string `gorm:"size:100;not null" json:"name"`
	PrizeType      string `gorm:"size:32;not null" json:"prizeType"`
	TotalStock     int    `gorm:"not null;default:0" json:"totalStock"`
	RemainingStock int    `gorm:"not null;default:0" json:"remainingStock"`
	Weight         int    `gorm:"not null;default:1" json:"weight"`
	IsActive       bool   `gorm:"not null;default:true;index" json:"isActive"`
	DisplayOrder   int    `gorm:"not null;default:0" json:"displayOrder"`
}

func (Prize) TableName() string {
	return "prizes"
}

// GachaDraw 抽奖记录，PrizeID 为空表示未中奖
// swagger:model GachaDraw
type GachaDraw struct {
	UUIDBase
	UserID     uint    `gorm:"not null;index" json:"userId"`
	PrizeID    *uint   `gorm:"index" json:"prizeId,omitempty"`
	PointsUsed int64   `gorm:"not null" json:"pointsUsed"`
	RequestKey *string `gorm:"size:191;uniqueIndex" json:"-"`

	Prize *Prize `gorm:"foreignKey:PrizeID" json:"prize,omitempty"`
}

func (GachaDraw) TableName() string {
	return "gacha_draws"
}
