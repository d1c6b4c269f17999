package model

// Subject 科目，按 DisplayOrder 升序决定每日任务的优先级
// swagger:model Subject
type Subject struct {
	BaseModel
	Name         string `gorm:"size:100;not null" json:"name"`
	DisplayOrder int    `gorm:"not null;default:0;index" json:"displayOrder"`
}

func (Subject) TableName() string {
	return "subjects"
}

// swagger:model Chapter
type Chapter struct {
	BaseModel
	SubjectID    *uint  `gorm:"index" json:"subjectId,omitempty"`
	Title        string `gorm:"size:200;not null" json:"title"`
	DisplayOrder int    `gorm:"not null;default:0" json:"displayOrder"`
	IsPublished  bool   `gorm:"not null;default:false;index" json:"isPublished"`
}

func (Chapter) TableName() string {
	return "chapters"
}
