package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateIfAbsent 在唯一约束下插入记录。
// 冲突时不报错也不中断事务，返回 false，由调用方重新读取已存在的记录。
func CreateIfAbsent(db *gorm.DB, value interface{}) (bool, error) {
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(value)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
