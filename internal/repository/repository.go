package repository

import (
	"time"

	"gorm.io/gorm"
)

// nullable 将空字符串映射为 NULL，与插入时省略字段的语义一致
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// refreshCreatedAt 驱动不支持 RETURNING 时回读数据库分配的 created_at
func refreshCreatedAt(db *gorm.DB, table any, id int64, createdAt *time.Time) error {
	if !createdAt.IsZero() {
		return nil
	}
	return db.Model(table).Select("created_at").Where("id = ?", id).Row().Scan(createdAt)
}
