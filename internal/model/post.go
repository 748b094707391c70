package model

import "time"

// Post 内容主体（作者删除时级联删除）
type Post struct {
	ID        int64     `gorm:"primaryKey"`
	AuthorID  int64     `gorm:"index:idx_post_author;not null"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	ImageURL  string    `gorm:"type:varchar(255);not null;default:null"`
	Caption   *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"<-:create;not null;default:CURRENT_TIMESTAMP;autoCreateTime:false"`
}

func (Post) TableName() string { return "posts" }

// Serialize 扁平映射，外键为标量，包含数据库写入的 created_at
func (p *Post) Serialize() map[string]any {
	var caption any
	if p.Caption != nil {
		caption = *p.Caption
	}
	return map[string]any{
		"id":         p.ID,
		"author_id":  p.AuthorID,
		"image_url":  p.ImageURL,
		"caption":    caption,
		"created_at": p.CreatedAt,
	}
}
