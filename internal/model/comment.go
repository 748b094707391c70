package model

import "time"

// Comment 评论，随作者或帖子级联删除
type Comment struct {
	ID        int64     `gorm:"primaryKey"`
	Body      string    `gorm:"type:text;not null;default:null"`
	AuthorID  int64     `gorm:"index:idx_comment_author;not null"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	PostID    int64     `gorm:"index:idx_comment_post;not null"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"<-:create;not null;default:CURRENT_TIMESTAMP;autoCreateTime:false"`
}

func (Comment) TableName() string { return "comments" }

// Serialize 扁平映射，外键为标量，包含数据库写入的 created_at
func (c *Comment) Serialize() map[string]any {
	return map[string]any{
		"id":         c.ID,
		"body":       c.Body,
		"author_id":  c.AuthorID,
		"post_id":    c.PostID,
		"created_at": c.CreatedAt,
	}
}
