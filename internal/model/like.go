package model

import "time"

// LikeUniqueConstraint (user_id, post_id) 复合唯一键，同一用户对同一帖子只能点赞一次
const LikeUniqueConstraint = "uq_user_post_like"

// Like 点赞
type Like struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_user_post_like"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	PostID    int64     `gorm:"not null;uniqueIndex:uq_user_post_like;index:idx_like_post"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"<-:create;not null;default:CURRENT_TIMESTAMP;autoCreateTime:false"`
}

func (Like) TableName() string { return "likes" }

// Serialize 扁平映射，外键为标量，包含数据库写入的 created_at
func (l *Like) Serialize() map[string]any {
	return map[string]any{
		"id":         l.ID,
		"user_id":    l.UserID,
		"post_id":    l.PostID,
		"created_at": l.CreatedAt,
	}
}
