package model

// User 用户；删除时级联删除其 posts / comments / likes
type User struct {
	ID       int64  `gorm:"primaryKey"`
	Username string `gorm:"type:varchar(50);uniqueIndex:uq_users_username;not null;default:null"`
	Email    string `gorm:"type:varchar(120);uniqueIndex:uq_users_email;not null;default:null"`
	Password string `gorm:"type:varchar(255);not null;default:null"`
	// IsActive 为 nil 时由数据库填默认值 true；显式 false 会被写入
	IsActive *bool  `gorm:"not null;default:true"`
}

func (User) TableName() string { return "users" }

// Active 未设置时视为默认值 true
func (u *User) Active() bool { return u.IsActive == nil || *u.IsActive }

// Serialize 对外表示，不包含 password
func (u *User) Serialize() map[string]any {
	return map[string]any{
		"id":        u.ID,
		"username":  u.Username,
		"email":     u.Email,
		"is_active": u.Active(),
	}
}
