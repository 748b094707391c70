package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/photoshare/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	Get(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// Update 更新 username / email / password
	Update(ctx context.Context, u *model.User) error
	SetActive(ctx context.Context, id int64, active bool) error
	// Delete 由数据库级联删除该用户的 posts / comments / likes
	Delete(ctx context.Context, id int64) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	return classify(r.db.WithContext(ctx).Create(u).Error)
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) first(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	// Select 强制写入零值，空字符串会落到 NOT NULL 约束上
	tx := r.db.WithContext(ctx).
		Model(&model.User{ID: u.ID}).
		Select("username", "email", "password").
		Updates(map[string]any{
			"username": nullable(u.Username),
			"email":    nullable(u.Email),
			"password": nullable(u.Password),
		})
	return affected(tx)
}

func (r *userRepository) SetActive(ctx context.Context, id int64, active bool) error {
	tx := r.db.WithContext(ctx).
		Model(&model.User{ID: id}).
		Update("is_active", active)
	return affected(tx)
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.db.WithContext(ctx).Delete(&model.User{}, id))
}
