package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/photoshare/internal/model"
)

type LikeRepository interface {
	// Create 重复点赞返回 ErrUniqueViolation（uq_user_post_like）
	Create(ctx context.Context, l *model.Like) error
	Get(ctx context.Context, id int64) (*model.Like, error)
	Delete(ctx context.Context, id int64) error
	// DeleteByPair 取消点赞
	DeleteByPair(ctx context.Context, userID, postID int64) error
	Exists(ctx context.Context, userID, postID int64) (bool, error)
	ListByPost(ctx context.Context, postID int64) ([]*model.Like, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Like, error)
	CountByPost(ctx context.Context, postID int64) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Create(ctx context.Context, l *model.Like) error {
	// 不使用 OnConflict DoNothing：唯一键冲突需要暴露给调用方
	db := r.db.WithContext(ctx)
	if err := db.Create(l).Error; err != nil {
		return classify(err)
	}
	return classify(refreshCreatedAt(db, &model.Like{}, l.ID, &l.CreatedAt))
}

func (r *likeRepository) Get(ctx context.Context, id int64) (*model.Like, error) {
	var l model.Like
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, classify(err)
	}
	return &l, nil
}

func (r *likeRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Like{}, id))
}

func (r *likeRepository) DeleteByPair(ctx context.Context, userID, postID int64) error {
	tx := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Like{})
	return affected(tx)
}

func (r *likeRepository) Exists(ctx context.Context, userID, postID int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&cnt).Error; err != nil {
		return false, classify(err)
	}
	return cnt > 0, nil
}

func (r *likeRepository) ListByPost(ctx context.Context, postID int64) ([]*model.Like, error) {
	return r.list(ctx, "post_id = ?", postID)
}

func (r *likeRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Like, error) {
	return r.list(ctx, "user_id = ?", userID)
}

func (r *likeRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).Where("post_id = ?", postID).Count(&cnt).Error
	return cnt, classify(err)
}

func (r *likeRepository) list(ctx context.Context, query string, arg any) ([]*model.Like, error) {
	var res []*model.Like
	err := r.db.WithContext(ctx).Where(query, arg).Order("id").Find(&res).Error
	return res, classify(err)
}
