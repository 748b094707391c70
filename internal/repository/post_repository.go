package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/photoshare/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	Get(ctx context.Context, id int64) (*model.Post, error)
	// Update 更新 image_url / caption，created_at 不可变
	Update(ctx context.Context, p *model.Post) error
	// Delete 由数据库级联删除该帖子的 comments / likes，不影响作者
	Delete(ctx context.Context, id int64) error
	ListByAuthor(ctx context.Context, authorID int64) ([]*model.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(p).Error; err != nil {
		return classify(err)
	}
	return classify(refreshCreatedAt(db, &model.Post{}, p.ID, &p.CreatedAt))
}

func (r *postRepository) Get(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, classify(err)
	}
	return &p, nil
}

func (r *postRepository) Update(ctx context.Context, p *model.Post) error {
	tx := r.db.WithContext(ctx).
		Model(&model.Post{ID: p.ID}).
		Select("image_url", "caption").
		Updates(map[string]any{
			"image_url": nullable(p.ImageURL),
			"caption":   p.Caption,
		})
	return affected(tx)
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Post{}, id))
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID int64) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("id").Find(&res).Error
	return res, classify(err)
}
