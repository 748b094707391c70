package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/photoshare/internal/model"
)

type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) error
	Get(ctx context.Context, id int64) (*model.Comment, error)
	UpdateBody(ctx context.Context, id int64, body string) error
	Delete(ctx context.Context, id int64) error
	ListByPost(ctx context.Context, postID int64) ([]*model.Comment, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]*model.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(c).Error; err != nil {
		return classify(err)
	}
	return classify(refreshCreatedAt(db, &model.Comment{}, c.ID, &c.CreatedAt))
}

func (r *commentRepository) Get(ctx context.Context, id int64) (*model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, classify(err)
	}
	return &c, nil
}

func (r *commentRepository) UpdateBody(ctx context.Context, id int64, body string) error {
	tx := r.db.WithContext(ctx).
		Model(&model.Comment{ID: id}).
		Update("body", nullable(body))
	return affected(tx)
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Comment{}, id))
}

func (r *commentRepository) ListByPost(ctx context.Context, postID int64) ([]*model.Comment, error) {
	return r.list(ctx, "post_id = ?", postID)
}

func (r *commentRepository) ListByAuthor(ctx context.Context, authorID int64) ([]*model.Comment, error) {
	return r.list(ctx, "author_id = ?", authorID)
}

func (r *commentRepository) list(ctx context.Context, query string, arg any) ([]*model.Comment, error) {
	var res []*model.Comment
	err := r.db.WithContext(ctx).Where(query, arg).Order("id").Find(&res).Error
	return res, classify(err)
}
