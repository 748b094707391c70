package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/photoshare/config"
	"github.com/d60-Lab/photoshare/internal/model"
	"github.com/d60-Lab/photoshare/pkg/database"
)

type repos struct {
	db       *gorm.DB
	users    UserRepository
	posts    PostRepository
	comments CommentRepository
	likes    LikeRepository
}

func setupRepos(tb testing.TB) *repos {
	tb.Helper()
	dsn := filepath.Join(tb.TempDir(), "photoshare.db")
	db, err := database.Open(config.DriverSQLite, dsn, &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(tb, err)
	require.NoError(tb, database.Migrate(db))
	tb.Cleanup(func() { _ = database.Close(db) })
	return &repos{
		db:       db,
		users:    NewUserRepository(db),
		posts:    NewPostRepository(db),
		comments: NewCommentRepository(db),
		likes:    NewLikeRepository(db),
	}
}

func (r *repos) mustUser(tb testing.TB, name string) *model.User {
	tb.Helper()
	u := &model.User{Username: name, Email: name + "@x.com", Password: "secret"}
	require.NoError(tb, r.users.Create(context.Background(), u))
	return u
}

func (r *repos) mustPost(tb testing.TB, author *model.User, n int) *model.Post {
	tb.Helper()
	p := &model.Post{AuthorID: author.ID, ImageURL: fmt.Sprintf("http://x/img%d.png", n)}
	require.NoError(tb, r.posts.Create(context.Background(), p))
	return p
}

func (r *repos) mustComment(tb testing.TB, author *model.User, post *model.Post, body string) *model.Comment {
	tb.Helper()
	c := &model.Comment{AuthorID: author.ID, PostID: post.ID, Body: body}
	require.NoError(tb, r.comments.Create(context.Background(), c))
	return c
}

func (r *repos) mustLike(tb testing.TB, user *model.User, post *model.Post) *model.Like {
	tb.Helper()
	l := &model.Like{UserID: user.ID, PostID: post.ID}
	require.NoError(tb, r.likes.Create(context.Background(), l))
	return l
}
