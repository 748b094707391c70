package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/d60-Lab/photoshare/internal/model"
)

func BenchmarkLikeWrite_WithDuplicates(b *testing.B) {
	r := setupRepos(b)
	ctx := context.Background()

	// 预创建部分用户与帖子
	users := make([]*model.User, 200)
	for i := range users {
		users[i] = r.mustUser(b, fmt.Sprintf("u%04d", i))
	}
	posts := make([]*model.Post, 200)
	for i := range posts {
		posts[i] = r.mustPost(b, users[i%len(users)], i)
	}

	rng := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		u := users[rng.Intn(len(users))]
		p := posts[rng.Intn(len(posts))]
		// 重复点赞会被唯一键拒绝，计入基准
		_ = r.likes.Create(ctx, &model.Like{UserID: u.ID, PostID: p.ID})
	}
}

func BenchmarkListByForeignKey(b *testing.B) {
	r := setupRepos(b)
	ctx := context.Background()

	// 构造：一个帖子 P0 有 N 个点赞与评论
	const N = 2000
	author := r.mustUser(b, "author")
	p0 := r.mustPost(b, author, 0)
	for i := 1; i <= N; i++ {
		u := r.mustUser(b, fmt.Sprintf("u%d", i))
		r.mustLike(b, u, p0)
		r.mustComment(b, u, p0, "c")
	}

	b.ResetTimer()
	b.Run("LikesByPost", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = r.likes.ListByPost(ctx, p0.ID)
		}
	})
	b.Run("CountLikes", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = r.likes.CountByPost(ctx, p0.ID)
		}
	})
	b.Run("CommentsByPost", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = r.comments.ListByPost(ctx, p0.ID)
		}
	})
}
