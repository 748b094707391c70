package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/photoshare/internal/model"
)

func TestDeletePostCascadesToCommentsAndLikes(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	alice := r.mustUser(t, "alice")
	bob := r.mustUser(t, "bob")
	post := r.mustPost(t, alice, 1)
	kept := r.mustPost(t, alice, 2)

	c := r.mustComment(t, bob, post, "hi")
	l := r.mustLike(t, bob, post)
	keptComment := r.mustComment(t, bob, kept, "still here")

	require.NoError(t, r.posts.Delete(ctx, post.ID))

	_, err := r.posts.Get(ctx, post.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = r.comments.Get(ctx, c.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = r.likes.Get(ctx, l.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// 作者与其他帖子不受影响
	_, err = r.users.Get(ctx, alice.ID)
	require.NoError(t, err)
	_, err = r.comments.Get(ctx, keptComment.ID)
	require.NoError(t, err)
	require.ErrorIs(t, r.posts.Delete(ctx, post.ID), ErrNotFound)
}

// alice 发帖、点赞、重复点赞失败；删除 alice 后其所有直接与间接数据均消失
func TestDeleteUserScenario(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()

	alice := &model.User{Username: "alice", Email: "a@x.com", Password: "secret"}
	require.NoError(t, r.users.Create(ctx, alice))
	post := &model.Post{AuthorID: alice.ID, ImageURL: "http://x/img.png"}
	require.NoError(t, r.posts.Create(ctx, post))
	like := &model.Like{UserID: alice.ID, PostID: post.ID}
	require.NoError(t, r.likes.Create(ctx, like))
	require.ErrorIs(t, r.likes.Create(ctx, &model.Like{UserID: alice.ID, PostID: post.ID}), ErrUniqueViolation)

	bob := r.mustUser(t, "bob")
	bobPost := r.mustPost(t, bob, 2)
	bobOnAlice := r.mustComment(t, bob, post, "on alice's post")
	bobLikesAlice := r.mustLike(t, bob, post)
	aliceOnBob := r.mustComment(t, alice, bobPost, "alice was here")
	aliceLikesBob := r.mustLike(t, alice, bobPost)
	bobOnBob := r.mustComment(t, bob, bobPost, "bob's own")
	bobLikesBob := r.mustLike(t, bob, bobPost)

	require.NoError(t, r.users.Delete(ctx, alice.ID))

	_, err := r.users.Get(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.posts.Get(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	for _, id := range []int64{bobOnAlice.ID, aliceOnBob.ID} {
		_, err = r.comments.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	for _, id := range []int64{like.ID, bobLikesAlice.ID, aliceLikesBob.ID} {
		_, err = r.likes.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	}

	// bob 的数据只剩与 alice 无关的部分
	_, err = r.users.Get(ctx, bob.ID)
	require.NoError(t, err)
	comments, err := r.comments.ListByPost(ctx, bobPost.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{bobOnBob.ID}, commentIDs(comments))
	likes, err := r.likes.ListByPost(ctx, bobPost.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{bobLikesBob.ID}, likeIDs(likes))

	var remaining int64
	require.NoError(t, r.db.Model(&model.Post{}).Where("author_id = ?", alice.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}
