package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/photoshare/internal/model"
)

func TestPostCreateAssignsTimestamp(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	alice := r.mustUser(t, "alice")

	caption := "sunset"
	p := &model.Post{AuthorID: alice.ID, ImageURL: "http://x/img.png", Caption: &caption}
	require.NoError(t, r.posts.Create(ctx, p))
	assert.NotZero(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero(), "created_at is assigned by the engine")

	got, err := r.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Caption)
	assert.Equal(t, "sunset", *got.Caption)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))
}

func TestPostCaptionOptional(t *testing.T) {
	r := setupRepos(t)
	p := r.mustPost(t, r.mustUser(t, "alice"), 1)

	got, err := r.posts.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Caption)
}

func TestPostRequiresImageURL(t *testing.T) {
	r := setupRepos(t)
	alice := r.mustUser(t, "alice")

	err := r.posts.Create(context.Background(), &model.Post{AuthorID: alice.ID})
	require.ErrorIs(t, err, ErrRequiredField)
}

func TestPostRequiresExistingAuthor(t *testing.T) {
	r := setupRepos(t)

	err := r.posts.Create(context.Background(), &model.Post{AuthorID: 404, ImageURL: "http://x/a.png"})
	require.ErrorIs(t, err, ErrReferenceViolation)
}

func TestPostUpdateKeepsCreatedAt(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p := r.mustPost(t, r.mustUser(t, "alice"), 1)
	before, err := r.posts.Get(ctx, p.ID)
	require.NoError(t, err)

	caption := "edited"
	p.ImageURL = "http://x/new.png"
	p.Caption = &caption
	require.NoError(t, r.posts.Update(ctx, p))

	after, err := r.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "http://x/new.png", after.ImageURL)
	assert.Equal(t, "edited", *after.Caption)
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))

	p.Caption = nil
	require.NoError(t, r.posts.Update(ctx, p))
	after, err = r.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, after.Caption)

	p.ImageURL = ""
	require.ErrorIs(t, r.posts.Update(ctx, p), ErrRequiredField)
	require.ErrorIs(t, r.posts.Update(ctx, &model.Post{ID: 999, ImageURL: "http://x"}), ErrNotFound)
}

func TestPostListByAuthor(t *testing.T) {
	r := setupRepos(t)
	alice := r.mustUser(t, "alice")
	bob := r.mustUser(t, "bob")
	p1 := r.mustPost(t, alice, 1)
	r.mustPost(t, bob, 2)
	p3 := r.mustPost(t, alice, 3)

	posts, err := r.posts.ListByAuthor(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, p1.ID, posts[0].ID)
	assert.Equal(t, p3.ID, posts[1].ID)

	none, err := r.posts.ListByAuthor(context.Background(), 777)
	require.NoError(t, err)
	assert.Empty(t, none)
}
