package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goboard/internal/model"
)

func TestPostCRUD(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))

	post := &model.Post{Title: "first"}
	require.NoError(t, repo.Create(post))
	require.NotZero(t, post.ID)

	got, err := repo.GetByID(post.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "first", got.Title)

	got.Title = "renamed"
	require.NoError(t, repo.Update(got))

	reloaded, err := repo.GetByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", reloaded.Title)

	require.NoError(t, repo.Delete(post.ID))
	gone, err := repo.GetByID(post.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestPostGetByIDMissing(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))

	post, err := repo.GetByID(123)
	require.NoError(t, err)
	assert.Nil(t, post)
}

func TestPostList(t *testing.T) {
	repo := NewPostRepository(newTestDB(t))

	require.NoError(t, repo.Create(&model.Post{Title: "one"}))
	require.NoError(t, repo.Create(&model.Post{Title: "two"}))

	posts, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}
