package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goboard/internal/model"
)

type fakePostRepo struct {
	posts  map[uint]*model.Post
	nextID uint
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[uint]*model.Post{}}
}

func (f *fakePostRepo) Create(post *model.Post) error {
	f.nextID++
	post.ID = f.nextID
	stored := *post
	f.posts[post.ID] = &stored
	return nil
}

func (f *fakePostRepo) GetByID(id uint) (*model.Post, error) {
	if p, ok := f.posts[id]; ok {
		found := *p
		return &found, nil
	}
	return nil, nil
}

func (f *fakePostRepo) List() ([]model.Post, error) {
	var posts []model.Post
	for _, p := range f.posts {
		posts = append(posts, *p)
	}
	return posts, nil
}

func (f *fakePostRepo) Update(post *model.Post) error {
	stored := *post
	f.posts[post.ID] = &stored
	return nil
}

func (f *fakePostRepo) Delete(id uint) error {
	delete(f.posts, id)
	return nil
}

func TestPostCreateAndGet(t *testing.T) {
	svc := NewPostService(newFakePostRepo())

	post, err := svc.Create("  hello world  ")
	require.NoError(t, err)
	assert.Equal(t, "hello world", post.Title)
	assert.NotZero(t, post.ID)

	got, err := svc.Get(post.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, post.Title, got.Title)

	missing, err := svc.Get(999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostCreateEmptyTitle(t *testing.T) {
	svc := NewPostService(newFakePostRepo())

	_, err := svc.Create("   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPostUpdateTitle(t *testing.T) {
	svc := NewPostService(newFakePostRepo())
	post, err := svc.Create("before")
	require.NoError(t, err)

	updated, err := svc.UpdateTitle(post.ID, "after")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "after", updated.Title)

	missing, err := svc.UpdateTitle(999, "whatever")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostDelete(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)
	post, err := svc.Create("doomed")
	require.NoError(t, err)

	ok, err := svc.Delete(post.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, repo.posts)

	// deleting an absent post still reports success
	ok, err = svc.Delete(post.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}
