package app

import (
	"strings"

	"goboard/internal/model"
)

type PostRepository interface {
	Create(post *model.Post) error
	GetByID(id uint) (*model.Post, error)
	List() ([]model.Post, error)
	Update(post *model.Post) error
	Delete(id uint) error
}

type PostService struct {
	posts PostRepository
}

func NewPostService(posts PostRepository) *PostService {
	return &PostService{posts: posts}
}

func (s *PostService) List() ([]model.Post, error) {
	return s.posts.List()
}

func (s *PostService) Get(id uint) (*model.Post, error) {
	if id == 0 {
		return nil, nil
	}
	return s.posts.GetByID(id)
}

func (s *PostService) Create(title string) (*model.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidInput
	}

	post := &model.Post{Title: title}
	if err := s.posts.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdateTitle returns nil without error when the post does not exist.
func (s *PostService) UpdateTitle(id uint, title string) (*model.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidInput
	}

	post, err := s.posts.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, nil
	}

	post.Title = title
	if err := s.posts.Update(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Delete(id uint) (bool, error) {
	if err := s.posts.Delete(id); err != nil {
		return false, err
	}
	return true, nil
}
