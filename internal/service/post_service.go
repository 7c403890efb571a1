package service

import (
	"context"
	"fmt"

	"socialnet/internal/domain"
)

// PostService owns post reads/writes and the ownership policy for deletes.
type PostService struct {
	posts domain.PostRepository
}

func NewPostService(posts domain.PostRepository) *PostService {
	return &PostService{posts: posts}
}

type PostCreateInput struct {
	Content string
	Image   *string
}

func (s *PostService) Create(ctx context.Context, callerID string, in PostCreateInput) (*domain.PostView, error) {
	if in.Content == "" && in.Image == nil {
		return nil, fmt.Errorf("%w: post needs content or an image", domain.ErrInvalidInput)
	}

	post := &domain.Post{
		UserID:  callerID,
		Content: in.Content,
		Image:   in.Image,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, post.ID)
}

func (s *PostService) Get(ctx context.Context, id string) (*domain.PostView, error) {
	return s.posts.GetByID(ctx, id)
}

// Delete removes the caller's own post; deleting another user's post is
// forbidden.
func (s *PostService) Delete(ctx context.Context, callerID, postID string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return domain.ErrNotFound
	}
	if post.UserID != callerID {
		return domain.ErrForbidden
	}
	return s.posts.Delete(ctx, postID)
}

func (s *PostService) Feed(ctx context.Context, callerID string) ([]*domain.PostView, error) {
	return s.posts.Feed(ctx, callerID)
}

func (s *PostService) Explore(ctx context.Context, callerID string) ([]*domain.PostView, error) {
	return s.posts.Explore(ctx, callerID)
}

func (s *PostService) ByUser(ctx context.Context, userID string) ([]*domain.PostView, error) {
	return s.posts.ByUser(ctx, userID)
}

func (s *PostService) Bookmarked(ctx context.Context, callerID string) ([]*domain.PostView, error) {
	return s.posts.Bookmarked(ctx, callerID)
}

func (s *PostService) IsLiked(ctx context.Context, postID, callerID string) (bool, error) {
	return s.posts.IsLiked(ctx, postID, callerID)
}

func (s *PostService) Like(ctx context.Context, postID, callerID string) error {
	return s.posts.Like(ctx, postID, callerID)
}

func (s *PostService) Unlike(ctx context.Context, postID, callerID string) error {
	return s.posts.Unlike(ctx, postID, callerID)
}

func (s *PostService) IsBookmarked(ctx context.Context, postID, callerID string) (bool, error) {
	return s.posts.IsBookmarked(ctx, postID, callerID)
}

func (s *PostService) Bookmark(ctx context.Context, postID, callerID string) error {
	return s.posts.Bookmark(ctx, postID, callerID)
}

func (s *PostService) Unbookmark(ctx context.Context, postID, callerID string) error {
	return s.posts.Unbookmark(ctx, postID, callerID)
}

func (s *PostService) Comments(ctx context.Context, postID string) ([]*domain.CommentView, error) {
	return s.posts.Comments(ctx, postID)
}

func (s *PostService) AddComment(ctx context.Context, callerID, postID, content string) (*domain.Comment, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is required", domain.ErrInvalidInput)
	}
	c := &domain.Comment{
		PostID:  postID,
		UserID:  callerID,
		Content: content,
	}
	if err := s.posts.AddComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
