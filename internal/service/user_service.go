package service

import (
	"context"
	"fmt"

	"socialnet/internal/domain"
)

// UserService owns user reads and the follow-edge policy. Self-follow is
// rejected here; the store itself does not forbid it.
type UserService struct {
	users   domain.UserRepository
	follows domain.FollowRepository
}

func NewUserService(users domain.UserRepository, follows domain.FollowRepository) *UserService {
	return &UserService{users: users, follows: follows}
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetByUsername(ctx, username)
}

func (s *UserService) Search(ctx context.Context, query, callerID string) ([]*domain.UserDetail, error) {
	return s.users.Search(ctx, query, callerID)
}

func (s *UserService) Stats(ctx context.Context, userID string) (*domain.UserStats, error) {
	return s.users.Stats(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, callerID string, p domain.ProfileUpdate) (*domain.User, error) {
	if p.Username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	return s.users.UpdateProfile(ctx, callerID, p)
}

func (s *UserService) Follow(ctx context.Context, callerID, targetID string) error {
	if callerID == targetID {
		return fmt.Errorf("%w: cannot follow yourself", domain.ErrInvalidInput)
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return fmt.Errorf("get target: %w", err)
	}
	if target == nil {
		return domain.ErrNotFound
	}
	return s.follows.Follow(ctx, callerID, targetID)
}

func (s *UserService) Unfollow(ctx context.Context, callerID, targetID string) error {
	return s.follows.Unfollow(ctx, callerID, targetID)
}

func (s *UserService) IsFollowing(ctx context.Context, callerID, targetID string) (bool, error) {
	return s.follows.IsFollowing(ctx, callerID, targetID)
}

func (s *UserService) Followers(ctx context.Context, userID string) ([]*domain.User, error) {
	return s.follows.Followers(ctx, userID)
}

func (s *UserService) Following(ctx context.Context, userID string) ([]*domain.User, error) {
	return s.follows.Following(ctx, userID)
}

func (s *UserService) FollowersWithDetails(ctx context.Context, userID string) ([]*domain.UserDetail, error) {
	return s.follows.FollowersWithDetails(ctx, userID)
}

func (s *UserService) FollowingWithDetails(ctx context.Context, userID string) ([]*domain.UserDetail, error) {
	return s.follows.FollowingWithDetails(ctx, userID)
}
