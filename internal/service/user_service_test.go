package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"socialnet/internal/domain"
	"socialnet/internal/service"
)

type MockFollowRepo struct {
	mock.Mock
}

func (m *MockFollowRepo) Follow(ctx context.Context, followerID, followeeID string) error {
	args := m.Called(ctx, followerID, followeeID)
	return args.Error(0)
}

func (m *MockFollowRepo) Unfollow(ctx context.Context, followerID, followeeID string) error {
	args := m.Called(ctx, followerID, followeeID)
	return args.Error(0)
}

func (m *MockFollowRepo) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepo) Followers(ctx context.Context, userID string) ([]*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockFollowRepo) Following(ctx context.Context, userID string) ([]*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockFollowRepo) FollowersWithDetails(ctx context.Context, userID string) ([]*domain.UserDetail, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.UserDetail), args.Error(1)
}

func (m *MockFollowRepo) FollowingWithDetails(ctx context.Context, userID string) ([]*domain.UserDetail, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.UserDetail), args.Error(1)
}

func TestUserService_Follow(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		users := new(MockUserRepo)
		follows := new(MockFollowRepo)
		svc := service.NewUserService(users, follows)

		users.On("GetByID", mock.Anything, "u2").Return(&domain.User{ID: "u2"}, nil)
		follows.On("Follow", mock.Anything, "u1", "u2").Return(nil)

		require.NoError(t, svc.Follow(context.Background(), "u1", "u2"))
		follows.AssertExpectations(t)
	})

	t.Run("SelfFollowRejected", func(t *testing.T) {
		users := new(MockUserRepo)
		follows := new(MockFollowRepo)
		svc := service.NewUserService(users, follows)

		err := svc.Follow(context.Background(), "u1", "u1")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		follows.AssertNotCalled(t, "Follow")
	})

	t.Run("TargetMissing", func(t *testing.T) {
		users := new(MockUserRepo)
		follows := new(MockFollowRepo)
		svc := service.NewUserService(users, follows)

		users.On("GetByID", mock.Anything, "ghost").Return(nil, nil)

		err := svc.Follow(context.Background(), "u1", "ghost")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		follows.AssertNotCalled(t, "Follow")
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Run("UsernameRequired", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := service.NewUserService(users, new(MockFollowRepo))

		_, err := svc.UpdateProfile(context.Background(), "u1", domain.ProfileUpdate{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		users.AssertNotCalled(t, "UpdateProfile")
	})

	t.Run("DelegatesToStore", func(t *testing.T) {
		users := new(MockUserRepo)
		svc := service.NewUserService(users, new(MockFollowRepo))

		update := domain.ProfileUpdate{Username: "alice", Bio: "hi"}
		users.On("UpdateProfile", mock.Anything, "u1", update).
			Return(&domain.User{ID: "u1", Username: "alice", Bio: "hi"}, nil)

		got, err := svc.UpdateProfile(context.Background(), "u1", update)
		require.NoError(t, err)
		assert.Equal(t, "hi", got.Bio)
	})
}
