package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"socialnet/internal/domain"
	"socialnet/internal/security"
	"socialnet/internal/service"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) Search(ctx context.Context, query, callerID string) ([]*domain.UserDetail, error) {
	args := m.Called(ctx, query, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.UserDetail), args.Error(1)
}

func (m *MockUserRepo) Stats(ctx context.Context, userID string) (*domain.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserStats), args.Error(1)
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, userID string, p domain.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, userID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func newAuthService(repo *MockUserRepo) *service.AuthService {
	tokenSvc := security.NewTokenService("secret", time.Hour)
	hasher := security.NewPasswordHasher(4) // low cost for tests
	return service.NewAuthService(repo, tokenSvc, hasher)
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := newAuthService(repo)

		repo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, nil)
		repo.On("GetByUsername", mock.Anything, "newuser").Return(nil, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Username == "newuser" && u.HashedPassword != "password1"
		})).Return(nil)

		user, err := svc.Register(context.Background(), service.RegisterInput{
			Email:    "new@example.com",
			Username: "newuser",
			Password: "password1",
		})
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "newuser", user.Username)
		repo.AssertExpectations(t)
	})

	t.Run("MissingFields", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := newAuthService(repo)

		_, err := svc.Register(context.Background(), service.RegisterInput{Email: "a@b.c"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("EmailTaken", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := newAuthService(repo)

		repo.On("GetByEmail", mock.Anything, "taken@example.com").
			Return(&domain.User{Email: "taken@example.com"}, nil)

		_, err := svc.Register(context.Background(), service.RegisterInput{
			Email:    "taken@example.com",
			Username: "someone",
			Password: "password1",
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := newAuthService(repo)

		repo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, nil)
		repo.On("GetByUsername", mock.Anything, "existing").
			Return(&domain.User{Username: "existing"}, nil)

		_, err := svc.Register(context.Background(), service.RegisterInput{
			Email:    "new@example.com",
			Username: "existing",
			Password: "password1",
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
		repo.AssertNotCalled(t, "Create")
	})
}

func TestLogin(t *testing.T) {
	hasher := security.NewPasswordHasher(4)
	hashed, err := hasher.Hash("password1")
	require.NoError(t, err)

	stored := &domain.User{
		ID:             "u1",
		Email:          "alice@example.com",
		Username:       "alice",
		HashedPassword: hashed,
	}

	t.Run("ByUsername", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := newAuthService(repo)

		repo.On("GetByUsername", mock.Anything, "alice").Return(stored, nil)

		resp, err := svc.Login(context.Background(), service.LoginInput{
			Identifier: "alice",
			Password:   "password1",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "bearer", resp.TokenType)
		assert.Equal(t, "u1", resp.User.ID)
	})

	t.Run("ByEmail", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := newAuthService(repo)

		repo.On("GetByEmail", mock.Anything, "alice@example.com").Return(stored, nil)

		resp, err := svc.Login(context.Background(), service.LoginInput{
			Identifier: "alice@example.com",
			Password:   "password1",
		})
		require.NoError(t, err)
		assert.Equal(t, "u1", resp.User.ID)
		repo.AssertNotCalled(t, "GetByUsername")
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := newAuthService(repo)

		repo.On("GetByUsername", mock.Anything, "alice").Return(stored, nil)

		resp, err := svc.Login(context.Background(), service.LoginInput{
			Identifier: "alice",
			Password:   "wrong",
		})
		assert.Error(t, err)
		assert.Nil(t, resp)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := newAuthService(repo)

		repo.On("GetByUsername", mock.Anything, "ghost").Return(nil, nil)

		resp, err := svc.Login(context.Background(), service.LoginInput{
			Identifier: "ghost",
			Password:   "password1",
		})
		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}
