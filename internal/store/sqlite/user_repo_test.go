package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialnet/internal/domain"
)

func TestUserRepo_CreateAndLookups(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	require.NotEmpty(t, alice.ID)

	t.Run("GetByEmail", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, alice.ID, got.ID)
	})

	t.Run("GetByUsername", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, alice.ID, got.ID)
	})

	t.Run("MissingUserIsNilNotError", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("DuplicateEmailConflicts", func(t *testing.T) {
		err := repo.Create(ctx, &domain.User{
			Email:          "alice@example.com",
			Username:       "alice2",
			HashedPassword: "x",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("DuplicateUsernameConflicts", func(t *testing.T) {
		err := repo.Create(ctx, &domain.User{
			Email:          "other@example.com",
			Username:       "alice",
			HashedPassword: "x",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestUserRepo_Search(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	follows := NewFollowRepo(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bobby")
	carol := createTestUser(t, db, "carob")
	createTestUser(t, db, "dave")

	require.NoError(t, follows.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, follows.Follow(ctx, carol.ID, bob.ID))

	t.Run("SubstringCaseInsensitive", func(t *testing.T) {
		results, err := repo.Search(ctx, "BOB", alice.ID)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "bobby", results[0].Username)
	})

	t.Run("AnnotatesFollowLists", func(t *testing.T) {
		results, err := repo.Search(ctx, "bob", alice.ID)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.ElementsMatch(t, []string{alice.ID, carol.ID}, results[0].Followers)
		assert.Empty(t, results[0].Following)
		assert.NotNil(t, results[0].Following)
	})

	t.Run("ExcludesCaller", func(t *testing.T) {
		results, err := repo.Search(ctx, "a", alice.ID)
		require.NoError(t, err)
		for _, r := range results {
			assert.NotEqual(t, alice.ID, r.ID)
		}
	})
}

func TestUserRepo_Stats(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	follows := NewFollowRepo(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	createTestPost(t, db, alice.ID, "one")
	createTestPost(t, db, alice.ID, "two")
	require.NoError(t, follows.Follow(ctx, bob.ID, alice.ID))
	require.NoError(t, follows.Follow(ctx, carol.ID, alice.ID))
	require.NoError(t, follows.Follow(ctx, alice.ID, bob.ID))

	stats, err := repo.Stats(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Posts)
	assert.Equal(t, 2, stats.Followers)
	assert.Equal(t, 1, stats.Following)
}

func TestUserRepo_UpdateProfile(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")

	t.Run("OverwritesAllFields", func(t *testing.T) {
		got, err := repo.UpdateProfile(ctx, alice.ID, domain.ProfileUpdate{
			Name:     "Alice",
			Username: "alice",
			Bio:      "hi",
			Link:     "https://example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Name)
		assert.Equal(t, "hi", got.Bio)
	})

	t.Run("MissingFieldsBecomeEmptyStrings", func(t *testing.T) {
		got, err := repo.UpdateProfile(ctx, alice.ID, domain.ProfileUpdate{Username: "alice"})
		require.NoError(t, err)
		assert.Equal(t, "", got.Name)
		assert.Equal(t, "", got.Bio)
		assert.Equal(t, "", got.Link)
	})

	t.Run("UnknownUserIsNotFound", func(t *testing.T) {
		_, err := repo.UpdateProfile(ctx, "missing", domain.ProfileUpdate{Username: "x"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("TakenUsernameConflicts", func(t *testing.T) {
		createTestUser(t, db, "bob")
		_, err := repo.UpdateProfile(ctx, alice.ID, domain.ProfileUpdate{Username: "bob"})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}
