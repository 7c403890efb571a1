package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialnet/internal/domain"
)

func TestConversationRepo_GetOrCreateDirect(t *testing.T) {
	db := newTestDB(t)
	repo := NewConversationRepo(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	first, created, err := repo.GetOrCreateDirect(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.ConversationDirect, first.Kind)

	// Second call finds the same conversation regardless of argument order.
	second, created, err := repo.GetOrCreateDirect(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	ok, err := repo.IsParticipant(ctx, first.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.IsParticipant(ctx, first.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	var count int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM conversations WHERE kind = 'direct'`,
	).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestConversationRepo_CreateGroup(t *testing.T) {
	db := newTestDB(t)
	repo := NewConversationRepo(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	conv, err := repo.CreateGroup(ctx, "trio", []string{alice.ID, bob.ID, carol.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.ConversationGroup, conv.Kind)
	require.NotNil(t, conv.Name)
	assert.Equal(t, "trio", *conv.Name)

	for _, id := range []string{alice.ID, bob.ID, carol.ID} {
		ok, err := repo.IsParticipant(ctx, conv.ID, id)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := repo.IsParticipant(ctx, conv.ID, "stranger")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConversationRepo_ListForUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewConversationRepo(db)
	messages := NewMessageRepo(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	withBob, _, err := repo.GetOrCreateDirect(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	withCarol, _, err := repo.GetOrCreateDirect(ctx, alice.ID, carol.ID)
	require.NoError(t, err)

	t.Run("NoMessagesOrdersByCreation", func(t *testing.T) {
		views, err := repo.ListForUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, withCarol.ID, views[0].ID)
		assert.Equal(t, withBob.ID, views[1].ID)
		assert.Nil(t, views[0].LastMessage)
	})

	t.Run("EnrichesParticipants", func(t *testing.T) {
		views, err := repo.ListForUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, views[1].Participants, 2)
		usernames := []string{views[1].Participants[0].Username, views[1].Participants[1].Username}
		assert.ElementsMatch(t, []string{"alice", "bob"}, usernames)
	})

	t.Run("NewMessageMovesConversationUp", func(t *testing.T) {
		require.NoError(t, messages.Create(ctx, &domain.Message{
			ConversationID: withBob.ID,
			SenderID:       bob.ID,
			Content:        "hey",
		}))

		views, err := repo.ListForUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, withBob.ID, views[0].ID)
		require.NotNil(t, views[0].LastMessage)
		assert.Equal(t, "hey", views[0].LastMessage.Content)
		require.NotNil(t, views[0].LastMessageAt)
	})

	t.Run("NonParticipantSeesNothing", func(t *testing.T) {
		views, err := repo.ListForUser(ctx, "stranger")
		require.NoError(t, err)
		assert.Empty(t, views)
	})
}
