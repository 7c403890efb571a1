package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"socialnet/internal/domain"
	"socialnet/internal/migrate"
)

// newTestDB opens an in-memory database with the full schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = migrate.NewRunner(db).Migrate(context.Background())
	require.NoError(t, err)
	return db
}

func createTestUser(t *testing.T, db *sql.DB, username string) *domain.User {
	t.Helper()

	u := &domain.User{
		Email:          username + "@example.com",
		Username:       username,
		HashedPassword: "x",
	}
	require.NoError(t, NewUserRepo(db).Create(context.Background(), u))
	return u
}

func createTestPost(t *testing.T, db *sql.DB, userID, content string) *domain.Post {
	t.Helper()

	p := &domain.Post{UserID: userID, Content: content}
	require.NoError(t, NewPostRepo(db).Create(context.Background(), p))
	return p
}
