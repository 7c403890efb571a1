package migrate

import (
	"context"
	"database/sql"
	"fmt"
)

// All returns the full ordered migration set for the socialnet schema.
func All() []Migration {
	return []Migration{
		{
			Name: "0001_create_users",
			Up: func(ctx context.Context, tx *sql.Tx) error {
				return execAll(ctx, tx,
					`CREATE TABLE IF NOT EXISTS users (
						id              TEXT PRIMARY KEY,
						email           TEXT NOT NULL UNIQUE,
						username        TEXT NOT NULL UNIQUE,
						hashed_password TEXT NOT NULL,
						name            TEXT NOT NULL DEFAULT '',
						bio             TEXT NOT NULL DEFAULT '',
						link            TEXT NOT NULL DEFAULT '',
						created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
					)`,
					`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
					`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
				)
			},
			Down: func(ctx context.Context, tx *sql.Tx) error {
				return execAll(ctx, tx, `DROP TABLE IF EXISTS users`)
			},
		},
		{
			Name: "0002_create_posts",
			Up: func(ctx context.Context, tx *sql.Tx) error {
				return execAll(ctx, tx,
					`CREATE TABLE IF NOT EXISTS posts (
						id         TEXT PRIMARY KEY,
						user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
						content    TEXT NOT NULL,
						image      TEXT,
						created_at DATETIME NOT NULL,
						updated_at DATETIME NOT NULL
					)`,
					`CREATE INDEX IF NOT EXISTS idx_posts_user ON posts(user_id)`,
					`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC)`,
				)
			},
			Down: func(ctx context.Context, tx *sql.Tx) error {
				return execAll(ctx, tx, `DROP TABLE IF EXISTS posts`)
			},
		},
		{
			Name: "0003_create_likes",
			Up: func(ctx context.Context, tx *sql.Tx) error {
				return execAll(ctx, tx,
					`CREATE TABLE IF NOT EXISTS likes (
						post_id    TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
						user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
						created_at DATETIME NOT NULL,
						PRIMARY KEY (post_id, user_id)
					)`,
					`CREATE INDEX IF NOT EXISTS idx_likes_user ON likes(user_id)`,
				)
			},
			Down: func(ctx context.Context, tx *sql.Tx) error {
				return execAll(ctx, tx, `DROP TABLE IF EXISTS likes`)
			},
		},
		{
			Name: "0004_create_comments",
			Up: func(ctx context.Context, tx *sql.Tx) error {
				return execAll(ctx, tx,
					`CREATE TABLE IF NOT EXISTS comments (
						id         TEXT PRIMARY KEY,
						post_id    TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
						user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
						content    TEXT NOT NULL,
						created_at DATETIME NOT NULL
					)`,
					`CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id)`,
					`CREATE INDEX IF NOT EXISTS idx_comments_created_at ON comments(created_at)`,
				)
			},
			Down: func(ctx context.Context, tx *sql.Tx) error {
				return execAll(ctx, tx, `DROP TABLE IF EXISTS comments`)
			},
		},
		{
			Name: "0005_create_follows",
			Up: func(ctx context.Context, tx *sql.Tx) error {
				return execAll(ctx, tx,
					`CREATE TABLE IF NOT EXISTS follows (
						follower_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
						followee_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
						created_at  DATETIME NOT NULL,
						PRIMARY KEY (follower_id, followee_id)
					)`,
					`CREATE INDEX IF NOT EXISTS idx_follows_followee ON follows(followee_id)`,
				)
			},
			Down: func(ctx context.Context, tx *sql.Tx) error {
				return execAll(ctx, tx, `DROP TABLE IF EXISTS follows`)
			},
		},
		{
			Name: "0006_create_bookmarks",
			Up: func(ctx context.Context, tx *sql.Tx) error {
				return execAll(ctx, tx,
					`CREATE TABLE IF NOT EXISTS bookmarks (
						user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
						post_id    TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
						created_at DATETIME NOT NULL,
						PRIMARY KEY (user_id, post_id)
					)`,
					`CREATE INDEX IF NOT EXISTS idx_bookmarks_user_created ON bookmarks(user_id, created_at DESC)`,
				)
			},
			Down: func(ctx context.Context, tx *sql.Tx) error {
				return execAll(ctx, tx, `DROP TABLE IF EXISTS bookmarks`)
			},
		},
		{
			Name: "0007_create_conversations",
			Up: func(ctx context.Context, tx *sql.Tx) error {
				return execAll(ctx, tx,
					`CREATE TABLE IF NOT EXISTS conversations (
						id         TEXT PRIMARY KEY,
						kind       TEXT NOT NULL CHECK (kind IN ('direct', 'group')),
						name       TEXT,
						created_at DATETIME NOT NULL
					)`,
					`CREATE TABLE IF NOT EXISTS conversation_participants (
						conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
						user_id         TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
						joined_at       DATETIME NOT NULL,
						PRIMARY KEY (conversation_id, user_id)
					)`,
					`CREATE TABLE IF NOT EXISTS messages (
						id              TEXT PRIMARY KEY,
						conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
						sender_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
						content         TEXT NOT NULL,
						created_at      DATETIME NOT NULL
					)`,
					`CREATE INDEX IF NOT EXISTS idx_conv_participants_user ON conversation_participants(user_id)`,
					`CREATE INDEX IF NOT EXISTS idx_messages_conv_created ON messages(conversation_id, created_at DESC)`,
				)
			},
			Down: func(ctx context.Context, tx *sql.Tx) error {
				return execAll(ctx, tx,
					`DROP TABLE IF EXISTS messages`,
					`DROP TABLE IF EXISTS conversation_participants`,
					`DROP TABLE IF EXISTS conversations`,
				)
			},
		},
		{
			Name: "0008_conversations_last_message_at",
			Up: func(ctx context.Context, tx *sql.Tx) error {
				if err := addColumnIfAbsent(ctx, tx, "conversations", "last_message_at", "DATETIME"); err != nil {
					return err
				}
				return execAll(ctx, tx,
					`CREATE INDEX IF NOT EXISTS idx_conversations_last_message ON conversations(last_message_at DESC)`,
				)
			},
			Down: func(ctx context.Context, tx *sql.Tx) error {
				// SQLite cannot drop the column in place here: rebuild the
				// table without it, copy rows across, and swap names.
				return rebuildTable(ctx, tx, "conversations",
					`CREATE TABLE conversations_new (
						id         TEXT PRIMARY KEY,
						kind       TEXT NOT NULL CHECK (kind IN ('direct', 'group')),
						name       TEXT,
						created_at DATETIME NOT NULL
					)`,
					"id, kind, name, created_at",
				)
			},
		},
		{
			Name: "0009_conversations_direct_key",
			Up: func(ctx context.Context, tx *sql.Tx) error {
				// direct_key holds the normalized participant pair for direct
				// conversations; the unique index makes concurrent duplicate
				// creation impossible.
				if err := addColumnIfAbsent(ctx, tx, "conversations", "direct_key", "TEXT"); err != nil {
					return err
				}
				return execAll(ctx, tx,
					`CREATE UNIQUE INDEX IF NOT EXISTS idx_conversations_direct_key ON conversations(direct_key)`,
				)
			},
			Down: func(ctx context.Context, tx *sql.Tx) error {
				if err := execAll(ctx, tx, `DROP INDEX IF EXISTS idx_conversations_direct_key`); err != nil {
					return err
				}
				return rebuildTable(ctx, tx, "conversations",
					`CREATE TABLE conversations_new (
						id              TEXT PRIMARY KEY,
						kind            TEXT NOT NULL CHECK (kind IN ('direct', 'group')),
						name            TEXT,
						created_at      DATETIME NOT NULL,
						last_message_at DATETIME
					)`,
					"id, kind, name, created_at, last_message_at",
				)
			},
		},
	}
}

func execAll(ctx context.Context, tx *sql.Tx, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	for i, r := range stmt {
		if r == '\n' {
			return stmt[:i]
		}
	}
	return stmt
}

func columnExists(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, fmt.Errorf("scan table_info: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

func addColumnIfAbsent(ctx context.Context, tx *sql.Tx, table, column, colType string) error {
	exists, err := columnExists(ctx, tx, table, column)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(
		`ALTER TABLE %s ADD COLUMN %s %s`, table, column, colType,
	)); err != nil {
		return fmt.Errorf("add column %s.%s: %w", table, column, err)
	}
	return nil
}

// rebuildTable implements column removal for SQLite: create the replacement
// as <table>_new, copy the projected columns, drop the original, and rename.
// Foreign key checks are deferred to commit so tables referencing this one
// survive the swap.
func rebuildTable(ctx context.Context, tx *sql.Tx, table, createNew, columns string) error {
	return execAll(ctx, tx,
		`PRAGMA defer_foreign_keys = ON`,
		createNew,
		fmt.Sprintf(`INSERT INTO %s_new (%s) SELECT %s FROM %s`, table, columns, columns, table),
		fmt.Sprintf(`DROP TABLE %s`, table),
		fmt.Sprintf(`ALTER TABLE %s_new RENAME TO %s`, table, table),
	)
}
