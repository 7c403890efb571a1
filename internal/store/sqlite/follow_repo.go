package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"socialnet/internal/domain"
)

type FollowRepo struct {
	db *sql.DB
}

func NewFollowRepo(db *sql.DB) *FollowRepo {
	return &FollowRepo{db: db}
}

var _ domain.FollowRepository = (*FollowRepo)(nil)

// Follow inserts the directed edge. Following twice has no additional
// effect; the primary key absorbs the duplicate.
func (r *FollowRepo) Follow(ctx context.Context, followerID, followeeID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO follows (follower_id, followee_id, created_at)
		VALUES (?, ?, ?)
	`, followerID, followeeID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert follow: %w", classify(err))
	}
	return nil
}

// Unfollow removes the edge; removing a missing edge is a no-op.
func (r *FollowRepo) Unfollow(ctx context.Context, followerID, followeeID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM follows WHERE follower_id = ? AND followee_id = ?
	`, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

func (r *FollowRepo) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM follows WHERE follower_id = ? AND followee_id = ?
	`, followerID, followeeID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("is following: %w", err)
	}
	return true, nil
}

// Followers returns users U such that U follows userID.
func (r *FollowRepo) Followers(ctx context.Context, userID string) ([]*domain.User, error) {
	query := `
		SELECT u.id, u.email, u.username, u.hashed_password, u.name, u.bio, u.link, u.created_at
		FROM users u
		JOIN follows f ON f.follower_id = u.id
		WHERE f.followee_id = ?
		ORDER BY u.username ASC
	`
	return r.listUsers(ctx, query, userID)
}

// Following returns users U such that userID follows U.
func (r *FollowRepo) Following(ctx context.Context, userID string) ([]*domain.User, error) {
	query := `
		SELECT u.id, u.email, u.username, u.hashed_password, u.name, u.bio, u.link, u.created_at
		FROM users u
		JOIN follows f ON f.followee_id = u.id
		WHERE f.follower_id = ?
		ORDER BY u.username ASC
	`
	return r.listUsers(ctx, query, userID)
}

func (r *FollowRepo) FollowersWithDetails(ctx context.Context, userID string) ([]*domain.UserDetail, error) {
	query := `
		SELECT u.id, u.username, u.name, u.bio, u.link,
			(SELECT GROUP_CONCAT(DISTINCT f2.follower_id) FROM follows f2 WHERE f2.followee_id = u.id),
			(SELECT GROUP_CONCAT(DISTINCT f2.followee_id) FROM follows f2 WHERE f2.follower_id = u.id)
		FROM users u
		JOIN follows f ON f.follower_id = u.id
		WHERE f.followee_id = ?
		ORDER BY u.username ASC
	`
	return r.listDetails(ctx, query, userID)
}

func (r *FollowRepo) FollowingWithDetails(ctx context.Context, userID string) ([]*domain.UserDetail, error) {
	query := `
		SELECT u.id, u.username, u.name, u.bio, u.link,
			(SELECT GROUP_CONCAT(DISTINCT f2.follower_id) FROM follows f2 WHERE f2.followee_id = u.id),
			(SELECT GROUP_CONCAT(DISTINCT f2.followee_id) FROM follows f2 WHERE f2.follower_id = u.id)
		FROM users u
		JOIN follows f ON f.followee_id = u.id
		WHERE f.follower_id = ?
		ORDER BY u.username ASC
	`
	return r.listDetails(ctx, query, userID)
}

func (r *FollowRepo) listUsers(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u := &domain.User{}
		if err := rows.Scan(
			&u.ID,
			&u.Email,
			&u.Username,
			&u.HashedPassword,
			&u.Name,
			&u.Bio,
			&u.Link,
			&u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *FollowRepo) listDetails(ctx context.Context, query string, args ...any) ([]*domain.UserDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list user details: %w", err)
	}
	defer rows.Close()

	return collectUserDetails(rows)
}
