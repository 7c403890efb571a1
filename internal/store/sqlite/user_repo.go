package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"socialnet/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO users (id, email, username, hashed_password, name, bio, link, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Email, u.Username, u.HashedPassword, u.Name, u.Bio, u.Link, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", classify(err))
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, email, username, hashed_password, name, bio, link, created_at FROM users WHERE id = ?`
	return r.scanUser(ctx, query, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, username, hashed_password, name, bio, link, created_at FROM users WHERE email = ?`
	return r.scanUser(ctx, query, email)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT id, email, username, hashed_password, name, bio, link, created_at FROM users WHERE username = ?`
	return r.scanUser(ctx, query, username)
}

// Search matches usernames by substring (SQLite LIKE is case-insensitive for
// ASCII), excludes the given user, and annotates each hit with its follower
// and followee id lists.
func (r *UserRepo) Search(ctx context.Context, query, excludeUserID string) ([]*domain.UserDetail, error) {
	q := `
		SELECT u.id, u.username, u.name, u.bio, u.link,
			(SELECT GROUP_CONCAT(DISTINCT f.follower_id) FROM follows f WHERE f.followee_id = u.id),
			(SELECT GROUP_CONCAT(DISTINCT f.followee_id) FROM follows f WHERE f.follower_id = u.id)
		FROM users u
		WHERE u.id <> ? AND u.username LIKE '%' || ? || '%'
		ORDER BY u.username ASC
		LIMIT 20
	`
	rows, err := r.db.QueryContext(ctx, q, excludeUserID, query)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	return collectUserDetails(rows)
}

func (r *UserRepo) Stats(ctx context.Context, userID string) (*domain.UserStats, error) {
	stats := &domain.UserStats{}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE user_id = ?`, userID,
	).Scan(&stats.Posts); err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE followee_id = ?`, userID,
	).Scan(&stats.Followers); err != nil {
		return nil, fmt.Errorf("count followers: %w", err)
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = ?`, userID,
	).Scan(&stats.Following); err != nil {
		return nil, fmt.Errorf("count following: %w", err)
	}
	return stats, nil
}

// UpdateProfile overwrites the profile fields and returns the refreshed
// user. Missing optional fields arrive as empty strings and are stored as
// such.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID string, p domain.ProfileUpdate) (*domain.User, error) {
	query := `
		UPDATE users
		SET name = ?, username = ?, bio = ?, link = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query, p.Name, p.Username, p.Bio, p.Link, userID)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", classify(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, userID)
}

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.HashedPassword,
		&u.Name,
		&u.Bio,
		&u.Link,
		&u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

// collectUserDetails scans rows of the detail shape shared by Search and the
// follower/following listings.
func collectUserDetails(rows *sql.Rows) ([]*domain.UserDetail, error) {
	var res []*domain.UserDetail
	for rows.Next() {
		d := &domain.UserDetail{}
		var followers, following sql.NullString
		if err := rows.Scan(
			&d.ID,
			&d.Username,
			&d.Name,
			&d.Bio,
			&d.Link,
			&followers,
			&following,
		); err != nil {
			return nil, fmt.Errorf("scan user detail: %w", err)
		}
		d.Followers = splitIDList(followers)
		d.Following = splitIDList(following)
		res = append(res, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user details: %w", err)
	}
	return res, nil
}
