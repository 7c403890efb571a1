package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"socialnet/internal/domain"
)

type PostRepo struct {
	db *sql.DB
}

func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{db: db}
}

var _ domain.PostRepository = (*PostRepo)(nil)

// postViewSelect is the shared enrichment shape: post columns, the author's
// username, and the deduplicated liking-user aggregate. Comments are loaded
// with a secondary query per post.
const postViewSelect = `
	SELECT p.id, p.user_id, u.username, p.content, p.image, p.created_at, p.updated_at,
		(SELECT GROUP_CONCAT(DISTINCT l.user_id) FROM likes l WHERE l.post_id = p.id)
	FROM posts p
	JOIN users u ON u.id = p.user_id
`

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (id, user_id, content, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.UserID, p.Content, p.Image, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", classify(err))
	}
	return nil
}

func (r *PostRepo) GetByID(ctx context.Context, id string) (*domain.PostView, error) {
	posts, err := r.listPosts(ctx, postViewSelect+` WHERE p.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return posts[0], nil
}

// Delete removes the post. Likes and comments are removed by the store's
// cascade rules, not here.
func (r *PostRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// Feed returns up to 50 posts authored by the user or anyone the user
// follows, newest first.
func (r *PostRepo) Feed(ctx context.Context, userID string) ([]*domain.PostView, error) {
	query := postViewSelect + `
		WHERE p.user_id = ?
			OR p.user_id IN (SELECT followee_id FROM follows WHERE follower_id = ?)
		ORDER BY p.created_at DESC
		LIMIT 50
	`
	return r.listPosts(ctx, query, userID, userID)
}

// Explore returns up to 50 posts by users the caller is not following and
// did not author, in randomized order.
func (r *PostRepo) Explore(ctx context.Context, userID string) ([]*domain.PostView, error) {
	query := postViewSelect + `
		WHERE p.user_id <> ?
			AND p.user_id NOT IN (SELECT followee_id FROM follows WHERE follower_id = ?)
		ORDER BY RANDOM()
		LIMIT 50
	`
	return r.listPosts(ctx, query, userID, userID)
}

func (r *PostRepo) ByUser(ctx context.Context, userID string) ([]*domain.PostView, error) {
	query := postViewSelect + `
		WHERE p.user_id = ?
		ORDER BY p.created_at DESC
	`
	return r.listPosts(ctx, query, userID)
}

// Bookmarked returns the user's bookmarked posts ordered by bookmark
// creation time descending.
func (r *PostRepo) Bookmarked(ctx context.Context, userID string) ([]*domain.PostView, error) {
	query := postViewSelect + `
		JOIN bookmarks b ON b.post_id = p.id
		WHERE b.user_id = ?
		ORDER BY b.created_at DESC
	`
	return r.listPosts(ctx, query, userID)
}

func (r *PostRepo) IsLiked(ctx context.Context, postID, userID string) (bool, error) {
	return r.edgeExists(ctx, `SELECT 1 FROM likes WHERE post_id = ? AND user_id = ?`, postID, userID)
}

// Like inserts the (post, user) edge; liking twice has no additional effect.
func (r *PostRepo) Like(ctx context.Context, postID, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO likes (post_id, user_id, created_at)
		VALUES (?, ?, ?)
	`, postID, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert like: %w", classify(err))
	}
	return nil
}

// Unlike removes the edge; unliking a non-liked post is a no-op.
func (r *PostRepo) Unlike(ctx context.Context, postID, userID string) error {
	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM likes WHERE post_id = ? AND user_id = ?
	`, postID, userID); err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return nil
}

func (r *PostRepo) IsBookmarked(ctx context.Context, postID, userID string) (bool, error) {
	return r.edgeExists(ctx, `SELECT 1 FROM bookmarks WHERE post_id = ? AND user_id = ?`, postID, userID)
}

func (r *PostRepo) Bookmark(ctx context.Context, postID, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO bookmarks (user_id, post_id, created_at)
		VALUES (?, ?, ?)
	`, userID, postID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert bookmark: %w", classify(err))
	}
	return nil
}

func (r *PostRepo) Unbookmark(ctx context.Context, postID, userID string) error {
	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM bookmarks WHERE post_id = ? AND user_id = ?
	`, postID, userID); err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return nil
}

// Comments returns the post's comments oldest first, each annotated with the
// author's username.
func (r *PostRepo) Comments(ctx context.Context, postID string) ([]*domain.CommentView, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, u.username, c.content, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = ?
		ORDER BY c.created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var res []*domain.CommentView
	for rows.Next() {
		c := &domain.CommentView{}
		if err := rows.Scan(
			&c.ID,
			&c.PostID,
			&c.UserID,
			&c.Username,
			&c.Content,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *PostRepo) AddComment(ctx context.Context, c *domain.Comment) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comments (id, post_id, user_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.PostID, c.UserID, c.Content, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", classify(err))
	}
	return nil
}

func (r *PostRepo) edgeExists(ctx context.Context, query string, args ...any) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("edge exists: %w", err)
	}
	return true, nil
}

func (r *PostRepo) listPosts(ctx context.Context, query string, args ...any) ([]*domain.PostView, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	var posts []*domain.PostView
	for rows.Next() {
		p := &domain.PostView{}
		var likes sql.NullString
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Username,
			&p.Content,
			&p.Image,
			&p.CreatedAt,
			&p.UpdatedAt,
			&likes,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.Likes = splitIDList(likes)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	rows.Close()

	// Secondary query per post; acceptable at this scale.
	for _, p := range posts {
		comments, err := r.Comments(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Comments = make([]domain.CommentView, 0, len(comments))
		for _, c := range comments {
			p.Comments = append(p.Comments, *c)
		}
	}
	return posts, nil
}
