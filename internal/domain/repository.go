package domain

import (
	"context"
	"time"
)

// UserRepository defines persistence operations for users. Point lookups
// return (nil, nil) when no record exists.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	// Search matches usernames case-insensitively by substring, excludes the
	// given user, and returns at most 20 results annotated with follower and
	// followee id lists.
	Search(ctx context.Context, query, excludeUserID string) ([]*UserDetail, error)
	Stats(ctx context.Context, userID string) (*UserStats, error)
	UpdateProfile(ctx context.Context, userID string, p ProfileUpdate) (*User, error)
}

// FollowRepository defines operations over the directed follow edge.
// Follow is idempotent; Unfollow on a missing edge is a no-op.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	// Followers returns users who follow userID; Following returns users
	// whom userID follows.
	Followers(ctx context.Context, userID string) ([]*User, error)
	Following(ctx context.Context, userID string) ([]*User, error)
	FollowersWithDetails(ctx context.Context, userID string) ([]*UserDetail, error)
	FollowingWithDetails(ctx context.Context, userID string) ([]*UserDetail, error)
}

// PostRepository defines persistence operations for posts, likes, bookmarks,
// and comments. All listings return fully enriched PostViews.
type PostRepository interface {
	Create(ctx context.Context, p *Post) error
	GetByID(ctx context.Context, id string) (*PostView, error)
	// Delete removes the post; likes and comments go with it via the store's
	// cascade rules.
	Delete(ctx context.Context, id string) error

	// Feed returns up to 50 posts by userID or anyone userID follows, newest
	// first. Explore returns up to 50 posts by users the caller neither is
	// nor follows, in randomized order. ByUser is uncapped, newest first.
	// Bookmarked is ordered by bookmark creation time descending.
	Feed(ctx context.Context, userID string) ([]*PostView, error)
	Explore(ctx context.Context, userID string) ([]*PostView, error)
	ByUser(ctx context.Context, userID string) ([]*PostView, error)
	Bookmarked(ctx context.Context, userID string) ([]*PostView, error)

	IsLiked(ctx context.Context, postID, userID string) (bool, error)
	Like(ctx context.Context, postID, userID string) error
	Unlike(ctx context.Context, postID, userID string) error

	IsBookmarked(ctx context.Context, postID, userID string) (bool, error)
	Bookmark(ctx context.Context, postID, userID string) error
	Unbookmark(ctx context.Context, postID, userID string) error

	Comments(ctx context.Context, postID string) ([]*CommentView, error)
	AddComment(ctx context.Context, c *Comment) error
}

// ConversationRepository defines persistence operations for conversations
// and participant membership.
type ConversationRepository interface {
	// GetOrCreateDirect returns the existing direct conversation between the
	// two users, or atomically creates it with both participant rows. The
	// boolean is true only when a new conversation was created.
	GetOrCreateDirect(ctx context.Context, userA, userB string) (*Conversation, bool, error)
	CreateGroup(ctx context.Context, name string, memberIDs []string) (*Conversation, error)
	GetByID(ctx context.Context, id string) (*Conversation, error)
	ListForUser(ctx context.Context, userID string) ([]*ConversationView, error)
	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)
}

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	// Create inserts the message and updates the parent conversation's
	// last_message_at to the same timestamp in one transaction.
	Create(ctx context.Context, m *Message) error
	// ListForConversation returns up to limit messages, optionally strictly
	// older than before, in ascending chronological order.
	ListForConversation(ctx context.Context, conversationID string, limit int, before *time.Time) ([]*Message, error)
}
