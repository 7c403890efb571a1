package domain

import "time"

// User represents an application user. HashedPassword never leaves the
// repository layer in enriched read results; it is only present on the
// point lookups used for authentication.
type User struct {
	ID             string    `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	Username       string    `db:"username" json:"username"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	Name           string    `db:"name" json:"name"`
	Bio            string    `db:"bio" json:"bio"`
	Link           string    `db:"link" json:"link"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Post represents a single authored post.
type Post struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Content   string    `db:"content" json:"content"`
	Image     *string   `db:"image" json:"image"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Comment represents a comment on a post.
type Comment struct {
	ID        string    `db:"id" json:"id"`
	PostID    string    `db:"post_id" json:"post_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Conversation kinds.
const (
	ConversationDirect = "direct"
	ConversationGroup  = "group"
)

// Conversation represents a direct or group conversation. LastMessageAt is
// nil until the first message arrives and is updated transactionally with
// every message insert.
type Conversation struct {
	ID            string     `db:"id" json:"id"`
	Kind          string     `db:"kind" json:"kind"`
	Name          *string    `db:"name" json:"name"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	LastMessageAt *time.Time `db:"last_message_at" json:"last_message_at"`
}

// Participant is the membership of a user in a conversation, annotated with
// the username for display.
type Participant struct {
	UserID   string    `db:"user_id" json:"user_id"`
	Username string    `db:"username" json:"username"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}

// Message represents a single message. Messages are append-only; created_at
// is the ordering key.
type Message struct {
	ID             string    `db:"id" json:"id"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	SenderID       string    `db:"sender_id" json:"sender_id"`
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// CommentView is a comment enriched with the author's username.
type CommentView struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// PostView is the denormalized post shape returned by all post listings:
// the post itself, the author's username, the deduplicated list of liking
// user ids, and the full chronological comment list. Likes and Comments
// are always non-nil.
type PostView struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Username  string        `json:"username"`
	Content   string        `json:"content"`
	Image     *string       `json:"image"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Likes     []string      `json:"likes"`
	Comments  []CommentView `json:"comments"`
}

// UserDetail is a public user annotated with the deduplicated follower and
// followee id lists. Both lists are always non-nil.
type UserDetail struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Name      string   `json:"name"`
	Bio       string   `json:"bio"`
	Link      string   `json:"link"`
	Followers []string `json:"followers"`
	Following []string `json:"following"`
}

// UserStats holds the three per-user aggregate counts.
type UserStats struct {
	Posts     int `json:"posts"`
	Followers int `json:"followers"`
	Following int `json:"following"`
}

// ProfileUpdate carries the overwrite-semantics profile fields: absent
// optional fields are stored as empty strings, never NULL.
type ProfileUpdate struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Link     string `json:"link"`
}

// ConversationView is a conversation enriched with its participant list and
// most recent message (nil if the conversation has no messages yet).
type ConversationView struct {
	Conversation
	Participants []Participant `json:"participants"`
	LastMessage  *Message      `json:"last_message"`
}
