package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"socialnet/internal/domain"
)

type ConversationRepo struct {
	db *sql.DB
}

func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

var _ domain.ConversationRepository = (*ConversationRepo)(nil)

// directKey normalizes a participant pair into the unique key stored on
// direct conversations.
func directKey(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}

// GetOrCreateDirect finds the direct conversation between the two users or
// creates it together with both participant rows in one transaction. Two
// racing calls cannot both create: the unique index on direct_key rejects
// the loser, which then returns the winner's conversation.
func (r *ConversationRepo) GetOrCreateDirect(ctx context.Context, userA, userB string) (*domain.Conversation, bool, error) {
	key := directKey(userA, userB)

	if c, err := r.findByDirectKey(ctx, key); err != nil {
		return nil, false, err
	} else if c != nil {
		return c, false, nil
	}

	c, err := r.createDirect(ctx, key, userA, userB)
	if err == nil {
		return c, true, nil
	}
	if !isConstraintViolation(err) {
		return nil, false, err
	}

	// Lost the race: another call inserted the pair first.
	c, findErr := r.findByDirectKey(ctx, key)
	if findErr != nil {
		return nil, false, findErr
	}
	if c == nil {
		return nil, false, fmt.Errorf("create direct conversation: %w", err)
	}
	return c, false, nil
}

func (r *ConversationRepo) createDirect(ctx context.Context, key, userA, userB string) (*domain.Conversation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	c := &domain.Conversation{
		ID:        uuid.NewString(),
		Kind:      domain.ConversationDirect,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO conversations (id, kind, name, created_at, direct_key)
		VALUES (?, ?, NULL, ?, ?)
	`, c.ID, c.Kind, c.CreatedAt, key); err != nil {
		return nil, fmt.Errorf("insert conversation: %w", err)
	}

	for _, uid := range []string{userA, userB} {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO conversation_participants (conversation_id, user_id, joined_at)
			VALUES (?, ?, ?)
		`, c.ID, uid, c.CreatedAt); err != nil {
			return nil, fmt.Errorf("insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return c, nil
}

// CreateGroup creates a group conversation with its initial member set as
// one unit.
func (r *ConversationRepo) CreateGroup(ctx context.Context, name string, memberIDs []string) (*domain.Conversation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	c := &domain.Conversation{
		ID:        uuid.NewString(),
		Kind:      domain.ConversationGroup,
		Name:      &name,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO conversations (id, kind, name, created_at)
		VALUES (?, ?, ?, ?)
	`, c.ID, c.Kind, c.Name, c.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert conversation: %w", err)
	}

	for _, uid := range memberIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO conversation_participants (conversation_id, user_id, joined_at)
			VALUES (?, ?, ?)
		`, c.ID, uid, c.CreatedAt); err != nil {
			return nil, fmt.Errorf("insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return c, nil
}

func (r *ConversationRepo) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	return r.scanConversation(ctx, `
		SELECT id, kind, name, created_at, last_message_at
		FROM conversations
		WHERE id = ?
	`, id)
}

func (r *ConversationRepo) findByDirectKey(ctx context.Context, key string) (*domain.Conversation, error) {
	return r.scanConversation(ctx, `
		SELECT id, kind, name, created_at, last_message_at
		FROM conversations
		WHERE direct_key = ?
	`, key)
}

// ListForUser returns the user's conversations enriched with participant
// lists and the most recent message, ordered by last activity.
func (r *ConversationRepo) ListForUser(ctx context.Context, userID string) ([]*domain.ConversationView, error) {
	query := `
		SELECT c.id, c.kind, c.name, c.created_at, c.last_message_at
		FROM conversations c
		JOIN conversation_participants cp ON cp.conversation_id = c.id
		WHERE cp.user_id = ?
		ORDER BY COALESCE(c.last_message_at, c.created_at) DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	var views []*domain.ConversationView
	for rows.Next() {
		v := &domain.ConversationView{}
		if err := rows.Scan(
			&v.ID,
			&v.Kind,
			&v.Name,
			&v.CreatedAt,
			&v.LastMessageAt,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}
	rows.Close()

	for _, v := range views {
		participants, err := r.listParticipants(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		v.Participants = participants

		last, err := r.lastMessage(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		v.LastMessage = last
	}
	return views, nil
}

func (r *ConversationRepo) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1
		FROM conversation_participants
		WHERE conversation_id = ? AND user_id = ?
	`, conversationID, userID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("is participant: %w", err)
	}
	return true, nil
}

func (r *ConversationRepo) listParticipants(ctx context.Context, conversationID string) ([]domain.Participant, error) {
	query := `
		SELECT cp.user_id, u.username, cp.joined_at
		FROM conversation_participants cp
		JOIN users u ON u.id = cp.user_id
		WHERE cp.conversation_id = ?
		ORDER BY u.username ASC
	`
	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	participants := []domain.Participant{}
	for rows.Next() {
		p := domain.Participant{}
		if err := rows.Scan(&p.UserID, &p.Username, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *ConversationRepo) lastMessage(ctx context.Context, conversationID string) (*domain.Message, error) {
	m := &domain.Message{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, conversation_id, sender_id, content, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, conversationID).Scan(
		&m.ID,
		&m.ConversationID,
		&m.SenderID,
		&m.Content,
		&m.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last message: %w", err)
	}
	return m, nil
}

func (r *ConversationRepo) scanConversation(ctx context.Context, query string, arg any) (*domain.Conversation, error) {
	c := &domain.Conversation{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&c.ID,
		&c.Kind,
		&c.Name,
		&c.CreatedAt,
		&c.LastMessageAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan conversation: %w", err)
	}
	return c, nil
}
