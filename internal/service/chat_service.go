package service

import (
	"context"
	"fmt"
	"time"

	"socialnet/internal/domain"
)

// ChatService owns conversations and messages. Membership is the
// authorization gate for every message read and write.
type ChatService struct {
	conversations domain.ConversationRepository
	messages      domain.MessageRepository
	users         domain.UserRepository
}

func NewChatService(
	conversations domain.ConversationRepository,
	messages domain.MessageRepository,
	users domain.UserRepository,
) *ChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		users:         users,
	}
}

// GetOrCreateDirect returns the direct conversation between the caller and
// the other user, creating it if absent. The boolean is true only when a new
// conversation was created.
func (s *ChatService) GetOrCreateDirect(ctx context.Context, callerID, otherID string) (*domain.Conversation, bool, error) {
	if callerID == otherID {
		return nil, false, fmt.Errorf("%w: cannot start a conversation with yourself", domain.ErrInvalidInput)
	}
	other, err := s.users.GetByID(ctx, otherID)
	if err != nil {
		return nil, false, fmt.Errorf("get user: %w", err)
	}
	if other == nil {
		return nil, false, domain.ErrNotFound
	}
	return s.conversations.GetOrCreateDirect(ctx, callerID, otherID)
}

func (s *ChatService) CreateGroup(ctx context.Context, callerID, name string, memberIDs []string) (*domain.Conversation, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", domain.ErrInvalidInput)
	}
	if len(memberIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one member is required", domain.ErrInvalidInput)
	}

	// Include the creator, deduplicated.
	unique := []string{callerID}
	seen := map[string]struct{}{callerID: {}}
	for _, id := range memberIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return s.conversations.CreateGroup(ctx, name, unique)
}

func (s *ChatService) ListConversations(ctx context.Context, callerID string) ([]*domain.ConversationView, error) {
	return s.conversations.ListForUser(ctx, callerID)
}

func (s *ChatService) SendMessage(ctx context.Context, callerID, conversationID, content string) (*domain.Message, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", domain.ErrInvalidInput)
	}
	if err := s.requireParticipant(ctx, conversationID, callerID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ConversationID: conversationID,
		SenderID:       callerID,
		Content:        content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns up to limit messages in ascending chronological
// order, strictly older than before when supplied.
func (s *ChatService) ListMessages(ctx context.Context, callerID, conversationID string, limit int, before *time.Time) ([]*domain.Message, error) {
	if err := s.requireParticipant(ctx, conversationID, callerID); err != nil {
		return nil, err
	}
	return s.messages.ListForConversation(ctx, conversationID, limit, before)
}

func (s *ChatService) requireParticipant(ctx context.Context, conversationID, userID string) error {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("get conversation: %w", err)
	}
	if conv == nil {
		return domain.ErrNotFound
	}
	ok, err := s.conversations.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return fmt.Errorf("check participant: %w", err)
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}
