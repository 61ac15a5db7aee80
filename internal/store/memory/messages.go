package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/set-night/chatd/internal/domain"
	"github.com/set-night/chatd/internal/store"
)

type MessageStore struct {
	mu       sync.RWMutex
	messages map[string][]domain.Message
	lastTS   map[string]time.Time
	seq      int64
}

func NewMessageStore() *MessageStore {
	return &MessageStore{
		messages: make(map[string][]domain.Message),
		lastTS:   make(map[string]time.Time),
	}
}

func (s *MessageStore) Append(ctx context.Context, params store.AppendMessageParams) (*domain.Message, error) {
	if !domain.ValidRole(params.Role) {
		return nil, domain.ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Bump the timestamp past the previous message of this conversation so
	// ordering stays strict under concurrent appends.
	ts := time.Now()
	if last, ok := s.lastTS[params.ConversationID]; ok && !ts.After(last) {
		ts = last.Add(time.Microsecond)
	}
	s.lastTS[params.ConversationID] = ts
	s.seq++

	msg := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: params.ConversationID,
		Role:           params.Role,
		Content:        params.Content,
		Model:          params.Model,
		Seq:            s.seq,
		CreatedAt:      ts,
	}
	s.messages[params.ConversationID] = append(s.messages[params.ConversationID], msg)

	out := msg
	return &out, nil
}

func (s *MessageStore) ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Appends hold the lock while assigning timestamps, so the stored slice
	// is already in (created_at, seq) order.
	msgs := s.messages[conversationID]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MessageStore) ListByConversationAndRole(ctx context.Context, conversationID, role string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Message, 0)
	for _, msg := range s.messages[conversationID] {
		if msg.Role == role {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (s *MessageStore) Count(ctx context.Context, conversationID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.messages[conversationID])), nil
}

func (s *MessageStore) DeleteAllForConversation(ctx context.Context, conversationID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := int64(len(s.messages[conversationID]))
	delete(s.messages, conversationID)
	delete(s.lastTS, conversationID)
	return count, nil
}
