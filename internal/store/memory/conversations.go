// Package memory provides mutex-guarded in-memory store backends, used in
// tests and as a database-free fallback.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/set-night/chatd/internal/config"
	"github.com/set-night/chatd/internal/domain"
	"github.com/set-night/chatd/internal/store"
)

type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]*domain.Conversation
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		conversations: make(map[string]*domain.Conversation),
	}
}

func (s *ConversationStore) Create(ctx context.Context, params store.CreateConversationParams) (*domain.Conversation, error) {
	now := time.Now()

	title := strings.TrimSpace(params.Title)
	if title == "" {
		title = store.DefaultTitle(now)
	}

	temperature := config.DefaultTemperature
	if params.Temperature != nil {
		temperature = *params.Temperature
	}

	conv := &domain.Conversation{
		ID:          uuid.NewString(),
		OwnerID:     params.OwnerID,
		Title:       title,
		Model:       params.Model,
		Temperature: temperature,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.conversations[conv.ID] = conv
	s.mu.Unlock()

	out := *conv
	return &out, nil
}

func (s *ConversationStore) Get(ctx context.Context, id string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	out := *conv
	return &out, nil
}

func (s *ConversationStore) ListByOwner(ctx context.Context, ownerID string, activeOnly bool) ([]domain.Conversation, error) {
	s.mu.RLock()
	result := make([]domain.Conversation, 0)
	for _, conv := range s.conversations {
		if conv.OwnerID != ownerID {
			continue
		}
		if activeOnly && !conv.IsActive {
			continue
		}
		result = append(result, *conv)
	}
	s.mu.RUnlock()

	sortByRecency(result)
	return result, nil
}

func (s *ConversationStore) SearchByTitle(ctx context.Context, ownerID, substring string) ([]domain.Conversation, error) {
	needle := strings.ToLower(substring)

	s.mu.RLock()
	result := make([]domain.Conversation, 0)
	for _, conv := range s.conversations {
		if conv.OwnerID != ownerID {
			continue
		}
		if !strings.Contains(strings.ToLower(conv.Title), needle) {
			continue
		}
		result = append(result, *conv)
	}
	s.mu.RUnlock()

	sortByRecency(result)
	return result, nil
}

func (s *ConversationStore) Touch(ctx context.Context, id string) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	conv.UpdatedAt = time.Now()
	out := *conv
	return &out, nil
}

func (s *ConversationStore) SetActive(ctx context.Context, id string, active bool) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	conv.IsActive = active
	out := *conv
	return &out, nil
}

func (s *ConversationStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return false, nil
	}
	delete(s.conversations, id)
	return true, nil
}

func sortByRecency(conversations []domain.Conversation) {
	sort.Slice(conversations, func(i, j int) bool {
		if conversations[i].UpdatedAt.Equal(conversations[j].UpdatedAt) {
			return conversations[i].ID > conversations[j].ID
		}
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})
}
