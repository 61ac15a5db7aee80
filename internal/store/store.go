// Package store defines the persistence contracts for conversations and
// messages. Backends must keep message timestamps non-decreasing within a
// conversation and assign a per-insert sequence number as the ordering
// tie-break.
package store

import (
	"context"
	"time"

	"github.com/set-night/chatd/internal/config"
	"github.com/set-night/chatd/internal/domain"
)

type CreateConversationParams struct {
	OwnerID     string
	Title       string
	Model       string
	Temperature *float64
}

type AppendMessageParams struct {
	ConversationID string
	Role           string
	Content        string
	// Model is recorded on assistant messages only.
	Model string
}

type ConversationStore interface {
	Create(ctx context.Context, params CreateConversationParams) (*domain.Conversation, error)
	Get(ctx context.Context, id string) (*domain.Conversation, error)
	// ListByOwner returns conversations ordered by updated_at descending,
	// id descending on ties.
	ListByOwner(ctx context.Context, ownerID string, activeOnly bool) ([]domain.Conversation, error)
	SearchByTitle(ctx context.Context, ownerID, substring string) ([]domain.Conversation, error)
	// Touch sets updated_at to now. Concurrent touches are last-writer-wins.
	Touch(ctx context.Context, id string) (*domain.Conversation, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.Conversation, error)
	// Delete reports whether a record was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

type MessageStore interface {
	Append(ctx context.Context, params AppendMessageParams) (*domain.Message, error)
	// ListByConversation returns messages ordered by created_at ascending,
	// seq ascending on ties.
	ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error)
	ListByConversationAndRole(ctx context.Context, conversationID, role string) ([]domain.Message, error)
	Count(ctx context.Context, conversationID string) (int64, error)
	// DeleteAllForConversation returns the number of messages removed.
	DeleteAllForConversation(ctx context.Context, conversationID string) (int64, error)
}

// DefaultTitle builds the title used when a conversation is created without
// one: the fixed prefix plus the creation time truncated to the minute.
func DefaultTitle(now time.Time) string {
	return config.TitlePrefix + now.Format("2006-01-02T15:04")
}
