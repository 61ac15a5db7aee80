package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/set-night/chatd/internal/ai"
	"github.com/set-night/chatd/internal/config"
	"github.com/set-night/chatd/internal/domain"
	"github.com/set-night/chatd/internal/store"
)

// Alerter receives best-effort failure reports that must not interrupt the
// request that produced them.
type Alerter interface {
	Error(op string, err error)
}

// ChatService coordinates the conversation store, the message store and the
// AI responder. SendMessage is its core pipeline: the user turn is persisted
// before the AI call so user input survives any downstream failure, and once
// it is stored the operation always yields an assistant message unless error
// propagation is explicitly enabled.
type ChatService struct {
	conversations store.ConversationStore
	messages      store.MessageStore
	responder     ai.Responder
	cfg           *config.Config
	alerts        Alerter
}

func NewChatService(conversations store.ConversationStore, messages store.MessageStore, responder ai.Responder, cfg *config.Config, alerts Alerter) *ChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		responder:     responder,
		cfg:           cfg,
		alerts:        alerts,
	}
}

func (s *ChatService) CreateConversation(ctx context.Context, ownerID, title, model string, temperature *float64) (*domain.Conversation, error) {
	if strings.TrimSpace(model) == "" {
		model = s.cfg.DefaultModel
	}

	conv, err := s.conversations.Create(ctx, store.CreateConversationParams{
		OwnerID:     ownerID,
		Title:       title,
		Model:       model,
		Temperature: temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	slog.Info("conversation created",
		"conversation_id", conv.ID, "owner_id", ownerID, "model", conv.Model)
	return conv, nil
}

func (s *ChatService) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	return s.conversations.Get(ctx, id)
}

func (s *ChatService) ListConversations(ctx context.Context, ownerID string, activeOnly bool) ([]domain.Conversation, error) {
	return s.conversations.ListByOwner(ctx, ownerID, activeOnly)
}

func (s *ChatService) SearchConversations(ctx context.Context, ownerID, query string) ([]domain.Conversation, error) {
	return s.conversations.SearchByTitle(ctx, ownerID, query)
}

func (s *ChatService) ArchiveConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	return s.conversations.SetActive(ctx, id, false)
}

func (s *ChatService) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	if _, err := s.conversations.Get(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.messages.ListByConversation(ctx, conversationID)
}

func (s *ChatService) MessageCount(ctx context.Context, conversationID string) (int64, error) {
	return s.messages.Count(ctx, conversationID)
}

// SendMessage runs the send pipeline: persist the user turn, call the
// responder, persist the assistant turn, touch the conversation. A store
// failure before the user turn is durable aborts the whole operation; an AI
// failure degrades to the configured fallback text; a touch failure is
// reported and otherwise ignored.
func (s *ChatService) SendMessage(ctx context.Context, conversationID, text, modelID string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyMessage
	}

	conv, err := s.conversations.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	model := strings.TrimSpace(modelID)
	if model == "" {
		model = conv.Model
	}
	if model == "" {
		model = s.cfg.DefaultModel
	}

	// The user turn is stored before the AI call so it is never lost to an
	// upstream failure.
	if _, err := s.messages.Append(ctx, store.AppendMessageParams{
		ConversationID: conversationID,
		Role:           domain.RoleUser,
		Content:        text,
	}); err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	content, err := s.generate(ctx, text, model, conv.Temperature)
	if err != nil {
		if s.cfg.PropagateAIErrors {
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
		}
		slog.Error("ai generate failed, using fallback",
			"conversation_id", conversationID, "model", model, "error", err)
		s.alert("generate response", err)
		content = s.cfg.FallbackText
	}

	assistant, err := s.messages.Append(ctx, store.AppendMessageParams{
		ConversationID: conversationID,
		Role:           domain.RoleAssistant,
		Content:        content,
		Model:          model,
	})
	if err != nil {
		return nil, fmt.Errorf("save assistant message: %w", err)
	}

	// Touch is best-effort: a stale updated_at is not a user-visible failure.
	if _, err := s.conversations.Touch(ctx, conversationID); err != nil {
		slog.Error("touch conversation failed",
			"conversation_id", conversationID, "error", err)
		s.alert("touch conversation", err)
	}

	return assistant, nil
}

// DeleteConversation removes a conversation and its messages. Messages go
// first: an interruption may leave an empty conversation behind, but never
// messages pointing at a deleted conversation.
func (s *ChatService) DeleteConversation(ctx context.Context, id string) (bool, error) {
	if _, err := s.conversations.Get(ctx, id); err != nil {
		// A malformed id deletes nothing, same as an unknown one.
		if errors.Is(err, domain.ErrConversationNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return false, nil
		}
		return false, err
	}

	deleted, err := s.messages.DeleteAllForConversation(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete messages: %w", err)
	}

	ok, err := s.conversations.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete conversation: %w", err)
	}

	slog.Info("conversation deleted", "conversation_id", id, "messages_deleted", deleted)
	return ok, nil
}

func (s *ChatService) generate(ctx context.Context, prompt, model string, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
	defer cancel()
	return s.responder.Generate(ctx, prompt, model, temperature)
}

func (s *ChatService) alert(op string, err error) {
	if s.alerts != nil {
		s.alerts.Error(op, err)
	}
}
