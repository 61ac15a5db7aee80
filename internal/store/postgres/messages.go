package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/chatd/internal/domain"
	"github.com/set-night/chatd/internal/store"
)

const messageColumns = "id, conversation_id, role, content, COALESCE(model, ''), seq, created_at"

type MessageStore struct {
	db *pgxpool.Pool
}

func NewMessageStore(db *pgxpool.Pool) *MessageStore {
	return &MessageStore{db: db}
}

func (s *MessageStore) Append(ctx context.Context, params store.AppendMessageParams) (*domain.Message, error) {
	if !domain.ValidRole(params.Role) {
		return nil, domain.ErrInvalidRole
	}
	if err := validateID(params.ConversationID); err != nil {
		return nil, err
	}

	// created_at is clamped to be >= the conversation's latest message so
	// per-conversation ordering survives clock skew between pool
	// connections. Equal timestamps are ordered by seq.
	row := s.db.QueryRow(ctx, `
		INSERT INTO messages (id, conversation_id, role, content, model, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''),
			GREATEST(NOW(), COALESCE(
				(SELECT MAX(created_at) FROM messages WHERE conversation_id = $2),
				NOW())))
		RETURNING `+messageColumns,
		uuid.NewString(), params.ConversationID, params.Role, params.Content, params.Model,
	)

	msg, err := scanMessage(row)
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}
	return msg, nil
}

func (s *MessageStore) ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	if validateID(conversationID) != nil {
		return []domain.Message{}, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, seq ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

func (s *MessageStore) ListByConversationAndRole(ctx context.Context, conversationID, role string) ([]domain.Message, error) {
	if validateID(conversationID) != nil {
		return []domain.Message{}, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE conversation_id = $1 AND role = $2
		ORDER BY created_at ASC, seq ASC`,
		conversationID, role,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages by role: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

func (s *MessageStore) Count(ctx context.Context, conversationID string) (int64, error) {
	if validateID(conversationID) != nil {
		return 0, nil
	}
	var count int64
	err := s.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM messages WHERE conversation_id = $1", conversationID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return count, nil
}

func (s *MessageStore) DeleteAllForConversation(ctx context.Context, conversationID string) (int64, error) {
	if validateID(conversationID) != nil {
		return 0, nil
	}
	tag, err := s.db.Exec(ctx,
		"DELETE FROM messages WHERE conversation_id = $1", conversationID)
	if err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var msg domain.Message
	if err := row.Scan(
		&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content,
		&msg.Model, &msg.Seq, &msg.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &msg, nil
}

func collectMessages(rows pgx.Rows) ([]domain.Message, error) {
	result := make([]domain.Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		result = append(result, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return result, nil
}
