// Package postgres implements the store contracts over pgx.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/chatd/internal/config"
	"github.com/set-night/chatd/internal/domain"
	"github.com/set-night/chatd/internal/store"
	"github.com/shopspring/decimal"
)

const conversationColumns = "id, owner_id, title, model, temperature::text, is_active, created_at, updated_at"

type ConversationStore struct {
	db *pgxpool.Pool
}

func NewConversationStore(db *pgxpool.Pool) *ConversationStore {
	return &ConversationStore{db: db}
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

	row := s.db.QueryRow(ctx, `
		INSERT INTO conversations (id, owner_id, title, model, temperature)
		VALUES ($1, $2, $3, $4, $5::numeric)
		RETURNING `+conversationColumns,
		uuid.NewString(), params.OwnerID, title, params.Model,
		decimal.NewFromFloat(temperature).String(),
	)

	conv, err := scanConversation(row)
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

func (s *ConversationStore) Get(ctx context.Context, id string) (*domain.Conversation, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	row := s.db.QueryRow(ctx,
		"SELECT "+conversationColumns+" FROM conversations WHERE id = $1", id)

	conv, err := scanConversation(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrConversationNotFound
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return conv, nil
}

func (s *ConversationStore) ListByOwner(ctx context.Context, ownerID string, activeOnly bool) ([]domain.Conversation, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+conversationColumns+` FROM conversations
		WHERE owner_id = $1 AND (NOT $2 OR is_active)
		ORDER BY updated_at DESC, id DESC`,
		ownerID, activeOnly,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	return collectConversations(rows)
}

func (s *ConversationStore) SearchByTitle(ctx context.Context, ownerID, substring string) ([]domain.Conversation, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+conversationColumns+` FROM conversations
		WHERE owner_id = $1 AND title ILIKE '%' || $2 || '%'
		ORDER BY updated_at DESC, id DESC`,
		ownerID, substring,
	)
	if err != nil {
		return nil, fmt.Errorf("search conversations: %w", err)
	}
	defer rows.Close()

	return collectConversations(rows)
}

func (s *ConversationStore) Touch(ctx context.Context, id string) (*domain.Conversation, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	row := s.db.QueryRow(ctx, `
		UPDATE conversations SET updated_at = NOW()
		WHERE id = $1
		RETURNING `+conversationColumns, id)

	conv, err := scanConversation(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrConversationNotFound
		}
		return nil, fmt.Errorf("touch conversation: %w", err)
	}
	return conv, nil
}

func (s *ConversationStore) SetActive(ctx context.Context, id string, active bool) (*domain.Conversation, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	row := s.db.QueryRow(ctx, `
		UPDATE conversations SET is_active = $2
		WHERE id = $1
		RETURNING `+conversationColumns, id, active)

	conv, err := scanConversation(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrConversationNotFound
		}
		return nil, fmt.Errorf("set conversation active: %w", err)
	}
	return conv, nil
}

func (s *ConversationStore) Delete(ctx context.Context, id string) (bool, error) {
	if validateID(id) != nil {
		return false, nil
	}
	tag, err := s.db.Exec(ctx, "DELETE FROM conversations WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete conversation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// validateID rejects ids that cannot hit the UUID columns. Without the
// check a malformed id reaches the driver and comes back as a 22P02
// instead of a caller error.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return nil
}

func scanConversation(row pgx.Row) (*domain.Conversation, error) {
	var conv domain.Conversation
	var temperature string
	if err := row.Scan(
		&conv.ID, &conv.OwnerID, &conv.Title, &conv.Model,
		&temperature, &conv.IsActive, &conv.CreatedAt, &conv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	conv.Temperature = numericToFloat(temperature)
	return &conv, nil
}

func collectConversations(rows pgx.Rows) ([]domain.Conversation, error) {
	result := make([]domain.Conversation, 0)
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		result = append(result, *conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}
	return result, nil
}

// numericToFloat parses a NUMERIC column fetched as text. Going through
// decimal keeps the round-trip exact regardless of scale.
func numericToFloat(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}
