package postgres

import (
	"context"
	"testing"

	"github.com/set-night/chatd/internal/domain"
	"github.com/set-night/chatd/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Malformed ids must be rejected before they reach the driver, where a
// UUID column would turn them into an opaque query error. No pool is
// needed: the check runs first.

func TestConversationStoreRejectsMalformedID(t *testing.T) {
	ctx := context.Background()
	s := NewConversationStore(nil)

	_, err := s.Get(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = s.Touch(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = s.SetActive(ctx, "abc", false)
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestConversationStoreDeleteMalformedID(t *testing.T) {
	s := NewConversationStore(nil)

	ok, err := s.Delete(context.Background(), "abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMessageStoreMalformedConversationID(t *testing.T) {
	ctx := context.Background()
	s := NewMessageStore(nil)

	_, err := s.Append(ctx, store.AppendMessageParams{
		ConversationID: "abc",
		Role:           domain.RoleUser,
		Content:        "hi",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	msgs, err := s.ListByConversation(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	count, err := s.Count(ctx, "abc")
	require.NoError(t, err)
	assert.Zero(t, count)

	deleted, err := s.DeleteAllForConversation(ctx, "abc")
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
