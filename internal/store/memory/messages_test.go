package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/set-night/chatd/internal/domain"
	"github.com/set-night/chatd/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendOrdering(t *testing.T) {
	s := NewMessageStore()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := s.Append(ctx, store.AppendMessageParams{
			ConversationID: "conv-1",
			Role:           domain.RoleUser,
			Content:        fmt.Sprintf("message %d", i),
		})
		require.NoError(t, err)
	}

	msgs, err := s.ListByConversation(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, msgs, 10)

	for i, msg := range msgs {
		assert.Equal(t, fmt.Sprintf("message %d", i), msg.Content)
		if i > 0 {
			assert.False(t, msg.CreatedAt.Before(msgs[i-1].CreatedAt))
			assert.Greater(t, msg.Seq, msgs[i-1].Seq)
		}
	}
}

func TestAppendRejectsInvalidRole(t *testing.T) {
	s := NewMessageStore()

	_, err := s.Append(context.Background(), store.AppendMessageParams{
		ConversationID: "conv-1",
		Role:           "moderator",
		Content:        "hi",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestConcurrentAppendsStayMonotonic(t *testing.T) {
	s := NewMessageStore()
	ctx := context.Background()

	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := s.Append(ctx, store.AppendMessageParams{
					ConversationID: "conv-1",
					Role:           domain.RoleUser,
					Content:        "x",
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	msgs, err := s.ListByConversation(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, msgs, workers*perWorker)

	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt),
			"timestamps must be non-decreasing")
		assert.Greater(t, msgs[i].Seq, msgs[i-1].Seq)
	}
}

func TestListByConversationAndRole(t *testing.T) {
	s := NewMessageStore()
	ctx := context.Background()

	_, err := s.Append(ctx, store.AppendMessageParams{ConversationID: "conv-1", Role: domain.RoleUser, Content: "q"})
	require.NoError(t, err)
	_, err = s.Append(ctx, store.AppendMessageParams{ConversationID: "conv-1", Role: domain.RoleAssistant, Content: "a", Model: "m"})
	require.NoError(t, err)
	_, err = s.Append(ctx, store.AppendMessageParams{ConversationID: "conv-1", Role: domain.RoleSystem, Content: "s"})
	require.NoError(t, err)

	assistants, err := s.ListByConversationAndRole(ctx, "conv-1", domain.RoleAssistant)
	require.NoError(t, err)
	require.Len(t, assistants, 1)
	assert.Equal(t, "a", assistants[0].Content)
	assert.Equal(t, "m", assistants[0].Model)
}

func TestCountAndDeleteAll(t *testing.T) {
	s := NewMessageStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Append(ctx, store.AppendMessageParams{ConversationID: "conv-1", Role: domain.RoleUser, Content: "x"})
		require.NoError(t, err)
	}
	_, err := s.Append(ctx, store.AppendMessageParams{ConversationID: "conv-2", Role: domain.RoleUser, Content: "x"})
	require.NoError(t, err)

	count, err := s.Count(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	deleted, err := s.DeleteAllForConversation(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	count, err = s.Count(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Other conversations are untouched.
	count, err = s.Count(ctx, "conv-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
