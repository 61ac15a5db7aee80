package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/set-night/chatd/internal/config"
	"github.com/set-night/chatd/internal/domain"
	"github.com/set-night/chatd/internal/service"
	"github.com/set-night/chatd/internal/store"
	"github.com/set-night/chatd/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResponder struct {
	reply string
	fail  bool
}

func (r *stubResponder) Generate(ctx context.Context, prompt, modelID string, temperature float64) (string, error) {
	if r.fail {
		return "", fmt.Errorf("upstream down")
	}
	return r.reply, nil
}

func (r *stubResponder) IsAvailable(ctx context.Context) bool { return !r.fail }

func (r *stubResponder) ListModels(ctx context.Context) ([]string, error) {
	return []string{"claude-3-5-sonnet", "claude-3-haiku"}, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		DefaultModel: "claude-3-5-sonnet",
		FallbackText: "Sorry, I'm having trouble connecting to the AI service. Please try again.",
	}
	chat := service.NewChatService(
		memory.NewConversationStore(),
		memory.NewMessageStore(),
		&stubResponder{reply: "Hello from the model"},
		cfg,
		nil,
	)

	r := gin.New()
	h := New(Deps{Chat: chat, Responder: &stubResponder{reply: "x"}, Cfg: cfg})
	h.Register(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createConversation(t *testing.T, r *gin.Engine) domain.Conversation {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/conversations", gin.H{
		"owner_id": "owner-1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var conv domain.Conversation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conv))
	return conv
}

func TestCreateConversation(t *testing.T) {
	r := newTestRouter(t)

	conv := createConversation(t, r)
	assert.NotEmpty(t, conv.ID)
	assert.True(t, strings.HasPrefix(conv.Title, "New Chat "))
	assert.Equal(t, "claude-3-5-sonnet", conv.Model)
	assert.True(t, conv.IsActive)
}

func TestCreateConversationMissingOwner(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/conversations", gin.H{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListConversations(t *testing.T) {
	r := newTestRouter(t)

	createConversation(t, r)
	createConversation(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/conversations?owner_id=owner-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []domain.Conversation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	// owner_id is required
	w = doJSON(t, r, http.MethodGet, "/api/conversations", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendMessage(t *testing.T) {
	r := newTestRouter(t)
	conv := createConversation(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/conversations/"+conv.ID+"/messages", gin.H{
		"text": "hello",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var msg domain.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	assert.Equal(t, domain.RoleAssistant, msg.Role)
	assert.Equal(t, "Hello from the model", msg.Content)
	assert.Equal(t, "claude-3-5-sonnet", msg.Model)
}

func TestSendMessageEmptyText(t *testing.T) {
	r := newTestRouter(t)
	conv := createConversation(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/conversations/"+conv.ID+"/messages", gin.H{
		"text": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendMessageUnknownConversation(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/conversations/missing/messages", gin.H{
		"text": "hello",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListMessages(t *testing.T) {
	r := newTestRouter(t)
	conv := createConversation(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/conversations/"+conv.ID+"/messages", gin.H{
		"text": "hello",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/conversations/"+conv.ID+"/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var msgs []domain.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msgs))
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, domain.RoleAssistant, msgs[1].Role)
}

func TestDeleteConversation(t *testing.T) {
	r := newTestRouter(t)
	conv := createConversation(t, r)

	w := doJSON(t, r, http.MethodDelete, "/api/conversations/"+conv.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true}`, w.Body.String())

	w = doJSON(t, r, http.MethodDelete, "/api/conversations/"+conv.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success": false}`, w.Body.String())
}

func TestArchiveConversationHidesFromActiveList(t *testing.T) {
	r := newTestRouter(t)
	keep := createConversation(t, r)
	archived := createConversation(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/conversations/"+archived.ID+"/archive", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/conversations?owner_id=owner-1&active_only=true", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []domain.Conversation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok", "ai_available": true}`, w.Body.String())
}

func TestListModels(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/models", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Models  []string `json:"models"`
		Default string   `json:"default"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Models, "claude-3-5-sonnet")
	assert.Equal(t, "claude-3-5-sonnet", resp.Default)
}

// malformedIDStore answers every lookup the way the postgres store does
// when the id is not a UUID.
type malformedIDStore struct {
	store.ConversationStore
}

func (s *malformedIDStore) Get(ctx context.Context, id string) (*domain.Conversation, error) {
	return nil, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
}

func TestMalformedConversationID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{DefaultModel: "claude-3-5-sonnet"}
	chat := service.NewChatService(
		&malformedIDStore{memory.NewConversationStore()},
		memory.NewMessageStore(),
		&stubResponder{reply: "ok"},
		cfg,
		nil,
	)
	r := gin.New()
	h := New(Deps{Chat: chat, Responder: &stubResponder{reply: "ok"}, Cfg: cfg})
	h.Register(r)

	w := doJSON(t, r, http.MethodGet, "/api/conversations/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/conversations/abc/messages", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/conversations/abc/messages", gin.H{"text": "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Deleting by a malformed id deletes nothing.
	w = doJSON(t, r, http.MethodDelete, "/api/conversations/abc", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success": false}`, w.Body.String())
}
