package domain

import (
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	Role           string `json:"role"`
	Content        string `json:"content"`
	// Model is set only on assistant messages.
	Model string `json:"model,omitempty"`
	// Seq is the store-assigned insertion order, the authoritative
	// tie-break when two messages share a timestamp.
	Seq       int64     `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}
