package domain

import "errors"

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyMessage         = errors.New("message text is empty")
	ErrInvalidRole          = errors.New("invalid message role")
	ErrInvalidID            = errors.New("invalid id")
	ErrUpstream             = errors.New("ai service failed")
)
