// Package llm is a minimal chat-completion client used for proposal narrative.
package llm

import (
	"context"
	"errors"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages []Message
	// JSON asks the backend for a JSON document instead of free text.
	JSON bool
}

type ChatResponse struct {
	Message Message `json:"message"`
}

// ChatClient performs one chat-completion call.
type ChatClient interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

var (
	ErrEmptyRequest  = errors.New("empty_chat_request")
	ErrEmptyResponse = errors.New("empty_chat_response")
	ErrMissingAPIKey = errors.New("missing_api_key")
)
