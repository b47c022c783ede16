// Package llm defines the streaming chat-completion contract used to
// generate pages.
package llm

import (
	"context"
	"iter"
)

// Role tags a message with its author.
type Role string

const (
	// RoleSystem carries instructions for the model.
	RoleSystem Role = "system"

	// RoleUser carries the request.
	RoleUser Role = "user"

	// RoleAssistant carries earlier model output.
	RoleAssistant Role = "assistant"
)

// Message is a role-tagged chat message.
type Message struct {
	Role    Role
	Content string
}

// Request is a single streaming completion request.
type Request struct {
	Messages    []Message
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// Completer streams text fragments for a completion request. The sequence
// yields fragments in arrival order and ends either when the provider closes
// the stream or with a single non-nil error.
type Completer interface {
	Stream(ctx context.Context, req Request) iter.Seq2[string, error]

	// Name identifies the provider and model for logs.
	Name() string
}

// UserMessage is shorthand for a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}
