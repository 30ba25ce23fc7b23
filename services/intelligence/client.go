// File: services/intelligence/client.go
package intelligence

import (
	"context"
	"errors"
	"fmt"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation sent to the model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is provider-neutral. The last message is the utterance
// being answered.
type CompletionRequest struct {
	SystemPrompt string
	Messages     []Message
	Temperature  float32
	TopP         float32
	MaxTokens    int
}

// LLMClient produces one assistant reply for a conversation.
type LLMClient interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ErrEmptyCompletion is returned when the provider answered without any text.
var ErrEmptyCompletion = errors.New("llm returned an empty completion")

// ErrNoMessages is returned when a request has nothing to answer.
var ErrNoMessages = errors.New("completion request has no messages")

// APIError is a non-2xx answer from a remote model endpoint.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm api returned status %d: %s", e.Status, e.Body)
}
