package domain

import "context"

// Completer sends a system + user prompt to a chat model and returns its text reply.
type Completer interface {
	Complete(ctx context.Context, system, user string) (CompletionResult, error)
}

// CompletionResult carries the model reply and token usage.
type CompletionResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
