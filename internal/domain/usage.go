package domain

import "context"

type requestUsageKey struct{}

// RequestUsage collects token usage for a single request.
// The handler puts a mutable pointer into the context before calling the service;
// services write after each provider call; the handler reads it for response headers.
type RequestUsage struct {
	EmbeddingTokens   int
	CompletionTokens  int
	EmbeddingCalled   bool // true even on a cache hit with 0 tokens
	TranslationCalled bool
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *RequestUsage) {
	u := &RequestUsage{}
	return context.WithValue(ctx, requestUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *RequestUsage {
	u, _ := ctx.Value(requestUsageKey{}).(*RequestUsage)
	return u
}

// AddEmbeddingTokens records consumed embedding tokens.
func (u *RequestUsage) AddEmbeddingTokens(n int) {
	if u != nil {
		u.EmbeddingTokens += n
		u.EmbeddingCalled = true
	}
}

// AddCompletionTokens records consumed completion tokens.
func (u *RequestUsage) AddCompletionTokens(n int) {
	if u != nil {
		u.CompletionTokens += n
		u.TranslationCalled = true
	}
}
