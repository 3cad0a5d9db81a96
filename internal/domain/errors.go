package domain

import "errors"

// User-facing error kinds. Every failure that reaches the presentation layer wraps one of these.
var (
	// ErrMissingCredential signals that no LLM/embedding API key was supplied.
	ErrMissingCredential = errors.New("missing credential")
	// ErrStoreUnavailable signals that the vector store cannot be reached or is misconfigured.
	ErrStoreUnavailable = errors.New("vector store unavailable")
	// ErrTranslation signals that the LLM did not produce a usable structured query.
	ErrTranslation = errors.New("query translation failed")
	// ErrSearch signals a failure in the embed-and-search stage.
	ErrSearch = errors.New("search failed")
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidSchema signals an invalid schema or filter definition.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrInvalidQuery signals an empty or oversized user query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrConfirmationRequired signals a destructive action without explicit confirmation.
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrCompletionProviderError signals an LLM completion provider failure.
	ErrCompletionProviderError = errors.New("completion provider error")
)
