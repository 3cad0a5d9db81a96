package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/raviX007/natural-language-wine-search/internal/domain"
)

// ErrorCode is a machine-readable error code in JSON error responses.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest           ErrorCode = "bad_request"
	CodeMissingCredential    ErrorCode = "missing_credential"
	CodeInvalidQuery         ErrorCode = "invalid_query"
	CodeInvalidFilter        ErrorCode = "invalid_filter"
	CodeConfirmationRequired ErrorCode = "confirmation_required"
	CodeTranslationFailed    ErrorCode = "translation_failed"
	CodeStoreUnavailable     ErrorCode = "store_unavailable"
	CodeSearchFailed         ErrorCode = "search_failed"
	CodeInternalError        ErrorCode = "internal_error"
)

// Remediation hints shown next to an error.
const (
	hintRephrase   = "Try rephrasing your query or using simpler search terms."
	hintCheckKey   = "Please check your OpenAI API key and try again."
	hintEnterKey   = "Please enter your OpenAI API key in the sidebar to start searching."
	hintStore      = "Check that the vector database is running and reachable, then try again."
	hintReset      = "The stored collection does not match the embedding model. Reset the database to rebuild it."
	hintConfirm    = "Tick the confirmation box to reset the database."
	hintEmptyQuery = "Enter a shorter, non-empty query."
	hintFilter     = "Use only the attributes and comparators listed by /api/schema."
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Hint    string    `json:"hint,omitempty"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(err error) (ErrorResponse, int, bool)

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode, hint func(error) string) errorHandler {
	return func(err error) (ErrorResponse, int, bool) {
		if !errors.Is(err, sentinel) {
			return ErrorResponse{}, 0, false
		}
		return ErrorResponse{Code: code, Message: sentinel.Error(), Hint: hint(err)}, status, true
	}
}

func fixedHint(h string) func(error) string {
	return func(error) string { return h }
}

// providerHint points at the API key when the provider rejected the call.
func providerHint(err error) string {
	if errors.Is(err, domain.ErrEmbeddingProviderError) || errors.Is(err, domain.ErrCompletionProviderError) {
		return hintCheckKey
	}
	return hintRephrase
}

func storeHint(err error) string {
	if errors.Is(err, domain.ErrVectorDimMismatch) {
		return hintReset
	}
	if errors.Is(err, domain.ErrEmbeddingProviderError) {
		return hintCheckKey
	}
	return hintStore
}

// defaultErrorHandlers is ordered: the first match wins.
var defaultErrorHandlers = []errorHandler{
	sentinelHandler(domain.ErrMissingCredential, http.StatusUnauthorized, CodeMissingCredential, fixedHint(hintEnterKey)),
	sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeInvalidQuery, fixedHint(hintEmptyQuery)),
	sentinelHandler(domain.ErrConfirmationRequired, http.StatusBadRequest, CodeConfirmationRequired, fixedHint(hintConfirm)),
	sentinelHandler(domain.ErrTranslation, http.StatusUnprocessableEntity, CodeTranslationFailed, providerHint),
	sentinelHandler(domain.ErrInvalidSchema, http.StatusBadRequest, CodeInvalidFilter, fixedHint(hintFilter)),
	sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, CodeStoreUnavailable, storeHint),
	sentinelHandler(domain.ErrSearch, http.StatusBadGateway, CodeSearchFailed, providerHint),
}

// classify maps an error to its response body and HTTP status.
func classify(handlers []errorHandler, err error) (ErrorResponse, int) {
	for _, h := range handlers {
		if resp, status, ok := h(err); ok {
			return resp, status
		}
	}
	return ErrorResponse{Code: CodeInternalError, Message: "internal error", Hint: hintRephrase},
		http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
