package chi

import (
	"context"
	"net/http"
	"strings"

	"github.com/raviX007/natural-language-wine-search/internal/domain"
)

type credentialKey struct{}

// CredentialMiddleware extracts the caller's OpenAI key from a Bearer Authorization header
// and stores it in the request context. A missing header passes through with an empty
// credential; handlers that need one reject the request themselves.
func CredentialMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				next.ServeHTTP(w, r)
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					CodeMissingCredential, "authorization header must use Bearer scheme")
				return
			}

			cred := domain.NewCredential(auth[len(bearerPrefix):])
			ctx := context.WithValue(r.Context(), credentialKey{}, cred)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// credentialFrom returns the request credential: the Bearer token if present, else the
// api_key form field submitted by the HTML page.
func credentialFrom(r *http.Request) domain.Credential {
	if cred, ok := r.Context().Value(credentialKey{}).(domain.Credential); ok && !cred.IsEmpty() {
		return cred
	}
	if r.Method == http.MethodPost {
		return domain.NewCredential(r.PostFormValue("api_key"))
	}
	return domain.Credential{}
}
