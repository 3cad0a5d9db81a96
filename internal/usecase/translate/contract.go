package translate

import (
	"github.com/raviX007/natural-language-wine-search/internal/domain"
)

// CompleterFactory hands out chat completion clients bound to a user credential.
type CompleterFactory interface {
	ForCredential(cred domain.Credential) (domain.Completer, error)
}

// CompleterFunc adapts a plain builder to CompleterFactory.
type CompleterFunc func(cred domain.Credential) domain.Completer

// ForCredential implements CompleterFactory. An empty credential is rejected before anything is built.
func (f CompleterFunc) ForCredential(cred domain.Credential) (domain.Completer, error) {
	if cred.IsEmpty() {
		return nil, domain.ErrMissingCredential
	}
	return f(cred), nil
}
