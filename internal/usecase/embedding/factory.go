package embedding

import (
	"github.com/raviX007/natural-language-wine-search/internal/domain"
)

// BuildFunc assembles the embedder chain for one credential.
type BuildFunc func(cred domain.Credential) domain.Embedder

// Factory hands out credential-bound embedders. The credential is never stored.
type Factory struct {
	build BuildFunc
}

// NewFactory creates a factory around a chain builder.
func NewFactory(build BuildFunc) *Factory {
	return &Factory{build: build}
}

// ForCredential returns an embedder authenticated with cred.
// An empty credential fails with ErrMissingCredential before anything is built.
func (f *Factory) ForCredential(cred domain.Credential) (domain.Embedder, error) {
	if cred.IsEmpty() {
		return nil, domain.ErrMissingCredential
	}
	return f.build(cred), nil
}
