package domain

import "strings"

// Credential is a user-supplied API key for the LLM and embedding services.
// It is passed explicitly through every call that needs it and never held in process state.
type Credential struct {
	apiKey string
}

// NewCredential trims and wraps an API key. An empty key yields an empty Credential.
func NewCredential(apiKey string) Credential {
	return Credential{apiKey: strings.TrimSpace(apiKey)}
}

// APIKey returns the raw key.
func (c Credential) APIKey() string { return c.apiKey }

// IsEmpty reports whether no key was supplied.
func (c Credential) IsEmpty() bool { return c.apiKey == "" }

// String redacts the key so credentials never end up in logs.
func (c Credential) String() string {
	if c.apiKey == "" {
		return "<none>"
	}
	if len(c.apiKey) <= 8 {
		return "****"
	}
	return c.apiKey[:3] + "****" + c.apiKey[len(c.apiKey)-4:]
}
