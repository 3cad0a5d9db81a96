package cli

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/raviX007/natural-language-wine-search/internal/domain"
)

// apiKeyEnv is read when --api-key is not given.
const apiKeyEnv = "OPENAI_API_KEY"

// credential resolves the caller's API key for this invocation.
func credential() (domain.Credential, error) {
	var prompt func() (string, error)
	if isInteractive() {
		prompt = promptAPIKey
	}
	return resolveCredential(apiKey, os.Getenv, prompt)
}

// resolveCredential picks the first non-empty key from the flag, the environment and the prompt.
// prompt is nil when there is no terminal to ask on.
func resolveCredential(
	flagValue string, getenv func(string) string, prompt func() (string, error),
) (domain.Credential, error) {
	if cred := domain.NewCredential(flagValue); !cred.IsEmpty() {
		return cred, nil
	}
	if cred := domain.NewCredential(getenv(apiKeyEnv)); !cred.IsEmpty() {
		return cred, nil
	}
	if prompt == nil {
		return domain.Credential{}, domain.ErrMissingCredential
	}

	key, err := prompt()
	if err != nil {
		return domain.Credential{}, fmt.Errorf("read api key: %w", err)
	}
	cred := domain.NewCredential(key)
	if cred.IsEmpty() {
		return domain.Credential{}, domain.ErrMissingCredential
	}
	return cred, nil
}

// isInteractive reports whether stdin and stdout are both attached to a terminal.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
