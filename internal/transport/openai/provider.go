package openai

import (
	"context"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/raviX007/natural-language-wine-search/internal/domain"
)

// requestTimeout bounds a single provider call; the caller's context may cut it shorter.
const requestTimeout = 60 * time.Second

// Provider builds per-credential clients. The API key arrives with each request and is
// never kept beyond the client built for it.
type Provider struct {
	embedding  Config
	completion CompleterConfig
}

// NewProvider creates a provider from credential-less settings. APIKey fields are ignored.
func NewProvider(embedding Config, completion CompleterConfig) *Provider {
	embedding.APIKey = ""
	completion.APIKey = ""
	return &Provider{embedding: embedding, completion: completion}
}

// Embedder returns an embedding client authenticated with cred.
func (p *Provider) Embedder(cred domain.Credential) *Embedder {
	cfg := p.embedding
	cfg.APIKey = cred.APIKey()
	return NewEmbedder(&cfg)
}

// Completer returns a chat completion client authenticated with cred.
func (p *Provider) Completer(cred domain.Credential) *Completer {
	cfg := p.completion
	cfg.APIKey = cred.APIKey()
	return NewCompleter(&cfg)
}

// HealthCheck verifies that cred is accepted by the provider.
func (p *Provider) HealthCheck(ctx context.Context, cred domain.Credential) error {
	if cred.IsEmpty() {
		return domain.ErrMissingCredential
	}
	return p.Embedder(cred).HealthCheck(ctx)
}

// EmbeddingModel returns the configured embedding model name.
func (p *Provider) EmbeddingModel() string { return p.embedding.Model }

func newClient(apiKey, baseURL string) *openai.Client {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: requestTimeout}
	return openai.NewClientWithConfig(clientCfg)
}

func nopIfNil(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
