package health

import (
	"context"

	"github.com/raviX007/natural-language-wine-search/internal/domain"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// RecordCounter reports how many records the wine collection holds.
type RecordCounter interface {
	Count(ctx context.Context) (int, error)
}

// ProviderChecker checks the LLM/embedding provider with a caller-supplied credential.
type ProviderChecker interface {
	HealthCheck(ctx context.Context, cred domain.Credential) error
}
