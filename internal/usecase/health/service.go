package health

import (
	"context"

	"github.com/raviX007/natural-language-wine-search/internal/domain"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates a failing optional component.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is down.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names in Report.Checks.
const (
	ComponentDatabase   = "database"
	ComponentCollection = "collection"
	ComponentProvider   = "provider"
)

// Report aggregates health check results.
type Report struct {
	Status  Status
	Checks  map[string]CheckResult
	Records int
}

// Service coordinates health checks.
type Service struct {
	db       DBPinger
	records  RecordCounter
	provider ProviderChecker
}

// New creates a Service. records and provider can be nil.
func New(db DBPinger, records RecordCounter, provider ProviderChecker) *Service {
	return &Service{db: db, records: records, provider: provider}
}

// Check runs health checks against all components.
// The provider is only checked when the caller supplies a credential.
func (s *Service) Check(ctx context.Context, cred domain.Credential) Report {
	checks := make(map[string]CheckResult)
	report := Report{Status: Healthy, Checks: checks}

	if err := s.db.Ping(ctx); err != nil {
		checks[ComponentDatabase] = CheckError
		report.Status = Unhealthy
		return report
	}
	checks[ComponentDatabase] = CheckOK

	if s.records != nil {
		n, err := s.records.Count(ctx)
		if err != nil {
			checks[ComponentCollection] = CheckError
		} else {
			checks[ComponentCollection] = CheckOK
			report.Records = n
		}
	}

	if s.provider != nil && !cred.IsEmpty() {
		if err := s.provider.HealthCheck(ctx, cred); err != nil {
			checks[ComponentProvider] = CheckError
		} else {
			checks[ComponentProvider] = CheckOK
		}
	}

	for _, v := range checks {
		if v == CheckError {
			report.Status = Degraded
			break
		}
	}
	return report
}
