// Package translate turns a natural-language query into a validated structured query with an LLM.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/raviX007/natural-language-wine-search/internal/domain"
	"github.com/raviX007/natural-language-wine-search/internal/domain/attribute"
	"github.com/raviX007/natural-language-wine-search/internal/domain/search/filter"
	"github.com/raviX007/natural-language-wine-search/internal/domain/search/query"
	"github.com/raviX007/natural-language-wine-search/internal/metrics"
)

// Translation outcomes.
const (
	outcomeOK      = "ok"
	outcomeInvalid = "invalid"
	outcomeError   = "error"
)

// Service asks the model for a structured query and validates its answer against the schema.
type Service struct {
	completers CompleterFactory
	schema     attribute.Schema
	prompt     string
	logger     *zap.Logger
}

// New builds the system prompt once and creates a translator.
func New(completers CompleterFactory, schema attribute.Schema, examples []Example, logger *zap.Logger) (*Service, error) {
	prompt, err := BuildPrompt(schema, examples)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{completers: completers, schema: schema, prompt: prompt, logger: logger}, nil
}

// Translate converts text into a structured query.
// Every failure wraps ErrTranslation; an empty credential fails with ErrMissingCredential.
func (s *Service) Translate(ctx context.Context, cred domain.Credential, text string) (query.Structured, error) {
	completer, err := s.completers.ForCredential(cred)
	if err != nil {
		return query.Structured{}, err
	}

	res, err := completer.Complete(ctx, s.prompt, text)
	if err != nil {
		metrics.TranslationsTotal.WithLabelValues(outcomeError).Inc()
		return query.Structured{}, fmt.Errorf("%w: %w", domain.ErrTranslation, err)
	}
	domain.UsageFromContext(ctx).AddCompletionTokens(res.TotalTokens)

	q, err := s.parse(res.Content)
	if err != nil {
		metrics.TranslationsTotal.WithLabelValues(outcomeInvalid).Inc()
		s.logger.Warn("unusable translation",
			zap.String("query", text),
			zap.String("reply", res.Content),
			zap.Error(err),
		)
		return query.Structured{}, fmt.Errorf("%w: %w", domain.ErrTranslation, err)
	}

	metrics.TranslationsTotal.WithLabelValues(outcomeOK).Inc()
	s.logger.Debug("query translated",
		zap.String("query", text),
		zap.Stringer("structured", q),
	)
	return q, nil
}

// rawOutput mirrors Output but keeps limit undecoded so its type can be checked.
type rawOutput struct {
	Query  *string         `json:"query"`
	Filter *string         `json:"filter"`
	Limit  json.RawMessage `json:"limit"`
}

// parse decodes and validates the model reply.
func (s *Service) parse(content string) (query.Structured, error) {
	body := stripFences(content)
	if body == "" {
		return query.Structured{}, errors.New("empty reply")
	}

	dec := json.NewDecoder(strings.NewReader(body))
	var out rawOutput
	if err := dec.Decode(&out); err != nil {
		return query.Structured{}, fmt.Errorf("decode reply: %w", err)
	}
	if dec.More() {
		return query.Structured{}, errors.New("trailing data after reply object")
	}
	if out.Query == nil {
		return query.Structured{}, errors.New(`reply has no "query" key`)
	}

	var expr filter.Expression
	if out.Filter != nil {
		var err error
		if expr, err = filter.Parse(*out.Filter); err != nil {
			return query.Structured{}, err
		}
	}
	if err := s.schema.ValidateFilter(expr); err != nil {
		return query.Structured{}, fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
	}

	limit, err := parseLimit(out.Limit)
	if err != nil {
		return query.Structured{}, err
	}

	return query.New(*out.Query, expr, limit)
}

// parseLimit accepts an absent or null limit (0) or a positive integer.
func parseLimit(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("limit must be an integer, got %s", raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("limit must be positive, got %d", n)
	}
	return n, nil
}

// stripFences removes a markdown code fence around the reply, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
