package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/newsradar-io/newsradar/internal/cache"
	"github.com/newsradar-io/newsradar/internal/model"
)

// Summarizer produces the optional digest overview. A nil provider
// means the feature is off and GenerateOverview returns "" without
// error; a provider failure is reported to the caller, which is
// expected to warn and ship the digest without an overview.
type Summarizer struct {
	provider Provider
	config   Config
	cache    cache.Cache
}

// NewSummarizer creates a summarizer from configuration. The cache is
// optional; when present, an unchanged snapshot reuses its overview
// instead of paying for another API call.
func NewSummarizer(config Config, c cache.Cache) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}

	return &Summarizer{
		provider: provider,
		config:   config,
		cache:    c,
	}, nil
}

// IsEnabled returns whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the active provider's name, or "" when disabled
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateOverview returns a short lead-in for the day's records.
func (s *Summarizer) GenerateOverview(ctx context.Context, records []model.ContentRecord, date string) (string, error) {
	if s.provider == nil {
		return "", nil
	}
	if len(records) == 0 {
		return "", nil
	}

	key := s.cacheKey(records, date)
	if s.cache != nil {
		if data, found := s.cache.Get(key); found {
			return string(data), nil
		}
	}

	if !s.provider.IsAvailable(ctx) {
		return "", fmt.Errorf("%s provider is not available", s.provider.Name())
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Records:   records,
		Date:      date,
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("overview generation: %w", err)
	}

	overview := strings.TrimSpace(resp.Summary)
	if overview == "" {
		return "", fmt.Errorf("%s returned an empty overview", s.provider.Name())
	}

	if s.cache != nil {
		_ = s.cache.Set(key, []byte(overview), 0)
	}

	return overview, nil
}

// cacheKey fingerprints the day's records so the same snapshot maps to
// the same cached overview.
func (s *Summarizer) cacheKey(records []model.ContentRecord, date string) string {
	parts := []string{"overview", date, s.config.Provider, s.config.Model}
	for _, rec := range records {
		parts = append(parts, rec.URL, rec.Title)
	}
	return cache.Key(parts...)
}
