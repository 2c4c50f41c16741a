package tui

import (
	"context"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

// mockSearchService implements driving.SearchService for tests.
type mockSearchService struct {
	results []domain.SearchResult
	titles  []string
	stats   domain.SearchStats
	err     error

	lastQuery     string
	lastLimit     int
	lastThreshold float64
}

func (m *mockSearchService) Search(_ context.Context, query string, limit int, threshold float64) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastLimit = limit
	m.lastThreshold = threshold
	return m.results, m.err
}

func (m *mockSearchService) SearchByType(_ context.Context, query string, _ domain.ObjectType, limit int) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.results, m.err
}

func (m *mockSearchService) SearchByProject(_ context.Context, query, _ string, limit int) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.results, m.err
}

func (m *mockSearchService) SimilarObjects(_ context.Context, objectID string, limit int) ([]domain.SearchResult, error) {
	m.lastQuery = objectID
	m.lastLimit = limit
	return m.results, m.err
}

func (m *mockSearchService) Suggestions(_ context.Context, prefix string, limit int) ([]string, error) {
	m.lastQuery = prefix
	m.lastLimit = limit
	return m.titles, m.err
}

func (m *mockSearchService) Stats(_ context.Context) (domain.SearchStats, error) {
	return m.stats, m.err
}

func sampleResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			Record: domain.CanonicalRecord{
				SiteID:      "site-1",
				ObjectType:  domain.ObjectTypeWorkbook,
				ObjectID:    "wb-1",
				Title:       "Sales Dashboard",
				ProjectName: "Finance",
				Owner:       "ana",
				DeepLinkURL: "https://tableau.example.com/#/workbooks/1",
			},
			SimilarityScore: 0.91,
		},
		{
			Record: domain.CanonicalRecord{
				SiteID:      "site-1",
				ObjectType:  domain.ObjectTypeView,
				ObjectID:    "vw-1",
				Title:       "Revenue by Region",
				ProjectName: "Finance",
				Owner:       "ben",
			},
			SimilarityScore: 12,
			Lexical:         true,
		},
	}
}
