package mcp

import (
	"context"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	titles  []string
	stats   domain.SearchStats
	err     error

	lastQuery     string
	lastLimit     int
	lastThreshold float64
	lastObjectID  string
	lastPrefix    string
}

func (m *mockSearchService) Search(
	_ context.Context, query string, limit int, threshold float64,
) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastLimit = limit
	m.lastThreshold = threshold
	return m.results, m.err
}

func (m *mockSearchService) SearchByType(
	_ context.Context, query string, _ domain.ObjectType, limit int,
) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.results, m.err
}

func (m *mockSearchService) SearchByProject(
	_ context.Context, query, _ string, limit int,
) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.results, m.err
}

func (m *mockSearchService) SimilarObjects(
	_ context.Context, objectID string, limit int,
) ([]domain.SearchResult, error) {
	m.lastObjectID = objectID
	m.lastLimit = limit
	return m.results, m.err
}

func (m *mockSearchService) Suggestions(
	_ context.Context, prefix string, limit int,
) ([]string, error) {
	m.lastPrefix = prefix
	m.lastLimit = limit
	return m.titles, m.err
}

func (m *mockSearchService) Stats(_ context.Context) (domain.SearchStats, error) {
	return m.stats, m.err
}
