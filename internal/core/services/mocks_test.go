package services

import (
	"context"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
	"github.com/custodia-labs/vizier-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// embedFn lets tests make vectors depend on the input text.
type mockEmbeddingService struct {
	embedFn  func(text string) []float32
	embedErr error
	batchErr error
	// batchErrOn fails only the n-th EmbedBatch call (1-based) when
	// set, so tests can exercise batch isolation.
	batchErrOn int
	pingErr    error

	embedCalls int
	batchCalls int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedFn(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	if m.batchErr != nil && (m.batchErrOn == 0 || m.batchCalls == m.batchErrOn) {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.embedFn(t)
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int { return domain.EmbeddingDimensions }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return m.pingErr }

func (m *mockEmbeddingService) Close() error { return nil }

// axisEmbedder returns unit vectors along a per-keyword axis so cosine
// similarity is 1 for matching texts and 0 for everything else.
func axisEmbedder(axes map[string]int) func(string) []float32 {
	return func(text string) []float32 {
		vec := make([]float32, domain.EmbeddingDimensions)
		for keyword, axis := range axes {
			if containsFold(text, keyword) {
				vec[axis] = 1
				return vec
			}
		}
		vec[domain.EmbeddingDimensions-1] = 1
		return vec
	}
}

func containsFold(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		match := true
		for j := 0; j < len(substr); j++ {
			a, b := s[i+j], substr[j]
			if a >= 'A' && a <= 'Z' {
				a += 'a' - 'A'
			}
			if b >= 'A' && b <= 'Z' {
				b += 'a' - 'A'
			}
			if a != b {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// mockPlatformClient implements driven.PlatformClient for testing.
type mockPlatformClient struct {
	signInOK bool
	siteID   string
	metadata *domain.PlatformMetadata
	fetchErr error

	signInCalls  int
	signOutCalls int
	fetchedTypes []domain.ObjectType
	state        driven.SessionState
}

func (m *mockPlatformClient) SignIn(_ context.Context) bool {
	m.signInCalls++
	if m.signInOK {
		m.state = driven.SessionAuthenticated
	}
	return m.signInOK
}

func (m *mockPlatformClient) SignOut(_ context.Context) {
	m.signOutCalls++
	m.state = driven.SessionSignedOut
}

func (m *mockPlatformClient) State() driven.SessionState { return m.state }

func (m *mockPlatformClient) SiteID() string { return m.siteID }

func (m *mockPlatformClient) ListWorkbooks(_ context.Context, _ []string) ([]domain.RawWorkbook, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.metadata.Workbooks, nil
}

func (m *mockPlatformClient) ListDatasources(_ context.Context, _ []string) ([]domain.RawDatasource, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.metadata.Datasources, nil
}

func (m *mockPlatformClient) ListViews(_ context.Context, _ []string) ([]domain.RawView, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.metadata.Views, nil
}

func (m *mockPlatformClient) ListViewsForWorkbook(_ context.Context, _ string) ([]domain.RawView, error) {
	return nil, nil
}

func (m *mockPlatformClient) ListProjects(_ context.Context) ([]domain.RawProjectInfo, error) {
	return nil, nil
}

func (m *mockPlatformClient) FetchComprehensiveMetadata(_ context.Context, objectTypes []domain.ObjectType) (*domain.PlatformMetadata, error) {
	m.fetchedTypes = objectTypes
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.metadata, nil
}
