package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
	"github.com/custodia-labs/vizier-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vizier-cli/internal/core/ports/driving"
	"github.com/custodia-labs/vizier-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// phraseWeight is how much a whole-phrase hit counts relative to a
// single term hit in the lexical fallback score.
const phraseWeight = 2.0

// SearchService provides hybrid vector and lexical search over the
// metadata store.
type SearchService struct {
	store     driven.MetadataStore
	embedding driven.EmbeddingService
	settings  driving.SettingsService
}

// NewSearchService creates a new search service.
// The embedding parameter is optional (can be nil); without it every
// search takes the lexical path.
func NewSearchService(
	store driven.MetadataStore,
	embedding driven.EmbeddingService,
	settings driving.SettingsService,
) *SearchService {
	return &SearchService{
		store:     store,
		embedding: embedding,
		settings:  settings,
	}
}

// Search ranks records against the query by embedding cosine similarity,
// falling back to lexical relevance when no vectors are available.
func (s *SearchService) Search(
	ctx context.Context, query string, limit int, threshold float64,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	limit, threshold = s.resolveDefaults(limit, threshold)
	logger.Debug("Limit: %d, Threshold: %.2f", limit, threshold)

	if s.embedding == nil {
		logger.Debug("No embedding provider, using lexical search")
		return s.lexicalSearch(ctx, query, limit)
	}

	queryVec, err := s.embedQuery(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed, falling back to lexical: %v", err)
		return s.lexicalSearch(ctx, query, limit)
	}

	embedded, err := s.store.EmbeddedRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load embedded records: %w", err)
	}
	if len(embedded) == 0 {
		logger.Debug("No embedded records, using lexical search")
		return s.lexicalSearch(ctx, query, limit)
	}

	results := rankBySimilarity(embedded, queryVec, threshold)
	if len(results) == 0 {
		// The threshold filtered out every embedded record; the query
		// still deserves an answer from the lexical path.
		logger.Debug("No vector results at threshold %.2f, using lexical search", threshold)
		return s.lexicalSearch(ctx, query, limit)
	}
	if len(results) > limit {
		results = results[:limit]
	}
	logger.Info("Vector search: %d results (of %d embedded records)",
		len(results), len(embedded))
	return results, nil
}

// SearchByType searches, then keeps only results of the given type.
func (s *SearchService) SearchByType(
	ctx context.Context, query string, objectType domain.ObjectType, limit int,
) ([]domain.SearchResult, error) {
	limit, _ = s.resolveDefaults(limit, -1)

	// Over-fetch so the post-filter still fills the limit.
	results, err := s.Search(ctx, query, limit*2, -1)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.SearchResult, 0, limit)
	for _, r := range results {
		if r.Record.ObjectType == objectType {
			filtered = append(filtered, r)
			if len(filtered) == limit {
				break
			}
		}
	}
	return filtered, nil
}

// SearchByProject searches, then keeps only results whose project name
// contains the given name (case-insensitive).
func (s *SearchService) SearchByProject(
	ctx context.Context, query, projectName string, limit int,
) ([]domain.SearchResult, error) {
	limit, _ = s.resolveDefaults(limit, -1)
	want := strings.ToLower(strings.TrimSpace(projectName))

	results, err := s.Search(ctx, query, limit*2, -1)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.SearchResult, 0, limit)
	for _, r := range results {
		if strings.Contains(strings.ToLower(r.Record.ProjectName), want) {
			filtered = append(filtered, r)
			if len(filtered) == limit {
				break
			}
		}
	}
	return filtered, nil
}

// SimilarObjects ranks other embedded records by similarity to the given
// object's embedding.
func (s *SearchService) SimilarObjects(
	ctx context.Context, objectID string, limit int,
) ([]domain.SearchResult, error) {
	limit, _ = s.resolveDefaults(limit, -1)

	anchor, err := s.store.FindByObjectID(ctx, objectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Debug("Similar: object %s not found", objectID)
			return []domain.SearchResult{}, nil
		}
		return nil, fmt.Errorf("load anchor record: %w", err)
	}
	if !anchor.HasEmbedding() {
		logger.Debug("Similar: object %s has no embedding", objectID)
		return []domain.SearchResult{}, nil
	}

	embedded, err := s.store.EmbeddedRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load embedded records: %w", err)
	}

	// Rank everything except the anchor itself. No threshold: the
	// caller asked for the nearest neighbours, however distant.
	candidates := make([]domain.CanonicalRecord, 0, len(embedded))
	for _, rec := range embedded {
		if rec.Key() == anchor.Key() {
			continue
		}
		candidates = append(candidates, rec)
	}

	results := rankBySimilarity(candidates, anchor.Embedding, -1)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Suggestions returns distinct titles starting with prefix.
func (s *SearchService) Suggestions(
	ctx context.Context, prefix string, limit int,
) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []string{}, nil
	}
	limit, _ = s.resolveDefaults(limit, -1)

	titles, err := s.store.SuggestTitles(ctx, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("suggest titles: %w", err)
	}
	return titles, nil
}

// Stats summarizes the searchable corpus.
func (s *SearchService) Stats(ctx context.Context) (domain.SearchStats, error) {
	stats, err := s.store.SearchStats(ctx)
	if err != nil {
		return domain.SearchStats{}, fmt.Errorf("search stats: %w", err)
	}
	return stats, nil
}

// lexicalSearch runs the LIKE-based fallback over text blobs.
func (s *SearchService) lexicalSearch(
	ctx context.Context, query string, limit int,
) ([]domain.SearchResult, error) {
	phrase := strings.ToLower(strings.TrimSpace(query))
	terms := strings.Fields(phrase)

	// Over-fetch so exact scoring below has room to reorder candidates.
	candidates, err := s.store.LexicalCandidates(ctx, phrase, limit*4)
	if err != nil {
		return nil, fmt.Errorf("lexical candidates: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(candidates))
	for _, rec := range candidates {
		score := lexicalScore(rec.TextBlob, phrase, terms)
		if score <= 0 {
			continue
		}
		results = append(results, domain.SearchResult{
			Record:          rec,
			SimilarityScore: score,
			Lexical:         true,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].SimilarityScore != results[j].SimilarityScore {
			return results[i].SimilarityScore > results[j].SimilarityScore
		}
		if results[i].Record.SearchPriority != results[j].Record.SearchPriority {
			return results[i].Record.SearchPriority > results[j].Record.SearchPriority
		}
		return results[i].Record.Title < results[j].Record.Title
	})

	if len(results) > limit {
		results = results[:limit]
	}
	logger.Info("Lexical search: %d results", len(results))
	return results, nil
}

// embedQuery embeds and unit-normalizes the query text.
func (s *SearchService) embedQuery(ctx context.Context, query string) ([]float32, error) {
	vec, err := s.embedding.Embed(ctx, strings.ToLower(query))
	if err != nil {
		return nil, err
	}
	return domain.NormalizeVector(vec), nil
}

// resolveDefaults substitutes configured defaults for unset limit and
// threshold values.
func (s *SearchService) resolveDefaults(limit int, threshold float64) (int, float64) {
	defaults := domain.DefaultAppSettings()
	if s.settings != nil {
		if cfg, err := s.settings.Get(); err == nil {
			defaults = *cfg
		}
	}
	if limit <= 0 {
		limit = defaults.Search.DefaultLimit
	}
	if threshold < 0 {
		threshold = defaults.Search.SimilarityThreshold
	}
	return limit, threshold
}

// rankBySimilarity scores records against the query vector, keeps those
// at or above threshold, and orders them similarity desc with
// search-priority and title tie-breaks. A negative threshold keeps all.
func rankBySimilarity(
	records []domain.CanonicalRecord, queryVec []float32, threshold float64,
) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(records))
	for _, rec := range records {
		sim := domain.CosineSimilarity(queryVec, rec.Embedding)
		if threshold >= 0 && sim < threshold {
			continue
		}
		results = append(results, domain.SearchResult{
			Record:          rec,
			SimilarityScore: sim,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].SimilarityScore != results[j].SimilarityScore {
			return results[i].SimilarityScore > results[j].SimilarityScore
		}
		if results[i].Record.SearchPriority != results[j].Record.SearchPriority {
			return results[i].Record.SearchPriority > results[j].Record.SearchPriority
		}
		return results[i].Record.Title < results[j].Record.Title
	})
	return results
}

// lexicalScore counts term hits in the blob, weighting whole-phrase
// presence above individual terms.
func lexicalScore(blob, phrase string, terms []string) float64 {
	if blob == "" {
		return 0
	}

	var score float64
	for _, term := range terms {
		score += float64(strings.Count(blob, term))
	}
	if len(terms) > 1 && strings.Contains(blob, phrase) {
		score += phraseWeight * float64(len(terms))
	}
	return score
}
