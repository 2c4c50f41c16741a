package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
	"github.com/custodia-labs/vizier-cli/internal/core/ports/driven"
)

// Ensure MetadataStore implements the interface.
var _ driven.MetadataStore = (*MetadataStore)(nil)

// MetadataStore is an in-memory implementation of driven.MetadataStore
// for testing. It mirrors the SQLite store's semantics, including the
// embedding invalidation on text blob change.
type MetadataStore struct {
	mu      sync.RWMutex
	records map[domain.RecordKey]domain.CanonicalRecord
	news    []domain.NewsArticle

	// UpsertErr, when set, fails every upsert batch. Tests use it to
	// exercise partial-failure paths.
	UpsertErr error
}

// NewMetadataStore creates a new in-memory metadata store.
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{
		records: make(map[domain.RecordKey]domain.CanonicalRecord),
	}
}

// UpsertBatch stores records with last-write-wins semantics.
func (s *MetadataStore) UpsertBatch(_ context.Context, records []domain.CanonicalRecord, _ int) (int, error) {
	if s.UpsertErr != nil {
		return 0, s.UpsertErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for _, rec := range records {
		if existing, ok := s.records[rec.Key()]; ok && existing.TextBlob == rec.TextBlob {
			rec.Embedding = existing.Embedding
		} else {
			rec.Embedding = nil
		}
		rec.UpdatedAt = now
		s.records[rec.Key()] = rec
	}
	return len(records), nil
}

// GetRecord retrieves one record by its composite key.
func (s *MetadataStore) GetRecord(_ context.Context, key domain.RecordKey) (*domain.CanonicalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// FindByObjectID retrieves a record by object ID alone.
func (s *MetadataStore) FindByObjectID(_ context.Context, objectID string) (*domain.CanonicalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.ObjectID == objectID {
			return &rec, nil
		}
	}
	return nil, domain.ErrNotFound
}

// CountRecords counts records, optionally scoped by site and type.
func (s *MetadataStore) CountRecords(_ context.Context, siteID string, objectType domain.ObjectType) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, rec := range s.records {
		if matches(rec, siteID, objectType) {
			count++
		}
	}
	return count, nil
}

// RecordsByType lists a site's records of one type, most recently
// updated first.
func (s *MetadataStore) RecordsByType(_ context.Context, siteID string, objectType domain.ObjectType) ([]domain.CanonicalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.CanonicalRecord
	for _, rec := range s.records {
		if matches(rec, siteID, objectType) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// DeleteRecords removes a site's records, optionally one type only.
func (s *MetadataStore) DeleteRecords(_ context.Context, siteID string, objectType domain.ObjectType) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for key, rec := range s.records {
		if matches(rec, siteID, objectType) {
			delete(s.records, key)
			deleted++
		}
	}
	return deleted, nil
}

// EmbeddingStats reports embedding coverage across the store.
func (s *MetadataStore) EmbeddingStats(_ context.Context) (domain.EmbeddingStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := domain.EmbeddingStats{TotalRecords: len(s.records)}
	for _, rec := range s.records {
		if rec.HasEmbedding() {
			stats.WithEmbeddings++
		}
	}
	stats.WithoutEmbeddings = stats.TotalRecords - stats.WithEmbeddings
	if stats.TotalRecords > 0 {
		stats.Percentage = 100 * float64(stats.WithEmbeddings) / float64(stats.TotalRecords)
	}
	return stats, nil
}

// UnembeddedRecords lists records without an embedding, most recently
// updated first. Zero limit means all.
func (s *MetadataStore) UnembeddedRecords(_ context.Context, limit int) ([]domain.CanonicalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.CanonicalRecord
	for _, rec := range s.records {
		if !rec.HasEmbedding() {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpdateEmbedding writes a record's embedding vector by key.
func (s *MetadataStore) UpdateEmbedding(_ context.Context, key domain.RecordKey, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Embedding = embedding
	s.records[key] = rec
	return nil
}

// EmbeddedRecords lists all records that have an embedding.
func (s *MetadataStore) EmbeddedRecords(_ context.Context) ([]domain.CanonicalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.CanonicalRecord
	for _, rec := range s.records {
		if rec.HasEmbedding() {
			out = append(out, rec)
		}
	}
	return out, nil
}

// LexicalCandidates lists records whose text blob contains the lowered
// query phrase or any of its terms, strongest rough match first so a
// tight limit keeps the rows most likely to score well.
func (s *MetadataStore) LexicalCandidates(_ context.Context, query string, limit int) ([]domain.CanonicalRecord, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}
	terms := strings.Fields(q)

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.CanonicalRecord
	hits := make(map[domain.RecordKey]int)
	for _, rec := range s.records {
		n := 0
		if strings.Contains(rec.TextBlob, q) {
			n += 2
		}
		for _, term := range terms {
			if term != q && strings.Contains(rec.TextBlob, term) {
				n++
			}
		}
		if n > 0 {
			out = append(out, rec)
			hits[rec.Key()] = n
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if hi, hj := hits[out[i].Key()], hits[out[j].Key()]; hi != hj {
			return hi > hj
		}
		if out[i].SearchPriority != out[j].SearchPriority {
			return out[i].SearchPriority > out[j].SearchPriority
		}
		return out[i].Title < out[j].Title
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SuggestTitles returns distinct titles with the given prefix.
func (s *MetadataStore) SuggestTitles(_ context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	best := make(map[string]int)
	for _, rec := range s.records {
		if rec.Title == "" || !strings.HasPrefix(strings.ToLower(rec.Title), prefix) {
			continue
		}
		if p, ok := best[rec.Title]; !ok || rec.SearchPriority > p {
			best[rec.Title] = rec.SearchPriority
		}
	}

	titles := make([]string, 0, len(best))
	for title := range best {
		titles = append(titles, title)
	}
	sort.Slice(titles, func(i, j int) bool {
		if best[titles[i]] != best[titles[j]] {
			return best[titles[i]] > best[titles[j]]
		}
		return titles[i] < titles[j]
	})
	if len(titles) > limit {
		titles = titles[:limit]
	}
	return titles, nil
}

// SearchStats summarizes the searchable corpus.
func (s *MetadataStore) SearchStats(_ context.Context) (domain.SearchStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := domain.SearchStats{TotalObjects: len(s.records)}
	types := make(map[domain.ObjectType]bool)
	projects := make(map[string]bool)
	totalLen := 0
	for _, rec := range s.records {
		if rec.HasEmbedding() {
			stats.ObjectsWithEmbeddings++
		}
		types[rec.ObjectType] = true
		if rec.ProjectName != "" {
			projects[rec.ProjectName] = true
		}
		totalLen += len(rec.TextBlob)
	}
	stats.ObjectTypes = len(types)
	stats.Projects = len(projects)
	if stats.TotalObjects > 0 {
		stats.EmbeddingCoverage = 100 * float64(stats.ObjectsWithEmbeddings) / float64(stats.TotalObjects)
		stats.AvgTextLength = float64(totalLen) / float64(stats.TotalObjects)
	}
	return stats, nil
}

// InsertNewsArticle appends an article, assigning an ID when empty.
func (s *MetadataStore) InsertNewsArticle(_ context.Context, article *domain.NewsArticle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now().UTC()
	}
	s.news = append(s.news, *article)
	return nil
}

// LatestNewsArticles lists active articles, most recent first.
func (s *MetadataStore) LatestNewsArticles(_ context.Context, limit int) ([]domain.NewsArticle, error) {
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.NewsArticle
	for _, a := range s.news {
		if a.Active {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op.
func (s *MetadataStore) Close() error {
	return nil
}

func matches(rec domain.CanonicalRecord, siteID string, objectType domain.ObjectType) bool {
	if siteID != "" && rec.SiteID != siteID {
		return false
	}
	if objectType != "" && rec.ObjectType != objectType {
		return false
	}
	return true
}
