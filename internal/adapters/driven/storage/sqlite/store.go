package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/vizier-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/vizier-cli/internal/core/domain"
	"github.com/custodia-labs/vizier-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vizier-cli/internal/logger"
)

// DefaultUpsertBatchSize is used when the caller passes no batch size.
const DefaultUpsertBatchSize = 50

// recordColumns is the full column list in scan order.
const recordColumns = `site_id, object_type, object_id, title, description,
	tags, fields, field_details, project_name, owner, source_url,
	deep_link_url, workbook_name, sheet_type, datasources, text_blob,
	search_priority, embedding, updated_at`

// Ensure Store implements the interface.
var _ driven.MetadataStore = (*Store)(nil)

// Store is the SQLite-backed metadata store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a store at the specified data directory.
// If dataDir is empty, defaults to ~/.vizier/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".vizier", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// WAL mode lets the embedding generator and the crawl pipeline
	// share the store.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Upsert ====================

// upsertSQL fully overwrites the mutable columns on conflict (last
// write wins) and refreshes updated_at. A changed text_blob clears the
// stored embedding so the row is re-selected by the next embedding
// drain; an unchanged blob keeps it.
const upsertSQL = `
	INSERT INTO records (
		site_id, object_type, object_id, title, description, tags,
		fields, field_details, project_name, owner, source_url,
		deep_link_url, workbook_name, sheet_type, datasources,
		text_blob, search_priority, embedding, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(site_id, object_type, object_id) DO UPDATE SET
		title = excluded.title,
		description = excluded.description,
		tags = excluded.tags,
		fields = excluded.fields,
		field_details = excluded.field_details,
		project_name = excluded.project_name,
		owner = excluded.owner,
		source_url = excluded.source_url,
		deep_link_url = excluded.deep_link_url,
		workbook_name = excluded.workbook_name,
		sheet_type = excluded.sheet_type,
		datasources = excluded.datasources,
		embedding = CASE
			WHEN records.text_blob <> excluded.text_blob THEN NULL
			ELSE records.embedding
		END,
		text_blob = excluded.text_blob,
		search_priority = excluded.search_priority,
		updated_at = excluded.updated_at
`

// UpsertBatch writes records in transactional batches. A failed batch
// is logged and skipped; the remaining batches still run, so one bad
// batch cannot sink a whole indexing run. Returns the number of
// records written.
func (s *Store) UpsertBatch(ctx context.Context, records []domain.CanonicalRecord, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultUpsertBatchSize
	}

	written := 0
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}

		if err := s.upsertOne(ctx, records[start:end]); err != nil {
			logger.Warn("Batch %d-%d failed, skipping: %v", start, end, err)
			continue
		}
		written += end - start
	}

	logger.Info("Upserted %d of %d records", written, len(records))
	return written, nil
}

// upsertOne writes one batch in a single transaction.
func (s *Store) upsertOne(ctx context.Context, batch []domain.CanonicalRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for _, rec := range batch {
		tags, err := marshalJSONList(rec.Tags)
		if err != nil {
			return fmt.Errorf("record %s: marshal tags: %w", rec.ObjectID, err)
		}
		fields, err := marshalJSONList(rec.Fields)
		if err != nil {
			return fmt.Errorf("record %s: marshal fields: %w", rec.ObjectID, err)
		}
		details, err := marshalJSONList(rec.FieldDetails)
		if err != nil {
			return fmt.Errorf("record %s: marshal field details: %w", rec.ObjectID, err)
		}
		datasources, err := marshalJSONList(rec.Datasources)
		if err != nil {
			return fmt.Errorf("record %s: marshal datasources: %w", rec.ObjectID, err)
		}

		_, err = stmt.ExecContext(ctx,
			rec.SiteID, string(rec.ObjectType), rec.ObjectID, rec.Title,
			rec.Description, tags, fields, details, rec.ProjectName,
			rec.Owner, rec.SourceURL, rec.DeepLinkURL, rec.WorkbookName,
			rec.SheetType, datasources, rec.TextBlob, rec.SearchPriority,
			float32SliceToBytes(rec.Embedding), now)
		if err != nil {
			return fmt.Errorf("record %s: %w", rec.ObjectID, err)
		}
	}

	return tx.Commit()
}

// ==================== Reads ====================

// GetRecord retrieves one record by its composite key.
func (s *Store) GetRecord(ctx context.Context, key domain.RecordKey) (*domain.CanonicalRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+` FROM records
		WHERE site_id = ? AND object_type = ? AND object_id = ?
	`, key.SiteID, string(key.ObjectType), key.ObjectID)

	return scanRecord(row)
}

// FindByObjectID retrieves a record by object ID alone. Object IDs are
// platform-global LUIDs, so a bare ID lookup is unambiguous in
// practice.
func (s *Store) FindByObjectID(ctx context.Context, objectID string) (*domain.CanonicalRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+` FROM records WHERE object_id = ? LIMIT 1
	`, objectID)

	return scanRecord(row)
}

// CountRecords counts records, optionally scoped by site and type.
func (s *Store) CountRecords(ctx context.Context, siteID string, objectType domain.ObjectType) (int, error) {
	query := "SELECT COUNT(*) FROM records WHERE 1=1"
	var args []any
	if siteID != "" {
		query += " AND site_id = ?"
		args = append(args, siteID)
	}
	if objectType != "" {
		query += " AND object_type = ?"
		args = append(args, string(objectType))
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}

// RecordsByType lists a site's records of one type, most recently
// updated first.
func (s *Store) RecordsByType(ctx context.Context, siteID string, objectType domain.ObjectType) ([]domain.CanonicalRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM records
		WHERE site_id = ? AND object_type = ?
		ORDER BY updated_at DESC
	`, siteID, string(objectType))
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

// DeleteRecords removes a site's records, optionally one type only.
func (s *Store) DeleteRecords(ctx context.Context, siteID string, objectType domain.ObjectType) (int64, error) {
	query := "DELETE FROM records WHERE site_id = ?"
	args := []any{siteID}
	if objectType != "" {
		query += " AND object_type = ?"
		args = append(args, string(objectType))
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting records: %w", err)
	}
	return result.RowsAffected()
}

// ==================== Embeddings ====================

// EmbeddingStats reports embedding coverage across the store.
func (s *Store) EmbeddingStats(ctx context.Context) (domain.EmbeddingStats, error) {
	var stats domain.EmbeddingStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN embedding IS NOT NULL THEN 1 ELSE 0 END), 0)
		FROM records
	`).Scan(&stats.TotalRecords, &stats.WithEmbeddings)
	if err != nil {
		return stats, fmt.Errorf("embedding stats: %w", err)
	}

	stats.WithoutEmbeddings = stats.TotalRecords - stats.WithEmbeddings
	if stats.TotalRecords > 0 {
		stats.Percentage = 100 * float64(stats.WithEmbeddings) / float64(stats.TotalRecords)
	}
	return stats, nil
}

// UnembeddedRecords lists records without an embedding, most recently
// updated first. Zero limit means all.
func (s *Store) UnembeddedRecords(ctx context.Context, limit int) ([]domain.CanonicalRecord, error) {
	query := `
		SELECT ` + recordColumns + ` FROM records
		WHERE embedding IS NULL
		ORDER BY updated_at DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying unembedded records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

// UpdateEmbedding writes a record's embedding vector by key.
func (s *Store) UpdateEmbedding(ctx context.Context, key domain.RecordKey, embedding []float32) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE records SET embedding = ?
		WHERE site_id = ? AND object_type = ? AND object_id = ?
	`, float32SliceToBytes(embedding), key.SiteID, string(key.ObjectType), key.ObjectID)
	if err != nil {
		return fmt.Errorf("updating embedding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating embedding: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// EmbeddedRecords lists all records that have an embedding.
func (s *Store) EmbeddedRecords(ctx context.Context) ([]domain.CanonicalRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM records WHERE embedding IS NOT NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("querying embedded records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

// ==================== Search candidates ====================

// LexicalCandidates lists records whose text blob contains the lowered
// query phrase or any of its terms. Scoring happens in the search
// service; the store only narrows the candidate set.
func (s *Store) LexicalCandidates(ctx context.Context, query string, limit int) ([]domain.CanonicalRecord, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	// Candidates are ordered by a rough match strength so a tight limit
	// cannot cut the best-scoring rows: a whole-phrase hit counts double,
	// each term hit counts once. Exact scoring happens in the service.
	clauses := []string{"text_blob LIKE ?"}
	args := []any{"%" + q + "%"}
	hits := []string{"(text_blob LIKE ?) * 2"}
	hitArgs := []any{"%" + q + "%"}
	for _, term := range strings.Fields(q) {
		if term != q {
			clauses = append(clauses, "text_blob LIKE ?")
			args = append(args, "%"+term+"%")
			hits = append(hits, "(text_blob LIKE ?)")
			hitArgs = append(hitArgs, "%"+term+"%")
		}
	}
	args = append(args, hitArgs...)

	sqlQuery := `
		SELECT ` + recordColumns + ` FROM records
		WHERE ` + strings.Join(clauses, " OR ") + `
		ORDER BY ` + strings.Join(hits, " + ") + ` DESC, search_priority DESC, title ASC
	`
	if limit > 0 {
		sqlQuery += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying lexical candidates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

// SuggestTitles returns distinct titles with the given prefix,
// highest search priority first, then alphabetically.
func (s *Store) SuggestTitles(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT title, MAX(search_priority) AS priority FROM records
		WHERE title <> '' AND LOWER(title) LIKE LOWER(?) || '%'
		GROUP BY title
		ORDER BY priority DESC, title ASC
		LIMIT ?
	`, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("querying suggestions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var titles []string
	for rows.Next() {
		var title string
		var priority int
		if err := rows.Scan(&title, &priority); err != nil {
			return nil, fmt.Errorf("scanning suggestion: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// SearchStats summarizes the searchable corpus.
func (s *Store) SearchStats(ctx context.Context) (domain.SearchStats, error) {
	var stats domain.SearchStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN embedding IS NOT NULL THEN 1 ELSE 0 END), 0),
		       COUNT(DISTINCT object_type),
		       COUNT(DISTINCT CASE WHEN project_name <> '' THEN project_name END),
		       COALESCE(AVG(LENGTH(text_blob)), 0)
		FROM records
	`).Scan(&stats.TotalObjects, &stats.ObjectsWithEmbeddings,
		&stats.ObjectTypes, &stats.Projects, &stats.AvgTextLength)
	if err != nil {
		return stats, fmt.Errorf("search stats: %w", err)
	}

	if stats.TotalObjects > 0 {
		stats.EmbeddingCoverage = 100 * float64(stats.ObjectsWithEmbeddings) / float64(stats.TotalObjects)
	}
	return stats, nil
}

// ==================== News ====================

// InsertNewsArticle appends an article, assigning an ID when empty.
func (s *Store) InsertNewsArticle(ctx context.Context, article *domain.NewsArticle) error {
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO news_articles (id, title, summary, content, url,
			source, category, published_at, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, article.ID, article.Title, article.Summary, article.Content,
		article.URL, article.Source, article.Category, article.PublishedAt,
		article.Active, article.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting news article: %w", err)
	}
	return nil
}

// LatestNewsArticles lists active articles, most recent first.
func (s *Store) LatestNewsArticles(ctx context.Context, limit int) ([]domain.NewsArticle, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, summary, content, url, source, category,
		       published_at, active, created_at
		FROM news_articles
		WHERE active = 1
		ORDER BY published_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying news articles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var articles []domain.NewsArticle //nolint:prealloc // size unknown from query
	for rows.Next() {
		var a domain.NewsArticle
		var published sql.NullTime
		if err := rows.Scan(&a.ID, &a.Title, &a.Summary, &a.Content, &a.URL,
			&a.Source, &a.Category, &published, &a.Active, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning news article: %w", err)
		}
		if published.Valid {
			a.PublishedAt = published.Time
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// ==================== Helpers ====================

// recordScanner abstracts *sql.Row and *sql.Rows.
type recordScanner interface {
	Scan(dest ...any) error
}

func scanRecord(scanner recordScanner) (*domain.CanonicalRecord, error) {
	var rec domain.CanonicalRecord
	var objectType string
	var tags, fields, details, datasources string
	var embeddingBlob []byte

	err := scanner.Scan(&rec.SiteID, &objectType, &rec.ObjectID, &rec.Title,
		&rec.Description, &tags, &fields, &details, &rec.ProjectName,
		&rec.Owner, &rec.SourceURL, &rec.DeepLinkURL, &rec.WorkbookName,
		&rec.SheetType, &datasources, &rec.TextBlob, &rec.SearchPriority,
		&embeddingBlob, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}

	rec.ObjectType = domain.ObjectType(objectType)
	rec.Embedding = bytesToFloat32Slice(embeddingBlob)
	if err := unmarshalJSONList(tags, &rec.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	if err := unmarshalJSONList(fields, &rec.Fields); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	if err := unmarshalJSONList(details, &rec.FieldDetails); err != nil {
		return nil, fmt.Errorf("unmarshal field details: %w", err)
	}
	if err := unmarshalJSONList(datasources, &rec.Datasources); err != nil {
		return nil, fmt.Errorf("unmarshal datasources: %w", err)
	}
	return &rec, nil
}

func scanRecords(rows *sql.Rows) ([]domain.CanonicalRecord, error) {
	var records []domain.CanonicalRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

// marshalJSONList encodes a slice column, storing empty slices as [].
func marshalJSONList[T any](items []T) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalJSONList[T any](data string, out *[]T) error {
	if data == "" || data == "[]" {
		return nil
	}
	return json.Unmarshal([]byte(data), out)
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
