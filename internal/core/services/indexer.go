package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
	"github.com/custodia-labs/vizier-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vizier-cli/internal/core/ports/driving"
	"github.com/custodia-labs/vizier-cli/internal/logger"
	"github.com/custodia-labs/vizier-cli/internal/normalisers/tableau"
	"github.com/custodia-labs/vizier-cli/internal/quality"
)

// Ensure IndexerService implements the interface.
var _ driving.IndexerService = (*IndexerService)(nil)

// DefaultUpsertBatchSize is the records per store transaction when
// neither the caller nor the settings specify one.
const DefaultUpsertBatchSize = 50

// IndexerService runs the crawl-normalize-gate-upsert pipeline.
type IndexerService struct {
	platform driven.PlatformClient
	store    driven.MetadataStore
	gate     *quality.Gate
	settings driving.SettingsService
}

// NewIndexerService creates a new indexer service. The platform client
// carries the site connection and project filter it was built with.
func NewIndexerService(
	platform driven.PlatformClient,
	store driven.MetadataStore,
	gate *quality.Gate,
	settings driving.SettingsService,
) *IndexerService {
	return &IndexerService{
		platform: platform,
		store:    store,
		gate:     gate,
		settings: settings,
	}
}

// IndexSite indexes the configured site end to end. The returned run
// summary is always non-nil, also on failure, so callers can render
// what happened.
func (s *IndexerService) IndexSite(ctx context.Context, opts domain.IndexOptions) (*domain.IndexingRun, error) {
	run := domain.NewIndexingRun(uuid.NewString(), "")
	defer func() {
		run.FinishedAt = time.Now().UTC()
	}()

	logger.Section("Indexing Run " + run.ID)

	// 1. Sign in.
	if !s.platform.SignIn(ctx) {
		run.RecordError(domain.RunErrorAuth)
		return run, fmt.Errorf("%w: check server URL and personal access token", domain.ErrAuthFailed)
	}
	defer s.platform.SignOut(ctx)

	siteID := s.platform.SiteID()
	run.SiteID = siteID
	logger.Info("Signed in to site %s", siteID)

	// 2. Count what the store already holds for this site.
	initial, err := s.store.CountRecords(ctx, siteID, "")
	if err != nil {
		logger.Warn("Initial count failed: %v", err)
	}
	run.InitialCount = initial

	// 3. Fetch everything the run asked for.
	metadata, err := s.platform.FetchComprehensiveMetadata(ctx, opts.ObjectTypes)
	if err != nil {
		run.RecordError(domain.RunErrorTransport)
		return run, fmt.Errorf("fetch metadata: %w", err)
	}

	// 4. Normalize. Unaddressable payloads are dropped inside the
	// normaliser; the difference is what was skipped.
	records := s.normalize(metadata, siteID)
	run.SkippedRecords = metadata.Total() - len(records)
	for i := 0; i < run.SkippedRecords; i++ {
		run.RecordError(domain.RunErrorNormalize)
	}

	// 5. Optional cap, before the gate sees the batch.
	if max := s.maxObjects(opts); max > 0 && len(records) > max {
		logger.Warn("Truncating %d records to the configured cap of %d", len(records), max)
		records = records[:max]
	}

	run.TotalProcessed = len(records)
	for _, rec := range records {
		run.CountRecord(rec.ObjectType)
	}

	// 6. Quality gate. A blocking failure aborts before any write.
	if opts.SkipQualityChecks {
		logger.Warn("Quality checks skipped by operator override")
	} else {
		result := s.gate.Run(records, siteID)
		run.Quality = result
		run.Recommendations = quality.Recommendations(result)
		if !result.OverallQuality {
			run.RecordError(domain.RunErrorQuality)
			return run, fmt.Errorf("%w: %d issues found, nothing written",
				domain.ErrQualityGate, len(result.Issues))
		}
	}

	// 7. Upsert.
	written, err := s.store.UpsertBatch(ctx, records, s.batchSize(opts))
	run.Upserted = written
	if err != nil {
		run.RecordError(domain.RunErrorStore)
		return run, fmt.Errorf("upsert records: %w", err)
	}

	// 8. Close out the summary.
	final, err := s.store.CountRecords(ctx, siteID, "")
	if err != nil {
		logger.Warn("Final count failed: %v", err)
	}
	run.FinalCount = final

	stats, err := s.store.EmbeddingStats(ctx)
	if err != nil {
		logger.Warn("Embedding stats failed: %v", err)
	}
	run.EmbeddingStats = stats

	logger.Info("Run %s complete: %d upserted (%d -> %d rows)",
		run.ID, run.Upserted, run.InitialCount, run.FinalCount)
	return run, nil
}

// normalize converts raw payloads using the connection the settings
// describe, so deep links point at the right server and site.
func (s *IndexerService) normalize(metadata *domain.PlatformMetadata, siteID string) []domain.CanonicalRecord {
	var serverURL, siteName string
	if s.settings != nil {
		if cfg, err := s.settings.Get(); err == nil {
			serverURL = cfg.Platform.ServerURL
			siteName = cfg.Platform.SiteName
		}
	}
	n := tableau.New(siteID, serverURL, siteName)
	return n.NormalizeMetadata(metadata)
}

func (s *IndexerService) maxObjects(opts domain.IndexOptions) int {
	if opts.MaxObjects > 0 {
		return opts.MaxObjects
	}
	if s.settings != nil {
		if cfg, err := s.settings.Get(); err == nil {
			return cfg.Index.MaxObjects
		}
	}
	return 0
}

func (s *IndexerService) batchSize(opts domain.IndexOptions) int {
	if opts.BatchSize > 0 {
		return opts.BatchSize
	}
	if s.settings != nil {
		if cfg, err := s.settings.Get(); err == nil && cfg.Index.UpsertBatchSize > 0 {
			return cfg.Index.UpsertBatchSize
		}
	}
	return DefaultUpsertBatchSize
}
