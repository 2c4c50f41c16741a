package domain

import "time"

// RunErrorClass buckets run failures so that every failure mode stays
// distinguishable in the run summary.
type RunErrorClass string

const (
	// RunErrorAuth is a sign-in failure.
	RunErrorAuth RunErrorClass = "auth"
	// RunErrorTransport is a platform fetch failure.
	RunErrorTransport RunErrorClass = "transport"
	// RunErrorQuality is a blocking quality gate failure.
	RunErrorQuality RunErrorClass = "quality"
	// RunErrorStore is a metadata store failure.
	RunErrorStore RunErrorClass = "store"
	// RunErrorNormalize is a per-record normalization failure.
	RunErrorNormalize RunErrorClass = "normalize"
)

// IndexOptions configures a single indexing run. Zero values defer to
// the configured settings.
type IndexOptions struct {
	// ObjectTypes restricts the run to these kinds. Nil means all.
	ObjectTypes []ObjectType

	// ProjectFilter restricts listing to these project names. Nil
	// means the configured filter, empty slice means no filter.
	ProjectFilter []string

	// MaxObjects caps the records indexed this run. Zero defers to
	// settings.
	MaxObjects int

	// BatchSize is the records per store transaction. Zero defers to
	// settings.
	BatchSize int

	// SkipQualityChecks bypasses the quality gate. Operator override
	// for sites with known-bad metadata.
	SkipQualityChecks bool
}

// IndexingRun accumulates the statistics of a single indexing run.
// It lives in memory for the duration of the run and is never persisted;
// the CLI renders it once the run finishes.
type IndexingRun struct {
	// ID identifies the run in log output.
	ID string

	// SiteID is the site that was indexed.
	SiteID string

	// Workbooks, Datasources and Views count normalized records by type.
	Workbooks   int
	Datasources int
	Views       int

	// TotalProcessed is the number of records that reached the store
	// stage.
	TotalProcessed int

	// Upserted is the number of records the store accepted.
	Upserted int

	// SkippedRecords counts payloads dropped during normalization.
	SkippedRecords int

	// InitialCount and FinalCount are the site's store row counts
	// before and after the run.
	InitialCount int
	FinalCount   int

	// Errors counts failures by class.
	Errors map[RunErrorClass]int

	// Quality is the gate outcome, nil when the gate was skipped.
	Quality *QualityResult

	// Recommendations holds advisory guidance derived from Quality.
	Recommendations []string

	// EmbeddingStats is the store's embedding coverage after the run.
	EmbeddingStats EmbeddingStats

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewIndexingRun creates a run with initialized counters.
func NewIndexingRun(id, siteID string) *IndexingRun {
	return &IndexingRun{
		ID:        id,
		SiteID:    siteID,
		Errors:    make(map[RunErrorClass]int),
		StartedAt: time.Now().UTC(),
	}
}

// RecordError increments the counter for a failure class.
func (r *IndexingRun) RecordError(class RunErrorClass) {
	if r.Errors == nil {
		r.Errors = make(map[RunErrorClass]int)
	}
	r.Errors[class]++
}

// ErrorCount returns the total number of recorded failures.
func (r *IndexingRun) ErrorCount() int {
	total := 0
	for _, n := range r.Errors {
		total += n
	}
	return total
}

// CountRecord increments the per-type counter for a record.
func (r *IndexingRun) CountRecord(t ObjectType) {
	switch t {
	case ObjectTypeWorkbook:
		r.Workbooks++
	case ObjectTypeDatasource:
		r.Datasources++
	case ObjectTypeView:
		r.Views++
	}
}

// Duration returns the elapsed run time, using the current time when
// the run has not finished.
func (r *IndexingRun) Duration() time.Duration {
	end := r.FinishedAt
	if end.IsZero() {
		end = time.Now().UTC()
	}
	return end.Sub(r.StartedAt)
}

// Succeeded reports whether the run finished without any failures.
func (r *IndexingRun) Succeeded() bool {
	return r.ErrorCount() == 0
}
