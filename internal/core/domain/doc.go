// Package domain defines the core business entities for Vizier.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - CanonicalRecord: A normalized platform object ready for indexing
//   - RichDescription: Plain or structured description content
//   - QualityResult: Outcome of the pre-write quality gate
//   - IndexingRun: In-memory statistics for a single indexing run
//   - RawWorkbook / RawDatasource / RawView: Payloads from the platform client
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
