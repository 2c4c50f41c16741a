// Package quality implements the pre-persistence quality gate.
//
// The gate runs over a just-normalized batch before any store write.
// Two checks are blocking: site isolation and required fields. When
// either fails, OverallQuality is false and the run must abort without
// writing anything. The remaining checks collect statistics and emit
// advisory warnings that never block persistence.
package quality

import (
	"fmt"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
	"github.com/custodia-labs/vizier-cli/internal/logger"
)

// Gate runs the check table over normalized batches.
type Gate struct {
	checks []Check
}

// NewGate creates a gate with the full check table.
func NewGate() *Gate {
	return &Gate{checks: AllChecks()}
}

// Run executes every check against the batch and aggregates the
// result. OverallQuality is the conjunction of the blocking checks
// only; advisory warnings never affect it.
func (g *Gate) Run(records []domain.CanonicalRecord, expectedSiteID string) *domain.QualityResult {
	logger.Section("Quality Gate")
	result := &domain.QualityResult{}

	for _, check := range g.checks {
		check.Run(records, expectedSiteID, result)
		logger.Debug("Check %s done", check.Name)
	}

	result.OverallQuality = result.SiteIsolation && result.RequiredFields

	logger.Info("Quality gate: overall=%t, %d issues, %d warnings",
		result.OverallQuality, len(result.Issues), len(result.Warnings))
	return result
}

// Recommendations derives operator guidance from a gate result.
func Recommendations(result *domain.QualityResult) []string {
	if result == nil {
		return nil
	}

	var recs []string
	if !result.OverallQuality {
		recs = append(recs, "Fix critical quality issues before re-running the index")
	}

	ds := result.DescriptionStats
	if ds.TotalRecords > 0 && ds.WithoutDescriptions*10 > ds.TotalRecords*3 {
		recs = append(recs, fmt.Sprintf(
			"Ask content authors for descriptions: %d of %d objects have none",
			ds.WithoutDescriptions, ds.TotalRecords))
	}

	bs := result.TextBlobStats
	if bs.TotalRecords > 0 && bs.ShortBlobs*5 > bs.TotalRecords {
		recs = append(recs, "Improve metadata extraction: many search blobs are very short")
	}

	if result.URLStats.MalformedURLs > 0 {
		recs = append(recs, fmt.Sprintf(
			"Fix %d malformed source URLs", result.URLStats.MalformedURLs))
	}

	if len(result.Warnings) > 5 {
		recs = append(recs, "Address outstanding quality warnings to improve search relevance")
	}
	return recs
}
