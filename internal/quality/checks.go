package quality

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

// Description length thresholds (characters).
const (
	shortDescriptionLen = 10
	longDescriptionLen  = 500
)

// Text blob length thresholds (characters).
const (
	shortBlobLen = 20
	longBlobLen  = 2000
)

// validURLPrefixes are the content URL shapes the platform hands out.
var validURLPrefixes = []string{"views/", "workbooks/", "datasources/"}

// CheckFunc inspects a batch and records its findings on the result.
type CheckFunc func(records []domain.CanonicalRecord, expectedSiteID string, result *domain.QualityResult)

// Check pairs a name with its check function so the runner and tests
// can iterate the gate uniformly.
type Check struct {
	Name     string
	Blocking bool
	Run      CheckFunc
}

// AllChecks returns the gate's check table in execution order.
func AllChecks() []Check {
	return []Check{
		{Name: "site_isolation", Blocking: true, Run: CheckSiteIsolation},
		{Name: "required_fields", Blocking: true, Run: CheckRequiredFields},
		{Name: "description_quality", Run: CheckDescriptionQuality},
		{Name: "url_quality", Run: CheckURLQuality},
		{Name: "text_blob_quality", Run: CheckTextBlobQuality},
	}
}

// CheckSiteIsolation verifies every record carries the expected site
// ID. A mismatch means the crawl leaked another site's objects into
// this run, so it is blocking.
func CheckSiteIsolation(records []domain.CanonicalRecord, expectedSiteID string, result *domain.QualityResult) {
	result.SiteIsolation = true
	for i, rec := range records {
		if rec.SiteID != expectedSiteID {
			result.SiteIsolation = false
			result.Issues = append(result.Issues, fmt.Sprintf(
				"record %d (%s %q): site %q does not match target site %q",
				i, rec.ObjectType, rec.Title, rec.SiteID, expectedSiteID))
		}
	}
}

// CheckRequiredFields verifies object ID, title, object type and text
// blob are present on every record. Blocking: such records cannot be
// addressed or searched.
func CheckRequiredFields(records []domain.CanonicalRecord, _ string, result *domain.QualityResult) {
	result.RequiredFields = true
	for i, rec := range records {
		var missing []string
		if rec.ObjectID == "" {
			missing = append(missing, "object_id")
		}
		if rec.Title == "" {
			missing = append(missing, "title")
		}
		if !rec.ObjectType.IsValid() {
			missing = append(missing, "object_type")
		}
		if rec.TextBlob == "" {
			missing = append(missing, "text_blob")
		}
		if len(missing) > 0 {
			result.RequiredFields = false
			result.Issues = append(result.Issues, fmt.Sprintf(
				"record %d (%s %q): missing %s",
				i, rec.ObjectType, rec.Title, strings.Join(missing, ", ")))
		}
	}
}

// CheckDescriptionQuality counts description coverage. Advisory.
func CheckDescriptionQuality(records []domain.CanonicalRecord, _ string, result *domain.QualityResult) {
	stats := domain.DescriptionStats{TotalRecords: len(records)}
	for _, rec := range records {
		desc := strings.TrimSpace(domain.ParseDescription(rec.Description).SearchText())
		switch {
		case desc == "":
			stats.WithoutDescriptions++
		default:
			stats.WithDescriptions++
			if len(desc) < shortDescriptionLen {
				stats.ShortDescriptions++
			}
			if len(desc) > longDescriptionLen {
				stats.LongDescriptions++
			}
		}
	}
	result.DescriptionStats = stats

	if stats.TotalRecords == 0 {
		return
	}
	if stats.WithoutDescriptions*2 > stats.TotalRecords {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"%d of %d records have no description (coverage below 50%%)",
			stats.WithoutDescriptions, stats.TotalRecords))
	}
	if stats.ShortDescriptions*10 > stats.TotalRecords*3 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"%d of %d records have very short descriptions (over 30%%)",
			stats.ShortDescriptions, stats.TotalRecords))
	}
}

// CheckURLQuality verifies source URLs carry one of the platform's
// expected path prefixes and counts deep link coverage. Advisory.
func CheckURLQuality(records []domain.CanonicalRecord, _ string, result *domain.QualityResult) {
	stats := domain.URLStats{TotalRecords: len(records)}
	for _, rec := range records {
		if rec.SourceURL == "" {
			stats.WithoutURLs++
		} else {
			stats.WithURLs++
			if !hasValidPrefix(rec.SourceURL) {
				stats.MalformedURLs++
			}
		}
		if rec.DeepLinkURL == "" {
			stats.WithoutDeepLinks++
		} else {
			stats.WithDeepLinks++
		}
	}
	result.URLStats = stats

	if stats.MalformedURLs > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"%d records have malformed source URLs", stats.MalformedURLs))
	}
	if stats.TotalRecords > 0 && stats.WithoutDeepLinks*10 > stats.TotalRecords {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"%d of %d records lack a deep link (over 10%%)",
			stats.WithoutDeepLinks, stats.TotalRecords))
	}
}

// CheckTextBlobQuality measures search blob health. Advisory; the
// blocking empty-blob case is already covered by required fields.
func CheckTextBlobQuality(records []domain.CanonicalRecord, _ string, result *domain.QualityResult) {
	stats := domain.TextBlobStats{TotalRecords: len(records)}
	totalLen := 0
	for _, rec := range records {
		n := len(rec.TextBlob)
		totalLen += n
		switch {
		case n == 0:
			stats.EmptyBlobs++
		case n < shortBlobLen:
			stats.ShortBlobs++
		case n > longBlobLen:
			stats.LongBlobs++
		}
	}
	if stats.TotalRecords > 0 {
		stats.AverageLength = float64(totalLen) / float64(stats.TotalRecords)
	}
	result.TextBlobStats = stats

	if stats.EmptyBlobs > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"%d records have empty search blobs", stats.EmptyBlobs))
	}
	if stats.TotalRecords > 0 && stats.ShortBlobs*5 > stats.TotalRecords {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"%d of %d records have very short search blobs (over 20%%)",
			stats.ShortBlobs, stats.TotalRecords))
	}
}

func hasValidPrefix(url string) bool {
	for _, prefix := range validURLPrefixes {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}
