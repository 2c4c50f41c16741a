package domain

// DescriptionStats summarizes description coverage across a batch.
type DescriptionStats struct {
	TotalRecords        int
	WithDescriptions    int
	WithoutDescriptions int
	ShortDescriptions   int
	LongDescriptions    int
}

// URLStats summarizes source URL health across a batch.
type URLStats struct {
	TotalRecords     int
	WithURLs         int
	WithoutURLs      int
	WithDeepLinks    int
	WithoutDeepLinks int
	MalformedURLs    int
}

// TextBlobStats summarizes search blob health across a batch.
type TextBlobStats struct {
	TotalRecords  int
	EmptyBlobs    int
	ShortBlobs    int
	LongBlobs     int
	AverageLength float64
}

// QualityResult aggregates the outcome of the pre-write quality gate.
//
// SiteIsolation and RequiredFields are the blocking checks: when either
// fails the batch must not be written. The stat checks are advisory and
// contribute warnings only.
type QualityResult struct {
	// SiteIsolation reports whether every record carries the expected
	// site ID. Blocking.
	SiteIsolation bool

	// RequiredFields reports whether every record has object_id,
	// title, object_type and text_blob. Blocking.
	RequiredFields bool

	// DescriptionStats holds the advisory description coverage numbers.
	DescriptionStats DescriptionStats

	// URLStats holds the advisory URL health numbers.
	URLStats URLStats

	// TextBlobStats holds the advisory blob health numbers.
	TextBlobStats TextBlobStats

	// Issues itemizes blocking findings.
	Issues []string

	// Warnings itemizes advisory findings.
	Warnings []string

	// OverallQuality is the conjunction of the blocking checks only.
	// Advisory findings never affect it.
	OverallQuality bool
}
