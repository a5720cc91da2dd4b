// Package sjr contains the journal metrics dataset built from SCImago Journal
// Rank exports.
package sjr

// Record is the SJR value for a single ISSN.
type Record struct {
	SJR         float64 `json:"sjr"`
	TitleSource string  `json:"title_source"`
}

// Coverage counts matched ISSNs against the number of catalog entries.
type Coverage struct {
	Matched      int `json:"matched"`
	TotalSources int `json:"total_sources"`
}

// Dataset is the journal_metrics.json document. All records share SJRYear.
type Dataset struct {
	GeneratedAt string            `json:"generated_at"`
	SourceName  string            `json:"source_name"`
	SourceNote  string            `json:"source_note"`
	SourceUsed  string            `json:"source_used,omitempty"`
	SJRYear     int               `json:"sjr_year"`
	Coverage    Coverage          `json:"coverage"`
	ByISSN      map[string]Record `json:"by_issn"`
}
