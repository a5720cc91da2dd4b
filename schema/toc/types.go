// Package toc contains the article dataset written for the dashboard.
package toc

// Item is a single article in the table of contents. Enrichment fields are
// only set for the subset of items that went through the PubMed lookup.
type Item struct {
	Journal      string  `json:"journal"`
	JournalShort string  `json:"journal_short"`
	Title        string  `json:"title"`
	Authors      string  `json:"authors"`
	Published    *string `json:"published"` // YYYY-MM-DD or null
	DOI          string  `json:"doi"`
	URL          string  `json:"url"`
	AOP          bool    `json:"aop"`
	Type         string  `json:"type"`
	Publisher    string  `json:"publisher"`
	Source       string  `json:"source"`
	Tier         int     `json:"tier"`

	PMID                   string   `json:"pmid,omitempty"`
	PubMedURL              string   `json:"pubmed_url,omitempty"`
	PubMedPublicationTypes []string `json:"pubmed_publication_types,omitempty"`
	Category               string   `json:"category,omitempty"`
}

// PublishedDate returns the published day or the empty string.
func (it *Item) PublishedDate() string {
	if it.Published == nil {
		return ""
	}
	return *it.Published
}

// Meta records the knobs and counters of a run.
type Meta struct {
	RunID            string   `json:"run_id"`
	Generator        string   `json:"generator"`
	RowsPerJournal   int      `json:"rows_per_journal"`
	GlobalMaxItems   int      `json:"global_max_items"`
	ItemsBeforeCap   int      `json:"items_before_cap"`
	PMIDLookupBudget int      `json:"pmid_lookup_budget"`
	PMIDLookupsUsed  int      `json:"pmid_lookups_used"`
	PMIDResolved     int      `json:"pmid_resolved"`
	PubMedBatchSize  int      `json:"pubmed_batch_size"`
	SourcesTotal     int      `json:"sources_total"`
	SourcesFailed    int      `json:"sources_failed"`
	Categories       []string `json:"categories"`
}

// Dataset is the data.json document.
type Dataset struct {
	GeneratedAt string `json:"generated_at"`
	Items       []Item `json:"items"`
	Meta        *Meta  `json:"meta,omitempty"`
}
