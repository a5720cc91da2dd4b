// Package enrich adds PubMed identifiers, publication types and a category
// to the head of the article list. Lookups are budgeted per run; failures
// are logged and never abort the run.
package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/miku/tocfeed/classify"
	"github.com/miku/tocfeed/schema/toc"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultBudget    = 120
	DefaultBatchSize = 100
)

// PubMed is the part of the E-utilities client used for enrichment. Any
// throttling happens in the implementation.
type PubMed interface {
	LookupPMID(ctx context.Context, doi string) (string, error)
	PublicationTypes(ctx context.Context, pmids []string) (map[string][]string, error)
}

// Enricher runs the two stage lookup: DOI to PMID, one request per item, then
// PMID to publication types, in batches.
type Enricher struct {
	Client PubMed
	// Budget is the maximum number of DOI lookups, failed ones included.
	Budget    int
	BatchSize int
}

// Stats summarizes an enrichment run.
type Stats struct {
	LookupsUsed   int
	LookupsFailed int
	Resolved      int
	Batches       int
	BatchesFailed int
	Classified    map[string]int
}

func (s Stats) String() string {
	var counts []string
	for _, c := range classify.Categories {
		if n := s.Classified[c]; n > 0 {
			counts = append(counts, fmt.Sprintf("%s:%d", c, n))
		}
	}
	return fmt.Sprintf("lookups=%d failed=%d resolved=%d batches=%d batches_failed=%d categories=[%s]",
		s.LookupsUsed, s.LookupsFailed, s.Resolved, s.Batches, s.BatchesFailed, strings.Join(counts, ", "))
}

func (e *Enricher) batchSize() int {
	if e.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return e.BatchSize
}

// Enrich modifies items in place, walking them in order until the budget is
// used up. Items without DOI are passed over and cost nothing. Every item
// with an attempted lookup receives a category, even if unresolved.
func (e *Enricher) Enrich(ctx context.Context, items []toc.Item) Stats {
	stats := Stats{Classified: make(map[string]int)}
	var attempted []int // indices into items
	for i := range items {
		if stats.LookupsUsed >= e.Budget || ctx.Err() != nil {
			break
		}
		doi := items[i].DOI
		if doi == "" {
			continue
		}
		stats.LookupsUsed++
		attempted = append(attempted, i)
		pmid, err := e.Client.LookupPMID(ctx, doi)
		if err != nil {
			stats.LookupsFailed++
			log.WithFields(log.Fields{"doi": doi, "err": err}).Warn("pubmed lookup failed")
			continue
		}
		if pmid == "" {
			continue
		}
		items[i].PMID = pmid
		items[i].PubMedURL = PubMedURL(pmid)
		stats.Resolved++
	}
	e.fetchTypes(ctx, items, attempted, &stats)
	for _, i := range attempted {
		c := classify.Classify(items[i].PubMedPublicationTypes, items[i].Title)
		items[i].Category = c
		stats.Classified[c]++
	}
	return stats
}

// fetchTypes attaches publication types to resolved items, batchwise. A
// failed batch leaves its items without types.
func (e *Enricher) fetchTypes(ctx context.Context, items []toc.Item, attempted []int, stats *Stats) {
	var (
		pmids []string
		seen  = make(map[string]bool)
	)
	for _, i := range attempted {
		pmid := items[i].PMID
		if pmid == "" || seen[pmid] {
			continue
		}
		seen[pmid] = true
		pmids = append(pmids, pmid)
	}
	types := make(map[string][]string)
	size := e.batchSize()
	for start := 0; start < len(pmids); start += size {
		if ctx.Err() != nil {
			break
		}
		end := min(start+size, len(pmids))
		batch := pmids[start:end]
		stats.Batches++
		result, err := e.Client.PublicationTypes(ctx, batch)
		if err != nil {
			stats.BatchesFailed++
			log.WithFields(log.Fields{
				"batch": stats.Batches,
				"size":  len(batch),
				"err":   err,
			}).Warn("pubmed batch failed")
			continue
		}
		for k, v := range result {
			types[k] = v
		}
	}
	for _, i := range attempted {
		if v, ok := types[items[i].PMID]; ok && len(v) > 0 {
			items[i].PubMedPublicationTypes = v
		}
	}
}

// PubMedURL returns the landing page of a PubMed record.
func PubMedURL(pmid string) string {
	return "https://pubmed.ncbi.nlm.nih.gov/" + pmid + "/"
}
