// Package pipeline builds the article dataset: harvest recent works per
// ISSN, convert, deduplicate, sort, cap and enrich.
package pipeline

import (
	"context"
	"time"

	"github.com/miku/tocfeed"
	"github.com/miku/tocfeed/catalog"
	"github.com/miku/tocfeed/classify"
	"github.com/miku/tocfeed/convert"
	"github.com/miku/tocfeed/dateutil"
	"github.com/miku/tocfeed/enrich"
	"github.com/miku/tocfeed/schema/crossref"
	"github.com/miku/tocfeed/schema/toc"
	log "github.com/sirupsen/logrus"
)

// Harvester returns recent works of a journal, e.g. feeds.CrossrefHarvester.
type Harvester interface {
	Recent(ctx context.Context, issn string) ([]crossref.Work, error)
}

// Enricher adds PubMed data to items in place, e.g. enrich.Enricher.
type Enricher interface {
	Enrich(ctx context.Context, items []toc.Item) enrich.Stats
}

// Builder assembles a dataset from a catalog.
type Builder struct {
	Harvester Harvester
	// Enricher is optional.
	Enricher Enricher
	// MaxItems caps the dataset, zero for no limit.
	MaxItems int
	// RunID is recorded in the dataset meta.
	RunID string
	// Now returns the current time, defaults to time.Now.
	Now func() time.Time
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

// Build runs the pipeline. Failing journals are logged and contribute no
// items; only a cancelled context fails the build.
func (b *Builder) Build(ctx context.Context, sources []catalog.Source) (*toc.Dataset, error) {
	var (
		started = b.now()
		today   = dateutil.Today(started)
		meta    = &toc.Meta{
			RunID:          b.RunID,
			Generator:      tocfeed.UserAgent(),
			GlobalMaxItems: b.MaxItems,
			SourcesTotal:   len(sources),
			Categories:     classify.Categories,
		}
		items []toc.Item
	)
	for _, src := range sources {
		var failed bool
		for _, issn := range src.ISSN {
			works, err := b.Harvester.Recent(ctx, issn)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				failed = true
				log.WithFields(log.Fields{
					"journal": src.Name,
					"issn":    issn,
					"err":     err,
				}).Warn("crossref failed")
				continue
			}
			var skipped int
			for i := range works {
				item, err := convert.CrossrefWorkToItem(src, &works[i], today)
				if err != nil {
					skipped++
					continue
				}
				items = append(items, *item)
			}
			log.WithFields(log.Fields{
				"journal": src.Short,
				"issn":    issn,
				"works":   len(works),
				"skipped": skipped,
			}).Info("harvested")
		}
		if failed {
			meta.SourcesFailed++
		}
	}
	items, _ = Dedupe(items)
	SortByPublished(items)
	meta.ItemsBeforeCap = len(items)
	items = Cap(items, b.MaxItems)
	if b.Enricher != nil {
		stats := b.Enricher.Enrich(ctx, items)
		meta.PMIDLookupsUsed = stats.LookupsUsed
		meta.PMIDResolved = stats.Resolved
		log.WithField("run_id", b.RunID).Infof("pubmed enrichment: %s", stats)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if items == nil {
		items = []toc.Item{}
	}
	return &toc.Dataset{
		GeneratedAt: started.UTC().Format(time.RFC3339),
		Items:       items,
		Meta:        meta,
	}, nil
}
