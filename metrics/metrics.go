// Package metrics builds the journal metrics dataset from SCImago Journal
// Rank exports. Sources are tried in order; if all of them fail, an existing
// output file is kept as is.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/miku/tocfeed/atomicfile"
	"github.com/miku/tocfeed/catalog"
	"github.com/miku/tocfeed/schema/sjr"
	log "github.com/sirupsen/logrus"
)

const (
	SourceName = "SCImago Journal Rank (SJR)"
	SourceNote = "SJR is treated as an annual journal-level metric; the dashboard uses the latest year available in the SCImago export at update time."
)

// ErrAllSourcesFailed is returned by Build, if no source yielded a dataset.
var ErrAllSourcesFailed = errors.New("all metrics sources failed")

// Builder turns the first working export into a dataset.
type Builder struct {
	Sources []Source
	// Now returns the current time, defaults to time.Now.
	Now func() time.Time
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

// Build fetches and parses sources in order and returns the dataset of the
// first one that works.
func (b *Builder) Build(ctx context.Context, journals []catalog.Source) (*sjr.Dataset, error) {
	wanted := make(map[string]bool)
	for _, issn := range catalog.ISSNs(journals) {
		wanted[issn] = true
	}
	var errs []error
	for _, src := range b.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger := log.WithField("source", src.Name())
		table, err := b.try(ctx, src, wanted)
		if err != nil {
			logger.WithField("err", err).Warn("metrics source failed")
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		logger.WithFields(log.Fields{
			"year":    table.Year,
			"rows":    table.Rows,
			"matched": len(table.ByISSN),
		}).Info("metrics source ok")
		return &sjr.Dataset{
			GeneratedAt: b.now().UTC().Format(time.RFC3339),
			SourceName:  SourceName,
			SourceNote:  SourceNote,
			SourceUsed:  src.Name(),
			SJRYear:     table.Year,
			Coverage: sjr.Coverage{
				Matched:      len(table.ByISSN),
				TotalSources: len(journals),
			},
			ByISSN: table.ByISSN,
		}, nil
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: no sources configured", ErrAllSourcesFailed)
	}
	return nil, fmt.Errorf("%w: %w", ErrAllSourcesFailed, errors.Join(errs...))
}

func (b *Builder) try(ctx context.Context, src Source, wanted map[string]bool) (*Table, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(data, wanted)
}

// Outcome of an Update.
type Outcome int

const (
	Written Outcome = iota
	Kept            // all sources failed, previous file left untouched
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case Kept:
		return "kept"
	default:
		return "unknown"
	}
}

// Update builds the dataset and writes it to path. If all sources fail and
// a previous file exists at path, the file is not touched and Update returns
// Kept with a nil error. Without a previous file, the failure is returned.
func Update(ctx context.Context, b *Builder, journals []catalog.Source, path string) (Outcome, error) {
	_, statErr := os.Stat(path)
	previous := statErr == nil
	if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
		return Kept, statErr
	}
	ds, err := b.Build(ctx, journals)
	switch {
	case errors.Is(err, ErrAllSourcesFailed) && previous:
		log.WithFields(log.Fields{"path": path, "err": err}).Warn("keeping previous metrics file")
		return Kept, nil
	case err != nil:
		return Kept, err
	}
	if err := atomicfile.WriteJSON(path, ds); err != nil {
		return Kept, err
	}
	log.WithFields(log.Fields{
		"path":    path,
		"year":    ds.SJRYear,
		"matched": ds.Coverage.Matched,
		"total":   ds.Coverage.TotalSources,
	}).Info("wrote metrics")
	return Written, nil
}
