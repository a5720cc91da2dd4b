package main

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/miku/tocfeed/atomicfile"
	"github.com/miku/tocfeed/catalog"
	"github.com/miku/tocfeed/config"
	"github.com/miku/tocfeed/enrich"
	"github.com/miku/tocfeed/feeds"
	"github.com/miku/tocfeed/pipeline"
	log "github.com/sirupsen/logrus"
)

// loadCatalog maps catalog errors to the configuration exit code.
func loadCatalog(path string) ([]catalog.Source, error) {
	sources, err := catalog.Load(path)
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, catalog.ErrMalformed):
		return nil, withCode(ExitConfigError, "%w", err)
	case err != nil:
		return nil, withCode(ExitError, "%w", err)
	}
	return sources, nil
}

func runData(ctx context.Context, cfg *config.Config) error {
	sources, err := loadCatalog(cfg.SourcesPath)
	if err != nil {
		return err
	}
	var (
		runID  = uuid.NewString()
		client = feeds.NewHTTPClient(cfg.Timeout)
		logger = log.WithField("run_id", runID)
	)
	b := &pipeline.Builder{
		Harvester: &feeds.CrossrefHarvester{
			Client:      client,
			ApiEndpoint: cfg.CrossrefEndpoint,
			ApiEmail:    cfg.CrossrefApiEmail,
			Rows:        cfg.RowsPerJournal,
			UserAgent:   cfg.CrossrefUserAgent,
			Limiter:     feeds.NewLimiter(cfg.CrossrefSleep),
		},
		MaxItems: cfg.GlobalMaxItems,
		RunID:    runID,
	}
	if cfg.PMIDLookupBudget > 0 {
		b.Enricher = &enrich.Enricher{
			Client: &feeds.EUtils{
				Client:        client,
				ESearchURL:    cfg.ESearchURL,
				EFetchURL:     cfg.EFetchURL,
				Tool:          cfg.NCBITool,
				Email:         cfg.NCBIEmail,
				APIKey:        cfg.NCBIAPIKey,
				UserAgent:     cfg.CrossrefUserAgent,
				SearchLimiter: feeds.NewLimiter(cfg.PMIDSleep),
				FetchLimiter:  feeds.NewLimiter(cfg.PubMedBatchSleep),
			},
			Budget:    cfg.PMIDLookupBudget,
			BatchSize: cfg.PubMedBatchSize,
		}
	}
	logger.WithField("sources", len(sources)).Info("building article dataset")
	ds, err := b.Build(ctx, sources)
	if err != nil {
		return withCode(ExitError, "building dataset: %w", err)
	}
	ds.Meta.RowsPerJournal = cfg.RowsPerJournal
	ds.Meta.PMIDLookupBudget = cfg.PMIDLookupBudget
	ds.Meta.PubMedBatchSize = cfg.PubMedBatchSize
	if err := atomicfile.WriteJSON(cfg.DataOut, ds); err != nil {
		return withCode(ExitDataError, "writing dataset: %w", err)
	}
	logger.WithFields(log.Fields{
		"path":           cfg.DataOut,
		"items":          len(ds.Items),
		"sources_failed": ds.Meta.SourcesFailed,
		"pmid_lookups":   ds.Meta.PMIDLookupsUsed,
		"pmid_resolved":  ds.Meta.PMIDResolved,
	}).Info("wrote article dataset")
	return nil
}
