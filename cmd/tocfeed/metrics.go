package main

import (
	"context"
	"errors"

	"github.com/miku/tocfeed/config"
	"github.com/miku/tocfeed/feeds"
	"github.com/miku/tocfeed/metrics"
	log "github.com/sirupsen/logrus"
)

func runMetrics(ctx context.Context, cfg *config.Config) error {
	sources, err := loadCatalog(cfg.SourcesPath)
	if err != nil {
		return err
	}
	client := feeds.NewHTTPClient(cfg.MetricsTimeout)
	b := &metrics.Builder{
		Sources: []metrics.Source{
			&metrics.HTTPSource{
				Label:     "scimago",
				URL:       cfg.SJRPrimaryURL,
				Client:    client,
				UserAgent: cfg.SJRUserAgent,
				Referer:   metrics.DefaultReferer,
			},
		},
	}
	if cfg.SJRMirrorURL != "" {
		b.Sources = append(b.Sources, &metrics.HTTPSource{
			Label:     "mirror",
			URL:       cfg.SJRMirrorURL,
			Client:    client,
			UserAgent: cfg.SJRUserAgent,
		})
	} else {
		log.Info("no SJR mirror configured, using primary source only")
	}
	outcome, err := metrics.Update(ctx, b, sources, cfg.MetricsOut)
	switch {
	case errors.Is(err, metrics.ErrAllSourcesFailed):
		return withCode(ExitError, "%w", err)
	case err != nil:
		return withCode(ExitDataError, "updating metrics: %w", err)
	}
	log.WithFields(log.Fields{"path": cfg.MetricsOut, "outcome": outcome}).Info("metrics done")
	return nil
}
