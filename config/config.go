// Package config holds settings for both pipelines. Values are layered:
// built-in defaults, then an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/miku/tocfeed"
	"gopkg.in/yaml.v3"
)

const (
	// MaxRowsPerJournal is the crossref ceiling for rows per request.
	MaxRowsPerJournal = 1000
	// MaxPubMedBatchSize keeps efetch URLs reasonably short.
	MaxPubMedBatchSize = 200

	DefaultCrossrefEndpoint = "https://api.crossref.org/works"
	DefaultESearchURL       = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	DefaultEFetchURL        = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
	// DefaultSJRPrimaryURL is often labeled out=xls, but is semicolon
	// delimited text.
	DefaultSJRPrimaryURL = "https://www.scimagojr.com/journalrank.php?out=xls"
	// DefaultSJRUserAgent is browser-like, since the export blocks generic
	// clients.
	DefaultSJRUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ConfigFile is the name of the optional YAML file looked up in the XDG
// config directories.
var ConfigFile = filepath.Join(tocfeed.AppName, "config.yml")

// Config for both pipelines.
type Config struct {
	// SourcesPath is the journal catalog, JSON or YAML.
	SourcesPath string `yaml:"sources_path"`
	// DataOut is where the article dataset is written.
	DataOut string `yaml:"data_out"`
	// MetricsOut is where the metrics dataset is written.
	MetricsOut string `yaml:"metrics_out"`

	// CrossrefEndpoint is the works API endpoint.
	CrossrefEndpoint string `yaml:"crossref_endpoint"`
	// CrossrefUserAgent is sent with every crossref request; include a mailto
	// to get into the polite pool.
	CrossrefUserAgent string `yaml:"crossref_user_agent"`
	// CrossrefApiEmail is sent as mailto parameter, if set.
	CrossrefApiEmail string `yaml:"crossref_api_email"`
	// RowsPerJournal is the number of most recent works requested per ISSN.
	RowsPerJournal int `yaml:"rows_per_journal"`
	// CrossrefSleep is the pause between two crossref requests.
	CrossrefSleep time.Duration `yaml:"crossref_sleep"`
	// GlobalMaxItems caps the article dataset after sorting.
	GlobalMaxItems int `yaml:"global_max_items"`

	ESearchURL string `yaml:"esearch_url"`
	EFetchURL  string `yaml:"efetch_url"`
	// NCBITool and NCBIEmail identify us to E-utilities.
	NCBITool   string `yaml:"ncbi_tool"`
	NCBIEmail  string `yaml:"ncbi_email"`
	NCBIAPIKey string `yaml:"ncbi_api_key"`
	// PMIDLookupBudget limits DOI to PMID lookups per run; every attempt counts.
	PMIDLookupBudget int           `yaml:"pmid_lookup_budget"`
	PMIDSleep        time.Duration `yaml:"pmid_sleep"`
	// PubMedBatchSize is the number of PMIDs per efetch request.
	PubMedBatchSize  int           `yaml:"pubmed_batch_size"`
	PubMedBatchSleep time.Duration `yaml:"pubmed_batch_sleep"`

	SJRUserAgent  string `yaml:"sjr_user_agent"`
	SJRPrimaryURL string `yaml:"sjr_primary_url"`
	// SJRMirrorURL is the fallback export; skipped when empty.
	SJRMirrorURL string `yaml:"sjr_mirror_url"`

	// Timeout is the per request ceiling for crossref and NCBI.
	Timeout time.Duration `yaml:"timeout"`
	// MetricsTimeout is the per request ceiling for SJR downloads.
	MetricsTimeout time.Duration `yaml:"metrics_timeout"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		SourcesPath:       "sources.json",
		DataOut:           "data.json",
		MetricsOut:        "journal_metrics.json",
		CrossrefEndpoint:  DefaultCrossrefEndpoint,
		CrossrefUserAgent: tocfeed.UserAgent() + " (mailto:example@example.com)",
		RowsPerJournal:    30,
		GlobalMaxItems:    2000,
		ESearchURL:        DefaultESearchURL,
		EFetchURL:         DefaultEFetchURL,
		NCBITool:          tocfeed.AppName,
		PMIDLookupBudget:  120,
		PMIDSleep:         340 * time.Millisecond, // ~3 req/s
		PubMedBatchSize:   100,
		PubMedBatchSleep:  340 * time.Millisecond,
		SJRUserAgent:      DefaultSJRUserAgent,
		SJRPrimaryURL:     DefaultSJRPrimaryURL,
		Timeout:           30 * time.Second,
		MetricsTimeout:    60 * time.Second,
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// Load returns the configuration. If path is empty, the first config file
// found in the XDG config directories is used, if any. Environment variables
// override file values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		if p, err := xdg.SearchConfigFile(ConfigFile); err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv(os.Getenv)
	cfg.clamp()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides values from the environment. Delays are given in
// (fractional) seconds.
func (c *Config) ApplyEnv(getenv func(string) string) {
	e := env{getenv: getenv}
	c.SourcesPath = e.str("SOURCES_PATH", c.SourcesPath)
	c.DataOut = e.str("DATA_OUT", c.DataOut)
	c.MetricsOut = e.str("METRICS_OUT", c.MetricsOut)
	c.CrossrefEndpoint = e.str("CROSSREF_ENDPOINT", c.CrossrefEndpoint)
	c.CrossrefUserAgent = e.str("CROSSREF_UA", c.CrossrefUserAgent)
	c.CrossrefApiEmail = e.str("CROSSREF_MAILTO", c.CrossrefApiEmail)
	c.RowsPerJournal = e.int("ROWS_PER_JOURNAL", c.RowsPerJournal)
	c.CrossrefSleep = e.seconds("CROSSREF_SLEEP_SECONDS", c.CrossrefSleep)
	c.GlobalMaxItems = e.int("GLOBAL_MAX_ITEMS", c.GlobalMaxItems)
	c.ESearchURL = e.str("NCBI_ESEARCH_URL", c.ESearchURL)
	c.EFetchURL = e.str("NCBI_EFETCH_URL", c.EFetchURL)
	c.NCBITool = e.str("NCBI_TOOL", c.NCBITool)
	c.NCBIEmail = e.str("NCBI_EMAIL", c.NCBIEmail)
	c.NCBIAPIKey = e.str("NCBI_API_KEY", c.NCBIAPIKey)
	c.PMIDLookupBudget = e.int("PMID_LOOKUP_BUDGET", c.PMIDLookupBudget)
	c.PMIDSleep = e.seconds("PMID_SLEEP_SECONDS", c.PMIDSleep)
	c.PubMedBatchSize = e.int("PUBMED_BATCH_SIZE", c.PubMedBatchSize)
	c.PubMedBatchSleep = e.seconds("PUBMED_BATCH_SLEEP_SECONDS", c.PubMedBatchSleep)
	c.SJRUserAgent = e.str("SJR_UA", c.SJRUserAgent)
	c.SJRPrimaryURL = e.str("SJR_PRIMARY_URL", c.SJRPrimaryURL)
	c.SJRMirrorURL = e.str("SJR_MIRROR_URL", c.SJRMirrorURL)
	c.Timeout = e.seconds("HTTP_TIMEOUT_SECONDS", c.Timeout)
	c.MetricsTimeout = e.seconds("METRICS_TIMEOUT_SECONDS", c.MetricsTimeout)
	c.LogLevel = e.str("LOG_LEVEL", c.LogLevel)
	c.LogFormat = e.str("LOG_FORMAT", c.LogFormat)
}

// clamp keeps numeric knobs in their valid ranges.
func (c *Config) clamp() {
	c.RowsPerJournal = clampInt(c.RowsPerJournal, 1, MaxRowsPerJournal)
	c.PubMedBatchSize = clampInt(c.PubMedBatchSize, 1, MaxPubMedBatchSize)
	if c.GlobalMaxItems < 0 {
		c.GlobalMaxItems = 0
	}
	if c.PMIDLookupBudget < 0 {
		c.PMIDLookupBudget = 0
	}
}

func clampInt(v, lo, hi int) int {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

type env struct {
	getenv func(string) string
}

func (e env) str(key, defaultValue string) string {
	if value := strings.TrimSpace(e.getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func (e env) int(key string, defaultValue int) int {
	if value := strings.TrimSpace(e.getenv(key)); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func (e env) seconds(key string, defaultValue time.Duration) time.Duration {
	if value := strings.TrimSpace(e.getenv(key)); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil && v >= 0 {
			return time.Duration(v * float64(time.Second))
		}
	}
	return defaultValue
}
