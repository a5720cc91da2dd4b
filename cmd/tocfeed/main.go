// tocfeed builds static JSON datasets for a journal table of contents
// dashboard: recent articles per journal from crossref, optionally with
// PubMed links and categories, and journal level SJR metrics.
//
//	$ tocfeed data --sources sources.json --out data.json
//	$ tocfeed metrics --sources sources.json --out journal_metrics.json
//
// Settings are read from an optional tocfeed/config.yml in the XDG config
// directories, a .env file and the environment, in increasing precedence.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/miku/tocfeed"
	"github.com/miku/tocfeed/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// options are the global flags.
type options struct {
	configPath  string
	sourcesPath string
	outPath     string
}

// run executes the command line and returns the exit code.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	var (
		opts options
		cfg  *config.Config
		root = &cobra.Command{
			Use:           tocfeed.AppName,
			Short:         "Build journal table of contents and metrics datasets",
			Version:       tocfeed.Version,
			SilenceUsage:  true,
			SilenceErrors: true,
		}
	)
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to YAML config file")
	root.PersistentFlags().StringVar(&opts.sourcesPath, "sources", "", "path to journal catalog, JSON or YAML")
	root.PersistentFlags().StringVarP(&opts.outPath, "out", "o", "", "output file")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = loadConfig(opts); err != nil {
			return err
		}
		return setupLogging(cfg, stderr)
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "data",
			Short: "Harvest recent articles into the article dataset",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if opts.outPath != "" {
					cfg.DataOut = opts.outPath
				}
				return runData(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "metrics",
			Short: "Update the SJR journal metrics dataset",
			Long: `Fetch the SCImago export, falling back to a mirror if configured,
and write journal metrics for all catalog ISSNs. If every source fails and a
previous metrics file exists, the file is kept and the command succeeds.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if opts.outPath != "" {
					cfg.MetricsOut = opts.outPath
				}
				return runMetrics(cmd.Context(), cfg)
			},
		},
	)
	root.SetArgs(args)
	root.SetOut(stderr)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		return ExitError
	}
	return ExitSuccess
}

// loadConfig reads .env, then the config file and environment, then applies
// flags.
func loadConfig(opts options) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, withCode(ExitConfigError, "loading .env: %w", err)
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, withCode(ExitConfigError, "loading config: %w", err)
	}
	if opts.sourcesPath != "" {
		cfg.SourcesPath = opts.sourcesPath
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config, w io.Writer) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return withCode(ExitConfigError, "invalid log level: %w", err)
	}
	log.SetLevel(level)
	log.SetOutput(w)
	switch cfg.LogFormat {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
