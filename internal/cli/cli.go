package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/seattle-events/internal/config"
	"github.com/pfrederiksen/seattle-events/internal/dashboard"
	"github.com/pfrederiksen/seattle-events/internal/geocode"
	"github.com/pfrederiksen/seattle-events/internal/metrics"
	"github.com/pfrederiksen/seattle-events/internal/pipeline"
	"github.com/pfrederiksen/seattle-events/internal/scraper"
	"github.com/pfrederiksen/seattle-events/internal/storage"
	"github.com/pfrederiksen/seattle-events/internal/store"
	"github.com/pfrederiksen/seattle-events/internal/weather"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig  string
	flagDataDir string
	flagDSN     string
	flagWorkers int
	flagFormat  string
	flagVerbose bool
	flagAddr    string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seattle-events",
		Short: "Scrape, enrich, store, and browse Seattle events",
		Long: `Scrapes the visitseattle.org event calendar, enriches each event with
geocoded coordinates and a weather forecast, loads the results into
PostgreSQL, and serves an interactive dashboard over the stored events.

Each pipeline stage (links, details, load) snapshots its output, so a
run can be resumed or repeated stage by stage.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file (default: ./config.yaml if present)")
	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Directory for stage snapshots (default "+storage.DefaultDataDir+")")
	cmd.PersistentFlags().StringVar(&flagDSN, "dsn", "", "PostgreSQL DSN (or env: SEATTLE_EVENTS_DSN)")
	cmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "Concurrent detail-page workers (default from config)")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newLinksCmd(),
		newDetailsCmd(),
		newLoadCmd(),
		newScrapeCmd(),
		newServeCmd(),
	)
	return cmd
}

// app holds the wired components one command invocation needs.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	registry *prometheus.Registry
	stages   *storage.Storage
	store    *store.Store
	pipe     *pipeline.Pipeline
}

// newApp loads configuration, applies flag overrides, and wires the
// pipeline. The database connection is only opened when a command needs
// it, so the scrape-only stages run without PostgreSQL.
func newApp(needDB bool) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDataDir != "" {
		cfg.Pipeline.DataDir = flagDataDir
	}
	if flagDSN != "" {
		cfg.Database.DSN = flagDSN
	}
	if flagWorkers > 0 {
		cfg.Pipeline.Workers = flagWorkers
	}

	log := logrus.New()
	if flagVerbose {
		log.SetLevel(logrus.DebugLevel)
	}

	stages, err := storage.New(cfg.Pipeline.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing stage storage: %w", err)
	}

	sc := scraper.New(log)
	if cfg.Scraper.ListingURL != "" {
		sc.SetBaseURL(cfg.Scraper.ListingURL)
	}
	geo := geocode.New(log)
	if cfg.Scraper.GeocodeURL != "" {
		geo.SetBaseURL(cfg.Scraper.GeocodeURL)
	}
	wx := weather.New(log)
	if cfg.Scraper.WeatherURL != "" {
		wx.SetBaseURL(cfg.Scraper.WeatherURL)
	}

	registry := prometheus.NewRegistry()

	a := &app{
		cfg:      cfg,
		log:      log,
		registry: registry,
		stages:   stages,
	}
	a.pipe = &pipeline.Pipeline{
		Scraper:  sc,
		Geocoder: geo,
		Weather:  wx,
		Stages:   stages,
		Workers:  cfg.Pipeline.Workers,
		Log:      log,
		Metrics:  metrics.New(registry),
	}

	if needDB {
		st, err := store.Open(cfg.Database.DSN, log)
		if err != nil {
			return nil, fmt.Errorf("opening event store: %w", err)
		}
		a.store = st
		a.pipe.Sink = st
	}
	return a, nil
}

// printSummary reports the current stage snapshot sizes. A snapshot that
// does not exist yet counts as zero.
func (a *app) printSummary(w io.Writer) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}

	s := &Summary{CheckedAt: time.Now().UTC()}
	if links, err := a.stages.LoadLinks(); err == nil {
		s.Links = len(links)
	}
	if records, err := a.stages.LoadDetails(); err == nil {
		s.Events = len(records)
	}
	return WriteOutput(w, s, format)
}

func newLinksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "links",
		Short: "Discover event detail-page links and snapshot them",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			if err := a.pipe.CollectLinks(cmd.Context()); err != nil {
				return err
			}
			return a.printSummary(cmd.OutOrStdout())
		},
	}
}

func newDetailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details",
		Short: "Parse and enrich every snapshotted link",
		Long: `Parses each URL from the link snapshot, geocodes the event's location,
fetches its weather forecast, and snapshots the resulting records.
Requires a prior 'links' run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			if err := a.pipe.CollectDetails(cmd.Context()); err != nil {
				return err
			}
			return a.printSummary(cmd.OutOrStdout())
		},
	}
}

func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Load the detail snapshot into PostgreSQL",
		Long: `Creates the events table if needed and inserts the snapshotted records.
Events already stored (by URL) are left untouched, so reloading is safe.
Requires a prior 'details' run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			if err := a.pipe.LoadEvents(cmd.Context()); err != nil {
				return err
			}
			return a.printSummary(cmd.OutOrStdout())
		},
	}
}

func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Run the full pipeline: links, details, load",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			if err := a.pipe.Run(cmd.Context()); err != nil {
				return err
			}
			return a.printSummary(cmd.OutOrStdout())
		},
	}
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the events dashboard",
		Long: `Serves the interactive dashboard over the stored events: aggregate
charts, combinable filters, a map of geocoded events, and per-event
calendar downloads.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}

			addr := a.cfg.Dashboard.Addr
			if flagAddr != "" {
				addr = flagAddr
			}

			srv := dashboard.New(a.store, a.log, dashboard.Options{
				Mode:        a.cfg.Dashboard.Mode,
				EnablePprof: a.cfg.Dashboard.EnablePprof,
				Gatherer:    a.registry,
			})
			return srv.Run(addr)
		},
	}
	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from config, :8501)")
	return cmd
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
