package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"fxcal/internal/config"
	"fxcal/internal/errors"
	"fxcal/internal/fetch"
	"fxcal/internal/infrastructure"
	"fxcal/internal/metrics"
	"fxcal/internal/scrape"
	"fxcal/internal/sink"
)

var (
	cfgFile           string
	flagStartDate     string
	flagDaysAhead     int
	flagOutput        string
	flagErrorLog      string
	flagFutureOnly    bool
	flagCalendarNav   bool
	flagHeadless      bool
	flagMetricsListen string
)

var rootCmd = &cobra.Command{
	Use:   "fxcal",
	Short: "Economic calendar scraper",
	Long: `fxcal downloads economic calendar events through a real browser and
appends them as normalized JSONL records, one object per line.

Without flags it resumes from the last record in the output file and
scrapes up to 30 days past the resume point. Historical backfills start
from January 2007 when the output file does not exist yet.`,
	Example: `  fxcal
  fxcal --start-date 2024-01-01 --days-ahead 60
  fxcal --future-only --output scheduled.jsonl
  fxcal --use-calendar-nav --headless`,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "path to a YAML config file")
	flags.StringVar(&flagStartDate, "start-date", "", "start date in YYYY-MM-DD format (default: resume from last record)")
	flags.IntVar(&flagDaysAhead, "days-ahead", 30, "days past the start date to scrape")
	flags.StringVarP(&flagOutput, "output", "o", "", "output JSONL file path")
	flags.StringVar(&flagErrorLog, "error-log", "", "row failure log path")
	flags.BoolVar(&flagFutureOnly, "future-only", false, "start from today and scrape scheduled events only")
	flags.BoolVar(&flagCalendarNav, "use-calendar-nav", false, "navigate the calendar widget instead of date URLs")
	flags.BoolVar(&flagHeadless, "headless", false, "run the browser headless")
	flags.StringVar(&flagMetricsListen, "metrics-listen", "", "listen address for the Prometheus /metrics endpoint")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return err
	}

	ctx := infrastructure.WithRunID(cmd.Context(), uuid.New().String())
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.Metrics.Listen != "" {
		shutdown := m.Serve(cfg.Metrics.Listen, logger)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdown(sctx)
		}()
	}

	client, err := fetch.NewClient(cfg.Fetch, fetch.DefaultBaseURL, logger, m)
	if err != nil {
		return err
	}
	defer client.Close()

	venue := client.VenueTimezone(ctx)

	start, err := resolveStart(ctx, cfg.Scrape, venue, logger)
	if err != nil {
		return err
	}

	writer, err := sink.NewWriter(cfg.Scrape.Output, logger)
	if err != nil {
		return err
	}
	defer writer.Close()

	failures := sink.NewErrorSink(cfg.Scrape.ErrorLog, logger)

	orch := scrape.New(scrape.Options{
		Venue:          venue,
		Start:          start,
		DaysAhead:      cfg.Scrape.DaysAhead,
		// Future day windows carry scheduled events with no actuals yet
		// and are always fetchable; --future-only only moves the start
		// cursor to today.
		AllowFuture:    true,
		UseCalendarNav: cfg.Scrape.UseCalendarNav,
		MinPageDelay:   cfg.Fetch.MinPageDelay,
		MaxPageDelay:   cfg.Fetch.MaxPageDelay,
		Fetcher:        client,
		Navigator:      client,
		Extractor:      fetch.TableExtractor{},
		Writer:         writer,
		Failures:       failures,
		Metrics:        m,
		Logger:         logger,
	})

	logger.InfoContext(ctx, "run configured",
		slog.String("output", writer.Path()),
		slog.String("venue_tz", venue.String()),
		slog.Time("start", start),
		slog.Time("horizon", orch.Horizon()))

	if err := orch.Run(ctx); err != nil {
		logger.ErrorContext(ctx, "scrape failed",
			slog.String("error", err.Error()),
			slog.Bool("transient", errors.Transient(err)),
			slog.Int("records_written", writer.Written()))
		return err
	}

	logger.InfoContext(ctx, "scrape finished",
		slog.Int("records_written", writer.Written()))
	return nil
}

// applyFlags overlays explicitly-set CLI flags onto the loaded config.
// Flags win over both environment and file values.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("start-date") {
		cfg.Scrape.StartDate = flagStartDate
	}
	if f.Changed("days-ahead") {
		cfg.Scrape.DaysAhead = flagDaysAhead
	}
	if f.Changed("output") {
		cfg.Scrape.Output = flagOutput
	}
	if f.Changed("error-log") {
		cfg.Scrape.ErrorLog = flagErrorLog
	}
	if f.Changed("future-only") {
		cfg.Scrape.FutureOnly = flagFutureOnly
	}
	if f.Changed("use-calendar-nav") {
		cfg.Scrape.UseCalendarNav = flagCalendarNav
	}
	if f.Changed("headless") {
		cfg.Fetch.Headless = flagHeadless
	}
	if f.Changed("metrics-listen") {
		cfg.Metrics.Listen = flagMetricsListen
	}
}

// resolveStart picks the traversal start: an explicit override beats
// future-only mode, which beats resuming from the output file's last
// record (or the 2007 origin for a fresh file).
func resolveStart(ctx context.Context, cfg config.ScrapeConfig, venue *time.Location, logger *slog.Logger) (time.Time, error) {
	override, err := cfg.StartDateTime(venue)
	if err != nil {
		return time.Time{}, err
	}
	if !override.IsZero() {
		logger.InfoContext(ctx, "using start date override", slog.Time("start", override))
		return override, nil
	}

	if cfg.FutureOnly {
		now := time.Now().In(venue)
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, venue)
		logger.InfoContext(ctx, "future-only mode, starting from today", slog.Time("start", start))
		return start, nil
	}

	start, resumed := sink.ResumeFrom(cfg.Output, logger)
	if resumed {
		logger.InfoContext(ctx, "resuming from last record", slog.Time("start", start))
	} else {
		logger.InfoContext(ctx, "no resume point, starting from origin", slog.Time("start", start))
	}
	return start, nil
}
