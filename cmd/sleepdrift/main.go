// Package main implements the sleepdrift CLI: it fetches a date range of
// sleep data from Oura and Ultrahuman, compares both against a
// self-reported sleep log, and writes error charts and CSV exports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fatih/color"

	"github.com/driftwatch/sleepdrift/pkg/anecdotal"
	"github.com/driftwatch/sleepdrift/pkg/httpcache"
	"github.com/driftwatch/sleepdrift/pkg/oura"
	"github.com/driftwatch/sleepdrift/pkg/report"
	"github.com/driftwatch/sleepdrift/pkg/sleep"
	"github.com/driftwatch/sleepdrift/pkg/ultrahuman"
)

var (
	startDate     = flag.String("start", "2024-06-20", "first day of the comparison range (YYYY-MM-DD)")
	endDate       = flag.String("end", "2024-07-22", "last day of the comparison range (YYYY-MM-DD)")
	excludeDates  = flag.String("exclude", "2024-06-21,2024-06-24,2024-06-26,2024-07-16", "comma-separated days to drop from every series")
	anecdotalPath = flag.String("anecdotal", "anecdotal_sleep_data.csv", "path to the self-reported sleep CSV")
	outDir        = flag.String("out", "output", "directory for charts and CSV exports")
	cacheDir      = flag.String("cache-dir", "", "API response cache directory (or set CACHE_DIR)")
	noCache       = flag.Bool("no-cache", false, "disable the API response cache")
	verbose       = flag.Bool("verbose", false, "enable verbose logging")
)

// credentials is parsed from the environment in one pass; a missing
// variable is fatal before any network call.
type credentials struct {
	Oura       oura.Config
	Ultrahuman ultrahuman.Config
}

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *cacheDir == "" {
		*cacheDir = os.Getenv("CACHE_DIR")
	}

	if err := run(logger); err != nil {
		logger.Error("analysis failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	var creds credentials
	if err := env.Parse(&creds); err != nil {
		return fmt.Errorf("loading credentials from environment: %w", err)
	}

	exclude := parseExcludeList(*excludeDates)

	var cache *httpcache.Cache
	if !*noCache {
		dir := *cacheDir
		if dir == "" {
			userCacheDir, err := os.UserCacheDir()
			if err != nil {
				return fmt.Errorf("determining cache directory: %w", err)
			}
			dir = filepath.Join(userCacheDir, "sleepdrift")
		}
		var err error
		cache, err = httpcache.Open(dir, 7*24*time.Hour, logger)
		if err != nil {
			logger.Warn("response cache unavailable, continuing without it", "error", err)
			cache = nil
		} else {
			defer func() {
				if err := cache.Close(); err != nil {
					logger.Error("failed to save response cache", "error", err)
				}
			}()
		}
	}

	httpClient := httpcache.NewClient(cache, &http.Client{Timeout: 30 * time.Second}, logger)
	ctx := context.Background()

	// Oura: one range fetch, all-or-nothing.
	ouraClient := oura.NewClient(creds.Oura, httpClient, logger)
	ouraRecords, err := ouraClient.FetchSleep(ctx, *startDate, *endDate)
	if err != nil {
		return fmt.Errorf("fetching oura data: %w", err)
	}
	ouraSessions, err := oura.Sessions(ouraRecords, exclude)
	if err != nil {
		return fmt.Errorf("normalizing oura data: %w", err)
	}
	logger.Info("oura sessions ready", "days", len(ouraSessions))

	// Ultrahuman: one fetch per day; failed days were already logged and
	// skipped inside the client.
	uhClient := ultrahuman.NewClient(creds.Ultrahuman, httpClient, logger)
	uhRecords, err := uhClient.FetchSleep(ctx, *startDate, *endDate)
	if err != nil {
		return fmt.Errorf("fetching ultrahuman data: %w", err)
	}
	uhSessions := ultrahuman.Sessions(uhRecords, exclude)
	logger.Info("ultrahuman sessions ready", "days", len(uhSessions))

	reports, err := anecdotal.Load(*anecdotalPath, exclude)
	if err != nil {
		return fmt.Errorf("loading anecdotal data: %w", err)
	}
	logger.Info("anecdotal data loaded", "days", len(reports))

	rows := sleep.Merge(reports, ouraSessions, uhSessions)
	sleep.ComputeErrors(rows)

	if err := report.WriteCharts(filepath.Join(*outDir, "graphs"), rows); err != nil {
		return err
	}
	csvDir := filepath.Join(*outDir, "csv")
	if err := report.WriteComparisonCSV(filepath.Join(csvDir, "sleep_data_comparison.csv"), rows); err != nil {
		return err
	}
	if err := report.WriteSessionsCSV(filepath.Join(csvDir, "oura_sleep_data.csv"), ouraSessions); err != nil {
		return err
	}
	if err := report.WriteSessionsCSV(filepath.Join(csvDir, "ultrahuman_sleep_data.csv"), uhSessions); err != nil {
		return err
	}

	printSummary(rows, ouraSessions, uhSessions)
	return nil
}

func parseExcludeList(s string) sleep.ExcludeSet {
	var days []string
	for _, d := range strings.Split(s, ",") {
		if d = strings.TrimSpace(d); d != "" {
			days = append(days, d)
		}
	}
	return sleep.NewExcludeSet(days...)
}

func printSummary(rows []sleep.ComparisonRow, ouraSessions, uhSessions []sleep.Session) {
	heading := color.New(color.Bold, color.FgCyan)

	heading.Println("\nOura Sleep Data")
	report.SessionsTable(os.Stdout, ouraSessions)

	heading.Println("\nUltrahuman Sleep Data")
	report.SessionsTable(os.Stdout, uhSessions)

	heading.Println("\nAverage Signed Errors (positive = vendor overestimates)")
	report.MeansTable(os.Stdout, sleep.Means(rows))

	fmt.Printf("\nCompared %d days; charts and CSV exports written to %s\n", len(rows), *outDir)
}
