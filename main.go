package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stryd-activity-sync/internal/config"
	"stryd-activity-sync/internal/database"
	"stryd-activity-sync/internal/export"
	"stryd-activity-sync/internal/metrics"
	"stryd-activity-sync/internal/stryd"
	"stryd-activity-sync/internal/syncer"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Define CLI flags
	var dateStr string
	flag.StringVar(&dateStr, "date", "", "Sync a single calendar day (format: YYYYMMDD)")
	flag.StringVar(&dateStr, "d", "", "Shorthand for -date")
	force := flag.Bool("force", false, "Force resynchronization of existing activities")
	quiet := flag.Bool("q", false, "Only log errors")
	batchSize := flag.Int("batch-size", syncer.DefaultBatchSize, "Number of activities per progress batch")
	dbPath := flag.String("db", "", "Database file path (default: DATABASE_PATH env or ./stryd_activities.db)")
	exportPath := flag.String("export", "", "Export synced activities to a CSV or JSON file (format by extension)")
	downloadFIT := flag.Bool("fit", false, "Download FIT files for the synced range")
	fitDir := flag.String("output", "fit_files", "Output directory for FIT files")

	flag.Usage = printUsage
	flag.Parse()

	// Optional positional argument: number of days to sync (default 30)
	days := 30
	daysGiven := false
	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments: %v\n", flag.Args()[1:])
		return 1
	}
	if flag.NArg() == 1 {
		n, err := strconv.Atoi(flag.Arg(0))
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "Error: invalid days argument: %s\n", flag.Arg(0))
			return 1
		}
		days = n
		daysGiven = true
	}

	// Everything below is validated before any network or storage work
	if dateStr != "" && daysGiven {
		fmt.Fprintln(os.Stderr, "Error: cannot use both a days argument and -date")
		return 1
	}
	if *batchSize <= 0 {
		fmt.Fprintf(os.Stderr, "Error: batch size must be positive, got %d\n", *batchSize)
		return 1
	}

	sel := syncer.Selector{Mode: syncer.LastNDays, Days: days}
	if dateStr != "" {
		date, err := syncer.ParseDate(dateStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		sel = syncer.Selector{Mode: syncer.SingleDay, Date: date}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		return 1
	}

	// Set up logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	if *quiet {
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if *dbPath == "" {
		*dbPath = cfg.DatabasePath
	}

	// Cancellation takes effect between activities, never mid-write
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start metrics server if enabled
	if cfg.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsAddr := fmt.Sprintf("%s:%d", cfg.MetricsHost, cfg.MetricsPort)
		go func() {
			logger.Info("metrics server listening", "addr", metricsAddr)
			if err := http.ListenAndServe(metricsAddr, metricsMux); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	// Authenticate; failure here is fatal to the whole run
	client := stryd.NewClient(cfg.Email, cfg.Password, logger)
	if err := client.Authenticate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: authentication failed: %v\n", err)
		return 1
	}
	logger.Info("authenticated", "user_id", client.UserID())

	// Open the store; failure here is fatal before any activity is processed
	db, err := database.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open database %s: %v\n", *dbPath, err)
		return 1
	}
	defer db.Close()

	if err := db.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize database: %v\n", err)
		return 1
	}

	// Fetch the calendar range covering the selector, then filter locally
	now := time.Now()
	var rangeStart, rangeEnd time.Time
	if sel.Mode == syncer.SingleDay {
		rangeStart = sel.Date.AddDate(0, 0, -7)
		rangeEnd = sel.Date.AddDate(0, 0, 7)
	} else {
		rangeStart = now.AddDate(0, 0, -sel.Days)
		rangeEnd = now.AddDate(0, 0, 1)
	}

	summaries, err := client.GetCalendar(ctx, rangeStart, rangeEnd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to fetch activities: %v\n", err)
		return 1
	}

	filtered := syncer.Select(summaries, sel, now)
	if len(filtered) == 0 {
		fmt.Println("No activities found matching the specified criteria")
		return 0
	}

	// Oldest first
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Timestamp < filtered[j].Timestamp
	})

	fmt.Printf("Found %d activities to sync\n", len(filtered))

	engine := syncer.New(db, client, *force, *batchSize)
	report, runErr := engine.Run(ctx, filtered)

	// The report is always printed, even after per-activity failures or a
	// mid-run cancellation
	total, countErr := db.ActivityCount()
	if countErr != nil {
		logger.Error("failed to count activities", "error", countErr)
	} else {
		metrics.ActivitiesInStore.Set(float64(total))
	}

	fmt.Println()
	fmt.Println("Sync completed!")
	fmt.Printf("  Synced:      %d\n", report.Synced)
	fmt.Printf("  Skipped:     %d\n", report.Skipped)
	fmt.Printf("  Failed:      %d\n", report.Failed)
	fmt.Printf("  Total in DB: %d\n", total)

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Sync interrupted")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		}
		return 1
	}

	if *exportPath != "" {
		if err := exportActivities(db, *exportPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if *downloadFIT {
		if err := downloadFITFiles(ctx, client, filtered, *fitDir, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	return 0
}

// exportActivities writes the committed store contents to a flat file,
// picking the format from the file extension
func exportActivities(db *database.DB, path string) error {
	rows, err := export.FromStore(db)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = export.WriteJSON(f, rows)
	} else {
		err = export.WriteCSV(f, rows)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d activities to %s\n", len(rows), path)
	return nil
}

var fitNameSanitizer = regexp.MustCompile(`[^a-z0-9_-]`)

// downloadFITFiles fetches the raw FIT blob for each activity into dir,
// named YYYYMMDD_<sanitized-name>.fit
func downloadFITFiles(ctx context.Context, client *stryd.Client, activities []stryd.ActivitySummary, dir string, logger *slog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	fmt.Printf("Downloading FIT files to %s/\n", dir)

	var succeeded, failed int
	for i, activity := range activities {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		dateStr := time.Unix(activity.Timestamp, 0).Format("20060102")
		cleanName := strings.ReplaceAll(strings.ToLower(activity.Name), " ", "_")
		cleanName = fitNameSanitizer.ReplaceAllString(cleanName, "")
		filename := filepath.Join(dir, dateStr+"_"+cleanName+".fit")

		data, err := client.DownloadFITFile(ctx, activity.ID)
		if err != nil {
			logger.Warn("FIT download failed", "activity_id", activity.ID, "error", err)
			failed++
			continue
		}

		if err := os.WriteFile(filename, data, 0o644); err != nil {
			logger.Warn("failed to write FIT file", "path", filename, "error", err)
			failed++
			continue
		}

		fmt.Printf("  [%d/%d] %s\n", i+1, len(activities), filepath.Base(filename))
		succeeded++
	}

	fmt.Printf("Download complete: %d successful, %d failed\n", succeeded, failed)
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `stryd-activity-sync - synchronize Stryd activities to a local SQLite database

Usage:
  stryd-activity-sync [options] [days]

Arguments:
  days           Number of days to sync, counted back from now (default: 30)
                 Must come after any options.

Options:
  -date YYYYMMDD   Sync a single calendar day instead of a day window
                   (-d is accepted as shorthand)
  -force           Resynchronize activities that are already in the database
  -q               Only log errors
  -batch-size N    Activities per progress batch (default: 10)
  -db PATH         Database file path
  -export FILE     Export synced activities to FILE (.csv or .json)
  -fit             Download FIT files for the synced range
  -output DIR      Directory for FIT files (default: fit_files)

Environment Variables:
  STRYD_EMAIL      Stryd account email (required)
  STRYD_PASSWORD   Stryd account password (required)
  DATABASE_PATH    Default database file path
  LOG_LEVEL        debug, info, warn or error (default: info)
  METRICS_ENABLED  Serve Prometheus metrics during the run
  METRICS_HOST     Metrics listen host (default: localhost)
  METRICS_PORT     Metrics listen port (default: 4102)

Examples:
  stryd-activity-sync              Sync the last 30 days
  stryd-activity-sync 90           Sync the last 90 days
  stryd-activity-sync -date 20260115
  stryd-activity-sync -force 90
  stryd-activity-sync -export activities.csv 30`)
}
