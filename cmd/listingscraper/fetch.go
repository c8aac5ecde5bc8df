package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"listingscraper/pkg/config"
	"listingscraper/pkg/logger"
	"listingscraper/pkg/metadata"
	"listingscraper/pkg/models"
	"listingscraper/pkg/scraper"
	"listingscraper/pkg/ui"
	"listingscraper/pkg/ui/tui"
)

const (
	exitIncomplete = 2
	exitCancelled  = 130
)

var (
	// Fetch command flags
	outputDir  string
	concurrent int
	minBytes   int64
	timeout    time.Duration
	rate       int
	useTUI     bool
	dryRun     bool
	notify     bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <listing-url>",
	Short: "Download all photos of a listing",
	Long: `Download all photos of a Redfin or Zillow listing.

Photos are saved as <output>/<address>/<NNN>_<name>.<ext>, numbered in page
order, next to a property_details.json file. Photos already on disk are not
downloaded again.

Press Ctrl+C once to stop after the downloads in flight, twice to abort them.`,
	Example: `  # Download into ./listing_images
  listingscraper fetch https://www.redfin.com/IL/Springfield/123-Main-St-62704/home/1234

  # Custom output folder and concurrency
  listingscraper fetch https://www.zillow.com/homedetails/123-Main-St/1_zpid/ -o ./photos --concurrent 5

  # Show what would be downloaded
  listingscraper fetch <url> --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, strings.TrimSpace(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output root directory (default ./listing_images)")
	fetchCmd.Flags().IntVar(&concurrent, "concurrent", 0, "number of concurrent photo downloads (default 10)")
	fetchCmd.Flags().Int64Var(&minBytes, "min-bytes", -1, "smallest response accepted as a photo (default 1001)")
	fetchCmd.Flags().DurationVar(&timeout, "timeout", 0, "per-request timeout (default 10s)")
	fetchCmd.Flags().IntVar(&rate, "rate", 0, "cap on photo requests per minute across all workers (0 = no cap)")
	fetchCmd.Flags().BoolVar(&useTUI, "tui", false, "use the interactive terminal UI")
	fetchCmd.Flags().BoolVar(&dryRun, "dry-run", false, "list photos and candidate URLs without downloading")
	fetchCmd.Flags().BoolVar(&notify, "notify", false, "send a desktop notification when the run ends")
}

func fetchFlags(cmd *cobra.Command) map[string]interface{} {
	flags := globalFlags()
	if cmd.Flags().Changed("output") {
		flags["output"] = outputDir
	}
	if cmd.Flags().Changed("concurrent") {
		flags["concurrent"] = concurrent
	}
	if cmd.Flags().Changed("min-bytes") {
		flags["min-bytes"] = minBytes
	}
	if cmd.Flags().Changed("timeout") {
		flags["timeout"] = timeout
	}
	if cmd.Flags().Changed("rate") {
		flags["rate"] = rate
	}
	return flags
}

func runFetch(cmd *cobra.Command, listingURL string) error {
	cfg, err := config.Load(configFile, fetchFlags(cmd))
	if err != nil {
		return err
	}

	// stderr logs would tear the TUI; keep only errors unless asked otherwise
	if useTUI && logLevel == "" && os.Getenv(config.EnvPrefix+"LOG_LEVEL") == "" {
		cfg.Logging.Level = "error"
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetLogger(log)
	log.WithFields(map[string]interface{}{
		"version": version,
		"url":     listingURL,
	}).Debug("listingscraper starting")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	token := models.NewCancellationToken()
	stop := watchInterrupts(token, cancel, log)
	defer stop()

	s := scraper.New(cfg, log)

	switch {
	case dryRun:
		return runDryRun(ctx, s, listingURL)
	case useTUI:
		return runWithTUI(ctx, s, listingURL, token, cancel)
	default:
		return runWithLines(ctx, s, listingURL, token)
	}
}

func runWithLines(ctx context.Context, s *scraper.Scraper, listingURL string, token *models.CancellationToken) error {
	color := useColor(os.Stdout)
	printer := ui.NewPrinter(os.Stdout, color)
	if isTerminal(os.Stdout) {
		printer.Banner()
	}
	printer.Info("Listing", listingURL)

	display := ui.NewProgressDisplay(os.Stdout, "photos", color, isTerminal(os.Stdout))
	res, err := s.Run(ctx, listingURL, token, display)
	if err != nil {
		return &exitError{code: 1, err: err}
	}

	printer.Info("Provider", res.Provider)
	printer.Lines(metadata.NewRecord(res.Metadata, res.Provider).Lines())
	display.Complete(res.Summary)

	return finish(res.Summary)
}

func runWithTUI(ctx context.Context, s *scraper.Scraper, listingURL string, token *models.CancellationToken, abort context.CancelFunc) error {
	type outcome struct {
		res *scraper.Result
		err error
	}

	t := tui.NewTUI(listingURL, func() { token.Cancel() }, abort)
	done := make(chan outcome, 1)
	go func() {
		res, err := s.Run(ctx, listingURL, token, t)
		msg := tui.DoneMsg{Err: err}
		if res != nil {
			msg.Summary = res.Summary
		}
		t.Finish(msg)
		done <- outcome{res: res, err: err}
	}()

	if err := t.Run(); err != nil {
		abort()
		<-done
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	o := <-done
	if o.err != nil {
		return &exitError{code: 1, err: o.err}
	}

	printer := ui.NewPrinter(os.Stdout, useColor(os.Stdout))
	printer.Lines(metadata.NewRecord(o.res.Metadata, o.res.Provider).Lines())
	fmt.Println(ui.SummaryLine(o.res.Summary, useColor(os.Stdout)))
	fmt.Printf("  %s\n", o.res.Summary.Folder)

	return finish(o.res.Summary)
}

func runDryRun(ctx context.Context, s *scraper.Scraper, listingURL string) error {
	plan, err := s.Inspect(ctx, listingURL)
	if err != nil {
		return &exitError{code: 1, err: err}
	}

	printer := ui.NewPrinter(os.Stdout, useColor(os.Stdout))
	printer.Info("Provider", plan.Provider)
	printer.Info("Folder", plan.Folder)
	printer.Lines(metadata.NewRecord(plan.Metadata, plan.Provider).Lines())
	printer.Info("Photos", fmt.Sprint(len(plan.Tasks)))
	for _, task := range plan.Tasks {
		fmt.Printf("  %s\n", task.Descriptor.FileStem())
		for _, c := range task.Candidates {
			fmt.Printf("    %s\n", c.URL)
		}
	}
	return nil
}

// finish sends the optional notification and maps the summary to an exit code
func finish(summary models.RunSummary) error {
	if notify {
		if err := ui.NewNotifier().NotifyRun(summary); err != nil {
			logger.WithError(err).Debug("Desktop notification failed")
		}
	}

	switch {
	case summary.Cancelled:
		return &exitError{code: exitCancelled, err: fmt.Errorf("run cancelled after %d of %d photos", summary.Succeeded, summary.Total)}
	case summary.Failed > 0:
		return &exitError{code: exitIncomplete, err: fmt.Errorf("%d of %d photos could not be downloaded", summary.Failed, summary.Total)}
	}
	return nil
}
