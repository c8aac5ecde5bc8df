package scraper

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"listingscraper/internal/downloader"
	"listingscraper/pkg/client"
	"listingscraper/pkg/config"
	"listingscraper/pkg/errors"
	"listingscraper/pkg/logger"
	"listingscraper/pkg/metadata"
	"listingscraper/pkg/models"
	"listingscraper/pkg/provider"
	"listingscraper/pkg/retry"
	"listingscraper/pkg/storage"
)

// Scraper runs one listing end to end: select the provider, fetch the page,
// extract photos and metadata, resolve the folder and download
type Scraper struct {
	client   ListingClient
	selector *provider.Selector
	config   *config.Config
	logger   logger.Logger
}

// Plan is what a run would download, without touching the filesystem
type Plan struct {
	Provider string
	Metadata models.ListingMetadata
	Photos   []models.PhotoDescriptor
	Tasks    []models.DownloadTask
	Folder   string
}

// Result is the outcome of a finished run
type Result struct {
	Provider     string
	Metadata     models.ListingMetadata
	MetadataPath string
	Summary      models.RunSummary
	Outcomes     []models.DownloadOutcome
}

// New creates a Scraper with an HTTP client built from cfg
func New(cfg *config.Config, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}
	c := client.NewClient(cfg.Client, retry.FromSettings(cfg.Retry, log), log)
	return NewWithClient(cfg, c, provider.DefaultSelector(), log)
}

// NewWithClient creates a Scraper around an existing client and selector
func NewWithClient(cfg *config.Config, c ListingClient, selector *provider.Selector, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}
	if selector == nil {
		selector = provider.DefaultSelector()
	}
	return &Scraper{
		client:   c,
		selector: selector,
		config:   cfg,
		logger:   log,
	}
}

// Selector exposes the provider registry
func (s *Scraper) Selector() *provider.Selector {
	return s.selector
}

// Inspect fetches and parses a listing and returns the download plan.
// Unsupported URLs fail before any request; a page without photos is an
// extraction_empty error.
func (s *Scraper) Inspect(ctx context.Context, listingURL string) (*Plan, error) {
	p, err := s.selector.Select(listingURL)
	if err != nil {
		return nil, err
	}
	log := s.logger.WithFields(map[string]interface{}{
		"provider": p.Name(),
		"url":      listingURL,
	})

	page, err := s.client.FetchPage(ctx, listingURL)
	if err != nil {
		return nil, err
	}

	photos := p.Identifiers().WithLogger(log).Extract(page)
	meta := p.Metadata().WithLogger(log).Extract(page, listingURL)
	log.InfoWithFields("Listing parsed", map[string]interface{}{
		"photos":  len(photos),
		"address": meta.Address,
	})
	if len(photos) == 0 {
		return nil, errors.New(errors.ErrorTypeExtractionEmpty, "no photos found on %s", listingURL)
	}

	folder := storageFolder(s.config.Output.BaseDirectory, meta.Address)
	builder := p.URLBuilder()
	tasks := make([]models.DownloadTask, len(photos))
	for i, d := range photos {
		tasks[i] = models.DownloadTask{
			Descriptor: d,
			Candidates: builder.Build(d),
			Dir:        folder,
		}
	}

	return &Plan{
		Provider: p.Name(),
		Metadata: meta,
		Photos:   photos,
		Tasks:    tasks,
		Folder:   folder,
	}, nil
}

// Run downloads every photo of listingURL. Per-photo failures only show up
// in the summary; cancellation through token is reported as
// Summary.Cancelled, not as an error.
func (s *Scraper) Run(ctx context.Context, listingURL string, token *models.CancellationToken, progress models.ProgressReporter) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := s.logger.WithField("run_id", runID)

	plan, err := s.Inspect(ctx, listingURL)
	if err != nil {
		log.WithError(err).Warn("Run aborted")
		return nil, err
	}

	folder, err := storage.ResolveFolder(s.config.Output.BaseDirectory, plan.Metadata.Address)
	if err != nil {
		return nil, err
	}

	metaPath, err := metadata.NewRecord(plan.Metadata, plan.Provider).Save(folder, s.config.Output.MetadataFile)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeStorage, err, "saving listing details")
	}

	pool := downloader.NewWorkerPool(downloader.Options{
		Workers:         s.config.Download.ConcurrentDownloads,
		MinContentBytes: s.config.Download.MinContentBytes,
		PolitenessDelay: s.config.Download.PolitenessDelay,
	}, s.client, log)

	summary, outcomes := pool.Run(ctx, plan.Tasks, token, progress)
	summary.RunID = runID
	summary.Address = plan.Metadata.Address
	summary.Folder = folder
	summary.Duration = time.Since(start)

	logger.LogRun(log, runID, summary.Address, summary.Total, summary.Succeeded, summary.Failed, summary.Cancelled, summary.Duration)

	return &Result{
		Provider:     plan.Provider,
		Metadata:     plan.Metadata,
		MetadataPath: metaPath,
		Summary:      summary,
		Outcomes:     outcomes,
	}, nil
}

func storageFolder(root, address string) string {
	return filepath.Join(root, storage.SanitizeAddress(address))
}
