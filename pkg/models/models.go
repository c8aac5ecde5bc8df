package models

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Unavailable is stored in metadata fields no strategy could fill
const Unavailable = "N/A"

// PhotoDescriptor identifies one listing photo independently of the CDN
// variant that is eventually fetched
type PhotoDescriptor struct {
	// ProviderID is unique within a listing and used for deduplication
	ProviderID string `json:"provider_id"`
	// Name is the filename stem
	Name string `json:"name"`
	// SizeHint carries provider data needed to rebuild URLs, such as the
	// CDN bucket or the size token seen on the page
	SizeHint string `json:"size_hint,omitempty"`
	// Index is 1-based in first-seen order
	Index int `json:"index"`
}

// FileStem returns the zero-padded file name without extension
func (d PhotoDescriptor) FileStem() string {
	return fmt.Sprintf("%03d_%s", d.Index, d.Name)
}

// Candidate is one downloadable variant of a photo
type Candidate struct {
	URL string
	Ext string
}

// ListingMetadata is written whole to the sidecar file on every run
type ListingMetadata struct {
	Address     string `json:"address"`
	URL         string `json:"url"`
	Price       string `json:"price"`
	Beds        string `json:"beds"`
	Baths       string `json:"baths"`
	Sqft        string `json:"sqft"`
	Description string `json:"description"`
}

// NewListingMetadata returns a record with every field unavailable
func NewListingMetadata(url string) ListingMetadata {
	return ListingMetadata{
		Address:     Unavailable,
		URL:         url,
		Price:       Unavailable,
		Beds:        Unavailable,
		Baths:       Unavailable,
		Sqft:        Unavailable,
		Description: Unavailable,
	}
}

// DownloadTask is one photo with its ordered candidates
type DownloadTask struct {
	Descriptor PhotoDescriptor
	Candidates []Candidate
	Dir        string
}

// DownloadOutcome reports how a task ended
type DownloadOutcome struct {
	Descriptor    PhotoDescriptor
	Succeeded     bool
	Skipped       bool
	BytesWritten  int64
	ChosenVariant string
	// Attempts counts network requests, not skipped candidates
	Attempts int
	Err      error
}

// RunSummary aggregates one run
type RunSummary struct {
	RunID           string        `json:"run_id"`
	Address         string        `json:"address"`
	Folder          string        `json:"folder"`
	Total           int           `json:"total"`
	Succeeded       int           `json:"succeeded"`
	Failed          int           `json:"failed"`
	Cancelled       bool          `json:"cancelled"`
	NetworkAttempts int           `json:"network_attempts"`
	Duration        time.Duration `json:"duration"`
}

// ProgressReporter receives progress after each finished task
type ProgressReporter interface {
	OnProgress(completed, total int)
}

// ProgressFunc adapts a function to ProgressReporter
type ProgressFunc func(completed, total int)

func (f ProgressFunc) OnProgress(completed, total int) { f(completed, total) }

// CancellationToken is a per-run stop flag. It is set at most once and read
// without locking.
type CancellationToken struct {
	flag atomic.Bool
}

// NewCancellationToken returns an unset token
func NewCancellationToken() *CancellationToken {
	return &CancellationToken{}
}

// Cancel sets the token and reports whether this call was the one that set it
func (t *CancellationToken) Cancel() bool {
	return t.flag.CompareAndSwap(false, true)
}

// Cancelled reports whether the token has been set
func (t *CancellationToken) Cancelled() bool {
	return t.flag.Load()
}
