package scraper

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"listingscraper/pkg/config"
	"listingscraper/pkg/errors"
	"listingscraper/pkg/logger"
	"listingscraper/pkg/metadata"
	"listingscraper/pkg/models"
	"listingscraper/pkg/provider"
)

const listingURL = "https://www.redfin.com/IL/Springfield/123-Main-St-62704/home/1234"

// fakeClient serves one page and photo bodies keyed by URL suffix
type fakeClient struct {
	page    string
	pageErr error
	photos  map[string]int

	mu        sync.Mutex
	pageCalls int
	photoURLs []string
}

func (f *fakeClient) FetchPage(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	f.pageCalls++
	f.mu.Unlock()
	if f.pageErr != nil {
		return "", f.pageErr
	}
	return f.page, nil
}

func (f *fakeClient) FetchPhoto(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.photoURLs = append(f.photoURLs, url)
	f.mu.Unlock()
	for suffix, size := range f.photos {
		if strings.HasSuffix(url, suffix) {
			return []byte(strings.Repeat("p", size)), nil
		}
	}
	return nil, errors.FromStatus(404, url)
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Output.BaseDirectory = t.TempDir()
	cfg.Download.PolitenessDelay = 0
	cfg.Download.ConcurrentDownloads = 4
	return cfg
}

const redfinPage = `<html><head><title>123 Main St, Springfield, IL 62704 | Redfin</title></head><body>
<h1 class="full-address">123 Main St, Springfield, IL 62704</h1>
<div data-rf-test-id="abp-price"><div class="statsValue">$350,000</div></div>
<img src="https://ssl.cdn-redfin.com/photo/68/bigphoto/123/1234567_0.jpg">
<img src="https://ssl.cdn-redfin.com/photo/68/bigphoto/123/1234567_1.jpg">
<img src="https://ssl.cdn-redfin.com/photo/68/bigphoto/123/1234567_2.jpg">
<script>var gallery = ["https://ssl.cdn-redfin.com/photo/68/bigphoto/123/1234567_0.jpg",
"https://ssl.cdn-redfin.com/photo/68/bigphoto/123/1234567_1.jpg",
"https://ssl.cdn-redfin.com/photo/68/bigphoto/123/1234567_2.jpg"];</script>
</body></html>`

func TestRunDownloadsEachPhotoOnce(t *testing.T) {
	cfg := testConfig(t)
	fc := &fakeClient{page: redfinPage, photos: map[string]int{".jpg": 2048}}
	s := NewWithClient(cfg, fc, nil, logger.NewNopLogger())

	var last int
	res, err := s.Run(context.Background(), listingURL, models.NewCancellationToken(), models.ProgressFunc(func(done, total int) {
		last = done
		assert.Equal(t, 3, total)
	}))
	require.NoError(t, err)

	assert.Equal(t, "redfin", res.Provider)
	assert.Equal(t, 3, res.Summary.Total)
	assert.Equal(t, 3, res.Summary.Succeeded)
	assert.Equal(t, 0, res.Summary.Failed)
	assert.False(t, res.Summary.Cancelled)
	assert.NotEmpty(t, res.Summary.RunID)
	assert.Equal(t, 3, last)

	wantDir := filepath.Join(cfg.Output.BaseDirectory, "123 Main St Springfield IL 62704")
	assert.Equal(t, wantDir, res.Summary.Folder)
	assert.Equal(t, "123 Main St, Springfield, IL 62704", res.Summary.Address)

	for _, name := range []string{"001_1234567_0.jpg", "002_1234567_1.jpg", "003_1234567_2.jpg"} {
		info, err := os.Stat(filepath.Join(wantDir, name))
		require.NoError(t, err, name)
		assert.EqualValues(t, 2048, info.Size())
	}
	assert.Equal(t, 1, fc.pageCalls)
}

func TestRunWritesListingDetails(t *testing.T) {
	cfg := testConfig(t)
	fc := &fakeClient{page: redfinPage, photos: map[string]int{".webp": 4096}}
	s := NewWithClient(cfg, fc, nil, logger.NewNopLogger())

	res, err := s.Run(context.Background(), listingURL, models.NewCancellationToken(), nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(res.Summary.Folder, metadata.DefaultFileName), res.MetadataPath)
	rec, err := metadata.Load(res.Summary.Folder, cfg.Output.MetadataFile)
	require.NoError(t, err)
	assert.Equal(t, "redfin", rec.Provider)
	assert.Equal(t, "$350,000", rec.Price)
	assert.Equal(t, listingURL, rec.URL)
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	fc := &fakeClient{page: redfinPage, photos: map[string]int{".jpg": 2048}}
	s := NewWithClient(cfg, fc, nil, logger.NewNopLogger())

	_, err := s.Run(context.Background(), listingURL, models.NewCancellationToken(), nil)
	require.NoError(t, err)
	first := len(fc.photoURLs)

	res, err := s.Run(context.Background(), listingURL, models.NewCancellationToken(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Summary.Succeeded)
	assert.Equal(t, first, len(fc.photoURLs), "second run must not request photos")
}

func TestRunUsesTitleWhenNoAddressElement(t *testing.T) {
	cfg := testConfig(t)
	page := `<html><head><title>9 Elm Rd, Dover | Redfin</title></head><body>
<img src="https://ssl.cdn-redfin.com/photo/1/bigphoto/9/99_0.jpg"></body></html>`
	fc := &fakeClient{page: page, photos: map[string]int{".jpg": 5000}}
	s := NewWithClient(cfg, fc, nil, logger.NewNopLogger())

	res, err := s.Run(context.Background(), listingURL, models.NewCancellationToken(), nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Output.BaseDirectory, "9 Elm Rd Dover"), res.Summary.Folder)
}

func TestRunReportsFailedPhotos(t *testing.T) {
	cfg := testConfig(t)
	fc := &fakeClient{page: redfinPage, photos: map[string]int{"1234567_1.jpg": 10, "1234567_0.jpg": 3000, "1234567_2.webp": 3000}}
	s := NewWithClient(cfg, fc, nil, logger.NewNopLogger())

	res, err := s.Run(context.Background(), listingURL, models.NewCancellationToken(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Summary.Succeeded)
	assert.Equal(t, 1, res.Summary.Failed)
}

func TestRunUnsupportedURL(t *testing.T) {
	cfg := testConfig(t)
	fc := &fakeClient{page: redfinPage}
	s := NewWithClient(cfg, fc, nil, logger.NewNopLogger())

	_, err := s.Run(context.Background(), "https://example.com/listing/1", models.NewCancellationToken(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeConfiguration))
	assert.Zero(t, fc.pageCalls)
}

func TestRunPageFetchFailure(t *testing.T) {
	cfg := testConfig(t)
	fc := &fakeClient{pageErr: errors.FromStatus(503, listingURL)}
	s := NewWithClient(cfg, fc, nil, logger.NewNopLogger())

	_, err := s.Run(context.Background(), listingURL, models.NewCancellationToken(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeServerError))

	entries, err := os.ReadDir(cfg.Output.BaseDirectory)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunNoPhotos(t *testing.T) {
	cfg := testConfig(t)
	fc := &fakeClient{page: `<html><h1 class="full-address">1 Empty Ln</h1></html>`}
	s := NewWithClient(cfg, fc, nil, logger.NewNopLogger())

	_, err := s.Run(context.Background(), listingURL, models.NewCancellationToken(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeExtractionEmpty))
	assert.Empty(t, fc.photoURLs)
}

func TestRunCancelledBeforeStart(t *testing.T) {
	cfg := testConfig(t)
	fc := &fakeClient{page: redfinPage, photos: map[string]int{".jpg": 2048}}
	s := NewWithClient(cfg, fc, nil, logger.NewNopLogger())

	token := models.NewCancellationToken()
	token.Cancel()

	res, err := s.Run(context.Background(), listingURL, token, nil)
	require.NoError(t, err)
	assert.True(t, res.Summary.Cancelled)
	assert.Equal(t, 0, res.Summary.Succeeded)
	assert.Equal(t, 0, res.Summary.Failed)
	assert.Empty(t, fc.photoURLs)
}

func TestInspectBuildsPlan(t *testing.T) {
	cfg := testConfig(t)
	fc := &fakeClient{page: redfinPage}
	s := NewWithClient(cfg, fc, provider.NewSelector(provider.NewRedfin()), logger.NewNopLogger())

	plan, err := s.Inspect(context.Background(), listingURL)
	require.NoError(t, err)
	require.Len(t, plan.Tasks, 3)
	assert.Equal(t, "redfin", plan.Provider)
	assert.Equal(t, "https://ssl.cdn-redfin.com/photo/68/bigphoto/123/1234567_0.webp", plan.Tasks[0].Candidates[0].URL)

	_, err = os.Stat(plan.Folder)
	assert.True(t, os.IsNotExist(err), "inspect must not create the folder")
}
