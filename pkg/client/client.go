package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"listingscraper/pkg/config"
	"listingscraper/pkg/errors"
	"listingscraper/pkg/logger"
	"listingscraper/pkg/ratelimit"
	"listingscraper/pkg/retry"
)

const (
	// maxPageBytes caps how much of a listing page is read into memory
	maxPageBytes = 20 << 20
	// maxPhotoBytes rejects photo responses larger than any real listing image
	maxPhotoBytes = 50 << 20
)

// Client fetches listing pages and photo bytes with browser-like headers
type Client struct {
	httpClient     *http.Client
	headers        map[string]string
	requestTimeout time.Duration
	pageTimeout    time.Duration
	retry          *retry.Config
	// photos is nil when photo requests are not capped
	photos         ratelimit.Limiter
	logger         logger.Logger
	maxPhotoBytes  int64
}

// NewClient creates a client from the client settings. A nil retry config
// means a single attempt per page.
func NewClient(cfg config.ClientConfig, retryCfg *retry.Config, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if retryCfg == nil {
		retryCfg = &retry.Config{MaxAttempts: 1}
	}
	if retryCfg.Logger == nil {
		retryCfg.Logger = log
	}

	return &Client{
		// no cookie jar: every request is stateless
		httpClient: &http.Client{},
		headers: map[string]string{
			"User-Agent":      cfg.UserAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
			"Cache-Control":   "no-cache",
			"Pragma":          "no-cache",
			"Sec-Fetch-Dest":  "document",
			"Sec-Fetch-Mode":  "navigate",
			"Sec-Fetch-Site":  "none",
		},
		requestTimeout: cfg.RequestTimeout,
		pageTimeout:    cfg.PageTimeout,
		retry:          retryCfg,
		photos:         ratelimit.PerMinute(cfg.MaxRequestsPerMinute),
		logger:         log,
		maxPhotoBytes:  maxPhotoBytes,
	}
}

// SetHTTPClient swaps the underlying HTTP client
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// SetPhotoLimiter caps photo requests shared by all callers; nil removes the cap
func (c *Client) SetPhotoLimiter(l ratelimit.Limiter) {
	c.photos = l
}

// SetHeader sets a custom header for every request
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// doRequest performs one GET bounded by timeout and returns the body of a
// 200 response. Transport failures are network errors; any other status is
// mapped through errors.FromStatus.
func (c *Client) doRequest(ctx context.Context, url string, timeout time.Duration, limit int64) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeConfiguration, err, "invalid request URL %q", url)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugWithFields("HTTP request failed", map[string]interface{}{
			"url":      url,
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return nil, errors.Wrap(errors.ErrorTypeNetwork, err, "request to %s failed", url)
	}
	defer resp.Body.Close()

	logger.LogRequest(c.logger, req.Method, url, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, errors.FromStatus(resp.StatusCode, url)
	}

	var body io.Reader = resp.Body
	if limit > 0 {
		body = io.LimitReader(resp.Body, limit)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeNetwork, err, "reading body of %s", url)
	}
	return data, nil
}

// FetchPage returns the raw markup of a listing page. Transient failures are
// retried per the retry config; each attempt gets the request timeout and the
// whole call is bounded by the page timeout.
func (c *Client) FetchPage(ctx context.Context, url string) (string, error) {
	if c.pageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.pageTimeout)
		defer cancel()
	}

	body, err := retry.DoWithResult(ctx, func(ctx context.Context) ([]byte, error) {
		return c.doRequest(ctx, url, c.requestTimeout, maxPageBytes)
	}, c.retry)
	if err != nil {
		c.logger.WithError(err).WithField("url", url).Warn("Failed to fetch listing page")
		return "", fmt.Errorf("fetch listing page: %w", err)
	}

	c.logger.DebugWithFields("Listing page fetched", map[string]interface{}{
		"url":   url,
		"bytes": len(body),
	})
	return string(body), nil
}

// FetchPhoto downloads one photo variant in a single attempt. Non-200
// responses come back as typed errors carrying the status code. Bodies over
// the photo size cap are rejected rather than truncated.
func (c *Client) FetchPhoto(ctx context.Context, url string) ([]byte, error) {
	if c.photos != nil {
		if err := c.photos.Wait(ctx); err != nil {
			return nil, errors.Wrap(errors.ErrorTypeNetwork, err, "waiting for request slot")
		}
	}

	data, err := c.doRequest(ctx, url, c.requestTimeout, c.maxPhotoBytes+1)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > c.maxPhotoBytes {
		return nil, errors.New(errors.ErrorTypeServerError, "photo at %s exceeds %d bytes", url, c.maxPhotoBytes)
	}
	return data, nil
}
